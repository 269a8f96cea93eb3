package config

type Logging struct{}

var _ LogConfig = Logging{}

func (Logging) GetLogLevel() string {
	return GetEnv("LOG_LEVEL", "info")
}

// GetLogFormat returns "console" or "json".
func (Logging) GetLogFormat() string {
	return GetEnv("LOG_FORMAT", "console")
}
