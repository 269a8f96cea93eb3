package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	StoreConfig
	LogConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type StoreConfig interface {
	GetHome() string
	GetStoreFile() string
}

type LogConfig interface {
	GetLogLevel() string
	GetLogFormat() string
}

type mainConfig struct {
	EnvVars
	Store
	Logging
}

func New() Config {
	return mainConfig{}
}

// Load reads the env file named by TENANT_STORE_ENV (.env by default) into the
// process environment and returns the resulting configuration. A missing env
// file is not an error; variables already set in the environment win.
func Load() (Config, error) {
	envFile := GetEnv(envFileVar, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("[config Load] failed to read %s: %w", envFile, err)
	}
	return New(), nil
}
