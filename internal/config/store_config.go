package config

import "path/filepath"

const (
	homeEnvVar      = "TENANT_STORE_HOME"
	storeFileEnvVar = "TENANT_STORE_FILE"

	// DataDir and StoreFileName locate the store file under the home directory.
	DataDir       = "data"
	StoreFileName = "tenant-store.xml"
)

type Store struct{}

var _ StoreConfig = Store{}

// GetHome returns the installation home directory, defaulting to the working directory.
func (Store) GetHome() string {
	return GetEnv(homeEnvVar, ".")
}

// GetStoreFile returns TENANT_STORE_FILE when set, otherwise <home>/data/tenant-store.xml.
func (s Store) GetStoreFile() string {
	if file := GetEnv(storeFileEnvVar, ""); file != "" {
		return file
	}
	return filepath.Join(s.GetHome(), DataDir, StoreFileName)
}
