// Package config reads server configuration from the environment.
package config

import "os"

// Storage mode selects which persistence backend the server runs against.
const (
	StorageModeLocal  = "local"
	StorageModeRemote = "remote"
)

// Config holds server configuration
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// StorageMode is "local" (single-process JSON file store) or "remote"
	// (identity-scoped Postgres store).
	StorageMode string
	// DataFile is the path of the local state file (local mode only).
	DataFile string
	// AuthSecret signs and verifies session tokens (remote mode only).
	AuthSecret string
}

// New creates a new configuration from environment variables
func New() *Config {
	return &Config{
		Addr:        getEnv("LISTEN_ADDR", ":8080"),
		StorageMode: getEnv("STORAGE_MODE", StorageModeLocal),
		DataFile:    getEnv("DATA_FILE", "coindex.json"),
		AuthSecret:  getEnv("AUTH_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
