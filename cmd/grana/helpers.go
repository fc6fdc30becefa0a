package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/granadev/grana/internal/storage"
	"github.com/spf13/viper"
)

// owner returns the user id all commands operate as.
func owner() string {
	return viper.GetString("owner")
}

// databasePath resolves the configured database location.
func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "grana", "grana.db"), nil
}

// openStorage opens the configured database. The caller must Close it.
func openStorage() (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}
