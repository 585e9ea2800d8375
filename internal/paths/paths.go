// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".easel"
	DefaultDataDirName   = ".easel-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "EASEL_CONFIG_DIR"
	EnvDataDir   = "EASEL_DATA_DIR"
)

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > EASEL_CONFIG_DIR env > $(CWD)/.easel.
//
// Like the data dir, the default is CWD-relative so a project carries its
// own configuration.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > EASEL_DATA_DIR env > $(CWD)/.easel-db.
//
// The CWD-relative default keeps backups and snapshots next to the project
// being worked on when no override is active.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
