// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "nanosaur"
	// ParamsFileName is the persisted configuration file name.
	ParamsFileName = "params.yml"
)

// ConfigDir returns the per-user configuration directory:
// $XDG_CONFIG_HOME/nanosaur, defaulting to ~/.config/nanosaur.
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// DefaultPath returns the fixed per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ParamsFileName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
