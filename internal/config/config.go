// Package config resolves the configuration directory and loads settings.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "tarefa"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv file inside the config directory.
	EnvFile = ".env"

	// EnvPrefix prefixes environment overrides, e.g. TAREFA_STORAGE_BACKEND.
	EnvPrefix = "TAREFA"

	// OAuthClientFile is the OAuth client credentials filename used by import.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `mapstructure:"-"`

	// Debug enables debug logging.
	Debug bool `mapstructure:"-"`

	// Quiet suppresses informational output.
	Quiet bool `mapstructure:"-"`

	Storage StorageConfig `mapstructure:"storage"`
	Tasks   TasksConfig   `mapstructure:"tasks"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite memory"`
	// Path overrides the default location. Empty means a location inside Dir.
	Path string `mapstructure:"path"`
	Key  string `mapstructure:"key" validate:"required"`
}

// TasksConfig controls how tasks are created.
type TasksConfig struct {
	KeyStrategy string `mapstructure:"key_strategy" validate:"required,oneof=uuid text"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StoragePath returns the configured storage path, or the backend's default
// location inside the config directory.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(c.Dir, AppName+".db")
	}
	return filepath.Join(c.Dir, "data")
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
