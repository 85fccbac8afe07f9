package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied before the config file and environment.
var defaults = map[string]any{
	"storage.backend":    "file",
	"storage.path":       "",
	"storage.key":        "@task",
	"tasks.key_strategy": "uuid",
	"log.level":          "warn",
}

// Load reads settings for the given config directory (DefaultConfigDir when
// empty). Sources, lowest precedence first: defaults, <dir>/config.yaml,
// <dir>/.env, TAREFA_* environment variables. A missing config.yaml or .env
// is not an error.
func Load(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	// godotenv never overrides variables already set in the environment.
	envPath := filepath.Join(dir, EnvFile)
	if fileExists(envPath) {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfgPath := filepath.Join(dir, ConfigFile)
	if fileExists(cfgPath) {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", cfgPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{Dir: dir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Tasks.KeyStrategy = strings.ToLower(strings.TrimSpace(cfg.Tasks.KeyStrategy))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
