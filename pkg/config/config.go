// Package config loads taskmate settings from the config file and
// TASKMATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	xdgAppName = "taskmate"
	configFile = "config.yaml"
	envPrefix  = "TASKMATE"
)

// Backends a task list can be stored in.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Backend string       `mapstructure:"backend"`
	Sheets  SheetsConfig `mapstructure:"sheets"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Cache   CacheConfig  `mapstructure:"cache"`
	Server  ServerConfig `mapstructure:"server"`
	Log     LogConfig    `mapstructure:"log"`
}

type SheetsConfig struct {
	Credentials string `mapstructure:"credentials"`
	URL         string `mapstructure:"url"`
	Worksheet   string `mapstructure:"worksheet"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// GetConfigPath returns the default config file location.
func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSheets)
	v.SetDefault("sheets.credentials", "")
	v.SetDefault("sheets.url", "")
	v.SetDefault("sheets.worksheet", "")
	v.SetDefault("sqlite.path", "")
	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("server.addr", "127.0.0.1:8501")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.path", "")
}

func newViper(path string) (*viper.Viper, error) {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return nil, err
		}
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load reads the config file at path (the default location when empty).
// A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check for us.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheets, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendSheets, BackendSQLite, BackendMemory)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// Set writes a single key to the config file at path, keeping the other
// keys already stored there.
func Set(path, key string, value any) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}
