package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration.
type Config struct {
	// Application name used in alert headers (X-<name>-alert).
	AppName     string `yaml:"app_name"`
	Environment string `yaml:"environment"`

	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Mirror   MirrorConfig   `yaml:"mirror"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// StorageConfig points at the remote entity store.
type StorageConfig struct {
	BaseURL  string `yaml:"base_url"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Timeout  string `yaml:"timeout"`
}

// DatabaseConfig configures the local sqlite mirror.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type MirrorConfig struct {
	// Zero disables the background sync.
	SyncInterval string `yaml:"sync_interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AppName:     "pro5App",
		Environment: "development",
		Server: ServerConfig{
			Port:         "8081",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Storage: StorageConfig{
			BaseURL:  "http://localhost:8080",
			Database: "pro5",
			Timeout:  "10s",
		},
		Database: DatabaseConfig{
			Path: "./pro5.db",
		},
		Mirror: MirrorConfig{
			SyncInterval: "5m",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:8081",
				"http://localhost:9000",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("STORAGE_BASE_URL"); v != "" {
		c.Storage.BaseURL = v
	}
	if v := os.Getenv("STORAGE_DATABASE"); v != "" {
		c.Storage.Database = v
	}
	if v := os.Getenv("STORAGE_USERNAME"); v != "" {
		c.Storage.Username = v
	}
	if v := os.Getenv("STORAGE_PASSWORD"); v != "" {
		c.Storage.Password = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MIRROR_SYNC_INTERVAL"); v != "" {
		c.Mirror.SyncInterval = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Storage.BaseURL == "" {
		return fmt.Errorf("storage.base_url is required")
	}
	if c.Storage.Database == "" {
		return fmt.Errorf("storage.database is required")
	}
	for name, v := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"storage.timeout":      c.Storage.Timeout,
		"mirror.sync_interval": c.Mirror.SyncInterval,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}

// IsDevelopment reports whether the gateway runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 15*time.Second)
}

func (c *Config) GetStorageTimeout() time.Duration {
	return parseDuration(c.Storage.Timeout, 10*time.Second)
}

// GetSyncInterval returns the mirror sync interval; zero means disabled.
func (c *Config) GetSyncInterval() time.Duration {
	return parseDuration(c.Mirror.SyncInterval, 0)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
