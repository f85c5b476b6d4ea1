// Package config provides configuration management for go-jf-snapshot.
// It uses koanf to load a YAML file with environment variable overrides,
// applies defaults, and validates the result before the service starts.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before they are mapped
// onto config paths: JF_SNAPSHOT_JELLYFIN_SERVER_URL -> jellyfin.server_url.
const envPrefix = "JF_SNAPSHOT_"

// Config holds the complete configuration for the go-jf-snapshot service.
type Config struct {
	Jellyfin JellyfinConfig `koanf:"jellyfin"`
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// JellyfinConfig contains upstream server connection and authentication
// settings. ServerURL and APIKey are required; startup fails without them.
type JellyfinConfig struct {
	ServerURL         string        `koanf:"server_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// StoreConfig locates the snapshot store file.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	EnableCompression bool          `koanf:"enable_compression"`
}

// LoggingConfig defines logging behavior and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads configuration from the YAML file at configPath (skipped if the
// file does not exist, so an env-only setup works) and overlays JF_SNAPSHOT_*
// environment variables on top. Returns a validated Config.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	// Environment variables take priority over the file:
	// JF_SNAPSHOT_JELLYFIN_API_KEY -> jellyfin.api_key
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// envTransform maps an environment variable name (prefix already stripped)
// onto a koanf path. The first underscore separates the section from the key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// applyDefaults sets sensible defaults for configuration values that weren't
// specified. The required Jellyfin credentials have no defaults.
func applyDefaults(config *Config) {
	if config.Jellyfin.Timeout == 0 {
		config.Jellyfin.Timeout = 30 * time.Second
	}
	if config.Jellyfin.RequestsPerMinute == 0 {
		config.Jellyfin.RequestsPerMinute = 60
	}

	if config.Store.Path == "" {
		config.Store.Path = "sessions_db.json"
	}

	if config.Server.Port == 0 {
		config.Server.Port = 10691
	}
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 15 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 15 * time.Second
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

// GetLogLevel converts the string log level to slog.Level.
// Returns slog.LevelInfo for invalid or unknown levels.
func (c *LoggingConfig) GetLogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
