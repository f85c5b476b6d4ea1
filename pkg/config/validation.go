package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validate performs validation of the configuration.
// Returns an error describing the first validation failure found.
func validate(config *Config) error {
	if err := validateJellyfin(&config.Jellyfin); err != nil {
		return fmt.Errorf("jellyfin config: %w", err)
	}

	if err := validateStore(&config.Store); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := validateServer(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// validateJellyfin validates the upstream server configuration. Missing
// credentials are a fatal startup condition.
func validateJellyfin(config *JellyfinConfig) error {
	if config.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	if !strings.HasPrefix(config.ServerURL, "http://") && !strings.HasPrefix(config.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://")
	}

	if config.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}

	if config.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}

	return nil
}

// validateStore checks that the store file's directory exists or can be created.
func validateStore(config *StoreConfig) error {
	if config.Path == "" {
		return fmt.Errorf("path is required")
	}

	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create store directory %s: %w", dir, err)
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(config *ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if config.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	return nil
}

// validateLogging validates logging configuration.
func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}

// contains checks if a slice contains a specific string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
