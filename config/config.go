package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Directory DirectoryConfig
	Store     StoreConfig
	Sync      SyncConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DirectoryConfig holds remote product directory configuration
type DirectoryConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PageSize       int           `mapstructure:"page_size"`
	SampleCount    int           `mapstructure:"sample_count"`
	RateLimitRPS   float64       `mapstructure:"ratelimit_rps"`
	RateLimitBurst int           `mapstructure:"ratelimit_burst"`
	LookupTTL      time.Duration `mapstructure:"lookup_ttl"`
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty means memory-only
}

// SyncConfig holds favorites sync configuration
type SyncConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	UserID  string        `mapstructure:"user_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skinshelf/")

	// Environment variable settings
	v.SetEnvPrefix("SKINSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Directory defaults
	v.SetDefault("directory.base_url", "https://world.openbeautyfacts.org")
	v.SetDefault("directory.user_agent", "SkinShelf/1.0 (backend)")
	v.SetDefault("directory.timeout", "30s")
	v.SetDefault("directory.page_size", 20)
	v.SetDefault("directory.sample_count", 20)
	v.SetDefault("directory.ratelimit_rps", 0.5)
	v.SetDefault("directory.ratelimit_burst", 5)
	v.SetDefault("directory.lookup_ttl", "1h")

	// Store defaults
	v.SetDefault("store.path", "data/skinshelf.db")

	// Sync defaults
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.timeout", "10s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Directory.BaseURL == "" {
		return fmt.Errorf("directory base URL is required (set SKINSHELF_DIRECTORY_BASE_URL)")
	}

	if config.Directory.PageSize < 1 || config.Directory.PageSize > 100 {
		return fmt.Errorf("directory page size must be between 1 and 100, got: %d", config.Directory.PageSize)
	}

	if config.Directory.SampleCount < 1 || config.Directory.SampleCount > 200 {
		return fmt.Errorf("directory sample count must be between 1 and 200, got: %d", config.Directory.SampleCount)
	}

	if config.Sync.Enabled && config.Sync.BaseURL == "" {
		return fmt.Errorf("sync base URL is required when sync is enabled")
	}

	if config.Sync.Enabled && config.Sync.UserID == "" {
		return fmt.Errorf("sync user ID is required when sync is enabled")
	}

	return nil
}
