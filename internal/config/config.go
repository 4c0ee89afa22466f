package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds Plex server configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // Server URL
	Token string `mapstructure:"token"` // X-Plex-Token
}

// CacheConfig holds snapshot cache configuration
type CacheConfig struct {
	File string        `mapstructure:"file"` // Snapshot file path
	TTL  time.Duration `mapstructure:"ttl"`  // Max snapshot age before rebuild
}

// SearchConfig holds matching configuration
type SearchConfig struct {
	// DefaultType restricts unscoped exact search to one media type.
	// Empty disables the restriction.
	DefaultType string `mapstructure:"default_type"`
	Threshold   int    `mapstructure:"threshold"` // Fuzzy threshold 0-100
	Limit       int    `mapstructure:"limit"`     // Max rows rendered per outcome
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Cache: CacheConfig{
			File: defaultCacheFile(),
			TTL:  6 * time.Hour,
		},
		Search: SearchConfig{
			DefaultType: "movie",
			Threshold:   85,
			Limit:       20,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexsearch", "plexsearch.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "plexsearch", "plexsearch.log")
	}
}

// defaultCacheFile returns the default snapshot file path for the current OS
func defaultCacheFile() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "plexsearch", "cache.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "plexsearch", "cache.json")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexsearch")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "plexsearch")
	}
}

// Load reads configuration from file and environment. A .env file in the
// working directory is honored first, then PLEX_BASE / PLEX_TOKEN /
// PLEX_CHECK_LOG override the corresponding keys. An explicit path
// overrides the default config search locations.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PLEX")
	v.AutomaticEnv()
	_ = v.BindEnv("server.url", "PLEX_BASE")
	_ = v.BindEnv("server.token", "PLEX_TOKEN")
	_ = v.BindEnv("logging.level", "PLEX_CHECK_LOG")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}
