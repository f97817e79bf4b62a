package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the archivist service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Listing     ListingConfig     `yaml:"listing"`
	Upload      UploadConfig      `yaml:"upload"`
	Categorizer CategorizerConfig `yaml:"categorizer"`
	Auth        AuthConfig        `yaml:"auth"`
	Seed        SeedConfig        `yaml:"seed"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverPebble = "pebble"
)

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, pebble (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"`      // pebble data directory
	InMemory         bool     `yaml:"in_memory"` // pebble only
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ListingConfig holds list view settings.
type ListingConfig struct {
	SearchableFields []string `yaml:"searchable_fields"` // content view term fields
	MaxBulkItems     int      `yaml:"max_bulk_items"`
}

// UploadConfig holds upload queue settings.
type UploadConfig struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
	Workers       int `yaml:"workers"`
	QueueSize     int `yaml:"queue_size"`
}

// Categorizer providers.
const (
	CategorizerRules  = "rules"
	CategorizerOpenAI = "openai"
)

// CategorizerConfig holds auto-categorize settings.
type CategorizerConfig struct {
	Provider    string `yaml:"provider"` // rules (default), openai
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"` // 0 disables the cache
}

// SeedConfig holds the fixture loaded at startup.
type SeedConfig struct {
	Path      string `yaml:"path"` // empty = no seeding
	Overwrite bool   `yaml:"overwrite"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Listing.MaxBulkItems <= 0 {
		c.Listing.MaxBulkItems = 100
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		c.Upload.MaxFileSizeMB = 100
	}
	if c.Upload.Workers <= 0 {
		c.Upload.Workers = 4
	}
	if c.Upload.QueueSize <= 0 {
		c.Upload.QueueSize = 64
	}
	if c.Categorizer.Provider == "" {
		c.Categorizer.Provider = CategorizerRules
	}
	if c.Categorizer.Model == "" {
		c.Categorizer.Model = "gpt-4o-mini"
	}
	if c.Categorizer.TimeoutSec <= 0 {
		c.Categorizer.TimeoutSec = 15
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "archivist:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverPebble:
		if c.Database.Path == "" && !c.Database.InMemory {
			return fmt.Errorf("database.path is required for driver %q unless in_memory is set", DriverPebble)
		}
	default:
		return fmt.Errorf("database.driver must be \"valkey\", \"redis\" or \"pebble\", got %q", c.Database.Driver)
	}
	switch c.Categorizer.Provider {
	case CategorizerRules:
	case CategorizerOpenAI:
		if c.Categorizer.APIKey == "" {
			return fmt.Errorf("categorizer.api_key is required for provider %q", CategorizerOpenAI)
		}
	default:
		return fmt.Errorf("categorizer.provider must be \"rules\" or \"openai\", got %q", c.Categorizer.Provider)
	}
	if c.Categorizer.CacheTTLSec < 0 {
		return fmt.Errorf("categorizer.cache_ttl_sec must not be negative")
	}
	if c.Listing.MaxBulkItems > 1000 {
		return fmt.Errorf("listing.max_bulk_items must be at most 1000, got %d", c.Listing.MaxBulkItems)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
