package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	DART        DARTConfig    `toml:"dart"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Search      SearchConfig  `toml:"search"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects the gorm dialect. Driver is "sqlite" or "postgres".
type StorageConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	DSN    string `toml:"dsn"`
}

// DARTConfig contains OpenDART client settings. The API key is normally
// supplied through OPEN_DART_API_KEY rather than the file.
type DARTConfig struct {
	BaseURL       string  `toml:"base_url"`
	APIKey        string  `toml:"api_key"`
	Timeout       string  `toml:"timeout"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
	CorpCodePath  string  `toml:"corp_code_path"`
}

// GetTimeout parses Timeout, falling back to 15s.
func (c *DARTConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GeminiConfig contains narrative generation settings.
type GeminiConfig struct {
	APIKey          string  `toml:"api_key"`
	BaseURL         string  `toml:"base_url"`
	Model           string  `toml:"model"`
	Timeout         string  `toml:"timeout"`
	Temperature     float32 `toml:"temperature"`
	TopK            float32 `toml:"top_k"`
	TopP            float32 `toml:"top_p"`
	MaxOutputTokens int32   `toml:"max_output_tokens"`
	CacheTTL        string  `toml:"cache_ttl"`
	CacheEntries    int     `toml:"cache_entries"`
}

// GetTimeout parses Timeout, falling back to 30s.
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL parses CacheTTL. Zero disables the narrative cache.
func (c *GeminiConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SearchConfig contains company search settings.
type SearchConfig struct {
	Limit            int `toml:"limit"`
	MinKeywordLength int `toml:"min_keyword_length"`
	TrendYears       int `toml:"trend_years"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies DART_PORTAL_* and API key environment variables.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DART_PORTAL_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("DART_PORTAL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	// PORT is what most hosting platforms inject.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DART_PORTAL_SERVER_PORT") == "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DART_PORTAL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if driver := os.Getenv("DART_PORTAL_STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}
	if path := os.Getenv("DART_PORTAL_STORAGE_PATH"); path != "" {
		config.Storage.Path = path
	}
	if dsn := os.Getenv("DART_PORTAL_STORAGE_DSN"); dsn != "" {
		config.Storage.DSN = dsn
	}
	if level := os.Getenv("DART_PORTAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if model := os.Getenv("DART_PORTAL_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := os.Getenv("OPEN_DART_API_KEY"); key != "" {
		config.DART.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction reports whether Environment is "prod" or "production".
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "prod", "production":
		return true
	}
	return false
}

// Validate returns the list of mandatory settings that are missing or invalid.
// An empty slice means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if strings.TrimSpace(c.DART.APIKey) == "" {
		issues = append(issues, "dart.api_key is required (set OPEN_DART_API_KEY)")
	}
	if strings.TrimSpace(c.DART.BaseURL) == "" {
		issues = append(issues, "dart.base_url is required")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Storage.Path) == "" {
			issues = append(issues, "storage.path is required for the sqlite driver")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			issues = append(issues, "storage.dsn is required for the postgres driver")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.driver must be sqlite or postgres (got %q)", c.Storage.Driver))
	}

	if c.Search.Limit <= 0 {
		issues = append(issues, "search.limit must be positive")
	}
	if c.DART.RatePerSecond < 0 {
		issues = append(issues, "dart.rate_per_second must not be negative")
	}

	return issues
}

// NarrativeEnabled reports whether a Gemini key is configured.
func (c *Config) NarrativeEnabled() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}
