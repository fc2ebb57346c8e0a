// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when neither the config file, the environment, nor the
// CLI flags say otherwise.
const (
	DefaultMaxConcurrent = 8
	DefaultMaxAttempts   = 3
	DefaultCacheTTLDays  = 30
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume string `json:"resume,omitempty"` // Path to modular resume YAML
	Job    string `json:"job,omitempty"`    // Path to job description text file
	Output string `json:"output,omitempty"` // Path for the generated Markdown resume

	// Providers
	LLMProvider      string `json:"llm_provider,omitempty"`      // "gemini" or "anthropic"
	ResearchProvider string `json:"research_provider,omitempty"` // "llm" or "search"

	// Credentials
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	SearchAPIKey    string `json:"search_api_key,omitempty"` // Google Programmable Search key
	SearchCX        string `json:"search_cx,omitempty"`      // Google Programmable Search engine id

	// Company cache
	DatabaseURL  string `json:"database_url,omitempty"` // PostgreSQL URL; empty means file cache
	CacheDir     string `json:"cache_dir,omitempty"`    // File cache directory override
	CacheTTLDays int    `json:"cache_ttl_days,omitempty"`

	// Behavior
	MaxConcurrent  int  `json:"max_concurrent,omitempty"`  // Concurrent LLM calls during construction
	MaxAttempts    int  `json:"max_attempts,omitempty"`    // Construction attempts per sentence
	UseBrowser     bool `json:"use_browser,omitempty"`     // Headless browser fallback for research pages
	SkipResearch   bool `json:"skip_research,omitempty"`   // Customize without company research
	Verbose        bool `json:"verbose,omitempty"`         // Print detailed progress information
	RequestTimeout int  `json:"request_timeout,omitempty"` // Per-request timeout in seconds
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Used as the lowest
// precedence layer under the config file and CLI flags.
func FromEnv() Config {
	return Config{
		LLMProvider:      os.Getenv("LLM_PROVIDER"),
		ResearchProvider: os.Getenv("RESEARCH_PROVIDER"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		SearchAPIKey:     os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchCX:         os.Getenv("GOOGLE_SEARCH_CX"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CacheDir:         os.Getenv("TAILORCV_CACHE_DIR"),
		MaxConcurrent:    envInt("MAX_CONCURRENT_CALLS"),
		RequestTimeout:   envInt("REQUEST_TIMEOUT"),
	}
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "", "gemini", "anthropic":
	default:
		return fmt.Errorf("config error: 'llm_provider' must be \"gemini\" or \"anthropic\", got %q", c.LLMProvider)
	}

	switch c.ResearchProvider {
	case "", "llm", "search":
	default:
		return fmt.Errorf("config error: 'research_provider' must be \"llm\" or \"search\", got %q", c.ResearchProvider)
	}

	if c.MaxConcurrent < 0 {
		return fmt.Errorf("config error: 'max_concurrent' must be non-negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.CacheTTLDays < 0 {
		return fmt.Errorf("config error: 'cache_ttl_days' must be non-negative")
	}

	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	if c.ResearchProvider == "search" && (c.SearchAPIKey == "" || c.SearchCX == "") {
		return fmt.Errorf("config error: search research requires 'search_api_key' and 'search_cx'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.ResearchProvider == "" {
		result.ResearchProvider = defaults.ResearchProvider
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.AnthropicAPIKey == "" {
		result.AnthropicAPIKey = defaults.AnthropicAPIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchCX == "" {
		result.SearchCX = defaults.SearchCX
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}

	if result.CacheTTLDays == 0 {
		result.CacheTTLDays = defaults.CacheTTLDays
	}
	if result.MaxConcurrent == 0 {
		result.MaxConcurrent = defaults.MaxConcurrent
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// EffectiveMaxConcurrent resolves the concurrency limit with its default.
func (c *Config) EffectiveMaxConcurrent() int {
	if c.MaxConcurrent > 0 {
		return c.MaxConcurrent
	}
	return DefaultMaxConcurrent
}

// EffectiveMaxAttempts resolves the per-sentence attempt budget with its
// default.
func (c *Config) EffectiveMaxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

// EffectiveCacheTTL resolves the company cache TTL with its default.
func (c *Config) EffectiveCacheTTL() time.Duration {
	days := c.CacheTTLDays
	if days <= 0 {
		days = DefaultCacheTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// EffectiveRequestTimeout resolves the per-request timeout; zero means no
// extra timeout beyond the provider defaults.
func (c *Config) EffectiveRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}
