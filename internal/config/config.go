// Package config provides configuration loading and validation for the
// job search assistant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-search-assistant/internal/fetch"
)

// Search source names
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceHTML     = "html"
)

// Tailoring generator names
const (
	TailorTemplate = "template"
	TailorLLM      = "llm"
)

// KnownSources lists the accepted search_sources values.
var KnownSources = []string{SourceStatic, SourceFile, SourcePostgres, SourceHTML}

// Config is the application configuration. It can be loaded from a JSON or
// YAML file, from the environment, or both; all fields are optional until
// Validate.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`               // HTTP port for serve
	SessionTTL string `json:"session_ttl,omitempty" yaml:"session_ttl,omitempty"` // Idle session lifetime, e.g. "30m"

	// Search
	SearchSources []string `json:"search_sources,omitempty" yaml:"search_sources,omitempty"` // Sources queried in order
	ListingsFile  string   `json:"listings_file,omitempty" yaml:"listings_file,omitempty"`   // JSON catalog for the file source
	DatabaseURL   string   `json:"database_url,omitempty" yaml:"database_url,omitempty"`     // PostgreSQL connection URL
	SearchLimit   int      `json:"search_limit,omitempty" yaml:"search_limit,omitempty"`     // Max listings from the postgres source
	HTMLURL       string   `json:"html_url,omitempty" yaml:"html_url,omitempty"`             // Results page for the html source
	HTMLSelector  string   `json:"html_selector,omitempty" yaml:"html_selector,omitempty"`   // CSS selector of one listing
	HTMLRender    bool     `json:"html_render,omitempty" yaml:"html_render,omitempty"`       // Load the page in headless Chrome

	// Tailoring
	Tailor string `json:"tailor,omitempty" yaml:"tailor,omitempty"`   // "template" or "llm"
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key for the llm generator
}

// Defaults returns the built-in configuration: static search, template
// tailoring, port 8080, 24h sessions.
func Defaults() Config {
	return Config{
		Port:          8080,
		SessionTTL:    "24h",
		SearchSources: []string{SourceStatic},
		SearchLimit:   20,
		Tailor:        TailorTemplate,
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// name ends in .yaml or .yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset or
// unparsable variables leave the field empty.
func FromEnv() Config {
	cfg := Config{
		SessionTTL:   os.Getenv("SESSION_TTL"),
		ListingsFile: os.Getenv("LISTINGS_FILE"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		HTMLURL:      os.Getenv("SEARCH_HTML_URL"),
		HTMLSelector: os.Getenv("SEARCH_HTML_SELECTOR"),
		Tailor:       os.Getenv("TAILOR_GENERATOR"),
		APIKey:       os.Getenv("GEMINI_API_KEY"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if limit, err := strconv.Atoi(os.Getenv("SEARCH_LIMIT")); err == nil {
		cfg.SearchLimit = limit
	}
	if render, err := strconv.ParseBool(os.Getenv("SEARCH_HTML_RENDER")); err == nil {
		cfg.HTMLRender = render
	}
	if sources := os.Getenv("SEARCH_SOURCES"); sources != "" {
		cfg.SearchSources = SplitList(sources)
	}
	return cfg
}

// Validate checks that the configuration has valid values and that every
// selected source and generator has what it needs.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("config error: 'search_limit' must be non-negative")
	}

	if c.SessionTTL != "" {
		ttl, err := time.ParseDuration(c.SessionTTL)
		if err != nil {
			return fmt.Errorf("config error: invalid 'session_ttl': %w", err)
		}
		if ttl < time.Minute {
			return fmt.Errorf("config error: 'session_ttl' must be at least 1m, got %s", ttl)
		}
	}

	seen := make(map[string]bool, len(c.SearchSources))
	for _, source := range c.SearchSources {
		if !slices.Contains(KnownSources, source) {
			return fmt.Errorf("config error: unknown search source %q (known: %s)", source, strings.Join(KnownSources, ", "))
		}
		if seen[source] {
			return fmt.Errorf("config error: search source %q listed twice", source)
		}
		seen[source] = true
	}

	if seen[SourceFile] {
		if c.ListingsFile == "" {
			return fmt.Errorf("config error: 'listings_file' is required for the file source")
		}
		if _, err := os.Stat(c.ListingsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: listings file not found: %s", c.ListingsFile)
		}
	}
	if seen[SourcePostgres] && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres source")
	}
	if seen[SourceHTML] {
		if c.HTMLURL == "" {
			return fmt.Errorf("config error: 'html_url' is required for the html source")
		}
		if c.HTMLSelector == "" && fetch.ListingSelector(fetch.DetectPlatform(c.HTMLURL)) == "" {
			return fmt.Errorf("config error: 'html_selector' is required unless 'html_url' is a Greenhouse, Lever or Workday board")
		}
	}

	switch c.Tailor {
	case "", TailorTemplate:
	case TailorLLM:
		if c.APIKey == "" {
			return fmt.Errorf("config error: 'api_key' is required for the llm generator")
		}
	default:
		return fmt.Errorf("config error: unknown tailor generator %q", c.Tailor)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if len(result.SearchSources) == 0 {
		result.SearchSources = slices.Clone(defaults.SearchSources)
	}
	if result.ListingsFile == "" {
		result.ListingsFile = defaults.ListingsFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SearchLimit == 0 {
		result.SearchLimit = defaults.SearchLimit
	}
	if result.HTMLURL == "" {
		result.HTMLURL = defaults.HTMLURL
	}
	if result.HTMLSelector == "" {
		result.HTMLSelector = defaults.HTMLSelector
	}
	// A bool cannot be told apart from unset, so rendering is on if any layer asks for it.
	result.HTMLRender = result.HTMLRender || defaults.HTMLRender
	if result.Tailor == "" {
		result.Tailor = defaults.Tailor
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	return result
}

// SessionTTLDuration parses SessionTTL. An empty value returns zero.
func (c *Config) SessionTTLDuration() (time.Duration, error) {
	if c.SessionTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.SessionTTL)
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
