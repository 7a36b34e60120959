package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")
		configJSON := `{
			"port": 9090,
			"search_sources": ["static", "html"],
			"html_url": "https://jobs.example.com/search",
			"html_selector": "li.job",
			"tailor": "template",
			"session_ttl": "30m"
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(configJSON), 0644))

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, []string{"static", "html"}, cfg.SearchSources)
		assert.Equal(t, "https://jobs.example.com/search", cfg.HTMLURL)
		assert.Equal(t, "li.job", cfg.HTMLSelector)
		assert.Equal(t, "template", cfg.Tailor)
		assert.Equal(t, "30m", cfg.SessionTTL)
	})

	t.Run("yaml config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		configYAML := "port: 9091\nsearch_sources:\n  - static\n  - postgres\ndatabase_url: postgres://localhost/jobs\nhtml_render: true\n"
		require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0644))

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9091, cfg.Port)
		assert.Equal(t, []string{"static", "postgres"}, cfg.SearchSources)
		assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
		assert.True(t, cfg.HTMLRender)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("port: [unclosed"), 0644))

		_, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config YAML")
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte("{invalid json}"), 0644))

		_, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config JSON")
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_SOURCES", "static, postgres ,")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("SEARCH_LIMIT", "not-a-number")
	t.Setenv("TAILOR_GENERATOR", "llm")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SEARCH_HTML_RENDER", "true")

	cfg := FromEnv()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"static", "postgres"}, cfg.SearchSources)
	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Zero(t, cfg.SearchLimit)
	assert.Equal(t, "llm", cfg.Tailor)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "2h", cfg.SessionTTL)
	assert.True(t, cfg.HTMLRender)
}

func TestConfig_Validate(t *testing.T) {
	tmpDir := t.TempDir()
	listingsPath := filepath.Join(tmpDir, "listings.json")
	require.NoError(t, os.WriteFile(listingsPath, []byte(`{"listings":[]}`), 0644))

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "defaults", config: Defaults()},
		{name: "empty config", config: Config{}},
		{name: "file source with file", config: Config{SearchSources: []string{SourceFile}, ListingsFile: listingsPath}},
		{name: "html on known board", config: Config{SearchSources: []string{SourceHTML}, HTMLURL: "https://jobs.lever.co/acme"}},
		{name: "llm with key", config: Config{Tailor: TailorLLM, APIKey: "key"}},
		{name: "negative port", config: Config{Port: -1}, wantErr: "'port'"},
		{name: "port too large", config: Config{Port: 70000}, wantErr: "'port'"},
		{name: "negative limit", config: Config{SearchLimit: -5}, wantErr: "'search_limit'"},
		{name: "bad ttl", config: Config{SessionTTL: "soon"}, wantErr: "invalid 'session_ttl'"},
		{name: "short ttl", config: Config{SessionTTL: "10s"}, wantErr: "at least 1m"},
		{name: "unknown source", config: Config{SearchSources: []string{"linkedin"}}, wantErr: "unknown search source"},
		{name: "duplicate source", config: Config{SearchSources: []string{"static", "static"}}, wantErr: "listed twice"},
		{name: "file source without file", config: Config{SearchSources: []string{SourceFile}}, wantErr: "'listings_file'"},
		{name: "file source missing file", config: Config{SearchSources: []string{SourceFile}, ListingsFile: filepath.Join(tmpDir, "nope.json")}, wantErr: "not found"},
		{name: "postgres without url", config: Config{SearchSources: []string{SourcePostgres}}, wantErr: "'database_url'"},
		{name: "html without selector", config: Config{SearchSources: []string{SourceHTML}, HTMLURL: "https://example.com"}, wantErr: "'html_selector'"},
		{name: "html without url", config: Config{SearchSources: []string{SourceHTML}, HTMLSelector: "li"}, wantErr: "'html_url'"},
		{name: "llm without key", config: Config{Tailor: TailorLLM}, wantErr: "'api_key'"},
		{name: "unknown tailor", config: Config{Tailor: "magic"}, wantErr: "unknown tailor generator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_MergeWithDefaults(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		cfg := Config{}
		merged := cfg.MergeWithDefaults(Defaults())

		assert.Equal(t, 8080, merged.Port)
		assert.Equal(t, []string{SourceStatic}, merged.SearchSources)
		assert.Equal(t, 20, merged.SearchLimit)
		assert.Equal(t, TailorTemplate, merged.Tailor)
		assert.Equal(t, "24h", merged.SessionTTL)
	})

	t.Run("keeps set fields", func(t *testing.T) {
		cfg := Config{
			Port:          9090,
			SearchSources: []string{SourceHTML},
			Tailor:        TailorLLM,
			SessionTTL:    "1h",
		}
		merged := cfg.MergeWithDefaults(Defaults())

		assert.Equal(t, 9090, merged.Port)
		assert.Equal(t, []string{SourceHTML}, merged.SearchSources)
		assert.Equal(t, TailorLLM, merged.Tailor)
		assert.Equal(t, "1h", merged.SessionTTL)
	})

	t.Run("does not alias default slices", func(t *testing.T) {
		defaults := Defaults()
		cfg := Config{}
		merged := cfg.MergeWithDefaults(defaults)
		merged.SearchSources[0] = "changed"
		assert.Equal(t, SourceStatic, defaults.SearchSources[0])
	})
}

func TestConfig_SessionTTLDuration(t *testing.T) {
	cfg := Config{SessionTTL: "90m"}
	ttl, err := cfg.SessionTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, ttl)

	empty := Config{}
	ttl, err = empty.SessionTTLDuration()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b "))
	assert.Nil(t, SplitList(""))
}
