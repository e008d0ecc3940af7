package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.False(t, cfg.Engine.Enabled())
	assert.False(t, cfg.Blob.Enabled())
	assert.Equal(t, 2*time.Second, cfg.Search.PrimaryTimeout.Duration)
	assert.Equal(t, 5*time.Second, cfg.Search.FallbackTimeout.Duration)
	assert.Equal(t, 30*time.Second, cfg.Search.UnhealthyCooldown.Duration)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "mongo"

[mongo]
uri = "mongodb://localhost:27017"

[engine]
url = "http://localhost:9200"
index = "rosters"

[search]
primary_timeout = "750ms"
max_size = 50
`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "lexroster", cfg.Mongo.Database, "unset keys keep defaults")
	assert.True(t, cfg.Engine.Enabled())
	assert.Equal(t, "rosters", cfg.Engine.Index)
	assert.Equal(t, 750*time.Millisecond, cfg.Search.PrimaryTimeout.Duration)
	assert.Equal(t, 50, cfg.Search.MaxSize)
	assert.Equal(t, 10, cfg.Search.DefaultSize)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.toml"), noEnv)
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[store\nbackend=")

	_, err := load(path, noEnv)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "[search]\nprimary_timeout = \"soon\"\n")

	_, err := load(path, noEnv)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[engine]\nurl = \"http://file:9200\"\n")

	cfg, err := load(path, envOf(map[string]string{
		EnvEngineURL:      "http://env:9200",
		EnvPrimaryTimeout: "3s",
		EnvMaxSize:        "25",
		EnvLogVerbose:     "true",
		EnvBlobBucket:     "court-pdfs",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://env:9200", cfg.Engine.URL)
	assert.Equal(t, 3*time.Second, cfg.Search.PrimaryTimeout.Duration)
	assert.Equal(t, 25, cfg.Search.MaxSize)
	assert.True(t, cfg.Log.Verbose)
	assert.True(t, cfg.Blob.Enabled())
}

func TestLoad_EnvErrors(t *testing.T) {
	path := writeConfig(t, "")

	tests := map[string]string{
		EnvCooldown:      "forever",
		EnvMaxSize:       "many",
		EnvLogPretty:     "perhaps",
		EnvStore:         "postgres",
		EnvEngineURL:     "localhost",
		EnvMirrorTimeout: "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := load(path, envOf(map[string]string{key: value}))
			var cfgErr *Error
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo }, "mongo.uri"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"relative engine url", func(c *Config) { c.Engine.URL = "/es" }, "engine.url"},
		{"zero default size", func(c *Config) { c.Search.DefaultSize = 0 }, "search.default_size"},
		{"max below default", func(c *Config) { c.Search.MaxSize = 5 }, "search.max_size"},
		{"zero fallback timeout", func(c *Config) { c.Search.FallbackTimeout = Duration{} }, "search.fallback_timeout"},
		{"empty addr", func(c *Config) { c.HTTP.Addr = " " }, "http.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Engine.URL = "http://localhost:9200"
	cfg.Search.PrimaryTimeout = Duration{1500 * time.Millisecond}

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSearchSettings(t *testing.T) {
	cfg := Default()
	cfg.Search.SnippetRadius = 80

	s := cfg.SearchSettings()
	assert.Equal(t, 2*time.Second, s.PrimaryTimeout)
	assert.Equal(t, 80, s.SnippetRadius)
	assert.Equal(t, 100, s.MaxSize)
}
