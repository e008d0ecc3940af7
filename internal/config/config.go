// Package config loads lexroster settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, LEXROSTER_*
// environment variables. The resulting Config is validated once and then
// injected into constructors; nothing reads configuration at call time.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all lexroster configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	SQLite SQLiteConfig `toml:"sqlite"`
	Mongo  MongoConfig  `toml:"mongo"`
	Engine EngineConfig `toml:"engine"`
	Blob   BlobConfig   `toml:"blob"`
	Fetch  FetchConfig  `toml:"fetch"`
	Search SearchConfig `toml:"search"`
	Ingest IngestConfig `toml:"ingest"`
	HTTP   HTTPConfig   `toml:"http"`
	Log    LogConfig    `toml:"log"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
}

// SQLiteConfig configures the embedded store.
type SQLiteConfig struct {
	// DataDir holds lexroster.db. Empty means ~/.lexroster/data.
	DataDir string `toml:"data_dir"`
}

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URI            string   `toml:"uri"`
	Database       string   `toml:"database"`
	ConnectTimeout Duration `toml:"connect_timeout"`
}

// EngineConfig configures the primary search engine. An empty URL means no
// primary engine; every search then uses the document store.
type EngineConfig struct {
	URL               string   `toml:"url"`
	Index             string   `toml:"index"`
	Username          string   `toml:"username"`
	Password          string   `toml:"password"`
	APIKey            string   `toml:"api_key"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
}

// Enabled reports whether a primary engine is configured.
func (e EngineConfig) Enabled() bool {
	return strings.TrimSpace(e.URL) != ""
}

// BlobConfig configures the blob store. An empty bucket disables it.
type BlobConfig struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	PublicBaseURL   string `toml:"public_base_url"`
	Prefix          string `toml:"prefix"`
}

// Enabled reports whether a blob store is configured.
func (b BlobConfig) Enabled() bool {
	return strings.TrimSpace(b.Bucket) != ""
}

// FetchConfig configures remote document downloads.
type FetchConfig struct {
	Timeout           Duration `toml:"timeout"`
	MaxBytes          int64    `toml:"max_bytes"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// SearchConfig tunes the search gateway.
type SearchConfig struct {
	PrimaryTimeout    Duration `toml:"primary_timeout"`
	FallbackTimeout   Duration `toml:"fallback_timeout"`
	UnhealthyCooldown Duration `toml:"unhealthy_cooldown"`
	DefaultSize       int      `toml:"default_size"`
	MaxSize           int      `toml:"max_size"`
	SnippetRadius     int      `toml:"snippet_radius"`
}

// IngestConfig tunes ingestion.
type IngestConfig struct {
	MirrorTimeout Duration `toml:"mirror_timeout"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	IdleTimeout    Duration `toml:"idle_timeout"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbose bool `toml:"verbose"`
	Pretty  bool `toml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	search := domain.DefaultSearchConfig()
	return &Config{
		Store: StoreConfig{Backend: BackendSQLite},
		Mongo: MongoConfig{
			Database:       "lexroster",
			ConnectTimeout: Duration{10 * time.Second},
		},
		Engine: EngineConfig{
			Index:             "lexroster-documents",
			Timeout:           Duration{10 * time.Second},
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Blob: BlobConfig{
			Region: "ap-south-1",
			Prefix: "rosters",
		},
		Fetch: FetchConfig{
			Timeout:           Duration{30 * time.Second},
			MaxBytes:          50 << 20,
			RequestsPerSecond: 2,
		},
		Search: SearchConfig{
			PrimaryTimeout:    Duration{search.PrimaryTimeout},
			FallbackTimeout:   Duration{search.FallbackTimeout},
			UnhealthyCooldown: Duration{search.UnhealthyCooldown},
			DefaultSize:       search.DefaultSize,
			MaxSize:           search.MaxSize,
			SnippetRadius:     search.SnippetRadius,
		},
		Ingest: IngestConfig{MirrorTimeout: Duration{5 * time.Second}},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			ReadTimeout:    Duration{30 * time.Second},
			WriteTimeout:   Duration{60 * time.Second},
			IdleTimeout:    Duration{60 * time.Second},
			MaxUploadBytes: 50 << 20,
		},
		Log: LogConfig{Pretty: true},
	}
}

// DefaultPath returns ~/.lexroster/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lexroster", "config.toml"), nil
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path reads DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file yet, defaults apply.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML with restricted permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	case BackendMongo:
		if strings.TrimSpace(c.Mongo.URI) == "" {
			return &Error{Field: "mongo.uri", Reason: "is required for the mongo backend"}
		}
	default:
		return &Error{Field: "store.backend", Reason: fmt.Sprintf("unknown backend %q", c.Store.Backend)}
	}

	if c.Engine.Enabled() {
		if u, err := url.Parse(c.Engine.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return &Error{Field: "engine.url", Reason: "must be an absolute URL"}
		}
	}
	if c.Search.DefaultSize <= 0 {
		return &Error{Field: "search.default_size", Reason: "must be positive"}
	}
	if c.Search.MaxSize < c.Search.DefaultSize {
		return &Error{Field: "search.max_size", Reason: "must not be below search.default_size"}
	}
	for field, d := range map[string]Duration{
		"search.primary_timeout":    c.Search.PrimaryTimeout,
		"search.fallback_timeout":   c.Search.FallbackTimeout,
		"search.unhealthy_cooldown": c.Search.UnhealthyCooldown,
		"ingest.mirror_timeout":     c.Ingest.MirrorTimeout,
	} {
		if d.Duration <= 0 {
			return &Error{Field: field, Reason: "must be positive"}
		}
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return &Error{Field: "http.addr", Reason: "is required"}
	}
	return nil
}

// SearchSettings converts the search section into gateway settings.
func (c *Config) SearchSettings() domain.SearchConfig {
	return domain.SearchConfig{
		PrimaryTimeout:    c.Search.PrimaryTimeout.Duration,
		FallbackTimeout:   c.Search.FallbackTimeout.Duration,
		UnhealthyCooldown: c.Search.UnhealthyCooldown.Duration,
		DefaultSize:       c.Search.DefaultSize,
		MaxSize:           c.Search.MaxSize,
		SnippetRadius:     c.Search.SnippetRadius,
	}
}

// Error reports an invalid configuration value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// Duration is a time.Duration written as a Go duration string ("2s") in
// TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
