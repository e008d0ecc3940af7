package config

import (
	"strconv"
	"time"
)

// Environment variables that override file settings.
const (
	EnvStore           = "LEXROSTER_STORE"
	EnvSQLiteDir       = "LEXROSTER_SQLITE_DIR"
	EnvMongoURI        = "LEXROSTER_MONGO_URI"
	EnvMongoDatabase   = "LEXROSTER_MONGO_DATABASE"
	EnvEngineURL       = "LEXROSTER_ENGINE_URL"
	EnvEngineIndex     = "LEXROSTER_ENGINE_INDEX"
	EnvEngineUsername  = "LEXROSTER_ENGINE_USERNAME"
	EnvEnginePassword  = "LEXROSTER_ENGINE_PASSWORD"
	EnvEngineAPIKey    = "LEXROSTER_ENGINE_API_KEY"
	EnvBlobBucket      = "LEXROSTER_BLOB_BUCKET"
	EnvBlobRegion      = "LEXROSTER_BLOB_REGION"
	EnvBlobEndpoint    = "LEXROSTER_BLOB_ENDPOINT"
	EnvBlobAccessKey   = "LEXROSTER_BLOB_ACCESS_KEY_ID"
	EnvBlobSecretKey   = "LEXROSTER_BLOB_SECRET_ACCESS_KEY"
	EnvBlobPublicURL   = "LEXROSTER_BLOB_PUBLIC_BASE_URL"
	EnvPrimaryTimeout  = "LEXROSTER_SEARCH_PRIMARY_TIMEOUT"
	EnvFallbackTimeout = "LEXROSTER_SEARCH_FALLBACK_TIMEOUT"
	EnvCooldown        = "LEXROSTER_SEARCH_UNHEALTHY_COOLDOWN"
	EnvMaxSize         = "LEXROSTER_SEARCH_MAX_SIZE"
	EnvMirrorTimeout   = "LEXROSTER_INGEST_MIRROR_TIMEOUT"
	EnvHTTPAddr        = "LEXROSTER_HTTP_ADDR"
	EnvLogVerbose      = "LEXROSTER_LOG_VERBOSE"
	EnvLogPretty       = "LEXROSTER_LOG_PRETTY"
)

// applyEnv overrides cfg with every non-empty variable. Unparseable values
// are errors rather than silently ignored.
func applyEnv(cfg *Config, getenv func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvStore, &cfg.Store.Backend},
		{EnvSQLiteDir, &cfg.SQLite.DataDir},
		{EnvMongoURI, &cfg.Mongo.URI},
		{EnvMongoDatabase, &cfg.Mongo.Database},
		{EnvEngineURL, &cfg.Engine.URL},
		{EnvEngineIndex, &cfg.Engine.Index},
		{EnvEngineUsername, &cfg.Engine.Username},
		{EnvEnginePassword, &cfg.Engine.Password},
		{EnvEngineAPIKey, &cfg.Engine.APIKey},
		{EnvBlobBucket, &cfg.Blob.Bucket},
		{EnvBlobRegion, &cfg.Blob.Region},
		{EnvBlobEndpoint, &cfg.Blob.Endpoint},
		{EnvBlobAccessKey, &cfg.Blob.AccessKeyID},
		{EnvBlobSecretKey, &cfg.Blob.SecretAccessKey},
		{EnvBlobPublicURL, &cfg.Blob.PublicBaseURL},
		{EnvHTTPAddr, &cfg.HTTP.Addr},
	}
	for _, s := range strs {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{EnvPrimaryTimeout, &cfg.Search.PrimaryTimeout},
		{EnvFallbackTimeout, &cfg.Search.FallbackTimeout},
		{EnvCooldown, &cfg.Search.UnhealthyCooldown},
		{EnvMirrorTimeout, &cfg.Ingest.MirrorTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return &Error{Field: d.key, Reason: "must be a duration such as 2s"}
		}
		d.dst.Duration = parsed
	}

	if v := getenv(EnvMaxSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: EnvMaxSize, Reason: "must be an integer"}
		}
		cfg.Search.MaxSize = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvLogVerbose, &cfg.Log.Verbose},
		{EnvLogPretty, &cfg.Log.Pretty},
	}
	for _, b := range bools {
		v := getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return &Error{Field: b.key, Reason: "must be true or false"}
		}
		*b.dst = parsed
	}
	return nil
}
