// Package config holds runtime configuration for duckgs, loaded from
// environment variables and threaded explicitly through the pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the effective configuration for one invocation. Precedence is
// flag > environment > default; flags are applied by the CLI layer on top
// of what LoadFromEnv returns.
type Config struct {
	Bucket   string            // default bucket reference, normalized later
	Kwargs   map[string]string // extra placeholder substitutions
	CacheDir string            // result cache root; empty means the built-in default

	GCSKeyID            string // HMAC key for DuckDB's GCS secret
	GCSSecret           string
	GCSCredentialsFile  string // service-account key for bucket checks
	CheckBucketOnAccess bool

	Verbose bool   // print query, timing and stage banners
	Strict  bool   // fail on unresolved placeholders instead of prompting
	Output  string // table, json or csv
}

// LoadFromEnv builds a Config from environment variables.
//
//	DUCKGS_BUCKET      default bucket reference
//	DUCKGS_KWARGS      JSON object of extra substitutions
//	DUCKGS_CACHE_DIR   cache directory override
//	DUCKGS_GCS_KEY_ID / DUCKGS_GCS_SECRET   HMAC credentials for httpfs
//	GOOGLE_APPLICATION_CREDENTIALS          service-account key file
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Bucket:             os.Getenv("DUCKGS_BUCKET"),
		Kwargs:             map[string]string{},
		CacheDir:           os.Getenv("DUCKGS_CACHE_DIR"),
		GCSKeyID:           os.Getenv("DUCKGS_GCS_KEY_ID"),
		GCSSecret:          os.Getenv("DUCKGS_GCS_SECRET"),
		GCSCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Verbose:            true,
	}

	if raw := os.Getenv("DUCKGS_KWARGS"); raw != "" {
		kwargs, err := ParseKwargs(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DUCKGS_KWARGS: %w", err)
		}
		cfg.Kwargs = kwargs
	}

	return cfg, nil
}

// ParseKwargs decodes a JSON object of extra substitutions. Non-string
// values are rendered with their default formatting, so {"year": 2021}
// binds year to "2021".
func ParseKwargs(raw string) (map[string]string, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parse kwargs mapping: %w", err)
	}
	out := make(map[string]string, len(decoded))
	for k, v := range decoded {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			// JSON numbers arrive as float64; keep integers unsuffixed.
			if val == float64(int64(val)) {
				out[k] = fmt.Sprintf("%d", int64(val))
			} else {
				out[k] = fmt.Sprintf("%v", val)
			}
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out, nil
}
