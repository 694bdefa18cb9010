package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "DPS_"

// envLookup reads the process environment, falling back to the values in
// dotenv. A missing dotenv file is not an error; a malformed one panics.
func envLookup(dotenv string) func(string) (string, bool) {
	file, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

// parseEnv overlays cfg with DPS_* variables. Malformed numbers, durations
// and booleans panic, like the JSON and flag stages.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("API_URL", &cfg.APIBaseURL)
	str("UPLOAD_URL", &cfg.UploadURL)
	if v, ok := lookup(envPrefix + "MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.MaxUploadBytes = n
	}
	if v, ok := lookup(envPrefix + "ALLOWED_EXTENSIONS"); ok && v != "" {
		cfg.AllowedExtensions = splitList(v)
	}
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	dur("BANNER_TTL", &cfg.BannerTTL)
	str("CACHE_DSN", &cfg.CacheDSN)
	dur("CACHE_RETENTION", &cfg.CacheRetention)
	str("STAGING_DIR", &cfg.StagingDir)
	if v, ok := lookup(envPrefix + "LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.LogJSON = b
	}
	str("S3_BUCKET", &cfg.S3.Bucket)
	str("S3_REGION", &cfg.S3.Region)
	str("S3_ENDPOINT", &cfg.S3.Endpoint)
	str("S3_PREFIX", &cfg.S3.Prefix)
	str("S3_ACCESS_KEY", &cfg.S3.AccessKey)
	str("S3_SECRET_KEY", &cfg.S3.SecretKey)
}
