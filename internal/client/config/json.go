package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dpsmushkipur/bine/internal/flagx"
	"github.com/dpsmushkipur/bine/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// timex.Duration so they can be "3s" or integer nanoseconds.
type JSONConfig struct {
	APIBaseURL          string         `json:"api_url"`
	UploadURL           string         `json:"upload_url"`
	MaxUploadBytes      int64          `json:"max_upload_bytes"`
	AllowedExtensions   []string       `json:"allowed_extensions"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	BannerTTL           timex.Duration `json:"banner_ttl"`
	CacheDSN            string         `json:"cache_dsn"`
	CacheRetention      timex.Duration `json:"cache_retention"`
	StagingDir          string         `json:"staging_dir"`
	LogJSON             *bool          `json:"log_json"`
	S3                  struct {
		Bucket   string `json:"bucket"`
		Region   string `json:"region"`
		Endpoint string `json:"endpoint"`
		Prefix   string `json:"prefix"`
	} `json:"s3"`
}

// parseJSON overlays cfg with the JSON file named by -c / -config in args.
// Only fields present in the file are copied. Read and decode errors panic.
func parseJSON(cfg *Config, args []string) {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.UploadURL, jc.UploadURL)
	if jc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = jc.MaxUploadBytes
	}
	if len(jc.AllowedExtensions) > 0 {
		cfg.AllowedExtensions = jc.AllowedExtensions
	}
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.BannerTTL, jc.BannerTTL)
	setString(&cfg.CacheDSN, jc.CacheDSN)
	setDuration(&cfg.CacheRetention, jc.CacheRetention)
	setString(&cfg.StagingDir, jc.StagingDir)
	if jc.LogJSON != nil {
		cfg.LogJSON = *jc.LogJSON
	}
	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.Prefix, jc.S3.Prefix)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = time.Duration(v.Duration)
	}
}
