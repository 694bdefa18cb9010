package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the school CLI.
type Config struct {
	APIBaseURL          string        `validate:"required,url"`
	UploadURL           string        `validate:"required,url"`
	MaxUploadBytes      int64         `validate:"gt=0"`
	AllowedExtensions   []string      `validate:"min=1,dive,required"`
	RequestTimeout      time.Duration `validate:"gt=0"`
	OnlineCheckInterval time.Duration `validate:"gt=0"`
	BannerTTL           time.Duration `validate:"gte=0"`
	CacheDSN            string        `validate:"required"`
	CacheRetention      time.Duration `validate:"gte=1h"`
	StagingDir          string        `validate:"required"`
	LogJSON             bool

	S3 S3Config
}

// S3Config selects object storage as the upload target when Bucket is set.
// Empty keys use the default AWS credential chain.
type S3Config struct {
	Bucket    string
	Region    string `validate:"required_with=Bucket"`
	Endpoint  string `validate:"omitempty,url"`
	Prefix    string
	AccessKey string
	SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://dpsmushkipur.com/bine/api.php"
	c.UploadURL = "https://dpsmushkipur.com/bine/upload.php"
	c.MaxUploadBytes = 5 * 1024 * 1024
	c.AllowedExtensions = []string{"jpg", "jpeg", "png", "pdf"}
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.BannerTTL = 3 * time.Second
	c.CacheDSN = "dps-cache.db"
	c.CacheRetention = 30 * 24 * time.Hour
	c.StagingDir = "preupload"
	c.S3.Prefix = "uploads"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, .env and the environment, and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	args := os.Args[1:]
	parseJSON(cfg, args)
	parseEnv(cfg, envLookup(".env"))
	parseFlags(cfg, args)
	return cfg
}

// Validate reports every invalid field in one error.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	msgs := make([]string, 0, len(fes))
	for _, fe := range fes {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// UsesS3 reports whether uploads go to object storage.
func (c *Config) UsesS3() bool { return c.S3.Bucket != "" }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
