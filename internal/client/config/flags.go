package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dpsmushkipur/bine/internal/flagx"
)

var knownFlags = []string{"-a", "-u", "-i", "-t", "-m", "-x", "-d", "-s", "-retention", "-log-json", "-bucket", "-region", "-endpoint"}

// parseFlags populates Config fields from command-line flags. args is
// filtered with flagx.FilterArgs first so other loaders' flags are ignored.
// Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "api.php URL")
	fs.StringVar(&cfg.UploadURL, "u", cfg.UploadURL, "upload.php URL")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Int64Var(&cfg.MaxUploadBytes, "m", cfg.MaxUploadBytes, "maximum upload size in bytes")
	exts := fs.String("x", strings.Join(cfg.AllowedExtensions, ","), "allowed upload extensions, comma separated")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "SQLite cache DSN")
	fs.StringVar(&cfg.StagingDir, "s", cfg.StagingDir, "staging directory for normalized images")
	fs.DurationVar(&cfg.CacheRetention, "retention", cfg.CacheRetention, "drop cached responses older than this")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log JSON with zap")
	fs.StringVar(&cfg.S3.Bucket, "bucket", cfg.S3.Bucket, "S3 bucket for uploads")
	fs.StringVar(&cfg.S3.Region, "region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "endpoint", cfg.S3.Endpoint, "S3-compatible endpoint URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.AllowedExtensions = splitList(*exts)
}
