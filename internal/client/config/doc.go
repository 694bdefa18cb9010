// Package config loads runtime configuration for the school CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Optional .env file in the working directory, then DPS_* environment
//     variables (see parseEnv). Real environment wins over .env.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     api.php URL
//	-u string     upload.php URL
//	-i int        online status check interval (seconds)
//	-t int        request timeout (seconds)
//	-m int        maximum upload size in bytes
//	-x string     allowed upload extensions, comma separated
//	-d string     SQLite cache DSN
//	-s string     staging directory for normalized images
//	-log-json     log JSON with zap instead of text
//	-bucket, -region, -endpoint
//	              upload to S3-compatible storage instead of upload.php
//
// # JSON schema
//
// Durations use timex.Duration, so "3s" and integer nanoseconds both work:
//
//	{
//	  "api_url": "https://dpsmushkipur.com/bine/api.php",
//	  "upload_url": "https://dpsmushkipur.com/bine/upload.php",
//	  "max_upload_bytes": 5242880,
//	  "allowed_extensions": ["jpg", "jpeg", "png", "pdf"],
//	  "request_timeout": "30s",
//	  "online_check_interval": "10s",
//	  "banner_ttl": "3s",
//	  "cache_dsn": "dps-cache.db",
//	  "staging_dir": "preupload",
//	  "log_json": false,
//	  "s3": {"bucket": "", "region": "", "endpoint": "", "prefix": "uploads"}
//	}
package config
