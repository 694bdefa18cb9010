package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpsmushkipur/bine/internal/buildinfo"
	"github.com/dpsmushkipur/bine/internal/client/cli"
	"github.com/dpsmushkipur/bine/internal/client/config"
	"github.com/dpsmushkipur/bine/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	var logger logging.Logger
	if cfg.LogJSON {
		z, err := logging.NewProductionZap()
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer func() { _ = z.Sync() }()
		logger = z
	} else {
		logger = logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
