// pricewatchd is the long-running daemon: it walks the product catalog once
// a day at the configured hour, persists scraped prices and pushes the
// export to the backup sink.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/strummet/pricewatch/internal/catalog"
	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/internal/export"
	"github.com/strummet/pricewatch/internal/fetch"
	"github.com/strummet/pricewatch/internal/obs"
	"github.com/strummet/pricewatch/internal/scheduler"
	"github.com/strummet/pricewatch/internal/walker"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	envFile := flag.String("env", "", "Path to .env file with backup credentials")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	obs.InitLogger(level)
	log := obs.Logger

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Error("loading env file failed", "file", *envFile, "error", err)
			os.Exit(1)
		}
	} else {
		// best effort: a .env next to the binary is optional
		_ = godotenv.Load()
	}

	cfg := config.CreateDefault()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Error("loading configuration failed", "file", *configFile, "error", err)
			os.Exit(1)
		}
	}
	cfg.ApplyEnv()

	store := catalog.NewStore(cfg.Catalog.Path)
	fetcher := fetch.New(cfg)

	var dropbox *export.DropboxClient
	if cfg.Dropbox.Enabled() {
		dropbox = export.NewDropboxClient(cfg.Dropbox)
	} else {
		log.Warn("no backup credentials configured, exports stay local")
	}
	sink := export.NewSink(cfg.Export.Dir, cfg.Dropbox.Folder, dropbox)

	w := walker.New(store, fetcher, cfg)
	w.Export = sink.Push

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(w, cfg.Schedule.Hour, cfg.Catalog.Location())
	log.Info("pricewatchd started", "catalog", cfg.Catalog.Path, "hour", cfg.Schedule.Hour)

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}
	log.Info("pricewatchd stopped")
}
