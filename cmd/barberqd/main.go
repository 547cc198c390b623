package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"barberq/internal/config"
	"barberq/internal/daemon"
	"barberq/internal/logging"
	"barberq/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ~/.config/barberq/config.toml)")
	flag.Parse()

	// A local .env can supply BARBERQ_* overrides during development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		logger.Error("open database", logging.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	d, err := daemon.New(cfg, db, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon exited", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("barberqd shut down")
}
