package main

import (
	"context"
	"flag"
	"log"
	"os"

	"MBGate/internal/di"
	"MBGate/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	log.Printf("env=%s snapshots=%s cache=%s", cfg.Environment, cfg.Snapshots.Backend, cfg.Cache.Type)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// blocks until SIGINT/SIGTERM
	return app.Run(context.Background())
}
