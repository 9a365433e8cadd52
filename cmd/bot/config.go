package main

import (
	"flag"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/wardenbot/warden/pkg/config"
)

const (
	// AppName is the name of the application.
	AppName = "warden"

	// defaultConfigPath is used when no --config flag is provided.
	defaultConfigPath = "config.yaml"
)

var configPath = flag.String("config", defaultConfigPath, "Path to the configuration file")

func loadConfig() (*config.Config, error) {
	flag.Parse()

	// A missing .env file is fine; secrets can come from the real environment.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("path", ".env"))
	}

	return config.Load(*configPath)
}
