package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gekko3d/roam"
	"github.com/gekko3d/roam/config"
)

func main() {
	configPath := flag.String("config", "roam.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	case err != nil:
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range cfg.Validate() {
		slog.Warn("Config", "warning", w)
	}

	app, err := roam.NewApp(cfg, roam.Options{ConfigPath: *configPath})
	if err != nil {
		slog.Error("Failed to build app", "error", err)
		os.Exit(1)
	}
	app.Run()
}
