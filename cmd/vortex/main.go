package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"vortex/internal/app"
	"vortex/internal/config"
	"vortex/internal/logger"
)

// Exit codes: 0 normal shutdown, 1 configuration failure, 2 venue init
// failure.
func main() {
	cfgPath := strings.TrimSpace(os.Getenv("VORTEX_CONFIG"))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("config invalid: %v", err)
		os.Exit(1)
	}

	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Printf("log setup failed: %v", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (mode=%s venue=%s symbols=%v)",
		cfg.Mode(), cfg.Venue.Name, cfg.Trading.Symbols)

	a, err := app.New(cfg, cfgPath)
	if err != nil {
		logger.Errorf("init failed: %v", err)
		if errors.Is(err, app.ErrVenueInit) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Errorf("run failed: %v", err)
		os.Exit(1)
	}
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
