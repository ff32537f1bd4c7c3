package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/krugstergaming/Greenhouse/internal/app"
	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "client"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "client",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	runtime, err := app.New(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to assemble client runtime", err)
		os.Exit(1)
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"api": cfg.API.BaseURL,
	})
	logg.Info(ctx, "starting client runtime")

	if err := runtime.Run(ctx); err != nil {
		logg.Error(ctx, "client runtime stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "shutting down")
}
