package main

import (
	"context"
	_ "embed"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"weatherdash/apis/geocoding"
	"weatherdash/apis/openmeteo"
	"weatherdash/cli"
	"weatherdash/config"
	"weatherdash/dictation"
	"weatherdash/history"
	"weatherdash/logger"
	"weatherdash/manager"
	"weatherdash/presentation"
	"weatherdash/ui"
)

//go:embed config.yaml
var configRaw []byte

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %s\n", err)
	}

	cfg, err := config.LoadFile(os.Getenv("WEATHER_CONFIG"), configRaw)
	if err != nil {
		log.Fatalf("config: %s\n", err)
	}

	zapLog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %s\n", err)
	}
	defer func() { _ = zapLog.Sync() }()

	store := history.New(cfg.History.Path, cfg.History.MaxEntries, zapLog.Named("history"))
	if err := store.Ensure(); err != nil {
		zapLog.Warn("history file unavailable", zap.Error(err))
	}

	loop := ui.NewLoop(0)
	defer loop.Close()

	terminal := presentation.NewTerminal(os.Stdout)

	weatherManager := manager.New(loop, terminal)
	weatherManager.SetLogger(zapLog.Named("manager"))
	weatherManager.SetHistory(store)
	weatherManager.SetGeocoding(geocoding.New(geocoding.Config{
		Endpoint: cfg.Geocoding.Endpoint,
		Count:    cfg.Geocoding.Count,
		Timeout:  cfg.Geocoding.Timeout,
	}, zapLog.Named("geocoding")))
	weatherManager.SetForecast(openmeteo.New(openmeteo.Config{
		Endpoint: cfg.Forecast.Endpoint,
		Timeout:  cfg.Forecast.Timeout,
	}, zapLog.Named("forecast")))
	weatherManager.SetDictation(dictation.New(cfg.Dictation.Argv(), cfg.Dictation.Timeout, zapLog.Named("dictation")))

	cmd, err := cli.New(weatherManager, loop, terminal, zapLog)
	if err != nil {
		log.Fatalf("new cli: %s\n", err)
	}

	if err = cmd.ExecuteContext(ctx); err != nil {
		_ = zapLog.Sync()
		os.Exit(1)
	}
}
