package main

import (
	"context"
	"fmt"
	"time"

	"persona-match/internal/config"
	"persona-match/internal/database"
	dbpostgres "persona-match/internal/database/postgres"
	"persona-match/internal/logger"

	"go.uber.org/zap"
)

// cliConfig loads every section except the HTTP settings, which the CLI does not need.
func cliConfig() config.Config {
	return config.Config{
		App:      config.AppConfig{AppName: "matchctl"},
		Database: config.LoadDatabase(),
		Redis:    config.LoadRedis(),
		Match:    config.LoadMatch(),
		Log:      config.LoadLog(),
	}
}

func cliLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

func connect(cfg config.Config, log *zap.Logger) (database.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
