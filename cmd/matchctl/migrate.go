package main

import (
	"context"
	"fmt"

	"persona-match/internal/database/migration"
	"persona-match/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo jobs and a demo persona",
	Long:  "Inserts a handful of demo jobs and one demo persona with preferences. Existing rows are left untouched, so the command can be re-run.",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := cliConfig()
	log, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := (migration.Runner{Logger: log}).Run(contextOf(cmd), db.SQLDB()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations up to date")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := cliConfig()
	log, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: log}).Run(contextOf(cmd), db); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	log.Info("demo data seeded",
		zap.Stringer("user_id", seeder.DemoUserID),
		zap.Stringer("persona_id", seeder.DemoPersonaID),
	)
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
