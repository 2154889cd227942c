package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/pkg/config"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/logger"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "cart-pricing-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
	seed       = flag.Bool("seed", false, "Insert the demo product catalogue after migrating")
)

var log *zap.Logger

func main() {
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log, err = logger.New(logger.Options{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	t := target{project: *projectID, instance: *instanceID, database: *databaseID}
	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		log.Info("using Spanner emulator", zap.String("host", host))
		t.emulator = true
	}

	if err := run(context.Background(), t); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations completed successfully")
}

func run(ctx context.Context, t target) error {
	m, err := newMigrator(ctx, t)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.EnsureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := m.EnsureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := m.Apply(ctx, *migrateDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if *seed {
		if err := seedProducts(ctx, t.DatabasePath()); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
