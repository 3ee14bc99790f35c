package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func newMigrationProvider(db *sql.DB, migrationsDir string) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(migrationsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations from %s: %w", migrationsDir, err)
	}
	return provider, nil
}

// RunMigrations applies every pending migration in migrationsDir and logs each one
func RunMigrations(ctx context.Context, db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	provider, err := newMigrationProvider(db, migrationsDir)
	if err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", migrationsDir))

	results, err := provider.Up(ctx)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, res := range results {
		logger.Info("Migration applied",
			zap.Int64("version", res.Source.Version),
			zap.String("file", filepath.Base(res.Source.Path)),
			zap.Duration("duration", res.Duration),
		)
	}

	logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// PendingMigrations returns the versions not yet applied, oldest first
func PendingMigrations(ctx context.Context, db *sql.DB, migrationsDir string) ([]int64, error) {
	provider, err := newMigrationProvider(db, migrationsDir)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	pending := []int64{}
	for _, st := range statuses {
		if st.State == goose.StatePending {
			pending = append(pending, st.Source.Version)
		}
	}
	return pending, nil
}
