package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// MigrationsDir is where the goose SQL files live relative to the binary
const MigrationsDir = "migrations"

// RunMigrations applies pending migrations and logs the resulting version
func RunMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Applying pending migrations", zap.String("dir", dir))

	if err := goose.Up(db, dir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	logger.Info("Schema is up to date", zap.Int64("version", version))
	return nil
}
