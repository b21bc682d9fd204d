package database

import (
	"errors"
	"fmt"

	"lawn-booking/migrations"
	"lawn-booking/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrate applies the embedded schema migrations. action is "up" or "down";
// "down" rolls back a single step.
func Migrate(config utils.DatabaseConfig, action string, log *zap.Logger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, ConnString("pgx5", config))
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer mig.Close()

	switch action {
	case "up":
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database migrations applied")
	case "down":
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("roll back migration: %w", err)
		}
		log.Info("Database migration rolled back")
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	return nil
}
