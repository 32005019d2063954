package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"obesity-risk/internal/config"
)

const (
	dbConnectAttempts = 10
	dbRetryDelay      = 2 * time.Second
)

// connectDB retries while the database container starts.
func connectDB(ctx context.Context, url string, logger zerolog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for i := 0; i < dbConnectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Info().Msg("connected to database")
			return db, nil
		}
		logger.Info().Int("attempt", i+1).Int("of", dbConnectAttempts).Msg("waiting for database")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(dbRetryDelay):
		}
	}
	db.Close()
	return nil, fmt.Errorf("database not reachable after %d attempts: %w", dbConnectAttempts, err)
}

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	m, err := migrate.New(cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration init failed: %w", err)
	}
	return m, nil
}

func migrateUp(cfg *config.Config) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
