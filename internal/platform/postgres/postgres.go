package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Apurer/wfs-temporal/internal/platform/migrations"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Open connects, migrates the temporal tables, and returns the DB with a cleanup function.
// An empty DSN yields a nil DB and no error so callers can fall back to memory adapters.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func(), error) {
	noop := func() {}
	if strings.TrimSpace(dsn) == "" {
		if logger != nil {
			logger.Warn("POSTGRES_DSN not set, falling back to in-memory temporal stores")
		}
		return nil, noop, nil
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, noop, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, noop, fmt.Errorf("unwrap postgres connection: %w", err)
	}
	cleanup := func() { _ = sqlDB.Close() }
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("migrate temporal tables: %w", err)
	}
	if logger != nil {
		logger.Info("postgres connection established")
	}
	return db, cleanup, nil
}
