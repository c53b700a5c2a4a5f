package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/godror/godror" // Oracle Driver
	"go-gallery/internal/config"
	"go.uber.org/zap"
)

// InitOracle initializes the Oracle database connection pool.
// It returns the pool handle immediately and relies on database/sql
// for lazy connection establishment and reconnection.
func InitOracle(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	logger.Info("Initializing Oracle database connection pool...")

	db, err := sql.Open("godror", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open Oracle connection pool", zap.Error(err))
		return nil, fmt.Errorf("failed to configure oracle connection pool: %w", err)
	}

	db.SetMaxOpenConns(cfg.OracleMaxPoolOpenConns)
	db.SetMaxIdleConns(cfg.OracleMaxPoolIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.OracleMaxPoolConnLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.OracleMaxPoolConnIdleTimeMinutes) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		// Schema setup needs a live connection, so unlike a lazy pool this is fatal
		db.Close()
		logger.Error("Initial Oracle DB ping failed", zap.Error(err))
		return nil, fmt.Errorf("failed to ping oracle database: %w", err)
	}

	logger.Info("Oracle database pool initialized and initial ping successful.")
	return db, nil
}
