package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loyaltyops/promo-migrator/internal/models"
)

// runsDDL keeps the optional Postgres path usable without an external
// migration step; columns match the insert/update statements below.
const runsDDL = `
CREATE TABLE IF NOT EXISTS migration_runs (
	id           TEXT PRIMARY KEY,
	source_id    BIGINT NOT NULL,
	dest_id      BIGINT NOT NULL,
	assets       JSONB NOT NULL,
	status       TEXT NOT NULL,
	results      JSONB,
	started_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
)`

// PostgresLog persists migration runs to a migration_runs table.
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog connects a run log to Postgres.
func NewPostgresLog(ctx context.Context, dsn string) (*PostgresLog, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if _, err := pool.Exec(ctx, runsDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure migration_runs table: %w", err)
	}
	return &PostgresLog{pool: pool}, nil
}

// Close releases the connection pool.
func (l *PostgresLog) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

// RecordStart inserts the in-progress run row.
func (l *PostgresLog) RecordStart(ctx context.Context, run *models.MigrationRun) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	assets, err := json.Marshal(run.Assets)
	if err != nil {
		return fmt.Errorf("marshal assets: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO migration_runs (id, source_id, dest_id, assets, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.SourceID, run.DestID, assets, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFinish writes the terminal status and per-asset results.
func (l *PostgresLog) RecordFinish(ctx context.Context, run *models.MigrationRun) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		UPDATE migration_runs
		SET status = $2, results = $3, completed_at = $4
		WHERE id = $1
	`, run.ID, run.Status, results, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}
