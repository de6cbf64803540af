package store

import (
	"context"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

// RunLog is the durable audit sink for migration runs. A run is recorded
// once when the batch starts and once when it reaches a terminal status;
// nothing ever deletes entries from the core.
type RunLog interface {
	RecordStart(ctx context.Context, run *models.MigrationRun) error
	RecordFinish(ctx context.Context, run *models.MigrationRun) error
}

// NopLog discards run records. Used when no database is configured.
type NopLog struct{}

func (NopLog) RecordStart(context.Context, *models.MigrationRun) error  { return nil }
func (NopLog) RecordFinish(context.Context, *models.MigrationRun) error { return nil }
