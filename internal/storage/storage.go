package storage

import (
	"context"

	"stealthspanner/internal/storage/models"
)

// Storage defines the interface for probe history persistence
type Storage interface {
	// RecordRun stores a run and its outcomes atomically, filling in IDs.
	RecordRun(ctx context.Context, run *models.Run, outcomes []*models.Outcome) error

	// GetLatestRun returns the most recently finished run.
	GetLatestRun(ctx context.Context) (*models.Run, error)

	// GetRunOutcomes returns all outcomes of a run, best latency first.
	GetRunOutcomes(ctx context.Context, runID int64) ([]*models.Outcome, error)

	// GetHostHistory returns the most recent outcomes for a host,
	// newest first.
	GetHostHistory(ctx context.Context, host string, limit int) ([]*models.Outcome, error)

	// Close closes the storage connection
	Close() error
}
