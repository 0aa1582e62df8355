package driven

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// IngestionLog persists a ledger of ingestion runs.
type IngestionLog interface {
	// Record stores a finished run.
	Record(ctx context.Context, run domain.IngestionRun) error

	// List returns runs newest first. An empty collection lists all runs.
	// A limit of zero or less returns every run.
	List(ctx context.Context, collection string, limit int) ([]domain.IngestionRun, error)

	// Close releases resources.
	Close() error
}
