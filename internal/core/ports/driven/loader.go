package driven

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// RecordLoader reads raw records from a local snapshot.
type RecordLoader interface {
	// Load reads all records at path.
	// Returns ErrMalformedSourceData if the file cannot be read or parsed.
	Load(ctx context.Context, path string) ([]domain.RawRecord, error)
}
