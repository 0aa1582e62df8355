package driving

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// IngestionService seeds collections and opens query sessions.
type IngestionService interface {
	// IngestFromSource replaces the target collection with the given records.
	IngestFromSource(ctx context.Context, records []domain.RawRecord, docName string, target domain.IndexTarget) (*domain.CommitResult, error)

	// IngestFromFile loads a local snapshot and replaces the target collection with it.
	// The doc name is derived from the file name.
	IngestFromFile(ctx context.Context, path string, target domain.IndexTarget) (*domain.CommitResult, error)

	// IngestFromCrawl crawls locator and appends the pages to the target collection.
	IngestFromCrawl(ctx context.Context, locator, docName string, target domain.IndexTarget) (*domain.CommitResult, error)

	// ConnectReadOnly opens an existing collection for queries.
	// Returns ErrCollectionNotFound if it does not exist.
	ConnectReadOnly(ctx context.Context, target domain.IndexTarget) (QuerySession, error)

	// History lists recorded ingestion runs, newest first.
	History(ctx context.Context, collection string, limit int) ([]domain.IngestionRun, error)
}

// QuerySession is a read-only handle on one collection.
type QuerySession interface {
	// Search returns the documents most similar to query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Collection returns the collection name.
	Collection() string

	// QueryReady reports whether the session can serve queries.
	QueryReady() bool

	// Close releases the index connection.
	Close() error
}
