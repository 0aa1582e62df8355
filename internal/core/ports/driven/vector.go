package driven

import "context"

// VectorStoreDialer opens connections to vector index endpoints.
// The URI scheme selects the backend.
type VectorStoreDialer interface {
	// Dial connects to the index at uri.
	// Returns ErrUnsupportedType for an unknown scheme.
	Dial(ctx context.Context, uri string) (VectorStore, error)
}

// VectorStore is a connection to one vector index endpoint.
// It manages named collections.
type VectorStore interface {
	// CreateOrReplace drops the named collection if it exists and creates it empty.
	CreateOrReplace(ctx context.Context, name string, dimensions int) (VectorCollection, error)

	// CreateOrGet returns the named collection, creating it if absent.
	// Existing contents are kept.
	CreateOrGet(ctx context.Context, name string, dimensions int) (VectorCollection, error)

	// GetExisting returns the named collection without creating it.
	// Returns ErrCollectionNotFound if it does not exist.
	GetExisting(ctx context.Context, name string) (VectorCollection, error)

	// Close releases the connection.
	Close() error
}

// VectorCollection is a named set of embedded documents.
type VectorCollection interface {
	// Name returns the collection name.
	Name() string

	// Upsert stores documents under the given ids, overwriting any with the same id.
	// All slices have the same length and are aligned by index.
	Upsert(ctx context.Context, ids []string, vectors [][]float32, metadata []map[string]any, contents []string) error

	// Search returns the k documents closest to the query vector, closest first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of documents stored.
	Count(ctx context.Context) (int, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched document id.
	ID string

	// Content is the stored document text.
	Content string

	// Metadata is the stored metadata. Values may come back as strings
	// depending on the backend.
	Metadata map[string]any

	// Similarity is the cosine similarity score.
	Similarity float64
}
