package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters and services wrap them with the underlying cause using
// fmt.Errorf("%w: %w", kind, cause) so callers can match the kind with
// errors.Is and still read the cause.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrMalformedSourceData indicates a local snapshot could not be read or
	// does not match the expected record shape. Raised before any index interaction.
	ErrMalformedSourceData = errors.New("malformed source data")

	// ErrCrawlFailed indicates the crawler could not produce records.
	ErrCrawlFailed = errors.New("crawl failed")

	// Index Errors.

	// ErrConnection indicates the vector index endpoint is unreachable.
	// Callers may retry with backoff.
	ErrConnection = errors.New("index connection failed")

	// ErrCollectionNotFound indicates a read-only open against a collection
	// that does not exist. The collection is never created implicitly.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCommitFailed indicates embedding or upsert failed part way through a batch.
	// The collection is left in a partial state; there is no rollback.
	ErrCommitFailed = errors.New("commit failed")

	// ErrReadOnlySession indicates a write was attempted on a read-only session.
	ErrReadOnlySession = errors.New("session is read-only")

	// ErrSessionClosed indicates the session was used after Close.
	ErrSessionClosed = errors.New("session closed")
)
