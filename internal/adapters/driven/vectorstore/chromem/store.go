// Package chromem provides an embedded vector store backed by chromem-go.
// It serves both the in-memory index used by tests and ad hoc runs and the
// on-disk index that is the default for local use.
package chromem

import (
	"context"
	"fmt"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// collectionMetadata marks collections as cosine space, matching the
// similarity chromem computes on normalised vectors.
func collectionMetadata() map[string]string {
	return map[string]string{"hnsw:space": "cosine"}
}

// Store wraps a chromem database.
type Store struct {
	db *chromemgo.DB
}

// NewMemoryStore creates a store that lives only in process memory.
func NewMemoryStore() *Store {
	return &Store{db: chromemgo.NewDB()}
}

// NewPersistentStore opens or creates a store under dir.
func NewPersistentStore(dir string) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// CreateOrReplace drops the collection if present and creates it empty.
func (s *Store) CreateOrReplace(_ context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	if err := s.db.DeleteCollection(name); err != nil {
		return nil, fmt.Errorf("drop collection %s: %w", name, err)
	}
	c, err := s.db.CreateCollection(name, collectionMetadata(), nil)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return &Collection{c: c, dimensions: dimensions}, nil
}

// CreateOrGet returns the collection, creating it if absent.
func (s *Store) CreateOrGet(_ context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	c, err := s.db.GetOrCreateCollection(name, collectionMetadata(), nil)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}
	return &Collection{c: c, dimensions: dimensions}, nil
}

// GetExisting returns the collection without creating it.
func (s *Store) GetExisting(_ context.Context, name string) (driven.VectorCollection, error) {
	c := s.db.GetCollection(name, nil)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	// Dimensions are unknown here; a read-only collection never upserts.
	return &Collection{c: c}, nil
}

// Close is a no-op; chromem persists on every write.
func (s *Store) Close() error {
	return nil
}
