package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
	"github.com/custodia-labs/vecseed/internal/logger"
)

// Ensure Session implements the query interface.
var _ driving.QuerySession = (*Session)(nil)

// SessionManager opens sessions on vector index collections under an
// explicit lifecycle mode. It holds no connections itself: every Open dials.
type SessionManager struct {
	dialer   driven.VectorStoreDialer
	embedder driven.EmbeddingService
	cfg      domain.IndexSettings
}

// NewSessionManager creates a session manager.
func NewSessionManager(dialer driven.VectorStoreDialer, embedder driven.EmbeddingService, cfg domain.IndexSettings) *SessionManager {
	return &SessionManager{
		dialer:   dialer,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Open connects to the target collection.
//
//   - Replace drops any existing collection and creates it empty.
//   - Append creates the collection only if it is missing.
//   - ReadOnly never creates; a missing collection is ErrCollectionNotFound.
func (m *SessionManager) Open(ctx context.Context, target domain.IndexTarget, mode domain.LifecycleMode) (*Session, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: lifecycle mode %q", domain.ErrInvalidInput, mode)
	}
	target = target.WithDefaultURI(m.cfg.URI)
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if target.URI == "" {
		return nil, fmt.Errorf("%w: no index uri configured", domain.ErrInvalidInput)
	}
	if m.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	store, err := m.dialer.Dial(ctx, target.URI)
	if err != nil {
		return nil, connectionError(err)
	}

	var coll driven.VectorCollection
	switch mode {
	case domain.LifecycleReplace:
		coll, err = store.CreateOrReplace(ctx, target.Collection, m.embedder.Dimensions())
	case domain.LifecycleAppend:
		coll, err = store.CreateOrGet(ctx, target.Collection, m.embedder.Dimensions())
	case domain.LifecycleReadOnly:
		coll, err = store.GetExisting(ctx, target.Collection)
	}
	if err != nil {
		_ = store.Close()
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return nil, err
		}
		return nil, connectionError(err)
	}

	logger.Debug("opened collection %s in %s mode", target.Collection, mode)

	return &Session{
		store:     store,
		coll:      coll,
		embedder:  m.embedder,
		mode:      mode,
		batchSize: m.cfg.EffectiveBatchSize(),
	}, nil
}

// connectionError wraps index failures as ErrConnection unless they already
// carry a more specific kind.
func connectionError(err error) error {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnsupportedType) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConnection, err)
}

// Session is an open handle on one collection.
// A session is used by one caller at a time.
type Session struct {
	store     driven.VectorStore
	coll      driven.VectorCollection
	embedder  driven.EmbeddingService
	mode      domain.LifecycleMode
	batchSize int

	mu     sync.Mutex
	closed bool
}

// Commit embeds and stores documents under the given ids.
// Input is checked in full before any network call. A failure part way
// through leaves earlier batches committed and returns ErrCommitFailed.
func (s *Session) Commit(ctx context.Context, docs []domain.Document, ids []string) (*domain.CommitResult, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if !s.mode.Writable() {
		return nil, domain.ErrReadOnlySession
	}
	if err := validateBatch(docs, ids); err != nil {
		return nil, err
	}

	result := &domain.CommitResult{
		Collection: s.coll.Name(),
		Mode:       s.mode,
		IDs:        ids,
	}
	if len(docs) == 0 {
		result.IDs = []string{}
		return result, nil
	}

	logger.Section("Commit")
	committed := 0
	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))
		if err := s.commitBatch(ctx, docs[start:end], ids[start:end]); err != nil {
			return nil, fmt.Errorf("%w: %d of %d documents committed to %s: %w",
				domain.ErrCommitFailed, committed, len(docs), s.coll.Name(), err)
		}
		committed = end
		logger.Debug("committed %d/%d documents", committed, len(docs))
	}

	result.Count = committed
	logger.Info("committed %d documents to %s (%s)", committed, s.coll.Name(), s.mode)
	return result, nil
}

func (s *Session) commitBatch(ctx context.Context, docs []domain.Document, ids []string) error {
	defer logger.Timed(fmt.Sprintf("batch of %d", len(docs)))()

	contents := make([]string, len(docs))
	metadata := make([]map[string]any, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
		metadata[i] = d.Metadata.Map()
	}

	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(contents) {
		return fmt.Errorf("embed: got %d vectors for %d documents", len(vectors), len(contents))
	}

	if err := s.coll.Upsert(ctx, ids, vectors, metadata, contents); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

func validateBatch(docs []domain.Document, ids []string) error {
	if len(docs) != len(ids) {
		return fmt.Errorf("%w: %d documents but %d ids", domain.ErrInvalidInput, len(docs), len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id at position %d", domain.ErrInvalidInput, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

// QueryReady reports whether the session is open.
func (s *Session) QueryReady() bool {
	return s.usable() == nil
}

// Search embeds query and returns the closest documents.
func (s *Session) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.coll.Search(ctx, vec, opts.EffectiveLimit())
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			ID: h.ID,
			Document: domain.Document{
				Content:  h.Content,
				Metadata: MetadataFromMap(h.Metadata),
			},
			Score: h.Similarity,
		}
	}
	return results, nil
}

// Count returns the number of documents in the collection.
func (s *Session) Count(ctx context.Context) (int, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}
	return s.coll.Count(ctx)
}

// Collection returns the collection name.
func (s *Session) Collection() string {
	return s.coll.Name()
}

// Mode returns the lifecycle mode the session was opened with.
func (s *Session) Mode() domain.LifecycleMode {
	return s.mode
}

// Close releases the index connection. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.store.Close()
}

func (s *Session) usable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	return nil
}
