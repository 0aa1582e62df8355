package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// --- Fake implementations ---

// fakeEmbedder returns a two-dimensional vector derived from text length.
// failOnCall makes the n-th EmbedBatch call (1-based) fail.
type fakeEmbedder struct {
	mu         sync.Mutex
	batchCalls int
	batchSizes []int
	embedCalls int
	failOnCall int
	short      bool
	err        error
}

func (e *fakeEmbedder) vector(text string) []float32 {
	return []float32{1, float32(len(text)) / 100}
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedCalls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchCalls++
	e.batchSizes = append(e.batchSizes, len(texts))
	if e.failOnCall > 0 && e.batchCalls == e.failOnCall {
		return nil, errors.New("embedding quota exhausted")
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, e.vector(t))
	}
	if e.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int              { return 2 }
func (e *fakeEmbedder) ModelName() string            { return "fake" }
func (e *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (e *fakeEmbedder) Close() error                 { return nil }

// fakeRow is one stored document.
type fakeRow struct {
	vector   []float32
	metadata map[string]any
	content  string
}

// fakeIndex is an in-process vector index shared by every dial.
type fakeIndex struct {
	mu          sync.Mutex
	collections map[string]map[string]fakeRow
	ops         []string
	dials       int
	dialErr     error
	upsertErr   error
	closes      int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{collections: make(map[string]map[string]fakeRow)}
}

func (f *fakeIndex) Dial(_ context.Context, _ string) (driven.VectorStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials++
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return &fakeStore{index: f}, nil
}

func (f *fakeIndex) rows(name string) map[string]fakeRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collections[name]
}

func (f *fakeIndex) ids(name string) []string {
	rows := f.rows(name)
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type fakeStore struct {
	index *fakeIndex
}

func (s *fakeStore) CreateOrReplace(_ context.Context, name string, _ int) (driven.VectorCollection, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()
	s.index.ops = append(s.index.ops, "replace:"+name)
	s.index.collections[name] = make(map[string]fakeRow)
	return &fakeCollection{index: s.index, name: name}, nil
}

func (s *fakeStore) CreateOrGet(_ context.Context, name string, _ int) (driven.VectorCollection, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()
	s.index.ops = append(s.index.ops, "get_or_create:"+name)
	if _, ok := s.index.collections[name]; !ok {
		s.index.collections[name] = make(map[string]fakeRow)
	}
	return &fakeCollection{index: s.index, name: name}, nil
}

func (s *fakeStore) GetExisting(_ context.Context, name string) (driven.VectorCollection, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()
	s.index.ops = append(s.index.ops, "get:"+name)
	if _, ok := s.index.collections[name]; !ok {
		return nil, domain.ErrCollectionNotFound
	}
	return &fakeCollection{index: s.index, name: name}, nil
}

func (s *fakeStore) Close() error {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()
	s.index.closes++
	return nil
}

type fakeCollection struct {
	index *fakeIndex
	name  string
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Upsert(_ context.Context, ids []string, vectors [][]float32, metadata []map[string]any, contents []string) error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.ops = append(c.index.ops, "upsert:"+c.name)
	if c.index.upsertErr != nil {
		return c.index.upsertErr
	}
	rows := c.index.collections[c.name]
	for i, id := range ids {
		rows[id] = fakeRow{vector: vectors[i], metadata: metadata[i], content: contents[i]}
	}
	return nil
}

func (c *fakeCollection) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	ids := make([]string, 0, len(c.index.collections[c.name]))
	for id := range c.index.collections[c.name] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var hits []driven.VectorHit
	for i, id := range ids {
		if i == k {
			break
		}
		row := c.index.collections[c.name][id]
		hits = append(hits, driven.VectorHit{
			ID:         id,
			Content:    row.content,
			Metadata:   row.metadata,
			Similarity: 1 - float64(i)/10,
		})
	}
	return hits, nil
}

func (c *fakeCollection) Count(_ context.Context) (int, error) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	return len(c.index.collections[c.name]), nil
}

// fakeLoader serves canned records.
type fakeLoader struct {
	records []domain.RawRecord
	err     error
	paths   []string
}

func (l *fakeLoader) Load(_ context.Context, path string) ([]domain.RawRecord, error) {
	l.paths = append(l.paths, path)
	return l.records, l.err
}

// fakeCrawler serves canned records.
type fakeCrawler struct {
	records  []domain.RawRecord
	err      error
	locators []string
}

func (c *fakeCrawler) Crawl(_ context.Context, locator string) ([]domain.RawRecord, error) {
	c.locators = append(c.locators, locator)
	return c.records, c.err
}

// failingLedger rejects every write.
type failingLedger struct{}

func (failingLedger) Record(_ context.Context, _ domain.IngestionRun) error {
	return errors.New("disk full")
}

func (failingLedger) List(_ context.Context, _ string, _ int) ([]domain.IngestionRun, error) {
	return nil, errors.New("disk full")
}

func (failingLedger) Close() error { return nil }
