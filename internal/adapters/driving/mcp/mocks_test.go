package mcp

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	session    *mockQuerySession
	connectErr error

	commit    *domain.CommitResult
	ingestErr error

	runs       []domain.IngestionRun
	historyErr error

	// Recorded arguments.
	target      domain.IndexTarget
	locator     string
	docName     string
	historyColl string
	historyLim  int
}

func (m *mockIngestionService) IngestFromSource(
	_ context.Context, _ []domain.RawRecord, docName string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.docName, m.target = docName, target
	return m.commit, m.ingestErr
}

func (m *mockIngestionService) IngestFromFile(
	_ context.Context, path string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.locator, m.target = path, target
	return m.commit, m.ingestErr
}

func (m *mockIngestionService) IngestFromCrawl(
	_ context.Context, locator, docName string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.locator, m.docName, m.target = locator, docName, target
	return m.commit, m.ingestErr
}

func (m *mockIngestionService) ConnectReadOnly(
	_ context.Context, target domain.IndexTarget,
) (driving.QuerySession, error) {
	m.target = target
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	return m.session, nil
}

func (m *mockIngestionService) History(
	_ context.Context, collection string, limit int,
) ([]domain.IngestionRun, error) {
	m.historyColl, m.historyLim = collection, limit
	return m.runs, m.historyErr
}

// mockQuerySession is a mock implementation of driving.QuerySession.
type mockQuerySession struct {
	collection string
	results    []domain.SearchResult
	count      int
	err        error

	query  string
	opts   domain.SearchOptions
	closed bool
}

func (m *mockQuerySession) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.query, m.opts = query, opts
	return m.results, m.err
}

func (m *mockQuerySession) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockQuerySession) Collection() string {
	return m.collection
}

func (m *mockQuerySession) QueryReady() bool {
	return !m.closed
}

func (m *mockQuerySession) Close() error {
	m.closed = true
	return nil
}
