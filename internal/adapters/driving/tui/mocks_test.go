package tui

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// MockQuerySession implements driving.QuerySession for testing.
type MockQuerySession struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
	Name       string
	Docs       int
	NotReady   bool
}

func (m *MockQuerySession) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return nil, nil
}

func (m *MockQuerySession) Count(context.Context) (int, error) { return m.Docs, nil }

func (m *MockQuerySession) Collection() string {
	if m.Name == "" {
		return "docs"
	}
	return m.Name
}

func (m *MockQuerySession) QueryReady() bool { return !m.NotReady }
func (m *MockQuerySession) Close() error     { return nil }

// MockIngestionService implements driving.IngestionService for testing.
// Only History is exercised by the TUI.
type MockIngestionService struct {
	driving.IngestionService

	Runs []domain.IngestionRun
}

func (m *MockIngestionService) History(context.Context, string, int) ([]domain.IngestionRun, error) {
	return m.Runs, nil
}
