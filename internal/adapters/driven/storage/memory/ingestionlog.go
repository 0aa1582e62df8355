package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure IngestionLog implements the interface.
var _ driven.IngestionLog = (*IngestionLog)(nil)

// IngestionLog is an in-memory implementation of driven.IngestionLog.
type IngestionLog struct {
	mu   sync.RWMutex
	runs map[string]domain.IngestionRun
}

// NewIngestionLog creates a new in-memory ingestion log.
func NewIngestionLog() *IngestionLog {
	return &IngestionLog{
		runs: make(map[string]domain.IngestionRun),
	}
}

// Record stores or replaces a run.
func (l *IngestionLog) Record(_ context.Context, run domain.IngestionRun) error {
	if run.ID == "" || run.Collection == "" {
		return domain.ErrInvalidInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs[run.ID] = run
	return nil
}

// List returns runs newest first.
func (l *IngestionLog) List(_ context.Context, collection string, limit int) ([]domain.IngestionRun, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.IngestionRun, 0, len(l.runs))
	for _, run := range l.runs {
		if collection != "" && run.Collection != collection {
			continue
		}
		result = append(result, run)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close is a no-op.
func (l *IngestionLog) Close() error {
	return nil
}
