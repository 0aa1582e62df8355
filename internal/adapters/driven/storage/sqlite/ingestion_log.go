package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ingestionLog implements driven.IngestionLog.
type ingestionLog struct {
	store *Store
}

var _ driven.IngestionLog = (*ingestionLog)(nil)

// Record stores a finished run. Recording the same id twice overwrites it.
func (l *ingestionLog) Record(ctx context.Context, run domain.IngestionRun) error {
	if run.ID == "" || run.Collection == "" {
		return domain.ErrInvalidInput
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, collection, index_uri, mode, doc_name, origin, locator,
			document_count, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_count = excluded.document_count,
			status = excluded.status,
			error = excluded.error,
			finished_at = excluded.finished_at
	`, run.ID, run.Collection, run.IndexURI, run.Mode.String(), run.DocName, string(run.Origin),
		nullString(run.Locator), run.DocumentCount, string(run.Status), nullString(run.Error),
		run.StartedAt.UTC().Format(timeLayout), formatNullableTime(run.FinishedAt))

	if err != nil {
		return fmt.Errorf("recording ingestion run: %w", err)
	}
	return nil
}

// List returns runs newest first.
func (l *ingestionLog) List(ctx context.Context, collection string, limit int) ([]domain.IngestionRun, error) {
	// SQLite treats a negative LIMIT as no limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.store.db.QueryContext(ctx, `
		SELECT id, collection, index_uri, mode, doc_name, origin, locator,
			document_count, status, error, started_at, finished_at
		FROM ingestion_runs
		WHERE ? = '' OR collection = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, collection, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingestion runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestionRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanIngestionRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingestion runs: %w", err)
	}

	return runs, nil
}

// Close is a no-op; the owning Store closes the database.
func (l *ingestionLog) Close() error {
	return nil
}

// ==================== Helper Functions ====================

// scanIngestionRun scans an ingestion run from *sql.Rows.
func scanIngestionRun(rows *sql.Rows) (*domain.IngestionRun, error) {
	var run domain.IngestionRun
	var mode, origin, status, startedAt string
	var locator, errMsg, finishedAt sql.NullString

	if err := rows.Scan(&run.ID, &run.Collection, &run.IndexURI, &mode, &run.DocName, &origin,
		&locator, &run.DocumentCount, &status, &errMsg, &startedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("scanning ingestion run: %w", err)
	}

	run.Mode = domain.LifecycleMode(mode)
	run.Origin = domain.IngestionOrigin(origin)
	run.Status = domain.RunStatus(status)
	if locator.Valid {
		run.Locator = locator.String
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		run.StartedAt = t
	}
	run.FinishedAt = parseNullableTime(finishedAt)

	return &run, nil
}

// formatNullableTime formats a time in timeLayout, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// parseNullableTime parses a nullable timeLayout string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
