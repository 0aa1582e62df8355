package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection is one pgvector table.
type Collection struct {
	db    *sql.DB
	name  string
	table string // quoted identifier
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Upsert writes all rows in one transaction, replacing rows with the same id.
func (c *Collection) Upsert(ctx context.Context, ids []string, vectors [][]float32, metadata []map[string]any, contents []string) error {
	if len(ids) != len(vectors) || len(ids) != len(metadata) || len(ids) != len(contents) {
		return fmt.Errorf("%w: upsert slices differ in length", domain.ErrInvalidInput)
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert %s: %w", c.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO `+c.table+` (id, content, metadata, embedding)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
  content = EXCLUDED.content,
  metadata = EXCLUDED.metadata,
  embedding = EXCLUDED.embedding`)
	if err != nil {
		return fmt.Errorf("prepare upsert %s: %w", c.name, err)
	}
	defer stmt.Close()

	for i := range ids {
		metaBytes, err := json.Marshal(metadata[i])
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", ids[i], err)
		}
		if _, err := stmt.ExecContext(ctx, ids[i], contents[i], metaBytes, pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("upsert %s into %s: %w", ids[i], c.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert %s: %w", c.name, err)
	}
	return nil
}

// Search returns the k rows with the smallest cosine distance.
func (c *Collection) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `
SELECT id, content, metadata, embedding <=> $1 AS distance
FROM `+c.table+`
ORDER BY embedding <=> $1
LIMIT $2`, pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.name, err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var (
			hit      driven.VectorHit
			metaRaw  []byte
			distance float64
		)
		if err := rows.Scan(&hit.ID, &hit.Content, &metaRaw, &distance); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &hit.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", hit.ID, err)
			}
		}
		hit.Similarity = 1 - distance
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

// Count returns the number of rows.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}
