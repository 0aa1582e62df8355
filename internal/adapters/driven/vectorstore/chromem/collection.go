package chromem

import (
	"context"
	"fmt"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection wraps a chromem collection.
// chromem stores metadata as strings; values are rendered on the way in and
// start_index is parsed back to an int on the way out.
type Collection struct {
	c          *chromemgo.Collection
	dimensions int
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.c.Name
}

// Upsert stores documents. chromem replaces documents with an existing id.
func (c *Collection) Upsert(ctx context.Context, ids []string, vectors [][]float32, metadata []map[string]any, contents []string) error {
	if len(ids) != len(vectors) || len(ids) != len(metadata) || len(ids) != len(contents) {
		return fmt.Errorf("%w: upsert slices differ in length", domain.ErrInvalidInput)
	}
	if len(ids) == 0 {
		return nil
	}

	for i, v := range vectors {
		if c.dimensions > 0 && len(v) != c.dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, collection expects %d",
				domain.ErrInvalidInput, i, len(v), c.dimensions)
		}
	}

	metas := make([]map[string]string, len(metadata))
	for i, m := range metadata {
		metas[i] = stringifyMetadata(m)
	}

	if err := c.c.Add(ctx, ids, vectors, metas, contents); err != nil {
		return fmt.Errorf("add to %s: %w", c.c.Name, err)
	}
	return nil
}

// Search returns up to k nearest documents.
func (c *Collection) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	// chromem rejects k larger than the collection
	k = min(k, c.c.Count())
	if k <= 0 {
		return nil, nil
	}

	results, err := c.c.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.c.Name, err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, driven.VectorHit{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   parseMetadata(r.Metadata),
			Similarity: float64(r.Similarity),
		})
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (c *Collection) Count(_ context.Context) (int, error) {
	return c.c.Count(), nil
}

func stringifyMetadata(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func parseMetadata(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if raw, ok := m[domain.MetaStartIndex]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			out[domain.MetaStartIndex] = n
		}
	}
	return out
}
