package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection is one Milvus collection.
type Collection struct {
	cli        milvusClient
	name       string
	dimensions int
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Upsert writes the rows column-wise and flushes so Count sees them.
func (c *Collection) Upsert(ctx context.Context, ids []string, vectors [][]float32, metadata []map[string]any, contents []string) error {
	if len(ids) != len(vectors) || len(ids) != len(metadata) || len(ids) != len(contents) {
		return fmt.Errorf("%w: upsert slices differ in length", domain.ErrInvalidInput)
	}
	if len(ids) == 0 {
		return nil
	}

	dim := c.dimensions
	if dim == 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, collection expects %d",
				domain.ErrInvalidInput, i, len(v), dim)
		}
	}

	columns := []entity.Column{
		entity.NewColumnVarChar(fieldPK, ids),
		entity.NewColumnVarChar(fieldText, contents),
		entity.NewColumnFloatVector(fieldVector, dim, vectors),
	}
	for _, f := range stringFields {
		values := make([]string, len(metadata))
		for i, m := range metadata {
			values[i] = metaString(m[f])
		}
		columns = append(columns, entity.NewColumnVarChar(f, values))
	}
	starts := make([]int64, len(metadata))
	for i, m := range metadata {
		starts[i] = metaInt(m[domain.MetaStartIndex])
	}
	columns = append(columns, entity.NewColumnInt64(domain.MetaStartIndex, starts))

	if _, err := c.cli.Upsert(ctx, c.name, "", columns...); err != nil {
		return fmt.Errorf("upsert into %s: %w", c.name, err)
	}
	if err := c.cli.Flush(ctx, c.name, false); err != nil {
		return fmt.Errorf("flush %s: %w", c.name, err)
	}
	return nil
}

// Search runs a cosine similarity search with strong consistency.
func (c *Collection) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, fmt.Errorf("search params: %w", err)
	}

	outputFields := append([]string{fieldText, domain.MetaStartIndex}, stringFields...)
	results, err := c.cli.Search(ctx, c.name, nil, "", outputFields,
		[]entity.Vector{entity.FloatVector(query)}, fieldVector, entity.COSINE, k, sp,
		client.WithSearchQueryConsistencyLevel(entity.ClStrong))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.name, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	res := results[0]
	if res.Err != nil {
		return nil, fmt.Errorf("search %s: %w", c.name, res.Err)
	}

	fields := make(map[string]entity.Column, len(res.Fields))
	for _, col := range res.Fields {
		fields[col.Name()] = col
	}

	hits := make([]driven.VectorHit, 0, res.ResultCount)
	for i := 0; i < res.ResultCount; i++ {
		id, err := res.IDs.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read id %d: %w", i, err)
		}
		hit := driven.VectorHit{
			ID:       id,
			Metadata: make(map[string]any, len(stringFields)+1),
		}
		if i < len(res.Scores) {
			hit.Similarity = float64(res.Scores[i])
		}
		if col, ok := fields[fieldText]; ok {
			hit.Content, _ = col.GetAsString(i)
		}
		for _, f := range stringFields {
			if col, ok := fields[f]; ok {
				v, _ := col.GetAsString(i)
				hit.Metadata[f] = v
			}
		}
		if col, ok := fields[domain.MetaStartIndex]; ok {
			if v, err := col.GetAsInt64(i); err == nil {
				hit.Metadata[domain.MetaStartIndex] = int(v)
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the row count reported by collection statistics.
func (c *Collection) Count(ctx context.Context) (int, error) {
	stats, err := c.cli.GetCollectionStatistics(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("stats %s: %w", c.name, err)
	}
	n, err := strconv.Atoi(stats["row_count"])
	if err != nil {
		return 0, fmt.Errorf("parse row count for %s: %w", c.name, err)
	}
	return n, nil
}

func metaString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func metaInt(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	default:
		return 0
	}
}
