// Package milvus provides a vector store backed by a Milvus server.
//
// Collections use a fixed schema: a varchar primary key, the document text,
// the embedding, one varchar column per string metadata field and an int64
// start_index column.
package milvus

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Field names in every collection.
const (
	fieldPK     = "pk"
	fieldText   = "text"
	fieldVector = "vector"

	maxPKLength   = 64
	maxTextLength = 65535
	maxMetaLength = 4096
)

// stringFields are the metadata fields stored as varchar columns.
var stringFields = []string{
	domain.MetaSource,
	domain.MetaContentType,
	domain.MetaTitle,
	domain.MetaDescription,
	domain.MetaLanguage,
	domain.MetaDocName,
}

// milvusClient is the subset of client.Client the store uses.
type milvusClient interface {
	HasCollection(ctx context.Context, collName string) (bool, error)
	DropCollection(ctx context.Context, collName string, opts ...client.DropCollectionOption) error
	CreateCollection(ctx context.Context, schema *entity.Schema, shardsNum int32, opts ...client.CreateCollectionOption) error
	CreateIndex(ctx context.Context, collName string, fieldName string, idx entity.Index, async bool, opts ...client.IndexOption) error
	LoadCollection(ctx context.Context, collName string, async bool, opts ...client.LoadCollectionOption) error
	Upsert(ctx context.Context, collName string, partitionName string, columns ...entity.Column) (entity.Column, error)
	Flush(ctx context.Context, collName string, async bool, opts ...client.FlushOption) error
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string,
		vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int,
		sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	GetCollectionStatistics(ctx context.Context, collName string) (map[string]string, error)
	Close() error
}

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a connection to a Milvus server.
type Store struct {
	cli milvusClient
}

// Open connects to the Milvus server at uri. The scheme https enables TLS;
// user info supplies credentials and the path selects the database.
func Open(ctx context.Context, uri string) (*Store, error) {
	cfg, err := configFromURI(uri)
	if err != nil {
		return nil, err
	}

	cli, err := client.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect milvus %s: %w", cfg.Address, err)
	}
	return newStore(cli), nil
}

func newStore(cli milvusClient) *Store {
	return &Store{cli: cli}
}

func configFromURI(uri string) (client.Config, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return client.Config{}, fmt.Errorf("%w: milvus uri: %w", domain.ErrInvalidInput, err)
	}
	if u.Host == "" {
		return client.Config{}, fmt.Errorf("%w: milvus uri %q has no host", domain.ErrInvalidInput, uri)
	}

	cfg := client.Config{
		Address:       u.Host,
		EnableTLSAuth: u.Scheme == "https",
		DBName:        strings.Trim(u.Path, "/"),
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	return cfg, nil
}

// CreateOrReplace drops the collection if present and creates it empty.
func (s *Store) CreateOrReplace(ctx context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	exists, err := s.cli.HasCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", name, err)
	}
	if exists {
		if err := s.cli.DropCollection(ctx, name); err != nil {
			return nil, fmt.Errorf("drop %s: %w", name, err)
		}
	}
	if err := s.create(ctx, name, dimensions); err != nil {
		return nil, err
	}
	return &Collection{cli: s.cli, name: name, dimensions: dimensions}, nil
}

// CreateOrGet creates the collection if absent.
func (s *Store) CreateOrGet(ctx context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	exists, err := s.cli.HasCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", name, err)
	}
	if !exists {
		if err := s.create(ctx, name, dimensions); err != nil {
			return nil, err
		}
	} else if err := s.cli.LoadCollection(ctx, name, false); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return &Collection{cli: s.cli, name: name, dimensions: dimensions}, nil
}

// GetExisting returns the collection if it exists and loads it for search.
func (s *Store) GetExisting(ctx context.Context, name string) (driven.VectorCollection, error) {
	exists, err := s.cli.HasCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if err := s.cli.LoadCollection(ctx, name, false); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return &Collection{cli: s.cli, name: name}, nil
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.cli.Close()
}

func (s *Store) create(ctx context.Context, name string, dimensions int) error {
	if err := s.cli.CreateCollection(ctx, collectionSchema(name, dimensions), entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	idx, err := entity.NewIndexAUTOINDEX(entity.COSINE)
	if err != nil {
		return fmt.Errorf("build index for %s: %w", name, err)
	}
	if err := s.cli.CreateIndex(ctx, name, fieldVector, idx, false); err != nil {
		return fmt.Errorf("index %s: %w", name, err)
	}
	if err := s.cli.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func collectionSchema(name string, dimensions int) *entity.Schema {
	schema := entity.NewSchema().
		WithName(name).
		WithDescription("vecseed documents").
		WithField(entity.NewField().
			WithName(fieldPK).
			WithDataType(entity.FieldTypeVarChar).
			WithIsPrimaryKey(true).
			WithMaxLength(maxPKLength)).
		WithField(entity.NewField().
			WithName(fieldText).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxTextLength)).
		WithField(entity.NewField().
			WithName(fieldVector).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dimensions)))

	for _, f := range stringFields {
		schema = schema.WithField(entity.NewField().
			WithName(f).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxMetaLength))
	}

	return schema.WithField(entity.NewField().
		WithName(domain.MetaStartIndex).
		WithDataType(entity.FieldTypeInt64))
}
