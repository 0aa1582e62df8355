// Package postgres provides a vector store on PostgreSQL with the pgvector
// extension. Each collection is one table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a connection to a pgvector-enabled database.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, checks connectivity and makes sure the vector
// extension is installed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewStore(db)
	if err := s.EnsureExtension(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureExtension installs pgvector if it is missing.
func (s *Store) EnsureExtension(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	return nil
}

// CreateOrReplace drops the collection table if present and creates it empty.
func (s *Store) CreateOrReplace(ctx context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	table := pq.QuoteIdentifier(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return nil, fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL("", table, dimensions)); err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace %s: %w", name, err)
	}

	return &Collection{db: s.db, name: name, table: table}, nil
}

// CreateOrGet creates the collection table if absent.
func (s *Store) CreateOrGet(ctx context.Context, name string, dimensions int) (driven.VectorCollection, error) {
	table := pq.QuoteIdentifier(name)
	if _, err := s.db.ExecContext(ctx, createTableSQL("IF NOT EXISTS ", table, dimensions)); err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return &Collection{db: s.db, name: name, table: table}, nil
}

// GetExisting returns the collection if its table exists.
func (s *Store) GetExisting(ctx context.Context, name string) (driven.VectorCollection, error) {
	table := pq.QuoteIdentifier(name)

	var found sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, table).Scan(&found); err != nil {
		return nil, fmt.Errorf("look up %s: %w", name, err)
	}
	if !found.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	return &Collection{db: s.db, name: name, table: table}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTableSQL(ifNotExists, table string, dimensions int) string {
	return fmt.Sprintf(`CREATE TABLE %s%s (
  id TEXT PRIMARY KEY,
  content TEXT NOT NULL,
  metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
  embedding vector(%d) NOT NULL
)`, ifNotExists, table, dimensions)
}
