// Package vectorstore selects a vector index backend from an index URI.
//
// Supported forms:
//
//	mem://name                       in-process chromem database
//	/path, ~/path, file:///path      persistent chromem database
//	postgres://..., postgresql://... PostgreSQL with pgvector
//	http://, https://, tcp://, milvus://host:port  Milvus
package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/vecseed/internal/adapters/driven/vectorstore/chromem"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/vectorstore/milvus"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/vectorstore/postgres"
	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/logger"
)

// Ensure Dialer implements the interface.
var _ driven.VectorStoreDialer = (*Dialer)(nil)

// Dialer opens vector stores by URI.
// In-memory databases are kept for the lifetime of the Dialer so that
// separate sessions against the same mem:// URI see the same data.
type Dialer struct {
	mu     sync.Mutex
	memory map[string]*chromem.Store
}

// NewDialer creates a Dialer.
func NewDialer() *Dialer {
	return &Dialer{memory: make(map[string]*chromem.Store)}
}

// Dial connects to the index at uri.
func (d *Dialer) Dial(ctx context.Context, uri string) (driven.VectorStore, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty index uri", domain.ErrInvalidInput)
	}

	scheme := Scheme(uri)
	logger.Debug("dialing %s index", scheme)

	switch scheme {
	case "mem":
		return d.memoryStore(uri), nil
	case "file":
		path, err := localPath(uri)
		if err != nil {
			return nil, err
		}
		return chromem.NewPersistentStore(path)
	case "postgres", "postgresql":
		return postgres.Open(ctx, uri)
	case "http", "https", "tcp", "milvus":
		return milvus.Open(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: index scheme %q", domain.ErrUnsupportedType, scheme)
	}
}

// Scheme returns the backend scheme for uri. Bare paths report "file".
func Scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return "file"
	}
	return strings.ToLower(uri[:i])
}

func (d *Dialer) memoryStore(uri string) *chromem.Store {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.TrimPrefix(uri, "mem://")
	if s, ok := d.memory[key]; ok {
		return s
	}
	s := chromem.NewMemoryStore()
	d.memory[key] = s
	return s
}

func localPath(uri string) (string, error) {
	path := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("%w: index uri: %w", domain.ErrInvalidInput, err)
		}
		path = u.Host + u.Path
	}
	if path == "" {
		return "", fmt.Errorf("%w: index uri %q has no path", domain.ErrInvalidInput, uri)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
