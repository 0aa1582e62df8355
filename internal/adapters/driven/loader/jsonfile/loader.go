// Package jsonfile reads local snapshots of pre-fetched records.
//
// A snapshot is a JSON array of objects shaped like
// {"page_content": "...", "metadata": {...}}. Both keys are optional and
// null values are treated as absent; anything else that does not fit the
// shape is reported as domain.ErrMalformedSourceData.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.RecordLoader = (*Loader)(nil)

// Loader reads snapshot files from disk.
type Loader struct{}

// New creates a snapshot loader.
func New() *Loader {
	return &Loader{}
}

// Load reads and decodes the snapshot at path.
// file:// URIs and a leading ~ are accepted.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ResolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSourceData, err)
	}

	return Decode(data)
}

// Decode parses snapshot bytes into raw records, preserving order.
func Decode(data []byte) ([]domain.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level must be a JSON array", domain.ErrMalformedSourceData)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSourceData, err)
	}

	records := make([]domain.RawRecord, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", domain.ErrMalformedSourceData, i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeRecord(item json.RawMessage) (domain.RawRecord, error) {
	var fields map[string]json.RawMessage
	if !isObject(item) {
		return domain.RawRecord{}, errors.New("not an object")
	}
	if err := json.Unmarshal(item, &fields); err != nil {
		return domain.RawRecord{}, err
	}

	var rec domain.RawRecord

	if raw, ok := fields["page_content"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &rec.Content); err != nil {
			return domain.RawRecord{}, errors.New("page_content must be a string")
		}
	}

	rec.Metadata = map[string]any{}
	if raw, ok := fields["metadata"]; ok && !isNull(raw) {
		if !isObject(raw) {
			return domain.RawRecord{}, errors.New("metadata must be an object")
		}
		if err := json.Unmarshal(raw, &rec.Metadata); err != nil {
			return domain.RawRecord{}, err
		}
	}

	return rec, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ResolvePath converts a snapshot locator to a local path.
// Handles file:// URIs, a leading ~ and bare paths.
func ResolvePath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
