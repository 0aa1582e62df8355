package services

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// Normalise converts a raw record into a Document with the full metadata
// schema. Each field takes the raw value, or its default when the raw value
// is absent, null or falsy. DocName always comes from docName.
func Normalise(raw domain.RawRecord, docName string) domain.Document {
	return domain.Document{
		Content:  raw.Content,
		Metadata: metadataFrom(raw.Metadata, docName),
	}
}

// NormaliseAll normalises a batch in input order with one shared docName.
func NormaliseAll(raws []domain.RawRecord, docName string) []domain.Document {
	docs := make([]domain.Document, len(raws))
	for i, raw := range raws {
		docs[i] = Normalise(raw, docName)
	}
	return docs
}

// MetadataFromMap rebuilds Metadata from a stored mapping, applying the same
// defaults. Used when reading hits back from an index, where doc_name is a
// stored value rather than an ingestion argument.
func MetadataFromMap(m map[string]any) domain.Metadata {
	return metadataFrom(m, stringOr(m[domain.MetaDocName], ""))
}

func metadataFrom(m map[string]any, docName string) domain.Metadata {
	return domain.Metadata{
		Source:      stringOr(m[domain.MetaSource], ""),
		ContentType: stringOr(m[domain.MetaContentType], domain.DefaultContentType),
		Title:       stringOr(m[domain.MetaTitle], ""),
		Description: stringOr(m[domain.MetaDescription], ""),
		Language:    stringOr(m[domain.MetaLanguage], domain.DefaultLanguage),
		DocName:     docName,
		StartIndex:  intOr(m[domain.MetaStartIndex], 0),
	}
}

// isFalsy reports whether v counts as missing: nil, false, zero numbers,
// empty strings and empty collections.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func stringOr(v any, def string) string {
	if isFalsy(v) {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// intOr accepts integers, whole JSON numbers and numeric strings.
// Anything else, including negative offsets, yields def.
func intOr(v any, def int) int {
	if isFalsy(v) {
		return def
	}

	n := def
	switch val := v.(type) {
	case int:
		n = val
	case int64:
		n = int(val)
	case int32:
		n = int(val)
	case float64:
		if val == math.Trunc(val) && val < math.MaxInt64 {
			n = int(val)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			n = parsed
		}
	}

	if n < 0 {
		return def
	}
	return n
}
