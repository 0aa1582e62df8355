package domain

import "fmt"

// IndexTarget addresses one collection on one vector index endpoint.
type IndexTarget struct {
	// URI is the index endpoint. Empty means the configured default.
	URI string

	// Collection is the collection name.
	Collection string
}

// Validate checks the collection name.
// Names must start with a letter or underscore and contain only letters,
// digits and underscores, the strictest rule among the supported backends.
func (t IndexTarget) Validate() error {
	if t.Collection == "" {
		return fmt.Errorf("%w: collection name is required", ErrInvalidInput)
	}
	for i, r := range t.Collection {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("%w: invalid collection name %q", ErrInvalidInput, t.Collection)
		}
	}
	return nil
}

// WithDefaultURI returns the target with URI set to def when it is empty.
func (t IndexTarget) WithDefaultURI(def string) IndexTarget {
	if t.URI == "" {
		t.URI = def
	}
	return t
}
