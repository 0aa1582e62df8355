package domain

import "fmt"

// LifecycleMode governs how a collection is treated when a session opens.
// It is always an explicit caller choice, so the destructive path is opt-in.
type LifecycleMode string

// Available lifecycle modes.
const (
	// LifecycleReplace drops an existing collection and recreates it empty.
	LifecycleReplace LifecycleMode = "replace"

	// LifecycleAppend keeps an existing collection and merges new documents in.
	LifecycleAppend LifecycleMode = "append"

	// LifecycleReadOnly opens an existing collection for queries only.
	LifecycleReadOnly LifecycleMode = "read_only"
)

// IsValid returns true if the mode is recognised.
func (m LifecycleMode) IsValid() bool {
	switch m {
	case LifecycleReplace, LifecycleAppend, LifecycleReadOnly:
		return true
	default:
		return false
	}
}

// Writable returns true if sessions opened in this mode accept commits.
func (m LifecycleMode) Writable() bool {
	return m == LifecycleReplace || m == LifecycleAppend
}

// CreatesCollection returns true if opening in this mode creates a missing collection.
func (m LifecycleMode) CreatesCollection() bool {
	return m.Writable()
}

// String returns the string representation.
func (m LifecycleMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m LifecycleMode) Description() string {
	switch m {
	case LifecycleReplace:
		return "Replace (drop and recreate the collection)"
	case LifecycleAppend:
		return "Append (keep existing documents)"
	case LifecycleReadOnly:
		return "Read only (query an existing collection)"
	default:
		return unknownDescription
	}
}

// ParseLifecycleMode converts a string into a LifecycleMode.
func ParseLifecycleMode(s string) (LifecycleMode, error) {
	m := LifecycleMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: lifecycle mode %q", ErrInvalidInput, s)
	}
	return m, nil
}

// AllLifecycleModes returns all lifecycle modes.
func AllLifecycleModes() []LifecycleMode {
	return []LifecycleMode{
		LifecycleReplace,
		LifecycleAppend,
		LifecycleReadOnly,
	}
}
