package driven

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// Normaliser extracts plain text from a fetched page.
// Each normaliser handles specific MIME types (e.g., HTML, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text and page attributes from a raw page.
	Normalise(ctx context.Context, page *domain.RawPage) (*NormaliseResult, error)
}

// NormaliseResult contains the output of text extraction.
type NormaliseResult struct {
	// Text is the extracted plain text.
	Text string

	// Title is the page title when the format carries one.
	Title string

	// Description is the page summary when the format declares one.
	Description string

	// Language is the declared content language, such as "en" or "pt-BR".
	Language string

	// ContentType is the MIME type the text was extracted from.
	ContentType string
}
