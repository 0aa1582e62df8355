package driven

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a page.
// It maintains a priority-ordered list of normalisers and dispatches
// on MIME type.
type NormaliserRegistry interface {
	// Normalise extracts text using the best matching normaliser.
	// Returns ErrUnsupportedType if no normaliser handles the MIME type.
	Normalise(ctx context.Context, page *domain.RawPage) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
