package driven

import (
	"context"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// Crawler fetches pages starting at a locator and splits them into raw records.
// Each record is one chunk of a page; its metadata carries source,
// content_type, title, description, language and start_index.
type Crawler interface {
	// Crawl fetches the start page and the pages it reaches.
	// Returns an error if the locator is invalid or the start page cannot be fetched.
	Crawl(ctx context.Context, locator string) ([]domain.RawRecord, error)
}
