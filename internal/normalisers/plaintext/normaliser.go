package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser is the fallback for text-like pages a crawl runs into:
// plain text, feeds, data files and stylesheets served as-is.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/css",
		"text/javascript",
		"text/xml",
		"text/yaml",
		"application/json",
		"application/xml",
		"application/rss+xml",
		"application/atom+xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise returns the page body as text. A leading byte order mark and
// invalid UTF-8 are dropped, line endings unified and trailing spaces trimmed.
// ContentType echoes the page's MIME type so data files keep their identity.
func (n *Normaliser) Normalise(_ context.Context, page *domain.RawPage) (*driven.NormaliseResult, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}

	contentType := page.MIMEType
	if contentType == "" {
		contentType = domain.DefaultContentType
	}

	return &driven.NormaliseResult{
		Text:        cleanText(page.Content),
		Title:       normalisers.TitleFromURI(page.URI),
		ContentType: contentType,
	}, nil
}

func cleanText(body []byte) string {
	s := strings.TrimPrefix(string(body), "\uFEFF")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
