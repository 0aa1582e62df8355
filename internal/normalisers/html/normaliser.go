package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser turns crawled HTML into plain text. The crawler prefers
// readability extraction and falls back here when that finds no article.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // above plaintext
}

// Normalise returns the visible text of the page along with its title,
// meta description and declared language.
func (n *Normaliser) Normalise(_ context.Context, page *domain.RawPage) (*driven.NormaliseResult, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := string(page.Content)

	return &driven.NormaliseResult{
		Text:        visibleText(doc),
		Title:       pageTitle(doc, page.URI),
		Description: firstMatch(metaDescription, doc),
		Language:    firstMatch(htmlLang, doc),
		ContentType: "text/html",
	}, nil
}

var (
	titleTag        = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescription = regexp.MustCompile(`(?is)<meta\s+[^>]*name=["']description["'][^>]*content=["']([^"']*)["']`)
	htmlLang        = regexp.MustCompile(`(?is)<html[^>]*\slang=["']([^"']+)["']`)
	comments        = regexp.MustCompile(`(?s)<!--.*?-->`)
	breaks          = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	blockBoundary   = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|main|dd|dt)(\s[^>]*)?>`)
	anyTag          = regexp.MustCompile(`<[^>]+>`)
	spaces          = regexp.MustCompile(`[ \t\f\v]+`)
)

// dropped elements never hold page content: code, styling, the document
// head and the site chrome repeated on every crawled page.
var dropped = func() []*regexp.Regexp {
	tags := []string{"script", "style", "noscript", "head", "svg", "template", "nav", "footer"}
	res := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		res[i] = regexp.MustCompile(`(?is)<` + tag + `(\s[^>]*)?>.*?</` + tag + `>`)
	}
	return res
}()

func firstMatch(re *regexp.Regexp, doc string) string {
	m := re.FindStringSubmatch(doc)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// pageTitle returns the <title> text or a title derived from the URI.
func pageTitle(doc, uri string) string {
	if title := firstMatch(titleTag, doc); title != "" {
		return title
	}
	return normalisers.TitleFromURI(uri)
}

// visibleText strips markup, keeping one line per block element.
func visibleText(doc string) string {
	for _, re := range dropped {
		doc = re.ReplaceAllString(doc, "")
	}
	doc = comments.ReplaceAllString(doc, "")
	doc = breaks.ReplaceAllString(doc, "\n")
	doc = blockBoundary.ReplaceAllString(doc, "\n")
	doc = anyTag.ReplaceAllString(doc, "")
	doc = html.UnescapeString(doc)

	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
