package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/logger"
	"github.com/custodia-labs/vecseed/internal/postprocessors/chunker"
)

// MaxRetries is the number of times a rate-limited request is retried.
const MaxRetries = 3

// Ensure Crawler implements the interface.
var _ driven.Crawler = (*Crawler)(nil)

// Crawler walks a website and turns its pages into raw records.
type Crawler struct {
	settings   domain.CrawlSettings
	registry   driven.NormaliserRegistry
	fetcher    Fetcher
	httpClient *http.Client
	limiter    *RateLimiter
	splitter   *chunker.Splitter
}

// Option configures the crawler.
type Option func(*Crawler)

// WithFetcher replaces the fetcher chosen from the settings.
func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithHTTPClient sets the client used by the HTTP fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.httpClient = client
	}
}

// New creates a crawler. Zero-valued settings take their defaults.
// The registry extracts text from non-HTML pages and from HTML pages
// readability cannot handle.
func New(settings domain.CrawlSettings, registry driven.NormaliserRegistry, opts ...Option) *Crawler {
	settings = withDefaults(settings)

	c := &Crawler{
		settings: settings,
		registry: registry,
		limiter:  NewRateLimiter(settings.RequestsPerSecond),
		splitter: chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		switch settings.Fetcher {
		case domain.CrawlFetcherChrome:
			c.fetcher = NewChromeFetcher(settings.UserAgent, settings.Timeout)
		default:
			c.fetcher = NewHTTPFetcher(c.httpClient, settings.UserAgent, settings.Timeout, c.limiter)
		}
	}

	return c
}

func withDefaults(s domain.CrawlSettings) domain.CrawlSettings {
	if s.MaxDepth <= 0 {
		s.MaxDepth = domain.DefaultMaxDepth
	}
	if s.MaxPages <= 0 {
		s.MaxPages = domain.DefaultMaxPages
	}
	if s.RequestsPerSecond <= 0 {
		s.RequestsPerSecond = domain.DefaultRequestsPerSecond
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = domain.DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = domain.DefaultChunkOverlap
	}
	if !s.Fetcher.IsValid() {
		s.Fetcher = domain.CrawlFetcherHTTP
	}
	if s.UserAgent == "" {
		s.UserAgent = domain.DefaultUserAgent
	}
	if s.Timeout <= 0 {
		s.Timeout = domain.DefaultCrawlTimeout
	}
	return s
}

// Settings returns the effective crawl settings.
func (c *Crawler) Settings() domain.CrawlSettings {
	return c.settings
}

type queued struct {
	url   string
	depth int
}

// Crawl fetches locator and the pages it links to, breadth-first.
// Only URLs starting with locator are followed. Pages at depth MaxDepth or
// beyond are not fetched, and the crawl stops after MaxPages pages.
func (c *Crawler) Crawl(ctx context.Context, locator string) ([]domain.RawRecord, error) {
	start, err := parseLocator(locator)
	if err != nil {
		return nil, err
	}
	prefix := stripFragment(start)

	done := logger.Timed("crawl " + prefix)
	defer done()

	queue := []queued{{url: prefix}}
	visited := map[string]bool{prefix: true}

	var (
		records []domain.RawRecord
		pages   int
	)

	for len(queue) > 0 && pages < c.settings.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := queue[0]
		queue = queue[1:]

		resp, err := c.fetch(ctx, item.url)
		if err != nil {
			if item.depth == 0 {
				return nil, fmt.Errorf("fetch start page %s: %w", item.url, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("crawl: skipping %s: %v", item.url, err)
			continue
		}
		pages++

		pageRecords, links, err := c.process(ctx, resp)
		if err != nil {
			logger.Warn("crawl: no text from %s: %v", resp.URL, err)
		}
		records = append(records, pageRecords...)
		logger.Debug("crawl: %s depth=%d chunks=%d links=%d", resp.URL, item.depth, len(pageRecords), len(links))

		if item.depth+1 >= c.settings.MaxDepth {
			continue
		}
		for _, link := range links {
			if visited[link] || !strings.HasPrefix(link, prefix) {
				continue
			}
			visited[link] = true
			queue = append(queue, queued{url: link, depth: item.depth + 1})
		}
	}

	if pages == 0 {
		return nil, fmt.Errorf("no pages fetched from %s", prefix)
	}
	logger.Info("crawl: %d pages, %d chunks from %s", pages, len(records), prefix)

	return records, nil
}

// fetch downloads a page, waiting out rate limits.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.fetcher.Fetch(ctx, pageURL)
		if err == nil {
			return resp, nil
		}
		if !IsRateLimited(err) {
			return nil, err
		}
		lastErr = err
		logger.Debug("crawl: %v (attempt %d)", err, attempt+1)
	}
	return nil, lastErr
}

// process extracts text and links from a response and splits the text
// into records.
func (c *Crawler) process(ctx context.Context, resp *Response) ([]domain.RawRecord, []string, error) {
	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	meta := map[string]any{
		domain.MetaSource:      resp.URL,
		domain.MetaContentType: resp.MIMEType,
	}

	var (
		text  string
		links []string
	)

	if isHTML(resp.MIMEType) {
		info, err := parsePage(resp.Body, base)
		if err != nil {
			logger.Debug("crawl: parse %s: %v", resp.URL, err)
		}
		links = info.Links

		title, readable := readableText(resp.Body, base)
		text = readable
		if text == "" {
			res, err := c.normalise(ctx, resp)
			if err != nil {
				return nil, links, err
			}
			text = res.Text
		}
		if info.Title == "" {
			info.Title = title
		}
		setIfPresent(meta, domain.MetaTitle, info.Title)
		setIfPresent(meta, domain.MetaDescription, info.Description)
		setIfPresent(meta, domain.MetaLanguage, info.Language)
	} else {
		res, err := c.normalise(ctx, resp)
		if err != nil {
			return nil, nil, err
		}
		text = res.Text
		setIfPresent(meta, domain.MetaTitle, res.Title)
		setIfPresent(meta, domain.MetaDescription, res.Description)
		setIfPresent(meta, domain.MetaLanguage, res.Language)
	}

	spans := c.splitter.Split(text)
	records := make([]domain.RawRecord, 0, len(spans))
	for _, span := range spans {
		m := make(map[string]any, len(meta)+1)
		for k, v := range meta {
			m[k] = v
		}
		m[domain.MetaStartIndex] = span.Start
		records = append(records, domain.RawRecord{Content: span.Text, Metadata: m})
	}

	return records, links, nil
}

func (c *Crawler) normalise(ctx context.Context, resp *Response) (*driven.NormaliseResult, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("%w: no normaliser registry", domain.ErrUnsupportedType)
	}
	return c.registry.Normalise(ctx, &domain.RawPage{
		URI:      resp.URL,
		MIMEType: resp.MIMEType,
		Content:  resp.Body,
	})
}

// readableText returns the article title and main text of an HTML page.
func readableText(body []byte, pageURL *url.URL) (string, string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), tidyText(article.TextContent)
}

// tidyText trims every line and collapses runs of blank lines.
func tidyText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isHTML(mimeType string) bool {
	return mimeType == "text/html" || mimeType == "application/xhtml+xml"
}

func setIfPresent(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// parseLocator validates a crawl start URL.
func parseLocator(locator string) (*url.URL, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, fmt.Errorf("%w: empty locator", domain.ErrInvalidInput)
	}
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidInput, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", domain.ErrInvalidInput, locator)
	}
	return u, nil
}
