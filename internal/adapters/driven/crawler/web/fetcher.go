package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/normalisers"
)

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 10 << 20

// Response is a fetched page.
type Response struct {
	// URL is the final location after redirects.
	URL string

	// MIMEType is the response content type without parameters.
	MIMEType string

	// Body is the response body, truncated at MaxBodyBytes.
	Body []byte
}

// Fetcher downloads a single page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Response, error)
}

// HTTPFetcher downloads pages with net/http.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	limiter   *RateLimiter
}

// NewHTTPFetcher creates a fetcher. A nil client gets one with the given timeout.
// The limiter, when set, is told about rate limit responses.
func NewHTTPFetcher(client *http.Client, userAgent string, timeout time.Duration, limiter *RateLimiter) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// Fetch performs a GET request for pageURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if f.limiter != nil {
		if err := f.limiter.CheckRateLimit(resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	mimeType := normalisers.BaseMIMEType(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = normalisers.BaseMIMEType(http.DetectContentType(body))
	}

	return &Response{
		URL:      finalURL,
		MIMEType: mimeType,
		Body:     body,
	}, nil
}

// ChromeFetcher renders pages in headless Chrome and returns the final DOM.
// It is slower than HTTPFetcher but sees content built by scripts.
type ChromeFetcher struct {
	userAgent string
	timeout   time.Duration
}

// NewChromeFetcher creates a headless Chrome fetcher.
func NewChromeFetcher(userAgent string, timeout time.Duration) *ChromeFetcher {
	return &ChromeFetcher{userAgent: userAgent, timeout: timeout}
}

// Fetch navigates to pageURL and captures the rendered document.
func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var (
		html     string
		finalURL string
	)
	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}
	if finalURL == "" {
		finalURL = pageURL
	}

	return &Response{
		URL:      finalURL,
		MIMEType: "text/html",
		Body:     []byte(html),
	}, nil
}
