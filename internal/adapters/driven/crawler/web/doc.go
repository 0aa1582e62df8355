// Package web implements the Crawler port for websites.
//
// A crawl starts at a URL and walks links breadth-first, staying under the
// start URL's prefix. Each fetched page is reduced to text (readability for
// HTML, the normaliser registry for everything else), split into
// overlapping chunks and returned as raw records.
//
// Two fetchers are available: plain HTTP and headless Chrome. Requests are
// throttled by a token bucket, and 429/503 responses with a Retry-After
// header pause the whole crawl until the server is ready again.
package web
