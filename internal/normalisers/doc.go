// Package normalisers extracts plain text from fetched pages.
// Each normaliser knows how to read a set of MIME types; the Registry picks
// the highest priority normaliser for a page.
package normalisers
