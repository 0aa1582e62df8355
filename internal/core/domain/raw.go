package domain

// RawRecord is a record before normalisation.
//
// It covers both input shapes: the local snapshot shape
// ({"page_content": ..., "metadata": {...}}) decodes straight into it, and the
// crawler fills Content and Metadata from each fetched page chunk.
// Metadata values keep whatever type the source produced; the normaliser
// maps them onto the fixed schema.
type RawRecord struct {
	// Content is the record text. Empty when the source had none or null.
	Content string `json:"page_content"`

	// Metadata holds the optional source, content_type, title, description,
	// language and start_index keys. Unknown keys are ignored downstream.
	Metadata map[string]any `json:"metadata"`
}

// RawPage is a fetched page before text extraction.
// It is the crawler's input to the page normalisers.
type RawPage struct {
	// URI is the page location.
	URI string

	// MIMEType is the content type without parameters (e.g., "text/html").
	MIMEType string

	// Content is the raw response body.
	Content []byte

	// Metadata carries page-level attributes already extracted by the crawler.
	Metadata map[string]any
}
