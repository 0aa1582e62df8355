package domain

import "fmt"

// Metadata field names as stored in the vector index.
const (
	MetaSource      = "source"
	MetaContentType = "content_type"
	MetaTitle       = "title"
	MetaDescription = "description"
	MetaLanguage    = "language"
	MetaDocName     = "doc_name"
	MetaStartIndex  = "start_index"
)

// Metadata defaults substituted when a raw value is absent, null or falsy.
const (
	DefaultContentType = "text/plain"
	DefaultLanguage    = "en"
)

// MetadataKeys returns the fixed metadata schema in storage order.
func MetadataKeys() []string {
	return []string{
		MetaSource,
		MetaContentType,
		MetaTitle,
		MetaDescription,
		MetaLanguage,
		MetaDocName,
		MetaStartIndex,
	}
}

// Metadata is the fixed metadata schema every committed document carries.
// There are no optional keys: every field is populated, either from the
// raw record or from its default.
type Metadata struct {
	// Source is where the record came from (URL or file reference).
	Source string

	// ContentType is the MIME type of the original content.
	ContentType string

	// Title is the human-readable title.
	Title string

	// Description is a short summary, usually the page meta description.
	Description string

	// Language is the content language code.
	Language string

	// DocName is injected from the ingestion call, never read from the record.
	DocName string

	// StartIndex is the offset of this chunk within its original page.
	StartIndex int
}

// Map returns the metadata as a mapping with exactly the schema keys.
func (m Metadata) Map() map[string]any {
	return map[string]any{
		MetaSource:      m.Source,
		MetaContentType: m.ContentType,
		MetaTitle:       m.Title,
		MetaDescription: m.Description,
		MetaLanguage:    m.Language,
		MetaDocName:     m.DocName,
		MetaStartIndex:  m.StartIndex,
	}
}

// Document is the canonical record after normalisation.
// It is transient: built, embedded and handed to the index within one
// ingestion call.
type Document struct {
	// Content is the text that gets embedded. Empty when the source had none.
	Content string

	// Metadata is the complete metadata schema.
	Metadata Metadata
}

// Validate checks that the document carries a fully populated schema.
// Normalised documents always pass; hand-built ones may not.
func (d Document) Validate() error {
	if d.Metadata.ContentType == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidInput, MetaContentType)
	}
	if d.Metadata.Language == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidInput, MetaLanguage)
	}
	if d.Metadata.StartIndex < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidInput, MetaStartIndex)
	}
	return nil
}
