package domain

// DefaultSearchLimit is the number of hits returned when no limit is given.
const DefaultSearchLimit = 4

// SearchOptions configures a similarity query.
type SearchOptions struct {
	// Limit is the maximum number of hits. Zero or negative uses DefaultSearchLimit.
	Limit int
}

// EffectiveLimit returns the limit with the default applied.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

// SearchResult is one similarity hit from a collection.
type SearchResult struct {
	// ID is the identifier the document was committed with.
	ID string `json:"id"`

	// Document is the stored content and metadata.
	Document Document `json:"document"`

	// Score is the similarity score, higher is closer.
	Score float64 `json:"score"`
}
