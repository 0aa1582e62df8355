package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI and Gemini).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// URI is the default index endpoint. The scheme selects the backend.
	URI string

	// BatchSize is the number of documents embedded and upserted per round trip.
	BatchSize int
}

// EffectiveBatchSize returns the batch size with the default applied.
func (s IndexSettings) EffectiveBatchSize() int {
	if s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

// CrawlFetcher selects how the crawler downloads pages.
type CrawlFetcher string

// Available fetchers.
const (
	// CrawlFetcherHTTP downloads raw responses over plain HTTP.
	CrawlFetcherHTTP CrawlFetcher = "http"

	// CrawlFetcherChrome renders pages in headless Chrome before extraction.
	CrawlFetcherChrome CrawlFetcher = "chromedp"
)

// IsValid returns true if the fetcher is recognised.
func (f CrawlFetcher) IsValid() bool {
	return f == CrawlFetcherHTTP || f == CrawlFetcherChrome
}

// String returns the string representation.
func (f CrawlFetcher) String() string {
	return string(f)
}

// CrawlSettings holds web crawler configuration.
type CrawlSettings struct {
	MaxDepth          int
	MaxPages          int
	RequestsPerSecond float64
	ChunkSize         int
	ChunkOverlap      int
	Fetcher           CrawlFetcher
	UserAgent         string
	Timeout           time.Duration
}

// HistorySettings holds ingestion ledger configuration.
type HistorySettings struct {
	// Enabled turns recording of ingestion runs on.
	Enabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Index holds vector index settings.
	Index IndexSettings

	// Crawl holds web crawler settings.
	Crawl CrawlSettings

	// History holds ingestion ledger settings.
	History HistorySettings
}

// Default values.
const (
	DefaultBatchSize         = 64
	DefaultMaxDepth          = 2
	DefaultMaxPages          = 50
	DefaultRequestsPerSecond = 2.0
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
	DefaultUserAgent         = "vecseed/1.0 (+https://github.com/custodia-labs/vecseed)"
	DefaultCrawlTimeout      = 30 * time.Second
)

// DefaultAppSettings returns settings with sensible defaults.
// The index URI is left empty; the settings service fills in a path under
// the config directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		Index: IndexSettings{
			BatchSize: DefaultBatchSize,
		},
		Crawl: CrawlSettings{
			MaxDepth:          DefaultMaxDepth,
			MaxPages:          DefaultMaxPages,
			RequestsPerSecond: DefaultRequestsPerSecond,
			ChunkSize:         DefaultChunkSize,
			ChunkOverlap:      DefaultChunkOverlap,
			Fetcher:           CrawlFetcherHTTP,
			UserAgent:         DefaultUserAgent,
			Timeout:           DefaultCrawlTimeout,
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-large",
		AIProviderGemini: "text-embedding-004",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004":   768,
		"embedding-001":        768,
		"gemini-embedding-001": 3072,
	}
}
