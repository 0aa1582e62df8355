package services

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyIndexURI          = "index.uri"
	keyIndexBatchSize    = "index.batch_size"
	keyCrawlMaxDepth     = "crawl.max_depth"
	keyCrawlMaxPages     = "crawl.max_pages"
	keyCrawlRPS          = "crawl.requests_per_second"
	keyCrawlChunkSize    = "crawl.chunk_size"
	keyCrawlChunkOverlap = "crawl.chunk_overlap"
	keyCrawlFetcher      = "crawl.fetcher"
	keyCrawlUserAgent    = "crawl.user_agent"
	keyCrawlTimeout      = "crawl.timeout"
	keyHistoryEnabled    = "history.enabled"
)

// Environment variables consulted when the config file leaves a value unset.
const (
	EnvIndexURI     = "VECSEED_INDEX_URI"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
)

// memoryIndexURI is the default index when configuration is not file backed.
const memoryIndexURI = "mem://vecseed"

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
)

// settingKeys lists every key Set accepts and how its value is parsed.
var settingKeys = map[string]keyKind{
	keyEmbedProvider:     kindString,
	keyEmbedModel:        kindString,
	keyEmbedBaseURL:      kindString,
	keyEmbedAPIKey:       kindString,
	keyIndexURI:          kindString,
	keyIndexBatchSize:    kindInt,
	keyCrawlMaxDepth:     kindInt,
	keyCrawlMaxPages:     kindInt,
	keyCrawlRPS:          kindFloat,
	keyCrawlChunkSize:    kindInt,
	keyCrawlChunkOverlap: kindInt,
	keyCrawlFetcher:      kindString,
	keyCrawlUserAgent:    kindString,
	keyCrawlTimeout:      kindDuration,
	keyHistoryEnabled:    kindBool,
}

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings with defaults and
// environment fallbacks applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Index: domain.IndexSettings{
			URI:       s.getString(keyIndexURI, s.DefaultIndexURI()),
			BatchSize: s.getInt(keyIndexBatchSize, defaults.Index.BatchSize),
		},
		Crawl: domain.CrawlSettings{
			MaxDepth:          s.getInt(keyCrawlMaxDepth, defaults.Crawl.MaxDepth),
			MaxPages:          s.getInt(keyCrawlMaxPages, defaults.Crawl.MaxPages),
			RequestsPerSecond: s.getFloat(keyCrawlRPS, defaults.Crawl.RequestsPerSecond),
			ChunkSize:         s.getInt(keyCrawlChunkSize, defaults.Crawl.ChunkSize),
			ChunkOverlap:      s.getInt(keyCrawlChunkOverlap, defaults.Crawl.ChunkOverlap),
			Fetcher:           s.getFetcher(defaults.Crawl.Fetcher),
			UserAgent:         s.getString(keyCrawlUserAgent, defaults.Crawl.UserAgent),
			Timeout:           s.getDuration(keyCrawlTimeout, defaults.Crawl.Timeout),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
		},
	}

	// A model only makes sense for its provider, so the default follows the provider.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.apiKeyFromEnv(settings.Embedding.Provider)
	}
	if uri := s.getenv(EnvIndexURI); uri != "" {
		settings.Index.URI = uri
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set so environment fallbacks keep working.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyIndexURI, settings.Index.URI},
		{keyIndexBatchSize, settings.Index.BatchSize},
		{keyCrawlMaxDepth, settings.Crawl.MaxDepth},
		{keyCrawlMaxPages, settings.Crawl.MaxPages},
		{keyCrawlRPS, settings.Crawl.RequestsPerSecond},
		{keyCrawlChunkSize, settings.Crawl.ChunkSize},
		{keyCrawlChunkOverlap, settings.Crawl.ChunkOverlap},
		{keyCrawlFetcher, settings.Crawl.Fetcher.String()},
		{keyCrawlUserAgent, settings.Crawl.UserAgent},
		{keyCrawlTimeout, settings.Crawl.Timeout.String()},
		{keyHistoryEnabled, settings.History.Enabled},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(SettingKeys(), ", "))
	}

	var parsed any
	switch kind {
	case kindString:
		if err := validateStringSetting(key, value); err != nil {
			return err
		}
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration like 30s, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = d.String()
	}

	return s.configStore.Set(key, parsed)
}

func validateStringSetting(key, value string) error {
	switch key {
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
	case keyCrawlFetcher:
		if !domain.CrawlFetcher(value).IsValid() {
			return fmt.Errorf("%w: invalid crawl fetcher: %s", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
// Only the embedding keys are written so environment fallbacks for other
// settings never end up in the config file.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required, allowing the environment to supply it
	if provider.RequiresAPIKey() && apiKey == "" && s.apiKeyFromEnv(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	// Set model - use provided or default
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	// Set base URL based on provider type
	baseURL := ""
	if provider.IsLocal() {
		// Local providers need a base URL
		baseURL = s.getString(keyEmbedBaseURL, "http://localhost:11434")
	}

	values := []struct {
		key   string
		value string
	}{
		{keyEmbedProvider, provider.String()},
		{keyEmbedModel, model},
		{keyEmbedBaseURL, baseURL},
		{keyEmbedAPIKey, apiKey},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetIndexURI updates the default index endpoint.
func (s *SettingsService) SetIndexURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return fmt.Errorf("%w: index uri is empty", domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyIndexURI, uri)
}

// Validate checks that the current settings can drive an ingestion.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if settings.Index.URI == "" {
		return fmt.Errorf("%w: index uri is not configured", domain.ErrInvalidInput)
	}
	if settings.Crawl.ChunkOverlap >= settings.Crawl.ChunkSize {
		return fmt.Errorf("%w: crawl.chunk_overlap (%d) must be smaller than crawl.chunk_size (%d)",
			domain.ErrInvalidInput, settings.Crawl.ChunkOverlap, settings.Crawl.ChunkSize)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Index.URI = s.DefaultIndexURI()
	return defaults
}

// DefaultIndexURI returns the index used when none is configured: a chromem
// database next to the config file, or an in-memory one when configuration
// is not file backed.
func (s *SettingsService) DefaultIndexURI() string {
	path := s.configStore.Path()
	if path == "" || strings.HasPrefix(path, ":") {
		return memoryIndexURI
	}
	return filepath.Join(filepath.Dir(path), "index")
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

func (s *SettingsService) apiKeyFromEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderGemini:
		if key := s.getenv(EnvGeminiAPIKey); key != "" {
			return key
		}
		return s.getenv(EnvGoogleAPIKey)
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getFetcher(defaultVal domain.CrawlFetcher) domain.CrawlFetcher {
	fetcher := domain.CrawlFetcher(s.configStore.GetString(keyCrawlFetcher))
	if !fetcher.IsValid() {
		return defaultVal
	}
	return fetcher
}
