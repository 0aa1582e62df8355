package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	err    error
	called *domain.EmbeddingSettings
}

func (m *mockAIConfigValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.called = cfg
	return m.err
}

func newTestSettings(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	service.getenv = func(k string) string { return env[k] }
	return service, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettings(nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "mem://vecseed", settings.Index.URI)
	assert.Equal(t, defaults.Index.BatchSize, settings.Index.BatchSize)
	assert.Equal(t, defaults.Crawl, settings.Crawl)
	assert.True(t, settings.History.Enabled)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettings(nil)
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("index.uri", "postgres://localhost/vec"))
	require.NoError(t, store.Set("index.batch_size", int64(16)))
	require.NoError(t, store.Set("crawl.requests_per_second", 0.5))
	require.NoError(t, store.Set("crawl.fetcher", "chromedp"))
	require.NoError(t, store.Set("crawl.timeout", "45s"))
	require.NoError(t, store.Set("history.enabled", false))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "postgres://localhost/vec", settings.Index.URI)
	assert.Equal(t, 16, settings.Index.BatchSize)
	assert.InDelta(t, 0.5, settings.Crawl.RequestsPerSecond, 0)
	assert.Equal(t, domain.CrawlFetcherChrome, settings.Crawl.Fetcher)
	assert.Equal(t, 45*time.Second, settings.Crawl.Timeout)
	assert.False(t, settings.History.Enabled)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	service, store := newTestSettings(nil)
	require.NoError(t, store.Set("embedding.provider", "invalid_provider"))
	require.NoError(t, store.Set("crawl.fetcher", "telnet"))
	require.NoError(t, store.Set("crawl.timeout", "soon"))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, domain.CrawlFetcherHTTP, settings.Crawl.Fetcher)
	assert.Equal(t, domain.DefaultCrawlTimeout, settings.Crawl.Timeout)
}

func TestSettingsService_Get_EnvironmentFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		fileKey  string
		env      map[string]string
		wantKey  string
	}{
		{"openai from env", "openai", "", map[string]string{"OPENAI_API_KEY": "sk-env"}, "sk-env"},
		{"file wins over env", "openai", "sk-file", map[string]string{"OPENAI_API_KEY": "sk-env"}, "sk-file"},
		{"gemini key", "gemini", "", map[string]string{"GEMINI_API_KEY": "g1", "GOOGLE_API_KEY": "g2"}, "g1"},
		{"google key fallback", "gemini", "", map[string]string{"GOOGLE_API_KEY": "g2"}, "g2"},
		{"ollama ignores env", "ollama", "", map[string]string{"OPENAI_API_KEY": "sk-env"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newTestSettings(tt.env)
			require.NoError(t, store.Set("embedding.provider", tt.provider))
			if tt.fileKey != "" {
				require.NoError(t, store.Set("embedding.api_key", tt.fileKey))
			}

			settings, err := service.Get()

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_Get_IndexURIFromEnv(t *testing.T) {
	service, store := newTestSettings(map[string]string{"VECSEED_INDEX_URI": "http://milvus:19530"})
	require.NoError(t, store.Set("index.uri", "/data/index"))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "http://milvus:19530", settings.Index.URI)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	service, store := newTestSettings(nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderGemini
	settings.Embedding.Model = "text-embedding-004"
	settings.Embedding.APIKey = "g-key"
	settings.Index.URI = "mem://saved"
	settings.Crawl.MaxPages = 7
	settings.Crawl.Timeout = 10 * time.Second
	settings.History.Enabled = false

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	assert.Equal(t, "10s", store.GetString("crawl.timeout"))
}

func TestSettingsService_Save_SkipsEmptyAPIKey(t *testing.T) {
	service, store := newTestSettings(nil)
	settings := domain.DefaultAppSettings()

	require.NoError(t, service.Save(&settings))

	_, exists := store.Get("embedding.api_key")
	assert.False(t, exists)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"index.uri", "postgres://db/vec", "postgres://db/vec", false},
		{"index.batch_size", "32", 32, false},
		{"index.batch_size", "many", nil, true},
		{"index.batch_size", "-1", nil, true},
		{"crawl.requests_per_second", "0.25", 0.25, false},
		{"crawl.requests_per_second", "0", nil, true},
		{"crawl.timeout", "1m", "1m0s", false},
		{"crawl.timeout", "later", nil, true},
		{"crawl.fetcher", "chromedp", "chromedp", false},
		{"crawl.fetcher", "curl", nil, true},
		{"history.enabled", "false", false, false},
		{"history.enabled", "maybe", nil, true},
		{"embedding.provider", "gemini", "gemini", false},
		{"embedding.provider", "anthropic", nil, true},
		{"search.mode", "hybrid", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			service, store := newTestSettings(nil)

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				_, exists := store.Get(tt.key)
				assert.False(t, exists)
				return
			}
			require.NoError(t, err)
			got, _ := store.Get(tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingKeys_Sorted(t *testing.T) {
	keys := SettingKeys()

	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "crawl.chunk_overlap")
	assert.Contains(t, keys, "embedding.api_key")
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Run("ollama gets local base url and default model", func(t *testing.T) {
		service, store := newTestSettings(nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

		assert.Equal(t, "ollama", store.GetString("embedding.provider"))
		assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
		assert.Equal(t, "http://localhost:11434", store.GetString("embedding.base_url"))
	})

	t.Run("cloud provider clears base url", func(t *testing.T) {
		service, store := newTestSettings(nil)
		require.NoError(t, store.Set("embedding.base_url", "http://localhost:11434"))

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-small", "sk-1"))

		assert.Empty(t, store.GetString("embedding.base_url"))
		assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
		assert.Equal(t, "sk-1", store.GetString("embedding.api_key"))
	})

	t.Run("missing key rejected", func(t *testing.T) {
		service, _ := newTestSettings(nil)

		err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("key from environment accepted", func(t *testing.T) {
		service, store := newTestSettings(map[string]string{"OPENAI_API_KEY": "sk-env"})

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""))

		assert.Empty(t, store.GetString("embedding.api_key"))
	})

	t.Run("invalid provider", func(t *testing.T) {
		service, _ := newTestSettings(nil)

		err := service.SetEmbeddingProvider("claude", "", "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_SetIndexURI(t *testing.T) {
	service, store := newTestSettings(nil)

	assert.ErrorIs(t, service.SetIndexURI("  "), domain.ErrInvalidInput)
	require.NoError(t, service.SetIndexURI("mem://x"))
	assert.Equal(t, "mem://x", store.GetString("index.uri"))
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		service, _ := newTestSettings(nil)
		assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
	})

	t.Run("overlap not smaller than chunk", func(t *testing.T) {
		service, store := newTestSettings(map[string]string{"OPENAI_API_KEY": "sk"})
		require.NoError(t, store.Set("crawl.chunk_size", 100))
		require.NoError(t, store.Set("crawl.chunk_overlap", 100))

		err := service.Validate()

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorContains(t, err, "chunk_overlap")
	})

	t.Run("valid", func(t *testing.T) {
		service, _ := newTestSettings(map[string]string{"OPENAI_API_KEY": "sk"})
		assert.NoError(t, service.Validate())
	})
}

func TestSettingsService_DefaultIndexURI_FileBacked(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	service := NewSettingsService(store, nil)

	assert.Equal(t, filepath.Join(dir, "index"), service.DefaultIndexURI())
	assert.Equal(t, filepath.Join(dir, "index"), service.GetDefaults().Index.URI)
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		service, _ := newTestSettings(nil)
		assert.NoError(t, service.ValidateEmbeddingConfig())
	})

	t.Run("delegates to validator", func(t *testing.T) {
		validator := &mockAIConfigValidator{err: errors.New("401 unauthorised")}
		service := NewSettingsService(memory.NewConfigStore(), validator)
		service.getenv = func(string) string { return "" }

		err := service.ValidateEmbeddingConfig()

		assert.ErrorContains(t, err, "401")
		require.NotNil(t, validator.called)
		assert.Equal(t, domain.AIProviderOpenAI, validator.called.Provider)
	})
}
