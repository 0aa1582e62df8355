package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// mockIngestionService implements driving.IngestionService for testing.
type mockIngestionService struct {
	mu sync.Mutex

	fileCalls  []string
	crawlCalls []string
	docNames   []string
	targets    []domain.IndexTarget
	historyArg struct {
		collection string
		limit      int
	}

	fileErr    error
	crawlErr   error
	connectErr error
	runs       []domain.IngestionRun
	session    *mockQuerySession
}

func (m *mockIngestionService) IngestFromSource(
	_ context.Context, records []domain.RawRecord, docName string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.docNames = append(m.docNames, docName)
	m.targets = append(m.targets, target)
	return &domain.CommitResult{Collection: target.Collection, Mode: domain.LifecycleReplace, Count: len(records)}, nil
}

func (m *mockIngestionService) IngestFromFile(
	_ context.Context, path string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileCalls = append(m.fileCalls, path)
	m.targets = append(m.targets, target)
	if m.fileErr != nil {
		return nil, m.fileErr
	}
	return &domain.CommitResult{Collection: target.Collection, Mode: domain.LifecycleReplace, Count: 2}, nil
}

func (m *mockIngestionService) IngestFromCrawl(
	_ context.Context, locator, docName string, target domain.IndexTarget,
) (*domain.CommitResult, error) {
	m.crawlCalls = append(m.crawlCalls, locator)
	m.docNames = append(m.docNames, docName)
	m.targets = append(m.targets, target)
	if m.crawlErr != nil {
		return nil, m.crawlErr
	}
	return &domain.CommitResult{Collection: target.Collection, Mode: domain.LifecycleAppend, Count: 5}, nil
}

func (m *mockIngestionService) ConnectReadOnly(
	_ context.Context, target domain.IndexTarget,
) (driving.QuerySession, error) {
	m.targets = append(m.targets, target)
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	if m.session == nil {
		m.session = &mockQuerySession{collection: target.Collection}
	}
	return m.session, nil
}

func (m *mockIngestionService) History(_ context.Context, collection string, limit int) ([]domain.IngestionRun, error) {
	m.historyArg.collection = collection
	m.historyArg.limit = limit
	return m.runs, nil
}

// mockQuerySession implements driving.QuerySession for testing.
type mockQuerySession struct {
	collection string
	results    []domain.SearchResult
	err        error
	lastOpts   domain.SearchOptions
	closed     bool
}

func (m *mockQuerySession) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockQuerySession) Count(context.Context) (int, error) { return len(m.results), nil }
func (m *mockQuerySession) Collection() string                 { return m.collection }
func (m *mockQuerySession) QueryReady() bool                   { return !m.closed }

func (m *mockQuerySession) Close() error {
	m.closed = true
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	sets        map[string]string
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.Embedding.APIKey = "sk-test-1234567890"
	return &mockSettingsService{settings: s, sets: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetIndexURI(uri string) error {
	m.settings.Index.URI = uri
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return nil }

// setupTestServices installs mock services and returns them with a restore func.
func setupTestServices() (*mockIngestionService, *mockSettingsService, func()) {
	oldIngestion, oldSettings := ingestionService, settingsService

	ingestion := &mockIngestionService{}
	settings := newMockSettingsService()
	ingestionService = ingestion
	settingsService = settings

	return ingestion, settings, func() {
		ingestionService = oldIngestion
		settingsService = oldSettings
	}
}

// execute runs the root command with args and returns its combined output.
// Flag values persist on package-level commands, so every flag is reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	// Subcommands keep the first context they are given, so it must not be cancellable.
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
