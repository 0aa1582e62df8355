// Command vecseed seeds vector indexes from JSON snapshots and web crawls.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/vecseed/internal/adapters/driven/ai"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/crawler/web"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/loader/jsonfile"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vecseed/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/cli"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/core/services"
	"github.com/custodia-labs/vecseed/internal/logger"
	"github.com/custodia-labs/vecseed/internal/normalisers"
	"github.com/custodia-labs/vecseed/internal/normalisers/html"
	"github.com/custodia-labs/vecseed/internal/normalisers/markdown"
	"github.com/custodia-labs/vecseed/internal/normalisers/plaintext"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetServiceFactory(buildServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildServices wires the adapters into the application services.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := openConfig(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	ephemeral := configStore.Path() == memory.EphemeralPath

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	if opts.MaxDepth > 0 {
		settings.Crawl.MaxDepth = opts.MaxDepth
	}
	if opts.MaxPages > 0 {
		settings.Crawl.MaxPages = opts.MaxPages
	}

	var closers []func() error

	var ledger driven.IngestionLog = memory.NewIngestionLog()
	if settings.History.Enabled && !ephemeral {
		store, err := sqlite.NewStore(filepath.Join(filepath.Dir(configStore.Path()), "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("open ingestion ledger: %w", err)
		}
		ledger = store.IngestionLog()
		closers = append(closers, store.Close)
	}

	// Settings and history commands work without an embedder; ingestion
	// and search report ErrEmbeddingUnavailable instead.
	embedder, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		logger.Warn("embedding unavailable: %v", err)
		embedder = nil
	} else {
		closers = append(closers, embedder.Close)
	}

	registry := normalisers.NewRegistry(html.New(), markdown.New(), plaintext.New())
	sessions := services.NewSessionManager(vectorstore.NewDialer(), embedder, settings.Index)
	ingestion := services.NewIngestionOrchestrator(
		sessions,
		jsonfile.New(),
		web.New(settings.Crawl, registry),
		ledger,
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Debug("close: %v", err)
			}
		}
	}

	return &cli.Services{Ingestion: ingestion, Settings: settingsService}, cleanup, nil
}

// openConfig opens the TOML store in dir, or an in-memory store when dir is
// memory.EphemeralPath so nothing is written to disk.
func openConfig(dir string) (driven.ConfigStore, error) {
	if dir == memory.EphemeralPath {
		return memory.NewConfigStore(), nil
	}
	return file.NewConfigStore(dir)
}
