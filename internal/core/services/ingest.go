package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
	"github.com/custodia-labs/vecseed/internal/logger"
)

// Ensure IngestionOrchestrator implements the interface.
var _ driving.IngestionService = (*IngestionOrchestrator)(nil)

// IngestionOrchestrator composes normalisation, identity assignment and
// session commits into the ingestion entry points.
type IngestionOrchestrator struct {
	sessions *SessionManager
	loader   driven.RecordLoader
	crawler  driven.Crawler
	ledger   driven.IngestionLog
	now      func() time.Time
}

// NewIngestionOrchestrator creates an orchestrator.
// loader, crawler and ledger are optional; the entry points that need a
// missing collaborator fail and a nil ledger disables run history.
func NewIngestionOrchestrator(
	sessions *SessionManager,
	loader driven.RecordLoader,
	crawler driven.Crawler,
	ledger driven.IngestionLog,
) *IngestionOrchestrator {
	return &IngestionOrchestrator{
		sessions: sessions,
		loader:   loader,
		crawler:  crawler,
		ledger:   ledger,
		now:      time.Now,
	}
}

// IngestFromSource replaces the target collection with records.
// An empty record set clears the collection.
func (o *IngestionOrchestrator) IngestFromSource(
	ctx context.Context,
	records []domain.RawRecord,
	docName string,
	target domain.IndexTarget,
) (*domain.CommitResult, error) {
	run := o.startRun(target, domain.LifecycleReplace, docName, domain.OriginRecords, "")
	result, err := o.ingest(ctx, records, docName, target, domain.LifecycleReplace)
	o.finishRun(ctx, run, result, err)
	return result, err
}

// IngestFromFile loads a local snapshot and replaces the target collection
// with it. The doc name is derived from the file name.
func (o *IngestionOrchestrator) IngestFromFile(ctx context.Context, path string, target domain.IndexTarget) (*domain.CommitResult, error) {
	docName := DocNameFromFilename(path)
	run := o.startRun(target, domain.LifecycleReplace, docName, domain.OriginFile, path)

	result, err := o.ingestFile(ctx, path, docName, target)
	o.finishRun(ctx, run, result, err)
	return result, err
}

func (o *IngestionOrchestrator) ingestFile(ctx context.Context, path, docName string, target domain.IndexTarget) (*domain.CommitResult, error) {
	if o.loader == nil {
		return nil, fmt.Errorf("%w: no record loader configured", domain.ErrMalformedSourceData)
	}

	logger.Section("Load")
	records, err := o.loader.Load(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedSourceData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSourceData, err)
	}
	logger.Info("loaded %d records from %s", len(records), path)

	return o.ingest(ctx, records, docName, target, domain.LifecycleReplace)
}

// IngestFromCrawl crawls locator and appends the pages to the target
// collection. Existing documents are kept.
func (o *IngestionOrchestrator) IngestFromCrawl(
	ctx context.Context,
	locator, docName string,
	target domain.IndexTarget,
) (*domain.CommitResult, error) {
	run := o.startRun(target, domain.LifecycleAppend, docName, domain.OriginCrawl, locator)

	result, err := o.ingestCrawl(ctx, locator, docName, target)
	o.finishRun(ctx, run, result, err)
	return result, err
}

func (o *IngestionOrchestrator) ingestCrawl(ctx context.Context, locator, docName string, target domain.IndexTarget) (*domain.CommitResult, error) {
	if o.crawler == nil {
		return nil, fmt.Errorf("%w: no crawler configured", domain.ErrCrawlFailed)
	}

	logger.Section("Crawl")
	records, err := o.crawler.Crawl(ctx, locator)
	if err != nil {
		if errors.Is(err, domain.ErrCrawlFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCrawlFailed, err)
	}
	logger.Info("crawled %d records from %s", len(records), locator)

	return o.ingest(ctx, records, docName, target, domain.LifecycleAppend)
}

// ConnectReadOnly opens an existing collection for queries.
func (o *IngestionOrchestrator) ConnectReadOnly(ctx context.Context, target domain.IndexTarget) (driving.QuerySession, error) {
	session, err := o.sessions.Open(ctx, target, domain.LifecycleReadOnly)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// History lists recorded ingestion runs, newest first.
func (o *IngestionOrchestrator) History(ctx context.Context, collection string, limit int) ([]domain.IngestionRun, error) {
	if o.ledger == nil {
		return []domain.IngestionRun{}, nil
	}
	return o.ledger.List(ctx, collection, limit)
}

func (o *IngestionOrchestrator) ingest(
	ctx context.Context,
	records []domain.RawRecord,
	docName string,
	target domain.IndexTarget,
	mode domain.LifecycleMode,
) (*domain.CommitResult, error) {
	docs := NormaliseAll(records, docName)
	ids := AssignIDs(len(docs))

	session, err := o.sessions.Open(ctx, target, mode)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("close session for %s: %v", target.Collection, cerr)
		}
	}()

	return session.Commit(ctx, docs, ids)
}

func (o *IngestionOrchestrator) startRun(
	target domain.IndexTarget,
	mode domain.LifecycleMode,
	docName string,
	origin domain.IngestionOrigin,
	locator string,
) domain.IngestionRun {
	return domain.IngestionRun{
		ID:         uuid.NewString(),
		Collection: target.Collection,
		IndexURI:   target.WithDefaultURI(o.sessions.cfg.URI).URI,
		Mode:       mode,
		DocName:    docName,
		Origin:     origin,
		Locator:    locator,
		StartedAt:  o.now(),
	}
}

// finishRun records the outcome. Ledger failures are logged and never
// replace the ingestion result.
func (o *IngestionOrchestrator) finishRun(ctx context.Context, run domain.IngestionRun, result *domain.CommitResult, err error) {
	if o.ledger == nil {
		return
	}

	run.FinishedAt = o.now()
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
	} else {
		run.Status = domain.RunSucceeded
	}
	if result != nil {
		run.DocumentCount = result.Count
	}

	if rerr := o.ledger.Record(context.WithoutCancel(ctx), run); rerr != nil {
		logger.Warn("record ingestion run %s: %v", run.ID, rerr)
	}
}

// DocNameFromFilename derives a document name from a snapshot path: the base
// name with its last extension removed and underscores turned into spaces.
// "data/stack_guide.json" becomes "stack guide". A name that is only an
// extension, such as ".json", yields "".
func DocNameFromFilename(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, "_", " ")
}
