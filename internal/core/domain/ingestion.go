package domain

import "time"

// CommitResult describes a completed commit.
type CommitResult struct {
	// Collection is the collection written to.
	Collection string

	// Mode is the lifecycle mode the session was opened with.
	Mode LifecycleMode

	// IDs are the identifiers committed, in document order.
	IDs []string

	// Count is the number of documents committed.
	Count int
}

// RunStatus is the outcome of an ingestion run.
type RunStatus string

// Ingestion run outcomes.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// IngestionOrigin names where an ingestion run's records came from.
type IngestionOrigin string

// Ingestion origins.
const (
	OriginRecords IngestionOrigin = "records"
	OriginFile    IngestionOrigin = "file"
	OriginCrawl   IngestionOrigin = "crawl"
)

// IngestionRun is a ledger entry for one ingestion call.
// The ledger lets callers reconcile a collection after a failed commit.
type IngestionRun struct {
	ID            string
	Collection    string
	IndexURI      string
	Mode          LifecycleMode
	DocName       string
	Origin        IngestionOrigin
	Locator       string // file path or crawl URL, empty for in-memory records
	DocumentCount int
	Status        RunStatus
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns how long the run took.
func (r IngestionRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
