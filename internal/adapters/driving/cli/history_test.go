package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

func TestHistoryCmd(t *testing.T) {
	ingestion, _, cleanup := setupTestServices()
	defer cleanup()

	started := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	ingestion.runs = []domain.IngestionRun{
		{
			Collection: "docs", Mode: domain.LifecycleAppend, Origin: domain.OriginCrawl,
			Locator: "https://docs.example.com", DocumentCount: 12, Status: domain.RunSucceeded,
			StartedAt: started, FinishedAt: started.Add(2 * time.Second),
		},
		{
			Collection: "docs", Mode: domain.LifecycleReplace, Origin: domain.OriginFile,
			Locator: "/data/x.json", DocumentCount: 64, Status: domain.RunFailed,
			Error: "commit failed: timeout", StartedAt: started.Add(-time.Hour), FinishedAt: started,
		},
	}

	out, err := execute(t, "history", "-c", "docs", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, "docs", ingestion.historyArg.collection)
	assert.Equal(t, 5, ingestion.historyArg.limit)
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "12 docs  2s")
	assert.Contains(t, out, "crawl: https://docs.example.com")
	assert.Contains(t, out, "file: /data/x.json")
	assert.Contains(t, out, "error: commit failed: timeout")
}

func TestHistoryCmd_DefaultsAndEmpty(t *testing.T) {
	ingestion, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Empty(t, ingestion.historyArg.collection)
	assert.Equal(t, 20, ingestion.historyArg.limit)
	assert.Contains(t, out, "No ingestion runs recorded.")
}
