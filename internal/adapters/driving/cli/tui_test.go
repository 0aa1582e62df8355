package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

func stubRunApp(t *testing.T, fn func(*tui.App) error) {
	t.Helper()
	old := runApp
	runApp = fn
	t.Cleanup(func() { runApp = old })
}

func TestTUICmd_OpensCollectionReadOnly(t *testing.T) {
	ingestion, _, cleanup := setupTestServices()
	defer cleanup()

	var app *tui.App
	stubRunApp(t, func(a *tui.App) error {
		app = a
		return nil
	})

	_, err := execute(t, "tui", "-c", "docs", "--index-uri", "milvus://localhost:19530")

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, domain.IndexTarget{URI: "milvus://localhost:19530", Collection: "docs"}, ingestion.targets[0])
	assert.True(t, ingestion.session.closed, "session is closed when the TUI exits")
}

func TestTUICmd_RequiresCollection(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	stubRunApp(t, func(*tui.App) error { return nil })

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"collection" not set`)
}

func TestTUICmd_CollectionNotFound(t *testing.T) {
	ingestion, _, cleanup := setupTestServices()
	defer cleanup()
	ingestion.connectErr = domain.ErrCollectionNotFound
	stubRunApp(t, func(*tui.App) error {
		t.Fatal("app must not start")
		return nil
	})

	_, err := execute(t, "tui", "-c", "ghost")

	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestTUICmd_RunError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	stubRunApp(t, func(*tui.App) error { return errors.New("no tty") })

	_, err := execute(t, "tui", "-c", "docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}
