package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

func newTestApp(t *testing.T, session *MockQuerySession) *App {
	t.Helper()
	ingestion := &MockIngestionService{Runs: []domain.IngestionRun{{
		ID: "run-1", Collection: "docs", DocName: "stack guide", Origin: domain.OriginCrawl,
		Mode: domain.LifecycleAppend, Status: domain.RunSucceeded, StartedAt: time.Now(),
	}}}
	app, err := NewApp(context.Background(), NewPorts(session, ingestion), domain.SearchOptions{Limit: 3})
	require.NoError(t, err)
	return app
}

// drive feeds msg to the app and then every message its commands produce,
// skipping batches and program-level commands.
func drive(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		if cmd == nil {
			continue
		}
		switch produced := cmd().(type) {
		case nil, tea.BatchMsg:
		default:
			queue = append(queue, produced)
		}
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(context.Background(), &Ports{}, domain.SearchOptions{})

	require.ErrorIs(t, err, ErrMissingQuerySession)
}

func TestApp_StartsOnSearch(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{})

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{})

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Query")
}

func TestApp_SearchThenOpenResult(t *testing.T) {
	var gotOpts domain.SearchOptions
	session := &MockQuerySession{
		SearchFunc: func(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
			gotOpts = opts
			return []domain.SearchResult{{
				ID:       "doc-1",
				Document: domain.Document{Content: "Install with brew.", Metadata: domain.Metadata{Title: "Install"}},
				Score:    0.9,
			}}, nil
		},
	}
	app := newTestApp(t, session)
	app.SetDimensions(120, 40)

	app.searchView.SetQuery("install")
	drive(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 3, gotOpts.Limit)
	assert.Contains(t, app.View(), "Results (1)")

	drive(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewResult, app.CurrentView())
	assert.Contains(t, app.View(), "Install with brew.")

	drive(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_History(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{})
	app.SetDimensions(120, 40)

	drive(app, tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, messages.ViewHistory, app.CurrentView())
	assert.Contains(t, app.View(), "stack guide")

	drive(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpReturnsToPreviousView(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{})
	app.SetDimensions(120, 40)
	app.Update(messages.SearchCompleted{Results: []domain.SearchResult{{ID: "1"}}})

	drive(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	require.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "new search")

	drive(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_CountShownInStatusBar(t *testing.T) {
	app := newTestApp(t, &MockQuerySession{Name: "notes", Docs: 42})
	app.SetDimensions(160, 40)

	app.Update(messages.CountLoaded{Count: 42})

	view := app.View()
	assert.Contains(t, view, "notes")
	assert.Contains(t, view, "(42 docs)")
}
