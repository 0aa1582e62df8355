package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// mockSession implements driving.QuerySession for testing.
type mockSession struct {
	results   []domain.SearchResult
	err       error
	count     int
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSession) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSession) Count(context.Context) (int, error) { return m.count, nil }
func (m *mockSession) Collection() string                 { return "stack-docs" }
func (m *mockSession) QueryReady() bool                   { return true }
func (m *mockSession) Close() error                       { return nil }

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{ID: "1", Document: domain.Document{Content: "alpha", Metadata: domain.Metadata{Title: "First"}}, Score: 0.9},
		{ID: "2", Document: domain.Document{Content: "beta", Metadata: domain.Metadata{Title: "Second"}}, Score: 0.8},
	}
}

func newTestView(session *mockSession) *View {
	v := NewView(nil, nil, session, domain.SearchOptions{Limit: 7})
	v.SetDimensions(120, 40)
	return v
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, domain.SearchOptions{})

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.False(t, v.Ready())
	assert.Equal(t, "stack-docs", v.StatusBar().Collection())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Init_LoadsCount(t *testing.T) {
	v := newTestView(&mockSession{count: 12})

	assert.NotNil(t, v.Init())

	v, _ = v.Update(v.loadCount()())
	assert.Equal(t, 12, v.StatusBar().DocCount())
}

func TestView_Submit_RunsSearch(t *testing.T) {
	session := &mockSession{results: testResults()}
	v := newTestView(session)
	v.SetQuery("  how to install ")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.InputFocused())

	msg := cmd()
	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "how to install", completed.Query)
	assert.Equal(t, "how to install", session.lastQuery)
	assert.Equal(t, 7, session.lastOpts.Limit)

	v, _ = v.Update(completed)
	assert.Len(t, v.Results(), 2)
	assert.NoError(t, v.Err())
	assert.Contains(t, v.View(), "First")
}

func TestView_Submit_EmptyQueryIgnored(t *testing.T) {
	v := newTestView(&mockSession{})
	v.SetQuery("   ")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, v.InputFocused())
}

func TestView_SearchError_RefocusesInput(t *testing.T) {
	v := newTestView(&mockSession{})
	v.focusResults()

	v, _ = v.Update(messages.SearchCompleted{Err: errors.New("index unreachable")})

	require.Error(t, v.Err())
	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "index unreachable")
}

func TestView_NoSession(t *testing.T) {
	v := NewView(nil, nil, nil, domain.SearchOptions{})

	msg := v.performSearch("q")()

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoSession)
	assert.Nil(t, v.loadCount())
}

func TestView_ResultsMode_Navigation(t *testing.T) {
	v := newTestView(&mockSession{})
	v, _ = v.Update(messages.SearchCompleted{Results: testResults()})

	v, _ = v.Update(keyRunes("j"))
	assert.Equal(t, 1, v.SelectedIndex())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_ResultsMode_OpenSelected(t *testing.T) {
	v := newTestView(&mockSession{})
	v, _ = v.Update(messages.SearchCompleted{Results: testResults()})
	v, _ = v.Update(keyRunes("j"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	selected, ok := cmd().(messages.ResultSelected)
	require.True(t, ok)
	assert.Equal(t, "2", selected.Result.ID)
}

func TestView_ResultsMode_Keys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"history", tea.KeyMsg{Type: tea.KeyTab}, messages.ViewChanged{View: messages.ViewHistory}},
		{"help", keyRunes("?"), messages.ViewChanged{View: messages.ViewHelp}},
		{"quit", keyRunes("q"), messages.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(&mockSession{})
			v, _ = v.Update(messages.SearchCompleted{Results: testResults()})

			_, cmd := v.Update(tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_ResultsMode_NewSearchFocusesInput(t *testing.T) {
	v := newTestView(&mockSession{})
	v, _ = v.Update(messages.SearchCompleted{Results: testResults()})
	require.False(t, v.InputFocused())

	v, _ = v.Update(keyRunes("n"))

	assert.True(t, v.InputFocused())
}

func TestView_InputMode_Esc(t *testing.T) {
	v := newTestView(&mockSession{})
	v.SetQuery("draft")

	// Clears the draft first.
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Empty(t, v.Query())

	// Then quits when there is nothing to go back to.
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_InputMode_EscReturnsToResults(t *testing.T) {
	v := newTestView(&mockSession{})
	v, _ = v.Update(messages.SearchCompleted{Results: testResults()})
	v, _ = v.Update(keyRunes("n"))

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.InputFocused())
}

func TestView_InputMode_TypingDoesNotNavigate(t *testing.T) {
	v := newTestView(&mockSession{})

	v, _ = v.Update(keyRunes("q"))
	v, _ = v.Update(keyRunes("j"))

	assert.Equal(t, "qj", v.Query())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newTestView(&mockSession{})

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}
