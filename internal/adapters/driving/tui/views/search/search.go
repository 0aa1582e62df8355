// Package search provides the main search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// View is the query input, results list and status bar.
//
// The view has two modes. In input mode keys go to the query field and
// enter submits. In results mode keys navigate the list and enter opens
// the selected result.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	session driving.QuerySession
	opts    domain.SearchOptions
	ctx     context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new search view over an open query session.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.QuerySession,
	opts domain.SearchOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	if session != nil {
		bar.SetCollection(session.Collection())
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  bar,
		session:    session,
		opts:       opts,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink and loads the collection size.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadCount())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.CountLoaded:
		if msg.Err == nil {
			v.statusbar.SetDocCount(msg.Count)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Query()
		if query == "" {
			return v, nil
		}
		v.input.Remember(query)
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)

	case tea.KeyEsc:
		if v.input.Value() != "" {
			v.input.Reset()
			return v, nil
		}
		if !v.list.IsEmpty() {
			v.focusResults()
			return v, nil
		}
		return v, func() tea.Msg { return messages.Quit{} }

	case tea.KeyTab:
		return v, changeView(messages.ViewHistory)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Open):
		if r := v.list.SelectedResult(); r != nil {
			selected := *r
			return v, func() tea.Msg { return messages.ResultSelected{Result: selected} }
		}
		return v, nil
	case keymap.Matches(key, v.keymap.NewSearch), keymap.Matches(key, v.keymap.Back):
		v.focusInput = true
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.History):
		return v, changeView(messages.ViewHistory)
	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// performSearch runs the query against the session off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	session, ctx, opts := v.session, v.ctx, v.opts
	return func() tea.Msg {
		if session == nil {
			return messages.ErrorOccurred{Err: ErrNoSession}
		}
		results, err := session.Search(ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) loadCount() tea.Cmd {
	session, ctx := v.session, v.ctx
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := session.Count(ctx)
		return messages.CountLoaded{Count: n, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.statusbar.SetMessage("")
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.focusResults()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("vecseed"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Header, input box and status bar.
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// StatusBar exposes the status bar for rendering by sibling views.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
