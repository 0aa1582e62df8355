// Package input provides the query input component for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/styles"
)

// maxRecall bounds the number of remembered queries.
const maxRecall = 50

// SearchInput wraps a bubbles textinput and remembers submitted queries.
// Up and down recall earlier queries while the input is focused.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	recall []string
	cursor int
}

// NewSearchInput creates a new query input component.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask the collection..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blink.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && s.textinput.Focused() {
		//nolint:exhaustive // only recall keys are intercepted
		switch key.Type {
		case tea.KeyUp:
			s.recallPrev()
			return s, nil
		case tea.KeyDown:
			s.recallNext()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Query: ")
	field := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the raw input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// Query returns the input value with surrounding whitespace removed.
func (s *SearchInput) Query() string {
	return strings.TrimSpace(s.textinput.Value())
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Remember records a submitted query for recall. Repeats of the most
// recent query are collapsed.
func (s *SearchInput) Remember(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	if n := len(s.recall); n == 0 || s.recall[n-1] != query {
		s.recall = append(s.recall, query)
		if len(s.recall) > maxRecall {
			s.recall = s.recall[len(s.recall)-maxRecall:]
		}
	}
	s.cursor = len(s.recall)
}

// Recalled returns the remembered queries, oldest first.
func (s *SearchInput) Recalled() []string {
	return s.recall
}

func (s *SearchInput) recallPrev() {
	if s.cursor == 0 {
		return
	}
	s.cursor--
	s.textinput.SetValue(s.recall[s.cursor])
	s.textinput.CursorEnd()
}

func (s *SearchInput) recallNext() {
	if s.cursor >= len(s.recall) {
		return
	}
	s.cursor++
	if s.cursor == len(s.recall) {
		s.textinput.SetValue("")
		return
	}
	s.textinput.SetValue(s.recall[s.cursor])
	s.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Label and border padding.
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input and the recall position.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
	s.cursor = len(s.recall)
}
