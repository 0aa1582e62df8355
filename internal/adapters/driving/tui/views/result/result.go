// Package result provides the full view of a single search result.
package result

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// View shows the metadata and the full wrapped content of one result.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	result       *domain.SearchResult
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new result view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		width:  80,
		height: 24,
	}
}

// SetResult sets the result to display and resets scrolling.
func (v *View) SetResult(r domain.SearchResult) {
	v.result = &r
	v.scrollOffset = 0
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the result view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(key, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case keymap.Matches(key, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case key == "home" || key == "g":
		v.scrollOffset = 0
	case key == "end" || key == "G":
		v.scrollOffset = v.maxScrollOffset()
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

// wrapContent splits the content into lines no wider than the view.
func (v *View) wrapContent() {
	v.lines = nil
	if v.result == nil || v.result.Document.Content == "" {
		return
	}

	contentWidth := max(v.width-4, 20)

	for _, line := range strings.Split(v.result.Document.Content, "\n") {
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

// headerLines is the number of lines rendered above the content.
const headerLines = 9

func (v *View) visibleLines() int {
	// Header, scroll indicator and help footer.
	return max(v.height-headerLines-4, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the result view.
func (v *View) View() string {
	var b strings.Builder

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	meta := v.result.Document.Metadata
	title := meta.Title
	if title == "" {
		title = v.result.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("  ")
	b.WriteString(v.styles.Score.Render(fmt.Sprintf("%.3f", v.result.Score)))
	b.WriteString("\n")

	for _, f := range [][2]string{
		{domain.MetaSource, meta.Source},
		{domain.MetaDocName, meta.DocName},
		{domain.MetaContentType, meta.ContentType},
		{domain.MetaLanguage, meta.Language},
		{domain.MetaStartIndex, strconv.Itoa(meta.StartIndex)},
		{"id", v.result.ID},
	} {
		b.WriteString(v.styles.Label.Render(f[0]))
		b.WriteString(v.styles.Normal.Render(f[1]))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(no content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for _, line := range v.lines[v.scrollOffset:end] {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if m := v.maxScrollOffset(); m > 0 {
			percentage = v.scrollOffset * 100 / m
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage, v.scrollOffset+1, end, len(v.lines))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
}

// Result returns the displayed result.
func (v *View) Result() *domain.SearchResult {
	return v.result
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// LineCount returns the number of wrapped content lines.
func (v *View) LineCount() int {
	return len(v.lines)
}
