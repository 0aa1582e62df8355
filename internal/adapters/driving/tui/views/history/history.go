// Package history provides the ingestion run list for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecseed/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
)

// DefaultLimit is the number of runs loaded.
const DefaultLimit = 50

// ErrHistoryUnavailable is reported when no ingestion service was provided.
var ErrHistoryUnavailable = errors.New("history: ingestion history is not available")

// View lists recorded ingestion runs for one collection, newest first.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	ingestion driving.IngestionService
	ctx       context.Context

	collection string
	runs       []domain.IngestionRun
	selected   int
	loading    bool
	err        error
	width      int
	height     int
}

// NewView creates a history view. A nil service renders an explanatory error.
func NewView(s *styles.Styles, km *keymap.KeyMap, ingestion driving.IngestionService, collection string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:     s,
		keymap:     km,
		ingestion:  ingestion,
		ctx:        context.Background(),
		collection: collection,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used to load runs.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the runs.
func (v *View) Init() tea.Cmd {
	v.loading = true
	ingestion, ctx, collection := v.ingestion, v.ctx, v.collection
	return func() tea.Msg {
		if ingestion == nil {
			return messages.HistoryLoaded{Err: ErrHistoryUnavailable}
		}
		runs, err := ingestion.History(ctx, collection, DefaultLimit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.runs = msg.Runs
			v.selected = 0
		}
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
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case key == "r":
		return v, v.Init()
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.History):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

// View renders the run list and the details of the selected run.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ingestion history: " + v.collection))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No runs recorded"))
	default:
		b.WriteString(v.renderRuns())
		b.WriteString("\n\n")
		b.WriteString(v.renderDetail(&v.runs[v.selected]))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] select  [r] reload  [esc/tab] back  [q] quit"))
	return b.String()
}

func (v *View) renderRuns() string {
	// Detail block and footer.
	visible := max(v.height-16, 1)
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.runs))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		run := &v.runs[i]
		status := v.styles.Success.Render("ok    ")
		if run.Status != domain.RunSucceeded {
			status = v.styles.Error.Render("failed")
		}
		row := fmt.Sprintf("%s  %-7s  %-8s  %5d  %s",
			run.StartedAt.Local().Format(time.DateTime),
			run.Origin,
			run.Mode,
			run.DocumentCount,
			list.Truncate(run.DocName, max(v.width-52, 10)),
		)
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+row)+" "+status)
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+row)+" "+status)
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderDetail(run *domain.IngestionRun) string {
	fields := [][2]string{
		{"run", run.ID},
		{"locator", run.Locator},
		{"index", run.IndexURI},
		{"duration", run.Duration().Round(time.Millisecond).String()},
	}
	if run.Error != "" {
		fields = append(fields, [2]string{"error", run.Error})
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, v.styles.Label.Render(f[0])+v.styles.Normal.Render(f[1]))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.IngestionRun {
	return v.runs
}

// Selected returns the index of the selected run.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
