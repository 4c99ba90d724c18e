// Package tui is the live terminal dashboard of the operations queue.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slok/opsq/internal/app/dashboard"
	"github.com/slok/opsq/internal/clock"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/printer"
	"github.com/slok/opsq/internal/timefmt"
)

// DefaultRefreshInterval is the redraw interval of the dashboard.
const DefaultRefreshInterval = 250 * time.Millisecond

// Dashboard is the UI session the model renders.
type Dashboard interface {
	View(ctx context.Context) (*dashboard.View, error)
	ToggleScope() model.Scope
	SetSearchQuery(q string)
	SelectTask(id string)
}

// Config is the configuration of the dashboard model.
type Config struct {
	Dashboard       Dashboard
	Clock           clock.Clock
	RefreshInterval time.Duration
	Color           bool
	Logger          log.Logger
}

func (c *Config) defaults() error {
	if c.Dashboard == nil {
		return fmt.Errorf("dashboard is required")
	}

	if c.Clock == nil {
		c.Clock = clock.Real
	}

	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tui.Model"})

	return nil
}

type refreshMsg time.Time

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx      context.Context
	dash     Dashboard
	clock    clock.Clock
	interval time.Duration
	styles   printer.Styles
	color    bool
	logger   log.Logger

	search    textinput.Model
	searching bool
	view      *dashboard.View
	err       error
}

// New returns a new dashboard model with the first view already loaded.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name, user or LLM"
	search.CharLimit = 64

	m := &Model{
		ctx:      ctx,
		dash:     cfg.Dashboard,
		clock:    cfg.Clock,
		interval: cfg.RefreshInterval,
		styles:   printer.NewStyles(cfg.Color),
		color:    cfg.Color,
		logger:   cfg.Logger,
		search:   search,
	}
	m.load()

	return m, nil
}

// Init is called once when the program starts.
func (m *Model) Init() tea.Cmd {
	return m.scheduleRefresh()
}

// Update is called when a message is received.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.load()
		return m, m.scheduleRefresh()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			scope := m.dash.ToggleScope()
			m.logger.Debugf("scope toggled to %s", scope)
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "up", "k":
			m.moveSelection(-1)
		case "down", "j":
			m.moveSelection(1)
		}
		m.load()
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.dash.SetSearchQuery("")
		m.load()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.dash.SetSearchQuery(m.search.Value())
	m.load()

	return m, cmd
}

func (m *Model) moveSelection(delta int) {
	if m.view == nil || len(m.view.Tasks) == 0 {
		return
	}

	idx := 0
	if m.view.Selected != nil {
		for i, t := range m.view.Tasks {
			if t.ID == m.view.Selected.ID {
				idx = i
				break
			}
		}
	}

	idx = min(max(idx+delta, 0), len(m.view.Tasks)-1)
	m.dash.SelectTask(m.view.Tasks[idx].ID)
}

func (m *Model) load() {
	v, err := m.dash.View(m.ctx)
	if err != nil {
		m.logger.Errorf("could not load dashboard: %s", err)
		m.err = err
		return
	}
	m.err = nil
	m.view = v
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.view == nil {
		if m.err != nil {
			return fmt.Sprintf("error: %s\n", m.err)
		}
		return "loading...\n"
	}

	sections := []string{
		m.render(titleStyle, "Multi-LLM Operations Queue"),
		m.renderCounts(),
		m.renderFilters(),
	}

	list := m.renderTaskList()
	detail := m.renderDetail()
	if m.color {
		list, detail = boxStyle.Render(list), boxStyle.Render(detail)
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail))

	if m.err != nil {
		sections = append(sections, fmt.Sprintf("error: %s", m.err))
	}
	sections = append(sections, m.styles.Muted("tab scope • / search • j/k select • q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) render(style lipgloss.Style, text string) string {
	if !m.color {
		return text
	}
	return style.Render(text)
}

func (m *Model) renderCounts() string {
	c := m.view.Counts
	return fmt.Sprintf("Total %d   Running %d   Queued %d   Complete %d", c.Total, c.Running, c.Queued, c.Complete)
}

func (m *Model) renderFilters() string {
	scope := "Team"
	if m.view.Scope == model.ScopeIndividual {
		scope = "Individual"
	}

	line := "Scope: " + scope
	switch {
	case m.searching:
		line += "   " + m.search.View()
	case m.view.Query != "":
		line += "   Search: " + m.view.Query
	}

	return line
}

func (m *Model) renderTaskList() string {
	if len(m.view.Tasks) == 0 {
		return m.styles.Muted("No tasks")
	}

	lines := make([]string, 0, len(m.view.Tasks))
	for _, t := range m.view.Tasks {
		cursor := "  "
		if m.view.Selected != nil && m.view.Selected.ID == t.ID {
			cursor = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-28s %s %3d%%  %s",
			cursor,
			truncate(t.Name, 28),
			m.styles.Bar(t.Progress, 10, m.styles.LLMColor(t.LLM)),
			t.Progress,
			m.styles.Status(t.Status),
		))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderDetail() string {
	t := m.view.Selected
	if t == nil {
		return m.styles.Muted("No task selected")
	}

	lines := []string{
		t.Name,
		fmt.Sprintf("%s • %s • %s", t.User, m.styles.LLM(t.LLM), m.styles.Status(t.Status)),
		fmt.Sprintf("Elapsed %s • Duration %s", timefmt.Since(t.StartTime, m.clock.Now()), t.Duration),
		"",
	}
	for i, s := range t.Steps {
		lines = append(lines, fmt.Sprintf("%d. %-22s %s %3d%%  %s",
			i+1,
			truncate(s.Name, 22),
			m.styles.Bar(s.Progress, 10, m.styles.LLMColor(s.LLM)),
			s.Progress,
			m.styles.LLM(s.LLM),
		))
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
