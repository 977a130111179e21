// Package watch is the live week view behind `wp watch`: it re-analyzes the
// week on a timer and shows goal notices as they come due.
package watch

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/notice"
	"github.com/Tiliavir/weekly-punch/internal/render"
)

// RefreshInterval is how often the view re-analyzes the week.
const RefreshInterval = 30 * time.Second

// Loader produces a fresh report for the current or the previous week.
type Loader func(ctx context.Context, previous bool, now time.Time) (model.WeekReport, error)

// Model is the bubbletea model of the live view. It holds the last report
// and the notice due for it.
type Model struct {
	load     Loader
	goals    notice.Goals
	styles   render.Styles
	now      func() time.Time
	previous bool
	report   model.WeekReport
	loaded   bool
	err      error
	notice   string
	help     help.Model
	width    int
}

// New returns a watch model. now is injectable for tests; nil means time.Now.
func New(load Loader, goals notice.Goals, styles render.Styles, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		load:   load,
		goals:  goals,
		styles: styles,
		now:    now,
		help:   help.New(),
	}
}

type tickMsg time.Time

type reportMsg struct {
	report   model.WeekReport
	previous bool
	err      error
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	load, previous, now := m.load, m.previous, m.now()
	return func() tea.Msg {
		report, err := load(context.Background(), previous, now)
		return reportMsg{report: report, previous: previous, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Previous):
			m.previous = !m.previous
			m.loaded = false
			return m, m.refresh()
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		}

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case reportMsg:
		// Drop answers for a mode the user has already left.
		if msg.previous != m.previous {
			return m, nil
		}
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.report = msg.report
		m.loaded = true
		m.notice = ""
		if !msg.previous {
			if n, due := notice.Check(msg.report, m.goals); due {
				m.notice = n.Message()
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	title := m.styles.Day.Render("Weekly Punch")
	if m.previous {
		title += "  " + m.styles.Mode.Render("previous week")
	}

	var body string
	switch {
	case m.err != nil:
		body = errorStyle.Render("Error: " + m.err.Error())
	case !m.loaded:
		body = m.styles.Muted.Render("Loading...")
	default:
		body = render.Text(m.report, m.styles)
	}

	parts := []string{title, "", body}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, m.help.View(keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Previous reports whether the view shows the previous week.
func (m Model) Previous() bool { return m.previous }

// Report returns the last report received.
func (m Model) Report() model.WeekReport { return m.report }

// Notice returns the notice currently shown, if any.
func (m Model) Notice() string { return m.notice }

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FDFF8C")).Bold(true)
)

type keyMap struct {
	Previous key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Previous: key.NewBinding(
		key.WithKeys("p", "tab"),
		key.WithHelp("p", "toggle previous week"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}
