// Package eventviewer is the diagnostics log: rejected event records, load
// failures and, when enabled, every message passing through the UI loop.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/ui"
)

// Level indicates the severity of a logged entry.
type Level int

const (
	// LevelInfo is the default severity.
	LevelInfo Level = iota
	// LevelWarn highlights data problems such as rejected records.
	LevelWarn
	// LevelError highlights failures.
	LevelError
)

// Entry is one rendered line.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Styles controls the log's presentation.
type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

// DefaultStyles returns the stock styling.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Model renders newest-first entries in a bordered viewport, keeping at most
// maxEntries.
type Model struct {
	viewport   viewport.Model
	entries    []Entry
	maxEntries int

	width  int
	height int
	styles Styles
	now    func() time.Time
}

// NewModel constructs a viewer capped at maxEntries.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	m := &Model{
		viewport:   vp,
		maxEntries: maxEntries,
		styles:     DefaultStyles(),
		now:        time.Now,
	}
	m.refreshContent()
	return m
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update scrolls the log with the page keys.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SetSize resizes the viewport inside the border and header row.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refreshContent()
}

// View renders the bordered viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.styles.Header.Render(fmt.Sprintf("Diagnostics (%d)", len(m.entries)))
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	return m.styles.Frame.Width(m.width - 2).Render(body)
}

// Entries returns the logged entries, newest first.
func (m *Model) Entries() []Entry { return m.entries }

// Append inserts entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}
	if entry.Source == "" {
		entry.Source = "ui"
	}
	if entry.Summary == "" {
		entry.Summary = "event"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	m.viewport.SetYOffset(0)
}

// AppendRejected logs every record the last load could not use.
func (m *Model) AppendRejected(rng loader.Range, rejected []calendar.Rejected) {
	for _, r := range rejected {
		m.Append(Entry{
			Source:  "loader",
			Summary: "record rejected",
			Detail:  fmt.Sprintf("%s in %s", r.Error(), rng.String()),
			Level:   LevelWarn,
		})
	}
}

// AppendFailure logs a classified load failure.
func (m *Model) AppendFailure(rng loader.Range, f loader.Failure) {
	detail := f.Reason
	if f.LoginURL != "" {
		detail += " (reconnect at " + f.LoginURL + ")"
	}
	m.Append(Entry{
		Source:  "loader",
		Summary: f.Kind.String() + " failure",
		Detail:  detail + " for " + rng.String(),
		Level:   LevelError,
	})
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

// WithStyles overrides the default styling.
func (m *Model) WithStyles(styles Styles) {
	m.styles = styles
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = m.styles.Timestamp.Render("Nothing to report")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04:05"))
	source := m.styles.Source.Render("[" + entry.Source + "]")
	msg := entry.Summary
	if entry.Detail != "" {
		msg += ": " + entry.Detail
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return ts + " " + source + " " + msg
}
