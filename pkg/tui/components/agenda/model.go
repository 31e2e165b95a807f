// Package agenda lists the selected day's events, or the load state that
// replaces them.
package agenda

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/theme"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/ui"
)

const (
	loadingText   = "Loading events…"
	emptyText     = "No events"
	retryHint     = "Press r to retry."
	reconnectHint = "Reconnect your calendar:"
)

// Model renders one day out of the loader's current snapshot.
type Model struct {
	day  calendar.DayKey
	loc  *time.Location
	snap loader.Snapshot

	width  int
	height int
	styles theme.AgendaTheme
	errors theme.FooterTheme
}

// NewModel builds an agenda for days in loc.
func NewModel(loc *time.Location, th theme.Theme) *Model {
	if loc == nil {
		loc = time.Local
	}
	return &Model{loc: loc, styles: th.Agenda, errors: th.Footer}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component. The agenda is display only.
func (m *Model) Update(tea.Msg) (ui.Component, tea.Cmd) { return m, nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetDay selects the day to list.
func (m *Model) SetDay(day calendar.DayKey) { m.day = day }

// SetSnapshot installs the loader's latest state.
func (m *Model) SetSnapshot(s loader.Snapshot) { m.snap = s }

// Day is the listed day.
func (m *Model) Day() calendar.DayKey { return m.day }

// View renders a heading and exactly one of: loading, failure, the day's
// events or the empty notice.
func (m *Model) View() string {
	lines := []string{m.styles.Heading.Render(m.heading())}

	switch m.snap.State {
	case loader.Loading:
		lines = append(lines, m.styles.Empty.Render(loadingText))
	case loader.Failed:
		lines = append(lines, m.failureLines()...)
	case loader.Loaded:
		events := m.snap.Index.On(m.day)
		if len(events) == 0 {
			lines = append(lines, m.styles.Empty.Render(emptyText))
			break
		}
		for _, ev := range events {
			lines = append(lines, m.eventLines(ev)...)
		}
	}

	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	if m.width > 0 {
		for i, l := range lines {
			lines[i] = truncate.StringWithTail(l, uint(m.width), "…")
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) heading() string {
	if m.day == "" {
		return "Agenda"
	}
	t, err := m.day.Time(m.loc)
	if err != nil {
		return string(m.day)
	}
	return t.Format("Monday, January 2")
}

func (m *Model) failureLines() []string {
	f := m.snap.Failure
	if f == nil {
		return []string{m.errors.Error.Render("Error: unknown failure")}
	}
	out := m.wrap(m.errors.Error.Render("Error: " + f.Reason))
	if f.NeedsReconnect() {
		out = append(out, m.styles.Detail.Render(reconnectHint))
		if f.LoginURL != "" {
			out = append(out, m.styles.Time.Render(f.LoginURL))
		}
		return out
	}
	return append(out, m.styles.Detail.Render(retryHint))
}

func (m *Model) eventLines(ev calendar.Event) []string {
	title := ev.Title
	if title == "" {
		title = "(untitled)"
	}
	out := []string{fmt.Sprintf("%s  %s",
		m.styles.Time.Render(calendar.FormatTimeRange(ev, m.loc)),
		m.styles.Title.Render(title))}
	if ev.Location != "" {
		out = append(out, m.wrap(m.styles.Detail.Render("  @ "+ev.Location))...)
	}
	if len(ev.Attendees) > 0 {
		out = append(out, m.wrap(m.styles.Detail.Render("  with "+strings.Join(ev.Attendees, ", ")))...)
	}
	return out
}

func (m *Model) wrap(s string) []string {
	if m.width <= 0 {
		return []string{s}
	}
	return strings.Split(wordwrap.String(s, m.width), "\n")
}
