// Package calendar renders the month grid and owns month/day navigation.
package calendar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	cal "github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/events"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/theme"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/ui"
)

// Options configures a Model.
type Options struct {
	ID        events.ComponentID
	WeekStart cal.WeekStart
	Today     time.Time
	Styles    theme.CalendarTheme
}

// Model keeps the navigation state (month offset from today and the
// selected day) and re-derives the grid from it after every change.
type Model struct {
	id        events.ComponentID
	weekStart cal.WeekStart
	today     time.Time
	offset    int
	selected  time.Time
	index     cal.EventIndex
	grid      cal.MonthGrid
	loading   bool

	focused bool
	width   int
	height  int
	styles  theme.CalendarTheme
}

// NewModel starts on today's month with today selected.
func NewModel(opts Options) *Model {
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	m := &Model{
		id:        opts.ID,
		weekStart: opts.WeekStart,
		today:     today,
		selected:  cal.Midnight(today, today.Location()),
		styles:    opts.Styles,
	}
	m.rebuild()
	return m
}

// ID identifies the component in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Grid is the current month grid.
func (m *Model) Grid() cal.MonthGrid { return m.grid }

// Offset is the viewed month relative to today's month.
func (m *Model) Offset() int { return m.offset }

// Month is the first of the viewed month.
func (m *Model) Month() time.Time { return m.grid.Month }

// Selected is the selected day.
func (m *Model) Selected() cal.DayKey { return cal.KeyOf(m.selected, m.today.Location()) }

// SetIndex installs a new event index. A nil index clears the markers.
func (m *Model) SetIndex(idx cal.EventIndex) {
	m.index = idx
	m.rebuild()
}

// SetLoading toggles the loading marker beside the title.
func (m *Model) SetLoading(loading bool) { m.loading = loading }

// SetToday moves today's marker, e.g. after midnight passes. The viewed
// month stays where it is.
func (m *Model) SetToday(today time.Time) {
	m.offset = cal.MonthsBetween(cal.FirstOfMonth(today), m.grid.Month)
	m.today = today
	m.rebuild()
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return events.FocusCmd(m.id)
}

// Blur implements ui.Focusable.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	return events.BlurCmd(m.id)
}

// Focused implements ui.Focusable.
func (m *Model) Focused() bool { return m.focused }

// Update handles navigation keys while focused.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	switch key.String() {
	case "left", "h":
		return m, m.MoveDays(-1)
	case "right", "l":
		return m, m.MoveDays(1)
	case "up", "k":
		return m, m.MoveDays(-cal.DaysPerWeek)
	case "down", "j":
		return m, m.MoveDays(cal.DaysPerWeek)
	case "[", "pgup":
		return m, m.MoveMonths(-1)
	case "]", "pgdown":
		return m, m.MoveMonths(1)
	case "t", "home":
		return m, m.GoToday()
	}
	return m, nil
}

// MoveDays shifts the selection by n days, following it into the adjacent
// month when it leaves the viewed one.
func (m *Model) MoveDays(n int) tea.Cmd {
	s := m.selected
	return m.selectDay(time.Date(s.Year(), s.Month(), s.Day()+n, 0, 0, 0, 0, s.Location()))
}

// MoveMonths shifts the viewed month by n, keeping the day of month where
// the target month allows it.
func (m *Model) MoveMonths(n int) tea.Cmd {
	target := cal.MonthOffset(m.selected, n)
	day := m.selected.Day()
	if last := daysIn(target); day > last {
		day = last
	}
	return m.selectDay(time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, target.Location()))
}

// GoToday selects today and returns to its month.
func (m *Model) GoToday() tea.Cmd {
	return m.selectDay(cal.Midnight(m.today, m.today.Location()))
}

func (m *Model) selectDay(day time.Time) tea.Cmd {
	prevOffset := m.offset
	m.selected = day
	m.offset = cal.MonthsBetween(cal.FirstOfMonth(m.today), cal.FirstOfMonth(day))
	m.rebuild()

	cmds := []tea.Cmd{events.DaySelectCmd(m.id, m.Selected())}
	if m.offset != prevOffset {
		start, end := cal.VisibleRange(m.grid)
		cmds = append(cmds, events.MonthChangeCmd(m.id, m.grid.Month, start, end))
	}
	return tea.Batch(cmds...)
}

func (m *Model) rebuild() {
	loc := m.today.Location()
	month := cal.MonthOffset(cal.Midnight(m.today, loc), m.offset)
	m.grid = cal.ComputeGrid(month, m.weekStart, m.today, m.selected, m.index)
}

// View renders the title, weekday header and six week rows.
func (m *Model) View() string {
	title := m.grid.Month.Format("January 2006")
	if m.loading {
		title += " …"
	}
	lines := []string{
		m.styles.Title.Render(title),
		m.styles.Header.Render(strings.Join(cal.WeekdayLabels(m.weekStart), " ")),
	}
	for _, week := range m.grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, m.renderCell(c))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	body := strings.Join(lines, "\n")
	if m.width > 0 {
		body = lipgloss.NewStyle().MaxWidth(m.width).Render(body)
	}
	return body
}

func (m *Model) renderCell(c cal.DayCell) string {
	return m.cellStyle(c).Render(fmt.Sprintf("%2d", c.Date.Day()))
}

// cellStyle layers the markers over the day's base style: today over the
// base, selection over both. Inherit only fills unset properties, so each
// marker goes on top and inherits what it leaves open.
func (m *Model) cellStyle(c cal.DayCell) lipgloss.Style {
	style := m.styles.Day
	switch {
	case !c.InCurrentMonth:
		style = m.styles.OutMonth
	case c.HasEvents:
		style = m.styles.HasEvent
	}
	if c.IsToday {
		style = m.styles.Today.Inherit(style)
	}
	if c.IsSelected {
		style = m.styles.Selected.Inherit(style)
	}
	return style
}

func daysIn(month time.Time) int {
	first := cal.FirstOfMonth(month)
	return first.AddDate(0, 1, -1).Day()
}
