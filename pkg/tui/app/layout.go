package app

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/ui"
)

const (
	// calendarWidth fits seven two-digit columns and their separators.
	calendarWidth = 20
	// calendarHeight is the title, the weekday header and six weeks.
	calendarHeight = 8
	footerRows     = 1

	calendarHelp = "hjkl move · [ ] month · t today · r reload · enter chat · d diagnostics · ? help · q quit"
	chatHelp     = "enter send · pgup/pgdown scroll · ctrl+n new chat · esc calendar"
)

// layout hands every pane its inner size. It runs on resize and whenever a
// pane is shown or hidden.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	frameW, frameH := m.frameSize()

	m.calendar.SetSize(calendarWidth, calendarHeight)
	m.agenda.SetSize(max(1, m.width-(calendarWidth+frameW)-frameW), calendarHeight)

	diagRows := m.diagRows()
	if diagRows > 0 {
		m.diag.SetSize(m.width, diagRows)
	}
	chatRows := m.height - (calendarHeight + frameH) - footerRows - diagRows - frameH
	m.chatPane.SetSize(max(4, m.width-frameW), max(2, chatRows))

	if m.showHelp && m.help != nil {
		m.help.SetSize(m.helpWidth(), m.helpHeight())
	}
}

func (m *Model) frameSize() (int, int) {
	f := m.deps.Theme.Panel.Frame
	return f.GetHorizontalFrameSize(), f.GetVerticalFrameSize()
}

func (m *Model) diagRows() int {
	if !m.showDiag {
		return 0
	}
	available := m.height - (calendarHeight + 2) - footerRows - 4
	if available < 5 {
		return 0
	}
	return clamp(m.height/4, 5, min(10, available))
}

func (m *Model) helpWidth() int  { return max(32, m.width*4/5) }
func (m *Model) helpHeight() int { return max(8, m.height*4/5) }

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width <= 0 || m.height <= 0 {
		return "initializing…", nil
	}
	calFrame, chatFrame := m.deps.Theme.Panel.Frame, m.deps.Theme.Panel.Frame
	if m.focus == focusCalendar {
		calFrame = m.deps.Theme.Panel.FocusedFrame
	} else {
		chatFrame = m.deps.Theme.Panel.FocusedFrame
	}
	frameW, _ := m.frameSize()

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		calFrame.Render(m.calendar.View()),
		m.deps.Theme.Panel.Frame.Width(max(1, m.width-(calendarWidth+frameW)-m.borderWidth())).Render(m.agenda.View()),
	)
	chatBox := chatFrame.Width(max(1, m.width-m.borderWidth())).Render(m.chatPane.View())

	sections := []string{top, chatBox}
	if m.showDiag && m.diagRows() > 0 {
		sections = append(sections, m.diag.View())
	}
	sections = append(sections, m.footer())

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.showHelp && m.help != nil {
		return ui.Overlay(screen, m.help.View(), m.width, m.height, ui.Centered), nil
	}

	var cursor *tea.Cursor
	if c := m.chatPane.Cursor(); c != nil {
		// The input is the last line inside the chat frame.
		copy := *c
		copy.X += m.deps.Theme.Panel.Frame.GetBorderLeftSize() + m.deps.Theme.Panel.Frame.GetPaddingLeft()
		copy.Y = lipgloss.Height(top) + lipgloss.Height(chatBox) - 2
		cursor = &copy
	}
	return screen, cursor
}

func (m *Model) borderWidth() int {
	f := m.deps.Theme.Panel.Frame
	return f.GetBorderLeftSize() + f.GetBorderRightSize()
}

func (m *Model) footer() string {
	help := calendarHelp
	if m.focus == focusChat {
		help = chatHelp
	}
	line := m.deps.Theme.Footer.Help.Render(help)
	if m.status != "" {
		line = m.deps.Theme.Footer.Status.Render(m.status) + "  " + line
	}
	return truncate.StringWithTail(line, uint(max(1, m.width)), "…")
}

// Status is the footer status text.
func (m *Model) Status() string { return m.status }

func clamp(value, lower, upper int) int {
	if upper < lower {
		return lower
	}
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
