// Package chatpane renders the conversation history above a one-line input.
package chatpane

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/chat"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/events"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/theme"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/ui"
)

const (
	placeholder = "Ask the assistant…"
	pendingText = "Assistant is thinking…"
	emptyText   = "No messages yet. Try \"What's on my calendar tomorrow?\""
)

// Model shows a chat.State. It never mutates the conversation itself: enter
// emits a ChatSubmitMsg and the root decides whether the send is accepted.
type Model struct {
	id       events.ComponentID
	history  viewport.Model
	input    textinput.Model
	state    chat.State
	rendered uint64
	hasState bool
	notice   string

	focused bool
	width   int
	height  int
	styles  theme.ChatTheme
}

// NewModel builds an empty chat pane.
func NewModel(id events.ComponentID, styles theme.ChatTheme) *Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	m := &Model{id: id, history: vp, input: in, styles: styles}
	m.refresh()
	return m
}

// ID identifies the component in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize gives the history everything above the input line.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 2 {
		height = 2
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height
	m.history.SetWidth(width)
	m.history.SetHeight(height - 1)
	m.input.SetWidth(max(1, width-len(m.input.Prompt)-1))
	m.refresh()
	m.history.GotoBottom()
}

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return tea.Batch(m.input.Focus(), events.FocusCmd(m.id))
}

// Blur implements ui.Focusable.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	m.input.Blur()
	return events.BlurCmd(m.id)
}

// Focused implements ui.Focusable.
func (m *Model) Focused() bool { return m.focused }

// Input is the text currently typed.
func (m *Model) Input() string { return m.input.Value() }

// ClearInput empties the input after a send is accepted.
func (m *Model) ClearInput() { m.input.SetValue("") }

// SetState shows st. The history scrolls to the newest message whenever the
// conversation's revision moves.
func (m *Model) SetState(st chat.State) {
	changed := !m.hasState || st.Revision != m.rendered || st.Sending != m.state.Sending
	m.state = st
	m.hasState = true
	if !changed {
		return
	}
	m.rendered = st.Revision
	m.refresh()
	m.history.GotoBottom()
}

// SetNotice shows a dimmed line above the history, e.g. when earlier
// messages could not be restored. An empty notice removes it.
func (m *Model) SetNotice(text string) {
	m.notice = text
	m.refresh()
}

// Update handles input while focused. Page keys scroll the history.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			return m, events.ChatSubmitCmd(m.id, text)
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders history over the input line.
func (m *Model) View() string {
	return m.history.View() + "\n" + m.input.View()
}

// Cursor positions the terminal cursor inside the input while focused.
func (m *Model) Cursor() *tea.Cursor {
	if !m.focused {
		return nil
	}
	return m.input.Cursor()
}

func (m *Model) refresh() {
	m.history.SetContent(m.renderHistory())
}

func (m *Model) renderHistory() string {
	wrap := max(m.width, 10)
	var blocks []string
	for _, msg := range m.state.Messages {
		blocks = append(blocks, m.renderMessage(msg, wrap))
	}
	if m.state.Sending {
		blocks = append(blocks, m.styles.Pending.Render(pendingText))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, m.styles.Pending.Render(emptyText))
	}
	if m.notice != "" {
		blocks = append([]string{m.styles.Pending.Render(wordwrap.String(m.notice, wrap))}, blocks...)
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg chat.Message, wrap int) string {
	label := m.styles.Assistant.Render("Assistant:")
	if msg.Role == chat.RoleUser {
		label = m.styles.User.Render("You:")
	}
	body := wordwrap.String(msg.Text, max(wrap-2, 8))
	if msg.Failed {
		body = m.styles.Failed.Render(body)
	}
	lines := []string{label, indent.String(body, 2)}
	for _, action := range msg.Actions {
		lines = append(lines, m.styles.Actions.Render(indent.String(wordwrap.String("↳ "+action, max(wrap-4, 8)), 2)))
	}
	return strings.Join(lines, "\n")
}
