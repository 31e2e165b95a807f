package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/chat"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// DaySelectMsg is emitted when the highlighted day in the month grid changes.
type DaySelectMsg struct {
	Component ComponentID
	Day       calendar.DayKey
}

// Describe renders the selection in a human-friendly format for logs.
func (m DaySelectMsg) Describe() string {
	return fmt.Sprintf(`day:%q`, m.Day)
}

// DaySelectCmd wraps DaySelectMsg.
func DaySelectCmd(component ComponentID, day calendar.DayKey) tea.Cmd {
	return func() tea.Msg {
		return DaySelectMsg{Component: component, Day: day}
	}
}

// MonthChangeMsg is emitted when the month grid moves to a different month
// and therefore to a different visible range.
type MonthChangeMsg struct {
	Component ComponentID
	Month     time.Time
	Start     time.Time
	End       time.Time
}

// Describe renders the month change for logs.
func (m MonthChangeMsg) Describe() string {
	return fmt.Sprintf(`month:%q range:%s..%s`, m.Month.Format("2006-01"),
		m.Start.Format("2006-01-02"), m.End.Format("2006-01-02"))
}

// MonthChangeCmd wraps MonthChangeMsg.
func MonthChangeCmd(component ComponentID, month, start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		return MonthChangeMsg{Component: component, Month: month, Start: start, End: end}
	}
}

// RangeLoadedMsg carries the outcome of a range request back to the update
// loop, where the loader decides whether it is still current.
type RangeLoadedMsg struct {
	Result loader.Result
}

// Describe renders the load outcome for logs.
func (m RangeLoadedMsg) Describe() string {
	if m.Result.Err != nil {
		return fmt.Sprintf(`seq:%d err:%q`, m.Result.Seq, m.Result.Err.Error())
	}
	return fmt.Sprintf(`seq:%d events:%d rejected:%d`, m.Result.Seq, len(m.Result.Events), len(m.Result.Rejected))
}

// ChatSubmitMsg is emitted when the chat input is submitted.
type ChatSubmitMsg struct {
	Component ComponentID
	Text      string
}

// Describe renders the submission for logs.
func (m ChatSubmitMsg) Describe() string {
	return fmt.Sprintf(`chars:%d`, len(m.Text))
}

// ChatSubmitCmd wraps ChatSubmitMsg.
func ChatSubmitCmd(component ComponentID, text string) tea.Cmd {
	return func() tea.Msg {
		return ChatSubmitMsg{Component: component, Text: text}
	}
}

// ChatReplyMsg carries a finished chat dispatch back to the update loop.
type ChatReplyMsg struct {
	Reply chat.Reply
}

// Describe renders the reply outcome for logs.
func (m ChatReplyMsg) Describe() string {
	if m.Reply.Err != nil {
		return fmt.Sprintf(`err:%q`, m.Reply.Err.Error())
	}
	if m.Reply.Response == nil {
		return `empty`
	}
	return fmt.Sprintf(`success:%t conversation:%q`, m.Reply.Response.Success, m.Reply.Response.ConversationID)
}

// IdentityChangedMsg reports that the credential file changed on disk.
type IdentityChangedMsg struct {
	Change identity.Change
	Closed bool
}

// Describe renders the change for logs.
func (m IdentityChangedMsg) Describe() string {
	if m.Closed {
		return `watch:closed`
	}
	return fmt.Sprintf(`path:%q removed:%t`, m.Change.Path, m.Change.Removed)
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}
