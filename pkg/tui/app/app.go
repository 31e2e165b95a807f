// Package app is the root Bubble Tea model. It routes navigation to the
// range loader and chat input to the chat controller and renders their
// state; it owns no data of its own.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/termenv"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	cal "github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/chat"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/components/agenda"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/components/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/components/chatpane"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/components/eventviewer"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/components/help"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/events"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/theme"
)

const (
	calendarID events.ComponentID = "calendar"
	chatID     events.ComponentID = "chat"

	todayTick = time.Minute

	historyNotice = "Earlier messages of this conversation could not be loaded. It continues where it left off."
)

type focusArea int

const (
	focusCalendar focusArea = iota
	focusChat
)

type todayTickMsg time.Time

// Deps are the collaborators the root model drives.
type Deps struct {
	Loader    *loader.Loader
	Chat      *chat.Controller
	WeekStart cal.WeekStart
	Now       func() time.Time
	// Remember persists the conversation after every completed turn.
	Remember func(chat.State) error
	// Forget drops the persisted conversation.
	Forget func() error
	// Watch reports credential changes; nil disables reloading on change.
	Watch func(context.Context) (<-chan identity.Change, error)
	Theme theme.Theme
	// HelpStyle is the glamour style used by the help overlay.
	HelpStyle string
	Log       *slog.Logger
	// HistoryErr reports that the resumed conversation's messages could not
	// be restored. The pane then says so instead of looking like a new chat.
	HistoryErr error
}

// Model composes the calendar, agenda, chat pane and diagnostics.
type Model struct {
	ctx  context.Context
	deps Deps
	log  *slog.Logger

	calendar *calendar.Model
	agenda   *agenda.Model
	chatPane *chatpane.Model
	diag     *eventviewer.Model
	help     *help.Model

	focus    focusArea
	showDiag bool
	showHelp bool
	status   string

	identityCh <-chan identity.Change

	width  int
	height int
}

// New builds a root model from a service.
func New(ctx context.Context, svc *app.Service) (*Model, error) {
	conversation, err := svc.ResumeChat(ctx)
	var historyErr error
	if errors.Is(err, app.ErrHistoryUnavailable) {
		historyErr, err = err, nil
	}
	if err != nil {
		return nil, err
	}
	helpStyle := "light"
	if termenv.HasDarkBackground() {
		helpStyle = "dark"
	}
	return NewWithDeps(ctx, Deps{
		Loader:     svc.NewLoader(),
		Chat:       conversation,
		WeekStart:  svc.WeekStart(),
		Now:        svc.Now,
		Remember:   svc.RememberConversation,
		Forget:     svc.ForgetConversation,
		Watch:      svc.WatchIdentity,
		Theme:      theme.Default(),
		HelpStyle:  helpStyle,
		Log:        svc.Log,
		HistoryErr: historyErr,
	}), nil
}

// NewWithDeps builds a root model from explicit collaborators.
func NewWithDeps(ctx context.Context, deps Deps) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.Now == nil {
		loc := deps.Loader.Location()
		deps.Now = func() time.Time { return time.Now().In(loc) }
	}
	m := &Model{
		ctx:  ctx,
		deps: deps,
		log:  logging.Component(deps.Log, "tui"),
		calendar: calendar.NewModel(calendar.Options{
			ID:        calendarID,
			WeekStart: deps.WeekStart,
			Today:     deps.Now(),
			Styles:    deps.Theme.Calendar,
		}),
		agenda:   agenda.NewModel(deps.Loader.Location(), deps.Theme),
		chatPane: chatpane.NewModel(chatID, deps.Theme.Chat),
		diag:     eventviewer.NewModel(400),
	}
	m.calendar.Focus()
	m.agenda.SetDay(m.calendar.Selected())
	m.chatPane.SetState(deps.Chat.State())
	if deps.HistoryErr != nil {
		m.chatPane.SetNotice(historyNotice)
		m.diag.Append(eventviewer.Entry{
			Source:  "chat",
			Summary: "history unavailable",
			Detail:  deps.HistoryErr.Error(),
			Level:   eventviewer.LevelWarn,
		})
	}
	return m
}

// Run launches the Bubble Tea program.
func Run(ctx context.Context, svc *app.Service) error {
	m, err := New(ctx, svc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	m.deps.Loader.Cancel()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init starts the first load, the credential watch and the day ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadVisible(), m.startWatch(), tickToday())
}

// Update routes Bubble Tea messages to composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(v)
	case events.DaySelectMsg:
		m.agenda.SetDay(v.Day)
	case events.MonthChangeMsg:
		return m, m.loadVisible()
	case events.RangeLoadedMsg:
		m.applyRange(v.Result)
	case events.ChatSubmitMsg:
		return m, m.send(v.Text)
	case events.ChatReplyMsg:
		m.complete(v.Reply)
	case events.IdentityChangedMsg:
		if v.Closed {
			m.identityCh = nil
			return m, nil
		}
		m.status = "Credential changed, reloading"
		return m, tea.Batch(m.loadVisible(), m.waitIdentity())
	case todayTickMsg:
		m.calendar.SetToday(m.deps.Now())
		return m, tickToday()
	}
	return m, nil
}

func (m *Model) handleKey(key tea.KeyMsg) tea.Cmd {
	k := key.String()
	if k == "ctrl+c" {
		m.deps.Loader.Cancel()
		return tea.Quit
	}

	if m.showHelp {
		switch k {
		case "esc", "?", "q":
			m.showHelp = false
			return nil
		}
		_, cmd := m.help.Update(key)
		return cmd
	}

	if k == "tab" {
		return m.toggleFocus()
	}

	if m.focus == focusChat {
		switch k {
		case "esc":
			return m.toggleFocus()
		case "ctrl+n":
			m.resetConversation()
			return nil
		}
		_, cmd := m.chatPane.Update(key)
		return cmd
	}

	switch k {
	case "q":
		m.deps.Loader.Cancel()
		return tea.Quit
	case "r":
		return m.loadVisible()
	case "d":
		m.showDiag = !m.showDiag
		m.layout()
		return nil
	case "?":
		m.showHelp = true
		m.help = help.New(m.helpWidth(), m.helpHeight(), m.deps.HelpStyle)
		return nil
	case "enter":
		return m.toggleFocus()
	}
	_, cmd := m.calendar.Update(key)
	return cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusCalendar {
		m.focus = focusChat
		return tea.Batch(m.calendar.Blur(), m.chatPane.Focus())
	}
	m.focus = focusCalendar
	return tea.Batch(m.chatPane.Blur(), m.calendar.Focus())
}

// loadVisible issues a load for the grid's range, superseding any load in
// flight, and returns the command that performs it.
func (m *Model) loadVisible() tea.Cmd {
	start, end := cal.VisibleRange(m.calendar.Grid())
	req := m.deps.Loader.Load(m.ctx, start, end)
	m.calendar.SetIndex(nil)
	m.calendar.SetLoading(true)
	m.agenda.SetSnapshot(m.deps.Loader.Snapshot())
	m.status = "Loading " + m.calendar.Month().Format("January 2006")
	return func() tea.Msg {
		return events.RangeLoadedMsg{Result: req.Run()}
	}
}

func (m *Model) applyRange(res loader.Result) {
	if !m.deps.Loader.Apply(res) {
		return
	}
	snap := m.deps.Loader.Snapshot()
	m.calendar.SetIndex(snap.Index)
	m.calendar.SetLoading(false)
	m.agenda.SetSnapshot(snap)
	m.diag.AppendRejected(snap.Range, snap.Rejected)

	switch {
	case snap.Failure != nil:
		m.diag.AppendFailure(snap.Range, *snap.Failure)
		if snap.Failure.NeedsReconnect() {
			m.status = "Calendar not connected"
		} else {
			m.status = "Could not load events, press r to retry"
		}
	case len(snap.Rejected) > 0:
		m.status = fmt.Sprintf("%d events, %d skipped (d for details)", len(snap.Events), len(snap.Rejected))
	default:
		m.status = fmt.Sprintf("%d events", len(snap.Events))
	}
}

func (m *Model) send(text string) tea.Cmd {
	d, err := m.deps.Chat.Send(text)
	if err != nil {
		if errors.Is(err, chat.ErrSendInFlight) {
			m.status = "Still waiting for the last reply"
		}
		return nil
	}
	m.chatPane.ClearInput()
	m.chatPane.SetState(m.deps.Chat.State())
	ctx := m.ctx
	return func() tea.Msg {
		return events.ChatReplyMsg{Reply: d.Run(ctx)}
	}
}

func (m *Model) complete(reply chat.Reply) {
	m.deps.Chat.Complete(reply)
	st := m.deps.Chat.State()
	m.chatPane.SetState(st)
	if m.deps.Remember != nil {
		if err := m.deps.Remember(st); err != nil {
			m.log.Warn("persist conversation", "err", err)
		}
	}
}

func (m *Model) resetConversation() {
	if err := m.deps.Chat.Reset(); err != nil {
		m.status = "Still waiting for the last reply"
		return
	}
	if m.deps.Forget != nil {
		if err := m.deps.Forget(); err != nil {
			m.log.Warn("forget conversation", "err", err)
		}
	}
	m.chatPane.SetNotice("")
	m.chatPane.SetState(m.deps.Chat.State())
	m.status = "New conversation"
}

func (m *Model) startWatch() tea.Cmd {
	if m.deps.Watch == nil {
		return nil
	}
	ch, err := m.deps.Watch(m.ctx)
	if err != nil {
		m.log.Warn("watch credential", "err", err)
		return nil
	}
	if ch == nil {
		return nil
	}
	m.identityCh = ch
	return m.waitIdentity()
}

func (m *Model) waitIdentity() tea.Cmd {
	ch := m.identityCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return events.IdentityChangedMsg{Closed: true}
		}
		return events.IdentityChangedMsg{Change: change}
	}
}

func tickToday() tea.Cmd {
	return tea.Tick(todayTick, func(t time.Time) tea.Msg { return todayTickMsg(t) })
}

func (m *Model) noteEvent(msg tea.Msg) {
	if !m.showDiag {
		return
	}
	d, ok := msg.(interface{ Describe() string })
	if !ok {
		return
	}
	m.diag.Append(eventviewer.Entry{
		Source:  "tea",
		Summary: fmt.Sprintf("%T", msg),
		Detail:  d.Describe(),
		Level:   eventviewer.LevelInfo,
	})
}
