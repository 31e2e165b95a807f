// Package chat holds one conversation with the assistant: its history, the
// continuity token echoed on every turn, and the single-flight send state.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/api"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
)

// ErrorMarker prefixes assistant messages that report a failed turn.
const ErrorMarker = "Error: "

const (
	confirmationNotice = "This request needs your confirmation before it is completed."
	problemNotice      = "The assistant reported a problem completing this request."
	suggestionsHeading = "Suggestions:"
)

var (
	// ErrEmptyMessage rejects blank input.
	ErrEmptyMessage = errors.New("chat: message is empty")
	// ErrSendInFlight rejects a send while another is outstanding.
	ErrSendInFlight = errors.New("chat: a message is already being sent")
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the history.
type Message struct {
	ID      string
	Role    Role
	Text    string
	Actions []string
	Failed  bool
}

// State is a read-only view of the conversation. Messages is never mutated
// after it is handed out.
type State struct {
	Messages        []Message
	ContinuityToken string
	Sending         bool
	// Revision increments whenever Messages changes.
	Revision uint64
}

// Sender posts one turn to the backend. *api.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error)
}

// Controller drives the conversation. Like the loader it belongs to a single
// goroutine; Dispatch.Run is the only part that runs elsewhere.
type Controller struct {
	sender Sender
	userID string
	log    *slog.Logger

	state  State
	nextID int
}

// Option configures a Controller.
type Option func(*Controller)

// WithContinuityToken resumes an earlier conversation.
func WithContinuityToken(token string) Option {
	return func(c *Controller) { c.state.ContinuityToken = strings.TrimSpace(token) }
}

// WithHistory seeds the conversation with earlier messages. The history is
// installed as one value; ids are reassigned so later turns never collide.
func WithHistory(msgs []Message) Option {
	return func(c *Controller) {
		if len(msgs) == 0 {
			return
		}
		seeded := make([]Message, len(msgs))
		for i, m := range msgs {
			c.nextID++
			m.ID = "msg-" + strconv.Itoa(c.nextID)
			m.Actions = append([]string(nil), m.Actions...)
			seeded[i] = m
		}
		c.state.Messages = seeded
		c.state.Revision++
	}
}

// FromHistory converts stored backend messages into chat messages. Entries
// of an unknown interaction type are skipped.
func FromHistory(h api.History) []Message {
	var out []Message
	for _, m := range h.Messages {
		var role Role
		switch m.Type {
		case api.InteractionUser:
			role = RoleUser
		case api.InteractionAssistant:
			role = RoleAssistant
		default:
			continue
		}
		out = append(out, Message{Role: role, Text: strings.TrimSpace(m.Content)})
	}
	return out
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = logging.Component(l, "chat") }
}

// New creates a controller for userID.
func New(sender Sender, userID string, opts ...Option) *Controller {
	c := &Controller{
		sender: sender,
		userID: userID,
		log:    logging.Component(nil, "chat"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current conversation.
func (c *Controller) State() State { return c.state }

// Sending reports whether a turn is outstanding.
func (c *Controller) Sending() bool { return c.state.Sending }

// Dispatch is an accepted turn waiting for its network call.
type Dispatch struct {
	Request api.ChatRequest
	sender  Sender
}

// Reply is the outcome of a Dispatch.
type Reply struct {
	Response api.ChatResponse
	Err      error
}

// Run performs the network call. A panicking sender is reported as a
// failed reply.
func (d *Dispatch) Run(ctx context.Context) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			reply = Reply{Err: fmt.Errorf("chat: send panicked: %v", r)}
		}
	}()
	resp, err := d.sender.SendMessage(ctx, d.Request)
	return Reply{Response: resp, Err: err}
}

// Send accepts text for delivery. Blank text and sends during an outstanding
// turn are rejected without touching the state. On acceptance the user
// message is appended immediately and the controller is Sending until
// Complete is called with the Dispatch's reply.
func (c *Controller) Send(text string) (*Dispatch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if c.state.Sending {
		return nil, ErrSendInFlight
	}

	req := api.ChatRequest{
		Message:        text,
		UserID:         c.userID,
		ConversationID: c.state.ContinuityToken,
	}
	c.state = c.withMessage(Message{Role: RoleUser, Text: text})
	c.state.Sending = true
	c.log.Debug("turn dispatched", "conversation", req.ConversationID, "chars", len(text))
	return &Dispatch{Request: req, sender: c.sender}, nil
}

// Complete records the reply of the outstanding turn and returns to idle.
// It is a no-op when nothing is outstanding.
func (c *Controller) Complete(reply Reply) {
	if !c.state.Sending {
		return
	}
	defer c.finish()

	if reply.Err != nil {
		c.log.Warn("turn failed", "err", reply.Err)
		c.state = c.withMessage(Message{
			Role:   RoleAssistant,
			Text:   FailureText(reply.Err),
			Failed: true,
		})
		return
	}

	if token := reply.Response.ConversationID; token != "" {
		c.state.ContinuityToken = token
	}
	c.state = c.withMessage(Message{
		Role:    RoleAssistant,
		Text:    ComposeReply(reply.Response),
		Actions: append([]string(nil), reply.Response.AgentActions...),
	})
}

// SendAndWait runs a whole turn synchronously.
func (c *Controller) SendAndWait(ctx context.Context, text string) (Message, error) {
	d, err := c.Send(text)
	if err != nil {
		return Message{}, err
	}
	c.Complete(d.Run(ctx))
	msgs := c.state.Messages
	return msgs[len(msgs)-1], nil
}

// Reset starts a new conversation, dropping history and continuity. It is
// refused while a turn is outstanding.
func (c *Controller) Reset() error {
	if c.state.Sending {
		return ErrSendInFlight
	}
	c.state = State{Revision: c.state.Revision + 1}
	return nil
}

func (c *Controller) finish() {
	c.state.Sending = false
}

// withMessage returns a copy of the state with m appended to a fresh slice.
func (c *Controller) withMessage(m Message) State {
	c.nextID++
	m.ID = "msg-" + strconv.Itoa(c.nextID)

	next := c.state
	msgs := make([]Message, len(c.state.Messages), len(c.state.Messages)+1)
	copy(msgs, c.state.Messages)
	next.Messages = append(msgs, m)
	next.Revision++
	return next
}

// ComposeReply renders a successful reply as displayed text: the reply, then
// a confirmation notice, suggestions and a problem notice when present.
func ComposeReply(resp api.ChatResponse) string {
	var parts []string
	if text := strings.TrimSpace(resp.Message); text != "" {
		parts = append(parts, text)
	}
	if resp.RequiresConfirmation {
		parts = append(parts, confirmationNotice)
	}
	if len(resp.Suggestions) > 0 {
		var b strings.Builder
		b.WriteString(suggestionsHeading)
		for _, s := range resp.Suggestions {
			b.WriteString("\n- ")
			b.WriteString(s)
		}
		parts = append(parts, b.String())
	}
	if !resp.Success {
		parts = append(parts, problemNotice)
	}
	return strings.Join(parts, "\n\n")
}

// FailureText renders err as an error-marked assistant message.
func FailureText(err error) string {
	reason := strings.TrimSpace(api.Reason(err))
	if reason == "" {
		reason = "unknown error"
	}
	return ErrorMarker + reason
}
