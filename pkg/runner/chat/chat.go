// Package chat runs one chat turn from the CLI.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/printers"
)

// Chat sends Message and prints the reply. The conversation continues
// across invocations unless New is set.
type Chat struct {
	Service *app.Service
	Message string
	New     bool
	JSON    bool
	Width   int

	Out io.Writer
}

// ErrTurnFailed is returned after a failed turn has been printed, so the
// process exits non-zero.
var ErrTurnFailed = errors.New("chat: turn failed")

type jsonReply struct {
	Reply          string   `json:"reply"`
	Failed         bool     `json:"failed"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Actions        []string `json:"agent_actions,omitempty"`
}

func (c *Chat) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("chat: no service configured")
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}

	if c.New {
		if err := c.Service.ForgetConversation(); err != nil {
			return err
		}
	}
	ctl, err := c.Service.NewChat(!c.New)
	if err != nil {
		return err
	}

	reply, err := ctl.SendAndWait(ctx, c.Message)
	if err != nil {
		return err
	}
	if err := c.Service.RememberConversation(ctl.State()); err != nil {
		c.Service.Log.Warn("could not persist conversation", "err", err)
	}

	if c.JSON {
		return json.NewEncoder(out).Encode(jsonReply{
			Reply:          reply.Text,
			Failed:         reply.Failed,
			ConversationID: ctl.State().ContinuityToken,
			Actions:        reply.Actions,
		})
	}

	pp := printers.PrettyPrint{Out: out, Width: c.Width}
	pp.Message(reply)
	if reply.Failed {
		return ErrTurnFailed
	}
	return nil
}
