package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// ChatRequest is one user turn.
type ChatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the agent's reply to one turn.
type ChatResponse struct {
	Message              string
	Success              bool
	ConversationID       string
	Suggestions          []string
	RequiresConfirmation bool
	AgentActions         []string
	Timestamp            string
}

type chatResponse struct {
	Message              *string  `json:"message"`
	Success              *bool    `json:"success"`
	ConversationID       *string  `json:"conversation_id"`
	Suggestions          []string `json:"suggestions"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	AgentActions         []string `json:"agent_actions"`
	Timestamp            string   `json:"timestamp"`
}

// SendMessage posts a chat turn. A reply without a message field is
// malformed; a missing success flag is read as success.
func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	const op = "send message"
	body, err := json.Marshal(req)
	if err != nil {
		return ChatResponse{}, &TransportError{Op: op, Err: err}
	}

	var resp chatResponse
	if err := c.do(ctx, op, http.MethodPost, c.endpoint(chatPath, nil), bytes.NewReader(body), &resp); err != nil {
		return ChatResponse{}, err
	}
	if resp.Message == nil {
		return ChatResponse{}, &MalformedResponseError{Op: op, Reason: `missing "message"`}
	}

	out := ChatResponse{
		Message:              *resp.Message,
		Success:              resp.Success == nil || *resp.Success,
		Suggestions:          nonEmpty(resp.Suggestions),
		RequiresConfirmation: resp.RequiresConfirmation,
		AgentActions:         nonEmpty(resp.AgentActions),
		Timestamp:            resp.Timestamp,
	}
	if resp.ConversationID != nil {
		out.ConversationID = strings.TrimSpace(*resp.ConversationID)
	}
	return out, nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
