package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Interaction types the backend records for each side of a turn.
const (
	InteractionUser      = "user_request"
	InteractionAssistant = "agent_response"
)

// HistoryMessage is one stored turn half.
type HistoryMessage struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// History is a stored conversation, oldest message first.
type History struct {
	ConversationID string
	Messages       []HistoryMessage
}

type historyResponse struct {
	ConversationID string            `json:"conversation_id"`
	Messages       *[]HistoryMessage `json:"messages"`
}

// ConversationHistory fetches up to limit stored messages of a conversation.
// A body without a messages field is malformed.
func (c *Client) ConversationHistory(ctx context.Context, conversationID, userID string, limit int) (History, error) {
	const op = "conversation history"
	q := url.Values{}
	q.Set("user_id", userID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp historyResponse
	target := c.endpoint(historyPath+conversationID, q)
	if err := c.do(ctx, op, http.MethodGet, target, nil, &resp); err != nil {
		return History{}, err
	}
	if resp.Messages == nil {
		return History{}, &MalformedResponseError{Op: op, Reason: `missing "messages"`}
	}

	h := History{ConversationID: resp.ConversationID}
	if h.ConversationID == "" {
		h.ConversationID = conversationID
	}
	for _, m := range *resp.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		h.Messages = append(h.Messages, m)
	}
	return h, nil
}
