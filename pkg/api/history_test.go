package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, historyPath+"conv 1", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"conversation_id":"conv 1","user_id":"u1","messages":[
			{"type":"user_request","content":"Lunch tomorrow?","timestamp":"2025-11-03T09:00:00"},
			{"type":"agent_response","content":"","timestamp":"2025-11-03T09:00:01"},
			{"type":"agent_response","content":"Booked for noon.","timestamp":"2025-11-03T09:00:02"}]}`)
	})

	h, err := c.ConversationHistory(context.Background(), "conv 1", "u1", 50)
	require.NoError(t, err)
	assert.Equal(t, "conv 1", h.ConversationID)
	require.Len(t, h.Messages, 2, "blank entries are skipped")
	assert.Equal(t, InteractionUser, h.Messages[0].Type)
	assert.Equal(t, "Booked for noon.", h.Messages[1].Content)
}

func TestConversationHistoryMissingMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"conversation_id":"c"}`)
	})
	_, err := c.ConversationHistory(context.Background(), "c", "u1", 0)
	var me *MalformedResponseError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestConversationHistoryServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.ConversationHistory(context.Background(), "c", "u1", 0)
	var he *HTTPError
	require.True(t, errors.As(err, &he), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
}
