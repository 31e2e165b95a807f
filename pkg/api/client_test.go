package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestEventsSendsRangeAndBearer(t *testing.T) {
	var gotQuery, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, eventsPath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"count":2,"start":"2025-10-26T00:00:00Z","end":"2025-12-07T00:00:00Z","events":[
			{"id":"a","title":"Standup","start_time":"2025-11-03T09:00:00Z","end_time":"2025-11-03T09:15:00Z","attendees":["x@example.com"]},
			{"id":null,"title":"Lunch","start_time":"2025-11-03T12:00:00+00:00","location":"Cafe"}
		]}`)
	}, WithIdentity(identity.Static("tok")))

	loc := time.FixedZone("UTC-7", -7*3600)
	start := time.Date(2025, time.October, 26, 0, 0, 0, 0, loc)
	end := time.Date(2025, time.December, 7, 0, 0, 0, 0, loc)
	res, err := c.Events(context.Background(), start, end)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "start=2025-10-26T07%3A00%3A00Z")
	assert.Contains(t, gotQuery, "end=2025-12-07T07%3A00%3A00Z")
	assert.Equal(t, "Bearer tok", gotAuth)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "a", res.Records[0].ID)
	assert.Equal(t, []string{"x@example.com"}, res.Records[0].Attendees)
	assert.Equal(t, "", res.Records[1].ID)
	assert.Equal(t, "Cafe", res.Records[1].Location)
	assert.Equal(t, 2, res.Count)
}

func TestEventsWithoutSessionOmitsAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"count":0,"events":[]}`)
	})
	res, err := c.Events(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestEventsMissingEventsFieldIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"count":0}`)
	})
	_, err := c.Events(context.Background(), time.Now(), time.Now().Add(time.Hour))
	var me *MalformedResponseError
	require.True(t, errors.As(err, &me), "got %T: %v", err, err)
	assert.Contains(t, Reason(err), "events")
}

func TestEventsUnauthorizedIsAuthRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Google Calendar is not authenticated"}`)
	})
	_, err := c.Events(context.Background(), time.Now(), time.Now().Add(time.Hour))
	var ae *AuthRequiredError
	require.True(t, errors.As(err, &ae), "got %T: %v", err, err)
	assert.Equal(t, "Google Calendar is not authenticated", ae.Detail)
	assert.True(t, strings.HasSuffix(ae.LoginURL, loginPath))
	assert.True(t, IsAuthRequired(err))
}

func TestTransportErrorOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.Events(context.Background(), time.Now(), time.Now().Add(time.Hour))
	var te *TransportError
	require.True(t, errors.As(err, &te), "got %T: %v", err, err)
	assert.NotEmpty(t, Reason(err))
}

func TestCancelledContextIsTransportError(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Events(ctx, time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, "request cancelled", Reason(err))
}

func TestSendMessageRoundTrip(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, chatPath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"Done","success":true,"conversation_id":"abc123","suggestions":["Add a reminder",""],"agent_actions":["create_event"]}`)
	})

	resp, err := c.SendMessage(context.Background(), ChatRequest{Message: "Schedule lunch", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Schedule lunch", got.Message)
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.ConversationID)
	assert.Equal(t, "Done", resp.Message)
	assert.True(t, resp.Success)
	assert.Equal(t, "abc123", resp.ConversationID)
	assert.Equal(t, []string{"Add a reminder"}, resp.Suggestions)
	assert.Equal(t, []string{"create_event"}, resp.AgentActions)
}

func TestSendMessageOmitsEmptyConversationID(t *testing.T) {
	var raw map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	resp, err := c.SendMessage(context.Background(), ChatRequest{Message: "hi", UserID: "u1"})
	require.NoError(t, err)
	_, present := raw["conversation_id"]
	assert.False(t, present)
	assert.True(t, resp.Success, "absent success flag should read as success")
	assert.Empty(t, resp.ConversationID)
}

func TestSendMessageServerErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.SendMessage(context.Background(), ChatRequest{Message: "hi", UserID: "u1"})
	var he *HTTPError
	require.True(t, errors.As(err, &he), "got %T: %v", err, err)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Equal(t, "request failed: 500 Internal Server Error", Reason(err))
}

func TestSendMessageMissingMessageIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"conversation_id":"x"}`)
	})
	_, err := c.SendMessage(context.Background(), ChatRequest{Message: "hi", UserID: "u1"})
	var me *MalformedResponseError
	require.True(t, errors.As(err, &me), "got %T: %v", err, err)
}

func TestErrorDetailVariants(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail":"bad range"}`, "bad range"},
		{`{"message":"agent offline"}`, "agent offline"},
		{`{"detail":[{"loc":["query","start"]}]}`, `[{"loc":["query","start"]}]`},
		{`plain text failure`, "plain text failure"},
		{`<html><body>502 Bad Gateway</body></html>`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, errorDetail(strings.NewReader(tc.body)), "body %q", tc.body)
	}
}

func TestAuthStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, authStatusPath, r.URL.Path)
		_, _ = io.WriteString(w, `{"authenticated":false,"message":"Calendar client not initialized"}`)
	})
	status, err := c.AuthStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
	assert.Equal(t, "Calendar client not initialized", status.Message)
	assert.Equal(t, c.LoginURL(), status.LoginURL)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}
