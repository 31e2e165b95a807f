// Package api is the HTTP client for the assistant backend: calendar range
// queries, chat turns and auth status. Failures are classified into
// TransportError, HTTPError, AuthRequiredError and MalformedResponseError.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
)

const (
	eventsPath     = "/api/calendar/events"
	chatPath       = "/api/chat/message"
	historyPath    = "/api/chat/conversations/"
	authStatusPath = "/auth/status"
	loginPath      = "/auth/google/login"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 * 1024
)

// Client talks to the assistant backend.
type Client struct {
	base     *url.URL
	http     *http.Client
	identity identity.Provider
	log      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithIdentity sets the bearer credential provider.
func WithIdentity(p identity.Provider) Option {
	return func(c *Client) {
		if p != nil {
			c.identity = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = logging.Component(l, "api")
	}
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must be http or https", baseURL)
	}
	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: defaultTimeout},
		identity: identity.None(),
		log:      logging.Component(nil, "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// LoginURL is where the user links their calendar account.
func (c *Client) LoginURL() string { return c.endpoint(loginPath, nil) }

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends the request and decodes a 2xx JSON body into out. Non-2xx
// responses become HTTPError or AuthRequiredError.
func (c *Client) do(ctx context.Context, op, method, target string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tok, err := c.identity.Token(ctx)
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+tok)
	case errors.Is(err, identity.ErrNoSession):
		// Anonymous request.
	default:
		return &TransportError{Op: op, Err: fmt.Errorf("credential: %w", err)}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.log.Debug("request failed", "op", op, "err", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("request done", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorDetail(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized {
			if detail == "" {
				detail = "not authenticated"
			}
			return &AuthRequiredError{Op: op, Detail: detail, LoginURL: c.LoginURL()}
		}
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Detail: detail}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &TransportError{Op: op, Err: ctxErr}
		}
		return &MalformedResponseError{Op: op, Reason: "invalid JSON body", Err: err}
	}
	return nil
}

// errorDetail pulls {detail|message} out of an error body. Bodies that are
// not JSON yield their trimmed text.
func errorDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		text := strings.TrimSpace(string(b))
		if strings.HasPrefix(text, "<") {
			// HTML error pages are noise.
			return ""
		}
		return text
	}
	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return strings.TrimSpace(s)
		}
		// Validation errors arrive as structured detail.
		return strings.TrimSpace(string(payload.Detail))
	}
	return strings.TrimSpace(payload.Message)
}
