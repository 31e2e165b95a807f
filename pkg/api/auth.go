package api

import (
	"context"
	"net/http"
)

// AuthStatus reports whether the backend has a linked calendar account.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
	LoginURL      string `json:"login_url"`
}

// AuthStatus queries the backend's auth state.
func (c *Client) AuthStatus(ctx context.Context) (AuthStatus, error) {
	var status AuthStatus
	if err := c.do(ctx, "auth status", http.MethodGet, c.endpoint(authStatusPath, nil), nil, &status); err != nil {
		return AuthStatus{}, err
	}
	status.LoginURL = c.LoginURL()
	return status, nil
}
