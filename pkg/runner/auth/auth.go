// Package auth reports the backend's calendar connection.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/printers"
)

// Auth prints whether the calendar account is linked.
type Auth struct {
	Service *app.Service
	JSON    bool

	Out io.Writer
}

func (a *Auth) Do(ctx context.Context) error {
	if a.Service == nil {
		return errors.New("auth: no service configured")
	}
	out := a.Out
	if out == nil {
		out = color.Output
	}
	status, err := a.Service.AuthStatus(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		return json.NewEncoder(out).Encode(status)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Auth(status)
	return nil
}
