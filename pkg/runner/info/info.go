// Package info prints where the client reads its configuration and keeps its
// session.
package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/store"
)

type Info struct {
	Service *app.Service

	Out io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("info: no service configured")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	cfg := n.Service.Config
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintf(out, "%s found on env, using %s\n", store.ConfigPathEnv, override)
	} else {
		_, _ = faint.Fprintf(out, "%s env var not set\n", store.ConfigPathEnv)
	}

	source := cfg.Source
	if source == "" {
		source = "(defaults, no config file found)"
	}
	userID, err := n.Service.UserID()
	if err != nil {
		userID = "unavailable: " + err.Error()
	}
	conversation := "none"
	if n.Service.Session != nil {
		if c := n.Service.Session.Conversation(); c != "" {
			conversation = c
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config"), source)
	tbl.AddRow(bold.Sprint("Backend"), n.Service.Client.BaseURL())
	tbl.AddRow(bold.Sprint("Credential"), credential(ctx, n.Service.Identity))
	tbl.AddRow(bold.Sprint("User"), userID)
	tbl.AddRow(bold.Sprint("Conversation"), conversation)
	tbl.AddRow(bold.Sprint("Week start"), n.Service.WeekStart().String())
	tbl.AddRow(bold.Sprint("Time zone"), n.Service.Location().String())
	if n.Service.Session != nil {
		tbl.AddRow(bold.Sprint("Session"), n.Service.Session.BasePath())
	}
	tbl.AddRow(bold.Sprint("Log file"), cfg.LogFile)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

func credential(ctx context.Context, p identity.Provider) string {
	source := "inline token"
	if f, ok := p.(*identity.File); ok {
		source = "token file " + f.Path()
	}
	if _, err := p.Token(ctx); err != nil {
		if errors.Is(err, identity.ErrNoSession) {
			return "none (requests are anonymous)"
		}
		return source + " (unreadable: " + err.Error() + ")"
	}
	return source
}
