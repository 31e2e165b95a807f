package ui

import (
	"context"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	tuiapp "github.com/Galaxyraider20/personal-smart-assistant/pkg/tui/app"
)

// UI launches the interactive month view and chat pane.
type UI struct {
	Service *app.Service
}

func (d *UI) Do(ctx context.Context) error {
	return tuiapp.Run(ctx, d.Service)
}
