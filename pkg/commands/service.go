package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/printers"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/store"
)

// openService loads the config named by the global flags and opens the
// service. The TUI owns the terminal, so it logs to the configured file;
// every other command logs to stderr.
func openService(cmd *cobra.Command, toFile bool) (*app.Service, func(), error) {
	cfg, err := store.LoadConfig(co.Path)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if co.LogLevel != "" {
		level = co.LogLevel
	}

	lc := logging.Config{Level: level, Output: cmd.ErrOrStderr()}
	closer := func() {}
	if toFile {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		lc.Output = f
		closer = func() { _ = f.Close() }
	} else {
		printers.DisableColorUnlessTTY(os.Stdout)
	}

	svc, err := app.Open(cfg, logging.New(lc))
	if err != nil {
		closer()
		return nil, nil, err
	}
	svc.Log.Debug("config loaded", "source", cfg.Source, "api_url", cfg.APIURL)
	return svc, closer, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
