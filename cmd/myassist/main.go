package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.New().ExecuteContext(ctx)
	if err == nil {
		return
	}
	var reported options.ErrReported
	if errors.As(err, &reported) {
		stop()
		os.Exit(1)
	}
	log.Fatalf("error during command execution: %v", err)
}
