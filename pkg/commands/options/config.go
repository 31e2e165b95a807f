package options

import (
	"github.com/spf13/cobra"
)

// ConfigOptions locate the config file and override its log level.
type ConfigOptions struct {
	Path     string
	LogLevel string
}

func AddConfigArgs(cmd *cobra.Command, o *ConfigOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "config", "",
		"Path to the config file (default $HOME/.myassist.yaml).")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Override the configured log level: debug, info, warn or error.")
}

// ChatOptions
type ChatOptions struct {
	New   bool
	Width int
}

func AddChatArgs(cmd *cobra.Command, o *ChatOptions) {
	cmd.Flags().BoolVar(&o.New, "new", false,
		"Start a new conversation instead of continuing the saved one.")
	cmd.Flags().IntVar(&o.Width, "width", 80,
		"Wrap replies at this width.")
}
