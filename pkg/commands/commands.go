package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
	co = &options.ConfigOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "myassist",
		Short: base.Wrap80("A personal scheduling assistant: your calendar and an assistant chat in the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
	}

	options.AddConfigArgs(cmd, co)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addEvents(topLevel)
	addChat(topLevel)
	addAuth(topLevel)
	addInfo(topLevel)
	addConfig(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
