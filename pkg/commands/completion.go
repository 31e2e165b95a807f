package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(myassist completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(myassist completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(cmd.OutOrStdout())
		},
	}

	topLevel.AddCommand(cmd)
}

// monthCompletions offers the coming months in the configured time zone.
func monthCompletions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	loc := time.Local
	if cfg, err := store.LoadConfig(co.Path); err == nil {
		loc = cfg.Location()
	}
	return options.MonthCompletions(time.Now().In(loc), toComplete), cobra.ShellCompDirectiveNoFileComp
}
