package commands

import (
	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/runner/events"
)

func addEvents(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"month", "ls"},
		Short:   "Show a month of calendar events.",
		Example: `
myassist events
myassist events --month 2025-3
myassist events --month +1 --json
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, done, err := openService(cmd, false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			month, err := mo.GetMonth(svc.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			e := events.Events{
				Service: svc,
				Month:   month,
				ShowID:  ido.ShowID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
				ErrOut:  cmd.ErrOrStderr(),
			}
			return oo.HandleError(e.Do(contextOf(cmd)))
		},
	}

	options.AddMonthArgs(cmd, mo)
	options.AddShowIDArgs(cmd, ido)
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("month", monthCompletions)

	topLevel.AddCommand(cmd)
}
