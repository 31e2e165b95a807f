package commands

import (
	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/runner/auth"
)

func addAuth(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Check whether your calendar account is connected.",
		Example: `
myassist auth
myassist auth --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, done, err := openService(cmd, false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()
			a := auth.Auth{Service: svc, JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(a.Do(contextOf(cmd)))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
