package commands

import (
	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where session state is stored.",
		Example: `
myassist info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, done, err := openService(cmd, false)
			if err != nil {
				return err
			}
			defer done()
			s := info.Info{Service: svc, Out: cmd.OutOrStdout()}
			return s.Do(contextOf(cmd))
		},
	}

	topLevel.AddCommand(cmd)
}
