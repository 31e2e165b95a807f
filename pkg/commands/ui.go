package commands

import (
	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
myassist ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, done, err := openService(cmd, true)
			if err != nil {
				return err
			}
			defer done()
			i := ui.UI{Service: svc}
			return i.Do(contextOf(cmd))
		},
	}

	topLevel.AddCommand(cmd)
}
