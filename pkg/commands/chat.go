package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/commands/options"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/runner/chat"
)

func addChat(topLevel *cobra.Command) {
	ch := &options.ChatOptions{}

	cmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Send one message to the assistant and print its reply.",
		Long: base.Wrap80(`The conversation is continued across invocations until --new is given.
Calendar changes the assistant makes show up in "myassist events" and the TUI.`),
		Example: `
myassist chat what do I have on friday
myassist chat --new "book 30 minutes with Sam tomorrow afternoon"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			oo.Out = cmd.OutOrStdout()
			svc, done, err := openService(cmd, false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			c := chat.Chat{
				Service: svc,
				Message: strings.Join(args, " "),
				New:     ch.New,
				JSON:    oo.JSON,
				Width:   ch.Width,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(c.Do(contextOf(cmd)))
		},
	}

	options.AddChatArgs(cmd, ch)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
