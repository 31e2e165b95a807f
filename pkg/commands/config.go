package commands

import (
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/store"
)

const maskedSecret = "********"

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addConfigInit(cmd)
	addConfigView(cmd)
	topLevel.AddCommand(cmd)
}

func addConfigInit(parent *cobra.Command) {
	force := false
	seed := store.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults.",
		Example: `
myassist config init
myassist config init --api-url https://assistant.example.com --week-start monday
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			path := co.Path
			if path == "" {
				p, err := store.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			expanded, err := homedir.Expand(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(expanded); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", expanded)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := store.Save(expanded, seed); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", expanded)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file.")
	cmd.Flags().StringVar(&seed.APIURL, "api-url", seed.APIURL, "Base URL of the assistant backend.")
	cmd.Flags().StringVar(&seed.WeekStart, "week-start", seed.WeekStart, "First day of the calendar week: sunday or monday.")
	cmd.Flags().StringVar(&seed.Timezone, "timezone", "", "IANA time zone for the calendar, default is the local zone.")
	cmd.Flags().StringVar(&seed.UserID, "user-id", "", "Stable user id, generated on first use when empty.")
	parent.AddCommand(cmd)
}

func addConfigView(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration with secrets masked.",
		Example: `
myassist config view
MYASSIST_WEEK_START=monday myassist config view
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(co.Path)
			if err != nil {
				return err
			}
			if cfg.Token != "" {
				cfg.Token = maskedSecret
			}
			b, err := cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Source != "" {
				_, _ = fmt.Fprintf(out, "# %s\n", cfg.Source)
			} else {
				_, _ = fmt.Fprintln(out, "# no config file found, showing defaults")
			}
			_, err = out.Write(b)
			return err
		},
	}

	parent.AddCommand(cmd)
}
