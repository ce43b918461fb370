package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewCmdActivity creates the activity command.
func NewCmdActivity(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <username>",
		Short: "Show a developer's recent commit activity",
		Long: `Probe the developer's most recently pushed repositories for owner
commit participation. When no participation data exists the series falls
back to monthly push counts across all repositories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			series, outcomes, err := rt.agg.Activity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnDegraded(outcomes)

			return rt.formatter.FormatActivity(series, os.Stdout)
		},
	}
}
