package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewCmdProjects creates the projects command.
func NewCmdProjects(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects <username>",
		Short: "List a developer's repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			repos, err := rt.client.ListRepos(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return rt.formatter.FormatRepos(repos, os.Stdout)
		},
	}
}
