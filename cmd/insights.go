package cmd

import (
	"os"
	"time"

	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/log"
	"github.com/spf13/cobra"
)

// NewCmdInsights creates the insights command.
func NewCmdInsights(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "insights <username>",
		Short: "Generate narrative insights about a developer",
		Long: `Derive observations about a developer's languages, activity level,
project impact and account maturity from their public profile and
repository list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			user, err := rt.client.User(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			repos, err := rt.client.ListRepos(cmd.Context(), args[0])
			if err != nil {
				log.Warn("repository list failed, insights cover the profile only", "error", err)
				repos = nil
			}

			insights := insight.Generate(user, repos, time.Now())
			return rt.formatter.FormatInsights(insights, os.Stdout)
		},
	}
}
