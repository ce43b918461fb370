package cmd

import (
	"os"

	"github.com/hal/ghfolio/internal/quota"
	"github.com/spf13/cobra"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "ratelimit",
		Aliases: []string{"rate-limit", "quota"},
		Short:   "Check GitHub API rate limit status",
		Long: `Display the remaining GitHub API quota for the core, search and
graphql resources, annotated with which credential was used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			status, err := quota.Fetch(cmd.Context(), rt.client)
			if err != nil {
				return err
			}

			return rt.formatter.FormatQuota(status, os.Stdout)
		},
	}
}
