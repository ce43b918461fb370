package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewCmdSimilar creates the similar command.
func NewCmdSimilar(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "similar <username>",
		Short: "Find developers similar to a user",
		Long: `Discover related accounts through shared primary language, shared
repository topics and the follower graph. Each candidate is annotated
with the reason it was surfaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			users, outcomes, err := rt.agg.SimilarUsers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnDegraded(outcomes)

			return rt.formatter.FormatSimilarUsers(users, os.Stdout)
		},
	}
}
