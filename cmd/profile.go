package cmd

import (
	"os"

	"github.com/hal/ghfolio/internal/aggregate"
	"github.com/hal/ghfolio/internal/log"
	"github.com/spf13/cobra"
)

// NewCmdProfile creates the profile command.
func NewCmdProfile(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a developer's portfolio profile",
		Long: `Fetch a developer's profile together with their featured projects
and skill list. Pinned repositories are preferred; when none are
available the top non-fork repositories by stars stand in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			profile, outcomes, err := rt.agg.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnDegraded(outcomes)

			return rt.formatter.FormatProfile(profile, os.Stdout)
		},
	}
}

// warnDegraded surfaces soft sub-fetch failures without failing the
// command.
func warnDegraded(outcomes []aggregate.Outcome) {
	for _, failed := range aggregate.Failures(outcomes) {
		log.Warn("partial result", "task", failed.Task, "error", failed.Err)
	}
}
