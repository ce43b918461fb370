package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewCmdProject creates the project command.
func NewCmdProject(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "project <owner>/<repo>",
		Short: "Show one repository's project page",
		Long: `Fetch a repository's metadata, readme or portfolio document,
contributors and language breakdown. Accepts either "owner/repo" as one
argument or owner and repo as two.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArgs(args)
			if err != nil {
				return err
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			detail, outcomes, err := rt.agg.ProjectDetail(cmd.Context(), owner, repo)
			if err != nil {
				return err
			}
			warnDegraded(outcomes)

			return rt.formatter.FormatProjectDetail(detail, os.Stdout)
		},
	}
}

func splitRepoArgs(args []string) (owner, repo string, err error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("expected owner/repo, got %q", args[0])
	}
	return owner, repo, nil
}
