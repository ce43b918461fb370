package cmd

import (
	"context"
	"fmt"

	"github.com/hal/ghfolio/internal/quota"
	"github.com/hal/ghfolio/internal/tui"
	"github.com/spf13/cobra"
)

// NewCmdBrowse creates the browse command.
func NewCmdBrowse(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [username]",
		Short: "Browse a portfolio interactively",
		Long: `Open an interactive terminal browser over a developer's portfolio:
profile, repository list and per-project detail, with a live API quota
indicator. Without a username an input prompt opens first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.ShouldUseTUI() {
				return fmt.Errorf("browse needs an interactive terminal; use the profile or projects commands instead")
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			username := ""
			if len(args) == 1 {
				username = args[0]
			}

			// One monitor owns the rate-limit polling; the browser's
			// footer ticks only read its cache. Polling stops with the
			// command context when the browser exits.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			monitor := quota.NewMonitor(rt.client, rt.cfg.PollInterval())
			go monitor.Run(ctx)

			fetchQuota := func(context.Context) (quota.Status, error) {
				return monitor.Status(), nil
			}

			return tui.Run(rt.agg, username, fetchQuota, rt.cfg.PollInterval())
		},
	}
}
