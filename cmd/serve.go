package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hal/ghfolio/config"
	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/server"
	"github.com/spf13/cobra"
)

// NewCmdServe creates the serve command.
func NewCmdServe(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio API over HTTP",
		Long: `Run a JSON HTTP API exposing the portfolio aggregations. Requests
may carry their own token (query parameter or Authorization header);
a token configured on the server always takes priority.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(opts.Verbosity, os.Stderr)

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if addr == "" {
				addr = cfg.ServeAddr
			}

			serverToken := opts.Token
			if serverToken == "" {
				serverToken = cfg.GetGitHubToken()
			}
			if serverToken == "" {
				log.Warn("no server token configured, anonymous requests run at the public rate limit")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(serverToken).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, \":8080\")")

	return cmd
}
