// Package cmd wires the ghfolio command tree.
package cmd

import (
	"os"

	"github.com/hal/ghfolio/config"
	"github.com/hal/ghfolio/internal/aggregate"
	"github.com/hal/ghfolio/internal/credential"
	"github.com/hal/ghfolio/internal/ghclient"
	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/output"
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "ghfolio",
		Short: "GitHub portfolio explorer",
		Long: `Aggregates a developer's public GitHub presence into a portfolio:
profile, featured projects, languages, activity, similar developers and
narrative insights.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format (table, json, markdown)")
	rootCmd.PersistentFlags().StringVar(&opts.Token, "token", "", "GitHub token used when GITHUB_TOKEN is not set")
	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(NewCmdProfile(opts))
	rootCmd.AddCommand(NewCmdProjects(opts))
	rootCmd.AddCommand(NewCmdProject(opts))
	rootCmd.AddCommand(NewCmdActivity(opts))
	rootCmd.AddCommand(NewCmdSimilar(opts))
	rootCmd.AddCommand(NewCmdInsights(opts))
	rootCmd.AddCommand(NewCmdRateLimit(opts))
	rootCmd.AddCommand(NewCmdBrowse(opts))
	rootCmd.AddCommand(NewCmdServe(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// runtime bundles everything a leaf command needs after setup.
type runtime struct {
	cfg       *config.Config
	client    *ghclient.Client
	agg       *aggregate.Aggregator
	formatter output.Formatter
}

// setup initializes logging, loads configuration, resolves the
// credential and builds the client stack shared by the leaf commands.
func setup(cmd *cobra.Command, opts *Options) (*runtime, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	format := output.Format(opts.Format)
	if opts.Format == "" {
		format = output.Format(cfg.DefaultFormat)
	}
	if !format.Valid() {
		format = output.FormatTable
	}

	cred := credential.Resolve(opts.Token, cfg.GetGitHubToken())
	if cred.Anonymous() {
		log.Info("no GitHub token configured, using anonymous rate limits")
	} else {
		log.Debug("credential resolved", "source", cred.Source())
	}

	client := ghclient.NewClient(cmd.Context(), cred)

	aggOpts := []aggregate.Option{}
	if cfg.FeaturedCount > 0 {
		aggOpts = append(aggOpts, aggregate.WithFeaturedCount(cfg.FeaturedCount))
	}

	return &runtime{
		cfg:       cfg,
		client:    client,
		agg:       aggregate.New(client, aggOpts...),
		formatter: output.NewFormatter(format),
	}, nil
}
