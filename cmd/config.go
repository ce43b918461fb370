package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hal/ghfolio/config"
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init   Create a minimal config file
  path   Show config file locations
  show   Show current merged config (same as bare 'ghfolio config')
  set    Set a configuration value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigShow())
	cmd.AddCommand(NewCmdConfigSet())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

By default the file is created at ~/.config/ghfolio/config.yaml.
Use --local to create ./.ghfolio.yaml for this directory only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create local config file (./.ghfolio.yaml)")

	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println("Configuration file locations:")
			fmt.Println()
			fmt.Printf("  Global: %s (%s)\n", config.ConfigPath(), existsStatus(config.ConfigPath()))
			fmt.Printf("  Local:  %s (%s)\n", config.LocalConfigPath(), existsStatus(config.LocalConfigPath()))
			fmt.Println()
			fmt.Println("Load order: defaults -> global -> local (local overrides global)")
			return nil
		},
	}
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigSet creates the config set subcommand.
func NewCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the global config file. Available keys:
  format              Default output format (table, json, markdown)
  serve_addr          Listen address for the serve command
  quota_poll_interval Refresh interval for the quota indicator ("90s", "2m")`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func runConfigShow(outputFormat string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	out, err := cfg.ToYAML()
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runConfigInit(local bool) error {
	targetPath := config.ConfigPath()
	if local {
		targetPath = config.LocalConfigPath()
	}

	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'ghfolio config show' to view current config", targetPath)
	}

	if dir := filepath.Dir(targetPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(targetPath, []byte(config.MinimalConfig()), 0o644); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	fmt.Printf("Created config file: %s\n", targetPath)
	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "format":
		if err := cfg.SetDefaultFormat(value); err != nil {
			return err
		}
	case "serve_addr":
		cfg.ServeAddr = value
	case "quota_poll_interval":
		cfg.QuotaPollInterval = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func existsStatus(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "exists"
	}
	return "not found"
}
