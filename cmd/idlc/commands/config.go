package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/config"
	"github.com/teranos/idlc/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage idlc configuration",
	Long: `Display and manage idlc configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.idlc/idlc.toml)
3. Project config (idlc.toml, searched upward from the working directory)
4. Environment variables (IDLC_* prefix, e.g. IDLC_GENERATE_NAMESPACE)
5. Command line flags

Examples:
  idlc config show                 # Show current configuration
  idlc config show --format json   # Show configuration as JSON
  idlc config init                 # Write a default idlc.toml
  idlc config validate             # Validate current configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default idlc.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	data, err := config.Marshal(cfg, configFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if configFormat != "json" {
		fmt.Fprintln(out, "# idlc configuration")
		for _, f := range config.Files() {
			fmt.Fprintf(out, "# loaded from %s\n", f)
		}
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteDefault(path, configForce); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Wrote %s", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}
