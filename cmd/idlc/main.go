package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/cmd/idlc/commands"
	"github.com/teranos/idlc/config"
	"github.com/teranos/idlc/logger"
)

var rootCmd = &cobra.Command{
	Use:   "idlc",
	Short: "idlc - IDL to scripting-engine bindings compiler",
	Long: `idlc - compile IDL interface definitions into C++ binding sources.

An IDL file declares one interface together with its dictionaries, enums and
mixins, and may import other IDL files. idlc resolves the imports, splices
included mixins and renders a header and an implementation unit from
templates.

Available commands:
  generate - Generate binding sources for one IDL file
  batch    - Generate bindings for many IDL files concurrently
  check    - Check IDL files for errors
  dump     - Print the resolved declarations of an IDL file
  watch    - Regenerate on change
  lsp      - Run the language server on stdio
  config   - Manage idlc configuration
  version  - Show version information

Examples:
  idlc generate Widget.idl -H --header-out WidgetWrapper.h
  idlc batch idl/*.idl --out-dir gen
  idlc check idl/*.idl`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Root().PersistentFlags()
		verbosity, _ := flags.GetCount("verbose")
		jsonLog, _ := flags.GetBool("json-log")
		configPath, _ := flags.GetString("config")
		noColor, _ := flags.GetBool("no-color")

		if noColor || os.Getenv("NO_COLOR") != "" {
			pterm.DisableColor()
		}

		config.SetConfigFile(configPath)
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		verbosity = max(verbosity, cfg.Log.Verbosity)
		commands.Verbosity = verbosity
		logger.SetTheme(cfg.Log.Theme)
		if err := logger.Initialize(jsonLog || cfg.Log.JSON, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			var categories []string
			for _, cat := range logger.EnabledCategories(verbosity) {
				categories = append(categories, logger.CategoryName(cat))
			}
			logger.Debugw("Configuration loaded",
				logger.FieldCount, len(config.Files()),
				"files", config.Files(),
				"verbosity", logger.LevelName(verbosity),
				"output", categories)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: idlc.toml searched upward, then ~/.idlc/idlc.toml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DumpCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
