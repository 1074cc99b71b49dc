package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
	"github.com/teranos/idlc/parser"
)

var checkImportBase string

// CheckCmd parses IDL files without generating anything
var CheckCmd = &cobra.Command{
	Use:   "check <file.idl>...",
	Short: "Check IDL files for errors",
	Long: `Parse each file in its own session and report its first diagnostic.
Exits non-zero if any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVar(&checkImportBase, "import-base", "", "Fallback directory for imports")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	importBase := cfg.Generate.ImportBase
	if checkImportBase != "" {
		importBase = checkImportBase
	}

	failed := 0
	for _, input := range args {
		_, err := parser.ParseFile(input, parser.WithImportBase(importBase))
		if err != nil {
			ReportError(cmd.ErrOrStderr(), err)
			failed++
			continue
		}
		if logger.ShouldOutput(Verbosity, logger.OutputProgress) {
			pterm.Success.WithWriter(cmd.ErrOrStderr()).Println(input)
		}
	}
	if failed > 0 {
		return errors.Mark(errors.Newf("%d of %d files failed", failed, len(args)), ErrReported)
	}
	return nil
}
