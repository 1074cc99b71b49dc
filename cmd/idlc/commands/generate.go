package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/logger"
)

var genFlags generateFlags

// GenerateCmd compiles one IDL file
var GenerateCmd = &cobra.Command{
	Use:   "generate <file.idl> [import-base]",
	Short: "Generate binding sources for an IDL file",
	Long: `Parse an IDL file with its imports and render the requested units.

Without -H or -I both units are generated. Units without an output path are
written to stdout, header first. Nothing is written unless every requested
unit renders.

Examples:
  idlc generate Widget.idl -H --header-out gen/WidgetWrapper.h
  idlc generate Widget.idl idl/ -n UI -i idl/
  idlc generate Widget.idl --impl-template custom.tmpl -I`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

func init() {
	genFlags.register(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := genFlags.apply(cmd, base)

	importBase := cfg.Generate.ImportBase
	if len(args) > 1 {
		importBase = args[1]
	}

	c, err := newCompiler(cmd, cfg)
	if err != nil {
		return err
	}
	job, err := compile.NewJob(args[0], importBase, genFlags.outputs()...)
	if err != nil {
		return err
	}
	if err := c.Run(cmd.Context(), job); err != nil {
		return err
	}

	if logger.ShouldOutput(Verbosity, logger.OutputProgress) {
		for _, path := range job.Written {
			if path != compile.Stdout {
				logger.Infow("Wrote", logger.FieldOutput, path)
			}
		}
	}
	return nil
}
