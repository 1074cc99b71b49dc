package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/parser"
)

var (
	dumpFormat     string
	dumpImportBase string
)

// DumpCmd prints the resolved declarations of an IDL file
var DumpCmd = &cobra.Command{
	Use:   "dump <file.idl>",
	Short: "Print the resolved declarations of an IDL file",
	Long: `Parse an IDL file, merge its imports and mixins, and print what the
generator sees: members, special operations, dictionaries, enums and imports.

Examples:
  idlc dump Widget.idl
  idlc dump Widget.idl --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	DumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "yaml", "Output format: yaml, json")
	DumpCmd.Flags().StringVar(&dumpImportBase, "import-base", "", "Fallback directory for imports")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	importBase := cfg.Generate.ImportBase
	if dumpImportBase != "" {
		importBase = dumpImportBase
	}

	iface, err := parser.ParseFile(args[0], parser.WithImportBase(importBase))
	if err != nil {
		return err
	}
	summary := ast.Summarize(iface)

	var data []byte
	switch dumpFormat {
	case "yaml":
		data, err = yaml.Marshal(summary)
	case "json":
		data, err = json.MarshalIndent(summary, "", "  ")
		data = append(data, '\n')
	default:
		return errors.Newf("unsupported format: %s (supported: yaml, json)", dumpFormat)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", dumpFormat)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
