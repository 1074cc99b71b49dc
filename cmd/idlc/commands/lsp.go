package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/lsp"
)

var (
	lspImportBase string
	lspDebug      bool
)

// LspCmd runs the language server
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the IDL language server on stdio",
	Long: `Speak the Language Server Protocol on stdin/stdout. Open .idl documents
are parsed on every change and their diagnostic is published to the editor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		importBase := cfg.Generate.ImportBase
		if lspImportBase != "" {
			importBase = lspImportBase
		}
		return lsp.ServeStdio(afero.NewOsFs(), importBase, lspDebug)
	},
}

func init() {
	LspCmd.Flags().StringVar(&lspImportBase, "import-base", "", "Fallback directory for imports")
	LspCmd.Flags().BoolVar(&lspDebug, "debug", false, "Log protocol traffic")
}
