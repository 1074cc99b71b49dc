package lsp

import (
	"github.com/spf13/afero"
	glspserver "github.com/tliron/glsp/server"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// ServeStdio runs the language server on stdin and stdout until the client
// disconnects.
func ServeStdio(fs afero.Fs, importBase string, debug bool) error {
	h := NewHandler(fs, importBase)
	server := glspserver.NewServer(h.Protocol(), "idlc", debug)

	logger.Infow("Serving LSP over stdio")
	if err := server.RunStdio(); err != nil {
		return errors.Wrap(err, "language server stopped")
	}
	return nil
}
