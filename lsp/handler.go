// Package lsp serves idlc diagnostics to editors over the Language Server
// Protocol.
package lsp

import (
	"container/list"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/idlc/logger"
	"github.com/teranos/idlc/parser"
	"github.com/teranos/idlc/utf16view"
	"github.com/teranos/idlc/version"
)

const (
	// maxDocuments bounds the open-document cache
	maxDocuments = 100

	diagnosticSource = "idlc"
)

type documentEntry struct {
	uri     string
	content string
}

// Handler parses open .idl documents and publishes the first diagnostic of
// each. Imports are read from fs relative to the document's path.
type Handler struct {
	fs         afero.Fs
	importBase string
	log        *zap.SugaredLogger

	documents map[string]*list.Element // URI to LRU element
	lruList   *list.List
	mu        sync.Mutex
}

func NewHandler(fs afero.Fs, importBase string) *Handler {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Handler{
		fs:         fs,
		importBase: importBase,
		log:        logger.ComponentLogger("lsp"),
		documents:  make(map[string]*list.Element),
		lruList:    list.New(),
	}
}

// Protocol returns the glsp handler table.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidSave:   h.TextDocumentDidSave,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Infow("LSP client initializing", "client", params.ClientInfo)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
			Save:      boolPtr(true),
		},
	}
	v := version.Get().Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "idlc",
			Version: &v,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Debugw("LSP client initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Infow("LSP client shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	h.store(uri, params.TextDocument.Text)
	h.publish(ctx, uri, params.TextDocument.Text)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.store(uri, whole.Text)
		}
	}
	if text, ok := h.Document(uri); ok {
		h.publish(ctx, uri, text)
	}
	return nil
}

// TextDocumentDidSave re-checks because an imported file may have changed.
func (h *Handler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	if params.Text != nil {
		h.store(uri, *params.Text)
	}
	if text, ok := h.Document(uri); ok {
		h.publish(ctx, uri, text)
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	h.mu.Lock()
	if elem, ok := h.documents[uri]; ok {
		h.lruList.Remove(elem)
		delete(h.documents, uri)
	}
	h.mu.Unlock()

	// Clear stale markers in the editor.
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// Document returns the cached text of uri.
func (h *Handler) Document(uri string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	elem, ok := h.documents[uri]
	if !ok {
		return "", false
	}
	return elem.Value.(*documentEntry).content, true
}

func (h *Handler) store(uri, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if elem, ok := h.documents[uri]; ok {
		h.lruList.MoveToFront(elem)
		elem.Value.(*documentEntry).content = content
		return
	}
	if len(h.documents) >= maxDocuments {
		if oldest := h.lruList.Back(); oldest != nil {
			evicted := oldest.Value.(*documentEntry)
			h.lruList.Remove(oldest)
			delete(h.documents, evicted.uri)
			h.log.Debugw("Document cache full, evicted oldest", "evicted_uri", evicted.uri)
		}
	}
	h.documents[uri] = h.lruList.PushFront(&documentEntry{uri: uri, content: content})
}

func (h *Handler) publish(ctx *glsp.Context, uri, text string) {
	if !IsIDL(uri) {
		return
	}
	diagnostics := h.Diagnose(uri, text)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diagnostics,
	})
}

// Diagnose parses text as the document at uri. The result is empty or holds
// the single diagnostic the compiler would report.
func (h *Handler) Diagnose(uri, text string) []protocol.Diagnostic {
	path := uriToPath(uri)
	session := parser.NewSession(
		parser.WithFs(h.fs),
		parser.WithImportBase(h.importBase),
		parser.WithLogger(h.log.Named("parser")),
	)
	if canonical, err := session.Canonicalize(path); err == nil {
		path = canonical
	}

	_, err := parser.New(session, path, text).Parse()
	if err == nil {
		return []protocol.Diagnostic{}
	}

	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	diag := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}

	d, ok := parser.AsDiagnostic(err)
	switch {
	case !ok:
		// Not tied to a position, e.g. an unreadable import.
	case d.Filename != path:
		diag.Message = "in imported file " + d.Filename + ": " + d.Error()
		code := protocol.IntegerOrString{Value: string(d.Kind)}
		diag.Code = &code
	default:
		start := protocol.Position{
			Line:      protocol.UInteger(d.Line - 1),
			Character: utf16Column(d.SourceLine, d.Column),
		}
		end := start
		if end.Character < utf16Column(d.SourceLine, len(d.SourceLine)+1) {
			end.Character++
		}
		diag.Range = protocol.Range{Start: start, End: end}
		diag.Message = d.Message
		code := protocol.IntegerOrString{Value: string(d.Kind)}
		diag.Code = &code
	}
	h.log.Debugw("Published diagnostic", "uri", uri, logger.FieldError, diag.Message)
	return []protocol.Diagnostic{diag}
}

// utf16Column converts a 1-based byte column on line into a 0-based
// UTF-16 code unit offset.
func utf16Column(line string, column int) protocol.UInteger {
	n := column - 1
	if n > len(line) {
		n = len(line)
	}
	if n < 0 {
		n = 0
	}
	return protocol.UInteger(utf16view.FromString(line[:n]).LengthInCodeUnits())
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	path := u.Path
	// file:///C:/x on Windows
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

func boolPtr(b bool) *bool {
	return &b
}

// IsIDL reports whether uri names an .idl document.
func IsIDL(uri string) bool {
	return strings.EqualFold(filepath.Ext(uriToPath(uri)), ".idl")
}
