package lsp

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func newTestHandler(t *testing.T) (*Handler, *glsp.Context, *[]notification) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/idl/Shared.idl", []byte("dictionary Options { long level = 1; };\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/idl/Bad.idl", []byte("enum E { \"x\", \"x\" };\n"), 0o644))

	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			sent = append(sent, notification{method: method, params: params.(protocol.PublishDiagnosticsParams)})
		},
	}
	return NewHandler(fs, ""), ctx, &sent
}

func TestDiagnoseValidDocument(t *testing.T) {
	h, _, _ := newTestHandler(t)
	diags := h.Diagnose("file:///idl/Doc.idl", "#import <Shared.idl>\ninterface Doc { attribute Options options; };\n")
	assert.Empty(t, diags)
	assert.NotNil(t, diags, "an empty list clears editor markers")
}

func TestDiagnoseSyntaxError(t *testing.T) {
	h, _, _ := newTestHandler(t)
	diags := h.Diagnose("file:///idl/Doc.idl", "interface Doc {\n    attribute long;\n};\n")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, protocol.UInteger(1), d.Range.Start.Line)
	assert.Equal(t, d.Range.Start.Line, d.Range.End.Line)
	assert.GreaterOrEqual(t, d.Range.End.Character, d.Range.Start.Character)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	require.NotNil(t, d.Code)
	assert.Equal(t, "syntax", d.Code.Value)
	assert.Equal(t, "idlc", *d.Source)
}

func TestDiagnoseMissingImport(t *testing.T) {
	h, _, _ := newTestHandler(t)
	diags := h.Diagnose("file:///idl/Doc.idl", "#import <Nope.idl>\ninterface Doc {};\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "Could not find import file 'Nope.idl'.", diags[0].Message)
	assert.Equal(t, protocol.UInteger(0), diags[0].Range.Start.Line)
	assert.Equal(t, "import", diags[0].Code.Value)
}

func TestDiagnoseErrorInImportedFile(t *testing.T) {
	h, _, _ := newTestHandler(t)
	diags := h.Diagnose("file:///idl/Doc.idl", "#import <Bad.idl>\ninterface Doc {};\n")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "in imported file /idl/Bad.idl")
	assert.Equal(t, protocol.Range{}, diags[0].Range)
}

func TestDocumentLifecycle(t *testing.T) {
	h, ctx, sent := newTestHandler(t)
	uri := protocol.DocumentUri("file:///idl/Doc.idl")

	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "webidl", Text: "interface Doc {"},
	}))
	require.Len(t, *sent, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, (*sent)[0].method)
	assert.Len(t, (*sent)[0].params.Diagnostics, 1)

	require.NoError(t, h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "interface Doc {};"}},
	}))
	require.Len(t, *sent, 2)
	assert.Empty(t, (*sent)[1].params.Diagnostics)
	text, ok := h.Document(string(uri))
	require.True(t, ok)
	assert.Equal(t, "interface Doc {};", text)

	require.NoError(t, h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, *sent, 3)
	assert.Empty(t, (*sent)[2].params.Diagnostics)
	_, ok = h.Document(string(uri))
	assert.False(t, ok)
}

func TestNonIDLDocumentsAreIgnored(t *testing.T) {
	h, ctx, sent := newTestHandler(t)
	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///idl/notes.txt", Text: "hello"},
	}))
	assert.Empty(t, *sent)
}

func TestDocumentCacheEvictsOldest(t *testing.T) {
	h, _, _ := newTestHandler(t)
	for i := 0; i <= maxDocuments; i++ {
		h.store("file:///idl/D"+strconv.Itoa(i)+".idl", "")
	}
	_, ok := h.Document("file:///idl/D0.idl")
	assert.False(t, ok)
	_, ok = h.Document("file:///idl/D1.idl")
	assert.True(t, ok)
}

func TestUTF16Column(t *testing.T) {
	line := "é\U0001F600x"
	assert.Equal(t, protocol.UInteger(0), utf16Column(line, 1))
	assert.Equal(t, protocol.UInteger(1), utf16Column(line, 3))
	assert.Equal(t, protocol.UInteger(3), utf16Column(line, 7))
	assert.Equal(t, protocol.UInteger(4), utf16Column(line, 99))
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/idl/My Doc.idl"), uriToPath("file:///idl/My%20Doc.idl"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.True(t, IsIDL("file:///idl/A.IDL"))
	assert.False(t, IsIDL("file:///idl/A.h"))
}
