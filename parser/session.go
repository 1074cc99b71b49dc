package parser

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// Session holds the state shared by one compile: the set of canonical paths
// already parsed and the arena owning every module and mixin. Independent
// compiles use independent sessions. Parses sharing a Session may run
// concurrently: each import path is claimed atomically, so a module is parsed
// at most once per session.
type Session struct {
	fs         afero.Fs
	importBase string
	log        *zap.SugaredLogger

	mu       sync.Mutex
	imported map[string]bool
	arena    *ast.Arena
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithFs reads IDL files from fs instead of the host filesystem.
func WithFs(fs afero.Fs) SessionOption {
	return func(s *Session) { s.fs = fs }
}

// WithImportBase adds a fallback directory searched for imports that are not
// found next to the importing file.
func WithImportBase(dir string) SessionOption {
	return func(s *Session) { s.importBase = dir }
}

// WithLogger overrides the session's logger.
func WithLogger(log *zap.SugaredLogger) SessionOption {
	return func(s *Session) { s.log = log }
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		fs:       afero.NewOsFs(),
		imported: map[string]bool{},
		arena:    ast.NewArena(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.ComponentLogger("parser")
	}
	return s
}

func (s *Session) Fs() afero.Fs { return s.fs }

func (s *Session) ImportBase() string { return s.importBase }

func (s *Session) Arena() *ast.Arena { return s.arena }

// Canonicalize returns the absolute, cleaned form of path. On the host
// filesystem symlinks are resolved as well.
func (s *Session) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	abs = filepath.Clean(abs)
	if _, ok := s.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return resolved, nil
		}
	}
	return abs, nil
}

// MarkImported records a canonical path and reports whether it was new.
func (s *Session) MarkImported(canonical string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imported[canonical] {
		return false
	}
	s.imported[canonical] = true
	return true
}

func (s *Session) IsImported(canonical string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imported[canonical]
}

func (s *Session) exists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadSource reads an IDL file and decodes it to UTF-8. A UTF-16 byte order
// mark selects UTF-16 decoding; a UTF-8 mark is stripped.
func (s *Session) ReadSource(path string) (string, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Mark(errors.Wrapf(err, "IDL file %s does not exist", path), errors.ErrImport)
		}
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %s", path)
	}
	return string(decoded), nil
}

// ParseFile reads and parses the IDL file at path within the session.
func (s *Session) ParseFile(path string) (*ast.Interface, error) {
	canonical, err := s.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	source, err := s.ReadSource(canonical)
	if err != nil {
		return nil, err
	}
	return New(s, canonical, source).Parse()
}

// ParseFile parses path in a fresh session.
func ParseFile(path string, opts ...SessionOption) (*ast.Interface, error) {
	return NewSession(opts...).ParseFile(path)
}
