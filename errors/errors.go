// Package errors provides error handling for idlc.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints printed under compiler diagnostics
//
// Usage:
//
//	// Wrap with context
//	if err := renderUnit(); err != nil {
//	    return errors.Wrap(err, "failed to render header")
//	}
//
//	// Classify with a sentinel, then add a hint for users
//	err := errors.Mark(errors.Newf("unknown type %q", name), errors.ErrUnsupportedType)
//	return errors.WithHint(err, "declare it as a dictionary or enum")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions for conditions that indicate a bug in idlc itself.
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the compiler pipeline.
// Use these with errors.Is() for type-safe error checking.
// Attach them with errors.Mark() to keep the original message intact.
var (
	// ErrSyntax indicates the IDL text does not match the grammar
	ErrSyntax = New("syntax error")

	// ErrSemantic indicates well-formed IDL that breaks a declaration rule
	ErrSemantic = New("semantic error")

	// ErrImport indicates an import could not be found or merged
	ErrImport = New("import error")

	// ErrTemplate indicates a template failed to parse or referenced unknown data
	ErrTemplate = New("template error")

	// ErrUnsupportedType indicates an IDL type with no host mapping
	ErrUnsupportedType = New("unsupported type")

	// ErrInvalidConfig indicates configuration failed validation
	ErrInvalidConfig = New("invalid configuration")
)

// IsTemplateError checks if an error is or wraps ErrTemplate
func IsTemplateError(err error) bool {
	return err != nil && Is(err, ErrTemplate)
}

// IsUnsupportedTypeError checks if an error is or wraps ErrUnsupportedType
func IsUnsupportedTypeError(err error) bool {
	return err != nil && Is(err, ErrUnsupportedType)
}

// NewTemplateError creates a template error with a formatted message
func NewTemplateError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrTemplate)
}

// WrapTemplate marks err as a template error and adds context
func WrapTemplate(err error, context string) error {
	return Mark(Wrap(err, context), ErrTemplate)
}

// NewUnsupportedTypeError creates an unsupported-type error with a formatted message
func NewUnsupportedTypeError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedType)
}

// NewInvalidConfigError creates a configuration error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}
