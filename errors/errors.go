// Package errors provides error handling for shapegen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := parse(); err != nil {
//	    return errors.Wrap(err, "failed to parse document")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "pass the input path as the first argument")
//
//	// Check errors
//	if errors.Is(err, errors.ErrSourceNotFound) {
//	    // report and abort
//	}
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
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the generation pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrSourceNotFound indicates the input document could not be located
	ErrSourceNotFound = New("source not found")

	// ErrMalformedInput indicates the input bytes do not parse into a document
	ErrMalformedInput = New("malformed input")

	// ErrUnsupportedRoot indicates the document root is not an object
	ErrUnsupportedRoot = New("document root must be an object")

	// ErrNestingTooDeep indicates the document exceeds the configured depth bound
	ErrNestingTooDeep = New("document nesting too deep")

	// ErrUnknownLanguage indicates an unsupported output language
	ErrUnknownLanguage = New("unknown output language")

	// ErrUnknownFormat indicates an unsupported input format
	ErrUnknownFormat = New("unknown input format")

	// ErrOutOfDate indicates a generated artifact no longer matches its source
	ErrOutOfDate = New("generated artifact is out of date")
)

// IsSourceNotFound checks if an error is or wraps ErrSourceNotFound
func IsSourceNotFound(err error) bool {
	return err != nil && Is(err, ErrSourceNotFound)
}

// IsMalformedInput checks if an error is or wraps ErrMalformedInput
func IsMalformedInput(err error) bool {
	return err != nil && Is(err, ErrMalformedInput)
}

// IsOutOfDate checks if an error is or wraps ErrOutOfDate
func IsOutOfDate(err error) bool {
	return err != nil && Is(err, ErrOutOfDate)
}

// WrapSourceNotFound marks err as a source-not-found error with context
func WrapSourceNotFound(err error, location string) error {
	return Wrapf(Wrap(ErrSourceNotFound, err.Error()), "locate %s", location)
}

// NewMalformedInputError creates a malformed-input error with a formatted message
func NewMalformedInputError(format string, args ...interface{}) error {
	return Wrap(ErrMalformedInput, Newf(format, args...).Error())
}
