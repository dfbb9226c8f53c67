// Package errors provides error handling for jpoet.
//
// This package re-exports github.com/cockroachdb/errors so every failure carries
// a stack trace, and defines the three failure classes a render can produce:
//
//   - invalid argument: malformed construction input, reported before any I/O
//   - I/O failure: anything the destination returned, propagated unchanged
//   - internal invariant violation: a render that cannot fail did fail
//
// Usage:
//
//	if names == nil {
//	    return errors.NewInvalidArgumentf("names == nil")
//	}
//
//	if _, err := out.Write(p); err != nil {
//	    return errors.WrapIO(err, "write source")
//	}
//
//	if errors.IsInvalidArgument(err) {
//	    // caller misuse
//	}
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
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel errors. Wrap them to add context; test with Is.
var (
	// ErrInvalidArgument indicates missing or malformed construction input
	ErrInvalidArgument = New("invalid argument")

	// ErrIO indicates a failure reported by an output destination
	ErrIO = New("i/o failure")
)

// NewInvalidArgumentf creates an invalid-argument error with a formatted message.
func NewInvalidArgumentf(format string, args ...interface{}) error {
	return crdb.Mark(crdb.NewWithDepthf(1, format, args...), ErrInvalidArgument)
}

// IsInvalidArgument checks if an error is or wraps ErrInvalidArgument
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}

// WrapIO marks err as a destination failure and adds context.
// The original error stays reachable through Is and As.
func WrapIO(err error, context string) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(crdb.WrapWithDepth(1, err, context), ErrIO)
}

// WrapIOf is WrapIO with a formatted context.
func WrapIOf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(crdb.WrapWithDepthf(1, err, format, args...), ErrIO)
}

// IsIO checks if an error is or wraps ErrIO
func IsIO(err error) bool {
	return err != nil && Is(err, ErrIO)
}
