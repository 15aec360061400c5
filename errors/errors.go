// Package errors provides error handling for chartload.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the catalog URL")
//
//	// Check errors
//	if errors.Is(err, errors.ErrChartNotFound) {
//	    // handle unknown chart
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
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	WithSafeDetails = crdb.WithSafeDetails
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

// GetStack returns a reportable stack trace for an error, or nil if none
// was captured. Pipeline failure events attach this in debug mode.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors for the chart load pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrChartNotFound indicates the chart id is not present in the catalog
	ErrChartNotFound = New("chart not found")

	// ErrSourceUnavailable indicates the chart source could not be reached
	ErrSourceUnavailable = New("chart source unavailable")

	// ErrArchiveCorrupt indicates the chart archive could not be read
	ErrArchiveCorrupt = New("chart archive corrupt")

	// ErrDigestMismatch indicates the payload digest did not match the catalog
	ErrDigestMismatch = New("digest mismatch")

	// ErrLoaderClosed indicates an operation on a disposed component
	ErrLoaderClosed = New("loader closed")
)

// IsChartNotFound checks if an error is or wraps ErrChartNotFound.
func IsChartNotFound(err error) bool {
	return err != nil && Is(err, ErrChartNotFound)
}

// IsSourceUnavailable checks if an error is or wraps ErrSourceUnavailable.
func IsSourceUnavailable(err error) bool {
	return err != nil && Is(err, ErrSourceUnavailable)
}

// IsDigestMismatch checks if an error is or wraps ErrDigestMismatch.
func IsDigestMismatch(err error) bool {
	return err != nil && Is(err, ErrDigestMismatch)
}

// NewChartNotFound creates a chart-not-found error for the given id.
func NewChartNotFound(chartID string) error {
	return Wrap(ErrChartNotFound, chartID)
}

// WrapSourceUnavailable wraps an error as a source-unavailable error with context.
func WrapSourceUnavailable(err error, context string) error {
	return Wrap(Wrap(ErrSourceUnavailable, err.Error()), context)
}
