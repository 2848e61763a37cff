// Package rasterr defines the error taxonomy shared by every decoder in the
// image/color pipeline. Decoders never panic on malformed input; they return
// a *Error tagged with a Kind from §7 of the design so a page-level caller can
// decide whether to recover with a fallback raster or abort.
package rasterr

import "github.com/pkg/errors"

// Kind classifies why a decode failed.
type Kind int

const (
	// Truncated means the input ended before a marker, row, or chunk completed.
	Truncated Kind = iota
	// Malformed means a codeword, predictor byte, or header field was invalid.
	Malformed
	// Semantic means declared and detected structure disagree (component count,
	// bpc, profile arity).
	Semantic
	// Oversize means a declared dimension or table exceeded a configured cap.
	Oversize
	// Unsupported means the input uses a feature this pipeline does not implement.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case Malformed:
		return "malformed"
	case Semantic:
		return "semantic"
	case Oversize:
		return "oversize"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every package in this module.
type Error struct {
	Kind    Kind
	Op      string // component/operation that failed, e.g. "ccitt.decodeRow"
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.cause.Error()
}

// Unwrap allows errors.Is/errors.As and pkg/errors.Cause to reach the root cause.
func (e *Error) Unwrap() error { return e.cause }

// Cause implements the pkg/errors causer interface.
func (e *Error) Cause() error { return e.cause }

// New builds a Kind-tagged error with a formatted message.
func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, cause: errors.Errorf(format, args...)}
}

// Wrap tags an existing error with a Kind and the operation that observed it.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, cause: errors.WithMessage(err, op)}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
