// Package atkerr defines the failure taxonomy shared across the attack
// core: every component that can fail classifies its error into one of the
// FailureKinds named in the error handling design, rather than returning a
// bare error the caller has to pattern-match on message text.
package atkerr

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// FailureKind classifies why the attack stopped.
type FailureKind int

const (
	// OracleError means the oracle subprocess failed, returned the
	// wrong arity, or produced a non-bit token. Fatal.
	OracleError FailureKind = iota
	// Inconsistent means the rewriter derived a trivially-false clause:
	// the formula plus evidence is UNSAT before l_out is even asserted.
	// Fatal.
	Inconsistent
	// Timeout means the wall-clock budget was exceeded. Soft.
	Timeout
	// DecisionBudget means the configured decision cap was exceeded
	// during a solve. Soft.
	DecisionBudget
	// InternalAssert means an invariant was violated, e.g. a frozen
	// variable came back with no model value. Fatal.
	InternalAssert
)

func (k FailureKind) String() string {
	switch k {
	case OracleError:
		return "OracleError"
	case Inconsistent:
		return "Inconsistent"
	case Timeout:
		return "Timeout"
	case DecisionBudget:
		return "DecisionBudget"
	case InternalAssert:
		return "InternalAssert"
	default:
		return "Unknown"
	}
}

// Soft reports whether this kind should break the CEGAR loop and fall back
// to the backbone analyzer, rather than abort the whole attack.
func (k FailureKind) Soft() bool {
	return k == Timeout || k == DecisionBudget
}

// Error is an error carrying a FailureKind and an optional wrapped cause.
type Error struct {
	Kind  FailureKind
	cause error
}

func New(kind FailureKind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

func Wrap(kind FailureKind, cause error, msg string) *Error {
	return &Error{Kind: kind, cause: errors.Wrap(cause, msg)}
}

func Wrapf(kind FailureKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, cause: errors.Wrapf(cause, format, args...)}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the FailureKind of err if it is (or wraps) an *Error, and
// false otherwise.
func KindOf(err error) (FailureKind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
