// Package prune implements the non-escaping scope pruner: a
// dependency collector, an escape solver, and a scope-pruning
// transform run in sequence over one hir.ReactiveFunction.
package prune

import (
	"fmt"

	goerrors "github.com/go-errors/errors"

	"github.com/viant/reactprune/hir"
)

// Kind discriminates the pass's fatal error kinds. All three are
// unconditionally fatal: the pass is all-or-nothing.
type Kind int

const (
	// UnsupportedValueKind: the HIR contains a value the
	// classification table does not recognize.
	UnsupportedValueKind Kind = iota
	// InvariantMissingNode: the solver reached an identifier or scope
	// id with no graph node.
	InvariantMissingNode
	// ExhaustivenessViolation: a destructure pattern kind or
	// memoization-level kind fell outside the enumerated set.
	ExhaustivenessViolation
)

func (k Kind) String() string {
	switch k {
	case UnsupportedValueKind:
		return "UnsupportedValueKind"
	case InvariantMissingNode:
		return "InvariantMissingNode"
	case ExhaustivenessViolation:
		return "ExhaustivenessViolation"
	default:
		return "UnknownErrorKind"
	}
}

// Error is a fatal pass invariant violation. It carries a stack trace
// (via go-errors/errors) captured at the point of detection, since
// these always indicate a caller bug (a malformed HIR or a collector
// defect) rather than a recoverable condition.
type Error struct {
	Kind  Kind
	Msg   string
	stack *goerrors.Error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Stack renders the captured stack trace, for fatal-error logging.
func (e *Error) Stack() string {
	if e.stack == nil {
		return ""
	}
	return string(e.stack.Stack())
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		stack: goerrors.Wrap(fmt.Errorf(format, args...), 1),
	}
}

func errUnsupportedValue(kind hir.ValueKind) *Error {
	return newError(UnsupportedValueKind, "unexpected unsupported node: value kind %s has no classification", kind)
}

func errMissingIdentifierNode(id hir.IdentifierId) *Error {
	return newError(InvariantMissingNode, "solver reached identifier %s with no graph node", id)
}

func errMissingScopeNode(id hir.ScopeId) *Error {
	return newError(InvariantMissingNode, "solver reached scope %s with no graph node", id)
}

func errExhaustiveness(what string, value interface{}) *Error {
	return newError(ExhaustivenessViolation, "%s: unexpected value %v outside the enumerated set", what, value)
}
