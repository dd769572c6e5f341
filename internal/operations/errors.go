package operations

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes. Every error returned by this package wraps exactly one of
// them, so callers classify with errors.Is.
var (
	ErrInvalidInputShape    = errors.New("invalid input shape")
	ErrArityViolation       = errors.New("arity violation")
	ErrDomainViolation      = errors.New("domain violation")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Error is a classified calculation failure. Msg is the human-readable text
// returned to API clients.
type Error struct {
	Class error
	Kind  Kind
	Msg   string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Class
}

func shapeError(kind Kind) error {
	return &Error{Class: ErrInvalidInputShape, Kind: kind, Msg: "Inputs must be a list of numbers"}
}

func domainError(kind Kind, msg string) error {
	return &Error{Class: ErrDomainViolation, Kind: kind, Msg: msg}
}

func unsupportedError(name string) error {
	names := make([]string, len(catalog))
	for i, op := range catalog {
		names[i] = string(op.kind)
	}

	return &Error{
		Class: ErrUnsupportedOperation,
		Kind:  Kind(name),
		Msg:   fmt.Sprintf("Unsupported calculation type: %s. Must be one of %s", name, strings.Join(names, ", ")),
	}
}

func arityError(kind Kind, arity Arity, label, usage string) error {
	var msg string
	switch arity {
	case ArityUnary:
		msg = fmt.Sprintf("%s requires exactly one numeric input", label)
	case ArityBinary:
		msg = fmt.Sprintf("%s requires exactly two numeric inputs", label)
	default:
		msg = fmt.Sprintf("%s requires at least two numeric inputs", label)
	}
	if usage != "" {
		msg += " " + usage
	}

	return &Error{Class: ErrArityViolation, Kind: kind, Msg: msg}
}
