package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures.
type ErrorKind int

const (
	// InsufficientData: too few bars, or an indicator warm-up longer than the history.
	InsufficientData ErrorKind = iota + 1
	// DegenerateArithmetic: a ratio whose denominator is exactly zero.
	DegenerateArithmetic
	// MalformedInput: missing fields, non-finite values or unordered timestamps.
	MalformedInput
)

// String stringifies the error kind.
func (k ErrorKind) String() string {
	switch k {
	case InsufficientData:
		return "insufficient data"
	case DegenerateArithmetic:
		return "degenerate arithmetic"
	case MalformedInput:
		return "malformed input"
	default:
		return "unknown error"
	}
}

// EngineError is the error type returned by the indicator and classification engine.
type EngineError struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

// Sentinels for errors.Is matching on the kind alone.
var (
	ErrInsufficientData     = &EngineError{Kind: InsufficientData}
	ErrDegenerateArithmetic = &EngineError{Kind: DegenerateArithmetic}
	ErrMalformedInput       = &EngineError{Kind: MalformedInput}
)

// NewEngineError creates an EngineError with a formatted message.
func NewEngineError(kind ErrorKind, op string, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *EngineError) Error() string {
	switch {
	case e.Op == "" && e.Msg == "":
		return e.Kind.String()
	case e.Op == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	}
}

// Is reports whether target is an EngineError of the same kind.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the engine error kind from err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}
