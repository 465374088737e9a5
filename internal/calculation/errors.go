package calculation

import (
	"errors"
	"fmt"
)

// Error kinds. Callers branch on these with errors.Is.
var (
	ErrInvalidParameters    = errors.New("invalid parameters")
	ErrOutOfRange           = errors.New("out of range")
	ErrMissingReferenceData = errors.New("missing reference data")
	ErrTargetUnreachable    = errors.New("target unreachable")
)

// ProjectionError carries the failing operation alongside its kind
type ProjectionError struct {
	Op      string
	Kind    error
	Message string
	Cause   error
}

func (e *ProjectionError) Error() string {
	msg := e.Op + ": " + e.Kind.Error() + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is reports whether target is the error's kind
func (e *ProjectionError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProjectionError) Unwrap() error {
	return e.Cause
}

func newError(op string, kind error, format string, args ...any) *ProjectionError {
	return &ProjectionError{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewTargetUnreachable reports a solver that hit its bound without converging
func NewTargetUnreachable(op string, format string, args ...any) error {
	return newError(op, ErrTargetUnreachable, format, args...)
}

// NewInvalidParameters reports caller input that violates a structural invariant
func NewInvalidParameters(op string, format string, args ...any) error {
	return newError(op, ErrInvalidParameters, format, args...)
}
