package harmonic

import (
	"errors"
	"fmt"
)

// ErrInvalidConstraint is matched by every *ConstraintError.
var ErrInvalidConstraint = errors.New("invalid constraint")

// ConstraintError reports a constraint value that is negative, not finite,
// or inconsistent with another constraint.
type ConstraintError struct {
	// Field names the constraint, e.g. "min_stop_distance_mm".
	Field  string
	Value  float64
	Reason string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConstraint.
func (e *ConstraintError) Unwrap() error {
	return ErrInvalidConstraint
}

// IsInvalidConstraint returns true if err is, or wraps, a *ConstraintError.
func IsInvalidConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
