package pitch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNoteName is matched by every *NoteNameError.
	ErrInvalidNoteName = errors.New("invalid note name")

	// ErrInvalidFrequency is returned when a frequency is not a positive,
	// finite number of hertz.
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// NoteNameError describes why a note name could not be parsed.
type NoteNameError struct {
	// Name is the input as given by the caller.
	Name string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *NoteNameError) Error() string {
	return fmt.Sprintf("invalid note name %q: %s", e.Name, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidNoteName.
func (e *NoteNameError) Unwrap() error {
	return ErrInvalidNoteName
}

// IsInvalidNoteName returns true if err is, or wraps, a note name error.
func IsInvalidNoteName(err error) bool {
	var ne *NoteNameError
	return errors.As(err, &ne)
}
