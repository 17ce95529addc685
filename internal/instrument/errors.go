package instrument

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

var (
	// ErrUnknownInstrument is matched by every *UnknownError.
	ErrUnknownInstrument = errors.New("unknown instrument")

	// ErrInvalidDefinition is matched by every *DefinitionError.
	ErrInvalidDefinition = errors.New("invalid instrument definition")
)

// UnknownError reports an instrument name that is not in the catalog.
type UnknownError struct {
	Name string
	// Known lists the names that would have been accepted.
	Known []string
}

// Error implements the error interface.
func (e *UnknownError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown instrument %q", e.Name)
	}
	return fmt.Sprintf("unknown instrument %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap lets errors.Is match ErrUnknownInstrument.
func (e *UnknownError) Unwrap() error {
	return ErrUnknownInstrument
}

// IsUnknownInstrument returns true if err is, or wraps, an *UnknownError.
func IsUnknownInstrument(err error) bool {
	var ue *UnknownError
	return errors.As(err, &ue)
}

// DefinitionError reports an invalid instrument definition, with the CUE
// source position when the definition came from a CUE file.
type DefinitionError struct {
	Name    string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("instrument %q: %s", e.Name, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidDefinition.
func (e *DefinitionError) Unwrap() error {
	return ErrInvalidDefinition
}

// formatCUEError converts a CUE error into a *DefinitionError carrying the
// first reported position.
func formatCUEError(name string, err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &DefinitionError{Name: name, Message: err.Error()}
	}
	first := errs[0]
	de := &DefinitionError{Name: name, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		de.Pos = positions[0]
	}
	return de
}
