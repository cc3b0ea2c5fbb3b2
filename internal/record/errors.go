package record

import (
	"errors"
	"fmt"
)

// Input-validation failures. All of them are fatal to the file being
// processed; none are retryable.
var (
	ErrMalformedRecord     = errors.New("malformed record")
	ErrAmbiguousIDSpace    = errors.New("ambiguous ID space")
	ErrUndeterminedIDSpace = errors.New("cannot determine ID space")
	ErrIDSpaceExhausted    = errors.New("ID space exhausted")
	ErrDuplicateID         = errors.New("duplicate identifier")
	ErrDuplicateStringKey  = errors.New("duplicate string key")
	ErrInvalidDirective    = errors.New("invalid metadata directive")
)

// LineError annotates an input error with the 1-based line number it
// originated from.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// AtLine wraps err with the offending line number.
func AtLine(line int, err error) error {
	return &LineError{Line: line, Err: err}
}
