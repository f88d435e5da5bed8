package reference

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry is returned when a name or description cannot be stored
	// in the line-oriented log format.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrUnknownList is returned when a list selector is neither good nor bad.
	ErrUnknownList = errors.New("unknown list")
)

// IOError reports a reference log that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s reference log %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
