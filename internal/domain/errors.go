package domain

import (
	"errors"
	"fmt"
)

// ErrMissingColumns is wrapped by a LoadError when the source header lacks a required field.
var ErrMissingColumns = errors.New("missing required columns")

// LoadError reports a source file that could not be loaded: missing,
// unreadable, malformed, or lacking required columns.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
