package copier

import (
	"fmt"
)

// Per-entry error types. Each carries the path it was raised for and wraps
// the underlying filesystem error.

// NotFoundError indicates the entry does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// StatError indicates the mode of an entry could not be read.
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("cannot read mode of '%s': %v", e.Path, e.Err)
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// ChmodError indicates the new mode was rejected by the filesystem.
type ChmodError struct {
	Path string
	Mode string
	Err  error
}

func (e *ChmodError) Error() string {
	return fmt.Sprintf("cannot change mode of '%s' to %s: %v", e.Path, e.Mode, e.Err)
}

func (e *ChmodError) Unwrap() error {
	return e.Err
}

// ReadDirError indicates a directory could not be enumerated.
type ReadDirError struct {
	Path string
	Err  error
}

func (e *ReadDirError) Error() string {
	return fmt.Sprintf("cannot read directory '%s': %v", e.Path, e.Err)
}

func (e *ReadDirError) Unwrap() error {
	return e.Err
}
