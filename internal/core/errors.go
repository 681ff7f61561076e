package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every layer. Typed errors in other packages
// match these with errors.Is so callers never depend on concrete types.
var (
	ErrExtension      = errors.New("not a csv file")
	ErrOutputConflict = errors.New("output file in use")
	ErrNotFound       = errors.New("file not found")
	ErrAlreadyExists  = errors.New("file already exists")
	ErrInvalidCSV     = errors.New("invalid csv")
	ErrEmptyFile      = errors.New("empty file")
	ErrEncoding       = errors.New("encoding error")
	ErrMissingColumn  = errors.New("missing required column")
)

// MissingColumnError is returned when a record has no column the engine needs.
type MissingColumnError struct {
	Column string
	Line   int
}

func (e *MissingColumnError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("missing required column %q (line %d)", e.Column, e.Line)
	}
	return fmt.Sprintf("missing required column %q", e.Column)
}

// Is matches ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
