package csvio

import (
	"fmt"

	"github.com/JonMunkholm/contactclean/internal/core"
)

// FileError reports a failure to open or create a file.
// Err is a core sentinel (ErrNotFound, ErrAlreadyExists) or the raw OS error.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FormatError reports input that cannot be parsed as tabular text.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid csv %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid csv %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is matches core.ErrInvalidCSV in addition to the wrapped error.
func (e *FormatError) Is(target error) bool {
	return target == core.ErrInvalidCSV
}

// EncodingError reports a field that is not valid UTF-8.
type EncodingError struct {
	Path string
	Line int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error in %s (line %d): invalid UTF-8", e.Path, e.Line)
}

// Is matches core.ErrEncoding.
func (e *EncodingError) Is(target error) bool {
	return target == core.ErrEncoding
}
