// Package preflight holds the guard-rail checks that run before any file
// is opened: both paths must be CSVs and the output must not exist yet.
package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/JonMunkholm/contactclean/internal/core"
)

// Extension is the only accepted file extension. The check is case-sensitive.
const Extension = ".csv"

// ExtensionError reports a path without the .csv extension.
type ExtensionError struct {
	Role string // "input" or "output"
	Path string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%s file %q must be a CSV", e.Role, e.Path)
}

// Is matches core.ErrExtension.
func (e *ExtensionError) Is(target error) bool {
	return target == core.ErrExtension
}

// OutputConflictError reports an output path that already exists.
type OutputConflictError struct {
	Path string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output filename %s is in use", e.Path)
}

// Is matches core.ErrOutputConflict.
func (e *OutputConflictError) Is(target error) bool {
	return target == core.ErrOutputConflict
}

// Check validates both paths in order: input extension, output extension,
// output existence. It returns the first failure.
func Check(fs afero.Fs, input, output string) error {
	if ext(input) != Extension {
		return &ExtensionError{Role: "input", Path: input}
	}
	if ext(output) != Extension {
		return &ExtensionError{Role: "output", Path: output}
	}

	exists, err := afero.Exists(fs, output)
	if err != nil {
		return fmt.Errorf("stat output %s: %w", output, err)
	}
	if exists {
		return &OutputConflictError{Path: output}
	}
	return nil
}

// ext returns the extension of the last path element. Leading dots never
// start an extension, so ".csv" alone has none, and a path ending in a
// separator names a directory and has none either.
func ext(path string) string {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return ""
	}
	base := strings.TrimLeft(filepath.Base(path), ".")
	return filepath.Ext(base)
}
