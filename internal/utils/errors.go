// Package utils holds small helpers shared by the encoder packages.
package utils

import "fmt"

// H5Error is an error annotated with the step that failed and, when known,
// the object path inside the file.
type H5Error struct {
	Context string
	Path    string
	Cause   error
}

// Error implements the error interface.
func (e *H5Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Context, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *H5Error) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error. A nil cause yields nil.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &H5Error{
		Context: context,
		Cause:   cause,
	}
}

// WrapPathError is WrapError with the HDF5 object path attached.
func WrapPathError(context, path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &H5Error{
		Context: context,
		Path:    path,
		Cause:   cause,
	}
}
