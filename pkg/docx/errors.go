package docx

import "fmt"

// DocumentError describes a failure while reading, parsing or writing a
// document package.
type DocumentError struct {
	Operation string // what was being attempted, e.g. "open", "parse part"
	Path      string // file path or part name involved
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("docx: %s %s: %v", e.Operation, e.Path, e.Cause)
	}
	return fmt.Sprintf("docx: %s: %v", e.Operation, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

func wrapError(operation, path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &DocumentError{Operation: operation, Path: path, Cause: cause}
}
