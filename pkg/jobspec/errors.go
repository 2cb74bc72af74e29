package jobspec

import "fmt"

// SpecError represents errors that occur while building a job spec from the
// template. Every one of them is an unrecoverable misconfiguration.
type SpecError struct {
	Type    string // Type of error (read_error, parse_error, missing_field, missing_placeholder)
	Message string // Human-readable error message
	Err     error  // Underlying error
	Context string // Additional context (template path, field name)
}

func (e *SpecError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("job spec error (%s) for %s: %s", e.Type, e.Context, e.Message)
	}
	return fmt.Sprintf("job spec error (%s): %s", e.Type, e.Message)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// IsMissingFieldError checks if the error is a missing template field
func IsMissingFieldError(err error) bool {
	if specErr, ok := err.(*SpecError); ok {
		return specErr.Type == "missing_field"
	}
	return false
}
