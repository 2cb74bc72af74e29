package release

import "fmt"

// GitError represents errors that occur while inspecting the repository
type GitError struct {
	Type    string // Type of error (repository_not_found, git_operation_error, etc.)
	Message string // Human-readable error message
	Err     error  // Underlying error
	Context string // Additional context (repository path, reference, etc.)
}

func (e *GitError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("git error (%s) for %s: %s", e.Type, e.Context, e.Message)
	}
	return fmt.Sprintf("git error (%s): %s", e.Type, e.Message)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// IsRepositoryNotFoundError checks if the error means no git repository was found
func IsRepositoryNotFoundError(err error) bool {
	if gitErr, ok := err.(*GitError); ok {
		return gitErr.Type == "repository_not_found"
	}
	return false
}
