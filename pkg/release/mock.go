package release

// MockTagFinder implements TagFinder for testing
type MockTagFinder struct {
	// Tags maps repository paths to the tag returned for them
	Tags map[string]string

	// HeadTagError simulates lookup failures when set
	HeadTagError error

	// HeadTagCallCount tracks how many times HeadTag was called
	HeadTagCallCount int

	// LastRepoPath tracks the last repository path requested
	LastRepoPath string
}

// NewMockTagFinder creates a new mock tag finder for testing
func NewMockTagFinder() *MockTagFinder {
	return &MockTagFinder{
		Tags: make(map[string]string),
	}
}

// HeadTag returns the configured tag for the path, or "" if none is set
func (m *MockTagFinder) HeadTag(repoPath string) (string, error) {
	m.HeadTagCallCount++
	m.LastRepoPath = repoPath

	if m.HeadTagError != nil {
		return "", m.HeadTagError
	}
	return m.Tags[repoPath], nil
}
