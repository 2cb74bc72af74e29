package databricks

import (
	"context"

	"github.com/sdhdata/dbx-deploy/pkg/jobspec"
)

// MockClient implements the Client interface for testing
// This enables comprehensive unit testing without a live workspace
type MockClient struct {
	// Jobs is the canned job list returned by ListJobs
	Jobs []Job

	// ActiveRuns maps job ids to their canned first page of active runs
	ActiveRuns map[int64][]Run

	// HasMoreRuns maps job ids to the has_more flag of their run listing
	HasMoreRuns map[int64]bool

	// NextJobID is the id assigned by the next CreateJob call
	NextJobID int64

	// NextRunID is the id returned by the next RunNow call
	NextRunID int64

	// Configured errors, returned when set
	ListJobsError       error
	CreateJobError      error
	DeleteJobError      error
	RunNowError         error
	ListActiveRunsError error
	CancelRunError      error

	// Call recording
	ListJobsCallCount int
	CreatedSpecs      []*jobspec.Spec
	DeletedJobIDs     []int64
	RanJobIDs         []int64
	ListedRunJobIDs   []int64
	CanceledRunIDs    []int64
}

// NewMockClient creates a new mock Jobs API client for testing
func NewMockClient() *MockClient {
	return &MockClient{
		ActiveRuns:  make(map[int64][]Run),
		HasMoreRuns: make(map[int64]bool),
		NextJobID:   1000,
		NextRunID:   5000,
	}
}

// ListJobs returns the canned job list
func (m *MockClient) ListJobs(ctx context.Context) ([]Job, error) {
	m.ListJobsCallCount++
	if m.ListJobsError != nil {
		return nil, m.ListJobsError
	}
	return m.Jobs, nil
}

// CreateJob records the spec and assigns the next job id
func (m *MockClient) CreateJob(ctx context.Context, spec *jobspec.Spec) (int64, error) {
	if m.CreateJobError != nil {
		return 0, m.CreateJobError
	}
	m.CreatedSpecs = append(m.CreatedSpecs, spec)
	return m.NextJobID, nil
}

// DeleteJob records the deleted job id
func (m *MockClient) DeleteJob(ctx context.Context, jobID int64) error {
	if m.DeleteJobError != nil {
		return m.DeleteJobError
	}
	m.DeletedJobIDs = append(m.DeletedJobIDs, jobID)
	return nil
}

// RunNow records the triggered job id and returns the next run id
func (m *MockClient) RunNow(ctx context.Context, jobID int64) (int64, error) {
	if m.RunNowError != nil {
		return 0, m.RunNowError
	}
	m.RanJobIDs = append(m.RanJobIDs, jobID)
	return m.NextRunID, nil
}

// ListActiveRuns returns the canned runs for the job id
func (m *MockClient) ListActiveRuns(ctx context.Context, jobID int64) ([]Run, bool, error) {
	m.ListedRunJobIDs = append(m.ListedRunJobIDs, jobID)
	if m.ListActiveRunsError != nil {
		return nil, false, m.ListActiveRunsError
	}
	return m.ActiveRuns[jobID], m.HasMoreRuns[jobID], nil
}

// CancelRun records the canceled run id
func (m *MockClient) CancelRun(ctx context.Context, runID int64) error {
	if m.CancelRunError != nil {
		return m.CancelRunError
	}
	m.CanceledRunIDs = append(m.CanceledRunIDs, runID)
	return nil
}
