package databricks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdhdata/dbx-deploy/pkg/jobspec"
)

func TestMockClient_RecordsCalls(t *testing.T) {
	mock := NewMockClient()
	mock.Jobs = []Job{{ID: 7, Name: "app-SNAPSHOT"}}
	mock.ActiveRuns[7] = []Run{{ID: 100}}
	ctx := context.Background()

	jobs, err := mock.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, mock.ListJobsCallCount)

	runs, hasMore, err := mock.ListActiveRuns(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []Run{{ID: 100}}, runs)
	assert.False(t, hasMore)

	require.NoError(t, mock.CancelRun(ctx, 100))
	require.NoError(t, mock.DeleteJob(ctx, 7))

	jobID, err := mock.CreateJob(ctx, &jobspec.Spec{Name: "app-1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, mock.NextJobID, jobID)

	runID, err := mock.RunNow(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, mock.NextRunID, runID)

	assert.Equal(t, []int64{100}, mock.CanceledRunIDs)
	assert.Equal(t, []int64{7}, mock.DeletedJobIDs)
	assert.Equal(t, []int64{jobID}, mock.RanJobIDs)
	require.Len(t, mock.CreatedSpecs, 1)
	assert.Equal(t, "app-1.0.0", mock.CreatedSpecs[0].Name)
}

func TestMockClient_ConfiguredErrors(t *testing.T) {
	mock := NewMockClient()
	boom := errors.New("boom")
	mock.ListJobsError = boom
	mock.CreateJobError = boom

	_, err := mock.ListJobs(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = mock.CreateJob(context.Background(), &jobspec.Spec{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mock.CreatedSpecs)
}
