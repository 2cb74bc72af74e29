// Package deploy replaces a previously deployed Databricks job with a newly
// built definition: locate the old job by its versioned name, cancel its
// active runs when it streams, delete it, then create and optionally start
// the new one.
package deploy

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-logr/logr"
	"github.com/sdhdata/dbx-deploy/pkg/databricks"
	"github.com/sdhdata/dbx-deploy/pkg/jobspec"
)

// versionPattern matches the version suffix of a deployed job name: a
// semantic version for releases or the SNAPSHOT token for trunk builds.
const versionPattern = `SNAPSHOT|\d+\.\d+\.\d+`

// Deployer performs the remove-then-submit sequence against one workspace.
type Deployer struct {
	client databricks.Client
	log    logr.Logger
}

// New creates a deployer using the given Jobs API client.
func New(client databricks.Client, log logr.Logger) *Deployer {
	return &Deployer{client: client, log: log}
}

// FindJob selects the job deployed for the application, matching
// "{application}-{version}" exactly. The captured application group is
// compared against the target so that e.g. "myapp2" never matches "myapp".
// The first match wins; delete-before-create keeps the list to at most one.
func FindJob(jobs []databricks.Job, application string) (databricks.Job, bool) {
	re := regexp.MustCompile(`^(` + regexp.QuoteMeta(application) + `)-(` + versionPattern + `)$`)
	for _, job := range jobs {
		m := re.FindStringSubmatch(job.Name)
		if m != nil && m[1] == application {
			return job, true
		}
	}
	return databricks.Job{}, false
}

// RemoveExisting deletes the application's currently deployed job, if any.
// A streaming job has its active runs canceled first, best-effort, so the
// replacement does not compete with the old definition. A batch job is
// deleted directly: an already dispatched run is independent of the job
// definition and may finish under the old identity. No matching job is a
// normal no-op.
func (d *Deployer) RemoveExisting(ctx context.Context, application string, streaming bool) error {
	jobs, err := d.client.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	job, found := FindJob(jobs, application)
	if !found {
		d.log.Info("No existing job to remove", "application", application)
		return nil
	}

	if streaming {
		if err := d.cancelActiveRuns(ctx, job.ID); err != nil {
			return err
		}
	}

	d.log.Info("Deleting existing job", "application", application, "jobID", job.ID, "name", job.Name)
	if err := d.client.DeleteJob(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to delete job %d: %w", job.ID, err)
	}
	return nil
}

// cancelActiveRuns cancels the listed active runs of the job one by one.
// Cancellation is not verified and not waited for. Only the first page of
// runs is consulted; when more pages exist the remaining runs stay orphaned
// until the job itself is deleted, so that case is logged.
func (d *Deployer) cancelActiveRuns(ctx context.Context, jobID int64) error {
	runs, hasMore, err := d.client.ListActiveRuns(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to list active runs of job %d: %w", jobID, err)
	}
	if hasMore {
		d.log.Info("Active run listing is paginated; runs beyond the first page are not canceled", "jobID", jobID)
	}

	for _, run := range runs {
		d.log.Info("Canceling active run", "jobID", jobID, "runID", run.ID)
		if err := d.client.CancelRun(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to cancel run %d: %w", run.ID, err)
		}
	}
	return nil
}

// Submit creates the new job from the built spec. A streaming job is started
// immediately with one run; a batch job is left to its own schedule. Success
// means the create call returned a job id - the triggered run is not
// verified to have started.
func (d *Deployer) Submit(ctx context.Context, spec *jobspec.Spec, streaming bool) (int64, error) {
	jobID, err := d.client.CreateJob(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}
	d.log.Info("Created job", "jobID", jobID, "name", spec.Name)

	if streaming {
		runID, err := d.client.RunNow(ctx, jobID)
		if err != nil {
			return 0, fmt.Errorf("failed to start run of job %d: %w", jobID, err)
		}
		d.log.Info("Started streaming run", "jobID", jobID, "runID", runID)
	}

	return jobID, nil
}
