package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/sdhdata/dbx-deploy/pkg/config"
	"github.com/sdhdata/dbx-deploy/pkg/jobspec"
)

// Client defines the interface for the Databricks Jobs API operations the
// deployment needs. This enables dependency injection and testing with mock
// implementations.
type Client interface {
	// ListJobs returns every job defined in the workspace
	ListJobs(ctx context.Context) ([]Job, error)

	// CreateJob creates a job from the spec and returns its new job id
	CreateJob(ctx context.Context, spec *jobspec.Spec) (int64, error)

	// DeleteJob deletes the job with the given id
	DeleteJob(ctx context.Context, jobID int64) error

	// RunNow triggers one run of the job with no parameter overrides and
	// returns the run id
	RunNow(ctx context.Context, jobID int64) (int64, error)

	// ListActiveRuns returns the first page of active runs for the job and
	// whether further pages exist
	ListActiveRuns(ctx context.Context, jobID int64) ([]Run, bool, error)

	// CancelRun cancels the run with the given id
	CancelRun(ctx context.Context, runID int64) error
}

// Job is a remote job's identity: display name and numeric id. Fetched
// fresh on every run, never cached.
type Job struct {
	ID   int64
	Name string
}

// Run identifies one execution of a job.
type Run struct {
	ID int64
}

// APIClient implements Client against the Jobs API 2.0 endpoints
type APIClient struct {
	host       string
	httpClient *http.Client
	log        logr.Logger
}

// BearerTokenTransport adds workspace token authentication to every request
type BearerTokenTransport struct {
	Token string
}

func (t *BearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.Token)
	return http.DefaultTransport.RoundTrip(req)
}

// NewClient creates a Jobs API client for the given workspace. No client
// timeout is set: deployment duration is bounded only by the remote service,
// and cancellation goes through the request context.
func NewClient(ws config.Workspace, log logr.Logger) Client {
	return &APIClient{
		host: strings.TrimRight(ws.Host, "/"),
		httpClient: &http.Client{
			Transport: &BearerTokenTransport{Token: ws.Token},
		},
		log: log,
	}
}

// Wire-format types of the Jobs API 2.0

type jobListResponse struct {
	Jobs []jobRecord `json:"jobs"`
}

type jobRecord struct {
	JobID    int64       `json:"job_id"`
	Settings jobSettings `json:"settings"`
}

type jobSettings struct {
	Name string `json:"name"`
}

type createJobResponse struct {
	JobID int64 `json:"job_id"`
}

type runNowRequest struct {
	JobID int64 `json:"job_id"`
}

type runNowResponse struct {
	RunID       int64 `json:"run_id"`
	NumberInJob int64 `json:"number_in_job"`
}

type runListResponse struct {
	Runs    []runRecord `json:"runs"`
	HasMore bool        `json:"has_more"`
}

type runRecord struct {
	RunID int64 `json:"run_id"`
}

type deleteJobRequest struct {
	JobID int64 `json:"job_id"`
}

type cancelRunRequest struct {
	RunID int64 `json:"run_id"`
}

// ListJobs implements Client.ListJobs
func (c *APIClient) ListJobs(ctx context.Context) ([]Job, error) {
	var resp jobListResponse
	if err := c.get(ctx, "/api/2.0/jobs/list", nil, &resp); err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		jobs = append(jobs, Job{ID: j.JobID, Name: j.Settings.Name})
	}
	return jobs, nil
}

// CreateJob implements Client.CreateJob
func (c *APIClient) CreateJob(ctx context.Context, spec *jobspec.Spec) (int64, error) {
	var resp createJobResponse
	if err := c.post(ctx, "/api/2.0/jobs/create", spec, &resp); err != nil {
		return 0, err
	}
	return resp.JobID, nil
}

// DeleteJob implements Client.DeleteJob
func (c *APIClient) DeleteJob(ctx context.Context, jobID int64) error {
	return c.post(ctx, "/api/2.0/jobs/delete", &deleteJobRequest{JobID: jobID}, nil)
}

// RunNow implements Client.RunNow
func (c *APIClient) RunNow(ctx context.Context, jobID int64) (int64, error) {
	var resp runNowResponse
	if err := c.post(ctx, "/api/2.0/jobs/run-now", &runNowRequest{JobID: jobID}, &resp); err != nil {
		return 0, err
	}
	return resp.RunID, nil
}

// ListActiveRuns implements Client.ListActiveRuns. Only the first page is
// fetched; the has_more flag is surfaced so callers can tell when active
// runs were left unlisted.
func (c *APIClient) ListActiveRuns(ctx context.Context, jobID int64) ([]Run, bool, error) {
	query := url.Values{}
	query.Set("job_id", strconv.FormatInt(jobID, 10))
	query.Set("active_only", "true")

	var resp runListResponse
	if err := c.get(ctx, "/api/2.0/jobs/runs/list", query, &resp); err != nil {
		return nil, false, err
	}

	// An absent runs key means the job has no runs at all
	runs := make([]Run, 0, len(resp.Runs))
	for _, r := range resp.Runs {
		runs = append(runs, Run{ID: r.RunID})
	}
	return runs, resp.HasMore, nil
}

// CancelRun implements Client.CancelRun
func (c *APIClient) CancelRun(ctx context.Context, runID int64) error {
	return c.post(ctx, "/api/2.0/jobs/runs/cancel", &cancelRunRequest{RunID: runID}, nil)
}

// get performs a GET request and decodes the response into out
func (c *APIClient) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	fullURL := c.host + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// post performs a POST request with a JSON body and decodes the response
// into out when out is non-nil
func (c *APIClient) post(ctx context.Context, endpoint string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	c.log.V(1).Info("Making Jobs API request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error(err, "Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return c.handleAPIError(resp, req.URL.Path)
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleAPIError maps a non-200 response to an APIError, parsing the
// Databricks error body when one is present
func (c *APIClient) handleAPIError(resp *http.Response, endpoint string) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
	}

	body, err := io.ReadAll(resp.Body)
	if err == nil && len(body) > 0 {
		var parsed struct {
			ErrorCode string `json:"error_code"`
			Message   string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && parsed.ErrorCode != "" {
			apiErr.ErrorCode = parsed.ErrorCode
			apiErr.Message = parsed.Message
			return apiErr
		}
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
