package jobspec

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// WarehouseDirKey is the Spark configuration key carrying the tier-dependent
// warehouse location.
const WarehouseDirKey = "spark.sql.warehouse.dir"

// TierPlaceholder is the token in the template's warehouse dir that is
// replaced with the lowercased tier name.
const TierPlaceholder = "{dtap}"

// Spec is a Databricks job definition (Jobs API 2.0 settings). The job
// template on disk deserializes into this structure so that the fields the
// deployment touches are named instead of looked up in a raw mapping.
// Template keys the structure does not name are carried through untouched,
// so the submitted definition is what the template author wrote.
type Spec struct {
	Name               string              `json:"name,omitempty"`
	NewCluster         *ClusterSpec        `json:"new_cluster,omitempty"`
	ExistingClusterID  string              `json:"existing_cluster_id,omitempty"`
	SparkPythonTask    *SparkPythonTask    `json:"spark_python_task,omitempty"`
	Libraries          []Library           `json:"libraries,omitempty"`
	Schedule           *CronSchedule       `json:"schedule,omitempty"`
	EmailNotifications *EmailNotifications `json:"email_notifications,omitempty"`
	TimeoutSeconds     int                 `json:"timeout_seconds,omitempty"`
	MaxRetries         int                 `json:"max_retries,omitempty"`
	MaxConcurrentRuns  int                 `json:"max_concurrent_runs,omitempty"`

	// extra holds top-level template keys not named above
	extra map[string]json.RawMessage

	// hasScheduleKey and hasLibrariesKey record key presence in the
	// template document; presence matters independently of the values
	hasScheduleKey  bool
	hasLibrariesKey bool
}

// specKnownKeys are the top-level keys the typed fields of Spec emit.
var specKnownKeys = []string{
	"name",
	"new_cluster",
	"existing_cluster_id",
	"spark_python_task",
	"libraries",
	"schedule",
	"email_notifications",
	"timeout_seconds",
	"max_retries",
	"max_concurrent_runs",
}

// UnmarshalJSON decodes the typed fields and keeps every unrecognized
// top-level key so it survives to the created job.
func (s *Spec) UnmarshalJSON(data []byte) error {
	type alias Spec
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	_, a.hasScheduleKey = raw["schedule"]
	_, a.hasLibrariesKey = raw["libraries"]
	for _, key := range specKnownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		a.extra = raw
	}

	*s = Spec(a)
	return nil
}

// MarshalJSON emits the typed fields merged with the carried-through keys.
func (s Spec) MarshalJSON() ([]byte, error) {
	type alias Spec
	return marshalWithExtra(alias(s), s.extra)
}

// ClusterSpec describes the new_cluster block of a job definition. As with
// Spec, keys beyond the named fields are carried through.
type ClusterSpec struct {
	SparkVersion string            `json:"spark_version,omitempty"`
	NodeTypeID   string            `json:"node_type_id,omitempty"`
	NumWorkers   int               `json:"num_workers,omitempty"`
	Autoscale    *Autoscale        `json:"autoscale,omitempty"`
	SparkConf    map[string]string `json:"spark_conf,omitempty"`
	SparkEnvVars map[string]string `json:"spark_env_vars,omitempty"`
	CustomTags   map[string]string `json:"custom_tags,omitempty"`

	// extra holds cluster keys not named above (aws_attributes,
	// init_scripts, instance_pool_id, cluster_log_conf, ...)
	extra map[string]json.RawMessage
}

// clusterKnownKeys are the keys the typed fields of ClusterSpec emit.
var clusterKnownKeys = []string{
	"spark_version",
	"node_type_id",
	"num_workers",
	"autoscale",
	"spark_conf",
	"spark_env_vars",
	"custom_tags",
}

func (c *ClusterSpec) UnmarshalJSON(data []byte) error {
	type alias ClusterSpec
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range clusterKnownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		a.extra = raw
	}

	*c = ClusterSpec(a)
	return nil
}

func (c ClusterSpec) MarshalJSON() ([]byte, error) {
	type alias ClusterSpec
	return marshalWithExtra(alias(c), c.extra)
}

// marshalWithExtra marshals the typed value and merges the carried-through
// keys into the resulting object.
func marshalWithExtra(typed interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := doc[key]; !ok {
			doc[key] = value
		}
	}
	return json.Marshal(doc)
}

// Autoscale describes cluster autoscaling bounds.
type Autoscale struct {
	MinWorkers int `json:"min_workers"`
	MaxWorkers int `json:"max_workers"`
}

// SparkPythonTask points the job at its entry-point script.
type SparkPythonTask struct {
	PythonFile string   `json:"python_file,omitempty"`
	Parameters []string `json:"parameters,omitempty"`
}

// Library is one attached library reference.
type Library struct {
	Egg string `json:"egg,omitempty"`
	Whl string `json:"whl,omitempty"`
	Jar string `json:"jar,omitempty"`
}

// CronSchedule is the schedule block of a job definition.
type CronSchedule struct {
	QuartzCronExpression string `json:"quartz_cron_expression,omitempty"`
	TimezoneID           string `json:"timezone_id,omitempty"`
	PauseStatus          string `json:"pause_status,omitempty"`
}

// EmailNotifications lists recipients for job lifecycle events.
type EmailNotifications struct {
	OnStart   []string `json:"on_start,omitempty"`
	OnSuccess []string `json:"on_success,omitempty"`
	OnFailure []string `json:"on_failure,omitempty"`
}

// Streaming reports whether the job is a continuously-running job. The
// template convention marks streaming applications with a schedule key;
// batch jobs omit it. Presence of the key is what counts, so a template
// with "schedule": null still reads as streaming.
func (s *Spec) Streaming() bool {
	return s.hasScheduleKey || s.Schedule != nil
}

// YAML renders the spec for operator display before submission.
func (s *Spec) YAML() (string, error) {
	// Round-trip through JSON so the rendered keys are the wire-format ones
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
