package jobspec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_Streaming(t *testing.T) {
	batch := &Spec{}
	assert.False(t, batch.Streaming())

	// Any schedule value marks the job as streaming
	streaming := &Spec{Schedule: &CronSchedule{}}
	assert.True(t, streaming.Streaming())
}

func TestSpec_StreamingFromDocument(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		streaming bool
	}{
		{"no schedule key", `{"name": "app"}`, false},
		{"schedule null", `{"name": "app", "schedule": null}`, true},
		{"schedule block", `{"name": "app", "schedule": {"quartz_cron_expression": "0 0 * * * ?"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &Spec{}
			require.NoError(t, json.Unmarshal([]byte(tt.document), spec))
			assert.Equal(t, tt.streaming, spec.Streaming())
		})
	}
}

func TestSpec_RoundTripKeepsUnknownKeys(t *testing.T) {
	document := `{"name": "app", "retry_on_timeout": true, "new_cluster": {"node_type_id": "Standard_DS3_v2", "aws_attributes": {"availability": "SPOT"}}}`

	spec := &Spec{}
	require.NoError(t, json.Unmarshal([]byte(document), spec))

	out, err := json.Marshal(spec)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, true, doc["retry_on_timeout"])

	cluster, ok := doc["new_cluster"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Standard_DS3_v2", cluster["node_type_id"])
	assert.Contains(t, cluster, "aws_attributes")
}

func TestSpec_YAML(t *testing.T) {
	spec := &Spec{
		Name: "app-1.0.0",
		NewCluster: &ClusterSpec{
			SparkVersion: "5.3.x-scala2.11",
			SparkConf:    map[string]string{WarehouseDirKey: "/mnt/prd"},
		},
		SparkPythonTask: &SparkPythonTask{PythonFile: "dbfs:/app-main-1.0.0.py"},
		Libraries:       []Library{{Egg: "dbfs:/app-1.0.0.egg"}},
	}

	out, err := spec.YAML()
	require.NoError(t, err)

	// Wire-format keys, not Go field names
	assert.Contains(t, out, "name: app-1.0.0")
	assert.Contains(t, out, "new_cluster:")
	assert.Contains(t, out, "spark_python_task:")
	assert.Contains(t, out, "spark.sql.warehouse.dir: /mnt/prd")
	assert.NotContains(t, out, "schedule")
}
