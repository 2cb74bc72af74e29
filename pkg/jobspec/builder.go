package jobspec

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sdhdata/dbx-deploy/pkg/config"
)

// Params carries the per-deployment values interpolated into the template.
type Params struct {
	// Name is the full job name, application plus version (e.g. "myapp-1.2.3")
	Name string

	// Tier selects the warehouse directory substitution
	Tier config.Tier

	// Egg is the DBFS path of the built application package
	Egg string

	// PythonFile is the DBFS path of the entry-point script
	PythonFile string
}

// Build loads the job template and produces the deployable spec: the
// lowercased tier is interpolated into the warehouse dir, the job name and
// entry point are overwritten, and the built package is appended to the
// library list. The template is read fresh on every call.
func Build(templatePath string, p Params) (*Spec, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, &SpecError{
			Type:    "read_error",
			Message: "failed to read job template",
			Err:     err,
			Context: templatePath,
		}
	}

	spec, err := parse(data, templatePath)
	if err != nil {
		return nil, err
	}

	dir := spec.NewCluster.SparkConf[WarehouseDirKey]
	if !strings.Contains(dir, TierPlaceholder) {
		return nil, &SpecError{
			Type:    "missing_placeholder",
			Message: fmt.Sprintf("warehouse dir %q has no %s placeholder", dir, TierPlaceholder),
			Context: templatePath,
		}
	}
	spec.NewCluster.SparkConf[WarehouseDirKey] = strings.ReplaceAll(dir, TierPlaceholder, p.Tier.Lower())

	spec.Name = p.Name
	spec.SparkPythonTask.PythonFile = p.PythonFile
	spec.Libraries = append(spec.Libraries, Library{Egg: p.Egg})

	return spec, nil
}

// parse unmarshals the template and verifies the fields the deployment
// mutates are present. A template missing any of them is unusable.
func parse(data []byte, templatePath string) (*Spec, error) {
	spec := &Spec{}
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, &SpecError{
			Type:    "parse_error",
			Message: "failed to parse job template as JSON",
			Err:     err,
			Context: templatePath,
		}
	}

	if spec.NewCluster == nil {
		return nil, missingField("new_cluster", templatePath)
	}
	if spec.NewCluster.SparkConf == nil {
		return nil, missingField("new_cluster.spark_conf", templatePath)
	}
	if _, ok := spec.NewCluster.SparkConf[WarehouseDirKey]; !ok {
		return nil, missingField("new_cluster.spark_conf."+WarehouseDirKey, templatePath)
	}
	if spec.SparkPythonTask == nil {
		return nil, missingField("spark_python_task", templatePath)
	}

	// A nil Libraries slice is ambiguous after typed unmarshaling; key
	// presence is recorded during decoding
	if !spec.hasLibrariesKey {
		return nil, missingField("libraries", templatePath)
	}

	return spec, nil
}

func missingField(field, templatePath string) *SpecError {
	return &SpecError{
		Type:    "missing_field",
		Message: fmt.Sprintf("template field %q is required", field),
		Context: templatePath,
	}
}
