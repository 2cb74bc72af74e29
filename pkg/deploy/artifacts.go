package deploy

import "fmt"

// Artifacts are the DBFS locations of one built application version,
// derived from the library root layout the build pipeline uploads to.
type Artifacts struct {
	// JobName is the versioned job display name, "{application}-{version}"
	JobName string

	// Egg is the packaged application, "{root}/{app}/{app}-{version}.egg"
	Egg string

	// PythonFile is the entry point, "{root}/{app}/{app}-main-{version}.py"
	PythonFile string
}

// BuildArtifacts computes the artifact locations for an application version.
func BuildArtifacts(libraryRoot, application, version string) Artifacts {
	return Artifacts{
		JobName:    fmt.Sprintf("%s-%s", application, version),
		Egg:        fmt.Sprintf("%s/%s/%s-%s.egg", libraryRoot, application, application, version),
		PythonFile: fmt.Sprintf("%s/%s/%s-main-%s.py", libraryRoot, application, application, version),
	}
}
