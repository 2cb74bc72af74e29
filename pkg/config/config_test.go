package config

import (
	"strings"
	"testing"
)

// MockEnvLoader implements EnvLoader for testing
type MockEnvLoader struct {
	vars map[string]string
}

func NewMockEnvLoader(vars map[string]string) *MockEnvLoader {
	return &MockEnvLoader{vars: vars}
}

func (m *MockEnvLoader) Getenv(key string) string {
	return m.vars[key]
}

func (m *MockEnvLoader) LookupEnv(key string) (string, bool) {
	val, exists := m.vars[key]
	return val, exists
}

func TestConfig_LoadFromEnv_Success(t *testing.T) {
	envVars := map[string]string{
		"BUILD_DEFINITIONNAME":       "myapp",
		"BUILD_SOURCEBRANCHNAME":     "master",
		"AZURE_DATABRICKS_HOST_DEV":  "https://westeurope-dev.azuredatabricks.net",
		"AZURE_DATABRICKS_TOKEN_DEV": "dapi-dev-token",
		"JOB_TEMPLATE_PATH":          "/agent/job_config.json",
		"LIBRARY_ROOT":               "dbfs:/mnt/libs",
	}

	loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
	config, err := loader.Load()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.ApplicationName != "myapp" {
		t.Errorf("Expected BUILD_DEFINITIONNAME 'myapp', got '%s'", config.ApplicationName)
	}
	if config.Branch != "master" {
		t.Errorf("Expected BUILD_SOURCEBRANCHNAME 'master', got '%s'", config.Branch)
	}
	if config.TemplatePath != "/agent/job_config.json" {
		t.Errorf("Expected JOB_TEMPLATE_PATH '/agent/job_config.json', got '%s'", config.TemplatePath)
	}
	if config.LibraryRoot != "dbfs:/mnt/libs" {
		t.Errorf("Expected LIBRARY_ROOT 'dbfs:/mnt/libs', got '%s'", config.LibraryRoot)
	}
}

func TestConfig_LoadFromEnv_WithDefaults(t *testing.T) {
	envVars := map[string]string{
		"BUILD_DEFINITIONNAME":   "myapp",
		"BUILD_SOURCEBRANCHNAME": "master",
		// JOB_TEMPLATE_PATH and LIBRARY_ROOT not set - should use defaults
	}

	loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
	config, err := loader.Load()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.TemplatePath != "job_config.json" {
		t.Errorf("Expected default JOB_TEMPLATE_PATH 'job_config.json', got '%s'", config.TemplatePath)
	}
	if config.LibraryRoot != "dbfs:/mnt/sdhdev/libraries" {
		t.Errorf("Expected default LIBRARY_ROOT 'dbfs:/mnt/sdhdev/libraries', got '%s'", config.LibraryRoot)
	}
}

func TestConfig_Validation_MissingRequired(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected string
	}{
		{
			name:     "missing BUILD_DEFINITIONNAME",
			envVars:  map[string]string{"BUILD_SOURCEBRANCHNAME": "master"},
			expected: "BUILD_DEFINITIONNAME is required",
		},
		{
			name:     "missing BUILD_SOURCEBRANCHNAME",
			envVars:  map[string]string{"BUILD_DEFINITIONNAME": "myapp"},
			expected: "BUILD_SOURCEBRANCHNAME is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoaderWithEnv(NewMockEnvLoader(tt.envVars))
			_, err := loader.Load()

			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error to contain '%s', got: %v", tt.expected, err)
			}
		})
	}
}

func TestConfig_Validation_InvalidHost(t *testing.T) {
	envVars := map[string]string{
		"BUILD_DEFINITIONNAME":      "myapp",
		"BUILD_SOURCEBRANCHNAME":    "master",
		"AZURE_DATABRICKS_HOST_PRD": "not-a-url",
	}

	loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
	_, err := loader.Load()

	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "AZURE_DATABRICKS_HOST_PRD is invalid") {
		t.Errorf("Expected host validation error, got: %v", err)
	}
}

func TestConfig_Workspace(t *testing.T) {
	cfg := &Config{
		HostPRD:  "https://prd.azuredatabricks.net",
		TokenPRD: "dapi-prd",
		HostDEV:  "https://dev.azuredatabricks.net",
		TokenDEV: "dapi-dev",
	}

	ws, err := cfg.Workspace(TierPRD)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if ws.Host != "https://prd.azuredatabricks.net" || ws.Token != "dapi-prd" {
		t.Errorf("Unexpected PRD workspace: %+v", ws)
	}

	ws, err = cfg.Workspace(TierDEV)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if ws.Host != "https://dev.azuredatabricks.net" || ws.Token != "dapi-dev" {
		t.Errorf("Unexpected DEV workspace: %+v", ws)
	}
}

func TestConfig_Workspace_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		tier     Tier
		expected string
	}{
		{
			name:     "missing host",
			cfg:      &Config{TokenPRD: "dapi-prd"},
			tier:     TierPRD,
			expected: "AZURE_DATABRICKS_HOST_PRD is required",
		},
		{
			name:     "missing token",
			cfg:      &Config{HostDEV: "https://dev.azuredatabricks.net"},
			tier:     TierDEV,
			expected: "AZURE_DATABRICKS_TOKEN_DEV is required",
		},
		{
			name:     "unknown tier",
			cfg:      &Config{},
			tier:     Tier("ACC"),
			expected: "unknown deployment tier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Workspace(tt.tier)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error to contain '%s', got: %v", tt.expected, err)
			}
		})
	}
}

func TestTier_Lower(t *testing.T) {
	if TierPRD.Lower() != "prd" {
		t.Errorf("Expected 'prd', got '%s'", TierPRD.Lower())
	}
	if TierDEV.Lower() != "dev" {
		t.Errorf("Expected 'dev', got '%s'", TierDEV.Lower())
	}
}
