package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Tier identifies the deployment stage a job is rolled out to.
type Tier string

const (
	TierPRD Tier = "PRD"
	TierDEV Tier = "DEV"
)

// Lower returns the tier name as used in warehouse paths (e.g. "prd").
func (t Tier) Lower() string {
	return strings.ToLower(string(t))
}

// Config represents the deployment configuration resolved from the build
// environment. Host/token pairs are loaded for both tiers; which pair is
// actually required depends on the release classification, so those are
// validated lazily via Workspace.
type Config struct {
	// Build pipeline inputs (Azure DevOps predefined variables)
	ApplicationName string `env:"BUILD_DEFINITIONNAME" validate:"required"`
	Branch          string `env:"BUILD_SOURCEBRANCHNAME" validate:"required"`

	// Databricks workspace credentials, one pair per tier
	HostPRD  string `env:"AZURE_DATABRICKS_HOST_PRD"`
	TokenPRD string `env:"AZURE_DATABRICKS_TOKEN_PRD"`
	HostDEV  string `env:"AZURE_DATABRICKS_HOST_DEV"`
	TokenDEV string `env:"AZURE_DATABRICKS_TOKEN_DEV"`

	// Deployment inputs
	TemplatePath string `env:"JOB_TEMPLATE_PATH" default:"job_config.json"`
	LibraryRoot  string `env:"LIBRARY_ROOT" default:"dbfs:/mnt/sdhdev/libraries"`
}

// Workspace holds the host/token pair for one Databricks workspace.
type Workspace struct {
	Host  string
	Token string
}

// Workspace returns the credentials for the given tier. A missing host or
// token is fatal here, before any remote call is made.
func (c *Config) Workspace(tier Tier) (Workspace, error) {
	var ws Workspace
	switch tier {
	case TierPRD:
		ws = Workspace{Host: c.HostPRD, Token: c.TokenPRD}
	case TierDEV:
		ws = Workspace{Host: c.HostDEV, Token: c.TokenDEV}
	default:
		return Workspace{}, fmt.Errorf("unknown deployment tier %q", tier)
	}

	if ws.Host == "" {
		return Workspace{}, fmt.Errorf("AZURE_DATABRICKS_HOST_%s is required", tier)
	}
	if ws.Token == "" {
		return Workspace{}, fmt.Errorf("AZURE_DATABRICKS_TOKEN_%s is required", tier)
	}
	return ws, nil
}

// Provider defines the interface for configuration management
// This enables dependency injection and easy testing
type Provider interface {
	Load() (*Config, error)
	Validate(*Config) error
	LoadFromEnv() (*Config, error)
}

// Loader implements the Provider interface
type Loader struct {
	envLoader EnvLoader
}

// EnvLoader defines interface for environment variable loading
// This allows for testing with mock environment variables
type EnvLoader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSEnvLoader implements EnvLoader using os package
type OSEnvLoader struct{}

func (o *OSEnvLoader) Getenv(key string) string {
	return os.Getenv(key)
}

func (o *OSEnvLoader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// NewLoader creates a new configuration loader
func NewLoader() Provider {
	return &Loader{
		envLoader: &OSEnvLoader{},
	}
}

// NewLoaderWithEnv creates a loader with custom environment loader (for testing)
func NewLoaderWithEnv(envLoader EnvLoader) Provider {
	return &Loader{
		envLoader: envLoader,
	}
}

// Load loads configuration from environment variables
func (l *Loader) Load() (*Config, error) {
	return l.LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func (l *Loader) LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Build pipeline inputs
	config.ApplicationName = l.envLoader.Getenv("BUILD_DEFINITIONNAME")
	config.Branch = l.envLoader.Getenv("BUILD_SOURCEBRANCHNAME")

	// Workspace credentials for both tiers; requiredness is per-tier and
	// decided by the release classification, see Workspace
	config.HostPRD = l.envLoader.Getenv("AZURE_DATABRICKS_HOST_PRD")
	config.TokenPRD = l.envLoader.Getenv("AZURE_DATABRICKS_TOKEN_PRD")
	config.HostDEV = l.envLoader.Getenv("AZURE_DATABRICKS_HOST_DEV")
	config.TokenDEV = l.envLoader.Getenv("AZURE_DATABRICKS_TOKEN_DEV")

	// Deployment inputs with defaults
	config.TemplatePath = l.getEnvWithDefault("JOB_TEMPLATE_PATH", "job_config.json")
	config.LibraryRoot = l.getEnvWithDefault("LIBRARY_ROOT", "dbfs:/mnt/sdhdev/libraries")

	// Validate configuration
	if err := l.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (l *Loader) Validate(config *Config) error {
	var errors []string

	if config.ApplicationName == "" {
		errors = append(errors, "BUILD_DEFINITIONNAME is required")
	}

	if config.Branch == "" {
		errors = append(errors, "BUILD_SOURCEBRANCHNAME is required")
	}

	// Hosts are optional per-tier but must be well-formed when present
	if config.HostPRD != "" {
		if err := l.validateURL(config.HostPRD); err != nil {
			errors = append(errors, fmt.Sprintf("AZURE_DATABRICKS_HOST_PRD is invalid: %v", err))
		}
	}
	if config.HostDEV != "" {
		if err := l.validateURL(config.HostDEV); err != nil {
			errors = append(errors, fmt.Sprintf("AZURE_DATABRICKS_HOST_DEV is invalid: %v", err))
		}
	}

	if config.TemplatePath == "" {
		errors = append(errors, "JOB_TEMPLATE_PATH cannot be empty")
	}

	if config.LibraryRoot == "" {
		errors = append(errors, "LIBRARY_ROOT cannot be empty")
	}

	if len(errors) > 0 {
		return &ValidationError{Errors: errors}
	}

	return nil
}

// ValidationError represents configuration validation errors
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Helper methods

func (l *Loader) getEnvWithDefault(key, defaultValue string) string {
	if value := l.envLoader.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (l *Loader) validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
