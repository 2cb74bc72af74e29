package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DotEnvLoader implements Provider, reading an optional .env file before the
// process environment
type DotEnvLoader struct {
	*Loader
	envFile string
}

// NewDotEnvLoader creates a configuration loader backed by the given .env
// file, or .env in the current directory when path is empty. A missing file
// is not an error; a pipeline agent normally provides everything through
// real environment variables.
func NewDotEnvLoader(envFile string) Provider {
	if envFile == "" {
		envFile = ".env"
	}

	return &DotEnvLoader{
		Loader:  &Loader{envLoader: &OSEnvLoader{}},
		envFile: envFile,
	}
}

// Load loads configuration from the .env file and environment variables
func (d *DotEnvLoader) Load() (*Config, error) {
	if _, err := os.Stat(d.envFile); err == nil {
		// Overload so file values win over pre-set environment variables
		if err := godotenv.Overload(d.envFile); err != nil {
			return nil, NewEnvFileError(d.envFile, err)
		}
	}

	return d.LoadFromEnv()
}

// EnvFileError represents an error loading a .env file
type EnvFileError struct {
	FilePath string
	Err      error
}

func NewEnvFileError(filePath string, err error) *EnvFileError {
	return &EnvFileError{
		FilePath: filePath,
		Err:      err,
	}
}

func (e *EnvFileError) Error() string {
	return "failed to load .env file '" + e.FilePath + "': " + e.Err.Error()
}

func (e *EnvFileError) Unwrap() error {
	return e.Err
}
