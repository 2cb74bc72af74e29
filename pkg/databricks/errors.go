package databricks

import "fmt"

// APIError represents an error response from the Jobs API
type APIError struct {
	StatusCode int    // HTTP status code
	ErrorCode  string // Databricks error code (e.g. RESOURCE_DOES_NOT_EXIST)
	Message    string // Human-readable error message
	Endpoint   string // API endpoint the request was made against
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("Databricks API error %s (HTTP %d) on %s: %s", e.ErrorCode, e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("Databricks API error (HTTP %d) on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// IsNotFoundError checks if the error means the referenced resource does not exist
func IsNotFoundError(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == 404 || apiErr.ErrorCode == "RESOURCE_DOES_NOT_EXIST"
	}
	return false
}

// IsAuthenticationError checks if the error is related to credentials
func IsAuthenticationError(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
