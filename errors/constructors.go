package errors

import (
	"fmt"
	"time"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *ArchiveError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ArchiveError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidCategory reports a category identifier that cannot join a catalog.
func InvalidCategory(id, reason string) *ArchiveError {
	return New(ErrCodeConfigValidation, fmt.Sprintf("invalid category '%s': %s", id, reason)).
		WithDetail("category", id)
}

// APIUnavailable wraps a transport failure talking to the archive gateway.
func APIUnavailable(endpoint string, err error) *ArchiveError {
	return Wrap(err, ErrCodeAPIUnavailable, fmt.Sprintf("archive API unreachable: %s", endpoint)).
		WithDetail("endpoint", endpoint)
}

// APIStatus reports a non-success HTTP status from the gateway.
func APIStatus(endpoint string, status int, body string) *ArchiveError {
	return New(ErrCodeAPIStatus, fmt.Sprintf("archive API returned status %d for %s", status, endpoint)).
		WithDetail("endpoint", endpoint).
		WithDetail("status", status).
		WithDetail("body", body)
}

// APIDecode wraps a response body that could not be decoded.
func APIDecode(endpoint string, err error) *ArchiveError {
	return Wrap(err, ErrCodeAPIDecode, fmt.Sprintf("failed to decode response from %s", endpoint)).
		WithDetail("endpoint", endpoint)
}

// ItemNotFound creates an archive item not found error
func ItemNotFound(id string) *ArchiveError {
	return New(ErrCodeItemNotFound, fmt.Sprintf("archive item '%s' not found", id)).
		WithDetail("item", id)
}

// InvalidInput wraps a request validation failure.
func InvalidInput(reason string, err error) *ArchiveError {
	if err == nil {
		return New(ErrCodeInvalidInput, reason)
	}
	return Wrap(err, ErrCodeInvalidInput, reason)
}

// EmptyQuery is returned when a submission has no query text left after extraction.
func EmptyQuery() *ArchiveError {
	return New(ErrCodeEmptyQuery, "query is empty")
}

// QueryTimeout creates a query timeout error
func QueryTimeout(timeout time.Duration, err error) *ArchiveError {
	return Wrap(err, ErrCodeQueryTimeout, fmt.Sprintf("query did not complete within %s", timeout)).
		WithDetail("timeout", timeout.String())
}
