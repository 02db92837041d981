package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrFilePathRequired is returned when a request carries no storage path.
	ErrFilePathRequired = errors.New("file path is required")
	// ErrEmptyFile is returned when the stored object has no bytes.
	ErrEmptyFile = errors.New("file is empty")
	// ErrAPIKeyMissing is returned before any network call when no API key is configured.
	ErrAPIKeyMissing = errors.New("openai api key not configured")
	// ErrInvalidResponseFormat is returned when the completion envelope has no choices.
	ErrInvalidResponseFormat = errors.New("invalid response format")
	// ErrParseAnalysis is returned when the message content is not a JSON object.
	ErrParseAnalysis = errors.New("failed to parse AI analysis response")
)

// StorageError wraps a failed download from the storage collaborator.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to download file: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// APIError is a non-2xx reply from the remote completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote API error: %d - %s", e.StatusCode, e.Body)
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	var (
		storageErr *StorageError
		apiErr     *APIError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrFilePathRequired):
		return "missing_input"
	case errors.Is(err, ErrAPIKeyMissing):
		return "config_missing"
	case errors.As(err, &storageErr), errors.Is(err, ErrEmptyFile):
		return "storage_failure"
	case errors.As(err, &apiErr):
		return "api_http_failure"
	case errors.Is(err, ErrInvalidResponseFormat):
		return "invalid_response"
	case errors.Is(err, ErrParseAnalysis):
		return "parse_failure"
	default:
		return "request_failure"
	}
}
