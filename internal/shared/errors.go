package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Prediction service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEmptyResponse      = fmt.Errorf("empty response body")

	// Upload session errors
	ErrNoFileSelected   = fmt.Errorf("no file selected")
	ErrUploadInProgress = fmt.Errorf("upload already in progress")
	ErrNoResult         = fmt.Errorf("no result available")
	ErrResultReleased   = fmt.Errorf("result has been released")
	ErrSessionClosed    = fmt.Errorf("session closed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
