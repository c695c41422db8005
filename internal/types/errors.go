package types

import "net/http"

// Error codes returned in API error bodies
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeAuthRequired       = "auth_required"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternal           = "internal_error"
)

// APIError is an error that carries the HTTP status and body it should be
// rendered with.
type APIError struct {
	Status int
	Code   string
	Detail string
	// Fields maps request fields to what is wrong with them
	Fields map[string]string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(status int, code, detail string, err error) *APIError {
	return &APIError{Status: status, Code: code, Detail: detail, Err: err}
}

// Unavailable wraps err as a 503 whose detail is the error text.
func Unavailable(err error) *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Code: ErrCodeServiceUnavailable, Detail: err.Error(), Err: err}
}
