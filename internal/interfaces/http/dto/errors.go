package dto

import "net/http"

// Error codes shared with the domain layer. Domain errors carry these
// codes verbatim, so handlers can map them straight to HTTP statuses.
const (
	// ErrCodeValidation is used for invalid input, including malformed
	// request bodies and rule violations detected by the domain
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when a unique constraint would be violated
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeInternal is used for unexpected server-side failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeDatabase is used when a storage operation fails
	ErrCodeDatabase = "DATABASE_ERROR"
)

// Codes emitted by the HTTP layer itself, outside the domain error set
const (
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeDatabase:      http.StatusInternalServerError,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
