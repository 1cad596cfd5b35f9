package dto

import (
	"net/http"

	"github.com/erp/catalogsync/internal/domain/integration"
)

const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when a request fails validation
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeRequestTooLarge is used when the body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeNotFound is used when the product is missing on the remote catalog
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used when another pass holds the SKU
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodePrecondition is used when the product cannot be created locally
	ErrCodePrecondition = "ERR_PRECONDITION"
	// ErrCodeUpstream is used when the remote catalog is unreachable
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeCancelled is used when the pass was cancelled or timed out
	ErrCodeCancelled = "ERR_CANCELLED"
	// ErrCodeQueueUnavailable is used when async sync is requested without a queue
	ErrCodeQueueUnavailable = "ERR_QUEUE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodePrecondition:     http.StatusUnprocessableEntity,
	ErrCodeUpstream:         http.StatusBadGateway,
	ErrCodeCancelled:        http.StatusServiceUnavailable,
	ErrCodeQueueUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCodeFor maps a synchronization error class to its API error code
func ErrorCodeFor(class integration.ErrorClass) string {
	switch class {
	case integration.ErrorClassNotFound:
		return ErrCodeNotFound
	case integration.ErrorClassConflict:
		return ErrCodeConflict
	case integration.ErrorClassPrecondition:
		return ErrCodePrecondition
	case integration.ErrorClassTransport:
		return ErrCodeUpstream
	case integration.ErrorClassCancelled:
		return ErrCodeCancelled
	default:
		return ErrCodeInternal
	}
}
