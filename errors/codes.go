package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Cascade outcomes. A cascade run never returns these to its caller; they
// classify unit outcomes for logs, metrics and the receiving endpoint.
const (
	// ErrCodeLocalAction indicates the local action returned an error or panicked.
	ErrCodeLocalAction ErrorCode = "LOCAL_ACTION_FAILED"
	// ErrCodeSelfIdentification indicates the local node identifier could not be resolved.
	ErrCodeSelfIdentification ErrorCode = "SELF_IDENTIFICATION_FAILED"
	// ErrCodeRemoteTransport indicates a peer could not be called or its response not parsed.
	ErrCodeRemoteTransport ErrorCode = "REMOTE_TRANSPORT_FAILED"
	// ErrCodeCascadeDisabled marks the placeholder produced when cascading is turned off.
	ErrCodeCascadeDisabled ErrorCode = "CASCADE_DISABLED"
	// ErrCodeUnexpectedTask indicates a failure that escaped a unit of work.
	ErrCodeUnexpectedTask ErrorCode = "UNEXPECTED_TASK_FAILURE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeRemoteTransport:    true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Cascades never retry on their own; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
