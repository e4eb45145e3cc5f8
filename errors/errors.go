package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for an operation that ran past its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// --- Cascade Constructors ---

// LocalActionFailed wraps the error returned (or panic raised) by a local action.
func LocalActionFailed(action string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeLocalAction, Message: fmt.Sprintf("Failed to perform action: %s", action),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"action": action}, Cause: cause,
	}
}

// SelfIdentificationFailed reports that the local node cannot tell itself apart
// from its peers, so cascading is skipped for the run.
func SelfIdentificationFailed(action string) *AppError {
	return &AppError{
		Code: ErrCodeSelfIdentification,
		Message: "Unable to self-identify server, so won't cascade (to prevent infinite loops). " +
			"Only the server receiving this command will perform action: " + action,
		HTTPStatus: http.StatusOK, Retryable: false,
		Details: map[string]any{"action": action},
	}
}

// RemoteTransportFailed wraps a failure to reach a peer or to parse its response.
func RemoteTransportFailed(host string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRemoteTransport, Message: fmt.Sprintf("Cascade to %s failed.", host),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"host": host}, Cause: cause,
	}
}

// UnexpectedTask wraps a failure that escaped a unit of work.
func UnexpectedTask(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnexpectedTask, Message: "A cascade task failed unexpectedly.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
