// Package errors provides unified error handling for cascade nodes.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection following RFC 7807, plus the codes that classify
// cascade unit outcomes.
package errors
