package rest

import "github.com/kbukum/cascade/httpclient"

// Convenience re-exports so REST client users don't need to import
// httpclient directly for error checking.

// IsTimeout checks if the error is a timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsConnection checks if the error is a connection failure.
func IsConnection(err error) bool { return httpclient.IsConnection(err) }

// IsServerError checks if the error is a 5xx server error.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }
