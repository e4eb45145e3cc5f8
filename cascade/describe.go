package cascade

import (
	stderrors "errors"
	"fmt"

	"github.com/kbukum/cascade/errors"
	"github.com/kbukum/cascade/httpclient"
)

// panicError carries a value recovered from a panic.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprint(p.value)
}

// describeError renders err as "<category>: <detail>" for result messages.
// Classified client errors and application errors use their code as the
// category; anything else uses its Go type.
func describeError(err error) string {
	var pe panicError
	if stderrors.As(err, &pe) {
		return "panic: " + pe.Error()
	}
	var he *httpclient.Error
	if stderrors.As(err, &he) {
		return he.Category() + ": " + he.Message
	}
	if appErr, ok := errors.AsAppError(err); ok {
		detail := appErr.Message
		if appErr.Cause != nil {
			detail += " " + appErr.Cause.Error()
		}
		return string(appErr.Code) + ": " + detail
	}
	return fmt.Sprintf("%T: %s", err, err.Error())
}
