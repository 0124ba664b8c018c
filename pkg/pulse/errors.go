package pulse

import "fmt"

// ActionError is the opaque string-carrying error for failed Action
// dispatches. Action work functions may return any error; ActionError exists
// for hosts that only have a message to report (for example, an RPC boundary
// that serializes failures as strings).
type ActionError struct {
	Message string
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return e.Message
}

// NewActionError builds an ActionError from a plain string.
func NewActionError(message string) *ActionError {
	return &ActionError{Message: message}
}

// ActionErrorf builds an ActionError from a format string.
func ActionErrorf(format string, args ...any) *ActionError {
	return &ActionError{Message: fmt.Sprintf(format, args...)}
}
