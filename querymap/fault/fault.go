package fault

import "errors"

// Codes mirror the HTTP statuses callers map these failures onto, but the
// package itself carries no HTTP machinery.
const (
	CodeNotFound    = 404
	CodeWriteFailed = 422
)

const defaultNotFoundMessage = "resource not found"

// Error is a code-bearing failure surfaced by repository operations.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given message. The code defaults to
// CodeNotFound when omitted.
func New(message string, code ...int) *Error {
	c := CodeNotFound
	if len(code) > 0 {
		c = code[0]
	}
	return &Error{Message: message, Code: c}
}

// NotFound creates a CodeNotFound Error, with a default message when none is
// given.
func NotFound(message ...string) *Error {
	msg := defaultNotFoundMessage
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return New(msg, CodeNotFound)
}

// WriteFailed creates a CodeWriteFailed Error.
func WriteFailed(message string) *Error {
	return New(message, CodeWriteFailed)
}

// CodeOf returns the code carried by err (unwrapping as needed), or 0 when
// err carries no fault.
func CodeOf(err error) int {
	var f *Error
	if errors.As(err, &f) {
		return f.Code
	}
	return 0
}

// IsNotFound reports whether err carries a CodeNotFound fault.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
