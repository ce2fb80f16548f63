package apierr

import "fmt"

// Error is the boundary error type: pipeline stages attach the HTTP
// status and stable error code the API surface must report.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Detail is the human-readable message for the response body.
func (e *Error) Detail() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Newf(status int, code, format string, args ...interface{}) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}
