package apperrors

import (
	"strings"
)

type appError struct {
	msg        string
	base       error   // the error this one was derived from
	causes     []error // attached causes, in the order they were added
	statuscode int
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by the messages of all attached causes.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.causes {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the base error and every cause to errors.Is / errors.As.
func (e *appError) Unwrap() []error {
	if e.base == nil {
		return e.causes
	}
	return append([]error{e.base}, e.causes...)
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		base:       e,
		causes:     nonNil(errs),
		statuscode: e.statuscode,
	}
}

func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

func nonNil(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
