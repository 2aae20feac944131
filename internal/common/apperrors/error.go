// Package apperrors provides chainable error values. An Error can derive new
// errors from itself, attach causes and carry an HTTP status code, while
// staying compatible with errors.Is and errors.As through the whole chain.
package apperrors

// Error extends the standard error interface with derivation and wrapping.
// All methods return a new Error; receivers are never mutated.
type Error interface {
	error
	Unwrap() []error // support for errors.Is / errors.As over base and causes

	New(msg string) Error                  // new error deriving from the current one
	MsgErr(msg string, err ...error) Error // new message with extra causes attached
	SetStatusCode(int) Error               // copy with an HTTP status code
	StatusCode() int                       // status code, 0 if never set
	ErrorAll() string                      // message followed by every cause
}
