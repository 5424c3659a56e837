package paging

import (
	"errors"
	"fmt"

	"github.com/ncobase/pager/ecode"
	"github.com/ncobase/pager/net/resp"
)

var (
	// ErrBackendUnavailable marks a backend that answered with a failure status.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNilBackend is returned when no backend was supplied.
	ErrNilBackend = errors.New("nil backend")
)

// Error is the single failure type returned by Paginate. Message is safe to
// show to clients; Err keeps the cause for logs.
type Error struct {
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// AsException converts e into the HTTP failure envelope.
func (e *Error) AsException() *resp.Exception {
	if e == nil {
		return resp.InternalServer(ecode.Text(ecode.ServerErr))
	}
	return &resp.Exception{Status: e.Status, Code: e.Code, Message: e.Message}
}

func newError(backend string, err error) *Error {
	return &Error{
		Status:  ecode.ToHTTPStatus(ecode.ServerErr),
		Code:    ecode.ServerErr,
		Message: fmt.Sprintf("failed to load page from %s", backend),
		Err:     err,
	}
}

// AsError returns err as *Error, wrapping anything else as an internal error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{
		Status:  ecode.ToHTTPStatus(ecode.ServerErr),
		Code:    ecode.ServerErr,
		Message: ecode.Text(ecode.ServerErr),
		Err:     err,
	}
}
