package services

import "errors"

// Error kinds returned by the service layer. Handlers map them to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrUpstream     = errors.New("upstream failure")
)

// Error carries a client-facing detail message alongside its kind.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

// Error returns the detail, followed by the cause when there is one.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

// Is matches the kind so callers can use errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapError(kind error, detail string, err error) error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}
