package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/procurement-backend/internal/platform/errs"
)

// Error carries an HTTP status and a stable machine code alongside the cause.
// Details holds human-readable reasons (validation errors, permission reasons).
type Error struct {
	Status  int
	Code    string
	Err     error
	Details []string
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

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func WithDetails(status int, code string, err error, details []string) *Error {
	return &Error{Status: status, Code: code, Err: err, Details: details}
}

// From resolves any error into an *Error, mapping the errs sentinels to statuses.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, errs.ErrForbidden):
		return New(http.StatusForbidden, "forbidden", err)
	case errors.Is(err, errs.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, errs.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, errs.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
