// Package apierr carries an HTTP status and a client-safe message alongside an
// internal error.
package apierr

import (
	"fmt"
	"net/http"
)

const (
	MsgInvalidRequest = "Invalid request"
	MsgNotFound       = "Not found"
	MsgInternal       = "Something went wrong"
)

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

// Public is the message safe to return to clients. 5xx never leak detail.
func (e *Error) Public() string {
	switch {
	case e == nil || e.Status >= 500:
		return MsgInternal
	case e.Code != "":
		return e.Code
	case e.Status == http.StatusNotFound:
		return MsgNotFound
	default:
		return MsgInvalidRequest
	}
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error { return New(http.StatusBadRequest, MsgInvalidRequest, err) }

func NotFound(err error) *Error { return New(http.StatusNotFound, MsgNotFound, err) }

func Internal(err error) *Error { return New(http.StatusInternalServerError, "", err) }
