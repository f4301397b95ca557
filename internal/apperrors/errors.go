// Package apperrors classifies collaborator failures and renders the
// messages published on the catalog error channel.
package apperrors

import (
	stdErrors "errors"
	"fmt"
)

type Kind string

const (
	// KindClient is a failure that produced no server response.
	KindClient Kind = "CLIENT"
	// KindBackend is a failure carrying a server status code.
	KindBackend Kind = "BACKEND"
)

type Error struct {
	kind   Kind
	status int
	detail string
	cause  error
}

// Client wraps a transport failure that never reached the backend.
func Client(err error) *Error {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return &Error{kind: KindClient, detail: detail, cause: err}
}

// Backend describes an unsuccessful response from the backend.
func Backend(status int, detail string) *Error {
	return &Error{kind: KindBackend, status: status, detail: detail}
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindClient
	}
	return e.kind
}

func (e *Error) Status() int {
	if e == nil {
		return 0
	}
	return e.status
}

func (e *Error) Detail() string {
	if e == nil {
		return ""
	}
	return e.detail
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.kind == KindBackend {
		return fmt.Sprintf("%s %d: %s", e.kind, e.status, e.detail)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.detail)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts an *Error from err's chain.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Message renders err for display. Errors without a classification are
// treated as client-side failures.
func Message(err error) string {
	if err == nil {
		return ""
	}
	typed := As(err)
	if typed == nil {
		typed = Client(err)
	}
	if typed.Kind() == KindBackend {
		return fmt.Sprintf("Backend returned code %d: %s", typed.Status(), typed.Detail())
	}
	return fmt.Sprintf("An error occurred: %s", typed.Detail())
}
