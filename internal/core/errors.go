package core

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Handlers map kinds to HTTP statuses;
// Conflict and Transient never reach a client.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindInvalidState    Kind = "invalid_state"
	KindInvalidInput    Kind = "invalid_input"
	KindRateLimited     Kind = "rate_limited"
	KindConflict        Kind = "conflict"
	KindTransient       Kind = "transient"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) error    { return &Error{Kind: KindInvalidState, Message: msg} }
func InvalidInput(msg string) error    { return &Error{Kind: KindInvalidInput, Message: msg} }
func RateLimited(msg string) error     { return &Error{Kind: KindRateLimited, Message: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }

func Transient(msg string, err error) error {
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindTransient for anything untyped so
// unexpected failures degrade to a generic response instead of leaking detail.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransient
}

// MessageOf returns the renderable message of err, if it carries one.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
