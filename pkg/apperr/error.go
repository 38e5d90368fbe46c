// Package apperr defines the mailbox simulator's error taxonomy: a
// single structured error type keyed by Kind instead of an HTTP status,
// since the simulator exposes no network layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories every mailbox operation can
// raise.
type Kind string

const (
	KindUserNotFound     Kind = "USER_NOT_FOUND"
	KindResourceNotFound Kind = "RESOURCE_NOT_FOUND"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindInvalidQuery     Kind = "INVALID_QUERY"
	KindInvalidRaw       Kind = "INVALID_RAW"
	KindConflict         Kind = "CONFLICT"
)

// AppError is the structured error every public operation returns on
// failure. There is no "partial result" shape: an operation either
// returns a full resource or one of these.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New builds an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap builds an AppError of the given kind around a lower-level cause.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// UserNotFound reports that id matched no known user primary key or
// profile email (§4.A EnsureUser).
func UserNotFound(id string) *AppError {
	return New(KindUserNotFound, fmt.Sprintf("no such user: %s", id))
}

// ResourceNotFound reports that a message/thread/draft/label/attachment
// ID was not found in the relevant map.
func ResourceNotFound(resource, id string) *AppError {
	return New(KindResourceNotFound, fmt.Sprintf("%s not found: %s", resource, id))
}

// InvalidArgument reports a caller-supplied value that fails basic input
// validation (wrong type, pure-whitespace query, negative maxResults...).
func InvalidArgument(message string) *AppError {
	return New(KindInvalidArgument, message)
}

// InvalidQuery reports a search-query syntax error, naming the offending
// token (§4.D.11).
func InvalidQuery(token string) *AppError {
	return New(KindInvalidQuery, fmt.Sprintf("invalid query at token: %q", token))
}

// InvalidRaw reports a malformed base64url MIME blob (§4.B).
func InvalidRaw(reason string) *AppError {
	return New(KindInvalidRaw, fmt.Sprintf("invalid raw message: %s", reason))
}

// Conflict reports a state conflict (e.g. creating a label whose name is
// already taken).
func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

// Is reports whether err is an *AppError of the given kind.
func Is(err error, kind Kind) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// AsAppError extracts the *AppError from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
