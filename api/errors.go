package api

import (
	"errors"
	"fmt"
)

// Kind identifies a class of API failure
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConnection
	KindUploadRejected
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection"
	case KindUploadRejected:
		return "upload_rejected"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

// Error is the base type of every failure reported by this client.
// Use errors.Is against the sentinels below to match a kind, or errors.As
// to inspect the status or message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind only, so a sentinel matches every error of its kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "404 not found"}
	ErrConnection      = &Error{Kind: KindConnection, Message: "could not connect to the API"}
	ErrUploadRejected  = &Error{Kind: KindUploadRejected, Message: "file not uploaded"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
)

// NotFound is returned for a 404 on any GET
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Status: 404, Message: "404 not found"}
}

// ConnectionFailure is returned for any unexpected HTTP status
func ConnectionFailure(status int) *Error {
	return &Error{
		Kind:    KindConnection,
		Status:  status,
		Message: fmt.Sprintf("could not connect to the API, response status: %d", status),
	}
}

// UploadRejected is returned when the upload endpoint answers 200 with success=false
func UploadRejected(message string) *Error {
	return &Error{Kind: KindUploadRejected, Status: 200, Message: message}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the HTTP status carried by err, or 0 if there is none
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
