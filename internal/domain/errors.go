package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAccessDenied    = errors.New("you do not have access to this subject chat")
	ErrNotFound        = errors.New("not found")
	ErrInvalidContent  = errors.New("message content cannot be empty")
)

// Error codes exposed to HTTP and realtime clients.
const (
	CodeUnauthenticated = "UNAUTHORIZED"
	CodeAccessDenied    = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidContent  = "INVALID_CONTENT"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInternal        = "INTERNAL_ERROR"
)

// Code classifies err into one of the client-facing error codes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrAccessDenied):
		return CodeAccessDenied
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidContent):
		return CodeInvalidContent
	default:
		return CodeInternal
	}
}
