package backend

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNetwork      = errors.New("network error")
	ErrStorage      = errors.New("storage error")
)

// Error is a backend failure of one of the kinds above with a detail
// string suitable for showing to the user.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return "Not found"
	case ErrUnauthorized:
		return "Unauthorized: " + e.Reason
	case ErrNetwork:
		return "Network error: " + e.Reason
	case ErrStorage:
		return "Storage error: " + e.Reason
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound returns an Error of kind ErrNotFound.
func NotFound() *Error {
	return &Error{Kind: ErrNotFound}
}

// Unauthorized returns an Error of kind ErrUnauthorized.
func Unauthorized(reason string) *Error {
	return &Error{Kind: ErrUnauthorized, Reason: reason}
}

// Network returns an Error of kind ErrNetwork.
func Network(format string, args ...any) *Error {
	return &Error{Kind: ErrNetwork, Reason: fmt.Sprintf(format, args...)}
}

// Storage returns an Error of kind ErrStorage.
func Storage(err error) *Error {
	return &Error{Kind: ErrStorage, Reason: err.Error()}
}
