package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store. Ids that cannot be parsed as the
// store's id type are reported the same way.
var ErrNotFound = errors.New("not found")

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned by the store when a unique field (the bootcamp
// name) is already taken.
var ErrDuplicate = errors.New("duplicate field value")

// ErrNoGeocodeResult is returned when a geocoding lookup yields no candidates.
var ErrNoGeocodeResult = errors.New("no geocoding result")

// Error is an application error carrying the message and HTTP status the
// fault handler will send to the client.
type Error struct {
	Message    string
	StatusCode int
}

// NewError constructs an Error.
func NewError(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationError lists every rule a record violated.
type ValidationError struct {
	Messages []string
}

func (e ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}
