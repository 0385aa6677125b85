package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest signals a malformed or non-whitelisted request.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")
	// ErrMethodNotAllowed signals a multi operation that is not enabled.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrInvalidConfig signals a programmer error in service construction.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUpstream signals a Solr or network failure.
	ErrUpstream = errors.New("solr request failed")
)

// BadRequestError wraps ErrBadRequest with the offending query key.
type BadRequestError struct {
	Key    string
	Reason string
}

func (e *BadRequestError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: invalid query parameter %q", ErrBadRequest.Error(), e.Key)
	}
	return fmt.Sprintf("%s: %s %q", ErrBadRequest.Error(), e.Reason, e.Key)
}

func (e *BadRequestError) Unwrap() error { return ErrBadRequest }

// NewBadRequest creates a bad request error for a key.
func NewBadRequest(key, reason string) error {
	return &BadRequestError{Key: key, Reason: reason}
}
