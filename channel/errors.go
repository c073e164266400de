// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Contract errors. They are returned for calls, which can never succeed
// and must not be retried.
var (
	ErrWrongRole       = errors.New("operation is not permitted for the channel role")
	ErrEmptyPayload    = errors.New("empty payload")
	ErrMessageTooLarge = errors.New("message is too large for the channel")
	ErrLengthMismatch  = errors.New("buffer length does not match the next message")
	ErrCorruptHeader   = errors.New("message header is out of bounds")
	ErrClosed          = errors.New("channel is closed")
	ErrInvalidConfig   = errors.New("invalid channel config")
)

// Errors returned by the retry helpers, when they give up.
var (
	ErrFull   = errors.New("channel is full")
	ErrNoData = errors.New("channel has no data")
)

// ResourceError is returned, when the shared region or its lock
// could not be created, opened or mapped.
type ResourceError struct {
	Op   string
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("channel %q: %s: %v", e.Name, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Cause is to implement pkg/errors causer.
func (e *ResourceError) Cause() error {
	return e.Err
}

func resourceErr(op, name string, err error) error {
	return &ResourceError{Op: op, Name: name, Err: err}
}
