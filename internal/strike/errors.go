package strike

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes strike store errors.
type ErrorCode string

const (
	// ErrCodeStorageUnavailable: the storage location cannot be created or opened.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	// ErrCodeWriteFailure: an insert could not complete.
	ErrCodeWriteFailure ErrorCode = "WRITE_FAILURE"

	// ErrCodeInvalidInput: a non-positive or non-numeric count, or another bad argument.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its code.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWriteFailure       = errors.New("write failure")
	ErrInvalidInput       = errors.New("invalid input")
)

// Error is a categorized strike error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failing operation (e.g. "open", "add entry").
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrStorageUnavailable:
		return e.Code == ErrCodeStorageUnavailable
	case ErrWriteFailure:
		return e.Code == ErrCodeWriteFailure
	case ErrInvalidInput:
		return e.Code == ErrCodeInvalidInput
	}
	return false
}

// NewStorageUnavailable creates a StorageUnavailable error.
func NewStorageUnavailable(op, message string, err error) *Error {
	return &Error{Code: ErrCodeStorageUnavailable, Op: op, Message: message, Err: err}
}

// NewWriteFailure creates a WriteFailure error.
func NewWriteFailure(op, message string, err error) *Error {
	return &Error{Code: ErrCodeWriteFailure, Op: op, Message: message, Err: err}
}

// NewInvalidInput creates an InvalidInput error.
func NewInvalidInput(message string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: message}
}

// IsStorageUnavailable returns true if err is a StorageUnavailable error.
// Uses errors.As to handle wrapped errors.
func IsStorageUnavailable(err error) bool {
	return hasCode(err, ErrCodeStorageUnavailable)
}

// IsWriteFailure returns true if err is a WriteFailure error.
func IsWriteFailure(err error) bool {
	return hasCode(err, ErrCodeWriteFailure)
}

// IsInvalidInput returns true if err is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrCodeInvalidInput)
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
