// Package apperror defines the error taxonomy surfaced to API callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class in the response envelope.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNotFound         Code = "NOT_FOUND"
	CodeGroupNotFound    Code = "GROUP_NOT_FOUND"
	CodeInvalidReference Code = "INVALID_REFERENCE"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeAIUnavailable    Code = "AI_UNAVAILABLE"
	CodeInternal         Code = "INTERNAL_ERROR"
)

var codeMessages = map[Code]string{
	CodeValidation:       "Invalid request",
	CodeNotFound:         "Resource not found",
	CodeGroupNotFound:    "Question group not found",
	CodeInvalidReference: "Referenced exam does not exist",
	CodeUnauthorized:     "Authentication required",
	CodeForbidden:        "Permission denied",
	CodeAIUnavailable:    "AI answer service is unavailable",
	CodeInternal:         "Internal server error",
}

// Message returns the default message for the code.
func (c Code) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return codeMessages[CodeInternal]
}

// HTTPStatus returns the HTTP status the code is rendered with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeGroupNotFound:
		return http.StatusNotFound
	case CodeInvalidReference:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeAIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error carrying a Code and a caller-safe message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Code == CodeInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code) *Error {
	return &Error{Code: code, Message: code.Message()}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. The message stays the code default so that
// internal details never leak into responses.
func Wrap(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: code.Message(), Err: err}
}

// From extracts an *Error from err's chain, treating anything else as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func Validation(format string, args ...interface{}) *Error {
	return Newf(CodeValidation, format, args...)
}

func NotFound(resource string) *Error {
	return Newf(CodeNotFound, "%s not found", resource)
}

func Internal(err error) *Error {
	return Wrap(err, CodeInternal)
}
