// Package apperr defines the typed errors the service raises and the
// HTTP status / machine code each one carries to the response boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	CodeSession        = "SESSION_ERROR"
	CodeAIService      = "AI_SERVICE_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Authentication(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthentication, Message: message}
}

func RateLimited(message string, details any) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: CodeRateLimited, Message: message, Details: details}
}

func Session(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeSession, Message: message}
}

func AIService(message string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: CodeAIService, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error", Err: err}
}

// From converts any error into an *Error for the response boundary.
// Unknown errors map to a generic 500 so internal detail never leaks.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsSession reports whether err is a session-kind error. The review flow
// uses this to recover a missing session by creating a fresh one.
func IsSession(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == CodeSession
}
