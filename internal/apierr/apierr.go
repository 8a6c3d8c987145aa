// Package apierr defines the service error taxonomy and its wire codes.
//
// Error codes follow the format {http_prefix}_{status}_{category}_{specific}:
// "4_000_000_0000001" is the generic not-found code, "5_000_000_0000000" the
// generic internal error. Category 001 is the guest flow, 002 orders.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable wire codes.
const (
	CodeValidation    = "4_000_000_0000000"
	CodeNotFound      = "4_000_000_0000001"
	CodeBadRequest    = "4_000_000_0000002"
	CodeInternal      = "5_000_000_0000000"
	CodeUnexpected    = "5_000_000_0000001"
	CodeUnauthorized  = "4_401_000_0000000"
	CodeRoomNotFound  = "4_000_001_0000001"
	CodeRoomOccupied  = "4_000_001_0000002"
	CodeGuestRoleMiss = "5_000_001_0000001"
	CodeWorkerBusy    = "4_000_002_0000001"
	CodeAgentCreate   = "5_000_003_0000001"
)

// Error is a service-level error carrying a stable wire code, a user-facing
// message and an HTTP status. The wrapped cause is only exposed in debug
// responses outside production.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a 422 validation error.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Status: http.StatusUnprocessableEntity}
}

// NotFound returns a 404 error with the generic not-found code.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

// BadRequest returns a 400 business-rule violation.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

// Internal wraps an unexpected error into a generic 500 with a retry message.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// WithCode overrides the wire code, keeping status and message.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// From extracts an *Error from err, wrapping unknown errors as Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("An unexpected error occurred. Please try again.", err)
}
