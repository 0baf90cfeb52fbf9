// Package apperror defines the error value every layer returns for expected failures.
// The HTTP boundary renders Code, Message and Details; Err stays server-side.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal               = "INTERNAL_ERROR"
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError carries a stable machine code, a message for humans and the HTTP status to answer with.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail sets one details entry and returns e for chaining.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func New(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidation(message string) *AppError {
	return New(CodeValidation, http.StatusBadRequest, message)
}

// NewBusinessRule is a 422 with a domain-specific code.
func NewBusinessRule(code, message string) *AppError {
	return New(code, http.StatusUnprocessableEntity, message)
}

func NewNotFound(entity string, id any) *AppError {
	return New(CodeNotFound, http.StatusNotFound, entity+" not found").
		WithDetail("entity", entity).
		WithDetail("id", id)
}

func NewConflict(message string) *AppError {
	return New(CodeConflict, http.StatusConflict, message)
}

// NewConcurrentModification reports a lost optimistic-lock race; the caller may retry.
func NewConcurrentModification(entity string, id any) *AppError {
	return New(CodeConcurrentModification, http.StatusConflict, "record was modified concurrently").
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// NewInternal hides err behind a generic 500.
func NewInternal(err error) *AppError {
	e := New(CodeInternal, http.StatusInternalServerError, "internal server error")
	e.Err = err
	return e
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

func IsConcurrentModification(err error) bool {
	return HasCode(err, CodeConcurrentModification)
}
