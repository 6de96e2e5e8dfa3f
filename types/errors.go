package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError so route handlers can map it to an HTTP
// status without string matching.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindSlotConflict      ErrorKind = "slot_conflict"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindNotFound          ErrorKind = "not_found"
)

// AppError is the error surface of the booking/notification/chat core.
// Details carries structured context such as the conflicting time window
// on a slot conflict.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// HTTPStatus maps the error kind to the wire status.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindSlotConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

// NewSlotConflict reports an overlapping booking; the conflicting window is
// included so the client can present it and let the user pick another time.
func NewSlotConflict(msg string, conflictStart, conflictEnd interface{}) *AppError {
	return &AppError{
		Kind:    KindSlotConflict,
		Message: msg,
		Details: map[string]interface{}{
			"conflict_start": conflictStart,
			"conflict_end":   conflictEnd,
		},
	}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewInvalidTransition(msg string) *AppError {
	return &AppError{Kind: KindInvalidTransition, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// AsAppError unwraps err into an *AppError if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
