package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("start must be before end"), http.StatusUnprocessableEntity},
		{NewSlotConflict("overlap", time.Now(), time.Now()), http.StatusConflict},
		{NewForbidden("not your booking"), http.StatusForbidden},
		{NewInvalidTransition("booked cannot become pending"), http.StatusBadRequest},
		{NewNotFound("no such booking"), http.StatusNotFound},
		{&AppError{Kind: "something_else", Message: "?"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestSlotConflictCarriesWindow(t *testing.T) {
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	err := NewSlotConflict("overlap", start, end)

	if err.Details["conflict_start"] != start {
		t.Errorf("conflict_start = %v, want %v", err.Details["conflict_start"], start)
	}
	if err.Details["conflict_end"] != end {
		t.Errorf("conflict_end = %v, want %v", err.Details["conflict_end"], end)
	}
}

func TestAsAppErrorUnwraps(t *testing.T) {
	base := NewForbidden("nope")
	wrapped := fmt.Errorf("handling request: %w", base)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError should unwrap a wrapped AppError")
	}
	if appErr.Kind != KindForbidden {
		t.Errorf("Kind = %s, want %s", appErr.Kind, KindForbidden)
	}

	if _, ok := AsAppError(errors.New("plain")); ok {
		t.Error("a plain error is not an AppError")
	}
}

func TestErrorStringIncludesKind(t *testing.T) {
	err := NewValidationError("bad input")
	if err.Error() != "validation_error: bad input" {
		t.Errorf("Error() = %q", err.Error())
	}
}
