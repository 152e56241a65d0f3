package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_IsErrNotFound(t *testing.T) {
	err := NotFound("Group not found")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NotFound() should match ErrNotFound, got %v", err)
	}
	if err.Error() != "Group not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Group not found")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("repeat", "unrecognised repeat value")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("ValidationFailed() should match ErrValidation, got %v", err)
	}
	if err.Field != "repeat" {
		t.Errorf("Field = %q, want %q", err.Field, "repeat")
	}
}

func TestConflict_IsErrConflict(t *testing.T) {
	err := Conflict("Username is taken!")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Conflict() should match ErrConflict, got %v", err)
	}
}

func TestUnauthorized_IsErrUnauthorized(t *testing.T) {
	err := Unauthorized("Token is missing!")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Unauthorized() should match ErrUnauthorized, got %v", err)
	}
}

// Wrapping an AppError with fmt.Errorf must keep the sentinel reachable —
// the HTTP layer relies on errors.Is walking the whole chain.
func TestWrappedAppError_StillMatchesSentinel(t *testing.T) {
	inner := NotFound("Event not found!")
	wrapped := fmt.Errorf("deleting event: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped AppError no longer matches ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to extract *AppError from wrapped chain")
	}
	if appErr.Message != "Event not found!" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Event not found!")
	}
}
