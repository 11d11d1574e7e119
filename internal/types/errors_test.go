package types

import (
	"errors"
	"fmt"
	"testing"
)

// TestAppErrorImplementsError verifies that *AppError satisfies the error interface.
func TestAppErrorImplementsError(t *testing.T) {
	var _ error = (*AppError)(nil)
}

// TestAppErrorErrorFormat verifies the Error() method produces "code: message".
func TestAppErrorErrorFormat(t *testing.T) {
	appErr := &AppError{
		Code:    ErrCodeInvalidTimeKey,
		Message: "time key -3 is negative",
	}

	expected := "weather_invalid_time_key: time key -3 is negative"
	if appErr.Error() != expected {
		t.Errorf("Error() = %q, want %q", appErr.Error(), expected)
	}
}

// TestAppErrorUnwrap verifies the error chain support via Unwrap.
func TestAppErrorUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	appErr := &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: "querying weather_samples",
		Err:     underlying,
	}

	if appErr.Unwrap() != underlying {
		t.Errorf("Unwrap() returned unexpected error: got %v, want %v", appErr.Unwrap(), underlying)
	}
}

// TestAppErrorErrorsAs verifies that errors.As can extract AppError from a chain.
func TestAppErrorErrorsAs(t *testing.T) {
	appErr := &AppError{
		Code:    ErrCodeInfeasible,
		Message: "no schedule reaches the destination",
	}
	wrapped := fmt.Errorf("plan failed: %w", appErr)

	var extracted *AppError
	if !errors.As(wrapped, &extracted) {
		t.Fatal("errors.As failed to extract AppError from wrapped chain")
	}
	if extracted.Code != ErrCodeInfeasible {
		t.Errorf("extracted code = %q, want %q", extracted.Code, ErrCodeInfeasible)
	}
}

// TestWithDetailsDoesNotMutate verifies WithDetails returns a copy.
func TestWithDetailsDoesNotMutate(t *testing.T) {
	orig := NewAppErrorWithDetails(ErrCodeInfeasible, "unreachable", nil,
		map[string]any{"budget_hours": 10.0})

	derived := orig.WithDetails(map[string]any{"min_arrival_hours": 12.5})

	if _, ok := orig.Details["min_arrival_hours"]; ok {
		t.Error("WithDetails mutated the original error")
	}
	if derived.Details["budget_hours"] != 10.0 {
		t.Error("WithDetails lost existing details")
	}
	if derived.Details["min_arrival_hours"] != 12.5 {
		t.Error("WithDetails did not merge new details")
	}
}
