package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All packages MUST use these constants instead of hardcoded strings.
const (
	// Weather grid boundary violations
	ErrCodeInvalidTimeKey ErrorCode = "weather_invalid_time_key"
	ErrCodeMissingData    ErrorCode = "weather_missing_data"

	// Route construction
	ErrCodeDegenerateLeg ErrorCode = "route_degenerate_leg"
	ErrCodeInvalidRoute  ErrorCode = "route_invalid"

	// Planning
	ErrCodeInfeasible   ErrorCode = "plan_infeasible"
	ErrCodeReplanFailed ErrorCode = "plan_replan_failed"

	// Schedules
	ErrCodeInvalidSchedule ErrorCode = "schedule_invalid_shape"

	// Weather store access
	ErrCodeStoreCorrupt     ErrorCode = "store_corrupt_record"
	ErrCodeStoreUnavailable ErrorCode = "store_unavailable"

	// Configuration
	ErrCodeConfigInvalid ErrorCode = "config_invalid"
)

// AppError is the standard application error type used throughout the engine.
// All domain errors should be expressed as AppError to enable consistent
// formatting, structured diagnostics, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
