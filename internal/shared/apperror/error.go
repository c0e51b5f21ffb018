package apperror

import "fmt"

type AppError struct {
	Code       string // Error code (e.g., INVALID_INPUT)
	Message    string // User-friendly message
	HTTPStatus int    // HTTP status code
	Reason     string // Stable guard tag (e.g., ALREADY_MARKED), optional
	Err        error  // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code and reason so that copies made by WithReason or Wrap
// still compare equal to the sentinel they came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason && e.Message == t.Message
}

// New creates a new AppError without wrapping
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        nil,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithReason returns a copy tagged with a machine-readable reason.
func (e *AppError) WithReason(reason string) *AppError {
	cp := *e
	cp.Reason = reason
	return &cp
}

// WithCause returns a copy that wraps err, keeping code, message and reason.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}
