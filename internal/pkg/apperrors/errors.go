package apperrors

import "errors"

// Common errors
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrAccountExists = errors.New("account with this email or student number already exists")

	// Upload errors
	ErrNotAnImage   = errors.New("file is not an image")
	ErrFileTooLarge = errors.New("file is too large")
	ErrBadFileType  = errors.New("only jpg, jpeg, png and gif files are allowed")

	// Store errors
	ErrStore = errors.New("store operation failed")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps a database failure so handlers can surface a generic
// message without leaking internals. The cause stays attached for logging.
func NewStoreError(err error) *CustomError {
	return &CustomError{
		Err:     errors.Join(ErrStore, err),
		Message: "Oops! Something went wrong. Please try again later.",
	}
}
