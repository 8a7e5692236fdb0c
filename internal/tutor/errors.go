package tutor

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an analysis failure
type ErrorKind string

const (
	// KindInput indicates the file was rejected before any request was made
	KindInput ErrorKind = "input"

	// KindTransport indicates no response was received
	KindTransport ErrorKind = "transport"

	// KindApplication indicates the service answered with a non-2xx status
	KindApplication ErrorKind = "application"

	// KindDecode indicates a 2xx response whose body could not be decoded
	KindDecode ErrorKind = "decode"
)

// AnalysisError is the single failure type returned by Client.Analyze.
// Error returns Message unchanged so callers can display it directly.
type AnalysisError struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable text shown to the user
	Message string `json:"message"`

	// StatusCode for application errors
	StatusCode int `json:"status_code,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Is matches another *AnalysisError of the same kind
func (e *AnalysisError) Is(target error) bool {
	if ae, ok := target.(*AnalysisError); ok {
		return e.Kind == ae.Kind
	}
	return false
}

// Detail renders the error with its kind, status and cause for logs
func (e *AnalysisError) Detail() string {
	s := fmt.Sprintf("type=%s", e.Kind)
	if e.StatusCode > 0 {
		s += fmt.Sprintf(": status=%d", e.StatusCode)
	}
	s += ": " + e.Message
	if e.Cause != nil {
		s += fmt.Sprintf(": cause=%s", e.Cause.Error())
	}
	return s
}

// ValidationError represents input rejection of a selected file
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Validation fields reported by OpenUpload
const (
	FieldType = "type"
	FieldSize = "size"
	FieldFile = "file"
)

// NewApplicationError creates an error for a non-2xx response
func NewApplicationError(status int, message string) *AnalysisError {
	return &AnalysisError{
		Kind:       KindApplication,
		Message:    message,
		StatusCode: status,
	}
}

// NewAnalysisErrorWithCause creates an error of the given kind wrapping cause
func NewAnalysisErrorWithCause(kind ErrorKind, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsInputError reports whether err is an input rejection
func IsInputError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return isKind(err, KindInput)
}

// IsTransportError reports whether no response was received
func IsTransportError(err error) bool {
	return isKind(err, KindTransport)
}

// IsApplicationError reports whether the service answered with a failure
func IsApplicationError(err error) bool {
	return isKind(err, KindApplication)
}

// ValidationField returns the rejected field of an input error, or ""
func ValidationField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func isKind(err error, kind ErrorKind) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
