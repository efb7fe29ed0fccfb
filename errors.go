package reqforge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeDefinition reports a shape whose annotations cannot be resolved.
	CodeDefinition ErrorCode = "definition"
	// CodeSerialization reports a value that could not become a structured document.
	CodeSerialization ErrorCode = "serialization"
	// CodeHeader reports a header name or value that failed validation.
	CodeHeader ErrorCode = "header"
	// CodeIO reports a file that could not be read for an upload.
	CodeIO ErrorCode = "io"
	// CodeInvalidRequest reports any other inconsistency in a request or its configuration.
	CodeInvalidRequest ErrorCode = "invalid_request"
)

// HeaderCheck names the header validation step that failed.
type HeaderCheck string

const (
	CheckName  HeaderCheck = "name"
	CheckValue HeaderCheck = "value"
	CheckType  HeaderCheck = "type"
)

// Error is the structured error returned by every fallible operation.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
// A %w verb records the wrapped error as the cause.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: err.Error(),
		Err:     errors.Unwrap(err),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Err:     e.Err,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
// For multiple details, this is more efficient than chaining WithDetail calls.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
		Err:     e.Err,
	}
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var rfErr *Error
	if errors.As(err, &rfErr) {
		return rfErr.Code == code
	}
	return false
}

// HeaderKey returns the offending header key of a CodeHeader error.
func (e *Error) HeaderKey() string {
	s, _ := e.Details["key"].(string)
	return s
}

func newHeaderError(key, value string, check HeaderCheck, cause string) *Error {
	return &Error{
		Code:    CodeHeader,
		Message: fmt.Sprintf("header %q: %q - %s", key, value, cause),
		Details: map[string]any{
			"key":   key,
			"value": value,
			"check": string(check),
		},
	}
}

func serializationError(err error) *Error {
	return &Error{
		Code:    CodeSerialization,
		Message: err.Error(),
		Err:     err,
	}
}

// fromValidation folds validator errors into a single CodeInvalidRequest error.
// Other errors are returned unchanged.
func fromValidation(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	details := make(map[string]any, len(valErrs))
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := formatValidationError(ve)
		details[ve.Field()] = msg
		messages = append(messages, ve.Field()+": "+msg)
	}
	return &Error{
		Code:    CodeInvalidRequest,
		Message: strings.Join(messages, "; "),
		Details: details,
		Err:     err,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s", ve.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
