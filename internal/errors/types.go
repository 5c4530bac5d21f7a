// Package errors provides the typed error values used across stylegen.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeInternal   ErrorType = "internal"
)

// StyleError is a structured error type with context.
type StyleError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Builder     string
	FilePath    string
	Line        int
	Column      int
	Recoverable bool
}

// Error implements the error interface.
func (e *StyleError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Builder != "" {
		parts = append(parts, "builder:"+e.Builder)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *StyleError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *StyleError) Is(target error) bool {
	var t *StyleError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *StyleError) WithContext(key string, value interface{}) *StyleError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *StyleError) WithLocation(filePath string, line, column int) *StyleError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// WithBuilder adds builder context.
func (e *StyleError) WithBuilder(builder string) *StyleError {
	e.Builder = builder

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *StyleError {
	return &StyleError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewParseError creates a parse error for malformed source documents.
func NewParseError(code, message string, cause error) *StyleError {
	return &StyleError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *StyleError {
	return &StyleError{
		Type:        ErrorTypeSecurity,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *StyleError {
	return &StyleError{
		Type:        ErrorTypeBuild,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *StyleError {
	return &StyleError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *StyleError {
	return &StyleError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var se *StyleError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// IsType reports whether err is a StyleError of the given type.
func IsType(err error, errType ErrorType) bool {
	var se *StyleError
	if errors.As(err, &se) {
		return se.Type == errType
	}

	return false
}

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodeBuilderNotFound  = "ERR_BUILDER_NOT_FOUND"
	ErrCodeBuilderDuplicate = "ERR_BUILDER_DUPLICATE"
	ErrCodeCategoryNotFound = "ERR_CATEGORY_NOT_FOUND"
	ErrCodeInvalidDocument  = "ERR_INVALID_DOCUMENT"
	ErrCodeInvalidShape     = "ERR_INVALID_SHAPE"
	ErrCodeBuildFailed      = "ERR_BUILD_FAILED"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeLintFailed       = "ERR_LINT_FAILED"
)

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *StyleError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *StyleError {
	return NewSecurityError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrBuilderNotFound creates an error for an unknown builder name.
func ErrBuilderNotFound(name string) *StyleError {
	return NewValidationError(ErrCodeBuilderNotFound, "builder not found: "+name).
		WithBuilder(name)
}

// ErrCategoryNotFound creates an error for a category key the builder does
// not register.
func ErrCategoryNotFound(builder, key string) *StyleError {
	return NewValidationError(ErrCodeCategoryNotFound, "category not found: "+key).
		WithBuilder(builder).
		WithContext("category", key)
}

// ErrInvalidShape wraps a section shape violation.
func ErrInvalidShape(builder, title string, cause error) *StyleError {
	return &StyleError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeInvalidShape,
		Message:     "section " + title + " is malformed",
		Cause:       cause,
		Builder:     builder,
		Recoverable: true,
	}
}
