package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a StyleError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *StyleError {
	if err == nil {
		return nil
	}

	// Preserve location and builder of an inner StyleError
	var se *StyleError
	if errors.As(err, &se) {
		return &StyleError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Builder:     se.Builder,
			FilePath:    se.FilePath,
			Line:        se.Line,
			Column:      se.Column,
			Recoverable: se.Recoverable,
		}
	}

	return &StyleError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeBuild || errType == ErrorTypeParse,
	}
}

// WrapBuild wraps an error as a build error with builder context
func WrapBuild(err error, code, message, builder string) *StyleError {
	styleErr := Wrap(err, ErrorTypeBuild, code, message)
	if styleErr != nil {
		styleErr.Builder = builder
	}
	return styleErr
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *StyleError {
	styleErr := Wrap(err, ErrorTypeIO, code, message)
	if styleErr != nil {
		styleErr.Recoverable = false
	}
	return styleErr
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *StyleError {
	styleErr := Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
	if styleErr != nil {
		styleErr.Recoverable = false
	}
	return styleErr
}

// GetBuilder extracts the builder name from the first StyleError in the chain
func GetBuilder(err error) string {
	var se *StyleError
	if errors.As(err, &se) {
		return se.Builder
	}
	return ""
}
