package lti

import (
	"fmt"
	"strings"
)

type ErrorCode string

const (
	// ErrCodeMissingParameters indicates one or more required parameters are blank.
	ErrCodeMissingParameters ErrorCode = "missing_parameters"

	// ErrCodeInvalidParameter indicates a parameter is present but has an unusable value.
	ErrCodeInvalidParameter ErrorCode = "invalid_parameter"
)

// LtiError represents a structured error from the lti package.
type LtiError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// Missing names every absent parameter when code is ErrCodeMissingParameters
	Missing []string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *LtiError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *LtiError) Code() ErrorCode { return e.code }
func (e *LtiError) Unwrap() error   { return e.wrapped }

// NewMissingParametersError lists every missing parameter in a single error.
//
// The returned error will have code ErrCodeMissingParameters.
func NewMissingParametersError(messageType MessageType, missing []string) error {
	return &LtiError{
		code:    ErrCodeMissingParameters,
		message: fmt.Sprintf("%s is missing required parameters: %s", messageType, strings.Join(missing, ", ")),
		Missing: missing,
	}
}

// NewInvalidParameterError is used for parameters that are present but unusable
// (unknown message type, wrong lti_version, malformed integer).
//
// The returned error will have code ErrCodeInvalidParameter.
func NewInvalidParameterError(msg string) error {
	return &LtiError{code: ErrCodeInvalidParameter, message: msg}
}

// WrapInvalidParameterError wraps an existing error as an invalid parameter error.
func WrapInvalidParameterError(err error, msg string) error {
	return &LtiError{code: ErrCodeInvalidParameter, message: msg, wrapped: err}
}
