package ltiapi

// errors.go defines the error codes used by the API

import "fmt"

// APIError represents a structured error raised by the HTTP layer itself.
type APIError struct {
	// code is the API error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *APIError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *APIError) Code() ErrorCode { return e.code }
func (e *APIError) Unwrap() error   { return e.wrapped }

// ErrorCode is used in errors returned by the API.
//
//   - 7000-7999 for technical errors - the request could not be processed because of a problem with the supplied data.
//   - 8000-8999 for functional errors - the request is technically valid but refers to something that does not exist or conflicts.
type ErrorCode int

const (
	// ErrCodeBadSignature is used when the OAuth signature or body hash does not verify
	ErrCodeBadSignature ErrorCode = 7001

	// ErrCodeBadTimestamp is used when oauth_timestamp is missing, invalid or outside the allowed window
	ErrCodeBadTimestamp ErrorCode = 7002

	// ErrCodeUnsupportedSignatureMethod is used for signature methods other than HMAC-SHA1/256/384/512
	ErrCodeUnsupportedSignatureMethod ErrorCode = 7003

	// ErrCodeInvalidMessage is used when an LTI message is missing required parameters or has unusable values
	ErrCodeInvalidMessage ErrorCode = 7004

	// ErrCodeInternalError is used when an internal server error occurs
	ErrCodeInternalError ErrorCode = 7005

	// ErrCodeMalformedRequest is used when the request cannot be parsed (bad form, bad JSON, missing OAuth parameters)
	ErrCodeMalformedRequest ErrorCode = 7006

	// ErrCodeMalformedContentItem is used when a content_items graph cannot be decoded
	ErrCodeMalformedContentItem ErrorCode = 7007

	// ErrCodeRemoteService is used when a call to another LTI party failed
	ErrCodeRemoteService ErrorCode = 7008

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded ErrorCode = 7009

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge ErrorCode = 7010

	// ErrCodeUnknownConsumer is used when the oauth_consumer_key is not registered
	ErrCodeUnknownConsumer ErrorCode = 8001

	// ErrCodeNotFound is used when a line item or result does not exist
	ErrCodeNotFound ErrorCode = 8002

	// ErrCodeConflict is used when a record with the same id or sourcedId already exists
	ErrCodeConflict ErrorCode = 8003
)

// NewMalformedRequestError creates an error for malformed requests.
func NewMalformedRequestError(msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewNotFoundError creates an error for a missing resource.
//
// The returned error will have code ErrCodeNotFound.
func NewNotFoundError(msg string) error {
	return &APIError{code: ErrCodeNotFound, message: msg}
}

// NewConflictError creates an error for a resource that already exists.
//
// The returned error will have code ErrCodeConflict.
func NewConflictError(msg string) error {
	return &APIError{code: ErrCodeConflict, message: msg}
}

// NewInternalError creates an internal error for unexpected failures.
//
// The returned error will have code ErrCodeInternalError.
func NewInternalError(msg string) error {
	return &APIError{code: ErrCodeInternalError, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
//
// The returned error will have code ErrCodeInternalError.
func WrapInternalError(err error, msg string) error {
	return &APIError{code: ErrCodeInternalError, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
//
// The returned error will have code ErrCodeRateLimitExceeded.
func NewRateLimitError(msg string) error {
	return &APIError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
//
// The returned error will have code ErrCodeRequestTooLarge.
func NewRequestTooLargeError(msg string) error {
	return &APIError{code: ErrCodeRequestTooLarge, message: msg}
}
