package oauth

import "fmt"

// Error represents a structured error from the oauth package
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	ErrCodeInvalidRequest             ErrorCode = "invalid_request"
	ErrCodeSignatureMismatch          ErrorCode = "signature_mismatch"
	ErrCodeBodyHashMismatch           ErrorCode = "body_hash_mismatch"
	ErrCodeUnsupportedSignatureMethod ErrorCode = "unsupported_signature_method"
	ErrCodeTimestamp                  ErrorCode = "timestamp"
	ErrCodeUnknownConsumer            ErrorCode = "unknown_consumer"
)

// OAuthError represents a structured error from the oauth package
type OAuthError struct {

	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *OAuthError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *OAuthError) Code() ErrorCode { return e.code }
func (e *OAuthError) Unwrap() error   { return e.wrapped }

// NewInvalidRequestError creates an error for requests that cannot be signed or verified
// because a required input (method, url, oauth parameter) is missing or malformed.
//
// The returned error will have code ErrCodeInvalidRequest.
func NewInvalidRequestError(msg string) error {
	return &OAuthError{code: ErrCodeInvalidRequest, message: msg}
}

// WrapInvalidRequestError wraps an existing error as an invalid request error.
//
// The returned error will have code ErrCodeInvalidRequest.
func WrapInvalidRequestError(err error, msg string) error {
	return &OAuthError{code: ErrCodeInvalidRequest, message: msg, wrapped: err}
}

// NewSignatureMismatchError creates an error for an inbound signature that does not
// match the recomputed one.
//
// The returned error will have code ErrCodeSignatureMismatch.
func NewSignatureMismatchError(msg string) error {
	return &OAuthError{code: ErrCodeSignatureMismatch, message: msg}
}

// NewBodyHashMismatchError creates an error for a request body that does not match
// the signed oauth_body_hash.
//
// The returned error will have code ErrCodeBodyHashMismatch.
func NewBodyHashMismatchError(msg string) error {
	return &OAuthError{code: ErrCodeBodyHashMismatch, message: msg}
}

// NewUnsupportedSignatureMethodError is returned for anything other than the HMAC-SHA family.
//
// The returned error will have code ErrCodeUnsupportedSignatureMethod.
func NewUnsupportedSignatureMethodError(msg string) error {
	return &OAuthError{code: ErrCodeUnsupportedSignatureMethod, message: msg}
}

// NewTimestampError creates an error for a missing, malformed or out of window oauth_timestamp.
//
// The returned error will have code ErrCodeTimestamp.
func NewTimestampError(msg string) error {
	return &OAuthError{code: ErrCodeTimestamp, message: msg}
}

// WrapUnknownConsumerError wraps a secret lookup failure.
//
// The returned error will have code ErrCodeUnknownConsumer.
func WrapUnknownConsumerError(err error, msg string) error {
	return &OAuthError{code: ErrCodeUnknownConsumer, message: msg, wrapped: err}
}
