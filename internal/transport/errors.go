package transport

import "fmt"

type ErrorCode string

const (
	// ErrCodeTransport indicates the exchange itself failed: connection error, timeout,
	// cancellation or an HTTP status the protocol treats as a transport failure.
	ErrCodeTransport ErrorCode = "transport"

	// ErrCodeRemoteFailure indicates the remote party answered but reported failure.
	ErrCodeRemoteFailure ErrorCode = "remote_failure"

	// ErrCodeMalformedEnvelope indicates the response body could not be parsed.
	ErrCodeMalformedEnvelope ErrorCode = "malformed_envelope"
)

// Exchange describes the HTTP exchange an error came from.
//
// RequestText and ResponseText are only captured when the client runs in debug mode.
type Exchange struct {
	Method       string
	URL          string
	StatusCode   int
	RequestText  string
	ResponseText string
}

// Error represents a structured error from an outbound service call.
type Error struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// Exchange is the request/response the error belongs to
	Exchange Exchange

	// wrapped is the optional underlying error
	wrapped error
}

func (e *Error) Error() string {
	msg := e.message
	if e.Exchange.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Exchange.StatusCode)
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.wrapped)
	}
	return msg
}

func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Unwrap() error   { return e.wrapped }

// StatusCode is the HTTP status of the exchange, 0 when no response was received.
func (e *Error) StatusCode() int { return e.Exchange.StatusCode }

// NewTransportError is used for unexpected HTTP statuses.
//
// The returned error will have code ErrCodeTransport.
func NewTransportError(exchange Exchange, msg string) error {
	return &Error{code: ErrCodeTransport, message: msg, Exchange: exchange}
}

// WrapTransportError wraps a network, timeout or cancellation error.
func WrapTransportError(err error, exchange Exchange, msg string) error {
	return &Error{code: ErrCodeTransport, message: msg, Exchange: exchange, wrapped: err}
}

// NewRemoteFailureError carries the remote party's description of why it failed.
//
// The returned error will have code ErrCodeRemoteFailure.
func NewRemoteFailureError(exchange Exchange, msg string) error {
	return &Error{code: ErrCodeRemoteFailure, message: msg, Exchange: exchange}
}

// WrapMalformedEnvelopeError wraps a decoding error for a response body.
//
// The returned error will have code ErrCodeMalformedEnvelope.
func WrapMalformedEnvelopeError(err error, exchange Exchange, msg string) error {
	return &Error{code: ErrCodeMalformedEnvelope, message: msg, Exchange: exchange, wrapped: err}
}

// NewMalformedEnvelopeError reports a response body with an unexpected shape.
func NewMalformedEnvelopeError(exchange Exchange, msg string) error {
	return &Error{code: ErrCodeMalformedEnvelope, message: msg, Exchange: exchange}
}
