package ltiapi

// error_response.go implements the JSON error response format of the API
// and maps lower level errors to it

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ltilibrary/lti-go/internal/contentitem"
	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/oauth"
	"github.com/ltilibrary/lti-go/internal/transport"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {

	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod"`

	// The URI that was requested
	RequestURI string `json:"requestUri"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText"`

	// A long description corresponding to the HTTP status code with additional information
	StatusCodeMessage string `json:"statusCodeMessage,omitempty"`

	// The request id assigned by the server
	ProviderCorrelationReference string `json:"providerCorrelationReference,omitempty"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime"`

	// An array of errors providing more detail about the root cause
	Errors []DetailedError `json:"errors"`
}

// DetailedError represents a detailed error in the error response
type DetailedError struct {
	// error code used by the API: 7000-7999 for technical errors, 8000-8999 for functional errors
	ErrorCode ErrorCode `json:"errorCode"`

	// Property names the offending parameter, when there is one
	Property         string `json:"property,omitempty"`
	ErrorCodeText    string `json:"errorCodeText"`
	ErrorCodeMessage string `json:"errorCodeMessage"`
}

// mapping is the API view of an error.
type mapping struct {
	statusCode int
	code       ErrorCode
	text       string
	details    []DetailedError
}

// MapErrorToResponse maps oauth, lti, contentitem, transport, gradebook and ltiapi errors to an
// error response.
//
// The error code text is sanitized for the response, but the full error message is logged server-side.
// The mapping also establishes the appropriate HTTP status code based on the error type.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	m, ok := mapError(err)
	if !ok {
		// not expected - return an internal error response and log the unmapped error
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.String("error", err.Error()),
			slog.String("request_id", requestID),
		)
		m = mapping{
			statusCode: http.StatusInternalServerError,
			code:       ErrCodeInternalError,
			text:       "Internal Error",
		}
		return newErrorResponse(r, requestID, m, "An internal error occurred")
	}

	message := err.Error()
	if m.code == ErrCodeInternalError {
		message = "An internal error occurred"
	}
	return newErrorResponse(r, requestID, m, message)
}

func newErrorResponse(r *http.Request, requestID string, m mapping, message string) *ErrorResponse {
	details := m.details
	if len(details) == 0 {
		details = []DetailedError{{ErrorCode: m.code, ErrorCodeText: m.text, ErrorCodeMessage: message}}
	}
	return &ErrorResponse{
		HTTPMethod:                   r.Method,
		RequestURI:                   r.RequestURI,
		StatusCode:                   m.statusCode,
		StatusCodeText:               http.StatusText(m.statusCode),
		StatusCodeMessage:            m.text,
		ProviderCorrelationReference: requestID,
		ErrorDateTime:                time.Now().UTC().Format(time.RFC3339),
		Errors:                       details,
	}
}

// mapError tries the most specific error types first.
func mapError(err error) (mapping, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return mapAPIError(apiErr), true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return mapping{statusCode: http.StatusRequestEntityTooLarge, code: ErrCodeRequestTooLarge, text: "Request too large"}, true
	}

	var oauthErr *oauth.OAuthError
	if errors.As(err, &oauthErr) {
		return mapOAuthError(oauthErr), true
	}

	var ltiErr *lti.LtiError
	if errors.As(err, &ltiErr) {
		return mapLtiError(ltiErr), true
	}

	var contentItemErr *contentitem.ContentItemError
	if errors.As(err, &contentItemErr) {
		return mapping{statusCode: http.StatusBadRequest, code: ErrCodeMalformedContentItem, text: "Malformed content item"}, true
	}

	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		return mapping{statusCode: http.StatusBadGateway, code: ErrCodeRemoteService, text: "Remote service error"}, true
	}

	switch {
	case errors.Is(err, gradebook.ErrNotFound):
		return mapping{statusCode: http.StatusNotFound, code: ErrCodeNotFound, text: "Not found"}, true
	case errors.Is(err, gradebook.ErrConflict):
		return mapping{statusCode: http.StatusConflict, code: ErrCodeConflict, text: "Conflict"}, true
	}
	return mapping{}, false
}

func mapAPIError(err *APIError) mapping {
	switch err.Code() {
	case ErrCodeMalformedRequest:
		return mapping{statusCode: http.StatusBadRequest, code: err.Code(), text: "Malformed request"}
	case ErrCodeNotFound:
		return mapping{statusCode: http.StatusNotFound, code: err.Code(), text: "Not found"}
	case ErrCodeConflict:
		return mapping{statusCode: http.StatusConflict, code: err.Code(), text: "Conflict"}
	case ErrCodeRateLimitExceeded:
		return mapping{statusCode: http.StatusTooManyRequests, code: err.Code(), text: "Rate limit exceeded"}
	case ErrCodeRequestTooLarge:
		return mapping{statusCode: http.StatusRequestEntityTooLarge, code: err.Code(), text: "Request too large"}
	default:
		return mapping{statusCode: http.StatusInternalServerError, code: ErrCodeInternalError, text: "Internal Error"}
	}
}

func mapOAuthError(err *oauth.OAuthError) mapping {
	switch err.Code() {
	case oauth.ErrCodeSignatureMismatch, oauth.ErrCodeBodyHashMismatch:
		return mapping{statusCode: http.StatusUnauthorized, code: ErrCodeBadSignature, text: "Bad signature"}
	case oauth.ErrCodeTimestamp:
		return mapping{statusCode: http.StatusUnauthorized, code: ErrCodeBadTimestamp, text: "Bad timestamp"}
	case oauth.ErrCodeUnknownConsumer:
		return mapping{statusCode: http.StatusUnauthorized, code: ErrCodeUnknownConsumer, text: "Unknown consumer"}
	case oauth.ErrCodeUnsupportedSignatureMethod:
		return mapping{statusCode: http.StatusBadRequest, code: ErrCodeUnsupportedSignatureMethod, text: "Unsupported signature method"}
	default:
		return mapping{statusCode: http.StatusBadRequest, code: ErrCodeMalformedRequest, text: "Malformed request"}
	}
}

func mapLtiError(err *lti.LtiError) mapping {
	m := mapping{statusCode: http.StatusBadRequest, code: ErrCodeInvalidMessage, text: "Invalid LTI message"}
	if err.Code() == lti.ErrCodeMissingParameters {
		for _, name := range err.Missing {
			m.details = append(m.details, DetailedError{
				ErrorCode:        ErrCodeInvalidMessage,
				Property:         name,
				ErrorCodeText:    "Missing parameter",
				ErrorCodeMessage: fmt.Sprintf("%s is required", name),
			})
		}
	}
	return m
}
