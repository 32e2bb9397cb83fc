package ltiapi

// responses.go provides helper functions for sending HTTP responses from the API handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ltilibrary/lti-go/internal/logger"
)

// RespondWithErrorResponse sends an error response as a JSON payload.
//
// It logs the full error details server-side and sends a sanitized response to the client
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse := MapErrorToResponse(err, r)

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("Request failed",
		slog.String("error", err.Error()),
		slog.Int("status_code", errorResponse.StatusCode),
		slog.String("error_code_text", errorResponse.StatusCodeMessage),
		slog.String("request_id", errorResponse.ProviderCorrelationReference),
	)

	RespondWithJSONPayload(w, errorResponse.StatusCode, errorResponse)
}

// RespondWithJSONPayload sends a JSON response with the given status code
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	RespondWithContent(w, statusCode, "application/json", payload)
}

// RespondWithContent sends payload encoded as JSON under a specific media type
// (e.g. application/vnd.ims.lis.v2.lineitem+json).
func RespondWithContent(w http.ResponseWriter, statusCode int, mediaType string, payload any) {
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// headers are already written
			// #nosec G706 -- False positive: error is escaped (slog) and not from user input
			slog.Error("Failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}

// RespondWithStatusCodeOnly sends a response with only a status code (no body)
func RespondWithStatusCodeOnly(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}
