package outcomesv1

// handler.go implements the Tool Consumer side of Basic Outcomes (POST /outcomes/v1)

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// ServiceHandler answers signed POX requests against a gradebook.
type ServiceHandler struct {
	verifier     *oauth.Verifier
	store        gradebook.Store
	newMessageID func() string
}

// NewServiceHandler creates a handler. The verifier should require body hashes.
func NewServiceHandler(verifier *oauth.Verifier, store gradebook.Store) *ServiceHandler {
	return &ServiceHandler{
		verifier:     verifier,
		store:        store,
		newMessageID: uuid.NewString,
	}
}

// HandleOutcome godoc
//
//	@Summary		Basic Outcomes service
//	@Description	Receives a signed imsx_POXEnvelopeRequest (replaceResult, readResult or deleteResult)
//	@Description	addressing a result by its lis_result_sourcedid.
//	@Description
//	@Description	The request must be signed with OAuth 1.0a using the Authorization header and an
//	@Description	oauth_body_hash of the XML body.
//	@Description
//	@Description	Processing errors are reported in the response envelope (imsx_codeMajor failure or
//	@Description	unsupported) with HTTP 200. Requests that fail authentication get HTTP 401.
//
//	@Tags		Outcomes
//
//	@Accept		application/vnd.ims.lis.v1.outcome+xml
//	@Produce	application/vnd.ims.lis.v1.outcome+xml
//
//	@Success	200	{object}	ResponseEnvelope	"Response envelope"
//	@Failure	401	{object}	ResponseEnvelope	"Signature verification failed"
//
//	@Router		/outcomes/v1 [post]
func (h *ServiceHandler) HandleOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	verified, err := h.verifier.VerifyRequest(r)
	if err != nil {
		reqLogger.Warn("outcome request failed verification", slog.String("error", err.Error()))

		// the body is still useful for echoing the message id
		body, _ := io.ReadAll(r.Body)
		request, decodeErr := DecodeRequest(body)
		if decodeErr != nil {
			request = &RequestEnvelope{}
		}
		h.respond(w, r, http.StatusUnauthorized, NewResponse(h.newMessageID(), request, CodeMajorFailure, "request signature could not be verified"))
		return
	}

	request, err := DecodeRequest(verified.Body)
	if err != nil {
		reqLogger.Warn("malformed outcome request", slog.String("error", err.Error()))
		h.respond(w, r, http.StatusOK, NewResponse(h.newMessageID(), &RequestEnvelope{}, CodeMajorFailure, "malformed imsx_POXEnvelopeRequest"))
		return
	}

	operation, record := request.Operation()
	logger.ContextWithLogAttrs(ctx,
		slog.String("consumer_key", verified.ConsumerKey),
		slog.String("operation", string(operation)),
	)

	if record == nil {
		description := "no operation in request"
		if operation != "" {
			description = fmt.Sprintf("%s is not supported", operation)
		}
		h.respond(w, r, http.StatusOK, NewResponse(h.newMessageID(), request, CodeMajorUnsupported, description))
		return
	}

	response := h.dispatch(r, verified.ConsumerKey, operation, record, request)
	h.respond(w, r, http.StatusOK, response)
}

// dispatch performs the operation and returns the response envelope to send.
func (h *ServiceHandler) dispatch(r *http.Request, consumerKey string, operation Operation, record *ResultRecord, request *RequestEnvelope) *ResponseEnvelope {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	fail := func(description string) *ResponseEnvelope {
		return NewResponse(h.newMessageID(), request, CodeMajorFailure, description)
	}

	if record.SourcedID == "" {
		return fail("sourcedId is required")
	}

	var err error
	response := NewResponse(h.newMessageID(), request, CodeMajorSuccess, "")

	switch operation {
	case OperationReplaceResult:
		score, scoreErr := record.Result.Score()
		if scoreErr != nil {
			return fail(scoreErr.Error())
		}
		if score != nil && (*score < 0 || *score > 1) {
			return fail(fmt.Sprintf("score %s is outside the range 0.0 to 1.0", FormatScore(*score)))
		}
		err = h.store.ReplaceScore(ctx, consumerKey, record.SourcedID, score)
		response.Header.StatusInfo.Description = fmt.Sprintf("score for %s is now %s", record.SourcedID, describeScore(score))
		response.Body.ReplaceResult = &EmptyResponse{}

	case OperationReadResult:
		var score *float64
		score, err = h.store.ReadScore(ctx, consumerKey, record.SourcedID)
		response.Header.StatusInfo.Description = fmt.Sprintf("score for %s is %s", record.SourcedID, describeScore(score))
		response.SetReadScore(score)

	case OperationDeleteResult:
		err = h.store.DeleteScore(ctx, consumerKey, record.SourcedID)
		response.Header.StatusInfo.Description = fmt.Sprintf("score for %s has been deleted", record.SourcedID)
		response.Body.DeleteResult = &EmptyResponse{}
	}

	if errors.Is(err, gradebook.ErrNotFound) {
		return fail(fmt.Sprintf("unknown sourcedId %q", record.SourcedID))
	}
	if err != nil {
		reqLogger.Error("gradebook operation failed", slog.String("error", err.Error()))
		return fail("internal error")
	}
	return response
}

func describeScore(score *float64) string {
	if score == nil {
		return "unset"
	}
	return FormatScore(*score)
}

func (h *ServiceHandler) respond(w http.ResponseWriter, r *http.Request, status int, env *ResponseEnvelope) {
	data, err := EncodeResponse(env)
	if err != nil {
		logger.ContextRequestLogger(r.Context()).Error("failed to encode response envelope", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("failed to write response", slog.String("error", err.Error()))
	}
}
