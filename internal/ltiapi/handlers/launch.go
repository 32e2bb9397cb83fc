package handlers

// launch.go implements the POST /lti/launch endpoint

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// launchMessageTypes are the messages a consumer may send to the launch url.
var launchMessageTypes = map[lti.MessageType]bool{
	lti.MessageTypeBasicLaunch:                 true,
	lti.MessageTypeContentItemSelectionRequest: true,
	lti.MessageTypeToolProxyRegistration:       true,
	lti.MessageTypeToolProxyReregistration:     true,
}

// LaunchHandler handles POST /lti/launch requests
type LaunchHandler struct {
	verifier *oauth.Verifier
}

// NewLaunchHandler creates a new handler for launches
func NewLaunchHandler(verifier *oauth.Verifier) *LaunchHandler {
	return &LaunchHandler{verifier: verifier}
}

// HandleLaunch godoc
//
//	@Summary		Receive an LTI launch
//	@Description	Verifies the OAuth signature of a launch form posted by the browser, validates it
//	@Description	as the lti_message_type it declares and returns what the tool learned about
//	@Description	the user, the context and the services the consumer offers.
//
//	@Tags		LTI
//
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//
//	@Success	200	{object}	ltiapi.LaunchResponse	"Launch verified"
//	@Failure	400	{object}	ltiapi.ErrorResponse	"Missing or invalid launch parameters"
//	@Failure	401	{object}	ltiapi.ErrorResponse	"Signature verification failed"
//
//	@Router		/lti/launch [post]
func (h *LaunchHandler) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	launch, err := lti.VerifyRequest(h.verifier, r)
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	messageType := launch.MessageType()
	if !launchMessageTypes[messageType] {
		ltiapi.RespondWithErrorResponse(w, r,
			lti.NewInvalidParameterError(fmt.Sprintf("%s cannot be sent to the launch url", messageType)))
		return
	}

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("consumer_key", launch.ConsumerKey()),
		slog.String("message_type", string(messageType)),
		slog.String("resource_link_id", launch.ResourceLinkID()),
	)

	ltiapi.RespondWithJSONPayload(w, http.StatusOK, launchResponse(launch))
}

func launchResponse(launch *lti.Request) *ltiapi.LaunchResponse {
	resp := &ltiapi.LaunchResponse{
		MessageType:       string(launch.MessageType()),
		Version:           string(launch.Version()),
		ConsumerKey:       launch.ConsumerKey(),
		ResourceLinkID:    launch.ResourceLinkID(),
		ResourceLinkTitle: launch.ResourceLinkTitle(),
		ContextID:         launch.ContextID(),
		ContextTitle:      launch.ContextTitle(),
		UserID:            launch.UserID(),
		Roles:             []string{},
		ReturnURL:         launch.LaunchPresentationReturnURL(),
	}

	for _, role := range launch.Roles() {
		resp.Roles = append(resp.Roles, role.URN())
	}
	if target, ok := launch.DocumentTarget(); ok {
		resp.DocumentTarget = string(target)
	}

	if launch.LisOutcomeServiceURL() != "" && launch.LisResultSourcedID() != "" {
		resp.Outcomes = &ltiapi.LaunchOutcomes{
			ServiceURL:      launch.LisOutcomeServiceURL(),
			ResultSourcedID: launch.LisResultSourcedID(),
		}
	}

	services := ltiapi.LaunchServices{
		LineItems:   launch.LineItemsServiceURL(),
		LineItem:    launch.LineItemServiceURL(),
		Results:     launch.ResultsServiceURL(),
		Result:      launch.ResultServiceURL(),
		Memberships: launch.MembershipsServiceURL(),
	}
	if services != (ltiapi.LaunchServices{}) {
		resp.Services = &services
	}

	if custom := launch.CustomParameters(); len(custom) > 0 {
		resp.Custom = custom
	}
	return resp
}
