package handlers

// content_items.go implements the POST /lti/content-items endpoint

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ltilibrary/lti-go/internal/contentitem"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// ContentItemsHandler handles POST /lti/content-items requests
type ContentItemsHandler struct {
	verifier *oauth.Verifier
}

// NewContentItemsHandler creates a new handler for content-item selection returns
func NewContentItemsHandler(verifier *oauth.Verifier) *ContentItemsHandler {
	return &ContentItemsHandler{verifier: verifier}
}

// HandleContentItems godoc
//
//	@Summary		Receive a content-item selection
//	@Description	The content_item_return_url of a ContentItemSelectionRequest. Verifies the signed
//	@Description	ContentItemSelection message and decodes its content_items graph.
//
//	@Tags		LTI
//
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//
//	@Success	200	{object}	ltiapi.ContentItemsResponse	"Selection received"
//	@Failure	400	{object}	ltiapi.ErrorResponse		"Invalid message or malformed content_items"
//	@Failure	401	{object}	ltiapi.ErrorResponse		"Signature verification failed"
//
//	@Router		/lti/content-items [post]
func (h *ContentItemsHandler) HandleContentItems(w http.ResponseWriter, r *http.Request) {
	msg, err := lti.VerifyRequest(h.verifier, r)
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}
	if msg.MessageType() != lti.MessageTypeContentItemSelection {
		ltiapi.RespondWithErrorResponse(w, r, lti.NewInvalidParameterError(
			fmt.Sprintf("expected %s, got %q", lti.MessageTypeContentItemSelection, msg.MessageType())))
		return
	}

	resp := &ltiapi.ContentItemsResponse{
		ConsumerKey: msg.ConsumerKey(),
		Data:        msg.Data(),
		Message:     msg.LtiMsg(),
		Log:         msg.LtiLog(),
		Items:       []ltiapi.ContentItemSummary{},
	}

	// a selection may be cancelled, in which case content_items is absent
	if raw := msg.ContentItems(); raw != "" {
		items, err := contentitem.Decode([]byte(raw))
		if err != nil {
			ltiapi.RespondWithErrorResponse(w, r, err)
			return
		}
		for _, item := range items {
			resp.Items = append(resp.Items, summarise(item))
		}
	}

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("consumer_key", resp.ConsumerKey),
		slog.Int("content_items", len(resp.Items)),
	)

	ltiapi.RespondWithJSONPayload(w, http.StatusOK, resp)
}

func summarise(item contentitem.Item) ltiapi.ContentItemSummary {
	summary := ltiapi.ContentItemSummary{Type: item.Type()}

	var props contentitem.Properties
	switch it := item.(type) {
	case contentitem.LtiLinkItem:
		props = it.Properties
		if it.LineItem != nil {
			summary.LineItemLabel = it.LineItem.Label
		}
	case contentitem.FileItem:
		props = it.Properties
	case contentitem.ContentItem:
		props = it.Properties
	}

	summary.ID = props.ID
	summary.URL = props.URL
	summary.MediaType = props.MediaType
	summary.Title = props.Title
	return summary
}
