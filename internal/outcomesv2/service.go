package outcomesv2

// service.go implements the Tool Consumer side of Outcomes Management over a gradebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// PublicBaseURL is the externally visible origin used for @id and nextPage links.
	// Empty derives it from the request.
	PublicBaseURL string

	// PathPrefix is where the routes are mounted, e.g. "/outcomes/v2".
	PathPrefix string

	// PageSize is used when a list request has no limit. Limits above MaxPageSize are reduced.
	PageSize    int
	MaxPageSize int
}

// Service serves line items and results from a gradebook.
//
// The routes expect the request to have been verified already: the consumer key is taken from
// oauth.VerifiedRequestFromContext and scopes every record.
type Service struct {
	store gradebook.Store
	opts  ServiceOptions
}

// NewService creates a service.
func NewService(store gradebook.Store, opts ServiceOptions) *Service {
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	opts.PathPrefix = "/" + strings.Trim(opts.PathPrefix, "/")
	if opts.PathPrefix == "/" {
		opts.PathPrefix = ""
	}
	return &Service{store: store, opts: opts}
}

// Routes returns the router to mount at PathPrefix.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{contextID}/lineitems", func(r chi.Router) {
		r.Get("/", s.HandleListLineItems)
		r.Post("/", s.HandleCreateLineItem)

		r.Route("/{lineItemID}", func(r chi.Router) {
			r.Get("/", s.HandleGetLineItem)
			r.Put("/", s.HandleUpdateLineItem)
			r.Delete("/", s.HandleDeleteLineItem)

			r.Get("/results", s.HandleListResults)
			r.Post("/results", s.HandleCreateResult)
			r.Get("/results/{resultID}", s.HandleGetResult)
			r.Put("/results/{resultID}", s.HandleUpdateResult)
			r.Delete("/results/{resultID}", s.HandleDeleteResult)
		})
	})
	return r
}

// HandleListLineItems godoc
//
//	@Summary		List line items
//	@Description	Returns one page of the context's line items. Follow nextPage for the rest.
//
//	@Tags		Outcomes
//
//	@Produce	application/vnd.ims.lis.v2.lineitemcontainer+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		limit		query	int		false	"Page size"
//	@Param		p			query	int		false	"Page number (starting at 1)"
//	@Param		firstPage	query	string	false	"Return the first page"
//	@Param		activityId	query	string	false	"Only line items for this activity"
//
//	@Success	200	{object}	LineItemPage
//	@Failure	400	{object}	ltiapi.ErrorResponse	"Invalid paging parameters"
//	@Failure	401	{object}	ltiapi.ErrorResponse	"Signature verification failed"
//
//	@Router		/outcomes/v2/{contextID}/lineitems [get]
func (s *Service) HandleListLineItems(w http.ResponseWriter, r *http.Request) {
	consumerKey, ok := s.consumerKey(w, r)
	if !ok {
		return
	}
	contextID := chi.URLParam(r, "contextID")

	paging, err := s.parsePaging(r)
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}
	activityID := r.URL.Query().Get("activityId")

	// one extra row tells us whether there is a next page
	items, err := s.store.ListLineItems(r.Context(), consumerKey,
		gradebook.LineItemFilter{ContextID: contextID, ActivityID: activityID},
		gradebook.ListOptions{Offset: paging.offset(), Limit: paging.limit + 1})
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, ltiapi.WrapInternalError(err, "failed to list line items"))
		return
	}

	containerURL := s.lineItemsURL(r, contextID)
	filter := url.Values{}
	if activityID != "" {
		filter.Set("activityId", activityID)
	}

	page := &LineItemPage{
		Context: ContextLineItemContainer,
		Type:    "Page",
		ID:      paging.pageURL(containerURL, paging.page, filter),
		PageOf: LineItemContainer{
			Type: "LineItemContainer",
			MembershipSubject: LineItemSubject{
				Type:      "Context",
				ContextID: contextID,
				LineItems: []LineItem{},
			},
		},
	}
	if len(items) > paging.limit {
		items = items[:paging.limit]
		page.NextPage = paging.pageURL(containerURL, paging.page+1, filter)
	}
	for i := range items {
		page.PageOf.MembershipSubject.LineItems = append(page.PageOf.MembershipSubject.LineItems, s.lineItemToWire(r, &items[i]))
	}

	ltiapi.RespondWithContent(w, http.StatusOK, MediaTypeLineItemContainer, page)
}

// HandleCreateLineItem godoc
//
//	@Summary	Create a line item
//
//	@Tags		Outcomes
//
//	@Accept		application/vnd.ims.lis.v2.lineitem+json
//	@Produce	application/vnd.ims.lis.v2.lineitem+json
//
//	@Param		contextID	path	string		true	"Context id"
//	@Param		body		body	LineItem	true	"Line item"
//
//	@Success	201	{object}	LineItem
//	@Failure	400	{object}	ltiapi.ErrorResponse	"Malformed line item"
//
//	@Router		/outcomes/v2/{contextID}/lineitems [post]
func (s *Service) HandleCreateLineItem(w http.ResponseWriter, r *http.Request) {
	consumerKey, ok := s.consumerKey(w, r)
	if !ok {
		return
	}
	contextID := chi.URLParam(r, "contextID")

	var in LineItem
	if err := decodeBody(r, &in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}
	if err := validateLineItem(&in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	item := lineItemFromWire(&in)
	item.ConsumerKey = consumerKey
	item.ContextID = contextID
	if err := s.store.CreateLineItem(r.Context(), item); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to create line item"))
		return
	}

	logger.ContextRequestLogger(r.Context()).Info("line item created",
		slog.String("context_id", contextID),
		slog.String("line_item_id", item.ID),
	)

	out := s.lineItemToWire(r, item)
	w.Header().Set("Location", out.ID)
	ltiapi.RespondWithContent(w, http.StatusCreated, MediaTypeLineItem, out)
}

// HandleGetLineItem godoc
//
//	@Summary	Get a line item
//
//	@Tags		Outcomes
//
//	@Produce	application/vnd.ims.lis.v2.lineitem+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//
//	@Success	200	{object}	LineItem
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Line item not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID} [get]
func (s *Service) HandleGetLineItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}
	ltiapi.RespondWithContent(w, http.StatusOK, MediaTypeLineItem, s.lineItemToWire(r, item))
}

// HandleUpdateLineItem godoc
//
//	@Summary	Replace a line item
//
//	@Tags		Outcomes
//
//	@Accept		application/vnd.ims.lis.v2.lineitem+json
//
//	@Param		contextID	path	string		true	"Context id"
//	@Param		lineItemID	path	string		true	"Line item id"
//	@Param		body		body	LineItem	true	"Line item"
//
//	@Success	204	"Line item updated"
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Line item not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID} [put]
func (s *Service) HandleUpdateLineItem(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}

	var in LineItem
	if err := decodeBody(r, &in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}
	if err := validateLineItem(&in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	item := lineItemFromWire(&in)
	item.ID = existing.ID
	item.ConsumerKey = existing.ConsumerKey
	item.ContextID = existing.ContextID
	if err := s.store.UpdateLineItem(r.Context(), item); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to update line item"))
		return
	}
	ltiapi.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// HandleDeleteLineItem godoc
//
//	@Summary	Delete a line item and its results
//
//	@Tags		Outcomes
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//
//	@Success	204	"Line item deleted"
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Line item not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID} [delete]
func (s *Service) HandleDeleteLineItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteLineItem(r.Context(), item.ConsumerKey, item.ID); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to delete line item"))
		return
	}
	ltiapi.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// HandleListResults godoc
//
//	@Summary	List the results of a line item
//
//	@Tags		Outcomes
//
//	@Produce	application/vnd.ims.lis.v2.resultcontainer+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//	@Param		limit		query	int		false	"Page size"
//	@Param		p			query	int		false	"Page number (starting at 1)"
//	@Param		firstPage	query	string	false	"Return the first page"
//
//	@Success	200	{object}	ResultPage
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Line item not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID}/results [get]
func (s *Service) HandleListResults(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}
	paging, err := s.parsePaging(r)
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	results, err := s.store.ListResults(r.Context(), item.ConsumerKey, item.ID,
		gradebook.ListOptions{Offset: paging.offset(), Limit: paging.limit + 1})
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to list results"))
		return
	}

	containerURL := s.resultsURL(r, item)
	page := &ResultPage{
		Context: ContextResultContainer,
		Type:    "Page",
		ID:      paging.pageURL(containerURL, paging.page, nil),
		PageOf: ResultContainer{
			Type:              "ResultContainer",
			MembershipSubject: ResultSubject{Type: "LineItem", Results: []Result{}},
		},
	}
	if len(results) > paging.limit {
		results = results[:paging.limit]
		page.NextPage = paging.pageURL(containerURL, paging.page+1, nil)
	}
	for i := range results {
		page.PageOf.MembershipSubject.Results = append(page.PageOf.MembershipSubject.Results, s.resultToWire(r, item, &results[i]))
	}

	ltiapi.RespondWithContent(w, http.StatusOK, MediaTypeResultContainer, page)
}

// HandleCreateResult godoc
//
//	@Summary		Create a result
//	@Description	A result with a sourcedId can also be scored through Basic Outcomes.
//
//	@Tags		Outcomes
//
//	@Accept		application/vnd.ims.lis.v2.result+json
//	@Produce	application/vnd.ims.lis.v2.result+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//	@Param		body		body	Result	true	"Result"
//
//	@Success	201	{object}	Result
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Line item not found"
//	@Failure	409	{object}	ltiapi.ErrorResponse	"sourcedId already in use"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID}/results [post]
func (s *Service) HandleCreateResult(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}

	var in Result
	if err := decodeBody(r, &in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	result := resultFromWire(&in)
	result.ConsumerKey = item.ConsumerKey
	result.LineItemID = item.ID
	if err := s.store.CreateResult(r.Context(), result); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to create result"))
		return
	}

	out := s.resultToWire(r, item, result)
	w.Header().Set("Location", out.ID)
	ltiapi.RespondWithContent(w, http.StatusCreated, MediaTypeResult, out)
}

// HandleGetResult godoc
//
//	@Summary	Get a result
//
//	@Tags		Outcomes
//
//	@Produce	application/vnd.ims.lis.v2.result+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//	@Param		resultID	path	string	true	"Result id"
//
//	@Success	200	{object}	Result
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Result not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID}/results/{resultID} [get]
func (s *Service) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}
	result, err := s.store.GetResult(r.Context(), item.ConsumerKey, item.ID, chi.URLParam(r, "resultID"))
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to get result"))
		return
	}
	ltiapi.RespondWithContent(w, http.StatusOK, MediaTypeResult, s.resultToWire(r, item, result))
}

// HandleUpdateResult godoc
//
//	@Summary	Replace a result
//
//	@Tags		Outcomes
//
//	@Accept		application/vnd.ims.lis.v2.result+json
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//	@Param		resultID	path	string	true	"Result id"
//	@Param		body		body	Result	true	"Result"
//
//	@Success	204	"Result updated"
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Result not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID}/results/{resultID} [put]
func (s *Service) HandleUpdateResult(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}

	var in Result
	if err := decodeBody(r, &in); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, err)
		return
	}

	result := resultFromWire(&in)
	result.ID = chi.URLParam(r, "resultID")
	result.ConsumerKey = item.ConsumerKey
	result.LineItemID = item.ID
	if err := s.store.UpdateResult(r.Context(), result); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to update result"))
		return
	}
	ltiapi.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// HandleDeleteResult godoc
//
//	@Summary	Delete a result
//
//	@Tags		Outcomes
//
//	@Param		contextID	path	string	true	"Context id"
//	@Param		lineItemID	path	string	true	"Line item id"
//	@Param		resultID	path	string	true	"Result id"
//
//	@Success	204	"Result deleted"
//	@Failure	404	{object}	ltiapi.ErrorResponse	"Result not found"
//
//	@Router		/outcomes/v2/{contextID}/lineitems/{lineItemID}/results/{resultID} [delete]
func (s *Service) HandleDeleteResult(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadLineItem(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteResult(r.Context(), item.ConsumerKey, item.ID, chi.URLParam(r, "resultID")); err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to delete result"))
		return
	}
	ltiapi.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

func (s *Service) consumerKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	verified, ok := oauth.VerifiedRequestFromContext(r.Context())
	if !ok {
		ltiapi.RespondWithErrorResponse(w, r, ltiapi.NewInternalError("outcomes route reached without signature verification"))
		return "", false
	}
	return verified.ConsumerKey, true
}

// loadLineItem returns the line item named by the route, if it belongs to the route's context.
func (s *Service) loadLineItem(w http.ResponseWriter, r *http.Request) (*gradebook.LineItem, bool) {
	consumerKey, ok := s.consumerKey(w, r)
	if !ok {
		return nil, false
	}
	item, err := s.store.GetLineItem(r.Context(), consumerKey, chi.URLParam(r, "lineItemID"))
	if err == nil && item.ContextID != chi.URLParam(r, "contextID") {
		err = gradebook.ErrNotFound
	}
	if err != nil {
		ltiapi.RespondWithErrorResponse(w, r, storeError(err, "failed to get line item"))
		return nil, false
	}
	return item, true
}

// storeError keeps ErrNotFound and ErrConflict visible to the error mapping and treats
// everything else as internal.
func storeError(err error, msg string) error {
	if errors.Is(err, gradebook.ErrNotFound) || errors.Is(err, gradebook.ErrConflict) {
		return err
	}
	return ltiapi.WrapInternalError(err, msg)
}

func decodeBody(r *http.Request, v any) error {
	var body []byte
	if verified, ok := oauth.VerifiedRequestFromContext(r.Context()); ok {
		body = verified.Body
	}
	if len(body) == 0 {
		return ltiapi.NewMalformedRequestError("request body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return ltiapi.WrapMalformedRequestError(err, "request body is not valid JSON")
	}
	return nil
}

func validateLineItem(li *LineItem) error {
	if strings.TrimSpace(li.Label) == "" {
		return ltiapi.NewMalformedRequestError("label is required")
	}
	if sc := li.ScoreConstraints; sc != nil {
		for name, v := range map[string]*float64{
			"normalMaximum":      sc.NormalMaximum,
			"extraCreditMaximum": sc.ExtraCreditMaximum,
			"totalMaximum":       sc.TotalMaximum,
		} {
			if v != nil && *v < 0 {
				return ltiapi.NewMalformedRequestError(fmt.Sprintf("scoreConstraints.%s cannot be negative", name))
			}
		}
	}
	return nil
}
