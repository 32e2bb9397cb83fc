package outcomesv2

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
)

// paging is a parsed limit/p/firstPage request.
type paging struct {
	limit int
	page  int
}

func (p paging) offset() int { return (p.page - 1) * p.limit }

// pageURL is the canonical url of page n: the container url with limit and p, plus any filters.
func (p paging) pageURL(containerURL string, n int, filter url.Values) string {
	q := url.Values{}
	for k, v := range filter {
		q[k] = v
	}
	q.Set("limit", strconv.Itoa(p.limit))
	q.Set("p", strconv.Itoa(n))
	return containerURL + "?" + q.Encode()
}

func (s *Service) parsePaging(r *http.Request) (paging, error) {
	query := r.URL.Query()
	p := paging{limit: s.opts.PageSize, page: 1}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, ltiapi.NewMalformedRequestError(fmt.Sprintf("limit must be a positive integer, got %q", raw))
		}
		p.limit = min(limit, s.opts.MaxPageSize)
	}

	// firstPage is the default, p selects any other page
	if raw := query.Get("p"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, ltiapi.NewMalformedRequestError(fmt.Sprintf("p must be a positive integer, got %q", raw))
		}
		// page*limit must fit in an int: the store reads limit+1 rows from the offset and the
		// next page link uses page+1
		if page > (math.MaxInt-1)/p.limit {
			return p, ltiapi.NewMalformedRequestError(fmt.Sprintf("p %d is out of range for limit %d", page, p.limit))
		}
		p.page = page
	}
	return p, nil
}

// origin is the scheme and host (plus any proxy path prefix) links are built on.
func (s *Service) origin(r *http.Request) string {
	if s.opts.PublicBaseURL != "" {
		return strings.TrimSuffix(s.opts.PublicBaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}

func (s *Service) lineItemsURL(r *http.Request, contextID string) string {
	return s.origin(r) + s.opts.PathPrefix + "/" + url.PathEscape(contextID) + "/lineitems"
}

func (s *Service) lineItemURL(r *http.Request, item *gradebook.LineItem) string {
	return s.lineItemsURL(r, item.ContextID) + "/" + url.PathEscape(item.ID)
}

func (s *Service) resultsURL(r *http.Request, item *gradebook.LineItem) string {
	return s.lineItemURL(r, item) + "/results"
}

func (s *Service) lineItemToWire(r *http.Request, item *gradebook.LineItem) LineItem {
	out := LineItem{
		Context:         ContextLineItem,
		Type:            "LineItem",
		ID:              s.lineItemURL(r, item),
		Label:           item.Label,
		ReportingMethod: item.ReportingMethod,
		ResourceLinkID:  item.ResourceLinkID,
		Results:         s.resultsURL(r, item),
	}
	if item.ActivityID != "" {
		out.AssignedActivity = &Activity{ActivityID: item.ActivityID}
	}
	if item.NormalMaximum != nil || item.ExtraCreditMaximum != nil || item.TotalMaximum != nil {
		out.ScoreConstraints = &ScoreConstraints{
			Type:               "NumericLimits",
			NormalMaximum:      item.NormalMaximum,
			ExtraCreditMaximum: item.ExtraCreditMaximum,
			TotalMaximum:       item.TotalMaximum,
		}
	}
	return out
}

func lineItemFromWire(in *LineItem) *gradebook.LineItem {
	item := &gradebook.LineItem{
		Label:           in.Label,
		ReportingMethod: in.ReportingMethod,
		ResourceLinkID:  in.ResourceLinkID,
		ActivityID:      in.ActivityID(),
	}
	if sc := in.ScoreConstraints; sc != nil {
		item.NormalMaximum = sc.NormalMaximum
		item.ExtraCreditMaximum = sc.ExtraCreditMaximum
		item.TotalMaximum = sc.TotalMaximum
	}
	return item
}

func (s *Service) resultToWire(r *http.Request, item *gradebook.LineItem, result *gradebook.Result) Result {
	out := Result{
		Context:      ContextResult,
		Type:         "LISResult",
		ID:           s.resultsURL(r, item) + "/" + url.PathEscape(result.ID),
		ResultOf:     s.lineItemURL(r, item),
		ResultScore:  result.Score,
		TotalScore:   result.TotalScore,
		Comment:      result.Comment,
		ResultStatus: result.Status,
		SourcedID:    result.SourcedID,
	}
	if result.UserID != "" {
		out.ResultAgent = &Agent{UserID: result.UserID}
	}
	return out
}

func resultFromWire(in *Result) *gradebook.Result {
	return &gradebook.Result{
		SourcedID:  in.SourcedID,
		UserID:     in.UserID(),
		Score:      in.ResultScore,
		TotalScore: in.TotalScore,
		Comment:    in.Comment,
		Status:     in.ResultStatus,
	}
}
