package outcomesv2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ltilibrary/lti-go/internal/oauth"
	"github.com/ltilibrary/lti-go/internal/transport"
)

// Client calls a Tool Consumer's Outcomes Management service.
//
// Every call is signed. GET, POST and PUT bodies are covered by oauth_body_hash; DELETE has no
// body. A non-2xx status is a remote failure and an unreadable body a malformed envelope.
type Client struct {
	transport *transport.Client
}

// NewClient returns a client sending through t.
func NewClient(t *transport.Client) *Client {
	return &Client{transport: t}
}

// ListOptions are the paging and filter parameters of a list call.
type ListOptions struct {
	// Limit asks for at most this many items per page. Zero leaves it to the server.
	Limit int

	// FirstPage sends the firstPage flag.
	FirstPage bool

	// Page selects a page by number (the p parameter). Zero omits it.
	Page int

	// ActivityID filters line items by assignedActivity.activityId.
	ActivityID string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.FirstPage {
		v.Set("firstPage", "")
	}
	if o.Page > 0 {
		v.Set("p", strconv.Itoa(o.Page))
	}
	if o.ActivityID != "" {
		v.Set("activityId", o.ActivityID)
	}
	return v
}

// ListLineItems fetches every page of the container at containerURL and returns the line items
// in order.
func (c *Client) ListLineItems(ctx context.Context, containerURL string, opts ListOptions) ([]LineItem, error) {
	firstURL, err := transport.AppendQuery(containerURL, opts.values())
	if err != nil {
		return nil, err
	}
	pages, err := transport.CollectPages(ctx, firstURL, c.GetLineItemPage)
	if err != nil {
		return nil, err
	}

	var items []LineItem
	for _, p := range pages {
		items = append(items, p.PageOf.MembershipSubject.LineItems...)
	}
	return items, nil
}

// GetLineItemPage fetches a single page of a line item container.
func (c *Client) GetLineItemPage(ctx context.Context, pageURL string) (*LineItemPage, error) {
	var page LineItemPage
	if err := c.call(ctx, http.MethodGet, pageURL, MediaTypeLineItemContainer, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLineItem fetches the line item at itemURL.
func (c *Client) GetLineItem(ctx context.Context, itemURL string) (*LineItem, error) {
	var item LineItem
	if err := c.call(ctx, http.MethodGet, itemURL, MediaTypeLineItem, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateLineItem posts item to the container and returns the created line item, including the
// @id the consumer assigned.
func (c *Client) CreateLineItem(ctx context.Context, containerURL string, item *LineItem) (*LineItem, error) {
	body := *item
	body.Context, body.Type = ContextLineItem, "LineItem"

	var created LineItem
	if err := c.call(ctx, http.MethodPost, containerURL, MediaTypeLineItem, &body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLineItem replaces the line item at item.ID.
func (c *Client) UpdateLineItem(ctx context.Context, item *LineItem) error {
	if item.ID == "" {
		return oauth.NewInvalidRequestError("line item has no @id to send the update to")
	}
	body := *item
	body.Context, body.Type = ContextLineItem, "LineItem"
	return c.call(ctx, http.MethodPut, item.ID, MediaTypeLineItem, &body, nil)
}

// DeleteLineItem deletes the line item at itemURL together with its results.
func (c *Client) DeleteLineItem(ctx context.Context, itemURL string) error {
	return c.call(ctx, http.MethodDelete, itemURL, "", nil, nil)
}

// ListResults fetches every page of the result container at containerURL.
func (c *Client) ListResults(ctx context.Context, containerURL string, opts ListOptions) ([]Result, error) {
	firstURL, err := transport.AppendQuery(containerURL, opts.values())
	if err != nil {
		return nil, err
	}
	pages, err := transport.CollectPages(ctx, firstURL, c.GetResultPage)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, p := range pages {
		results = append(results, p.PageOf.MembershipSubject.Results...)
	}
	return results, nil
}

// GetResultPage fetches a single page of a result container.
func (c *Client) GetResultPage(ctx context.Context, pageURL string) (*ResultPage, error) {
	var page ResultPage
	if err := c.call(ctx, http.MethodGet, pageURL, MediaTypeResultContainer, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetResult fetches the result at resultURL.
func (c *Client) GetResult(ctx context.Context, resultURL string) (*Result, error) {
	var result Result
	if err := c.call(ctx, http.MethodGet, resultURL, MediaTypeResult, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateResult posts result to the container and returns the created result.
func (c *Client) CreateResult(ctx context.Context, containerURL string, result *Result) (*Result, error) {
	body := *result
	body.Context, body.Type = ContextResult, "LISResult"

	var created Result
	if err := c.call(ctx, http.MethodPost, containerURL, MediaTypeResult, &body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateResult replaces the result at result.ID.
func (c *Client) UpdateResult(ctx context.Context, result *Result) error {
	if result.ID == "" {
		return oauth.NewInvalidRequestError("result has no @id to send the update to")
	}
	body := *result
	body.Context, body.Type = ContextResult, "LISResult"
	return c.call(ctx, http.MethodPut, result.ID, MediaTypeResult, &body, nil)
}

// DeleteResult deletes the result at resultURL.
func (c *Client) DeleteResult(ctx context.Context, resultURL string) error {
	return c.call(ctx, http.MethodDelete, resultURL, "", nil, nil)
}

// call sends in (when not nil) as mediaType and decodes the response into out (when not nil).
func (c *Client) call(ctx context.Context, method, rawURL, mediaType string, in, out any) error {
	req := transport.Request{Method: method, URL: rawURL, ContentType: mediaType}
	if out != nil {
		req.Accept = mediaType
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", mediaType, err)
		}
		req.Body = body
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success() {
		return transport.NewRemoteFailureError(resp.Exchange, fmt.Sprintf("%s %s was rejected", method, rawURL))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return transport.WrapMalformedEnvelopeError(err, resp.Exchange, fmt.Sprintf("response is not a valid %s document", mediaType))
	}
	return nil
}
