package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/transport"
)

// Client reads memberships from a Tool Consumer.
type Client struct {
	transport *transport.Client
}

// NewClient returns a client sending through t.
func NewClient(t *transport.Client) *Client {
	return &Client{transport: t}
}

// Options filter a membership request.
type Options struct {
	// ResourceLinkID (rlid) limits the result to members with access to the resource link and
	// adds their resultSourcedId and per-link message.
	ResourceLinkID string

	// Role limits the result to members with this role.
	Role lti.Role

	// Limit asks for at most this many members per page. Zero leaves it to the consumer.
	Limit int
}

func (o Options) values() url.Values {
	v := url.Values{}
	if o.ResourceLinkID != "" {
		v.Set("rlid", o.ResourceLinkID)
	}
	if o.Role != "" {
		v.Set("role", string(o.Role))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// GetMemberships returns every membership of the service at serviceURL, following nextPage.
// The filters in opts are appended to any query serviceURL already has.
func (c *Client) GetMemberships(ctx context.Context, serviceURL string, opts Options) ([]Membership, error) {
	firstURL, err := transport.AppendQuery(serviceURL, opts.values())
	if err != nil {
		return nil, err
	}

	pages, err := transport.CollectPages(ctx, firstURL, c.GetPage)
	if err != nil {
		return nil, err
	}

	var members []Membership
	for _, p := range pages {
		members = append(members, p.PageOf.MembershipSubject.Membership...)
	}

	logger.ContextRequestLogger(ctx).Debug("memberships collected",
		slog.Int("pages", len(pages)),
		slog.Int("members", len(members)),
	)
	return members, nil
}

// GetPage fetches a single page.
func (c *Client) GetPage(ctx context.Context, pageURL string) (*Page, error) {
	resp, err := c.transport.Do(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    pageURL,
		Accept: MediaTypeMembershipContainer,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, transport.NewRemoteFailureError(resp.Exchange, fmt.Sprintf("membership request to %s was rejected", pageURL))
	}

	var page Page
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, transport.WrapMalformedEnvelopeError(err, resp.Exchange, "response is not a membership container")
	}
	return &page, nil
}
