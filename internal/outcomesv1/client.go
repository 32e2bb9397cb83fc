package outcomesv1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ltilibrary/lti-go/internal/transport"
)

// Client calls a Tool Consumer's Basic Outcomes service (lis_outcome_service_url).
type Client struct {
	transport    *transport.Client
	newMessageID func() string
}

// NewClient returns a client sending through t.
func NewClient(t *transport.Client) *Client {
	return &Client{transport: t, newMessageID: uuid.NewString}
}

// ReplaceResult sets the score for sourcedID. A nil score sends a record without resultScore.
func (c *Client) ReplaceResult(ctx context.Context, serviceURL, sourcedID string, score *float64) error {
	_, _, err := c.exchange(ctx, serviceURL, NewReplaceResultRequest(c.newMessageID(), sourcedID, score))
	return err
}

// ReadResult returns the score for sourcedID, or nil when the consumer holds none.
func (c *Client) ReadResult(ctx context.Context, serviceURL, sourcedID string) (*float64, error) {
	resp, exchange, err := c.exchange(ctx, serviceURL, NewReadResultRequest(c.newMessageID(), sourcedID))
	if err != nil {
		return nil, err
	}
	if resp.Body.ReadResult == nil {
		return nil, nil
	}
	score, err := resp.Body.ReadResult.Result.Score()
	if err != nil {
		return nil, transport.WrapMalformedEnvelopeError(err, exchange, "readResultResponse has an unreadable score")
	}
	return score, nil
}

// DeleteResult removes the score for sourcedID.
func (c *Client) DeleteResult(ctx context.Context, serviceURL, sourcedID string) error {
	_, _, err := c.exchange(ctx, serviceURL, NewDeleteResultRequest(c.newMessageID(), sourcedID))
	return err
}

// exchange sends req and returns the decoded response.
//
// A non-2xx status is a transport error, an unparseable body is a malformed envelope and any
// imsx_codeMajor other than success is a remote failure carrying imsx_description.
func (c *Client) exchange(ctx context.Context, serviceURL string, req *RequestEnvelope) (*ResponseEnvelope, transport.Exchange, error) {
	body, err := EncodeRequest(req)
	if err != nil {
		return nil, transport.Exchange{}, err
	}

	resp, err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		URL:         serviceURL,
		ContentType: MediaType,
		Accept:      MediaType,
		Body:        body,
	})
	if err != nil {
		return nil, transport.Exchange{}, err
	}
	if !resp.Success() {
		return nil, resp.Exchange, transport.NewTransportError(resp.Exchange, "outcome service returned an error status")
	}

	env, err := DecodeResponse(resp.Body)
	if err != nil {
		var malformed *transport.Error
		if errors.As(err, &malformed) {
			malformed.Exchange = resp.Exchange
		}
		return nil, resp.Exchange, err
	}

	status := env.Header.StatusInfo
	if status.CodeMajor != CodeMajorSuccess {
		description := status.Description
		if description == "" {
			description = fmt.Sprintf("imsx_codeMajor is %s", status.CodeMajor)
		}
		return nil, resp.Exchange, transport.NewRemoteFailureError(resp.Exchange, description)
	}
	return env, resp.Exchange, nil
}
