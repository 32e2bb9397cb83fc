// Package transport sends OAuth-signed requests to LTI services and reports failures as
// structured errors that carry the HTTP exchange.
//
// Requests are never retried: replaceResult and the v2 write operations are not idempotent,
// so retry is left to the caller.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// DefaultTimeout is used when the client is created without an http.Client.
const DefaultTimeout = 30 * time.Second

// DefaultMaxResponseSize bounds how much of a response body is read.
const DefaultMaxResponseSize = 10 << 20

// Client signs and sends service requests for one consumer key.
type Client struct {
	httpClient      *http.Client
	credentials     oauth.Credentials
	signatureMethod oauth.SignatureMethod
	signer          *oauth.Signer

	// larger response bodies fail with a transport error instead of being cut short
	maxResponseSize int64

	// debug captures the raw request and response text in Exchange
	debug bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

// WithSignatureMethod selects the HMAC hash for signatures and body hashes.
func WithSignatureMethod(m oauth.SignatureMethod) Option {
	return func(client *Client) { client.signatureMethod = m }
}

// WithSigner replaces the signer (tests pin the nonce and clock this way).
func WithSigner(s *oauth.Signer) Option {
	return func(client *Client) { client.signer = s }
}

// WithMaxResponseSize changes the largest response body accepted.
func WithMaxResponseSize(n int64) Option {
	return func(client *Client) { client.maxResponseSize = n }
}

// WithDebug records the raw request and response text on every Exchange.
func WithDebug(debug bool) Option {
	return func(client *Client) { client.debug = debug }
}

// NewClient returns a client signing with creds.
func NewClient(creds oauth.Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		credentials:     creds,
		signatureMethod: oauth.DefaultSignatureMethod,
		signer:          oauth.NewSigner(),
		maxResponseSize: DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is an outbound service call.
type Request struct {
	Method      string
	URL         string
	ContentType string
	Accept      string

	// Body is hashed into oauth_body_hash. Leave nil for requests without a body.
	Body []byte
}

// Response is a completed exchange. Any status code is returned; callers decide which are
// failures for their protocol.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Exchange   Exchange
}

// Success reports a 2xx status.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do signs and sends req.
//
// Signing problems are returned as the oauth error before anything is sent. Connection errors,
// timeouts and cancellation of ctx return an error with code ErrCodeTransport.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	exchange := Exchange{Method: req.Method, URL: req.URL}
	if c.debug && req.Body != nil {
		exchange.RequestText = string(req.Body)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, oauth.WrapInvalidRequestError(err, "failed to create request")
	}
	if req.ContentType != "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}

	if err := c.signer.SignRequest(httpReq, req.Body, c.credentials, c.signatureMethod); err != nil {
		return nil, err
	}

	reqLogger := logger.ContextRequestLogger(ctx)
	start := time.Now()

	// #nosec G704 -- service urls come from the launch or the caller's configuration
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		reqLogger.Debug("service request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.String("error", err.Error()),
		)
		return nil, WrapTransportError(err, exchange, fmt.Sprintf("%s %s failed", req.Method, req.URL))
	}
	defer resp.Body.Close()

	exchange.StatusCode = resp.StatusCode
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, WrapTransportError(err, exchange, "failed to read response body")
	}
	if int64(len(respBody)) > c.maxResponseSize {
		return nil, NewTransportError(exchange, fmt.Sprintf("response body exceeds %d bytes", c.maxResponseSize))
	}
	if c.debug {
		exchange.ResponseText = string(respBody)
	}

	reqLogger.Debug("service request completed",
		slog.String("method", req.Method),
		slog.String("url", req.URL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Exchange:   exchange,
	}, nil
}
