// verify.go authenticates inbound signed requests.
//
// Parameters are collected from the Authorization header, the query string and, for
// application/x-www-form-urlencoded bodies, the form body. The signature is recomputed with
// the consumer's secret and, when oauth_body_hash is present, the raw body is re-hashed so a
// signed header cannot be replayed with a substituted body.

package oauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SecretStore resolves a consumer key to its shared secret.
type SecretStore interface {
	LookupSecret(ctx context.Context, consumerKey string) (string, error)
}

// Verifier checks inbound signed requests.
type Verifier struct {
	Secrets SecretStore

	// TimestampTolerance rejects requests whose oauth_timestamp is further than this from Now.
	// Zero disables the check.
	TimestampTolerance time.Duration

	// PublicBaseURL replaces scheme and host of the inbound url when the server sits behind a
	// proxy (e.g. "https://tool.example"). Empty uses the request's own Host.
	PublicBaseURL string

	// RequireBodyHash rejects requests with a non-form body but no oauth_body_hash
	// (LTI service calls must hash their XML or JSON bodies).
	RequireBodyHash bool

	Now func() time.Time
}

// VerifiedRequest is the result of a successful verification.
type VerifiedRequest struct {
	// Parameters holds every parameter from the header, query and form body.
	Parameters *Parameters

	// Body is the raw request body (the request body is also restored for later readers).
	Body []byte

	ConsumerKey string
}

// VerifyRequest authenticates r and returns its parameters.
func (v *Verifier) VerifyRequest(r *http.Request) (*VerifiedRequest, error) {
	if v.Secrets == nil {
		return nil, NewInvalidRequestError("no secret store configured")
	}

	params, body, err := ReadRequest(r)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{ParamConsumerKey, ParamSignature, ParamSignatureMethod, ParamTimestamp, ParamNonce} {
		if params.Get(name) == "" {
			return nil, NewInvalidRequestError(fmt.Sprintf("%s is required", name))
		}
	}
	if version, ok := params.Lookup(ParamVersion); ok && version != Version {
		return nil, NewInvalidRequestError(fmt.Sprintf("unsupported oauth_version %q", version))
	}

	if err := v.checkTimestamp(params.Get(ParamTimestamp)); err != nil {
		return nil, err
	}

	consumerKey := params.Get(ParamConsumerKey)
	secret, err := v.Secrets.LookupSecret(r.Context(), consumerKey)
	if err != nil {
		return nil, WrapUnknownConsumerError(err, fmt.Sprintf("no secret for consumer key %q", consumerKey))
	}

	if v.RequireBodyHash && len(body) > 0 && !isFormBody(r) && !params.Has(ParamBodyHash) {
		return nil, NewInvalidRequestError("oauth_body_hash is required for this request")
	}
	if err := VerifyBodyHash(body, params); err != nil {
		return nil, err
	}

	requestURL, err := RequestURL(r, v.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	if err := Verify(r.Method, requestURL, params, secret); err != nil {
		return nil, err
	}

	return &VerifiedRequest{Parameters: params, Body: body, ConsumerKey: consumerKey}, nil
}

func (v *Verifier) checkTimestamp(raw string) error {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return NewTimestampError(fmt.Sprintf("invalid oauth_timestamp %q", raw))
	}
	if v.TimestampTolerance <= 0 {
		return nil
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	skew := now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.TimestampTolerance {
		return NewTimestampError(fmt.Sprintf("oauth_timestamp is outside the allowed window of %s", v.TimestampTolerance))
	}
	return nil
}

// ReadRequest collects the parameters of r without authenticating it and returns them with
// the raw body. The request body is restored for later readers.
func ReadRequest(r *http.Request) (*Parameters, []byte, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, nil, err
	}
	params, err := RequestParameters(r, body)
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

// RequestParameters collects the signed parameters of an inbound request.
func RequestParameters(r *http.Request, body []byte) (*Parameters, error) {
	params := &Parameters{}

	if header := r.Header.Get("Authorization"); header != "" {
		headerParams, err := ParseAuthorizationHeader(header)
		if err != nil {
			return nil, err
		}
		for _, p := range headerParams.All() {
			params.Add(p.Name, p.Value)
		}
	}

	for _, p := range ParametersFromValues(r.URL.Query()).All() {
		params.Add(p.Name, p.Value)
	}

	if isFormBody(r) && len(body) > 0 {
		form, err := parseOrderedForm(string(body))
		if err != nil {
			return nil, WrapInvalidRequestError(err, "malformed form body")
		}
		for _, p := range form.All() {
			params.Add(p.Name, p.Value)
		}
	}
	return params, nil
}

// RequestURL reconstructs the absolute url the client signed, without its query string.
// Query parameters are part of RequestParameters instead.
func RequestURL(r *http.Request, publicBaseURL string) (string, error) {
	if publicBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(publicBaseURL, "/"))
		if err != nil {
			return "", WrapInvalidRequestError(err, "invalid public base url")
		}
		u := *r.URL
		u.Scheme = base.Scheme
		u.Host = base.Host
		u.Path = base.Path + r.URL.Path
		u.RawPath = ""
		u.RawQuery = ""
		return u.String(), nil
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	u := *r.URL
	u.Scheme = scheme
	u.Host = r.Host
	u.RawQuery = ""
	return u.String(), nil
}

func isFormBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// parseOrderedForm decodes a form body keeping the order of its pairs.
func parseOrderedForm(body string) (*Parameters, error) {
	params := &Parameters{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			return nil, err
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		params.Add(decodedName, decodedValue)
	}
	return params, nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, WrapInvalidRequestError(err, "failed to read request body")
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
