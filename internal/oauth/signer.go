package oauth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signer adds the OAuth protocol parameters and signature to outbound messages.
//
// Now and NewNonce are exposed so callers (and tests) can pin the timestamp and nonce.
type Signer struct {
	Now      func() time.Time
	NewNonce func() string
}

// NewSigner returns a Signer using the wall clock and random uuid nonces.
func NewSigner() *Signer {
	return &Signer{
		Now:      time.Now,
		NewNonce: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// SignParameters sets oauth_consumer_key, oauth_nonce, oauth_timestamp, oauth_signature_method,
// oauth_version and finally oauth_signature on params.
//
// Used for form-encoded launches where the oauth parameters travel in the body.
func (s *Signer) SignParameters(method, rawURL string, params *Parameters, creds Credentials, signatureMethod SignatureMethod) error {
	if creds.ConsumerKey == "" {
		return NewInvalidRequestError("consumer key is required")
	}
	if signatureMethod == "" {
		signatureMethod = DefaultSignatureMethod
	}

	params.Del(ParamSignature)
	params.Set(ParamConsumerKey, creds.ConsumerKey)
	params.Set(ParamNonce, s.NewNonce())
	params.Set(ParamTimestamp, strconv.FormatInt(s.Now().Unix(), 10))
	params.Set(ParamSignatureMethod, string(signatureMethod))
	params.Set(ParamVersion, Version)

	signature, err := Sign(method, rawURL, params, creds.ConsumerSecret, signatureMethod)
	if err != nil {
		return err
	}
	params.Set(ParamSignature, signature)
	return nil
}

// SignRequest signs req with an Authorization header.
//
// When body is non-nil its hash is sent in oauth_body_hash; callers pass nil for requests
// without a body (GET, DELETE). Query parameters on req.URL are covered by the signature.
func (s *Signer) SignRequest(req *http.Request, body []byte, creds Credentials, signatureMethod SignatureMethod) error {
	if req == nil || req.URL == nil {
		return NewInvalidRequestError("request is required")
	}
	if signatureMethod == "" {
		signatureMethod = DefaultSignatureMethod
	}

	params := &Parameters{}
	if body != nil {
		bodyHash, err := BodyHash(body, signatureMethod)
		if err != nil {
			return fmt.Errorf("failed to compute body hash: %w", err)
		}
		params.Set(ParamBodyHash, bodyHash)
	}

	if err := s.SignParameters(req.Method, req.URL.String(), params, creds, signatureMethod); err != nil {
		return err
	}
	req.Header.Set("Authorization", AuthorizationHeader(params))
	return nil
}
