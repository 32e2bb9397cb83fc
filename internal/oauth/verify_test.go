package oauth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type staticSecrets map[string]string

func (s staticSecrets) LookupSecret(_ context.Context, key string) (string, error) {
	secret, ok := s[key]
	if !ok {
		return "", fmt.Errorf("unknown consumer %q", key)
	}
	return secret, nil
}

func fixedSigner() *Signer {
	return &Signer{
		Now:      func() time.Time { return time.Unix(1000, 0) },
		NewNonce: func() string { return "n" },
	}
}

func TestSignParameters_ProducesPinnedSignature(t *testing.T) {
	params := NewParameters(
		Parameter{"lti_message_type", "basic-lti-launch-request"},
		Parameter{"lti_version", "LTI-1p0"},
		Parameter{"resource_link_id", "42"},
	)

	err := fixedSigner().SignParameters("POST", "https://tool.example/launch", params, Credentials{"k", "s"}, HMACSHA1)
	if err != nil {
		t.Fatalf("SignParameters() returned error: %v", err)
	}
	if got := params.Get(ParamSignature); got != "QnBMjDekIvCe1l/xmEZgPftYRt8=" {
		t.Errorf("oauth_signature = %q", got)
	}
}

func TestVerifier_FormLaunch(t *testing.T) {
	params := NewParameters(
		Parameter{"lti_message_type", "basic-lti-launch-request"},
		Parameter{"lti_version", "LTI-1p0"},
		Parameter{"resource_link_id", "42"},
		Parameter{"custom_greeting", "hello world+more"},
	)
	signer := NewSigner()
	if err := signer.SignParameters("POST", "http://tool.example/launch?x=1", params, Credentials{"k", "s"}, HMACSHA256); err != nil {
		t.Fatalf("SignParameters() returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "http://tool.example/launch?x=1", strings.NewReader(params.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	verifier := &Verifier{Secrets: staticSecrets{"k": "s"}, TimestampTolerance: 5 * time.Minute}
	verified, err := verifier.VerifyRequest(req)
	if err != nil {
		t.Fatalf("VerifyRequest() returned error: %v", err)
	}
	if verified.ConsumerKey != "k" {
		t.Errorf("ConsumerKey = %q", verified.ConsumerKey)
	}
	if got := verified.Parameters.Get("custom_greeting"); got != "hello world+more" {
		t.Errorf("custom_greeting = %q", got)
	}
	if got := verified.Parameters.Get("x"); got != "1" {
		t.Errorf("query parameter x = %q", got)
	}
}

func TestVerifier_HeaderSignedBody(t *testing.T) {
	body := []byte(`<?xml version="1.0"?><imsx_POXEnvelopeRequest/>`)

	newRequest := func(body []byte) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://consumer.example/outcomes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/xml")
		return req
	}

	signed := newRequest(body)
	if err := NewSigner().SignRequest(signed, body, Credentials{"k", "s"}, HMACSHA1); err != nil {
		t.Fatalf("SignRequest() returned error: %v", err)
	}
	authorization := signed.Header.Get("Authorization")

	verifier := &Verifier{Secrets: staticSecrets{"k": "s"}, RequireBodyHash: true}

	t.Run("untouched body verifies", func(t *testing.T) {
		req := newRequest(body)
		req.Header.Set("Authorization", authorization)
		if _, err := verifier.VerifyRequest(req); err != nil {
			t.Fatalf("VerifyRequest() returned error: %v", err)
		}
	})

	t.Run("substituted body is rejected", func(t *testing.T) {
		req := newRequest([]byte(`<?xml version="1.0"?><somethingElse/>`))
		req.Header.Set("Authorization", authorization)
		_, err := verifier.VerifyRequest(req)
		var oauthErr *OAuthError
		if !errors.As(err, &oauthErr) || oauthErr.Code() != ErrCodeBodyHashMismatch {
			t.Fatalf("VerifyRequest() = %v, want body hash mismatch", err)
		}
	})

	t.Run("missing body hash is rejected when required", func(t *testing.T) {
		req := newRequest(body)
		if err := NewSigner().SignRequest(req, nil, Credentials{"k", "s"}, HMACSHA1); err != nil {
			t.Fatalf("SignRequest() returned error: %v", err)
		}
		_, err := verifier.VerifyRequest(req)
		var oauthErr *OAuthError
		if !errors.As(err, &oauthErr) || oauthErr.Code() != ErrCodeInvalidRequest {
			t.Fatalf("VerifyRequest() = %v, want invalid request", err)
		}
	})
}

func TestVerifier_Rejections(t *testing.T) {
	signedRequest := func(creds Credentials, signer *Signer) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "http://consumer.example/lineitems?limit=2", nil)
		if err := signer.SignRequest(req, nil, creds, HMACSHA1); err != nil {
			t.Fatalf("SignRequest() returned error: %v", err)
		}
		return req
	}

	tests := []struct {
		name     string
		req      *http.Request
		verifier *Verifier
		wantCode ErrorCode
	}{
		{
			name:     "unknown consumer",
			req:      signedRequest(Credentials{"other", "s"}, NewSigner()),
			verifier: &Verifier{Secrets: staticSecrets{"k": "s"}},
			wantCode: ErrCodeUnknownConsumer,
		},
		{
			name:     "wrong secret",
			req:      signedRequest(Credentials{"k", "guess"}, NewSigner()),
			verifier: &Verifier{Secrets: staticSecrets{"k": "s"}},
			wantCode: ErrCodeSignatureMismatch,
		},
		{
			name:     "stale timestamp",
			req:      signedRequest(Credentials{"k", "s"}, fixedSigner()),
			verifier: &Verifier{Secrets: staticSecrets{"k": "s"}, TimestampTolerance: time.Minute},
			wantCode: ErrCodeTimestamp,
		},
		{
			name:     "unsigned request",
			req:      httptest.NewRequest(http.MethodGet, "http://consumer.example/lineitems", nil),
			verifier: &Verifier{Secrets: staticSecrets{"k": "s"}},
			wantCode: ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.VerifyRequest(tt.req)
			var oauthErr *OAuthError
			if !errors.As(err, &oauthErr) {
				t.Fatalf("VerifyRequest() = %v, want OAuthError", err)
			}
			if oauthErr.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q (%v)", oauthErr.Code(), tt.wantCode, err)
			}
		})
	}
}

func TestVerifier_StaleTimestampAllowedWithoutTolerance(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://consumer.example/lineitems", nil)
	if err := fixedSigner().SignRequest(req, nil, Credentials{"k", "s"}, HMACSHA1); err != nil {
		t.Fatalf("SignRequest() returned error: %v", err)
	}
	verifier := &Verifier{Secrets: staticSecrets{"k": "s"}}
	if _, err := verifier.VerifyRequest(req); err != nil {
		t.Fatalf("VerifyRequest() returned error: %v", err)
	}
}

func TestVerifier_PublicBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "https://public.example/api/lineitems/1", nil)
	if err := NewSigner().SignRequest(req, nil, Credentials{"k", "s"}, HMACSHA1); err != nil {
		t.Fatalf("SignRequest() returned error: %v", err)
	}

	// the server behind the proxy sees an internal host and a stripped prefix
	inbound := httptest.NewRequest(http.MethodDelete, "http://10.0.0.5:8080/lineitems/1", nil)
	inbound.Header.Set("Authorization", req.Header.Get("Authorization"))

	verifier := &Verifier{Secrets: staticSecrets{"k": "s"}, PublicBaseURL: "https://public.example/api/"}
	if _, err := verifier.VerifyRequest(inbound); err != nil {
		t.Fatalf("VerifyRequest() returned error: %v", err)
	}
}

func TestBodyHash(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		method SignatureMethod
		want   string
	}{
		{"empty body", []byte{}, HMACSHA1, "2jmj7l5rSw0yVb/vlWAYkK/YBwk="},
		{"hello world", []byte("hello world"), HMACSHA1, "Kq5sNclPz7QV2+lfQIuc6R7oRu0="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BodyHash(tt.body, tt.method)
			if err != nil {
				t.Fatalf("BodyHash() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BodyHash() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorizationHeader_RoundTrip(t *testing.T) {
	params := NewParameters(
		Parameter{ParamConsumerKey, "key with space"},
		Parameter{ParamSignature, "a+b/c="},
		Parameter{"lti_version", "LTI-1p0"},
	)
	header := AuthorizationHeader(params)

	if strings.Contains(header, "lti_version") {
		t.Errorf("non-oauth parameter leaked into header: %s", header)
	}
	if !strings.Contains(header, `oauth_signature="a%2Bb%2Fc%3D"`) {
		t.Errorf("signature not percent-encoded: %s", header)
	}

	parsed, err := ParseAuthorizationHeader(`OAuth realm="x", ` + header[len("OAuth "):])
	if err != nil {
		t.Fatalf("ParseAuthorizationHeader() returned error: %v", err)
	}
	if parsed.Has("realm") {
		t.Error("realm was not dropped")
	}
	if got := parsed.Get(ParamConsumerKey); got != "key with space" {
		t.Errorf("consumer key = %q", got)
	}
	if got := parsed.Get(ParamSignature); got != "a+b/c=" {
		t.Errorf("signature = %q", got)
	}
}

func TestParseAuthorizationHeader_Malformed(t *testing.T) {
	for _, header := range []string{`Bearer abc`, `OAuth oauth_nonce=unquoted`, `OAuth oauth_nonce`} {
		if _, err := ParseAuthorizationHeader(header); err == nil {
			t.Errorf("ParseAuthorizationHeader(%q) succeeded", header)
		}
	}
}

func TestCredentials_RedactsSecret(t *testing.T) {
	c := Credentials{ConsumerKey: "k", ConsumerSecret: "hunter2"}
	if strings.Contains(fmt.Sprint(c), "hunter2") || strings.Contains(fmt.Sprintf("%v", c), "hunter2") {
		t.Error("secret printed in clear text")
	}
}
