package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

type staticSecrets map[string]string

func (s staticSecrets) LookupSecret(_ context.Context, key string) (string, error) {
	if secret, ok := s[key]; ok {
		return secret, nil
	}
	return "", errors.New("unknown consumer")
}

func verifyingServer(t *testing.T, check func(r *http.Request, verified *oauth.VerifiedRequest)) *httptest.Server {
	t.Helper()
	verifier := &oauth.Verifier{Secrets: staticSecrets{"k": "s"}, RequireBodyHash: true}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verified, err := verifier.VerifyRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		check(r, verified)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SignsRequests(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		body         []byte
		wantBodyHash bool
	}{
		{"post with body", http.MethodPost, []byte(`{"label":"Quiz"}`), true},
		{"put with empty body", http.MethodPut, []byte{}, true},
		{"get", http.MethodGet, nil, false},
		{"delete", http.MethodDelete, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := verifyingServer(t, func(r *http.Request, verified *oauth.VerifiedRequest) {
				if got := verified.Parameters.Has(oauth.ParamBodyHash); got != tt.wantBodyHash {
					t.Errorf("oauth_body_hash present = %v, want %v", got, tt.wantBodyHash)
				}
				if got := r.URL.Query().Get("limit"); got != "5" {
					t.Errorf("limit = %q", got)
				}
			})

			client := NewClient(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, WithSignatureMethod(oauth.HMACSHA256))
			resp, err := client.Do(t.Context(), Request{
				Method:      tt.method,
				URL:         srv.URL + "/lineitems?limit=5",
				ContentType: "application/json",
				Body:        tt.body,
			})
			if err != nil {
				t.Fatalf("Do() returned error: %v", err)
			}
			if !resp.Success() {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
			}
		})
	}
}

func TestClient_WrongSecretIsNotSuccess(t *testing.T) {
	srv := verifyingServer(t, func(*http.Request, *oauth.VerifiedRequest) {})

	resp, err := NewClient(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "wrong"}).
		Do(t.Context(), Request{Method: http.MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("Do() returned error: %v", err)
	}
	if resp.Success() || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestClient_TransportErrors(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		url  string
	}{
		{"connection refused", context.Background(), closedURL},
		{"cancelled context", cancelled, "http://127.0.0.1:1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(oauth.Credentials{ConsumerKey: "k"}).
				Do(tt.ctx, Request{Method: http.MethodGet, URL: tt.url})
			var transportErr *Error
			if !errors.As(err, &transportErr) {
				t.Fatalf("Do() = %v, want *Error", err)
			}
			if transportErr.Code() != ErrCodeTransport {
				t.Errorf("Code() = %q", transportErr.Code())
			}
			if transportErr.StatusCode() != 0 {
				t.Errorf("StatusCode() = %d, want 0", transportErr.StatusCode())
			}
		})
	}
}

func TestClient_ResponseSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		limit   int64
		wantErr bool
	}{
		{"body at the limit", 64, false},
		{"body over the limit", 63, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewClient(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, WithMaxResponseSize(tt.limit)).
				Do(t.Context(), Request{Method: http.MethodGet, URL: srv.URL})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Do() returned error: %v", err)
				}
				if len(resp.Body) != 64 {
					t.Errorf("got %d body bytes, want 64", len(resp.Body))
				}
				return
			}

			var transportErr *Error
			if !errors.As(err, &transportErr) || transportErr.Code() != ErrCodeTransport {
				t.Fatalf("Do() = %v, want a transport error", err)
			}
			if transportErr.StatusCode() != http.StatusOK {
				t.Errorf("StatusCode() = %d, want 200", transportErr.StatusCode())
			}
			if !strings.Contains(err.Error(), "exceeds 63 bytes") {
				t.Errorf("error %q does not name the limit", err)
			}
		})
	}
}

func TestClient_SigningErrorsAreReturnedBeforeSending(t *testing.T) {
	_, err := NewClient(oauth.Credentials{}).Do(t.Context(), Request{Method: http.MethodGet, URL: "http://127.0.0.1:1/"})
	var oauthErr *oauth.OAuthError
	if !errors.As(err, &oauthErr) || oauthErr.Code() != oauth.ErrCodeInvalidRequest {
		t.Fatalf("Do() = %v, want oauth invalid request", err)
	}
}

func TestClient_DebugCapturesExchange(t *testing.T) {
	srv := verifyingServer(t, func(*http.Request, *oauth.VerifiedRequest) {})
	body := []byte("<request/>")

	for _, debug := range []bool{false, true} {
		t.Run(fmt.Sprintf("debug=%v", debug), func(t *testing.T) {
			resp, err := NewClient(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, WithDebug(debug)).
				Do(t.Context(), Request{Method: http.MethodPost, URL: srv.URL, ContentType: "application/xml", Body: body})
			if err != nil {
				t.Fatalf("Do() returned error: %v", err)
			}
			captured := resp.Exchange.RequestText == string(body) && resp.Exchange.ResponseText == "ok"
			if captured != debug {
				t.Errorf("exchange = %+v, debug = %v", resp.Exchange, debug)
			}
			if resp.Exchange.StatusCode != http.StatusOK {
				t.Errorf("StatusCode = %d", resp.Exchange.StatusCode)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := NewRemoteFailureError(Exchange{StatusCode: 404}, "line item not found")
	if got := err.Error(); !strings.Contains(got, "line item not found") || !strings.Contains(got, "404") {
		t.Errorf("Error() = %q", got)
	}
}
