package lti

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

type staticSecrets map[string]string

func (s staticSecrets) LookupSecret(_ context.Context, key string) (string, error) {
	secret, ok := s[key]
	if !ok {
		return "", errors.New("unknown consumer")
	}
	return secret, nil
}

func postForm(target string, form *oauth.Parameters) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSignedForm_VerifiesOnTheToolSide(t *testing.T) {
	launch := NewBasicLaunchRequest("https://tool.example/launch", "42")
	launch.SetUserID("u-1")
	launch.SetRoles(RoleLearner)
	launch.AddCustomParameter("Student", "$User.id")

	creds := oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}
	form, err := launch.SignedForm(creds, oauth.HMACSHA256)
	if err != nil {
		t.Fatalf("SignedForm() returned error: %v", err)
	}
	if form.Get(oauth.ParamCallback) != CallbackAboutBlank {
		t.Errorf("oauth_callback = %q", form.Get(oauth.ParamCallback))
	}
	if launch.Parameters().Has(oauth.ParamSignature) {
		t.Error("SignedForm() modified the request it was called on")
	}

	verifier := &oauth.Verifier{Secrets: staticSecrets{"k": "s"}}
	received, err := VerifyRequest(verifier, postForm("https://tool.example/launch", form))
	if err != nil {
		t.Fatalf("VerifyRequest() returned error: %v", err)
	}
	if got := received.Get("custom_student"); got != "u-1" {
		t.Errorf("custom_student = %q, want u-1", got)
	}
	if !received.HasRole(RoleLearner) {
		t.Error("learner role lost")
	}
	if received.ConsumerKey() != "k" {
		t.Errorf("ConsumerKey() = %q", received.ConsumerKey())
	}
}

func TestSignedForm_RejectsIncompleteMessage(t *testing.T) {
	launch := NewBasicLaunchRequest("https://tool.example/launch", "")

	_, err := launch.SignedForm(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, oauth.HMACSHA1)
	var ltiErr *LtiError
	if !errors.As(err, &ltiErr) || ltiErr.Code() != ErrCodeMissingParameters {
		t.Fatalf("SignedForm() = %v, want missing parameters", err)
	}
}

func TestVerifyRequest_TamperedLaunch(t *testing.T) {
	form, err := NewBasicLaunchRequest("https://tool.example/launch", "42").
		SignedForm(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, oauth.HMACSHA1)
	if err != nil {
		t.Fatalf("SignedForm() returned error: %v", err)
	}
	form.Set(ParamResourceLinkID, "43")

	_, err = VerifyRequest(&oauth.Verifier{Secrets: staticSecrets{"k": "s"}}, postForm("https://tool.example/launch", form))
	var oauthErr *oauth.OAuthError
	if !errors.As(err, &oauthErr) || oauthErr.Code() != oauth.ErrCodeSignatureMismatch {
		t.Fatalf("VerifyRequest() = %v, want signature mismatch", err)
	}
}

func TestContentItemSelectionResponse_RoundTrip(t *testing.T) {
	response := NewContentItemSelectionResponse("https://lms.example/return", `{"@graph":[]}`, "opaque")
	form, err := response.SignedForm(oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, oauth.HMACSHA1)
	if err != nil {
		t.Fatalf("SignedForm() returned error: %v", err)
	}

	received, err := VerifyRequest(&oauth.Verifier{Secrets: staticSecrets{"k": "s"}}, postForm("https://lms.example/return", form))
	if err != nil {
		t.Fatalf("VerifyRequest() returned error: %v", err)
	}
	if received.MessageType() != MessageTypeContentItemSelection {
		t.Errorf("MessageType() = %q", received.MessageType())
	}
	if received.Data() != "opaque" || received.ContentItems() != `{"@graph":[]}` {
		t.Errorf("data = %q, content_items = %q", received.Data(), received.ContentItems())
	}
}

func TestParseRequest_DoesNotAuthenticate(t *testing.T) {
	form := oauth.NewParameters(
		oauth.Parameter{Name: ParamLtiMessageType, Value: string(MessageTypeBasicLaunch)},
		oauth.Parameter{Name: ParamResourceLinkID, Value: "42"},
	)
	r, err := ParseRequest(postForm("http://tool.example/launch?debug=1", form), "")
	if err != nil {
		t.Fatalf("ParseRequest() returned error: %v", err)
	}
	if r.URL != "http://tool.example/launch" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.ResourceLinkID() != "42" || r.Get("debug") != "1" {
		t.Errorf("parameters = %v", r.Parameters().All())
	}
}
