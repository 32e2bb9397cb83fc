package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ltilibrary/lti-go/internal/outcomesv1"
)

// run executes the root command with args and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("LTI_CONSUMER_KEY", "moodle")
	t.Setenv("LTI_CONSUMER_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "error")
}

func TestLaunch_SignThenVerify(t *testing.T) {
	setCredentials(t)

	form, err := run(t, "", "launch", "sign", "https://tool.example/lti/launch",
		"--resource-link-id", "42", "--user-id", "u-7", "--roles", "Learner",
		"--custom", "chapter=3", "--format", "form")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.Contains(form, "oauth_signature=") {
		t.Fatalf("signed form has no signature: %s", form)
	}
	if !strings.Contains(form, "custom_chapter=3") {
		t.Errorf("signed form lacks the custom parameter: %s", form)
	}

	out, err := run(t, form, "launch", "verify", "https://tool.example/lti/launch", "--body", "-")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "signature valid: basic-lti-launch-request from moodle") {
		t.Errorf("unexpected verify output: %s", out)
	}
	if strings.Contains(out, "oauth_signature") {
		t.Errorf("verify output should hide oauth parameters: %s", out)
	}

	// a form signed for another url does not verify
	if _, err := run(t, form, "launch", "verify", "https://tool.example/other", "--body", "-"); err == nil {
		t.Error("expected verification against another url to fail")
	}
}

func TestLaunch_SignRequiresCredentials(t *testing.T) {
	t.Setenv("LTI_CONSUMER_KEY", "")
	t.Setenv("LTI_CONSUMER_SECRET", "")

	_, err := run(t, "", "launch", "sign", "https://tool.example/lti/launch", "--resource-link-id", "42")
	if err == nil || !strings.Contains(err.Error(), "consumer key and secret are required") {
		t.Fatalf("expected a credentials error, got %v", err)
	}
}

func TestOutcomes_Read(t *testing.T) {
	setCredentials(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		request, err := outcomesv1.DecodeRequest(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		score := 0.75
		response := outcomesv1.NewResponse("resp-1", request, outcomesv1.CodeMajorSuccess, "")
		response.SetReadScore(&score)
		data, err := outcomesv1.EncodeResponse(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", outcomesv1.MediaType)
		w.Write(data)
	}))
	defer srv.Close()

	out, err := run(t, "", "outcomes", "read", srv.URL, "42-7")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(out) != "0.75" {
		t.Errorf("expected score 0.75, got %q", out)
	}
	if !strings.HasPrefix(gotAuth, "OAuth ") || !strings.Contains(gotAuth, `oauth_consumer_key="moodle"`) {
		t.Errorf("request was not signed: %q", gotAuth)
	}
}

func TestOutcomes_ReplaceRejectsBadScore(t *testing.T) {
	setCredentials(t)

	tests := []string{"1.5", "-0.1", "abc"}
	for _, score := range tests {
		t.Run(score, func(t *testing.T) {
			_, err := run(t, "", "outcomes", "replace", "--", "http://127.0.0.1:1/outcomes", "42-7", score)
			if err == nil || !strings.Contains(err.Error(), "between 0.0 and 1.0") {
				t.Errorf("expected a score error, got %v", err)
			}
		})
	}
}

func TestContentItemsDecode(t *testing.T) {
	graph := `{"@context":"http://purl.imsglobal.org/ctx/lti/v1/ContentItem","@graph":[` +
		`{"@type":"LtiLinkItem","mediaType":"application/vnd.ims.lti.v1.ltilink","title":"Quiz"}]}`

	out, err := run(t, graph, "contentitems", "decode")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, `"LtiLinkItem"`) || !strings.Contains(out, `"Quiz"`) {
		t.Errorf("unexpected canonical graph: %s", out)
	}

	if _, err := run(t, "not json", "contentitems", "decode"); err == nil {
		t.Error("expected malformed content items to fail")
	}
}
