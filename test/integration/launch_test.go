//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/ltilibrary/lti-go/internal/contentitem"
	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
)

func TestLaunch(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	launchURL := testEnv.baseURL + "/lti/launch"

	t.Run("registered consumers can launch", func(t *testing.T) {
		tests := []struct {
			name   string
			key    string
			secret string
		}{
			{"inline secret", consumerKey, consumerSecret},
			{"secret from environment", otherKey, otherSecret},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				launch := lti.NewBasicLaunchRequest(launchURL, "rl-42")
				launch.SetUserID("u-7")
				launch.SetRoles(lti.RoleLearner)
				launch.SetContextID("course-1")
				launch.SetLisOutcomeServiceURL(testEnv.baseURL + "/outcomes/v1")
				launch.SetLisResultSourcedID("42-7")
				launch.AddCustomParameter("chapter", "3")

				var got ltiapi.LaunchResponse
				decodeJSON(t, postSignedForm(t, launch, tt.key, tt.secret), &got)

				if got.ConsumerKey != tt.key {
					t.Errorf("consumerKey = %q, want %q", got.ConsumerKey, tt.key)
				}
				if got.ResourceLinkID != "rl-42" || got.UserID != "u-7" {
					t.Errorf("unexpected launch summary: %+v", got)
				}
				if got.Outcomes == nil || got.Outcomes.ResultSourcedID != "42-7" {
					t.Errorf("outcomes = %+v, want sourcedId 42-7", got.Outcomes)
				}
				if got.Custom["custom_chapter"] != "3" {
					t.Errorf("custom = %v, want custom_chapter=3", got.Custom)
				}
			})
		}
	})

	t.Run("rejected launches", func(t *testing.T) {
		tests := []struct {
			name     string
			key      string
			secret   string
			wantCode ltiapi.ErrorCode
		}{
			{"wrong secret", consumerKey, "guess", ltiapi.ErrCodeBadSignature},
			{"unregistered consumer", "blackboard", "secret", ltiapi.ErrCodeUnknownConsumer},
			{"disabled consumer", disabledKey, disabledSecret, ltiapi.ErrCodeUnknownConsumer},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := postSignedForm(t, lti.NewBasicLaunchRequest(launchURL, "rl-42"), tt.key, tt.secret)
				if resp.StatusCode != http.StatusUnauthorized {
					t.Fatalf("expected status 401, got %d", resp.StatusCode)
				}
				if code := decodeErrorCode(t, resp); code != tt.wantCode {
					t.Errorf("errorCode = %d, want %d", code, tt.wantCode)
				}
			})
		}
	})
}

func TestContentItemReturn(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	returnURL := testEnv.baseURL + "/lti/content-items"

	link := contentitem.LtiLinkItem{
		Properties: contentitem.Properties{
			ID:        "quiz-1",
			MediaType: contentitem.MediaTypeLtiLink,
			Title:     "Quiz 1",
		},
		LineItem: &contentitem.LineItem{Label: "Quiz 1"},
	}

	graph, err := contentitem.EncodeString([]contentitem.Item{link})
	if err != nil {
		t.Fatalf("EncodeString() returned error: %v", err)
	}
	msg := lti.NewContentItemSelectionResponse(returnURL, graph, "opaque-state")

	var got ltiapi.ContentItemsResponse
	decodeJSON(t, postSignedForm(t, msg, consumerKey, consumerSecret), &got)

	if got.Data != "opaque-state" {
		t.Errorf("data = %q, want opaque-state", got.Data)
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Quiz 1" || got.Items[0].LineItemLabel != "Quiz 1" {
		t.Errorf("items = %+v", got.Items)
	}
}
