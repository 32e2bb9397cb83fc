package lti

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

func TestAddCustomParameter_NormalizesName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"User Name!", "custom_user_name_"},
		{"Chapter", "custom_chapter"},
		{"custom_Chapter", "custom_chapter"},
		{"ext_tool-id", "ext_tool_id"},
		{"Ext_Tool", "ext_tool"},
		{"café", "custom_caf_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequest("POST", "https://tool.example/launch")
			r.AddCustomParameter(tt.name, "x")
			if got := r.Get(tt.want); got != "x" {
				t.Errorf("parameter %q = %q, want x (names: %v)", tt.want, got, r.Parameters().Names())
			}
		})
	}
}

func TestRequest_EmptyValueRemovesParameter(t *testing.T) {
	r := NewBasicLaunchRequest("https://tool.example/launch", "42")
	r.SetContextTitle("Algebra")
	r.SetContextTitle("")

	if r.Parameters().Has(ParamContextTitle) {
		t.Error("context_title still present after setting it to empty")
	}
}

func TestRequest_Roles(t *testing.T) {
	r := NewRequest("POST", "https://tool.example/launch")
	r.Set(ParamRoles, "Instructor, urn:lti:role:ims/lis/learner,URN:LTI:INSTROLE:IMS/LIS/Faculty,Wizard,Instructor")

	want := []Role{RoleInstructor, RoleLearner, RoleInstitutionFaculty}
	if got := r.Roles(); !slices.Equal(got, want) {
		t.Errorf("Roles() = %v, want %v", got, want)
	}
	if !r.HasRole(RoleLearner) {
		t.Error("HasRole(Learner) = false")
	}
	if r.HasRole(RoleMentor) {
		t.Error("HasRole(Mentor) = true")
	}

	r.SetRoles(RoleInstructor, RoleNonCreditLearner)
	if got, want := r.Get(ParamRoles), "urn:lti:role:ims/lis/Instructor,urn:lti:role:ims/lis/Learner/NonCreditLearner"; got != want {
		t.Errorf("roles = %q, want %q", got, want)
	}
}

func TestRequest_ContextTypeAcceptsShortNameAndURN(t *testing.T) {
	for _, value := range []string{"CourseSection", "urn:lti:context-type:ims/lis/CourseSection"} {
		r := NewRequest("POST", "https://tool.example/launch")
		r.Set(ParamContextType, value)
		got, ok := r.ContextType()
		if !ok || got != ContextTypeCourseSection {
			t.Errorf("ContextType() for %q = %q, %v", value, got, ok)
		}
	}

	r := NewRequest("POST", "https://tool.example/launch")
	r.SetContextType(ContextTypeGroup)
	if got := r.Get(ParamContextType); got != "urn:lti:context-type:ims/lis/Group" {
		t.Errorf("context_type = %q", got)
	}
}

func TestRequest_TypedBoolAndIntParameters(t *testing.T) {
	r := NewRequest("POST", "https://tool.example/launch")
	if _, ok := r.AcceptMultiple(); ok {
		t.Error("AcceptMultiple() reported a value for an absent parameter")
	}

	r.SetAcceptMultiple(true)
	r.SetLaunchPresentationWidth(640)
	if v, ok := r.AcceptMultiple(); !ok || !v {
		t.Errorf("AcceptMultiple() = %v, %v", v, ok)
	}
	if v, ok := r.LaunchPresentationWidth(); !ok || v != 640 {
		t.Errorf("LaunchPresentationWidth() = %v, %v", v, ok)
	}

	r.Set(ParamLaunchPresentationHeight, "tall")
	if _, ok := r.LaunchPresentationHeight(); ok {
		t.Error("LaunchPresentationHeight() parsed a non-integer")
	}
}

func TestRequest_AcceptPresentationDocumentTargets(t *testing.T) {
	r := NewContentItemSelectionRequest("https://tool.example/select", "https://lms.example/return",
		"application/vnd.ims.lti.v1.ltilink", DocumentTargetIframe, DocumentTargetWindow)
	r.Set(ParamAcceptPresentationDocumentTargets, r.Get(ParamAcceptPresentationDocumentTargets)+",hologram")

	want := []DocumentTarget{DocumentTargetIframe, DocumentTargetWindow}
	if got := r.AcceptPresentationDocumentTargets(); !slices.Equal(got, want) {
		t.Errorf("AcceptPresentationDocumentTargets() = %v, want %v", got, want)
	}
}

func signedLaunch(t *testing.T) *Request {
	t.Helper()
	r := NewBasicLaunchRequest("https://tool.example/launch", "42")
	signer := &oauth.Signer{Now: func() time.Time { return time.Unix(1000, 0) }, NewNonce: func() string { return "n" }}
	if err := r.Sign(signer, oauth.Credentials{ConsumerKey: "k", ConsumerSecret: "s"}, oauth.HMACSHA1); err != nil {
		t.Fatalf("Sign() returned error: %v", err)
	}
	return r
}

func TestValidate_BasicLaunch(t *testing.T) {
	r := signedLaunch(t)
	if err := r.Validate(MessageTypeBasicLaunch); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestValidate_ReportsEveryMissingParameter(t *testing.T) {
	r := signedLaunch(t)
	r.Set(ParamResourceLinkID, "")
	r.Parameters().Del(oauth.ParamNonce)

	err := r.Validate(MessageTypeBasicLaunch)
	var ltiErr *LtiError
	if !errors.As(err, &ltiErr) {
		t.Fatalf("Validate() = %v, want LtiError", err)
	}
	if ltiErr.Code() != ErrCodeMissingParameters {
		t.Errorf("Code() = %q, want %q", ltiErr.Code(), ErrCodeMissingParameters)
	}
	if want := []string{ParamResourceLinkID, oauth.ParamNonce}; !slices.Equal(ltiErr.Missing, want) {
		t.Errorf("Missing = %v, want %v", ltiErr.Missing, want)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(r *Request)
		messageType MessageType
		wantCode    ErrorCode
	}{
		{
			name:        "blank value counts as missing",
			modify:      func(r *Request) { r.Parameters().Set(ParamResourceLinkID, "  ") },
			messageType: MessageTypeBasicLaunch,
			wantCode:    ErrCodeMissingParameters,
		},
		{
			name:        "content item request parameters",
			modify:      func(r *Request) { r.SetMessageType(MessageTypeContentItemSelectionRequest) },
			messageType: MessageTypeContentItemSelectionRequest,
			wantCode:    ErrCodeMissingParameters,
		},
		{
			name:        "declared message type differs",
			modify:      func(r *Request) {},
			messageType: MessageTypeContentItemSelection,
			wantCode:    ErrCodeInvalidParameter,
		},
		{
			name:        "unknown lti_version",
			modify:      func(r *Request) { r.Set(ParamLtiVersion, "LTI-3p0") },
			messageType: MessageTypeBasicLaunch,
			wantCode:    ErrCodeInvalidParameter,
		},
		{
			name: "registration needs LTI-2p0",
			modify: func(r *Request) {
				r.SetMessageType(MessageTypeToolProxyRegistration)
				r.SetRegKey("key")
				r.SetRegPassword("password")
				r.SetTcProfileURL("https://lms.example/profile")
				r.SetLaunchPresentationReturnURL("https://lms.example/return")
			},
			messageType: MessageTypeToolProxyRegistration,
			wantCode:    ErrCodeInvalidParameter,
		},
		{
			name:        "unsupported message type",
			modify:      func(r *Request) {},
			messageType: "basic-lti-teleport-request",
			wantCode:    ErrCodeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := signedLaunch(t)
			tt.modify(r)
			err := r.Validate(tt.messageType)
			var ltiErr *LtiError
			if !errors.As(err, &ltiErr) {
				t.Fatalf("Validate() = %v, want LtiError", err)
			}
			if ltiErr.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q (%v)", ltiErr.Code(), tt.wantCode, err)
			}
		})
	}
}

func TestValidate_ToolProxyRegistration(t *testing.T) {
	r := signedLaunch(t)
	r.SetMessageType(MessageTypeToolProxyRegistration)
	r.SetVersion(Version2)
	r.SetRegKey("key")
	r.SetRegPassword("password")
	r.SetTcProfileURL("https://lms.example/profile")
	r.SetLaunchPresentationReturnURL("https://lms.example/return")

	if err := r.Validate(MessageTypeToolProxyRegistration); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}
