package lti

import (
	"testing"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

func TestSubstitute(t *testing.T) {
	base := func() *oauth.Parameters {
		return oauth.NewParameters(
			oauth.Parameter{Name: ParamUserID, Value: "u-1"},
			oauth.Parameter{Name: ParamPersonNameGiven, Value: "Ada"},
			oauth.Parameter{Name: ParamContextID, Value: "c-9"},
			oauth.Parameter{Name: ParamLineItemsServiceURL, Value: "https://lms.example/lineitems"},
		)
	}

	tests := []struct {
		name  string
		param string
		value string
		want  string
	}{
		{"no token", "custom_plain", "nothing to see $ here", "nothing to see $ here"},
		{"known token", "custom_greeting", "Hi $Person.name.given!", "Hi Ada!"},
		{"case-insensitive token", "custom_user", "$user.ID", "u-1"},
		{"unknown token", "custom_foo", "$Foo.bar", "$Foo.bar"},
		{"known token with unset source", "custom_email", "<$Person.email.primary>", "<>"},
		{"several tokens", "custom_pair", "$User.id@$Context.id", "u-1@c-9"},
		{"extension parameter", "ext_course", "$CourseSection.sourcedId", ""},
		{"service url", "custom_outcomes", "$LineItems.url", "https://lms.example/lineitems"},
		{"non-custom parameter untouched", "resource_link_title", "$User.id", "$User.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base()
			params.Add(tt.param, tt.value)

			got := Substitute(params)
			if v := got.Get(tt.param); v != tt.want {
				t.Errorf("%s = %q, want %q", tt.param, v, tt.want)
			}
			if params.Get(tt.param) != tt.value {
				t.Error("Substitute modified its input")
			}
			if got.Len() != params.Len() {
				t.Errorf("Len() = %d, want %d", got.Len(), params.Len())
			}
		})
	}
}

func TestSubstitute_SecondPassSubstitutesAgain(t *testing.T) {
	params := oauth.NewParameters(
		oauth.Parameter{Name: ParamUserID, Value: "$Context.id"},
		oauth.Parameter{Name: ParamContextID, Value: "c-9"},
		oauth.Parameter{Name: "custom_user", Value: "$User.id"},
	)

	once := Substitute(params)
	if got := once.Get("custom_user"); got != "$Context.id" {
		t.Fatalf("first pass = %q, want $Context.id", got)
	}
	if got := Substitute(once).Get("custom_user"); got != "c-9" {
		t.Errorf("second pass = %q, want c-9", got)
	}
}

func TestIsVariable(t *testing.T) {
	if !IsVariable("$ToolProxyBinding.memberships.url") {
		t.Error("IsVariable($ToolProxyBinding.memberships.url) = false")
	}
	if IsVariable("$Foo.bar") {
		t.Error("IsVariable($Foo.bar) = true")
	}
}
