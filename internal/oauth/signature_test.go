package oauth

import (
	"errors"
	"testing"
)

func launchParameters(signatureMethod SignatureMethod) *Parameters {
	return NewParameters(
		Parameter{ParamConsumerKey, "k"},
		Parameter{ParamNonce, "n"},
		Parameter{ParamTimestamp, "1000"},
		Parameter{ParamSignatureMethod, string(signatureMethod)},
		Parameter{ParamVersion, "1.0"},
		Parameter{"lti_message_type", "basic-lti-launch-request"},
		Parameter{"lti_version", "LTI-1p0"},
		Parameter{"resource_link_id", "42"},
	)
}

// regression fixture - these values must not change
func TestSign_PinnedSignatures(t *testing.T) {
	tests := []struct {
		name   string
		method SignatureMethod
		want   string
	}{
		{"HMAC-SHA1", HMACSHA1, "QnBMjDekIvCe1l/xmEZgPftYRt8="},
		{"HMAC-SHA256", HMACSHA256, "8ztqtnnvpYG8FCBbnHqB209BOr2CW2oOxLdQcgx0v48="},
		{"HMAC-SHA512", HMACSHA512, "RCmSb8n+Itp77TM44FEMfRhRh6I3k8nZ/dUu2Jef0m79MG5y9CAuGsbuVNISc3zMiOhSPOx/URUGXUJ5eyXCBw=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sign("POST", "https://tool.example/launch", launchParameters(tt.method), "s", tt.method)
			if err != nil {
				t.Fatalf("Sign() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Sign() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseString(t *testing.T) {
	want := "POST&https%3A%2F%2Ftool.example%2Flaunch&lti_message_type%3Dbasic-lti-launch-request%26lti_version%3DLTI-1p0%26oauth_consumer_key%3Dk%26oauth_nonce%3Dn%26oauth_signature_method%3DHMAC-SHA1%26oauth_timestamp%3D1000%26oauth_version%3D1.0%26resource_link_id%3D42"

	got, err := BaseString("post", "HTTPS://Tool.Example:443/launch", launchParameters(HMACSHA1))
	if err != nil {
		t.Fatalf("BaseString() returned error: %v", err)
	}
	if got != want {
		t.Errorf("BaseString() =\n%s\nwant\n%s", got, want)
	}
}

func TestBaseString_QueryParametersAreMerged(t *testing.T) {
	params := launchParameters(HMACSHA1)
	params.Del("resource_link_id")

	fromQuery, err := Sign("POST", "https://tool.example/launch?resource_link_id=42", params, "s", HMACSHA1)
	if err != nil {
		t.Fatalf("Sign() returned error: %v", err)
	}
	if fromQuery != "QnBMjDekIvCe1l/xmEZgPftYRt8=" {
		t.Errorf("query parameter was not signed like a body parameter: got %q", fromQuery)
	}
}

func TestNormalizeParameters_SortsRepeatedNamesByValue(t *testing.T) {
	params := NewParameters(
		Parameter{"b", "2"},
		Parameter{"a", "z"},
		Parameter{"a", "a b"},
		Parameter{ParamSignature, "ignored"},
	)
	want := "a=a%20b&a=z&b=2"
	if got := NormalizeParameters(params); got != want {
		t.Errorf("NormalizeParameters() = %q, want %q", got, want)
	}
}

func TestSign_MissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
	}{
		{"missing method", "", "https://tool.example/launch"},
		{"missing url", "POST", ""},
		{"relative url", "POST", "/launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sign(tt.method, tt.url, launchParameters(HMACSHA1), "s", HMACSHA1)
			var oauthErr *OAuthError
			if !errors.As(err, &oauthErr) {
				t.Fatalf("expected OAuthError, got %v", err)
			}
			if oauthErr.Code() != ErrCodeInvalidRequest {
				t.Errorf("Code() = %q, want %q", oauthErr.Code(), ErrCodeInvalidRequest)
			}
		})
	}
}

func TestSign_UnsupportedMethod(t *testing.T) {
	_, err := Sign("POST", "https://tool.example/launch", launchParameters("RSA-SHA1"), "s", "RSA-SHA1")
	var oauthErr *OAuthError
	if !errors.As(err, &oauthErr) || oauthErr.Code() != ErrCodeUnsupportedSignatureMethod {
		t.Fatalf("expected unsupported signature method error, got %v", err)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	for _, method := range []SignatureMethod{HMACSHA1, HMACSHA256, HMACSHA384, HMACSHA512} {
		t.Run(string(method), func(t *testing.T) {
			for _, secret := range []string{"s", "", "sécret with spaces&stuff"} {
				params := launchParameters(method)
				params.Add("roles", "Instructor")
				params.Add("roles", "Learner")

				signature, err := Sign("POST", "https://tool.example/launch", params, secret, method)
				if err != nil {
					t.Fatalf("Sign() returned error: %v", err)
				}
				params.Set(ParamSignature, signature)

				if err := Verify("POST", "https://tool.example/launch", params, secret); err != nil {
					t.Errorf("Verify() with secret %q returned error: %v", secret, err)
				}
			}
		})
	}
}

func TestVerify_DetectsAnyChangedParameter(t *testing.T) {
	params := launchParameters(HMACSHA1)
	signature, err := Sign("POST", "https://tool.example/launch", params, "s", HMACSHA1)
	if err != nil {
		t.Fatalf("Sign() returned error: %v", err)
	}

	for _, p := range params.All() {
		t.Run(p.Name, func(t *testing.T) {
			tampered := params.Clone()
			tampered.Set(p.Name, p.Value+"x")

			changed, err := Sign("POST", "https://tool.example/launch", tampered, "s", HMACSHA1)
			if err != nil {
				t.Fatalf("Sign() returned error: %v", err)
			}
			if changed == signature {
				t.Errorf("changing %s did not change the signature", p.Name)
			}

			if p.Name == ParamSignatureMethod {
				return
			}
			tampered.Set(ParamSignature, signature)
			err = Verify("POST", "https://tool.example/launch", tampered, "s")
			var oauthErr *OAuthError
			if !errors.As(err, &oauthErr) || oauthErr.Code() != ErrCodeSignatureMismatch {
				t.Errorf("Verify() = %v, want signature mismatch", err)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	params := launchParameters(HMACSHA1)
	params.Set(ParamSignature, "QnBMjDekIvCe1l/xmEZgPftYRt8=")

	if err := Verify("POST", "https://tool.example/launch", params, "s"); err != nil {
		t.Fatalf("Verify() with the right secret returned error: %v", err)
	}
	if err := Verify("POST", "https://tool.example/launch", params, "not-s"); err == nil {
		t.Fatal("Verify() with the wrong secret succeeded")
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcABC123", "abcABC123"},
		{"-._~", "-._~"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"=&%", "%3D%26%25"},
		{"é", "%C3%A9"},
		{"/", "%2F"},
	}

	for _, tt := range tests {
		if got := Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
