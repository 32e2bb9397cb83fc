package oauth

import (
	"fmt"
	"net/url"
	"strings"
)

const authorizationScheme = "OAuth"

// AuthorizationHeader renders the oauth_* parameters of params as an Authorization header value:
//
//	OAuth oauth_consumer_key="k", oauth_nonce="n", ...
//
// Non-oauth parameters are left out; they travel in the query string or body.
func AuthorizationHeader(params *Parameters) string {
	var parts []string
	for _, p := range params.All() {
		if !strings.HasPrefix(p.Name, "oauth_") {
			continue
		}
		parts = append(parts, fmt.Sprintf(`%s="%s"`, Encode(p.Name), Encode(p.Value)))
	}
	return authorizationScheme + " " + strings.Join(parts, ", ")
}

// ParseAuthorizationHeader extracts the parameters of an OAuth Authorization header.
// The realm parameter is ignored (RFC 5849 section 3.4.1.3.1).
func ParseAuthorizationHeader(header string) (*Parameters, error) {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, authorizationScheme) {
		return nil, NewInvalidRequestError("authorization header is not an OAuth header")
	}

	params := &Parameters{}
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, NewInvalidRequestError(fmt.Sprintf("malformed authorization parameter %q", part))
		}
		value = strings.TrimSpace(value)
		if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
			return nil, NewInvalidRequestError(fmt.Sprintf("authorization parameter %q is not quoted", name))
		}

		decodedName, err := url.PathUnescape(strings.TrimSpace(name))
		if err != nil {
			return nil, WrapInvalidRequestError(err, "malformed authorization parameter name")
		}
		decodedValue, err := url.PathUnescape(value[1 : len(value)-1])
		if err != nil {
			return nil, WrapInvalidRequestError(err, "malformed authorization parameter value")
		}
		if decodedName == "realm" {
			continue
		}
		params.Add(decodedName, decodedValue)
	}
	return params, nil
}
