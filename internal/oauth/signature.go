// signature.go computes OAuth 1.0a HMAC signatures (RFC 5849 section 3.4).
//
// The base string is METHOD&encode(base url)&encode(sorted parameter string). Query
// parameters on the url are merged into the parameter set rather than kept on the url.
// The key is encode(consumer secret)&; LTI never uses a token secret.

package oauth

import (
	"crypto/hmac"
	"crypto/sha1" // #nosec G505 -- HMAC-SHA1 is the LTI 1.x default signature method
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"net/url"
	"sort"
	"strings"
)

// OAuth protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamNonce           = "oauth_nonce"
	ParamSignature       = "oauth_signature"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamVersion         = "oauth_version"
	ParamCallback        = "oauth_callback"
	ParamBodyHash        = "oauth_body_hash"

	Version = "1.0"
)

// SignatureMethod is the oauth_signature_method value.
type SignatureMethod string

const (
	HMACSHA1   SignatureMethod = "HMAC-SHA1"
	HMACSHA256 SignatureMethod = "HMAC-SHA256"
	HMACSHA384 SignatureMethod = "HMAC-SHA384"
	HMACSHA512 SignatureMethod = "HMAC-SHA512"
)

// DefaultSignatureMethod is used when none is specified.
const DefaultSignatureMethod = HMACSHA1

// ParseSignatureMethod accepts the method names case-insensitively. An empty string selects
// DefaultSignatureMethod.
func ParseSignatureMethod(s string) (SignatureMethod, error) {
	if s == "" {
		return DefaultSignatureMethod, nil
	}
	m := SignatureMethod(strings.ToUpper(s))
	if _, err := m.hasher(); err != nil {
		return "", err
	}
	return m, nil
}

func (m SignatureMethod) hasher() (func() hash.Hash, error) {
	switch m {
	case HMACSHA1:
		return sha1.New, nil
	case HMACSHA256:
		return sha256.New, nil
	case HMACSHA384:
		return sha512.New384, nil
	case HMACSHA512:
		return sha512.New, nil
	default:
		return nil, NewUnsupportedSignatureMethodError(fmt.Sprintf("unsupported signature method %q", string(m)))
	}
}

// NormalizeURL splits rawURL into the base string URI (lower-case scheme and host, default
// port removed, no query or fragment) and its query parameters.
func NormalizeURL(rawURL string) (string, url.Values, error) {
	if rawURL == "" {
		return "", nil, NewInvalidRequestError("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, WrapInvalidRequestError(err, "invalid url")
	}
	if !u.IsAbs() || u.Host == "" {
		return "", nil, NewInvalidRequestError(fmt.Sprintf("url must be absolute: %q", rawURL))
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port != "" && !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
		host = host + ":" + port
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", nil, WrapInvalidRequestError(err, "invalid query string")
	}
	return scheme + "://" + host + path, query, nil
}

// NormalizeParameters encodes, sorts and joins the parameters (RFC 5849 section 3.4.1.3.2).
// oauth_signature is excluded.
func NormalizeParameters(params *Parameters) string {
	pairs := make([][2]string, 0, params.Len())
	for _, p := range params.All() {
		if p.Name == ParamSignature {
			continue
		}
		pairs = append(pairs, [2]string{Encode(p.Name), Encode(p.Value)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	var sb strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(pair[0])
		sb.WriteByte('=')
		sb.WriteString(pair[1])
	}
	return sb.String()
}

// BaseString builds the signature base string for a request.
// Query parameters on rawURL are signed together with params.
func BaseString(method, rawURL string, params *Parameters) (string, error) {
	if method == "" {
		return "", NewInvalidRequestError("http method is required")
	}
	baseURL, query, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	all := params.Clone()
	for _, q := range ParametersFromValues(query).All() {
		all.Add(q.Name, q.Value)
	}

	return strings.ToUpper(method) + "&" + Encode(baseURL) + "&" + Encode(NormalizeParameters(all)), nil
}

// Sign returns the base64 HMAC signature of the request.
// consumerSecret may be empty.
func Sign(method, rawURL string, params *Parameters, consumerSecret string, signatureMethod SignatureMethod) (string, error) {
	newHash, err := signatureMethod.hasher()
	if err != nil {
		return "", err
	}
	base, err := BaseString(method, rawURL, params)
	if err != nil {
		return "", err
	}

	mac := hmac.New(newHash, []byte(Encode(consumerSecret)+"&"))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the signature using the oauth_signature_method in params and compares it
// with the oauth_signature in params.
//
// Returns an error with code ErrCodeSignatureMismatch when the signatures differ.
func Verify(method, rawURL string, params *Parameters, consumerSecret string) error {
	signature, ok := params.Lookup(ParamSignature)
	if !ok || signature == "" {
		return NewInvalidRequestError("oauth_signature is missing")
	}
	signatureMethod, err := ParseSignatureMethod(params.Get(ParamSignatureMethod))
	if err != nil {
		return err
	}

	expected, err := Sign(method, rawURL, params, consumerSecret, signatureMethod)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return NewSignatureMismatchError("oauth_signature does not match")
	}
	return nil
}
