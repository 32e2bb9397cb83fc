// bodyhash.go implements the OAuth Request Body Hash extension used by LTI services.
//
// The hash is computed over the raw request body with the digest that matches the signature
// method (SHA-1 for HMAC-SHA1, SHA-256 for HMAC-SHA256 and so on) and sent base64 encoded in
// oauth_body_hash, which is then covered by the signature.

package oauth

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
)

// BodyHash calculates the oauth_body_hash value for body.
//
// An empty body is valid and hashes to the digest of zero bytes.
func BodyHash(body []byte, signatureMethod SignatureMethod) (string, error) {
	newHash, err := signatureMethod.hasher()
	if err != nil {
		return "", err
	}
	hasher := newHash()

	if _, err := io.Copy(hasher, bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("failed to hash body: %w", err)
	}

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyBodyHash checks body against the oauth_body_hash in params.
//
// It is a no-op when params carries no oauth_body_hash.
func VerifyBodyHash(body []byte, params *Parameters) error {
	expected, ok := params.Lookup(ParamBodyHash)
	if !ok {
		return nil
	}
	signatureMethod, err := ParseSignatureMethod(params.Get(ParamSignatureMethod))
	if err != nil {
		return err
	}
	actual, err := BodyHash(body, signatureMethod)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) != 1 {
		return NewBodyHashMismatchError("oauth_body_hash does not match the request body")
	}
	return nil
}
