// Package oauth implements the OAuth 1.0a pieces LTI 1.x relies on: the ordered parameter
// store, RFC 3986 encoding, HMAC-SHA1/256/384/512 signatures, the request body hash extension
// and the Authorization header.
//
// Outbound messages are signed with a Signer (SignParameters for form launches, SignRequest for
// service calls). Inbound requests are authenticated with a Verifier backed by a SecretStore.
//
// Only two-legged signing is supported: the token secret is always empty.
package oauth
