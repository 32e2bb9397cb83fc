package oauth

import "context"

type verifiedRequestKey struct{}

// ContextWithVerifiedRequest stores the result of a successful verification for later handlers.
func ContextWithVerifiedRequest(ctx context.Context, v *VerifiedRequest) context.Context {
	return context.WithValue(ctx, verifiedRequestKey{}, v)
}

// VerifiedRequestFromContext returns the verification stored by ContextWithVerifiedRequest.
func VerifiedRequestFromContext(ctx context.Context) (*VerifiedRequest, bool) {
	v, ok := ctx.Value(verifiedRequestKey{}).(*VerifiedRequest)
	return v, ok && v != nil
}
