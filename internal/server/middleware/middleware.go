package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/ltiapi"
	"github.com/ltilibrary/lti-go/internal/oauth"
)

// RequestSizeLimit rejects request bodies larger than maxBytes with 413 Payload Too Large.
//
// A Content-Length above the limit is rejected before the handler runs. Bodies without a
// usable Content-Length are wrapped in http.MaxBytesReader, so signature verification (which
// reads the whole body) fails with an *http.MaxBytesError that also maps to 413.
//
// Every response carries X-Max-Request-Size.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				err := ltiapi.NewRequestTooLargeError(
					fmt.Sprintf("request body (%d bytes) exceeds the maximum of %d bytes", r.ContentLength, maxBytes),
				)
				ltiapi.RespondWithErrorResponse(w, r, err)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related headers to all responses.
//
// Tool launches are usually displayed inside an iframe of the consumer's page, so framing is
// controlled by frameAncestors: a space separated list of origins for the CSP frame-ancestors
// directive. An empty list forbids framing altogether.
func SecurityHeaders(environment string, frameAncestors string) func(http.Handler) http.Handler {
	ancestors := strings.Join(strings.Fields(frameAncestors), " ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if ancestors == "" {
				w.Header().Set("X-Frame-Options", "DENY")
				w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
			} else {
				w.Header().Set("Content-Security-Policy", "frame-ancestors "+ancestors)
			}

			if environment == "prod" || environment == "staging" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per second across the server. If requestsPerSecond <= 0, rate
// limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			logger.ContextRequestLogger(r.Context()).Warn("rate limit exceeded",
				slog.String("component", "RateLimit"),
				slog.String("remote_addr", r.RemoteAddr),
			)
			logger.ContextWithLogAttrs(r.Context(),
				slog.String("remote_addr", r.RemoteAddr),
			)

			ltiapi.RespondWithErrorResponse(w, r, ltiapi.NewRateLimitError("too many requests, please try again later"))
		})
	}
}

// SignedRequest rejects requests that do not carry a valid OAuth 1.0a signature.
//
// The verified parameters, raw body and consumer key are stored in the request context
// (see oauth.VerifiedRequestFromContext) and the consumer key is added to the request log.
func SignedRequest(verifier *oauth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verified, err := verifier.VerifyRequest(r)
			if err != nil {
				ltiapi.RespondWithErrorResponse(w, r, err)
				return
			}

			logger.ContextWithLogAttrs(r.Context(),
				slog.String("consumer_key", verified.ConsumerKey),
			)

			next.ServeHTTP(w, r.WithContext(oauth.ContextWithVerifiedRequest(r.Context(), verified)))
		})
	}
}
