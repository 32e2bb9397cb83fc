package ltiapi

import "testing"

// sanity check that the error codes are in the correct range

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		errCode  ErrorCode
		wantCode int
	}{
		{"bad_signature", ErrCodeBadSignature, 7001},
		{"bad_timestamp", ErrCodeBadTimestamp, 7002},
		{"unsupported_signature_method", ErrCodeUnsupportedSignatureMethod, 7003},
		{"invalid_message", ErrCodeInvalidMessage, 7004},
		{"internal_error", ErrCodeInternalError, 7005},
		{"malformed_request", ErrCodeMalformedRequest, 7006},
		{"malformed_content_item", ErrCodeMalformedContentItem, 7007},
		{"remote_service", ErrCodeRemoteService, 7008},
		{"rate_limit", ErrCodeRateLimitExceeded, 7009},
		{"request_too_large", ErrCodeRequestTooLarge, 7010},
		{"unknown_consumer", ErrCodeUnknownConsumer, 8001},
		{"not_found", ErrCodeNotFound, 8002},
		{"conflict", ErrCodeConflict, 8003},
	}
	for _, tt := range tests {
		if int(tt.errCode) != tt.wantCode {
			t.Errorf("%s: got %d, want %d", tt.name, tt.errCode, tt.wantCode)
		}
	}
}
