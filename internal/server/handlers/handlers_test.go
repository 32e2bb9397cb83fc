package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ltilibrary/lti-go/internal/version"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
	}{
		{"gradebook reachable", nil, http.StatusOK},
		{"gradebook down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := HandleReadiness(pingFunc(func(context.Context) error { return tt.pingErr }))
			rr := httptest.NewRecorder()
			handler(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rr.Code != tt.wantCode {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleVersion(version.Info{Version: "1.2.3", BuildDate: "today", GitCommit: "abc"})(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	var resp VersionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Version != "1.2.3" || resp.GitCommit != "abc" || resp.Service != "lti-server" {
		t.Errorf("version response = %+v", resp)
	}
}
