package config

import (
	"os"
	"strings"
	"testing"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "defaults",
			env:  map[string]string{"CONSUMERS_PATH": "consumers.yaml"},
		},
		{
			name:    "consumers path is required",
			env:     map[string]string{},
			wantErr: "CONSUMERS_PATH",
		},
		{
			name:    "invalid environment",
			env:     map[string]string{"CONSUMERS_PATH": "c.yaml", "ENVIRONMENT": "qa"},
			wantErr: "invalid ENVIRONMENT",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"CONSUMERS_PATH": "c.yaml", "PORT": "70000"},
			wantErr: "PORT",
		},
		{
			name:    "page size above maximum",
			env:     map[string]string{"CONSUMERS_PATH": "c.yaml", "PAGE_SIZE": "600"},
			wantErr: "PAGE_SIZE",
		},
		{
			name:    "relative public base url",
			env:     map[string]string{"CONSUMERS_PATH": "c.yaml", "PUBLIC_BASE_URL": "/lti"},
			wantErr: "PUBLIC_BASE_URL",
		},
		{
			name:    "min connections above max",
			env:     map[string]string{"CONSUMERS_PATH": "c.yaml", "DB_MIN_CONNECTIONS": "5"},
			wantErr: "DB_MIN_CONNECTIONS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "CONSUMERS_PATH", "ENVIRONMENT", "PORT", "PAGE_SIZE", "MAX_PAGE_SIZE", "PUBLIC_BASE_URL",
				"DATABASE_URL", "DB_MIN_CONNECTIONS", "DB_MAX_CONNECTIONS")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewServerConfig()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewServerConfig() returned error: %v", err)
				}
				if cfg.Port != 8080 || cfg.PageSize != 50 || cfg.DatabaseURL != "" {
					t.Errorf("unexpected defaults: %+v", cfg)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewServerConfig() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewClientConfig_RejectsUnknownSignatureMethod(t *testing.T) {
	unsetEnv(t, "ENVIRONMENT", "HTTP_TIMEOUT")
	t.Setenv("LTI_SIGNATURE_METHOD", "RSA-SHA1")
	if _, err := NewClientConfig(); err == nil {
		t.Fatal("NewClientConfig() accepted RSA-SHA1")
	}

	t.Setenv("LTI_SIGNATURE_METHOD", "hmac-sha256")
	if _, err := NewClientConfig(); err != nil {
		t.Fatalf("NewClientConfig() returned error: %v", err)
	}
}
