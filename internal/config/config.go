package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestSize        int64         `env:"MAX_REQUEST_SIZE,default=1048576"`

	// PUBLIC_BASE_URL is the externally visible url of the server (scheme, host and any path
	// prefix added by a proxy). It is used to rebuild the url consumers signed and to build
	// absolute @id and nextPage links. Empty uses the inbound Host header.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// LTI settings
	ConsumersPath           string        `env:"CONSUMERS_PATH,required=true"`
	OAuthTimestampTolerance time.Duration `env:"OAUTH_TIMESTAMP_TOLERANCE,default=5m"`
	PageSize                int           `env:"PAGE_SIZE,default=50"`
	MaxPageSize             int           `env:"MAX_PAGE_SIZE,default=500"`

	// FRAME_ANCESTORS lists the origins allowed to frame launch responses (space separated,
	// e.g. "https://lms.example.edu"). Empty forbids framing.
	FrameAncestors string `env:"FRAME_ANCESTORS"`

	// database settings (an empty DATABASE_URL selects the in-memory gradebook)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

// ClientEnvironment configures the lti command line client. Flags override these values.
type ClientEnvironment struct {
	Environment     string        `env:"ENVIRONMENT,default=dev"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	ConsumerKey     string        `env:"LTI_CONSUMER_KEY"`
	ConsumerSecret  string        `env:"LTI_CONSUMER_SECRET"`
	SignatureMethod string        `env:"LTI_SIGNATURE_METHOD,default=HMAC-SHA1"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT,default=30s"`
	DebugExchanges  bool          `env:"DEBUG_EXCHANGES,default=false"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil

}

// NewClientConfig loads the client settings from the environment.
func NewClientConfig() (*ClientEnvironment, error) {
	var cfg ClientEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if !validEnvs[cfg.Environment] {
		return nil, fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if _, err := oauth.ParseSignatureMethod(cfg.SignatureMethod); err != nil {
		return nil, fmt.Errorf("invalid LTI_SIGNATURE_METHOD: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.MaxRequestSize < 1 {
		return fmt.Errorf("MAX_REQUEST_SIZE must be at least 1")
	}

	if cfg.PageSize < 1 || cfg.MaxPageSize < cfg.PageSize {
		return fmt.Errorf("PAGE_SIZE (%d) must be at least 1 and no greater than MAX_PAGE_SIZE (%d)",
			cfg.PageSize, cfg.MaxPageSize)
	}
	if cfg.OAuthTimestampTolerance < 0 {
		return fmt.Errorf("OAUTH_TIMESTAMP_TOLERANCE cannot be negative")
	}

	if cfg.PublicBaseURL != "" {
		u, err := url.Parse(cfg.PublicBaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("PUBLIC_BASE_URL must be an absolute url, got %q", cfg.PublicBaseURL)
		}
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	return nil
}
