package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/config"
	"github.com/ltilibrary/lti-go/internal/consumers"
	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/server"
	"github.com/ltilibrary/lti-go/internal/version"
)

//	@title			lti-server
//	@description	lti-server is an LTI 1.x Tool Provider: it accepts signed launches and content item
//	@description	returns from Tool Consumers and hosts the Basic Outcomes and Outcomes Management services.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Individual endpoints document their specific errors.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@description
//	@description	## Authentication
//	@description
//	@description	Every LTI endpoint requires an OAuth 1.0a HMAC signature made with the secret of a consumer
//	@description	listed in the consumers file (CONSUMERS_PATH). Launch and content item messages are signed
//	@description	form posts; service calls carry an OAuth Authorization header with an oauth_body_hash.
//	@description
//	@license.name	MIT

//	@servers.url			https://tool.example.com
//	@servers.description	Production server
//	@servers.url			http://localhost:8080
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			LTI
//	@tag.description	Launch and content item endpoints

//	@tag.name			Outcomes
//	@tag.description	Basic Outcomes (POX) and Outcomes Management (line items and results)

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version)

func main() {
	cmd := &cobra.Command{
		Use:   "lti-server",
		Short: "LTI 1.x Tool Provider server",
		Long:  `lti-server accepts LTI 1.x launches and hosts the Basic Outcomes and Outcomes Management services`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	// secrets and the database password are not logged
	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("PUBLIC_BASE_URL", cfg.PublicBaseURL),
		slog.String("CONSUMERS_PATH", cfg.ConsumersPath),
		slog.Duration("OAUTH_TIMESTAMP_TOLERANCE", cfg.OAuthTimestampTolerance),
		slog.Int("PAGE_SIZE", cfg.PageSize),
		slog.Int("MAX_PAGE_SIZE", cfg.MaxPageSize),
		slog.String("FRAME_ANCESTORS", cfg.FrameAncestors),
		slog.Bool("DATABASE_URL set", cfg.DatabaseURL != ""),
	)

	registry, err := consumers.LoadFile(cfg.ConsumersPath)
	if err != nil {
		appLogger.Error("Failed to load consumers", slog.String("error", err.Error()))
		os.Exit(1)
	}
	appLogger.Info("consumers loaded", slog.Any("keys", registry.Keys()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := gradebook.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open gradebook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	server := server.NewServer(store, registry, cfg, appLogger)
	defer server.StoreShutdown()

	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
