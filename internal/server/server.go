package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ltilibrary/lti-go/internal/config"
	"github.com/ltilibrary/lti-go/internal/gradebook"
	"github.com/ltilibrary/lti-go/internal/logger"
	ltihandlers "github.com/ltilibrary/lti-go/internal/ltiapi/handlers"
	"github.com/ltilibrary/lti-go/internal/oauth"
	"github.com/ltilibrary/lti-go/internal/outcomesv1"
	"github.com/ltilibrary/lti-go/internal/outcomesv2"
	"github.com/ltilibrary/lti-go/internal/server/handlers"
	ltimiddleware "github.com/ltilibrary/lti-go/internal/server/middleware"
	"github.com/ltilibrary/lti-go/internal/version"
)

const outcomesV2Prefix = "/outcomes/v2"

type Server struct {
	store   gradebook.Store
	secrets oauth.SecretStore
	config  *config.ServerEnvironment
	logger  *slog.Logger
	router  *chi.Mux
}

// NewServer wires the routes. secrets authenticates every signed request; store backs both
// outcomes services.
func NewServer(
	store gradebook.Store,
	secrets oauth.SecretStore,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		store:   store,
		secrets: secrets,
		config:  cfg,
		logger:  logger,
		router:  chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// verifier returns a request verifier. Service calls (outcomes) must hash their bodies,
// browser launches post forms and cannot.
func (s *Server) verifier(requireBodyHash bool) *oauth.Verifier {
	return &oauth.Verifier{
		Secrets:            s.secrets,
		TimestampTolerance: s.config.OAuthTimestampTolerance,
		PublicBaseURL:      s.config.PublicBaseURL,
		RequireBodyHash:    requireBodyHash,
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	s.router.Use(ltimiddleware.SecurityHeaders(s.config.Environment, s.config.FrameAncestors))
	s.router.Use(ltimiddleware.RequestSizeLimit(s.config.MaxRequestSize))
	s.router.Use(ltimiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.store))
	s.router.Get("/version", handlers.HandleVersion(version.Get()))

	launchVerifier := s.verifier(false)
	s.router.Route("/lti", func(r chi.Router) {
		r.Post("/launch", ltihandlers.NewLaunchHandler(launchVerifier).HandleLaunch)
		r.Post("/content-items", ltihandlers.NewContentItemsHandler(launchVerifier).HandleContentItems)
	})

	serviceVerifier := s.verifier(true)
	s.router.Post("/outcomes/v1", outcomesv1.NewServiceHandler(serviceVerifier, s.store).HandleOutcome)

	outcomes := outcomesv2.NewService(s.store, outcomesv2.ServiceOptions{
		PublicBaseURL: s.config.PublicBaseURL,
		PathPrefix:    outcomesV2Prefix,
		PageSize:      s.config.PageSize,
		MaxPageSize:   s.config.MaxPageSize,
	})
	s.router.With(ltimiddleware.SignedRequest(serviceVerifier)).Mount(outcomesV2Prefix, outcomes.Routes())
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// StoreShutdown closes the gradebook (and with it the database pool, if any).
func (s *Server) StoreShutdown() {
	s.store.Close()
	s.logger.Info("gradebook closed")
}
