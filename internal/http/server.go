// Package http provides the gateway HTTP server: router assembly, access logging,
// health and readiness probes, and the separate metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/config"
	ledgerHTTP "github.com/allisson/gatekeeper/internal/ledger/http"
	ledgerService "github.com/allisson/gatekeeper/internal/ledger/service"
	ledgerUseCase "github.com/allisson/gatekeeper/internal/ledger/usecase"
	"github.com/allisson/gatekeeper/internal/metrics"
	secretsHTTP "github.com/allisson/gatekeeper/internal/secrets/http"
)

// ReadinessCheck reports whether a backing component can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	checks map[string]ReadinessCheck
}

// NewServer creates a new HTTP server. The database is probed by the readiness endpoint.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		checks: make(map[string]ReadinessCheck),
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// AddReadinessCheck registers an extra component reported by the readiness endpoint.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter configures the Gin router with all routes and middleware.
//
// Every /v1 route passes the accounting middleware first, so rejected and failed requests
// are rate limited and recorded like successful ones. ctx bounds the background cleanup
// of the token endpoint limiter.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	gateway authUseCase.GatewayUseCase,
	tokenHandler *authHTTP.TokenHandler,
	secretHandler *secretsHTTP.SecretHandler,
	analyticsHandler *ledgerHTTP.AnalyticsHandler,
	limiter ledgerService.RateLimiter,
	ledger ledgerUseCase.LedgerUseCase,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(ledgerHTTP.AccountingMiddleware(limiter, gateway, ledger, s.logger))
	v1.Use(RequestTimeoutMiddleware(cfg.DBQueryTimeout))

	staticKey := authHTTP.StaticKeyMiddleware(gateway, s.logger)
	anyToken := authHTTP.TokenMiddleware(gateway, s.logger)
	readSecrets := authHTTP.TokenMiddleware(gateway, s.logger,
		authDomain.PermissionReadSecrets, authDomain.PermissionManageSecrets)
	manageSecrets := authHTTP.TokenMiddleware(gateway, s.logger, authDomain.PermissionManageSecrets)
	readAnalytics := authHTTP.StaticKeyOrTokenMiddleware(gateway, s.logger, authDomain.PermissionReadAnalytics)

	tokens := v1.Group("/tokens")
	{
		issue := []gin.HandlerFunc{staticKey, tokenHandler.IssueTokenHandler}
		if cfg.RateLimitTokenEnabled {
			issue = append([]gin.HandlerFunc{authHTTP.TokenRateLimitMiddleware(
				ctx,
				cfg.RateLimitTokenRequestsPerSec,
				cfg.RateLimitTokenBurst,
				s.logger,
			)}, issue...)
		}
		tokens.POST("", issue...)
		tokens.POST("/introspect", staticKey, tokenHandler.IntrospectTokenHandler)
		tokens.DELETE("", anyToken, tokenHandler.RevokeTokenHandler)
	}

	v1.GET("/me", anyToken, tokenHandler.MeHandler)

	secrets := v1.Group("/secrets")
	{
		secrets.POST("", manageSecrets, secretHandler.CreateHandler)
		secrets.GET("", readSecrets, secretHandler.ListHandler)
		// Names may contain '/', so both routes take the rest of the path.
		secrets.GET("/*name", readSecrets, secretHandler.GetHandler)
		secrets.POST("/*name", manageSecrets, secretHandler.RotateHandler)
	}

	analytics := v1.Group("/analytics", readAnalytics)
	{
		analytics.GET("/overview", analyticsHandler.OverviewHandler)
		analytics.GET("/logs", analyticsHandler.LogsHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
