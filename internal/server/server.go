// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"

	"valuation-leads/internal/common/config"
	"valuation-leads/internal/common/database"
	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/observability"
	"valuation-leads/internal/common/validation"
	estimatevaluation "valuation-leads/internal/handlers/estimate-valuation"
	submitenquiry "valuation-leads/internal/handlers/submit-enquiry"
)

const defaultMaxBodyBytes = 1 << 20

// Pinger is a dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators behind the HTTP surface. Redis and Metrics may be
// nil.
type Deps struct {
	Submit   *submitenquiry.Handler
	Estimate *estimatevaluation.Handler
	Postgres Pinger
	Redis    *database.RedisClient
	Metrics  *observability.Observability
}

type Server struct {
	deps           Deps
	limiter        *RateLimiter
	errors         *apperrors.ErrorHandler
	logger         logger.Logger
	enquirySchema  *validation.Schema
	estimateSchema *validation.Schema
	maxBodyBytes   int64
	httpServer     *http.Server
}

// New builds the router and the listener. The rate limiter is active only when
// it is enabled and a Redis client is supplied.
func New(cfg *config.Config, deps Deps, log logger.Logger) *Server {
	log = log.WithFields(map[string]interface{}{"component": "http"})

	s := &Server{
		deps:           deps,
		errors:         apperrors.NewErrorHandler(log),
		logger:         log,
		enquirySchema:  validation.MustLoad(validation.SchemaEnquiry),
		estimateSchema: validation.MustLoad(validation.SchemaEstimate),
		maxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.RateLimit.Enabled && deps.Redis != nil {
		s.limiter = NewRateLimiter(deps.Redis, cfg.RateLimit, log)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address":     s.httpServer.Addr,
		"rateLimited": s.limiter != nil,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
