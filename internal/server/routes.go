// internal/server/routes.go
package server

import (
	"net/http"

	apperrors "valuation-leads/internal/common/errors"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.accessLogMiddleware)
	r.Use(s.recoverMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.errors.Respond(w, r, apperrors.NewMethodNotAllowedError(r.Method))
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(s.submitMiddlewares()...).Post("/submit-enquiry", s.handleSubmitEnquiry)
		r.Post("/estimate", s.handleEstimate)
	})

	return r
}

func (s *Server) submitMiddlewares() []func(http.Handler) http.Handler {
	if s.limiter == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{s.limiter.Middleware(s.errors)}
}
