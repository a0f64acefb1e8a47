// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/metrics"
	"valuation-leads/internal/common/validation"
	estimatevaluation "valuation-leads/internal/handlers/estimate-valuation"
	"valuation-leads/internal/models"
)

const readinessTimeout = 2 * time.Second

func (s *Server) handleSubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	var enquiry models.Enquiry
	if err := s.decodeBody(w, r, s.enquirySchema, &enquiry); err != nil {
		metrics.EnquiriesSubmitted.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.errors.Respond(w, r, err)
		return
	}

	output, err := s.deps.Submit.Execute(r.Context(), &enquiry)
	if err != nil {
		s.errors.Respond(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, output)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var input estimatevaluation.Input
	if err := s.decodeBody(w, r, s.estimateSchema, &input); err != nil {
		s.errors.Respond(w, r, err)
		return
	}

	output, err := s.deps.Estimate.Execute(r.Context(), &input)
	if err != nil {
		s.errors.Respond(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, output)
}

// decodeBody reads at most maxBodyBytes, checks the document against schema
// and only then decodes it into v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, schema *validation.Schema, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.NewInvalidRequestBodyError([]string{"request body too large"})
		}
		return apperrors.NewInvalidRequestBodyError([]string{err.Error()})
	}

	if result := schema.ValidateBytes(body); !result.Valid {
		return apperrors.NewInvalidRequestBodyError(result.GetErrorMessages())
	}

	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewInvalidRequestBodyError([]string{err.Error()})
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{}
	ready := true

	check := func(name string, p Pinger) {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
			return
		}
		checks[name] = "ok"
	}

	if s.deps.Postgres != nil {
		check("postgres", s.deps.Postgres)
	}
	if s.limiter != nil && s.deps.Redis != nil {
		check("redis", s.deps.Redis)
	}

	if !ready {
		s.logger.Warn("readiness check failed", map[string]interface{}{"checks": checks})
		apperrors.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"checks": checks,
		})
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
