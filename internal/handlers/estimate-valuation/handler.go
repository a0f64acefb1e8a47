// internal/handlers/estimate-valuation/handler.go
package estimatevaluation

import (
	"context"
	"errors"
	"fmt"
	"math"

	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/metrics"
	"valuation-leads/internal/valuation"
)

const HandlerName = "estimate-valuation"

type Handler struct {
	estimator *valuation.Estimator
	logger    logger.Logger
}

func NewHandler(estimator *valuation.Estimator, log logger.Logger) *Handler {
	return &Handler{
		estimator: estimator,
		logger:    log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

// Execute parses the posted figures and runs the estimator. Unlike the
// estimator itself, this endpoint rejects figures that are not finite numbers.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	in, err := valuation.ParseForm(
		string(input.AnnualRevenue),
		string(input.ProfitMargin),
		string(input.AssetValue),
		input.Industry,
	)
	var parseErr *valuation.InputParseError
	if errors.As(err, &parseErr) {
		return nil, apperrors.NewInvalidNumericInputError(parseErr.Fields, err)
	}
	if bad := nonFiniteFields(in); len(bad) > 0 {
		return nil, apperrors.NewInvalidNumericInputError(bad, fmt.Errorf("%w: not finite", valuation.ErrInvalidNumericInput))
	}

	result, err := h.estimator.Estimate(in)
	if errors.Is(err, valuation.ErrUnknownIndustry) {
		return nil, apperrors.NewUnknownIndustryError(string(in.Industry), err)
	}
	if err != nil {
		return nil, err
	}
	if !finiteResult(result) {
		return nil, apperrors.NewInvalidNumericInputError(
			[]string{valuation.FieldAnnualRevenue, valuation.FieldProfitMargin, valuation.FieldAssetValue},
			fmt.Errorf("%w: estimate out of range", valuation.ErrInvalidNumericInput),
		)
	}

	metrics.ValuationsEstimated.WithLabelValues(string(in.Industry)).Inc()
	h.logger.Debug("valuation estimated", map[string]interface{}{
		"industry":       string(in.Industry),
		"marketMultiple": result.MarketMultiple,
	})

	return &result, nil
}

func nonFiniteFields(in valuation.Input) []string {
	var bad []string
	if !finite(in.AnnualRevenue) {
		bad = append(bad, valuation.FieldAnnualRevenue)
	}
	if !finite(in.ProfitMarginPercent) {
		bad = append(bad, valuation.FieldProfitMargin)
	}
	if !finite(in.AssetValue) {
		bad = append(bad, valuation.FieldAssetValue)
	}
	return bad
}

func finiteResult(r valuation.Result) bool {
	return finite(r.AssetBased) && finite(r.MarketMultiple) && finite(r.DCF)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
