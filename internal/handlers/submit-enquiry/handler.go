// internal/handlers/submit-enquiry/handler.go
package submitenquiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/metrics"
	"valuation-leads/internal/models"

	"github.com/google/uuid"
)

const HandlerName = "submit-enquiry"

var (
	ErrMissingRequiredFields    = errors.New("VALIDATION_FAILED")
	ErrDatabaseConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrDatabaseInsertFailed     = errors.New("DATABASE_INSERT_FAILED")
)

const insertEnquirySQL = `
	INSERT INTO enquiries (
		name, email, phone, company_name,
		annual_revenue, profit_margin, asset_value, industry,
		calculated_asset_based, calculated_market_multiple, calculated_dcf
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Store hands out dedicated connections. *database.PostgresClient satisfies it.
type Store interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Followups runs post-submission actions. Failures stay inside it.
type Followups interface {
	Dispatch(ctx context.Context, enquiryID string, record *models.LeadRecord)
}

type Handler struct {
	config    *Config
	store     Store
	followups Followups
	logger    logger.Logger
}

// NewHandler wires the gateway. followups may be nil.
func NewHandler(config *Config, store Store, followups Followups, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		followups: followups,
		logger:    log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

// Execute validates the contact fields and stores the enquiry in exactly one
// insert attempt. The submission is detached from ctx cancellation and only
// bounded by the configured timeout, which also covers the follow-ups.
func (h *Handler) Execute(ctx context.Context, enquiry *models.Enquiry) (*Output, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.config.Timeout)
	defer cancel()

	start := time.Now()
	output, err := h.execute(ctx, enquiry)
	metrics.EnquirySubmitDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.EnquiriesSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case errors.Is(err, ErrMissingRequiredFields):
		metrics.EnquiriesSubmitted.WithLabelValues(metrics.OutcomeInvalid).Inc()
	default:
		metrics.EnquiriesSubmitted.WithLabelValues(metrics.OutcomePersistFailed).Inc()
	}

	return output, err
}

func (h *Handler) execute(ctx context.Context, enquiry *models.Enquiry) (*Output, error) {
	if enquiry == nil {
		return nil, fmt.Errorf("%w: empty enquiry", ErrMissingRequiredFields)
	}
	if missing := missingFields(enquiry.Contact); len(missing) > 0 {
		h.logger.Warn("enquiry rejected", map[string]interface{}{
			"missingFields": missing,
		})
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", "))
	}

	record := BuildRecord(enquiry)
	if err := h.insert(ctx, record); err != nil {
		h.logger.Error("failed to store enquiry", map[string]interface{}{
			"error":   err.Error(),
			"email":   record.Email,
			"company": record.CompanyName,
		})
		return nil, err
	}

	enquiryID := uuid.NewString()
	h.logger.Info("enquiry stored", map[string]interface{}{
		"enquiryId": enquiryID,
		"email":     record.Email,
		"company":   record.CompanyName,
		"industry":  derefString(record.Industry),
	})

	if h.followups != nil {
		h.followups.Dispatch(ctx, enquiryID, record)
	}

	return &Output{Success: true, Message: SuccessMessage}, nil
}

// insert reserves one connection for the statement and releases it on every
// path.
func (h *Handler) insert(ctx context.Context, rec *models.LeadRecord) error {
	conn, err := h.store.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseConnectionFailed, err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, insertEnquirySQL,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.CompanyName,
		nullFloat(rec.AnnualRevenue),
		nullFloat(rec.ProfitMargin),
		nullFloat(rec.AssetValue),
		nullString(rec.Industry),
		nullFloat(rec.CalculatedAssetBased),
		nullFloat(rec.CalculatedMarketMultiple),
		nullFloat(rec.CalculatedDCF),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err)
	}
	return nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
