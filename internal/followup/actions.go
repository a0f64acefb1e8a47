// internal/followup/actions.go
package followup

import (
	"context"
	"fmt"
	"time"

	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/zoho"
	"valuation-leads/internal/models"
	"valuation-leads/internal/valuation"
)

// Clients the actions talk to. *aws.SESClient, *aws.SNSClient,
// *zoho.CRMClient, *database.ElasticsearchClient and *camunda.Client
// satisfy them.
type (
	EmailSender interface {
		SendText(ctx context.Context, to []string, subject, body string) (string, error)
	}
	SMSSender interface {
		SendSMS(ctx context.Context, phone, message string) (string, error)
	}
	LeadCreator interface {
		CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	}
	DocumentIndexer interface {
		IndexDocument(ctx context.Context, index, id string, doc interface{}) error
	}
	ProcessStarter interface {
		StartProcess(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
	}
)

// ==========================
// Sales e-mail
// ==========================

type SalesEmail struct {
	Sender     EmailSender
	Recipients []string
	Limit      time.Duration
}

func (a *SalesEmail) Name() string           { return "sales_email" }
func (a *SalesEmail) Timeout() time.Duration { return a.Limit }

func (a *SalesEmail) Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error {
	subject := fmt.Sprintf("New valuation enquiry: %s", rec.CompanyName)
	if _, err := a.Sender.SendText(ctx, a.Recipients, subject, summary(enquiryID, rec)); err != nil {
		return apperrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

// ==========================
// SMS alert
// ==========================

// SMSAlert texts the sales phone when the market-multiple figure reaches
// Threshold.
type SMSAlert struct {
	Sender      SMSSender
	PhoneNumber string
	Threshold   float64
	Limit       time.Duration
}

func (a *SMSAlert) Name() string           { return "sms_alert" }
func (a *SMSAlert) Timeout() time.Duration { return a.Limit }

func (a *SMSAlert) Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error {
	if rec.CalculatedMarketMultiple == nil || !(*rec.CalculatedMarketMultiple >= a.Threshold) {
		return fmt.Errorf("%w: below threshold", ErrSkipped)
	}

	msg := fmt.Sprintf("High-value lead: %s (%s, %s), market multiple %s",
		rec.CompanyName, rec.Name, rec.Phone, valuation.FormatCurrency(*rec.CalculatedMarketMultiple))
	if _, err := a.Sender.SendSMS(ctx, a.PhoneNumber, msg); err != nil {
		return apperrors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}

// ==========================
// CRM lead
// ==========================

type CRMLead struct {
	Client LeadCreator
	Source string
	Limit  time.Duration
}

func (a *CRMLead) Name() string           { return "crm_lead" }
func (a *CRMLead) Timeout() time.Duration { return a.Limit }

func (a *CRMLead) Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error {
	first, last := splitName(rec.Name)
	lead := &zoho.Lead{
		FirstName:     first,
		LastName:      last,
		Email:         rec.Email,
		Phone:         rec.Phone,
		Company:       rec.CompanyName,
		Industry:      deref(rec.Industry),
		AnnualRevenue: rec.AnnualRevenue,
		Source:        a.Source,
		Description:   summary(enquiryID, rec),
	}
	if _, err := a.Client.CreateLead(ctx, lead); err != nil {
		return apperrors.NewCRMSyncFailedError(err)
	}
	return nil
}

// ==========================
// Search index
// ==========================

// EnquiryDocument is the search representation of a stored enquiry.
type EnquiryDocument struct {
	EnquiryID   string `json:"enquiryId"`
	SubmittedAt string `json:"submittedAt"`
	*models.LeadRecord
}

type SearchIndex struct {
	Indexer DocumentIndexer
	Index   string
	Limit   time.Duration
	now     func() time.Time
}

func (a *SearchIndex) Name() string           { return "search_index" }
func (a *SearchIndex) Timeout() time.Duration { return a.Limit }

func (a *SearchIndex) Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	doc := EnquiryDocument{
		EnquiryID:   enquiryID,
		SubmittedAt: now().UTC().Format(time.RFC3339),
		LeadRecord:  rec,
	}
	if err := a.Indexer.IndexDocument(ctx, a.Index, enquiryID, doc); err != nil {
		return apperrors.NewSearchIndexFailedError(a.Index, err)
	}
	return nil
}

// ==========================
// Workflow start
// ==========================

type WorkflowStart struct {
	Starter   ProcessStarter
	ProcessID string
	Limit     time.Duration
}

func (a *WorkflowStart) Name() string           { return "workflow_start" }
func (a *WorkflowStart) Timeout() time.Duration { return a.Limit }

func (a *WorkflowStart) Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error {
	vars := map[string]interface{}{
		"enquiryId":      enquiryID,
		"name":           rec.Name,
		"email":          rec.Email,
		"phone":          rec.Phone,
		"companyName":    rec.CompanyName,
		"industry":       deref(rec.Industry),
		"marketMultiple": floatOrNil(rec.CalculatedMarketMultiple),
		"dcf":            floatOrNil(rec.CalculatedDCF),
		"assetBased":     floatOrNil(rec.CalculatedAssetBased),
	}
	if _, err := a.Starter.StartProcess(ctx, a.ProcessID, vars); err != nil {
		return apperrors.NewWorkflowStartFailedError(a.ProcessID, err)
	}
	return nil
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
