// internal/followup/actions_test.go
package followup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"valuation-leads/internal/common/config"
	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/zoho"
	"valuation-leads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmail struct{ mock.Mock }

func (m *mockEmail) SendText(ctx context.Context, to []string, subject, body string) (string, error) {
	args := m.Called(ctx, to, subject, body)
	return args.String(0), args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

type mockCRM struct{ mock.Mock }

func (m *mockCRM) CreateLead(ctx context.Context, lead *zoho.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

type mockIndexer struct{ mock.Mock }

func (m *mockIndexer) IndexDocument(ctx context.Context, index, id string, doc interface{}) error {
	return m.Called(ctx, index, id, doc).Error(0)
}

type mockStarter struct{ mock.Mock }

func (m *mockStarter) StartProcess(ctx context.Context, processID string, vars map[string]interface{}) (int64, error) {
	args := m.Called(ctx, processID, vars)
	return args.Get(0).(int64), args.Error(1)
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	require.Error(t, err)
	return apperrors.Normalize(err).Code
}

// ==========================
// Sales e-mail
// ==========================

func TestSalesEmail_Run(t *testing.T) {
	sender := &mockEmail{}
	sender.On("SendText", mock.Anything, []string{"sales@acme.test"}, "New valuation enquiry: Acme",
		mock.MatchedBy(func(body string) bool {
			return assert.Contains(t, body, "Market multiple valuation: $3,250,000") &&
				assert.Contains(t, body, "Enquiry: enq-1") &&
				assert.Contains(t, body, "Profit margin: 20%")
		})).Return("msg-1", nil)

	a := &SalesEmail{Sender: sender, Recipients: []string{"sales@acme.test"}}
	require.NoError(t, a.Run(context.Background(), "enq-1", testRecord()))
	sender.AssertExpectations(t)
}

func TestSalesEmail_Failure(t *testing.T) {
	sender := &mockEmail{}
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("throttled"))

	a := &SalesEmail{Sender: sender, Recipients: []string{"sales@acme.test"}}
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, errorCode(t, a.Run(context.Background(), "enq-1", testRecord())))
}

func TestSummary_NullFields(t *testing.T) {
	body := summary("enq-1", &models.LeadRecord{Name: "A", Email: "a@b.c", Phone: "1", CompanyName: "C"})
	assert.Contains(t, body, "Industry: -")
	assert.Contains(t, body, "DCF valuation: -")
}

// ==========================
// SMS alert
// ==========================

func TestSMSAlert_AboveThreshold(t *testing.T) {
	sender := &mockSMS{}
	sender.On("SendSMS", mock.Anything, "+15550100", "High-value lead: Acme (Jane Doe, 555-0100), market multiple $3,250,000").
		Return("sms-1", nil)

	a := &SMSAlert{Sender: sender, PhoneNumber: "+15550100", Threshold: 1000000}
	require.NoError(t, a.Run(context.Background(), "enq-1", testRecord()))
	sender.AssertExpectations(t)
}

func TestSMSAlert_BelowThresholdSkips(t *testing.T) {
	sender := &mockSMS{}
	a := &SMSAlert{Sender: sender, PhoneNumber: "+15550100", Threshold: 5000000}

	err := a.Run(context.Background(), "enq-1", testRecord())
	assert.ErrorIs(t, err, ErrSkipped)

	rec := testRecord()
	rec.CalculatedMarketMultiple = nil
	assert.ErrorIs(t, a.Run(context.Background(), "enq-1", rec), ErrSkipped)

	sender.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

// ==========================
// CRM lead
// ==========================

func TestCRMLead_MapsRecord(t *testing.T) {
	crm := &mockCRM{}
	crm.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *zoho.Lead) bool {
		return l.FirstName == "Jane" && l.LastName == "Doe" && l.Company == "Acme" &&
			l.Industry == "tech" && *l.AnnualRevenue == 1000000 && l.Source == "Valuation Calculator"
	})).Return("zoho-1", nil)

	a := &CRMLead{Client: crm, Source: "Valuation Calculator"}
	require.NoError(t, a.Run(context.Background(), "enq-1", testRecord()))
	crm.AssertExpectations(t)
}

func TestCRMLead_Failure(t *testing.T) {
	crm := &mockCRM{}
	crm.On("CreateLead", mock.Anything, mock.Anything).Return("", errors.New("401"))

	a := &CRMLead{Client: crm}
	assert.Equal(t, apperrors.ErrCodeCRMSyncFailed, errorCode(t, a.Run(context.Background(), "enq-1", testRecord())))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Cher", "", "Cher"},
		{"  Mary Ann  van Dyke ", "Mary Ann van", "Dyke"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}

// ==========================
// Search index
// ==========================

func TestSearchIndex_Document(t *testing.T) {
	indexer := &mockIndexer{}
	var captured interface{}
	indexer.On("IndexDocument", mock.Anything, "enquiries", "enq-1", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(3) }).
		Return(nil)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := &SearchIndex{Indexer: indexer, Index: "enquiries", now: func() time.Time { return fixed }}
	require.NoError(t, a.Run(context.Background(), "enq-1", testRecord()))

	raw, err := json.Marshal(captured)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "enq-1", doc["enquiryId"])
	assert.Equal(t, "2026-01-02T03:04:05Z", doc["submittedAt"])
	assert.Equal(t, "Acme", doc["companyName"])
	assert.Equal(t, 4200000.0, doc["calculatedDcf"])
}

func TestSearchIndex_Failure(t *testing.T) {
	indexer := &mockIndexer{}
	indexer.On("IndexDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("503"))

	a := &SearchIndex{Indexer: indexer, Index: "enquiries"}
	assert.Equal(t, apperrors.ErrCodeSearchIndexFailed, errorCode(t, a.Run(context.Background(), "enq-1", testRecord())))
}

// ==========================
// Workflow start
// ==========================

func TestWorkflowStart_Variables(t *testing.T) {
	starter := &mockStarter{}
	starter.On("StartProcess", mock.Anything, "valuation-lead-followup", mock.MatchedBy(func(v map[string]interface{}) bool {
		return v["enquiryId"] == "enq-1" && v["companyName"] == "Acme" && v["marketMultiple"] == 3250000.0
	})).Return(int64(2251799813685249), nil)

	a := &WorkflowStart{Starter: starter, ProcessID: "valuation-lead-followup"}
	require.NoError(t, a.Run(context.Background(), "enq-1", testRecord()))
	starter.AssertExpectations(t)
}

func TestWorkflowStart_Failure(t *testing.T) {
	starter := &mockStarter{}
	starter.On("StartProcess", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("unavailable"))

	a := &WorkflowStart{Starter: starter, ProcessID: "p"}
	assert.Equal(t, apperrors.ErrCodeWorkflowStartFailed, errorCode(t, a.Run(context.Background(), "enq-1", testRecord())))
}

// ==========================
// Build
// ==========================

func TestBuild(t *testing.T) {
	cfg := config.FollowupsConfig{}
	cfg.SalesEmail.Enabled = true
	cfg.SalesEmail.Timeout = 1500
	cfg.SMSAlert.Enabled = true
	cfg.CRMLead.Enabled = true
	cfg.SearchIndex.Enabled = false
	cfg.WorkflowStart.Enabled = true

	actions := Build(cfg, Clients{
		Email:    &mockEmail{},
		CRM:      &mockCRM{},
		Search:   &mockIndexer{},
		Workflow: &mockStarter{},
	})

	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name()
	}
	assert.Equal(t, []string{"sales_email", "crm_lead", "workflow_start"}, names)
	assert.Equal(t, 1500*time.Millisecond, actions[0].Timeout())
}
