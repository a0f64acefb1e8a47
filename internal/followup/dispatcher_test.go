// internal/followup/dispatcher_test.go
package followup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/metrics"
	"valuation-leads/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helper Functions
// ==========================

type funcAction struct {
	name    string
	timeout time.Duration
	calls   int32
	fn      func(ctx context.Context) error
}

func (a *funcAction) Name() string           { return a.name }
func (a *funcAction) Timeout() time.Duration { return a.timeout }
func (a *funcAction) Run(ctx context.Context, _ string, _ *models.LeadRecord) error {
	atomic.AddInt32(&a.calls, 1)
	return a.fn(ctx)
}

func testRecord() *models.LeadRecord {
	return &models.LeadRecord{
		Name:                     "Jane Doe",
		Email:                    "jane@acme.test",
		Phone:                    "555-0100",
		CompanyName:              "Acme",
		AnnualRevenue:            models.Float64Ptr(1000000),
		ProfitMargin:             models.Float64Ptr(20),
		AssetValue:               models.Float64Ptr(500000),
		Industry:                 models.StringPtr("tech"),
		CalculatedAssetBased:     models.Float64Ptr(500000),
		CalculatedMarketMultiple: models.Float64Ptr(3250000),
		CalculatedDCF:            models.Float64Ptr(4200000),
	}
}

func observedLogger(level zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewZapAdapter(zap.New(core)), logs
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDispatcher_RunsEveryAction(t *testing.T) {
	ok1 := &funcAction{name: "one", fn: func(context.Context) error { return nil }}
	ok2 := &funcAction{name: "two", fn: func(context.Context) error { return nil }}
	log, logs := observedLogger(zapcore.InfoLevel)

	d := NewDispatcher(log, ok1, ok2)
	d.Dispatch(context.Background(), "enq-1", testRecord())

	assert.EqualValues(t, 1, ok1.calls)
	assert.EqualValues(t, 1, ok2.calls)
	assert.Equal(t, 2, logs.FilterMessage("follow-up completed").Len())
	assert.Equal(t, []string{"one", "two"}, d.Actions())
}

func TestDispatcher_FailureIsIsolated(t *testing.T) {
	failing := &funcAction{name: "crm_test", fn: func(context.Context) error {
		return errors.New("CRM_SYNC_FAILED")
	}}
	ok := &funcAction{name: "ok", fn: func(context.Context) error { return nil }}
	log, logs := observedLogger(zapcore.InfoLevel)
	before := testutil.ToFloat64(metrics.FollowupsFailed.WithLabelValues("crm_test"))

	d := NewDispatcher(log, failing, ok)
	d.Dispatch(context.Background(), "enq-2", testRecord())

	assert.EqualValues(t, 1, ok.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FollowupsFailed.WithLabelValues("crm_test")))

	failed := logs.FilterMessage("follow-up failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "CRM_SYNC_FAILED", failed[0].ContextMap()["errorCode"])
	assert.Equal(t, "enq-2", failed[0].ContextMap()["enquiryId"])
}

func TestDispatcher_SkippedIsNotAFailure(t *testing.T) {
	skipping := &funcAction{name: "skip_test", fn: func(context.Context) error { return ErrSkipped }}
	log, logs := observedLogger(zapcore.DebugLevel)
	before := testutil.ToFloat64(metrics.FollowupsFailed.WithLabelValues("skip_test"))

	d := NewDispatcher(log, skipping)
	d.Dispatch(context.Background(), "enq-3", testRecord())

	assert.Equal(t, before, testutil.ToFloat64(metrics.FollowupsFailed.WithLabelValues("skip_test")))
	assert.Equal(t, 1, logs.FilterMessage("follow-up skipped").Len())
}

func TestDispatcher_TimeoutPerAction(t *testing.T) {
	slow := &funcAction{name: "slow", timeout: 20 * time.Millisecond, fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	log, logs := observedLogger(zapcore.InfoLevel)

	d := NewDispatcher(log, slow)
	start := time.Now()
	d.Dispatch(context.Background(), "enq-4", testRecord())
	assert.True(t, time.Since(start) < time.Second, "slow action must be cut off by its timeout")

	failed := logs.FilterMessage("follow-up failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "INTERNAL_ERROR", failed[0].ContextMap()["errorCode"])
}

func TestDispatcher_IgnoresCallerCancellation(t *testing.T) {
	var sawCancel atomic.Bool
	action := &funcAction{name: "ctx", fn: func(ctx context.Context) error {
		sawCancel.Store(ctx.Err() != nil)
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(logger.NewNoOpLogger(), action)
	d.Dispatch(ctx, "enq-5", testRecord())

	assert.False(t, sawCancel.Load())
}

func TestDispatcher_KeepsCallerDeadline(t *testing.T) {
	slow := &funcAction{name: "slow", timeout: 5 * time.Second, fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	NewDispatcher(logger.NewNoOpLogger(), slow).Dispatch(ctx, "enq-9", testRecord())

	assert.Less(t, time.Since(start), time.Second)
	assert.EqualValues(t, 1, slow.calls)
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	boom := &funcAction{name: "boom", fn: func(context.Context) error { panic("nil map") }}
	log, logs := observedLogger(zapcore.InfoLevel)

	d := NewDispatcher(log, boom)
	d.Dispatch(context.Background(), "enq-6", testRecord())

	require.Equal(t, 1, logs.FilterMessage("follow-up failed").Len())
}

func TestDispatcher_RunsConcurrently(t *testing.T) {
	barrier := make(chan struct{})
	var arrived int32
	meet := func(ctx context.Context) error {
		if atomic.AddInt32(&arrived, 1) == 2 {
			close(barrier)
		}
		select {
		case <-barrier:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a := &funcAction{name: "a", timeout: time.Second, fn: meet}
	b := &funcAction{name: "b", timeout: time.Second, fn: meet}
	log, logs := observedLogger(zapcore.InfoLevel)

	NewDispatcher(log, a, b).Dispatch(context.Background(), "enq-7", testRecord())

	assert.Equal(t, 2, logs.FilterMessage("follow-up completed").Len())
}

func TestDispatcher_NoActions(t *testing.T) {
	d := NewDispatcher(logger.NewNoOpLogger())
	d.Dispatch(context.Background(), "enq-8", testRecord())
	assert.Empty(t, d.Actions())
}
