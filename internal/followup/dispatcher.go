// internal/followup/dispatcher.go
package followup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "valuation-leads/internal/common/errors"
	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/metrics"
	"valuation-leads/internal/models"
)

const defaultTimeout = 5 * time.Second

// ErrSkipped is returned by an action that chose not to run for a lead.
var ErrSkipped = errors.New("FOLLOWUP_SKIPPED")

// Action is one post-submission step. Run must honour ctx.
type Action interface {
	Name() string
	Timeout() time.Duration
	Run(ctx context.Context, enquiryID string, rec *models.LeadRecord) error
}

// Dispatcher runs every action for a stored enquiry. A failing action is
// logged and counted; it never affects the submission.
type Dispatcher struct {
	actions []Action
	logger  logger.Logger
}

func NewDispatcher(log logger.Logger, actions ...Action) *Dispatcher {
	return &Dispatcher{
		actions: actions,
		logger:  log.WithFields(map[string]interface{}{"component": "followup"}),
	}
}

// Actions returns the names of the configured actions.
func (d *Dispatcher) Actions() []string {
	names := make([]string, len(d.actions))
	for i, a := range d.actions {
		names[i] = a.Name()
	}
	return names
}

// Dispatch runs all actions concurrently and returns once each has finished
// or hit its own timeout. ctx cancellation is ignored but its deadline is kept,
// so no action outlives the caller's budget.
func (d *Dispatcher) Dispatch(ctx context.Context, enquiryID string, rec *models.LeadRecord) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		base, cancel = context.WithDeadline(base, deadline)
		defer cancel()
	}

	var wg sync.WaitGroup
	for _, action := range d.actions {
		wg.Add(1)
		go func(a Action) {
			defer wg.Done()
			d.run(base, a, enquiryID, rec)
		}(action)
	}
	wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, a Action, enquiryID string, rec *models.LeadRecord) {
	timeout := a.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fields := map[string]interface{}{
		"followup":  a.Name(),
		"enquiryId": enquiryID,
	}

	start := time.Now()
	err := safeRun(ctx, a, enquiryID, rec)
	fields["duration"] = time.Since(start).String()

	switch {
	case err == nil:
		d.logger.Info("follow-up completed", fields)
	case errors.Is(err, ErrSkipped):
		fields["reason"] = err.Error()
		d.logger.Debug("follow-up skipped", fields)
	default:
		stdErr := apperrors.Normalize(err)
		fields["errorCode"] = string(stdErr.Code)
		fields["error"] = err.Error()
		fields["retryable"] = stdErr.Retryable
		d.logger.Error("follow-up failed", fields)
		metrics.FollowupsFailed.WithLabelValues(a.Name()).Inc()
	}
}

func safeRun(ctx context.Context, a Action, enquiryID string, rec *models.LeadRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError(fmt.Errorf("panic in %s: %v", a.Name(), r))
		}
	}()
	return a.Run(ctx, enquiryID, rec)
}
