// internal/valuation/session.go
package valuation

import (
	"context"
	"errors"
	"sync"

	"valuation-leads/internal/models"
)

var ErrNoPendingResults = errors.New("NO_PENDING_RESULTS")

// State is one of Idle, PendingContact or ResultsShown. The set is closed:
// results can only become visible by passing through a successful contact
// submission.
type State interface {
	isState()
}

// Idle is the state before the first calculation.
type Idle struct{}

// PendingContact holds computed results that are withheld until the visitor
// leaves contact details.
type PendingContact struct {
	Input  Input
	Result Result
}

// ResultsShown is reached once the contact details were accepted.
type ResultsShown struct {
	Input   Input
	Result  Result
	Contact models.Contact
}

func (Idle) isState()           {}
func (PendingContact) isState() {}
func (ResultsShown) isState()   {}

// Submitter forwards a captured lead, e.g. to the enquiry endpoint.
type Submitter interface {
	SubmitEnquiry(ctx context.Context, contact models.Contact, in Input, res Result) error
}

// Session drives the calculator flow: calculate, collect contact, reveal.
type Session struct {
	estimator *Estimator
	mu        sync.Mutex
	state     State
	gen       uint64
}

// NewSession starts idle. A nil estimator uses the default policy.
func NewSession(estimator *Estimator) *Session {
	if estimator == nil {
		estimator = defaultEstimator
	}
	return &Session{estimator: estimator, state: Idle{}}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Calculate recomputes the estimate in full and withholds it pending contact
// details. It is valid from any state. On error the state is unchanged.
func (s *Session) Calculate(in Input) error {
	res, err := s.estimator.Estimate(in)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = PendingContact{Input: in, Result: res}
	s.gen++
	s.mu.Unlock()
	return nil
}

// SubmitContact hands the pending results and contact details to submitter.
// Only a successful submission reveals the results; on failure the session
// stays pending so the visitor can retry with the same data.
func (s *Session) SubmitContact(ctx context.Context, contact models.Contact, submitter Submitter) (Result, error) {
	s.mu.Lock()
	pending, ok := s.state.(PendingContact)
	gen := s.gen
	s.mu.Unlock()
	if !ok {
		return Result{}, ErrNoPendingResults
	}

	if err := submitter.SubmitEnquiry(ctx, contact, pending.Input, pending.Result); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a concurrent Calculate replaced the pending results; keep the newer ones withheld
	if s.gen != gen {
		return Result{}, ErrNoPendingResults
	}
	s.state = ResultsShown{Input: pending.Input, Result: pending.Result, Contact: contact}
	return pending.Result, nil
}

// Results returns the estimate only once it has been revealed.
func (s *Session) Results() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shown, ok := s.state.(ResultsShown)
	if !ok {
		return Result{}, false
	}
	return shown.Result, true
}
