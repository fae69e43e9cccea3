// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search drives a people search from prompt to results: it creates
// a recommendation request on the backend and then obtains its results
// through a ResultStrategy, enforcing a submission cooldown and keeping at
// most one run alive per Orchestrator.
//
// A run moves Idle -> Submitting -> Polling* -> Succeeded | Failed.
// Cancel (or a newer Submit) abandons the live run; abandoned runs never
// change the visible state again, even when a response arrives late.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/pkg/types"
)

// Orchestrator runs searches for one consumer. It is safe for concurrent
// use, but runs are strictly serialized: a new Submit abandons the
// previous run and waits for its goroutine to exit before calling the
// backend.
type Orchestrator struct {
	backend  Backend
	strategy ResultStrategy
	label    string
	limiter  *rate.Limiter
	now      func() time.Time
	log      zerolog.Logger
	onChange func(State)

	mu      sync.Mutex
	state   State
	gen     uint64
	current *Run
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStrategy overrides the strategy derived from the config.
func WithStrategy(s ResultStrategy) Option {
	return func(o *Orchestrator) { o.strategy = s }
}

// WithClock replaces time.Now for the cooldown check.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// OnTransition registers fn to observe every state change in order. fn is
// called with the orchestrator locked and must not call back into it.
func OnTransition(fn func(State)) Option {
	return func(o *Orchestrator) { o.onChange = fn }
}

// New builds an orchestrator over backend using the cooldown, label and
// strategy from cfg.
func New(backend Backend, cfg types.SearchConfig, opts ...Option) (*Orchestrator, error) {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = types.DefaultCooldown
	}
	o := &Orchestrator{
		backend: backend,
		label:   cfg.Label,
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.strategy == nil {
		s, err := NewStrategy(cfg)
		if err != nil {
			return nil, err
		}
		o.strategy = s
	}
	return o, nil
}

// Strategy returns the result strategy in use.
func (o *Orchestrator) Strategy() ResultStrategy { return o.strategy }

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run is one submit-to-terminal cycle.
type Run struct {
	ID        string
	Query     string
	ActorID   string
	Strategy  string
	StartedAt time.Time

	gen      uint64
	cancel   context.CancelFunc
	exited   chan struct{} // worker goroutine returned
	finished chan struct{} // terminal state reached or run abandoned
	final    State
	err      error
}

// Done is closed once the run reached Succeeded or Failed, or was
// abandoned.
func (r *Run) Done() <-chan struct{} { return r.finished }

// Wait blocks until the run ends and returns its terminal state. For an
// abandoned run it returns ErrCancelled with an Idle state that keeps the
// handle and attempt reached before abandonment. When ctx ends first it
// returns ctx.Err() and leaves the run alone.
func (r *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-r.finished:
		return r.final, r.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Submit starts a search for query on behalf of sess. Validation errors
// (ErrEmptyQuery, ErrUnauthenticated, *TooFrequentError) are returned
// before anything is sent or any state changes. Otherwise the live run, if
// any, is abandoned, the cooldown restarts, the state becomes Submitting
// and the returned Run proceeds in the background.
//
// The run stops when ctx is cancelled, as if Cancel had been called.
func (o *Orchestrator) Submit(ctx context.Context, query string, sess session.Session) (*Run, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if !sess.AuthenticatedAt(now) {
		return nil, ErrUnauthenticated
	}

	res := o.limiter.ReserveN(now, 1)
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		o.log.Debug().Str("query", q).Dur("retry_after", wait).Msg("search rejected by cooldown")
		return nil, &TooFrequentError{RetryAfter: wait}
	}

	prev := o.current
	if prev != nil {
		o.abandonLocked(prev)
	}

	o.gen++
	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:        uuid.NewString(),
		Query:     q,
		ActorID:   sess.UserID,
		Strategy:  o.strategy.Name(),
		StartedAt: now,
		gen:       o.gen,
		cancel:    cancel,
		exited:    make(chan struct{}),
		finished:  make(chan struct{}),
	}
	o.current = run
	o.setLocked(State{Phase: Submitting, RunID: run.ID, Query: q})

	o.log.Info().
		Str("run_id", run.ID).
		Str("query", q).
		Str("strategy", o.strategy.Name()).
		Msg("search submitted")

	go o.execute(runCtx, run, prev)
	return run, nil
}

// Cancel abandons the live run, if any. Its pending poll is stopped, its
// handle is dropped and the state returns to Idle without a result.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return
	}
	o.abandonLocked(o.current)
	o.setLocked(State{Phase: Idle})
}

// Close cancels the live run and waits for its goroutine to exit. Call it
// when the consumer goes away.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	run := o.current
	if run != nil {
		o.abandonLocked(run)
		o.setLocked(State{Phase: Idle})
	}
	o.mu.Unlock()

	if run != nil {
		<-run.exited
	}
}

func (o *Orchestrator) execute(ctx context.Context, run *Run, prev *Run) {
	defer close(run.exited)
	defer run.cancel()

	// The previous run's timer and in-flight call must be gone before this
	// run touches the backend.
	if prev != nil {
		<-prev.exited
	}

	log := o.log.With().Str("run_id", run.ID).Logger()

	if ctx.Err() != nil {
		o.abandon(run)
		return
	}

	handle, err := o.backend.CreateRequest(ctx, run.ActorID, o.label, run.Query)
	if ctx.Err() != nil {
		o.abandon(run)
		return
	}
	if err != nil {
		o.finish(run, State{Phase: Failed, Err: newNetworkError("create request", err)})
		return
	}
	if handle == "" {
		o.finish(run, State{Phase: Failed, Err: ErrEmptyHandle})
		return
	}

	log.Debug().Str("request_id", handle).Msg("search request created")
	o.transition(run, State{Phase: Polling, Handle: handle})

	attempts := 0
	results, err := o.strategy.Retrieve(ctx, o.backend, run.ActorID, handle, func(attempt int) {
		attempts = attempt
		log.Debug().Str("request_id", handle).Int("attempt", attempt).Msg("fetching results")
		o.transition(run, State{Phase: Polling, Handle: handle, Attempt: attempt})
	})
	if ctx.Err() != nil {
		o.abandon(run)
		return
	}

	switch {
	case errors.Is(err, ErrTimeout):
		o.finish(run, State{Phase: Failed, Handle: handle, Attempt: attempts, Err: ErrTimeout})
	case err != nil:
		o.finish(run, State{Phase: Failed, Handle: handle, Attempt: attempts, Err: newNetworkError("fetch results", err)})
	default:
		o.finish(run, State{Phase: Succeeded, Handle: handle, Attempt: attempts, Results: results})
	}
}

// transition applies st if run is still the live run.
func (o *Orchestrator) transition(run *Run, st State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if run.gen != o.gen || o.current != run {
		return false
	}
	st.RunID = run.ID
	st.Query = run.Query
	o.setLocked(st)
	return true
}

func (o *Orchestrator) finish(run *Run, st State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if run.gen != o.gen || o.current != run {
		return
	}
	st.RunID = run.ID
	st.Query = run.Query
	o.setLocked(st)
	o.current = nil

	ev := o.log.Info()
	if st.Phase == Failed {
		ev = o.log.Warn().Err(st.Err)
	}
	ev.Str("run_id", run.ID).
		Str("phase", st.Phase.String()).
		Int("attempts", st.Attempt).
		Int("results", len(st.Results)).
		Msg("search finished")

	run.final = st
	close(run.finished)
}

// abandon handles a run whose context ended without Cancel, e.g. the
// caller's context was cancelled.
func (o *Orchestrator) abandon(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != run {
		return
	}
	o.abandonLocked(run)
	o.setLocked(State{Phase: Idle})
}

func (o *Orchestrator) abandonLocked(run *Run) {
	run.cancel()
	o.gen++
	o.current = nil
	// Keep how far the run got for the history record.
	final := State{Phase: Idle, RunID: run.ID, Query: run.Query}
	if o.state.RunID == run.ID {
		final.Handle = o.state.Handle
		final.Attempt = o.state.Attempt
	}
	run.final = final
	run.err = ErrCancelled
	close(run.finished)
	o.log.Debug().Str("run_id", run.ID).Msg("search abandoned")
}

func (o *Orchestrator) setLocked(st State) {
	o.state = st
	if o.onChange != nil {
		o.onChange(st)
	}
}
