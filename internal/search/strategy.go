// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/yoop/pkg/types"
)

// Backend is the part of the REST backend a search needs. *api.Client
// implements it.
type Backend interface {
	CreateRequest(ctx context.Context, actorID, label, query string) (string, error)
	Recommendations(ctx context.Context, requestID string) ([]types.Candidate, error)
	FetchResults(ctx context.Context, actorID, requestID string) ([]types.Candidate, error)
}

// ResultStrategy turns a request handle into results. onAttempt is called
// with the 1-based attempt number right before each backend call.
//
// Backend errors are returned unchanged. A strategy that gives up without
// results returns ErrTimeout. When ctx is cancelled it returns ctx.Err()
// without issuing further calls.
type ResultStrategy interface {
	Name() string
	Retrieve(ctx context.Context, b Backend, actorID, handle string, onAttempt func(int)) ([]types.Candidate, error)
}

// PollStrategy fetches results once immediately and then once per
// Interval until a non-empty list arrives, MaxAttempts calls have been
// made, or Timeout (when positive) has elapsed.
type PollStrategy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// Name returns the strategy identifier.
func (PollStrategy) Name() string { return string(types.StrategyPoll) }

// Retrieve polls the recommendations endpoint. Attempts never overlap.
func (p PollStrategy) Retrieve(ctx context.Context, b Backend, _ string, handle string, onAttempt func(int)) ([]types.Candidate, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = types.DefaultMaxAttempts
	}
	interval := p.Interval
	if interval <= 0 {
		interval = types.DefaultPollInterval
	}

	parent := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.Timeout, ErrTimeout)
		defer cancel()
	}
	// stopped distinguishes our own deadline from the caller giving up.
	stopped := func() error {
		if parent.Err() != nil {
			return parent.Err()
		}
		return context.Cause(ctx)
	}

	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			timer.Reset(interval)
			select {
			case <-ctx.Done():
				return nil, stopped()
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return nil, stopped()
		}

		onAttempt(attempt)
		results, err := b.Recommendations(ctx, handle)
		if err != nil {
			if ctx.Err() != nil {
				return nil, stopped()
			}
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	return nil, ErrTimeout
}

// SingleShotStrategy makes one synchronous fetch. An empty list is a
// final "no results" answer, not a reason to retry.
type SingleShotStrategy struct{}

// Name returns the strategy identifier.
func (SingleShotStrategy) Name() string { return string(types.StrategySingle) }

// Retrieve calls the synchronous fetch-results endpoint once.
func (SingleShotStrategy) Retrieve(ctx context.Context, b Backend, actorID, handle string, onAttempt func(int)) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	onAttempt(1)
	results, err := b.FetchResults(ctx, actorID, handle)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if results == nil {
		results = []types.Candidate{}
	}
	return results, nil
}

// NewStrategy picks the strategy named by cfg.
func NewStrategy(cfg types.SearchConfig) (ResultStrategy, error) {
	switch cfg.Strategy {
	case types.StrategyPoll, "":
		return PollStrategy{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.MaxAttempts,
			Timeout:     cfg.Timeout,
		}, nil
	case types.StrategySingle:
		return SingleShotStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown search strategy %q: use poll or single", cfg.Strategy)
	}
}
