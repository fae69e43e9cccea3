// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchRun is the persisted outcome of one search run.
type SearchRun struct {
	// ID is the run id assigned when the search was submitted.
	ID string `json:"id" yaml:"id"`

	ActorID   string `json:"actor_id" yaml:"actor_id"`
	Query     string `json:"query" yaml:"query"`
	Strategy  string `json:"strategy" yaml:"strategy"`
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`

	// Phase is how the run ended: succeeded, failed or cancelled.
	Phase string `json:"phase" yaml:"phase"`

	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	Attempts    int       `json:"attempts" yaml:"attempts"`
	ResultCount int       `json:"result_count" yaml:"result_count"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration is the wall time between submission and the terminal state.
func (r SearchRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HistoryEntry is a run together with the candidates it returned, as
// written by history export.
type HistoryEntry struct {
	SearchRun  `yaml:",inline"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}
