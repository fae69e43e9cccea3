// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"

	"github.com/pdiddy/yoop/pkg/types"
)

// Phase is the step a search run is in.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Polling
	Succeeded
	Failed
)

var phaseNames = [...]string{"idle", "submitting", "polling", "succeeded", "failed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Terminal reports whether p ends a run.
func (p Phase) Terminal() bool { return p == Succeeded || p == Failed }

// State is a snapshot of the orchestrator. Results is shared with the
// orchestrator and must be treated as read-only.
type State struct {
	Phase Phase

	// RunID identifies the run that produced this state. It is empty for
	// the orchestrator's Idle state and set on an abandoned run's result.
	RunID string
	Query string

	// Handle is the backend request id, set from Polling on.
	Handle string

	// Attempt is the number of result fetches issued so far.
	Attempt int

	// Results is set for Succeeded. It may be empty when the single-shot
	// strategy found nothing.
	Results []types.Candidate

	// Err is the failure reason for Failed: ErrTimeout, ErrEmptyHandle or
	// a *NetworkError.
	Err error
}

func (s State) String() string {
	switch s.Phase {
	case Polling:
		return fmt.Sprintf("polling %s (attempt %d)", s.Handle, s.Attempt)
	case Succeeded:
		return fmt.Sprintf("succeeded (%d results)", len(s.Results))
	case Failed:
		return fmt.Sprintf("failed: %v", s.Err)
	default:
		return s.Phase.String()
	}
}
