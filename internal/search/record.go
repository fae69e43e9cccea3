// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"time"

	"github.com/pdiddy/yoop/pkg/types"
)

// PhaseCancelled is the history phase of an abandoned run.
const PhaseCancelled = "cancelled"

// Record summarizes the run for the search history. st and err are what
// Wait returned.
func (r *Run) Record(st State, err error, finishedAt time.Time) types.SearchRun {
	rec := types.SearchRun{
		ID:          r.ID,
		ActorID:     r.ActorID,
		Query:       r.Query,
		Strategy:    r.Strategy,
		RequestID:   st.Handle,
		Phase:       st.Phase.String(),
		Attempts:    st.Attempt,
		ResultCount: len(st.Results),
		StartedAt:   r.StartedAt,
		FinishedAt:  finishedAt,
	}
	switch {
	case errors.Is(err, ErrCancelled):
		rec.Phase = PhaseCancelled
		rec.Error = err.Error()
	case err != nil:
		rec.Phase = Failed.String()
		rec.Error = err.Error()
	case st.Err != nil:
		rec.Error = st.Err.Error()
	}
	return rec
}
