// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCandidates() []types.Candidate {
	return []types.Candidate{
		{
			ID: "p1", Login: "alisa", Name: "Alisa", SurName: "Ivanova", Age: 24, City: "Moscow",
			Bio: "Frontend developer, loves travel and coffee", Skills: types.Tags{"React", "TypeScript"},
		},
		{
			ID: "p2", Login: "boris", Name: "Boris", SurName: "Smirnov", Age: 31, City: "Kazan",
			Bio: "Backend engineer", Skills: types.Tags{"Go", "PostgreSQL"}, Hobbies: types.Tags{"chess"},
		},
	}
}

func sampleRun(id, query string, started time.Time) types.SearchRun {
	return types.SearchRun{
		ID:         id,
		ActorID:    "u1",
		Query:      query,
		Strategy:   "poll",
		RequestID:  "req-" + id,
		Phase:      "succeeded",
		Attempts:   2,
		StartedAt:  started,
		FinishedAt: started.Add(1300 * time.Millisecond),
	}
}

// --- tests ---

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, filepath.Join(dir, "yoop.db"), s2.Path())
}

func TestSession_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.LoadSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveSession(ctx, session.Session{UserID: "u1", Login: "anna", Token: "tok", ExpiresAt: exp}))
	require.NoError(t, s.SaveSession(ctx, session.Session{UserID: "u2", Login: "boris", Token: "tok2", ExpiresAt: exp}))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)
	assert.Equal(t, "boris", got.Login)
	assert.Equal(t, "tok2", got.Token)
	assert.True(t, exp.Equal(got.ExpiresAt))

	require.NoError(t, s.ClearSession(ctx))
	_, err = s.LoadSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, s.ClearSession(ctx))
}

func TestSaveSession_RejectsAnonymous(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.SaveSession(context.Background(), session.Session{UserID: "u1"}))
}

func TestRecordRun_ListAndCandidates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRun(ctx, sampleRun("run-a", "Frontend React", t0), sampleCandidates()))
	failed := sampleRun("run-b", "nobody", t0.Add(500*time.Millisecond))
	failed.Phase = "failed"
	failed.Error = "search timed out"
	require.NoError(t, s.RecordRun(ctx, failed, nil))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID, "newest first even with sub-second timestamps")
	assert.Equal(t, "search timed out", runs[0].Error)
	assert.Equal(t, 0, runs[0].ResultCount)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, 2, runs[1].ResultCount)
	assert.Equal(t, "req-run-a", runs[1].RequestID)
	assert.Equal(t, 1300*time.Millisecond, runs[1].Duration())

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	got, err := s.RunCandidates(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, sampleCandidates(), got)
}

func TestRecordRun_ReplacesCandidates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := sampleRun("run-a", "Go", time.Now())

	require.NoError(t, s.RecordRun(ctx, run, sampleCandidates()))
	require.NoError(t, s.RecordRun(ctx, run, sampleCandidates()[1:]))

	got, err := s.RunCandidates(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	found, err := s.FindCandidates(ctx, "React", 10)
	require.NoError(t, err)
	assert.Empty(t, found, "FTS index must drop replaced rows")
}

func TestRecordRun_RequiresID(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.RecordRun(context.Background(), types.SearchRun{}, nil))
}

func TestRun_ByIDAndPrefix(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.RecordRun(ctx, sampleRun("4f1c0000-aaaa", "a", now), nil))
	require.NoError(t, s.RecordRun(ctx, sampleRun("4f2d0000-bbbb", "b", now), nil))

	run, err := s.Run(ctx, "4f1c0000-aaaa")
	require.NoError(t, err)
	assert.Equal(t, "a", run.Query)

	run, err = s.Run(ctx, "4f2d")
	require.NoError(t, err)
	assert.Equal(t, "b", run.Query)

	_, err = s.Run(ctx, "4f")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.Run(ctx, "zz")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestFindCandidates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	t0 := time.Now()
	require.NoError(t, s.RecordRun(ctx, sampleRun("r1", "q1", t0), sampleCandidates()))
	// Same people again in a later run; results are deduplicated.
	require.NoError(t, s.RecordRun(ctx, sampleRun("r2", "q2", t0.Add(time.Second)), sampleCandidates()))

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bio term", "coffee", []string{"p1"}},
		{"tag", "postgresql", []string{"p2"}},
		{"city", "Kazan", []string{"p2"}},
		{"all terms must match", "Go Moscow", nil},
		{"quotes are stripped", `"chess"`, []string{"p2"}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindCandidates(ctx, tt.text, 10)
			require.NoError(t, err)
			var ids []string
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFtsQuery(t *testing.T) {
	assert.Equal(t, `"Go" "React"`, ftsQuery(" Go  React "))
	assert.Equal(t, `"a-b"`, ftsQuery(`a-b ""`))
	assert.Equal(t, "", ftsQuery(""))
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(ctx, sampleRun("r1", "Frontend React", t0), sampleCandidates()))
	require.NoError(t, s.RecordRun(ctx, sampleRun("r2", "empty", t0.Add(time.Minute)), nil))

	var jbuf bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &jbuf))
	var fromJSON []map[string]any
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "r2", fromJSON[0]["id"])
	assert.Equal(t, []any{}, fromJSON[0]["candidates"])
	assert.Len(t, fromJSON[1]["candidates"], 2)

	var ybuf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &ybuf))
	var fromYAML []types.HistoryEntry
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "Frontend React", fromYAML[1].Query)
	assert.Equal(t, "Boris", fromYAML[1].Candidates[1].Name)
	assert.Equal(t, types.Tags{"Go", "PostgreSQL"}, fromYAML[1].Candidates[1].Skills)
	assert.Contains(t, ybuf.String(), "bio: Backend engineer")
}
