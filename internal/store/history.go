// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/yoop/pkg/types"
)

const defaultListLimit = 20

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("search run not found")

// RecordRun stores a finished run and the candidates it returned,
// replacing any earlier record with the same id.
func (s *Store) RecordRun(ctx context.Context, run types.SearchRun, results []types.Candidate) error {
	if run.ID == "" {
		return fmt.Errorf("recording run: id is required")
	}
	run.ResultCount = len(results)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Candidates go with the old row through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting previous record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO searches (id, actor_id, query, strategy, request_id, phase, error,
			attempts, result_count, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ActorID, run.Query, run.Strategy, run.RequestID, run.Phase, run.Error,
		run.Attempts, run.ResultCount, formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (run_id, position, candidate_id, name, city, bio, tags, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range results {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding candidate %s: %w", c.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, i, c.ID, c.FullName(), c.City, c.Bio,
			strings.Join(c.AllTags(), " "), string(payload),
		)
		if err != nil {
			return fmt.Errorf("inserting candidate %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less uses 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]types.SearchRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, query, strategy, request_id, phase, error,
			attempts, result_count, started_at, finished_at
		 FROM searches ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.SearchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run looks up one run by id. A unique id prefix is accepted too, so the
// short ids printed by history list can be pasted back.
func (s *Store) Run(ctx context.Context, id string) (types.SearchRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, query, strategy, request_id, phase, error,
			attempts, result_count, started_at, finished_at
		 FROM searches WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return types.SearchRun{}, fmt.Errorf("looking up run: %w", err)
	}
	defer rows.Close()

	var found []types.SearchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return types.SearchRun{}, err
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return types.SearchRun{}, err
	}
	switch len(found) {
	case 0:
		return types.SearchRun{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return types.SearchRun{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// RunCandidates returns the candidates of a run in their original order.
func (s *Store) RunCandidates(ctx context.Context, runID string) ([]types.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM candidates WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()
	return scanCandidates(rows)
}

// FindCandidates searches the name, city, bio and tags of every stored
// candidate. Every term must match; results are ranked by relevance and
// deduplicated by candidate id, keeping the best-ranked copy.
func (s *Store) FindCandidates(ctx context.Context, text string, limit int) ([]types.Candidate, error) {
	query := ftsQuery(text)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.candidate_id, c.payload
		 FROM candidates_fts
		 JOIN candidates c ON c.rowid = candidates_fts.rowid
		 WHERE candidates_fts MATCH ?
		 ORDER BY candidates_fts.rank`, query)
	if err != nil {
		return nil, fmt.Errorf("searching candidates: %w", err)
	}
	defer rows.Close()

	var out []types.Candidate
	seen := make(map[string]bool)
	for rows.Next() && len(out) < limit {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		c, err := decodeCandidate(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ftsQuery turns free text into an FTS5 query of quoted terms so user
// input cannot inject FTS syntax.
func ftsQuery(text string) string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f != "" {
			terms = append(terms, `"`+f+`"`)
		}
	}
	return strings.Join(terms, " ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (types.SearchRun, error) {
	var (
		run        types.SearchRun
		requestID  sql.NullString
		errText    sql.NullString
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(
		&run.ID, &run.ActorID, &run.Query, &run.Strategy, &requestID, &run.Phase, &errText,
		&run.Attempts, &run.ResultCount, &startedAt, &finishedAt,
	); err != nil {
		return types.SearchRun{}, fmt.Errorf("scanning run: %w", err)
	}
	run.RequestID = requestID.String
	run.Error = errText.String
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt.String)
	return run, nil
}

func scanCandidates(rows *sql.Rows) ([]types.Candidate, error) {
	var out []types.Candidate
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c, err := decodeCandidate(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func decodeCandidate(payload string) (types.Candidate, error) {
	var c types.Candidate
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return types.Candidate{}, fmt.Errorf("decoding candidate: %w", err)
	}
	return c, nil
}
