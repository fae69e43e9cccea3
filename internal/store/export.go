// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/yoop/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes every stored run with its candidates to w as YAML,
// newest run first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the same document as ExportYAML in JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context) ([]types.HistoryEntry, error) {
	runs, err := s.ListRuns(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]types.HistoryEntry, len(runs))
	for i, run := range runs {
		candidates, err := s.RunCandidates(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("querying candidates of %s: %w", run.ID, err)
		}
		if candidates == nil {
			candidates = []types.Candidate{}
		}
		entries[i] = types.HistoryEntry{SearchRun: run, Candidates: candidates}
	}
	return entries, nil
}
