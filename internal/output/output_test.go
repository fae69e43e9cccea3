// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/yoop/pkg/types"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("x")))
	wrapped := fmt.Errorf("search: %w", &CLIError{Summary: "not logged in", ExitCode: ExitAuth})
	assert.Equal(t, ExitAuth, ExitCode(wrapped))
}

func TestPrinter_ErrorWithSuggestion(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinterTo(&out, &errOut, false)

	p.Error(&CLIError{Summary: "not logged in", Suggestion: "run 'yoop login'", Err: errors.New("no saved session")})

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "[ERROR] not logged in: no saved session")
	assert.Contains(t, errOut.String(), "Suggestion: run 'yoop login'")
}

func TestPrinter_PlainLines(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinterTo(&out, &errOut, false)

	p.Success("logged in as %s", "anna")
	p.Info("polling")
	p.Warning("slow")
	p.Header("Matches")

	assert.Equal(t, "[OK] logged in as anna\npolling\n\nMatches\n-------\n", out.String())
	assert.Equal(t, "[WARN] slow\n", errOut.String())
	assert.Equal(t, "failed", p.Phase("failed"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestEncode(t *testing.T) {
	c := types.Candidate{ID: "p1", Name: "Alisa", Bio: "coffee"}

	var jbuf bytes.Buffer
	require.NoError(t, Encode(&jbuf, FormatJSON, c))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &decoded))
	assert.Equal(t, "coffee", decoded["describeUser"])

	var ybuf bytes.Buffer
	require.NoError(t, Encode(&ybuf, FormatYAML, c))
	assert.Contains(t, ybuf.String(), "bio: coffee")

	assert.Error(t, Encode(&ybuf, FormatTable, c))
}

func TestCandidatesTable(t *testing.T) {
	var buf bytes.Buffer
	err := Candidates(&buf, []types.Candidate{
		{ID: "seed-04", Name: "Alisa", SurName: "Orlova", Age: 22, City: "Kazan",
			Bio: "Frontend developer", Skills: types.Tags{"Vue", "React"}},
		{ID: "seed-09", Login: "ghost"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "seed-04")
	assert.Contains(t, out, "Alisa Orlova")
	assert.Contains(t, out, "Vue, React")
	assert.Contains(t, out, "ghost")
}

func TestRunsTable(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	err := Runs(&buf, []types.SearchRun{{
		ID: "4f1c2d3e-aaaa-bbbb", Query: "Frontend React", Phase: "succeeded",
		ResultCount: 3, Attempts: 2, StartedAt: start, FinishedAt: start.Add(1234 * time.Millisecond),
	}}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "4f1c2d3e")
	assert.NotContains(t, out, "aaaa")
	assert.Contains(t, out, "Frontend React")
	assert.Contains(t, out, "1.23s")
}

func TestProfileSkipsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profile(&buf, types.User{
		Candidate: types.Candidate{ID: "u1", Login: "anna", Name: "Anna", Age: 25},
	}))
	out := buf.String()
	assert.Contains(t, out, "anna")
	assert.NotContains(t, out, "contact")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "a b", Truncate("a\n  b", 10))
	assert.Equal(t, "привет", Truncate("привет", 6))
}
