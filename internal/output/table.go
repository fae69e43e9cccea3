// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/yoop/pkg/types"
)

// Format is a machine-readable output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be table, json or yaml", s)
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode documents", f)
	}
}

// Table renders rows without borders.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers ...string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	return &Table{table: table, header: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}

const bioWidth = 48

// Candidates writes a candidate list as a table.
func Candidates(w io.Writer, list []types.Candidate) error {
	t := NewTable(w, "ID", "Name", "Age", "City", "Tags", "About")
	for _, c := range list {
		age := ""
		if c.Age > 0 {
			age = strconv.Itoa(c.Age)
		}
		t.AddRow(c.ID, c.FullName(), age, c.City, strings.Join(c.AllTags(), ", "), Truncate(c.Bio, bioWidth))
	}
	return t.Render()
}

// Profile writes one user as key/value lines.
func Profile(w io.Writer, u types.User) error {
	t := NewTable(w, "Field", "Value")
	rows := [][2]string{
		{"id", u.ID},
		{"login", u.Login},
		{"name", strings.TrimSpace(strings.Join([]string{u.SurName, u.Name, u.FatherName}, " "))},
		{"age", strconv.Itoa(u.Age)},
		{"gender", u.Gender},
		{"city", u.City},
		{"contact", u.Contact},
		{"about", u.Bio},
		{"skills", strings.Join(u.Skills, ", ")},
		{"interests", strings.Join(u.Interests, ", ")},
		{"hobbies", strings.Join(u.Hobbies, ", ")},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		t.AddRow(r[0], r[1])
	}
	return t.Render()
}

// Runs writes search history rows. phase colors the phase column; pass
// nil for plain text.
func Runs(w io.Writer, runs []types.SearchRun, phase func(string) string) error {
	if phase == nil {
		phase = func(s string) string { return s }
	}
	t := NewTable(w, "Run", "Started", "Query", "Phase", "Results", "Attempts", "Took")
	for _, r := range runs {
		t.AddRow(
			ShortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			Truncate(r.Query, 40),
			phase(r.Phase),
			strconv.Itoa(r.ResultCount),
			strconv.Itoa(r.Attempts),
			r.Duration().Round(10*time.Millisecond).String(),
		)
	}
	return t.Render()
}

// ShortID returns the first eight characters of a run id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
