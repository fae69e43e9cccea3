// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/internal/store"
	"github.com/pdiddy/yoop/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search and export past searches",
	Long: `History reads the local SQLite database of recorded searches and the
profiles they returned. Nothing here contacts the backend.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(commandContext(cmd), limit)
		if err != nil {
			return err
		}
		if format != output.FormatTable {
			if runs == nil {
				runs = []types.SearchRun{}
			}
			return output.Encode(printer.Out(), format, runs)
		}
		if len(runs) == 0 {
			printer.Info("No searches recorded yet.")
			return nil
		}
		return output.Runs(printer.Out(), runs, printer.Phase)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded search and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.Run(ctx, args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			return &output.CLIError{Summary: err.Error(), Suggestion: "see 'yoop history list'", ExitCode: output.ExitUsage}
		}
		if err != nil {
			return err
		}
		candidates, err := st.RunCandidates(ctx, run.ID)
		if err != nil {
			return err
		}
		if candidates == nil {
			candidates = []types.Candidate{}
		}

		if format != output.FormatTable {
			return output.Encode(printer.Out(), format, types.HistoryEntry{SearchRun: run, Candidates: candidates})
		}
		if err := output.Runs(printer.Out(), []types.SearchRun{run}, printer.Phase); err != nil {
			return err
		}
		if run.Error != "" {
			printer.Warning("%s", run.Error)
		}
		if len(candidates) > 0 {
			printer.Header("Results")
			return output.Candidates(printer.Out(), candidates)
		}
		return nil
	},
}

var historyFindCmd = &cobra.Command{
	Use:   "find <text...>",
	Short: "Full-text search over every profile seen in past searches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		found, err := st.FindCandidates(commandContext(cmd), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		if format != output.FormatTable {
			if found == nil {
				found = []types.Candidate{}
			}
			return output.Encode(printer.Out(), format, found)
		}
		if len(found) == 0 {
			printer.Info("No stored profiles match.")
			return nil
		}
		return output.Candidates(printer.Out(), found)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole history to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("output")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var w io.Writer = printer.Out()
		if path != "" && path != "-" {
			f, createErr := os.Create(path)
			if createErr != nil {
				return fmt.Errorf("creating %s: %w", path, createErr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}

		ctx := commandContext(cmd)
		switch format {
		case "yaml", "":
			err = st.ExportYAML(ctx, w)
		case "json":
			err = st.ExportJSON(ctx, w)
		default:
			return &output.CLIError{Summary: fmt.Sprintf("unsupported format %q: use yaml or json", format), ExitCode: output.ExitUsage}
		}
		if err != nil {
			return err
		}
		if path != "" && path != "-" {
			printer.Success("exported to %s", path)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyShowCmd, historyFindCmd} {
		c.Flags().String("format", "table", "output format: table, json or yaml")
		c.Flags().Bool("json", false, "shorthand for --format json")
	}
	historyListCmd.Flags().Int("limit", 20, "maximum number of searches")
	historyFindCmd.Flags().Int("limit", 20, "maximum number of profiles")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyFindCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
