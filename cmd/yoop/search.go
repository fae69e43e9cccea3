// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/internal/search"
	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/internal/store"
	"github.com/pdiddy/yoop/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [prompt...]",
	Short: "Find people matching a free-text description",
	Long: `Search sends the prompt to the recommendation backend and waits for
matching profiles. With the poll strategy results are fetched every
poll interval until they arrive or the attempt limit is reached; the
single strategy asks once and accepts an empty answer.

With --interactive, prompts are read from stdin one per line. A new line
replaces the search still running. Ctrl-C cancels the running search.
Every finished search is recorded in the local history.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive && len(args) == 0 {
		return &output.CLIError{Summary: "a prompt is required", Suggestion: `yoop search "frontend React Moscow"`, ExitCode: output.ExitUsage}
	}

	searchCfg := cfg.Search
	if cmd.Flags().Changed("strategy") {
		name, _ := cmd.Flags().GetString("strategy")
		s, err := types.ParseStrategy(name)
		if err != nil {
			return &output.CLIError{Summary: "bad --strategy", ExitCode: output.ExitUsage, Err: err}
		}
		searchCfg.Strategy = s
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, client, sess, err := authedClient(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	o, err := search.New(client, searchCfg,
		search.WithLogger(logger),
		search.OnTransition(func(s search.State) {
			if format == output.FormatTable && s.Phase == search.Polling && s.Attempt > 0 {
				printer.Status("waiting for results (attempt %d)", s.Attempt)
			}
		}),
	)
	if err != nil {
		return err
	}
	defer o.Close()

	noHistory, _ := cmd.Flags().GetBool("no-history")
	var hist *store.Store
	if !noHistory {
		hist = st
	}

	if interactive {
		return searchInteractive(ctx, cmd, o, sess, hist, format)
	}

	run, err := o.Submit(ctx, strings.Join(args, " "), sess)
	if err != nil {
		return submitError(err)
	}
	if format == output.FormatTable {
		printer.Status("searching for %q (%s)", run.Query, run.Strategy)
	}

	// The run stops on its own when ctx ends, so wait without a deadline.
	state, waitErr := run.Wait(context.Background())
	record(ctx, hist, run, state, waitErr)
	return reportRun(state, waitErr, format)
}

func searchInteractive(ctx context.Context, cmd *cobra.Command, o *search.Orchestrator, sess session.Session, hist *store.Store, format output.Format) error {
	printer.Status("describe who you are looking for, one search per line (Ctrl-D to finish)")

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		wg    sync.WaitGroup
		outMu sync.Mutex
	)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			run, err := o.Submit(ctx, line, sess)
			switch {
			case errors.Is(err, search.ErrEmptyQuery):
				continue
			case errors.Is(err, search.ErrUnauthenticated):
				return submitError(err)
			case err != nil:
				printer.Warning("%v", err)
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				state, waitErr := run.Wait(context.Background())
				record(ctx, hist, run, state, waitErr)

				outMu.Lock()
				defer outMu.Unlock()
				if errors.Is(waitErr, search.ErrCancelled) {
					logger.Debug().Str("run_id", run.ID).Msg("superseded")
					return
				}
				if err := reportRun(state, waitErr, format); err != nil {
					printer.Error(err)
				}
			}()
		}
	}
}

// record stores the outcome of run; failures only get logged.
func record(ctx context.Context, hist *store.Store, run *search.Run, state search.State, waitErr error) {
	if hist == nil {
		return
	}
	rec := run.Record(state, waitErr, time.Now())
	if err := hist.RecordRun(context.WithoutCancel(ctx), rec, state.Results); err != nil {
		logger.Warn().Err(err).Str("run_id", run.ID).Msg("could not record search")
	}
}

func reportRun(state search.State, waitErr error, format output.Format) error {
	if errors.Is(waitErr, search.ErrCancelled) {
		return &output.CLIError{Summary: "search cancelled", ExitCode: output.ExitGeneral}
	}
	if waitErr != nil {
		return waitErr
	}

	if state.Phase == search.Failed {
		if errors.Is(state.Err, search.ErrTimeout) {
			return &output.CLIError{
				Summary:    fmt.Sprintf("no results for %q after %d attempts", state.Query, state.Attempt),
				Suggestion: "try again later or with --strategy single",
				ExitCode:   output.ExitTimeout,
				Err:        state.Err,
			}
		}
		var ne *search.NetworkError
		if errors.As(state.Err, &ne) && ne.StatusCode == 401 {
			return &output.CLIError{Summary: "backend rejected the session", Suggestion: "run 'yoop login' again", ExitCode: output.ExitAuth, Err: state.Err}
		}
		return fmt.Errorf("search %q failed: %w", state.Query, state.Err)
	}

	if format != output.FormatTable {
		return output.Encode(printer.Out(), format, state.Results)
	}
	if len(state.Results) == 0 {
		printer.Info("No one matches %q yet.", state.Query)
		return nil
	}
	printer.Header(fmt.Sprintf("%d result(s) for %q", len(state.Results), state.Query))
	return output.Candidates(printer.Out(), state.Results)
}

func submitError(err error) error {
	var tf *search.TooFrequentError
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return &output.CLIError{Summary: "the prompt is blank", ExitCode: output.ExitUsage}
	case errors.Is(err, search.ErrUnauthenticated):
		return errNotLoggedIn
	case errors.As(err, &tf):
		return &output.CLIError{Summary: tf.Error(), ExitCode: output.ExitUsage}
	default:
		return err
	}
}

func init() {
	f := searchCmd.Flags()
	f.String("strategy", "", "result strategy: poll or single (default from config)")
	f.String("format", "table", "output format: table, json or yaml")
	f.Bool("json", false, "shorthand for --format json")
	f.BoolP("interactive", "i", false, "read prompts from stdin, one search per line")
	f.Bool("no-history", false, "do not record searches in the local history")

	rootCmd.AddCommand(searchCmd)
}
