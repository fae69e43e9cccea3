// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/api"
	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/internal/store"
)

var errNotLoggedIn = &output.CLIError{
	Summary:    "not logged in",
	Suggestion: "run 'yoop login' or 'yoop register'",
	ExitCode:   output.ExitAuth,
}

func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.StoreConfig)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	return st, nil
}

func newClient() *api.Client {
	return api.New(cfg.HTTPConfig)
}

// currentSession loads the saved session and rejects a missing or expired
// one.
func currentSession(ctx context.Context, st *store.Store) (session.Session, error) {
	sess, err := st.LoadSession(ctx)
	if errors.Is(err, store.ErrNoSession) {
		return session.Session{}, errNotLoggedIn
	}
	if err != nil {
		return session.Session{}, err
	}
	if !sess.Authenticated() {
		return session.Session{}, &output.CLIError{
			Summary:    "session expired",
			Suggestion: "run 'yoop login' again",
			ExitCode:   output.ExitAuth,
		}
	}
	return sess, nil
}

// authedClient opens the store, loads the session and returns a client
// that sends its token. The caller closes the store.
func authedClient(ctx context.Context) (*store.Store, *api.Client, session.Session, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, session.Session{}, err
	}
	sess, err := currentSession(ctx, st)
	if err != nil {
		st.Close()
		return nil, nil, session.Session{}, err
	}
	return st, newClient().WithSessionToken(sess.Token), sess, nil
}

// prompter reads answers from one command's stdin. It owns a single
// buffered reader so lines after the first answer are not lost.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

// flagOrPrompt returns the flag value, then the secret, then a line read
// from stdin.
func (p *prompter) flagOrPrompt(flag, secretKey, prompt string) (string, error) {
	if v, _ := p.cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}
	if secretKey != "" {
		if v := loadedSecrets.Get(secretKey, ""); v != "" {
			return v, nil
		}
	}
	fmt.Fprintf(p.cmd.ErrOrStderr(), "%s: ", prompt)
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", flag, err)
		}
		return "", fmt.Errorf("%s is required", flag)
	}
	return line, nil
}

func formatFlag(cmd *cobra.Command) (output.Format, error) {
	f, _ := cmd.Flags().GetString("format")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		f = string(output.FormatJSON)
	}
	format, err := output.ParseFormat(f)
	if err != nil {
		return "", &output.CLIError{Summary: "bad --format", ExitCode: output.ExitUsage, Err: err}
	}
	return format, nil
}
