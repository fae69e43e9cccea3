// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/api"
	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/internal/secrets"
	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/internal/store"
)

// --- register ---

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Register creates a backend account from the profile flags and saves the
returned session locally. The password comes from --password, the
yoop-password secret, or a prompt.`,
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	f := cmd.Flags()
	prompt := newPrompter(cmd)

	login, err := prompt.flagOrPrompt("login", secrets.Login, "login")
	if err != nil {
		return err
	}
	password, err := prompt.flagOrPrompt("password", secrets.Password, "password")
	if err != nil {
		return err
	}

	p := api.RegisterPayload{Login: login, Password: password, PasswordConfirm: password}
	p.Name, _ = f.GetString("name")
	p.SurName, _ = f.GetString("surname")
	p.FatherName, _ = f.GetString("father-name")
	p.Age, _ = f.GetInt("age")
	p.Gender, _ = f.GetString("gender")
	p.City, _ = f.GetString("city")
	p.Contact, _ = f.GetString("contact")
	if f.Changed("about") {
		about, _ := f.GetString("about")
		p.DescribeUser = &about
	}
	if f.Changed("skills") {
		skills, _ := f.GetStringSlice("skills")
		joined := strings.Join(skills, ", ")
		p.Skills = &joined
	}

	res, err := newClient().Register(ctx, p)
	var ve *api.ValidationError
	switch {
	case errors.As(err, &ve):
		return &output.CLIError{Summary: "invalid registration", ExitCode: output.ExitUsage, Err: err}
	case errors.Is(err, api.ErrLoginTaken):
		return &output.CLIError{Summary: "registration failed", Suggestion: "choose another --login", ExitCode: output.ExitUsage, Err: err}
	case err != nil:
		return err
	}

	sess, err := saveSession(cmd, login, res)
	if err != nil {
		return err
	}
	printer.Success("registered and logged in as %s (%s)", sess.Login, sess.UserID)
	return nil
}

// --- login / logout ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session locally",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	prompt := newPrompter(cmd)
	login, err := prompt.flagOrPrompt("login", secrets.Login, "login")
	if err != nil {
		return err
	}
	password, err := prompt.flagOrPrompt("password", secrets.Password, "password")
	if err != nil {
		return err
	}

	res, err := newClient().Login(ctx, api.LoginPayload{Login: login, Password: password})
	if errors.Is(err, api.ErrBadCredentials) {
		return &output.CLIError{Summary: "login failed", ExitCode: output.ExitAuth, Err: err}
	}
	if err != nil {
		return err
	}

	sess, err := saveSession(cmd, login, res)
	if err != nil {
		return err
	}
	printer.Success("logged in as %s (%s)", sess.Login, sess.UserID)
	return nil
}

func saveSession(cmd *cobra.Command, login string, res api.AuthResult) (session.Session, error) {
	sess, err := session.FromToken(login, res.Token, res.UserID)
	if err != nil {
		return session.Session{}, fmt.Errorf("reading token: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return session.Session{}, err
	}
	defer st.Close()
	if err := st.SaveSession(commandContext(cmd), sess); err != nil {
		return session.Session{}, err
	}
	logger.Debug().Str("user_id", sess.UserID).Time("expires_at", sess.ExpiresAt).Msg("session saved")
	return sess, nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.ClearSession(commandContext(cmd)); err != nil {
			return err
		}
		printer.Success("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := st.LoadSession(ctx)
		if errors.Is(err, store.ErrNoSession) {
			return errNotLoggedIn
		}
		if err != nil {
			return err
		}

		printer.Print("login:   %s", sess.Login)
		printer.Print("user id: %s", sess.UserID)
		printer.Print("backend: %s", cfg.BaseURL)
		if !sess.ExpiresAt.IsZero() {
			state := "valid"
			if !sess.Authenticated() {
				state = "expired"
			}
			printer.Print("expires: %s (%s)", sess.ExpiresAt.Local().Format("2006-01-02 15:04"), state)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().String("login", "", "account login (default: yoop-login secret or prompt)")
		c.Flags().String("password", "", "password (default: yoop-password secret or prompt)")
	}

	f := registerCmd.Flags()
	f.String("name", "", "first name")
	f.String("surname", "", "last name")
	f.String("father-name", "", "patronymic")
	f.Int("age", 0, "age in years (14-120)")
	f.String("gender", "", "male, female or helicopter")
	f.String("city", "", "city")
	f.String("contact", "", "how matches can reach you")
	f.String("about", "", "free-text self description")
	f.StringSlice("skills", nil, "comma-separated skills")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
