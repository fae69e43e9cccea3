// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/pkg/types"
)

func reactCmd(use, short string, like bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			st, client, sess, err := authedClient(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if like {
				err = client.Like(ctx, sess.UserID, args[0])
			} else {
				err = client.Dislike(ctx, sess.UserID, args[0])
			}
			if err != nil {
				return err
			}
			printer.Success("%sd %s", use, args[0])
			return nil
		},
	}
}

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "Show who you liked, who liked you and your matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		st, client, sess, err := authedClient(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		summary, err := client.LikeSummary(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if format != output.FormatTable {
			return output.Encode(printer.Out(), format, summary)
		}

		sections := []struct {
			title string
			list  []types.Candidate
		}{
			{"You liked", summary.Liked},
			{"Liked you", summary.LikedBy},
			{"Matches", summary.Matches},
		}
		for _, s := range sections {
			printer.Header(s.title)
			if len(s.list) == 0 {
				printer.Print("nobody yet")
				continue
			}
			if err := output.Candidates(printer.Out(), s.list); err != nil {
				return err
			}
		}
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List mutual likes with contact details",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		st, client, sess, err := authedClient(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		matches, err := client.Matches(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if format != output.FormatTable {
			return output.Encode(printer.Out(), format, matches)
		}
		if len(matches) == 0 {
			printer.Info("No matches yet.")
			return nil
		}

		// Matches list only public fields; contacts come from the profile.
		t := output.NewTable(printer.Out(), "ID", "Name", "City", "Contact")
		for _, m := range matches {
			contact := ""
			if u, err := client.User(ctx, m.ID); err == nil {
				contact = u.Contact
			} else {
				logger.Debug().Err(err).Str("user_id", m.ID).Msg("profile lookup failed")
			}
			t.AddRow(m.ID, m.FullName(), m.City, contact)
		}
		return t.Render()
	},
}

func init() {
	for _, c := range []*cobra.Command{likesCmd, matchesCmd} {
		c.Flags().String("format", "table", "output format: table, json or yaml")
		c.Flags().Bool("json", false, "shorthand for --format json")
	}

	rootCmd.AddCommand(
		reactCmd("like", "Like a profile", true),
		reactCmd("dislike", "Pass on a profile", false),
		likesCmd,
		matchesCmd,
	)
}
