// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/api"
	"github.com/pdiddy/yoop/internal/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a profile (default: your own)",
	Args:  cobra.MaximumNArgs(1),
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

		id := sess.UserID
		if len(args) == 1 {
			id = args[0]
		}
		u, err := client.User(ctx, id)
		if err != nil {
			return err
		}
		if format != output.FormatTable {
			return output.Encode(printer.Out(), format, u)
		}
		return output.Profile(printer.Out(), u)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change fields of your profile",
	Long: `Update fetches your current profile, applies the flags that were given
and sends the whole profile back. Tag flags replace the existing list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		st, client, sess, err := authedClient(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := client.User(ctx, sess.UserID)
		if err != nil {
			return err
		}
		p := api.UpdatePayloadFrom(u)

		f := cmd.Flags()
		strFields := map[string]*string{
			"name":        &p.Name,
			"surname":     &p.SurName,
			"father-name": &p.FatherName,
			"gender":      &p.Gender,
			"city":        &p.City,
			"contact":     &p.Contact,
			"about":       &p.DescribeUser,
			"photo":       &p.PhotoHash,
		}
		for flag, dst := range strFields {
			if f.Changed(flag) {
				*dst, _ = f.GetString(flag)
			}
		}
		if f.Changed("age") {
			p.Age, _ = f.GetInt("age")
		}
		tagFields := map[string]*[]string{
			"skills":    &p.Skills,
			"interests": &p.Interests,
			"hobbies":   &p.Hobbies,
		}
		for flag, dst := range tagFields {
			if f.Changed(flag) {
				*dst, _ = f.GetStringSlice(flag)
			}
		}

		updated, err := client.UpdateUser(ctx, p)
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			return &output.CLIError{Summary: "invalid profile", ExitCode: output.ExitUsage, Err: err}
		}
		if err != nil {
			return err
		}
		printer.Success("profile updated")
		return output.Profile(printer.Out(), updated)
	},
}

func init() {
	profileShowCmd.Flags().String("format", "table", "output format: table, json or yaml")
	profileShowCmd.Flags().Bool("json", false, "shorthand for --format json")

	f := profileUpdateCmd.Flags()
	f.String("name", "", "first name")
	f.String("surname", "", "last name")
	f.String("father-name", "", "patronymic")
	f.Int("age", 0, "age in years (14-120)")
	f.String("gender", "", "gender")
	f.String("city", "", "city")
	f.String("contact", "", "how matches can reach you")
	f.String("about", "", "free-text self description")
	f.String("photo", "", "photo hash")
	f.StringSlice("skills", nil, "comma-separated skills")
	f.StringSlice("interests", nil, "comma-separated interests")
	f.StringSlice("hobbies", nil, "comma-separated hobbies")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
