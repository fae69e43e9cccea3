// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/yoop/internal/mockbackend"
	"github.com/pdiddy/yoop/internal/secrets"
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve an in-memory backend with demo profiles",
	Long: `Mock-backend serves the yoop REST API from memory for local development.
Demo accounts (sanya_dev, maria_code, ilya_ml, alisa, boris, vika) log in
with the password "` + mockbackend.SeedPassword + `". Search requests answer with an empty
list for --ready-after polls before their results appear.

Point the client at it with --base-url http://localhost:8080.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		addr, _ := f.GetString("addr")
		readyAfter, _ := f.GetInt("ready-after")
		fallback, _ := f.GetInt("fallback")
		noSeed, _ := f.GetBool("no-seed")

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := mockbackend.New(mockbackend.Config{
			Secret:       loadedSecrets.Get(secrets.MockSecret, ""),
			ReadyAfter:   readyAfter,
			FallbackSize: fallback,
			NoSeed:       noSeed,
			Logger:       logger.With().Str("component", "mock-backend").Logger(),
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	f := mockBackendCmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.Int("ready-after", 2, "empty recommendation polls before results appear")
	f.Int("fallback", 3, "profiles returned when nothing matches (-1 for none)")
	f.Bool("no-seed", false, "start without demo accounts")

	rootCmd.AddCommand(mockBackendCmd)
}
