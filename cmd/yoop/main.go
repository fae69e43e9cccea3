// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the yoop CLI: account and profile
// management, people search against the recommendation backend, the
// like graph, and the local search history.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/yoop/internal/output"
	"github.com/pdiddy/yoop/internal/secrets"
	"github.com/pdiddy/yoop/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, valid once PersistentPreRunE ran.
	cfg types.Config

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	logger  = zerolog.Nop()
	printer = output.NewPrinter(false)
)

const secretsDir = ".secrets/"

var rootCmd = &cobra.Command{
	Use:   "yoop",
	Short: "Find people by skills and interests from the terminal",
	Long: `yoop talks to the yoop recommendation backend: register or log in,
describe who you are looking for in plain words, and get matching
profiles back. Likes and mutual matches are managed from here too.

Every search is recorded in a local SQLite history that can be listed,
searched and exported. For local development, "yoop mock-backend" serves
an in-memory backend with demo profiles.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		printer = output.NewPrinter(!noColor)

		var err error
		logger, err = newLogger(viper.GetString("log_level"))
		if err != nil {
			return &output.CLIError{Summary: "invalid log level", ExitCode: output.ExitUsage, Err: err}
		}

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}

		cfg, err = loadConfig()
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./yoop.yaml or ~/.config/yoop/yoop.yaml)")
	pf.String("log-level", types.DefaultLogLevel, "log level: trace, debug, info, warn, error")
	pf.String("base-url", "", "backend base URL (default: "+types.DefaultBaseURL+")")
	pf.String("data-dir", "", "directory of the local database (default: "+types.DefaultDataDir+")")
	pf.Bool("no-color", false, "disable colored output")

	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("base_url", pf.Lookup("base-url"))
	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("yoop")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "yoop"))
		}
	}

	viper.SetEnvPrefix("YOOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("timeout", types.DefaultTimeout)
	viper.SetDefault("user_agent", "yoop/"+version)
	viper.SetDefault("max_retries", types.DefaultMaxRetries)
	viper.SetDefault("search.strategy", string(types.StrategyPoll))
	viper.SetDefault("search.cooldown", types.DefaultCooldown)
	viper.SetDefault("search.poll_interval", types.DefaultPollInterval)
	viper.SetDefault("search.max_attempts", types.DefaultMaxAttempts)
	viper.SetDefault("search.timeout", time.Duration(0))
	viper.SetDefault("search.label", "")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves flags, environment, config file and secrets into
// a Config. The base URL falls back to the yoop-base-url secret before
// the built-in default.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, &output.CLIError{Summary: "invalid configuration", ExitCode: output.ExitUsage, Err: err}
	}
	if c.BaseURL == "" {
		c.BaseURL = loadedSecrets.Get(secrets.BaseURL, "")
	}
	c = c.WithDefaults()
	if _, err := types.ParseStrategy(string(c.Search.Strategy)); err != nil {
		return types.Config{}, &output.CLIError{Summary: "invalid configuration", ExitCode: output.ExitUsage, Err: err}
	}
	logger.Debug().
		Str("base_url", c.BaseURL).
		Str("data_dir", c.DataDir).
		Str("strategy", string(c.Search.Strategy)).
		Msg("configuration loaded")
	return c, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen, NoColor: !isTerminal(os.Stderr)}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// commandContext returns a context carrying the logger, for the HTTP
// retry helper.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printer.Error(err)
		os.Exit(output.ExitCode(err))
	}
}
