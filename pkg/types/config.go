package types

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every backend call.
type HTTPConfig struct {
	// BaseURL is the backend root (e.g. "http://localhost:8080"). A trailing
	// slash is ignored.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "yoop/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Strategy selects how search results are obtained once a request exists.
type Strategy string

const (
	// StrategyPoll repeatedly fetches results until they are non-empty.
	StrategyPoll Strategy = "poll"
	// StrategySingle issues one synchronous fetch and accepts what it gets.
	StrategySingle Strategy = "single"
)

// ParseStrategy validates a strategy name. The empty string selects poll.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StrategyPoll:
		return StrategyPoll, nil
	case StrategySingle:
		return StrategySingle, nil
	default:
		return "", fmt.Errorf("unknown search strategy %q: use poll or single", s)
	}
}

// SearchConfig holds settings for the search orchestrator.
type SearchConfig struct {
	// Strategy is poll or single (default poll).
	Strategy Strategy `json:"strategy" yaml:"strategy" mapstructure:"strategy"`

	// Cooldown is the minimum interval between accepted submissions (default 1.5s).
	Cooldown time.Duration `json:"cooldown" yaml:"cooldown" mapstructure:"cooldown"`

	// PollInterval is the wait between poll attempts (default 1.2s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`

	// MaxAttempts is the number of poll attempts before giving up (default 12).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// Timeout bounds a whole poll by wall clock. Zero disables it.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Label is sent as the request name; the backend accepts "".
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// StoreConfig locates the local SQLite database.
type StoreConfig struct {
	// DataDir holds yoop.db (default ".yoop").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Config groups all client settings.
type Config struct {
	HTTPConfig  `yaml:",inline" mapstructure:",squash"`
	StoreConfig `yaml:",inline" mapstructure:",squash"`

	// LogLevel is a zerolog level name (default "info").
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
}

// Defaults used when the config file and environment leave a value unset.
const (
	DefaultBaseURL      = "http://localhost:8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultDataDir      = ".yoop"
	DefaultLogLevel     = "info"
	DefaultCooldown     = 1500 * time.Millisecond
	DefaultPollInterval = 1200 * time.Millisecond
	DefaultMaxAttempts  = 12
)

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Search.Strategy == "" {
		c.Search.Strategy = StrategyPoll
	}
	if c.Search.Cooldown <= 0 {
		c.Search.Cooldown = DefaultCooldown
	}
	if c.Search.PollInterval <= 0 {
		c.Search.PollInterval = DefaultPollInterval
	}
	if c.Search.MaxAttempts <= 0 {
		c.Search.MaxAttempts = DefaultMaxAttempts
	}
	return c
}
