// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mockbackend is an in-memory yoop backend for local development
// and tests. It serves the same REST routes as the real service: accounts
// with HS256 tokens, profiles, search requests whose recommendations
// become ready after a configurable number of polls, and the like graph.
package mockbackend

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/yoop/pkg/types"
)

// Config tunes the mock.
type Config struct {
	// Secret signs issued tokens. Empty uses a fixed development key.
	Secret string

	// TokenTTL is the lifetime of issued tokens. Zero means 24h.
	TokenTTL time.Duration

	// ReadyAfter is how many recommendation polls of a request answer
	// with an empty list before the results appear.
	ReadyAfter int

	// FallbackSize is how many profiles a search returns when no profile
	// matches any query term. Zero means 3; negative disables the fallback.
	FallbackSize int

	// NoSeed starts with no accounts instead of the demo profiles.
	NoSeed bool

	Logger zerolog.Logger
}

const (
	devSecret       = "yoop-mock-secret"
	defaultTokenTTL = 24 * time.Hour
	defaultFallback = 3
	shutdownTimeout = 5 * time.Second
)

type account struct {
	user     types.User
	password string
}

type searchRequest struct {
	id      string
	actorID string
	label   string
	text    string
	polls   int
	results []types.Candidate
}

// Server is the mock backend. It is safe for concurrent use.
type Server struct {
	cfg  Config
	echo *echo.Echo
	log  zerolog.Logger

	mu       sync.Mutex
	accounts map[string]*account // by user id
	logins   map[string]string   // login -> user id
	requests map[string]*searchRequest
	likes    map[string]map[string]bool
	dislikes map[string]map[string]bool
}

// New builds a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Secret == "" {
		cfg.Secret = devSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.FallbackSize == 0 {
		cfg.FallbackSize = defaultFallback
	}

	s := &Server{
		cfg:      cfg,
		log:      cfg.Logger,
		accounts: make(map[string]*account),
		logins:   make(map[string]string),
		requests: make(map[string]*searchRequest),
		likes:    make(map[string]map[string]bool),
		dislikes: make(map[string]map[string]bool),
	}
	if !cfg.NoSeed {
		for _, a := range seedAccounts() {
			s.addAccount(a)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Info()
			if v.Error != nil {
				ev = s.log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	auth := s.requireToken
	e.POST("/user/register", s.register)
	e.POST("/user/login", s.login)
	e.GET("/user/:id", s.getUser, auth)
	e.PUT("/user/update", s.updateUser, auth)
	e.POST("/user/request/create", s.createRequest, auth)
	e.GET("/result/getUserRecommendations/:id", s.recommendations, auth)
	e.POST("/result/getUserRecommendations", s.fetchResults, auth)
	e.POST("/user/:id/like", s.react(true), auth)
	e.POST("/user/:id/dislike", s.react(false), auth)
	e.GET("/user/:id/getLiked", s.liked, auth)
	e.GET("/user/:id/hasLiked", s.likedBy, auth)
	e.GET("/user/:id/getMatches", s.matches, auth)

	s.echo = e
	return s
}

// Handler returns the HTTP handler, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.echo }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", addr).Int("accounts", s.accountCount()).Msg("mock backend listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) accountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// addAccount must be called with s.mu held or before the server starts.
func (s *Server) addAccount(a *account) {
	s.accounts[a.user.ID] = a
	s.logins[a.user.Login] = a.user.ID
}
