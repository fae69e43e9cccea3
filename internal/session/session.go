// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the authenticated identity of the CLI user. A
// Session is a plain value owned by the caller and handed to whatever needs
// it; nothing in yoop keeps it in a global.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoUserID is returned when a token carries no recognizable user id.
var ErrNoUserID = errors.New("token has no user id claim")

// userIDClaims lists the claim names that carry the user id, in order of
// preference. The last one is what ASP.NET-style backends emit.
var userIDClaims = []string{
	"userId",
	"sub",
	"nameid",
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier",
}

// Session is the identity a request acts as.
type Session struct {
	UserID    string    `json:"user_id" yaml:"user_id"`
	Login     string    `json:"login" yaml:"login"`
	Token     string    `json:"-" yaml:"-"`
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Authenticated reports whether s identifies a user and has not expired.
func (s Session) Authenticated() bool {
	return s.AuthenticatedAt(time.Now())
}

// AuthenticatedAt is Authenticated evaluated at now.
func (s Session) AuthenticatedAt(now time.Time) bool {
	if strings.TrimSpace(s.UserID) == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// FromToken builds a session from a backend JWT. The signature is not
// verified: the client cannot check it and only needs the claims to know
// who it is. When userID is non-empty (the backend sent it alongside the
// token) it wins over the claims.
func FromToken(login, token, userID string) (Session, error) {
	token = strings.Trim(strings.TrimSpace(token), `"`)
	if token == "" {
		return Session{}, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("parsing token: %w", err)
	}

	s := Session{Login: login, Token: token, UserID: strings.TrimSpace(userID)}
	if s.UserID == "" {
		s.UserID = claimString(claims, userIDClaims...)
	}
	if s.UserID == "" {
		return Session{}, ErrNoUserID
	}
	if s.Login == "" {
		s.Login = claimString(claims, "login", "unique_name", "name")
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}
	return s, nil
}

func claimString(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		switch v := claims[name].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
