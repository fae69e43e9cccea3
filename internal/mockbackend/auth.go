// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mockbackend

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pdiddy/yoop/pkg/types"
)

const ctxUserID = "user_id"

type tokenClaims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(userID, login string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "yoop-mock",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// requireToken rejects requests without a valid bearer token and stores
// the caller's user id in the echo context.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		var claims tokenClaims
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims,
			func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		s.mu.Lock()
		_, known := s.accounts[claims.Subject]
		s.mu.Unlock()
		if !known {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}

		c.Set(ctxUserID, claims.Subject)
		return next(c)
	}
}

func callerID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

type registerBody struct {
	Login        string  `json:"login"`
	Password     string  `json:"password"`
	PhotoHash    string  `json:"photoHash"`
	Name         string  `json:"name"`
	SurName      string  `json:"surName"`
	FatherName   string  `json:"fatherName"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	DescribeUser *string `json:"describeUser"`
	Skills       *string `json:"skills"`
	City         string  `json:"city"`
	Contact      string  `json:"contact"`
}

type loginBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// register answers 201 with the token as a JSON string, or 400 when the
// login is taken or missing.
func (s *Server) register(c echo.Context) error {
	var b registerBody
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	b.Login = strings.TrimSpace(b.Login)
	if b.Login == "" || b.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "login and password are required")
	}

	u := types.User{
		Candidate: types.Candidate{
			ID:         uuid.NewString(),
			Login:      b.Login,
			PhotoHash:  b.PhotoHash,
			Name:       b.Name,
			SurName:    b.SurName,
			FatherName: b.FatherName,
			Age:        b.Age,
			Gender:     b.Gender,
			City:       b.City,
		},
		Contact: b.Contact,
	}
	if b.DescribeUser != nil {
		u.Bio = *b.DescribeUser
	}
	if b.Skills != nil {
		u.Skills = splitTags(*b.Skills)
	}

	s.mu.Lock()
	if _, taken := s.logins[b.Login]; taken {
		s.mu.Unlock()
		return echo.NewHTTPError(http.StatusBadRequest, "login already exists")
	}
	s.addAccount(&account{user: u, password: b.Password})
	s.mu.Unlock()

	token, err := s.issueToken(u.ID, u.Login)
	if err != nil {
		return err
	}
	s.log.Debug().Str("user_id", u.ID).Str("login", u.Login).Msg("registered")
	return c.JSON(http.StatusCreated, token)
}

func (s *Server) login(c echo.Context) error {
	var b loginBody
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}

	s.mu.Lock()
	id, ok := s.logins[strings.TrimSpace(b.Login)]
	var a *account
	if ok {
		a = s.accounts[id]
	}
	s.mu.Unlock()

	if a == nil || a.password != b.Password {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login or password")
	}
	token, err := s.issueToken(a.user.ID, a.user.Login)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func splitTags(s string) types.Tags {
	var out types.Tags
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
