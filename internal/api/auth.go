// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrBadCredentials is returned by Login when the backend rejects the
	// login/password pair.
	ErrBadCredentials = errors.New("invalid login or password")

	// ErrLoginTaken is returned by Register when the login already exists.
	ErrLoginTaken = errors.New("a user with this login already exists")
)

// RegisterPayload is the body of POST /user/register.
type RegisterPayload struct {
	Login           string  `json:"login" validate:"required,min=3,max=64"`
	Password        string  `json:"password" validate:"required,min=6"`
	PasswordConfirm string  `json:"-" validate:"eqfield=Password"`
	PhotoHash       string  `json:"photoHash"`
	Name            string  `json:"name" validate:"required"`
	SurName         string  `json:"surName" validate:"required"`
	FatherName      string  `json:"fatherName"`
	Age             int     `json:"age" validate:"min=14,max=120"`
	Gender          string  `json:"gender" validate:"oneof=male female helicopter"`
	DescribeUser    *string `json:"describeUser"`
	Skills          *string `json:"skills"`
	City            string  `json:"city" validate:"required"`
	Contact         string  `json:"contact"`
}

// LoginPayload is the body of POST /user/login.
type LoginPayload struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is what login and register hand back. Some backend builds
// answer with a bare (possibly quoted) JWT, others with
// {"token": ..., "userId": ...}.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId,omitempty"`
}

// UnmarshalJSON accepts a JSON string or an object.
func (a *AuthResult) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		*a = AuthResult{Token: strings.TrimSpace(token)}
		return nil
	}
	type plain AuthResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AuthResult(p)
	return nil
}

// UnmarshalText accepts a bare token.
func (a *AuthResult) UnmarshalText(text []byte) error {
	*a = AuthResult{Token: strings.Trim(strings.TrimSpace(string(text)), `"`)}
	return nil
}

// Register creates an account. The backend answers 201 with a token;
// 400 means the login is taken.
func (c *Client) Register(ctx context.Context, p RegisterPayload) (AuthResult, error) {
	if err := Validate(p); err != nil {
		return AuthResult{}, err
	}

	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/user/register", p, &res)
	switch {
	case IsStatus(err, http.StatusBadRequest):
		return AuthResult{}, ErrLoginTaken
	case err != nil:
		return AuthResult{}, err
	case res.Token == "":
		return AuthResult{}, fmt.Errorf("register: backend returned no token")
	}
	return res, nil
}

// Login exchanges credentials for a token. 400 and 401 map to
// ErrBadCredentials.
func (c *Client) Login(ctx context.Context, p LoginPayload) (AuthResult, error) {
	if err := Validate(p); err != nil {
		return AuthResult{}, err
	}

	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/user/login", p, &res)
	switch {
	case IsStatus(err, http.StatusBadRequest), IsStatus(err, http.StatusUnauthorized):
		return AuthResult{}, ErrBadCredentials
	case err != nil:
		return AuthResult{}, err
	case res.Token == "":
		return AuthResult{}, fmt.Errorf("login: backend returned no token")
	}
	return res, nil
}
