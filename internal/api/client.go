// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api is the HTTP client for the yoop backend: accounts, profiles,
// search requests, recommendations and the like/match graph.
//
// Every call sends and expects JSON. Non-2xx responses surface as
// *StatusError carrying the status code and the response body text.
package api

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/yoop/internal/httputil"
	"github.com/pdiddy/yoop/pkg/types"
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if body == "" {
		body = "request failed"
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, body)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client talks to one backend. The zero value is not usable; build it with
// New. A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	http       *http.Client
	userAgent  string
	token      string
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// New builds a client from the shared HTTP settings.
func New(cfg types.HTTPConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSessionToken returns a copy of c that authenticates with token.
func (c *Client) WithSessionToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends in as the JSON body (nil for none) and decodes the response into
// out (nil to discard). An empty 2xx body leaves out untouched. When out is
// a *string or an encoding.TextUnmarshaler the body may also be bare text,
// as login and register return the token that way.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return decodeBody(data, out)
}

func decodeBody(data []byte, out any) error {
	if out == nil {
		return nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(data, s); err != nil {
			*s = strings.Trim(string(data), `"`)
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		if tu, ok := out.(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText(data)
		}
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func userPath(id string, suffix ...string) string {
	p := "/user/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
