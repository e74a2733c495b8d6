// Package client talks to the voice-notes HTTP API.
//
// A Client holds only the base URL and transport. Credentials live on the
// Session returned by Register, Login or SessionFromToken, and every request
// made through a Session carries its own Authorization header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"voice-notes/internal/models"
)

const maxResponseBytes = 4 << 20

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("api: %d: %s", e.Status, strings.Join(parts, "; "))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates an account and returns a session for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/register", "", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &Session{client: c, token: resp.Token, user: resp.User}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &Session{client: c, token: resp.Token, user: resp.User}, nil
}

// SessionFromToken wraps a previously issued token. The token is not
// checked until the first request.
func (c *Client) SessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", "", nil, nil, &h)
	return h, err
}

// envelope is the union of every response shape the server produces.
type envelope struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// do sends one request. On 2xx the body is decoded into out. Envelope
// responses go through data when out is not an authResponse or Health.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}

	if out == nil {
		return nil
	}
	switch out.(type) {
	case *authResponse, *Health:
		return json.Unmarshal(raw, out)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
