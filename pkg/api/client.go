package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

// Client issues authenticated JSON requests against the finance API.
// Tokens live in the key-value store; a 401 triggers exactly one
// refresh-and-retry per request. When the refresh itself fails both
// tokens are cleared and ErrSessionExpired is returned.
type Client struct {
	baseURL string
	http    *http.Client
	store   storage.Store
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://localhost:8000/api").
func New(baseURL string, store storage.Store, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET with optional query parameters, decoding into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body, decoding into out when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body, decoding into out when non-nil.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Put issues a PUT with a JSON body, decoding into out when non-nil.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload, true)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && refreshable(path) {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(ctx); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, payload, true)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// refreshable reports whether a 401 on this path should trigger the
// refresh-and-retry cycle. Credential endpoints answer 401 for bad
// credentials, which no token refresh can fix.
func refreshable(path string) bool {
	switch path {
	case "/auth/login/", "/auth/register/", "/auth/token/refresh/":
		return false
	}
	return true
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, authed bool) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if authed {
		token, ok, err := c.store.Get(ctx, storage.KeyAccessToken)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
		if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// refresh exchanges the refresh token for a new access token. Failure is
// fatal to the session: both tokens are cleared.
func (c *Client) refresh(ctx context.Context) error {
	refresh, ok, err := c.store.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("read refresh token: %w", err)
	}
	if !ok || refresh == "" {
		c.clearTokens(ctx)
		return ErrSessionExpired
	}

	payload, _ := json.Marshal(map[string]string{"refresh": refresh})
	resp, err := c.send(ctx, http.MethodPost, "/auth/token/refresh/", payload, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("token refresh rejected", "status", resp.StatusCode)
		c.clearTokens(ctx)
		return ErrSessionExpired
	}

	var tokens struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &tokens); err != nil || tokens.Access == "" {
		c.clearTokens(ctx)
		return ErrSessionExpired
	}

	if err := c.store.Set(ctx, storage.KeyAccessToken, tokens.Access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	c.logger.Debug("access token refreshed")
	return nil
}

func (c *Client) clearTokens(ctx context.Context) {
	if err := c.store.Delete(ctx, storage.KeyAccessToken); err != nil {
		c.logger.Error("clear access token", "error", err)
	}
	if err := c.store.Delete(ctx, storage.KeyRefreshToken); err != nil {
		c.logger.Error("clear refresh token", "error", err)
	}
}
