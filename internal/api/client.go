// Package api implements the request/response gateways over the vendor's
// REST backend: transport, account, frame and asset endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/auragophers/aurago/internal/common"
	"github.com/auragophers/aurago/internal/logging"
)

const userAgent = "aurago/1.0"

// Client is the HTTP transport shared by all gateways. Auth headers are
// set once after login and sent on every subsequent request. The
// underlying http.Client pools connections, so a single Client may be
// shared by concurrent sagas.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger

	mu        sync.RWMutex
	authToken string
	userID    string
}

// NewClient builds a transport for the given base URL, e.g.
// "https://api.pushd.com/v5/".
func NewClient(baseURL string, log logging.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}, nil
}

// SetAuth stores the auth token and user id sent as headers on every
// request. Called once by the account gateway after a successful login.
func (c *Client) SetAuth(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
	c.userID = userID
}

// AuthToken returns the currently stored auth token, if any.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// HTTPClient exposes the underlying pooled client for plain downloads
// (asset export) that bypass the JSON envelope.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Get issues a GET request against path with optional query parameters
// and unmarshals the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	if c.authToken != "" {
		req.Header.Set(common.AuthTokenHeaderName, c.authToken)
		req.Header.Set(common.UserIDHeaderName, c.userID)
	}
	c.mu.RUnlock()

	c.log.Debug(ctx, "api request", "method", method, "url", u.String(), "body", redactedBody(encoded))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// redactedBody renders a request body for debug logging with sensitive
// fields masked. Non-object bodies are logged as-is.
func redactedBody(encoded []byte) string {
	if len(encoded) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(encoded, &m); err != nil {
		return string(encoded)
	}
	redacted, err := json.Marshal(RedactSensitive(m))
	if err != nil {
		return "[unloggable]"
	}
	return string(redacted)
}

// RedactSensitive returns a copy of m with password fields, at any
// nesting depth, replaced by "[REDACTED]". The input is not mutated.
func RedactSensitive(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == "password" {
			out[k] = "[REDACTED]"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = RedactSensitive(nested)
			continue
		}
		out[k] = v
	}
	return out
}
