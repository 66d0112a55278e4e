package atproto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SessionInfo is the authenticated state returned by the session
// endpoints and attached to the client.
type SessionInfo struct {
	DID        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJWT  string `json:"accessJwt"`
	RefreshJWT string `json:"refreshJwt"`
}

// Client is an XRPC client bound to one service origin.
//
// A client carries at most one attached session. It is not safe for
// concurrent use; command-level parallelism is serialized by callers.
type Client struct {
	service string
	http    *http.Client
	session *SessionInfo
	proxy   string // atproto-proxy target, "" for the PDS itself
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates an XRPC client for the given service origin.
func NewClient(service string, opts ...Option) *Client {
	base := strings.TrimSuffix(service, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	c := &Client{
		service: base,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the service origin the client is bound to.
func (c *Client) Service() string {
	return c.service
}

// Proxied returns a view of the client that routes calls through the
// given service proxy (e.g. the chat appview). The view shares the
// underlying transport and attached session.
func (c *Client) Proxied(target string) *Client {
	view := *c
	view.proxy = target
	return &view
}

// HasSession reports whether an authenticated session is attached.
func (c *Client) HasSession() bool {
	return c.session != nil
}

// Session returns the attached session, or nil.
func (c *Client) Session() *SessionInfo {
	return c.session
}

// AttachSession attaches stored credentials without any remote call.
func (c *Client) AttachSession(s *SessionInfo) {
	c.session = s
}

// DetachSession drops the attached session.
func (c *Client) DetachSession() {
	c.session = nil
}

// CreateSession authenticates with an identifier/password pair and
// attaches the resulting session.
func (c *Client) CreateSession(ctx context.Context, identifier, password string) (*SessionInfo, error) {
	var out SessionInfo
	in := map[string]string{"identifier": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "com.atproto.server.createSession", nil, in, &out, ""); err != nil {
		return nil, err
	}
	c.session = &out
	return &out, nil
}

// GetSession probes the attached session against the server. It is the
// lightweight validity check used by resume and validate.
func (c *Client) GetSession(ctx context.Context) (*SessionInfo, error) {
	if c.session == nil {
		return nil, fmt.Errorf("no session attached")
	}
	var out struct {
		DID    string `json:"did"`
		Handle string `json:"handle"`
	}
	if err := c.do(ctx, http.MethodGet, "com.atproto.server.getSession", nil, nil, &out, c.session.AccessJWT); err != nil {
		return nil, err
	}
	// Handle may have changed since the session was stored.
	c.session.DID = out.DID
	c.session.Handle = out.Handle
	return c.session, nil
}

// RefreshSession exchanges the refresh credential for a new token pair
// and attaches it.
func (c *Client) RefreshSession(ctx context.Context) (*SessionInfo, error) {
	if c.session == nil {
		return nil, fmt.Errorf("no session attached")
	}
	var out SessionInfo
	if err := c.do(ctx, http.MethodPost, "com.atproto.server.refreshSession", nil, nil, &out, c.session.RefreshJWT); err != nil {
		return nil, err
	}
	c.session = &out
	return &out, nil
}

// ResumeSession re-establishes the attached session from stored
// credentials: a validity probe, with one token refresh when the
// access credential has expired. Rejection is returned to the caller
// untouched; deciding what to do with it is the lifecycle manager's job.
func (c *Client) ResumeSession(ctx context.Context, s *SessionInfo) (*SessionInfo, error) {
	c.session = s
	if _, err := c.GetSession(ctx); err != nil {
		apiErr, ok := AsAPIError(err)
		if !ok || !apiErr.IsExpiredToken() {
			return nil, err
		}
		if _, err := c.RefreshSession(ctx); err != nil {
			return nil, err
		}
		if _, err := c.GetSession(ctx); err != nil {
			return nil, err
		}
	}
	return c.session, nil
}

// DeleteSession invalidates the session server-side. The local session
// stays attached; callers detach explicitly.
func (c *Client) DeleteSession(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	return c.do(ctx, http.MethodPost, "com.atproto.server.deleteSession", nil, nil, nil, c.session.RefreshJWT)
}

// Query performs an authenticated GET against the given method.
func (c *Client) Query(ctx context.Context, method string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, method, params, nil, out, c.accessToken())
}

// Procedure performs an authenticated POST with a JSON body.
func (c *Client) Procedure(ctx context.Context, method string, input, out any) error {
	return c.do(ctx, http.MethodPost, method, nil, input, out, c.accessToken())
}

func (c *Client) accessToken() string {
	if c.session == nil {
		return ""
	}
	return c.session.AccessJWT
}

func (c *Client) do(ctx context.Context, httpMethod, method string, params url.Values, input, out any, token string) error {
	endpoint := c.service + "/xrpc/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if input != nil {
		data, err := json.Marshal(input)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if input != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.proxy != "" {
		req.Header.Set("Atproto-Proxy", c.proxy)
	}
	req.Header.Set("User-Agent", "skycli/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// parseAPIError converts a non-2xx response into an *APIError.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var wire struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err == nil {
		apiErr.ErrCode = wire.Error
		apiErr.Message = wire.Message
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
