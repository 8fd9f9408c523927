// Package rest implements the authenticated request pipeline against the
// storefront backend: bearer credential attachment, the 401 refresh-and-retry
// protocol with single-flight coalescing, and the uniform response envelope.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// loginPath is exempt from the refresh protocol: a 401 from login means
	// wrong credentials, and refreshing would only mask that.
	loginPath = "/auth/login"

	// refreshPath is the token refresh endpoint. Called outside the normal
	// pipeline so a failing refresh can never recurse into another refresh.
	refreshPath = "/auth/refresh-token"

	// maxResponseBodySize caps response bodies read from the backend.
	// Prevents OOM from a misbehaving server sending unbounded responses.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
)

// TokenStore is the view of the session store the pipeline needs: read the
// current tokens, commit a refreshed access token, and clear everything when
// the refresh protocol fails terminally.
type TokenStore interface {
	Tokens() (accessToken, refreshToken string)
	SetAccessToken(accessToken string)
	Clear()
}

// Client is the HTTP client core. Every outbound call flows through it, so
// it is the single place where credentials are attached and the 401 refresh
// protocol runs.
//
// The refresh state machine has two states, idle and refreshing. Only one
// refresh call may be in flight at a time: a 401 observed while a refresh is
// already running waits for that refresh's outcome instead of issuing its
// own call. A second concurrent refresh with the same refresh token can race
// and get the whole session invalidated server-side.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenStore
	onExpired   func()
	expiresSoon func(accessToken string) bool
	logger      *slog.Logger
	metrics     *Metrics

	// Single-flight refresh: non-nil while state is "refreshing".
	refreshMu sync.Mutex
	inflight  *refreshAttempt
}

// refreshAttempt is the shared outcome all 401s observed during one refresh
// attach to. done is closed after token and err are set.
type refreshAttempt struct {
	done  chan struct{}
	token string
	err   error
}

// NewClient creates a client for the given backend base URL. The token
// store may be nil for a purely anonymous client (public read endpoints).
func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}

// Do performs a JSON request through the full pipeline. body is marshaled
// when non-nil; result, when non-nil, receives the decoded 2xx response
// body (callers pass an *Envelope[T]).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}
	return c.doRaw(ctx, method, path, query, "application/json", raw, result)
}

// doRaw runs the pipeline with a pre-encoded body. The body bytes are
// retained so the request can be resubmitted verbatim after a refresh.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, contentType string, raw []byte, result any) error {
	access := ""
	if c.tokens != nil {
		access, _ = c.tokens.Tokens()
	}

	// A token known to be at or past expiry is refreshed before the send,
	// saving the doomed request and its 401 round trip. The login path is
	// exempt here for the same reason it is exempt below.
	if access != "" && c.expiresSoon != nil && c.expiresSoon(access) && !strings.Contains(path, loginPath) {
		newToken, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		access = newToken
	}

	err := c.doOnce(ctx, method, path, query, contentType, raw, result, access)
	if err == nil {
		return nil
	}

	// Only an authenticated-endpoint 401 enters the refresh protocol.
	// The login endpoint propagates immediately (wrong password must not
	// look like an expired session), and so does everything non-401.
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || strings.Contains(path, loginPath) || c.tokens == nil {
		return err
	}

	newToken, refreshErr := c.refreshAccessToken(ctx)
	if refreshErr != nil {
		// The refresh failure, not the original 401, goes to the caller.
		return refreshErr
	}

	// Exactly one resubmission per original request. The retried call runs
	// outside the refresh protocol, so a second 401 propagates as-is.
	c.metrics.recordRetry()
	c.logger.Debug("retrying request with refreshed token", "method", method, "path", path)
	return c.doOnce(ctx, method, path, query, contentType, raw, result, newToken)
}

// doOnce sends a single HTTP request and decodes the response. It never
// refreshes; 401 surfaces as *APIError like any other error status.
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, contentType string, raw []byte, result any, access string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if raw != nil {
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if raw != nil {
		req.Header.Set("Content-Type", contentType)
	}
	// No token is not an error: public read endpoints accept anonymous
	// requests.
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.recordRequest(method, "unreachable", time.Since(start).Seconds())
		return &UnreachableError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		c.metrics.recordRequest(method, "unreachable", time.Since(start).Seconds())
		return &UnreachableError{Cause: fmt.Errorf("read response body: %w", err)}
	}
	c.metrics.recordRequest(method, statusBucket(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// refreshAccessToken implements the single-flight refresh. The first caller
// becomes the leader and performs the refresh call; everyone else blocks on
// the same outcome. On failure the leader clears the stored tokens and
// fires the session-expired notification before anyone is released.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if att := c.inflight; att != nil {
		c.refreshMu.Unlock()
		select {
		case <-att.done:
			return att.token, att.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	att := &refreshAttempt{done: make(chan struct{})}
	c.inflight = att
	c.refreshMu.Unlock()

	att.token, att.err = c.doRefresh(ctx)
	close(att.done)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()

	return att.token, att.err
}

// doRefresh performs one refresh call. Any failure (missing refresh token,
// error status, unreachable backend) is terminal for the session.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	_, refresh := c.tokens.Tokens()
	if refresh == "" {
		c.metrics.recordRefresh("failure")
		c.expireSession()
		return "", &RefreshFailedError{}
	}

	// The refresh call bypasses doRaw: it must never trigger another
	// refresh, and it authenticates with the refresh token in the body,
	// not a bearer header.
	var env Envelope[struct {
		Token string `json:"token"`
	}]
	body := map[string]string{"token": refresh}
	raw, _ := json.Marshal(body)
	err := c.doOnce(ctx, http.MethodPost, refreshPath, nil, "application/json", raw, &env, "")
	if err != nil {
		c.metrics.recordRefresh("failure")
		c.logger.Info("token refresh failed, clearing session", "error", err)
		c.expireSession()
		return "", &RefreshFailedError{Cause: err}
	}

	// Commit before anyone retries: the retried request must not be sent
	// until the new token is stored.
	c.tokens.SetAccessToken(env.Data.Token)
	c.metrics.recordRefresh("success")
	c.logger.Debug("access token refreshed")
	return env.Data.Token, nil
}

// expireSession clears the stored tokens and notifies the handler, the CLI
// analog of the browser redirect to the login screen. Nothing fires when
// the session was already empty, so a logged-out caller is not nagged.
func (c *Client) expireSession() {
	access, refresh := c.tokens.Tokens()
	hadSession := access != "" || refresh != ""
	c.tokens.Clear()
	if hadSession && c.onExpired != nil {
		c.onExpired()
	}
}

// decodeAPIError maps an error-status response to an *APIError, preserving
// the envelope's message and error detail when the body parses as one.
func decodeAPIError(status int, body []byte) error {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &APIError{Status: status, Message: env.Message, Detail: env.errorDetail()}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func statusBucket(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
