package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client for making requests.
// Useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 15 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus recording on the pipeline.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithProactiveRefresh installs a predicate over the current access token.
// When it reports true before an authenticated request is sent, the
// pipeline runs the refresh protocol first and sends the request with the
// new token, instead of spending a round trip on a guaranteed 401. The
// predicate must be cheap; it runs on every request.
func WithProactiveRefresh(fn func(accessToken string) bool) Option {
	return func(c *Client) {
		c.expiresSoon = fn
	}
}

// WithSessionExpiredHandler sets the callback fired when the refresh
// protocol fails terminally and the session has been cleared. It fires at
// most once per refresh failure and never when the session was already
// empty.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}
