package efesto

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig) error

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         *slog.Logger
	expiryMessages []string
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		requestTimeout: 10 * time.Second,
		logger:         nil,
		expiryMessages: defaultExpiryMessages,
	}
}

// newDefaultHTTPClient builds the transport used when the caller does not
// supply one. The Efesto portal serves a self-signed certificate, so
// verification is skipped. Redirects are never followed: a redirect on a
// command is the vendor bouncing an expired session to the login page and
// the dispatcher needs to see it.
func newDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// WithHTTPClient sets the HTTP client used for all vendor exchanges,
// replacing the default insecure-TLS client. The supplied client must not
// follow redirects, otherwise session expiry cannot be detected.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) error {
		if httpClient == nil {
			return errors.New("http client must not be nil")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithRequestTimeout sets the timeout applied to the default HTTP client.
// Default is 10 seconds. It has no effect when WithHTTPClient is used.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		c.requestTimeout = d
		return nil
	}
}

// WithLogger sets a structured logger for debug and error logging.
// By default, no logging is performed.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) error {
		c.logger = logger
		return nil
	}
}

// WithSessionExpiryMessages replaces the message fragments that classify a
// non-zero vendor status as session expiry rather than a device failure.
// Matching is case-insensitive substring matching.
func WithSessionExpiryMessages(fragments ...string) ClientOption {
	return func(c *clientConfig) error {
		if len(fragments) == 0 {
			return errors.New("at least one expiry message fragment is required")
		}
		c.expiryMessages = fragments
		return nil
	}
}
