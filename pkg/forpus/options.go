package forpus

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Option configures a Client during New.
type Option func(*Client) error

// WithBaseURL points the client at another API root, e.g. a staging host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrConfiguration.New(fmt.Sprintf("invalid base URL %q", baseURL))
		}
		c.session.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithHTTPClient injects a custom *http.Client, for timeouts, proxies or TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return ErrConfiguration.New("nil http client")
		}
		c.httpOpts.HTTPClient = hc
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.httpOpts.Debug = enabled
		return nil
	}
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS(enabled bool) Option {
	return func(c *Client) error {
		c.httpOpts.DisableCertValidation = enabled
		return nil
	}
}

// WithLogger replaces the global zerolog logger for this client.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithToken seeds the client with a previously obtained token, so the first
// call does not need to authenticate.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.session.token = token
		return nil
	}
}

// WithRateLimit limits outgoing requests to r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) error {
		if r <= 0 || burst <= 0 {
			return ErrConfiguration.New("rate limit and burst must be positive")
		}
		c.limiter = rate.NewLimiter(r, burst)
		return nil
	}
}
