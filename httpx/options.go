package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option is a named func that will help set custom options to the HTTP Client
type Option func(*Client)

// WithTimeout sets a customizable timeout to the http client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithSkipTLSVerification() Option {
	return func(c *Client) {
		c.transport.TLSClientConfig.InsecureSkipVerify = true
	}
}

// WithBaseURL resolves relative request URLs against u. Credentials embedded
// in u are moved to basic auth and stripped from the stored URL.
func WithBaseURL(u *url.URL) Option {
	return func(c *Client) {
		if u == nil {
			return
		}
		base := *u
		if base.User != nil {
			if c.username == "" {
				c.username = base.User.Username()
				c.password, _ = base.User.Password()
			}
			base.User = nil
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		base.RawQuery = ""
		base.Fragment = ""
		c.baseURL = &base
	}
}

// WithBasicAuth sends the credentials on every request. An empty username disables it.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

func WithLogger(l *loggerx.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *Client) {
		if p != nil {
			c.propagator = p
		}
	}
}

// WithMetrics registers the request counters and histograms on reg.
// A registerer must not be shared between clients.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = newMetrics(reg)
	}
}

// WithTransport replaces the transport, e.g. to reuse a pool between clients.
func WithTransport(t *http.Transport) Option {
	return func(c *Client) {
		if t == nil {
			return
		}
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = c.transport.TLSClientConfig
		}
		c.transport = t
	}
}
