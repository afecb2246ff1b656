package httpx

import (
	"crypto/tls"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mlibrary/solr-cloud-connection/httpx"

var validate = validator.New(validator.WithRequiredStructEnabled())

type Client struct {
	httpClient *http.Client
	transport  *http.Transport

	baseURL  *url.URL
	username string
	password string
	headers  http.Header

	logger         *loggerx.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	propagator     propagation.TextMapPropagator
	metrics        *metrics
}

// GetDefaultHTTPClient returns an HTTP client with basic settings
func GetDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: httpClientDefaultTimeout,
	}
}

// NewHTTPClient returns a default HTTP client with default options
func NewHTTPClient() *Client {
	return NewClientWithOptions()
}

// NewClientWithOptions creates a configurable HTTP Client
func NewClientWithOptions(options ...Option) *Client {
	client := &Client{
		transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{},
		},
		httpClient:     GetDefaultHTTPClient(),
		headers:        http.Header{},
		logger:         loggerx.NewNoop(),
		tracerProvider: otel.GetTracerProvider(),
		propagator:     otel.GetTextMapPropagator(),
	}

	for _, opt := range options {
		opt(client)
	}

	client.httpClient.Transport = client.transport
	client.tracer = client.tracerProvider.Tracer(instrumentationName)

	return client
}

// BaseURL returns a copy of the URL relative requests are resolved against, or nil.
func (c *Client) BaseURL() *url.URL {
	if c.baseURL == nil {
		return nil
	}
	u := *c.baseURL
	return &u
}

// CloseIdleConnections closes the keep-alive connections of the underlying transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
