package solrcloudx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/httpx"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/mlibrary/solr-cloud-connection/tracex"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/mlibrary/solr-cloud-connection/solrcloudx"
	connectionComponent = "solrcloudx.Connection"

	// MinimumMajorVersion is the oldest Solr release line this package talks to.
	MinimumMajorVersion = 8

	systemInfoPath = "solr/admin/info/system"
)

// Connection is a validated connection to a SolrCloud cluster. It is safe for
// concurrent use and holds no cached cluster state.
type Connection struct {
	url        *url.URL
	client     *httpx.Client
	logger     *loggerx.Logger
	tracer     trace.Tracer
	systemInfo *SystemInfo
	zipLevel   int
}

type options struct {
	logger         *loggerx.Logger
	client         *httpx.Client
	httpOptions    []httpx.Option
	tracerProvider trace.TracerProvider
	zipLevel       int
}

type Option func(*options)

// WithLogger replaces the default warn level logger writing to stderr.
func WithLogger(l *loggerx.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient uses c as is. Its base url must point at the solr node.
func WithHTTPClient(c *httpx.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithHTTPOptions appends options to the ones derived from the Config.
func WithHTTPOptions(opts ...httpx.Option) Option {
	return func(o *options) {
		o.httpOptions = append(o.httpOptions, opts...)
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithZipCompressionLevel sets the flate level used to package configsets.
func WithZipCompressionLevel(level int) Option {
	return func(o *options) {
		o.zipLevel = level
	}
}

// NewConnection connects to the solr node at cfg.URL and checks that it runs a
// supported version in cloud mode.
func NewConnection(ctx context.Context, cfg Config, opts ...Option) (*Connection, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errorx.InvalidArgumentErrorf("invalid solr url %q", cfg.URL)
	}

	o := &options{
		tracerProvider: otel.GetTracerProvider(),
		zipLevel:       flate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		if o.logger, err = loggerx.New(); err != nil {
			return nil, err
		}
	}

	client := o.client
	if client == nil {
		httpOpts := []httpx.Option{
			httpx.WithBaseURL(u),
			httpx.WithTimeout(cfg.Timeout),
			httpx.WithLogger(o.logger),
			httpx.WithTracerProvider(o.tracerProvider),
		}
		if cfg.User != "" {
			httpOpts = append(httpOpts, httpx.WithBasicAuth(cfg.User, cfg.Password))
		}
		if cfg.SkipTLSVerify {
			httpOpts = append(httpOpts, httpx.WithSkipTLSVerification())
		}
		client = httpx.NewClientWithOptions(append(httpOpts, o.httpOptions...)...)
	}

	public := *u
	public.User = nil
	public.RawQuery = ""
	public.Fragment = ""
	public.Path = strings.TrimSuffix(public.Path, "/")

	c := &Connection{
		url:      &public,
		client:   client,
		logger:   o.logger,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		zipLevel: o.zipLevel,
	}

	ctx, span, l := c.instrument(ctx, "Connect", trace.WithAttributes(attribute.String("solr.url", c.URL())))
	defer span.End()

	info, err := c.connect(ctx)
	if err != nil {
		return nil, recordError(span, err)
	}
	c.systemInfo = info

	l.Info(ctx, "connected to supported solr",
		attribute.String("url", c.URL()),
		attribute.String("version", info.Version.Raw),
	)
	return c, nil
}

func (c *Connection) connect(ctx context.Context) (*SystemInfo, error) {
	info, err := c.SystemInfo(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if _, ok := httpx.AsResponseError(err); ok {
			return nil, err
		}
		if errorx.IsInvalidArgumentError(err) {
			return nil, unsupportedRemoteError("solr at %s reports an unreadable version: %s", c.URL(), err)
		}
		if _, ok := errorx.IsCliniaError(err); ok {
			return nil, err
		}
		return nil, connectionFailedError(c.URL(), err)
	}

	if info.Version.Major < MinimumMajorVersion {
		return nil, unsupportedRemoteError("solr %s at %s is not supported, the minimum major version is %d", info.Version, c.URL(), MinimumMajorVersion)
	}
	if !info.IsCloud() {
		return nil, unsupportedRemoteError("solr at %s runs in %q mode, not %s", c.URL(), info.Mode, cloudMode)
	}
	return info, nil
}

// SystemInfo queries solr/admin/info/system.
func (c *Connection) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	resp, err := c.get(ctx, systemInfoPath, nil)
	if err != nil {
		return nil, err
	}
	return parseSystemInfo(resp.Body)
}

// Version is the version found when the connection was established.
func (c *Connection) Version() Version {
	if c.systemInfo == nil {
		return Version{}
	}
	return c.systemInfo.Version
}

// URL is the base url of the solr node without credentials.
func (c *Connection) URL() string {
	return c.url.String()
}

func (c *Connection) String() string {
	return "<SolrCloud::Connection " + c.URL() + ">"
}

// Logger is the logger given to the connection.
func (c *Connection) Logger() *loggerx.Logger {
	return c.logger
}

// Close releases idle transport connections.
func (c *Connection) Close() {
	c.client.CloseIdleConnections()
}

func (c *Connection) instrument(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, *loggerx.Logger) {
	return tracex.Instrument(ctx, c.logger, c.tracer, connectionComponent, name, opts...)
}

func recordError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Connection) get(ctx context.Context, path string, query url.Values) (*httpx.Response, error) {
	return c.do(ctx, &httpx.Request{
		Method:          http.MethodGet,
		URL:             path,
		QueryParameters: query,
	})
}

// do sends the request and turns a 401 into ErrUnauthorized. Other failures
// are returned unmodified.
func (c *Connection) do(ctx context.Context, req *httpx.Request) (*httpx.Response, error) {
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		if httpx.IsStatusError(err, http.StatusUnauthorized) {
			return nil, unauthorizedError(c.URL(), err)
		}
		return nil, err
	}
	return resp, nil
}

func collectionsAdmin(action string, kvs ...string) url.Values {
	q := url.Values{"action": {action}}
	for i := 0; i+1 < len(kvs); i += 2 {
		q.Set(kvs[i], kvs[i+1])
	}
	return q
}

func pathFor(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}
