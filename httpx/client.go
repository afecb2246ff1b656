package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MakeHTTPRequest sends the request and returns the response whatever its status.
// Only transport failures and invalid requests are returned as errors.
func (c *Client) MakeHTTPRequest(ctx context.Context, input *Request) (*Response, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	u, err := c.resolve(input.URL)
	if err != nil {
		return nil, err
	}

	body, contentType, err := input.encodeBody()
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+input.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", input.Method),
			attribute.String("url.full", u.Redacted()),
			attribute.String("server.address", u.Hostname()),
		),
	)
	defer span.End()

	httpRequest, err := http.NewRequestWithContext(ctx, input.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	buildQueryParams(httpRequest, input.QueryParameters)

	mergeHeaders(httpRequest.Header, c.headers, input.Headers)
	if contentType != "" {
		httpRequest.Header.Set(HeaderContentType, contentType)
	}
	if c.username != "" {
		httpRequest.SetBasicAuth(c.username, c.password)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(httpRequest.Header))

	c.logger.LogAttrs(ctx, slog.LevelDebug, "sending http request",
		slog.String("method", input.Method),
		slogx.RedactURL(httpRequest.URL),
		slogx.RedactHeaders(httpRequest.Header),
	)

	startTime := time.Now()

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		c.metrics.observe(input.Method, codeTransportError, time.Since(startTime))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(httpResponse.Body)
	endTime := time.Since(startTime)
	if err != nil {
		c.metrics.observe(input.Method, codeTransportError, endTime)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.metrics.observe(input.Method, strconv.Itoa(httpResponse.StatusCode), endTime)
	span.SetAttributes(attribute.Int("http.response.status_code", httpResponse.StatusCode))
	if httpResponse.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(httpResponse.StatusCode))
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "received http response",
		slog.String("method", input.Method),
		slogx.RedactURL(httpRequest.URL),
		slog.Int("status", httpResponse.StatusCode),
		slog.Duration("duration", endTime),
	)

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Body:       responseBody,
		Headers:    httpResponse.Header,
		Duration:   endTime,
	}, nil
}

// Do is MakeHTTPRequest returning a *ResponseError for 4xx and 5xx statuses.
func (c *Client) Do(ctx context.Context, input *Request) (*Response, error) {
	resp, err := c.MakeHTTPRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		u, _ := c.resolve(input.URL)
		return nil, &ResponseError{
			Method:     input.Method,
			URL:        u.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
		}
	}

	return resp, nil
}

func (c *Client) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, errorx.InvalidArgumentErrorf("invalid request url %q", raw).WithOriginalError(err)
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if c.baseURL == nil {
		return nil, errorx.InvalidArgumentErrorf("relative request url %q needs a base url", raw)
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (r *Request) encodeBody() (io.Reader, string, error) {
	switch {
	case r.RawBody != nil:
		return bytes.NewReader(r.RawBody), r.ContentType, nil
	case r.Body != nil:
		requestBodyBytes, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", err
		}
		contentType := r.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}
		return bytes.NewReader(requestBodyBytes), contentType, nil
	default:
		return nil, "", nil
	}
}

func buildQueryParams(httpRequest *http.Request, params url.Values) {
	if len(params) > 0 {
		requestQueryParams := httpRequest.URL.Query()

		for queryParamKey, queryParamValues := range params {
			for _, queryParamValue := range queryParamValues {
				requestQueryParams.Add(queryParamKey, queryParamValue)
			}
		}

		httpRequest.URL.RawQuery = requestQueryParams.Encode()
	}
}
