package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mlibrary/solr-cloud-connection/errorx"
)

const (
	httpClientDefaultTimeout = 60 * time.Second

	maxErrorBodyLen = 512
)

// Request is the input parameters that will need to be sent with an HTTP request
type Request struct {
	Method string `validate:"required"`
	// URL is either absolute or relative to the client base URL.
	URL string `validate:"required"`
	// Body is encoded as JSON.
	Body any
	// RawBody is sent as is with ContentType, it cannot be combined with Body.
	RawBody         []byte
	ContentType     string
	Headers         http.Header
	QueryParameters url.Values
}

// Validate validates if the struct contains the required entities or not
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errorx.InvalidArgumentErrorf("invalid http request").WithOriginalError(err)
	}
	if r.Body != nil && r.RawBody != nil {
		return errorx.InvalidArgumentErrorf("invalid http request: Body and RawBody are mutually exclusive")
	}
	return nil
}

// Response struct will contain the entities returned with the HTTP response
type Response struct {
	StatusCode int `validate:"required"`
	Body       []byte
	Headers    http.Header
	Duration   time.Duration
}

// Validate validates if the struct contains the required entities or not
func (r *Response) Validate() error {
	return validate.Struct(r)
}

// IsError reports whether the status is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= http.StatusBadRequest
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %d response: %w", r.StatusCode, err)
	}
	return nil
}

// ResponseError is returned by Do when the server answers with a 4xx or 5xx status.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}
	return fmt.Sprintf("%s %s: unexpected status %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), body)
}

// AsResponseError returns the ResponseError in the chain of err, if any.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsStatusError reports whether err carries a ResponseError with the given status.
func IsStatusError(err error, status int) bool {
	re, ok := AsResponseError(err)
	return ok && re.StatusCode == status
}
