package httpx

import "net/http"

const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)

// mergeHeaders layers the client defaults, then the request headers, over dst.
func mergeHeaders(dst http.Header, layers ...http.Header) {
	for _, layer := range layers {
		for key, values := range layer {
			dst.Del(key)
			for _, v := range values {
				dst.Add(key, v)
			}
		}
	}
	if dst.Get(HeaderAccept) == "" {
		dst.Set(HeaderAccept, ContentTypeJSON)
	}
}
