package slogx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const defaultRedactionText = "**[REDACTED]**"

var (
	redactMu            sync.RWMutex
	sensitiveHeadersMap = map[string]bool{"authorization": true}
	redactionText       = defaultRedactionText
	includeQuery        = true
)

// ConfigureSensitiveHeaders adds headers that should be redacted in the logs.
// Note that this will be applied globally to all loggers using slogx.
func ConfigureSensitiveHeaders(sensitiveHeaders ...string) {
	redactMu.Lock()
	defer redactMu.Unlock()
	for _, header := range sensitiveHeaders {
		sensitiveHeadersMap[strings.ToLower(header)] = true
	}
}

// ConfigureRedactionText sets the text that will be used to redact sensitive values in the logs.
// Default is "**[REDACTED]**"
func ConfigureRedactionText(text string) {
	redactMu.Lock()
	defer redactMu.Unlock()
	redactionText = text
}

// ConfigureIncludeQuery sets whether to include query parameters in logged URLs. Defaults to true,
// admin API queries carry names and actions, never credentials.
func ConfigureIncludeQuery(include bool) {
	redactMu.Lock()
	defer redactMu.Unlock()
	includeQuery = include
}

func RedactHeaders(headers http.Header) slog.Attr {
	redactMu.RLock()
	defer redactMu.RUnlock()

	headerMap := make(map[string][]string, len(headers))
	for key, values := range headers {
		if sensitiveHeadersMap[strings.ToLower(key)] {
			headerMap[key] = []string{redactionText}
		} else {
			headerMap[key] = values
		}
	}

	return slog.Any("headers", headerMap)
}

// RedactURL returns u as a string with any user info password masked and,
// unless configured otherwise, the query string kept.
func RedactURL(u *url.URL) slog.Attr {
	if u == nil {
		return slog.String("url", "")
	}

	redactMu.RLock()
	defer redactMu.RUnlock()

	c := *u
	if !includeQuery && c.RawQuery != "" {
		c.RawQuery = url.QueryEscape(redactionText)
	}

	return slog.String("url", c.Redacted())
}
