package loggerxtest

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/stretchr/testify/require"
)

func NewTestLogger(t testing.TB) *loggerx.Logger {
	t.Helper()
	return loggerx.NewNoop()
}

// NewTestLoggerWithJSONBuffer returns a debug level JSON logger writing to the returned buffer.
func NewTestLoggerWithJSONBuffer(t testing.TB) (*loggerx.Logger, *bytes.Buffer) {
	t.Helper()
	return newBuffered(t, loggerx.FormatJSON)
}

func NewTestLoggerWithTextBuffer(t testing.TB) (*loggerx.Logger, *bytes.Buffer) {
	t.Helper()
	return newBuffered(t, loggerx.FormatText)
}

func newBuffered(t testing.TB, format string) (*loggerx.Logger, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	l, err := loggerx.New(
		loggerx.WithLevel(slog.LevelDebug),
		loggerx.WithFormat(format),
		loggerx.WithWriter(buf),
	)
	require.NoError(t, err)
	return l, buf
}
