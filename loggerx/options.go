package loggerx

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/slogx"
	slogctx "github.com/veqryn/slog-context"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	level  slog.Leveler
	format string
	writer io.Writer
}

type Option func(*options)

func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormat selects the handler, either "text" or "json".
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = strings.ToLower(format)
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// New builds a logger whose handler also emits the attributes stored in the
// context with slogctx.Prepend/Append and the ids of the active span.
func New(opts ...Option) (*Logger, error) {
	o := &options{
		level:  slog.LevelWarn,
		format: FormatText,
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	switch o.format {
	case FormatText, "":
		h = slog.NewTextHandler(o.writer, hopts)
	case FormatJSON:
		h = slog.NewJSONHandler(o.writer, hopts)
	default:
		return nil, errorx.InvalidArgumentErrorf("unknown log format %q, expected one of [%s, %s]", o.format, FormatText, FormatJSON)
	}

	h = slogctx.NewHandler(h, &slogctx.HandlerOptions{
		Prependers: []slogctx.AttrExtractor{slogctx.ExtractPrepended},
		Appenders:  []slogctx.AttrExtractor{slogctx.ExtractAppended, slogx.TraceExtractor},
	})

	return &Logger{slog.New(h)}, nil
}

// NewNoop returns a logger that discards every record.
func NewNoop() *Logger {
	return &Logger{slog.New(slog.DiscardHandler)}
}

// ParseLevel accepts debug, info, warn(ing) and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "warning":
		return slog.LevelWarn, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errorx.InvalidArgumentErrorf("invalid log level %q", s).WithOriginalError(err)
	}
	return level, nil
}
