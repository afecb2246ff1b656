package solrcloudx

import (
	"context"
	_ "embed"
	"io"
	"strings"
	"time"

	"github.com/mlibrary/solr-cloud-connection/configx"
	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/spf13/cast"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig,
// e.g. SOLR_URL, SOLR_USER and SOLR_PASSWORD.
const EnvPrefix = "SOLR_"

// LogLevelOff disables logging.
const LogLevelOff = "off"

//go:embed config.schema.json
var configSchema []byte

// ConfigSchema returns the JSON schema LoadConfig validates against.
func ConfigSchema() []byte {
	return configSchema
}

type Config struct {
	URL           string
	User          string
	Password      string
	Timeout       time.Duration
	SkipTLSVerify bool
	LogLevel      string
	LogFormat     string
}

// LoadConfig reads the connection configuration from the schema defaults,
// SOLR_* environment variables and the given configx options.
func LoadConfig(ctx context.Context, opts ...configx.OptionModifier) (Config, error) {
	p, err := configx.New(ctx, configSchema, append([]configx.OptionModifier{configx.WithEnvPrefix(EnvPrefix)}, opts...)...)
	if err != nil {
		return Config{}, err
	}

	timeout, err := parseTimeout(p.Get("timeout"))
	if err != nil {
		return Config{}, err
	}
	skipTLSVerify, err := cast.ToBoolE(p.Get("skip_tls_verify"))
	if err != nil {
		return Config{}, errorx.InvalidArgumentErrorf("invalid skip_tls_verify %v", p.Get("skip_tls_verify")).WithOriginalError(err)
	}

	return Config{
		URL:           p.String("url"),
		User:          p.String("user"),
		Password:      p.String("password"),
		Timeout:       timeout,
		SkipTLSVerify: skipTLSVerify,
		LogLevel:      p.String("log_level"),
		LogFormat:     p.String("log_format"),
	}, nil
}

// NewLogger builds the logger described by LogLevel and LogFormat. The "off"
// level returns a logger that discards everything.
func (c Config) NewLogger(w io.Writer) (*loggerx.Logger, error) {
	if strings.EqualFold(c.LogLevel, LogLevelOff) {
		return loggerx.NewNoop(), nil
	}

	level, err := loggerx.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []loggerx.Option{loggerx.WithLevel(level), loggerx.WithWriter(w)}
	if c.LogFormat != "" {
		opts = append(opts, loggerx.WithFormat(c.LogFormat))
	}
	return loggerx.New(opts...)
}

// parseTimeout accepts durations ("30s") and plain numbers of seconds.
func parseTimeout(v any) (time.Duration, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return t, nil
	case string:
		if t == "" {
			return 0, nil
		}
	}

	if secs, err := cast.ToFloat64E(v); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, errorx.InvalidArgumentErrorf("invalid timeout %v", v).WithOriginalError(err)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errorx.InvalidArgumentErrorf("invalid timeout %q", s).WithOriginalError(err)
	}
	return d, nil
}
