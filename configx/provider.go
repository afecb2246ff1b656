package configx

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
)

const Delimiter = "."

type tuple struct {
	Key   string
	Value any
}

// Provider is a koanf instance loaded from, lowest precedence first: schema
// defaults, base values, config files, dotenv files, environment variables,
// user providers, changed flags and forced values.
type Provider struct {
	*koanf.Koanf

	schema            []byte
	files             []string
	envFiles          []string
	envPrefix         string
	flags             *pflag.FlagSet
	userProviders     []koanf.Provider
	baseValues        []tuple
	forcedValues      []tuple
	skipValidation    bool
	disableEnvLoading bool
	onValidationError func(k *koanf.Koanf, err error)
	logger            *loggerx.Logger
}

func New(ctx context.Context, schema []byte, modifiers ...OptionModifier) (*Provider, error) {
	p := &Provider{
		schema:            schema,
		onValidationError: func(k *koanf.Koanf, err error) {},
		logger:            loggerx.NewNoop(),
	}

	for _, m := range modifiers {
		m(p)
	}

	k, err := p.newKoanf(ctx)
	if err != nil {
		return nil, err
	}

	p.Koanf = k
	return p, nil
}

func (p *Provider) newKoanf(ctx context.Context) (*koanf.Koanf, error) {
	k := koanf.New(Delimiter)

	defaults, err := NewKoanfSchemaDefaults(p.schema)
	if err != nil {
		return nil, err
	}
	if err := k.Load(defaults, nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Load(confmap.Provider(tuplesToMap(p.baseValues), Delimiter), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, f := range p.files {
		parser, err := parserFor(f)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(f), parser); err != nil {
			return nil, errors.Wrapf(err, "unable to load config file %q", f)
		}
		p.logger.Debug(ctx, "loaded config file", attribute.String("file", f))
	}

	if !p.disableEnvLoading {
		dotenv, err := p.readEnvFiles(ctx)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(dotenv, Delimiter), nil); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := k.Load(env.Provider(p.envPrefix, Delimiter, p.envKey), nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	for _, up := range p.userProviders {
		if err := k.Load(up, nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if p.flags != nil {
		fp := posflag.ProviderWithFlag(p.flags, Delimiter, k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(p.flags, f)
		})
		if err := k.Load(fp, nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := k.Load(confmap.Provider(tuplesToMap(p.forcedValues), Delimiter), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if !p.skipValidation && len(p.schema) > 0 {
		if err := validate(ctx, p.schema, k); err != nil {
			p.onValidationError(k, err)
			return nil, errorx.InvalidArgumentErrorf("the configuration is invalid").WithOriginalError(err)
		}
	}

	return k, nil
}

// FlagKey maps a flag name to its configuration key, "skip-tls-verify" becomes "skip_tls_verify".
func FlagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// envKey maps SOLR_LOG_LEVEL to log_level and SOLR_A__B to a.b when the prefix is "SOLR_".
func (p *Provider) envKey(name string) string {
	if p.envPrefix != "" && !strings.HasPrefix(name, p.envPrefix) {
		return ""
	}
	name = strings.TrimPrefix(name, p.envPrefix)
	return strings.ReplaceAll(strings.ToLower(name), "__", Delimiter)
}

func (p *Provider) readEnvFiles(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any)
	for _, f := range p.envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			p.logger.Debug(ctx, "skipping missing env file", attribute.String("file", f))
			continue
		}

		values, err := godotenv.Read(f)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read env file %q", f)
		}

		for name, value := range values {
			if key := p.envKey(name); key != "" {
				out[key] = value
			}
		}
	}
	return out, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, errorx.InvalidArgumentErrorf("unsupported config file extension %q, expected one of [.json, .yaml, .yml, .toml]", ext)
	}
}

func tuplesToMap(tuples []tuple) map[string]any {
	out := make(map[string]any, len(tuples))
	for _, t := range tuples {
		out[t.Key] = t.Value
	}
	return out
}
