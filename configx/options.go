package configx

import (
	"io"
	"os"

	"github.com/knadh/koanf"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/spf13/pflag"
)

type (
	OptionModifier func(p *Provider)
)

// WithConfigFiles loads the files in order, the parser is picked from the extension.
func WithConfigFiles(files ...string) OptionModifier {
	return func(p *Provider) {
		p.files = append(p.files, files...)
	}
}

// WithEnvFiles reads dotenv files before the process environment. Missing files are ignored.
func WithEnvFiles(files ...string) OptionModifier {
	return func(p *Provider) {
		p.envFiles = append(p.envFiles, files...)
	}
}

// WithEnvPrefix only considers variables starting with prefix, which is stripped from the key.
func WithEnvPrefix(prefix string) OptionModifier {
	return func(p *Provider) {
		p.envPrefix = prefix
	}
}

func WithFlags(flags *pflag.FlagSet) OptionModifier {
	return func(p *Provider) {
		p.flags = flags
	}
}

func WithLogger(l *loggerx.Logger) OptionModifier {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

func SkipValidation() OptionModifier {
	return func(p *Provider) {
		p.skipValidation = true
	}
}

func DisableEnvLoading() OptionModifier {
	return func(p *Provider) {
		p.disableEnvLoading = true
	}
}

func WithValue(key string, value any) OptionModifier {
	return func(p *Provider) {
		p.forcedValues = append(p.forcedValues, tuple{Key: key, Value: value})
	}
}

func WithValues(values map[string]any) OptionModifier {
	return func(p *Provider) {
		for key, value := range values {
			p.forcedValues = append(p.forcedValues, tuple{Key: key, Value: value})
		}
	}
}

func WithBaseValues(values map[string]any) OptionModifier {
	return func(p *Provider) {
		for key, value := range values {
			p.baseValues = append(p.baseValues, tuple{Key: key, Value: value})
		}
	}
}

func WithUserProviders(providers ...koanf.Provider) OptionModifier {
	return func(p *Provider) {
		p.userProviders = append(p.userProviders, providers...)
	}
}

func WithStderrValidationReporter() OptionModifier {
	return WithStandardValidationReporter(os.Stderr)
}

func WithStandardValidationReporter(w io.Writer) OptionModifier {
	return func(p *Provider) {
		p.onValidationError = func(k *koanf.Koanf, err error) {
			p.printHumanReadableValidationErrors(k, w, err)
		}
	}
}
