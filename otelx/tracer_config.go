package otelx

import "io"

const (
	ProviderNone   = ""
	ProviderStdout = "stdout"
	ProviderOTLP   = "otlp"
)

type StdoutConfig struct {
	Pretty bool `json:"pretty"`
	// Writer defaults to os.Stdout.
	Writer io.Writer `json:"-"`
}

// OTLPConfig configures the OTLP/HTTP exporter. Empty fields fall back to the
// OTEL_EXPORTER_OTLP_* environment variables.
type OTLPConfig struct {
	Endpoint      string  `json:"endpoint"`
	Insecure      bool    `json:"insecure"`
	SamplingRatio float64 `json:"sampling_ratio"`
}

type TracerConfig struct {
	ServiceName string       `json:"service_name"`
	Provider    string       `json:"provider"`
	Stdout      StdoutConfig `json:"stdout"`
	OTLP        OTLPConfig   `json:"otlp"`
}
