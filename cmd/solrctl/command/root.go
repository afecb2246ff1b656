// Package command implements the solrctl command line.
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/mlibrary/solr-cloud-connection/configx"
	"github.com/mlibrary/solr-cloud-connection/httpx"
	"github.com/mlibrary/solr-cloud-connection/loggerx"
	"github.com/mlibrary/solr-cloud-connection/otelx"
	"github.com/mlibrary/solr-cloud-connection/solrcloudx"
	"github.com/mlibrary/solr-cloud-connection/tracex"
	"github.com/spf13/cobra"
)

const serviceName = "solrctl"

// app holds what the subcommands share. The connection is opened by the
// first command that needs it.
type app struct {
	configFiles []string
	envFiles    []string
	trace       bool
	otlp        otelx.OTLPConfig

	logger *loggerx.Logger
	tracer *otelx.Tracer
	conn   *solrcloudx.Connection
}

// Execute runs solrctl with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	code = 1
	l, err := loggerx.New(loggerx.WithWriter(stderr))
	if err != nil {
		l = loggerx.NewNoop()
	}

	a := &app{logger: l, tracer: otelx.NewNoopTracer()}
	defer a.close(ctx)
	defer tracex.RecoverWithStackTrace(ctx, l, "solrctl panicked")

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.logger.WithError(err).WithErrorStackTrace(err).Debug(ctx, "command failed")
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Manage the configsets, collections and aliases of a SolrCloud cluster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("url", "", "solr base url, e.g. http://localhost:8983 (env SOLR_URL)")
	flags.String("user", "", "basic auth user (env SOLR_USER)")
	flags.String("password", "", "basic auth password (env SOLR_PASSWORD)")
	flags.String("timeout", "", "request timeout, a duration or a number of seconds (env SOLR_TIMEOUT)")
	flags.Bool("skip-tls-verify", false, "don't verify the server certificate")
	flags.String("log-level", "", "debug, info, warn, error or off (env SOLR_LOG_LEVEL)")
	flags.String("log-format", "", "text or json (env SOLR_LOG_FORMAT)")
	flags.StringSliceVar(&a.configFiles, "config", nil, "json, yaml or toml configuration files")
	flags.StringSliceVar(&a.envFiles, "env-file", []string{".env"}, "dotenv files holding SOLR_* variables")
	flags.BoolVar(&a.trace, "trace", false, "print the spans of every operation on stderr")
	flags.StringVar(&a.otlp.Endpoint, "otlp-endpoint", "", "send spans to this OTLP/HTTP collector, e.g. localhost:4318")
	flags.BoolVar(&a.otlp.Insecure, "otlp-insecure", false, "use plain http for the OTLP collector")

	root.AddCommand(
		newVersionCommand(a),
		newConfigSetsCommand(a),
		newCollectionsCommand(a),
		newAliasesCommand(a),
		newWaitCommand(a),
	)
	return root
}

// connection loads the configuration and connects once.
func (a *app) connection(cmd *cobra.Command) (*solrcloudx.Connection, error) {
	if a.conn != nil {
		return a.conn, nil
	}
	ctx := cmd.Context()

	cfg, err := solrcloudx.LoadConfig(ctx,
		configx.WithConfigFiles(a.configFiles...),
		configx.WithEnvFiles(a.envFiles...),
		configx.WithFlags(cmd.Root().PersistentFlags()),
		configx.WithStandardValidationReporter(cmd.ErrOrStderr()),
	)
	if err != nil {
		return nil, err
	}

	a.logger, err = cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	tc := &otelx.TracerConfig{ServiceName: serviceName}
	switch {
	case a.trace:
		tc.Provider = otelx.ProviderStdout
		tc.Stdout = otelx.StdoutConfig{Pretty: true, Writer: cmd.ErrOrStderr()}
	case a.otlp.Endpoint != "":
		tc.Provider = otelx.ProviderOTLP
		tc.OTLP = a.otlp
	}
	if tc.Provider != otelx.ProviderNone {
		tr, err := otelx.NewTracer(ctx, a.logger, tc)
		if err != nil {
			return nil, err
		}
		a.tracer = tr
	}

	a.conn, err = solrcloudx.NewConnection(ctx, cfg,
		solrcloudx.WithLogger(a.logger),
		solrcloudx.WithTracerProvider(a.tracer.Provider()),
		solrcloudx.WithHTTPOptions(httpx.WithPropagator(a.tracer.Propagator())),
	)
	if err != nil {
		return nil, err
	}
	return a.conn, nil
}

func (a *app) close(ctx context.Context) {
	if a.conn != nil {
		a.conn.Close()
	}
	if a.tracer.IsLoaded() {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.WithError(err).Warn(ctx, "unable to flush the spans")
		}
	}
}

func printLine(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}
