package command

import (
	"context"
	"errors"
	"time"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/retryx"
	"github.com/mlibrary/solr-cloud-connection/solrcloudx"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

var errNotHealthy = errors.New("not healthy yet")

func newWaitCommand(a *app) *cobra.Command {
	var (
		maxWait  time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait NAME",
		Short: "Wait until a collection or alias exists and is healthy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), maxWait)
			defer cancel()

			err = waitHealthy(ctx, a, conn, args[0], interval)
			if err != nil {
				if errors.Is(err, errNotHealthy) || errors.Is(err, solrcloudx.ErrNoSuchCollection) || ctx.Err() != nil {
					return errorx.UnavailableErrorf("'%s' is not healthy after %s", args[0], maxWait).WithOriginalError(err)
				}
				return err
			}
			printLine(cmd, args[0], "is healthy")
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxWait, "max-wait", 2*time.Minute, "give up after this long")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "time between checks")
	return cmd
}

func waitHealthy(ctx context.Context, a *app, conn *solrcloudx.Connection, name string, interval time.Duration) error {
	return retryx.ConstantRetry(ctx, func(ctx context.Context) error {
		coll, err := conn.Collection(ctx, name)
		if errors.Is(err, solrcloudx.ErrNoSuchCollection) {
			return err
		}
		if err != nil {
			return retryx.Permanent(err)
		}

		healthy, err := coll.Healthy(ctx)
		if err != nil {
			return err
		}
		if !healthy {
			return errNotHealthy
		}
		return nil
	},
		retryx.WithInterval(interval),
		retryx.WithUnlimitedRetries(),
		retryx.WithNotify(func(err error, next time.Duration) {
			a.logger.WithError(err).Info(ctx, "waiting for collection",
				attribute.String("collection", name),
				attribute.String("next_check", next.String()),
			)
		}),
	)
}
