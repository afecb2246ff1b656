package retryx_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlibrary/solr-cloud-connection/retryx"
)

func ExampleConstantRetry() {
	ctx := context.Background()

	health := []string{"RED", "YELLOW", "GREEN"}
	checks := 0
	waitGreen := func(ctx context.Context) error {
		h := health[checks]
		checks++
		if h != "GREEN" {
			return errors.New("collection is " + h)
		}
		return nil
	}

	err := retryx.ConstantRetry(ctx, waitGreen, retryx.WithRetryCount(5), retryx.WithInterval(time.Millisecond))
	fmt.Println(err, checks)
	// Output: <nil> 3
}

func ExampleExponentialRetry() {
	ctx := context.Background()

	ping := func(ctx context.Context) error {
		return retryx.Permanent(errors.New("collection 'books' doesn't exist"))
	}

	// Permanent errors stop the retries at once.
	err := retryx.ExponentialRetry(ctx, ping,
		retryx.WithUnlimitedRetries(),
		retryx.WithMaxInterval(5*time.Second),
		retryx.WithMaxElapsedTime(time.Minute),
	)
	fmt.Println(err)
	// Output: collection 'books' doesn't exist
}
