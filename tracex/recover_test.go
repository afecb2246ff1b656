package tracex

import (
	"context"
	"errors"
	"testing"

	loggerxtest "github.com/mlibrary/solr-cloud-connection/loggerx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverWithStackTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("should recover from panic and log stack trace", func(t *testing.T) {
		l, buf := loggerxtest.NewTestLoggerWithJSONBuffer(t)
		assertCount := 0
		t.Cleanup(func() {
			require.Equal(t, 3, assertCount)
		})
		defer func() {
			assert.Contains(t, buf.String(), "panic at the disco")
			assertCount++
			assert.Contains(t, buf.String(), "test panic")
			assertCount++
			assert.Contains(t, buf.String(), "tracex/recover.go")
			assertCount++
		}()

		defer RecoverWithStackTrace(ctx, l, "panic at the disco")

		panic("test panic")
	})

	t.Run("should log the message of error panics", func(t *testing.T) {
		l, buf := loggerxtest.NewTestLoggerWithJSONBuffer(t)
		defer func() {
			assert.Contains(t, buf.String(), "error panic")
		}()

		defer RecoverWithStackTrace(ctx, l, "")

		panic(errors.New("error panic"))
	})

	t.Run("should recover from panics of other types", func(t *testing.T) {
		l, buf := loggerxtest.NewTestLoggerWithJSONBuffer(t)

		testPanic := func(v any) {
			defer RecoverWithStackTrace(ctx, l, "")
			panic(v)
		}

		testPanic([]int{})
		testPanic(123)
		assert.Equal(t, 2, countLines(buf.String()))
		assert.Contains(t, buf.String(), "unknown panic")
	})

	t.Run("should not fail with a nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			defer RecoverWithStackTrace(ctx, nil, "")
			panic("ignored")
		})
	})
}

func TestStackTraceAttrs(t *testing.T) {
	t.Run("should return nothing when nothing was recovered", func(t *testing.T) {
		assert.Empty(t, StackTraceAttrs(nil))
	})
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
