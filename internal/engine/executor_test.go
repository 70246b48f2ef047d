package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckgs/internal/cache"
	"duckgs/internal/domain"
)

type countingEngine struct {
	calls   int
	result  *domain.Result
	err     error
	latency time.Duration
}

func (e *countingEngine) Query(_ context.Context, _ string) (*domain.Result, error) {
	e.calls++
	if e.latency > 0 {
		time.Sleep(e.latency)
	}
	return e.result, e.err
}

func newTestExecutor(t *testing.T, eng domain.Engine) *Executor {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache"), nil)
	require.NoError(t, err)
	return NewExecutor(eng, store, nil)
}

func TestExecutor_Execute(t *testing.T) {
	answer := &domain.Result{
		Columns: []string{"answer"},
		Rows:    [][]interface{}{{float64(42)}},
	}

	t.Run("at_most_one_engine_call_per_query", func(t *testing.T) {
		eng := &countingEngine{result: answer}
		x := newTestExecutor(t, eng)

		first, _, cached, err := x.Execute(context.Background(), "SELECT 42 AS answer")
		require.NoError(t, err)
		assert.False(t, cached)
		require.Equal(t, 1, eng.calls)

		second, elapsed, cached, err := x.Execute(context.Background(), "SELECT 42 AS answer")
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, 1, eng.calls, "second call must come from cache")
		assert.Zero(t, elapsed, "cache hits are not timed")
		assert.Equal(t, first.Columns, second.Columns)
		assert.Equal(t, first.Rows, second.Rows)
	})

	t.Run("distinct_queries_each_execute", func(t *testing.T) {
		eng := &countingEngine{result: answer}
		x := newTestExecutor(t, eng)

		_, _, _, err := x.Execute(context.Background(), "SELECT 42")
		require.NoError(t, err)
		_, _, _, err = x.Execute(context.Background(), "SELECT 43")
		require.NoError(t, err)
		assert.Equal(t, 2, eng.calls)
	})

	t.Run("fresh_compute_is_timed", func(t *testing.T) {
		eng := &countingEngine{result: answer, latency: 10 * time.Millisecond}
		x := newTestExecutor(t, eng)

		_, elapsed, cached, err := x.Execute(context.Background(), "SELECT 42")
		require.NoError(t, err)
		assert.False(t, cached)
		assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	})

	t.Run("engine_error_propagates", func(t *testing.T) {
		eng := &countingEngine{err: assert.AnError}
		x := newTestExecutor(t, eng)

		_, _, _, err := x.Execute(context.Background(), "SELECT broken")
		require.ErrorIs(t, err, assert.AnError)
	})
}
