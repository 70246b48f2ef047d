package engine

import (
	"context"
	"log/slog"
	"time"

	"duckgs/internal/cache"
	"duckgs/internal/domain"
)

// Executor wraps an Engine with the result cache. The resolved query text
// is the cache key, so each distinct query string hits the engine at most
// once for the lifetime of the cache directory.
type Executor struct {
	engine domain.Engine
	store  *cache.Store
	logger *slog.Logger
}

// NewExecutor creates an Executor over the given engine and cache store.
func NewExecutor(eng domain.Engine, store *cache.Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{engine: eng, store: store, logger: logger}
}

// Execute returns the result for the resolved query, from cache when
// available. elapsed is the wall-clock duration of the underlying engine
// call; cache hits report zero since nothing was executed.
func (x *Executor) Execute(ctx context.Context, query string) (res *domain.Result, elapsed time.Duration, cached bool, err error) {
	res, cached, err = x.store.GetOrCompute(query, func() (*domain.Result, error) {
		start := time.Now()
		out, qerr := x.engine.Query(ctx, query)
		elapsed = time.Since(start)
		return out, qerr
	})
	if err != nil {
		return nil, 0, false, err
	}

	if cached {
		x.logger.Debug("loaded from cache", "path", x.store.Path(query))
	} else {
		x.logger.Debug("query executed", "elapsed", elapsed, "row_count", res.RowCount())
	}
	return res, elapsed, cached, nil
}
