// Package engine runs SQL against an in-memory DuckDB instance with the
// httpfs extension loaded for remote Parquet access, and wraps execution
// with the result cache.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"

	"duckgs/internal/domain"
	"duckgs/internal/storage"
)

var _ domain.Engine = (*DuckDB)(nil)

// Options configures the engine.
type Options struct {
	// RemoteFS installs the httpfs extension so gs:// paths resolve.
	RemoteFS bool
	// Credentials, if non-zero, are registered as a GCS secret.
	Credentials storage.HMACCredentials
}

// DuckDB wraps a *sql.DB and implements domain.Engine. Remote-filesystem
// setup (httpfs + GCS secret) runs once per process, before the first query.
type DuckDB struct {
	db   *sql.DB
	opts Options

	setupOnce sync.Once
	setupErr  error
}

// Open opens an in-memory DuckDB.
func Open(opts Options) (*DuckDB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DuckDB{db: db, opts: opts}, nil
}

// Close releases the underlying database.
func (e *DuckDB) Close() error {
	return e.db.Close()
}

// setup installs httpfs and registers the GCS secret. Safe to invoke any
// number of times; only the first call does work.
func (e *DuckDB) setup(ctx context.Context) error {
	e.setupOnce.Do(func() {
		if !e.opts.RemoteFS {
			return
		}
		if _, err := e.db.ExecContext(ctx, "INSTALL httpfs; LOAD httpfs;"); err != nil {
			e.setupErr = fmt.Errorf("extension setup (httpfs): %w", err)
			return
		}
		if e.opts.Credentials.IsZero() {
			return
		}
		if _, err := e.db.ExecContext(ctx, e.opts.Credentials.SecretSQL()); err != nil {
			e.setupErr = fmt.Errorf("create GCS secret: %w", err)
		}
	})
	return e.setupErr
}

// Query executes the resolved SQL and scans the full result set into a
// domain.Result. Engine errors are returned unmodified apart from wrapping.
func (e *DuckDB) Query(ctx context.Context, query string) (*domain.Result, error) {
	if err := e.setup(ctx); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanResult(rows)
}

func scanResult(rows *sql.Rows) (*domain.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	res := &domain.Result{Columns: cols, Rows: make([][]interface{}, 0)}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
