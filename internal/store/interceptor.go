package store

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// QueryInterceptor runs statements against the database or an open
// transaction and logs each of them at debug level.
type QueryInterceptor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// WithTx runs fn in a transaction. Nested calls join the outer transaction.
	WithTx(ctx context.Context, fn func(QueryInterceptor) error) error
}

type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryInterceptor struct {
	db     *sql.DB
	exec   executor
	inTx   bool
	logger *zap.SugaredLogger
}

func newQueryInterceptor(db *sql.DB) *queryInterceptor {
	return &queryInterceptor{
		db:     db,
		exec:   db,
		logger: zap.S().Named("store"),
	}
}

func (q *queryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	q.logger.Debugw("query_row", "query", query, "args", args)
	return q.exec.QueryRowContext(ctx, query, args...)
}

func (q *queryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q.logger.Debugw("query", "query", query, "args", args)
	return q.exec.QueryContext(ctx, query, args...)
}

func (q *queryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q.logger.Debugw("exec", "query", query, "args", args)
	return q.exec.ExecContext(ctx, query, args...)
}

func (q *queryInterceptor) WithTx(ctx context.Context, fn func(QueryInterceptor) error) error {
	if q.inTx {
		return fn(q)
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q.logger.Debug("begin")

	txq := &queryInterceptor{db: q.db, exec: tx, inTx: true, logger: q.logger}
	if err := fn(txq); err != nil {
		q.logger.Debugw("rollback", "error", err)
		_ = tx.Rollback()
		return err
	}

	q.logger.Debug("commit")
	return tx.Commit()
}
