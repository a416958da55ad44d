// Package tx runs pgx work inside a transaction and carries the transaction
// in the context for nested store calls.
package tx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type ctxKey struct{}

var txKey = ctxKey{}

// Beginner is satisfied by *pgxpool.Pool and pgx.Tx.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx stores a transaction in context for downstream store usage.
func WithTx(ctx context.Context, t pgx.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, t)
}

// From extracts the transaction from context if present.
func From(ctx context.Context) (pgx.Tx, bool) {
	t, ok := ctx.Value(txKey).(pgx.Tx)
	return t, ok
}

// Run calls fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. A transaction already in ctx is reused and left
// for its owner to finish.
func Run(ctx context.Context, db Beginner, fn func(ctx context.Context, t pgx.Tx) error) (err error) {
	if t, ok := From(ctx); ok {
		return fn(ctx, t)
	}
	t, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = t.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = t.Rollback(ctx)
			return
		}
		if cerr := t.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()
	return fn(WithTx(ctx, t), t)
}
