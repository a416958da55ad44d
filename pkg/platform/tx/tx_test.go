package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeDB struct {
	tx    *fakeTx
	err   error
	begun int
}

func (d *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	d.begun++
	if d.err != nil {
		return nil, d.err
	}
	return d.tx, nil
}

func TestRun(t *testing.T) {
	t.Run("commits on success and exposes the tx in context", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		err := Run(context.Background(), db, func(ctx context.Context, got pgx.Tx) error {
			inCtx, ok := From(ctx)
			require.True(t, ok)
			assert.Same(t, got, inCtx)
			return nil
		})

		require.NoError(t, err)
		assert.True(t, db.tx.committed)
		assert.False(t, db.tx.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		boom := errors.New("boom")

		err := Run(context.Background(), db, func(context.Context, pgx.Tx) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}

		assert.Panics(t, func() {
			_ = Run(context.Background(), db, func(context.Context, pgx.Tx) error { panic("boom") })
		})
		assert.True(t, db.tx.rolledBack)
	})

	t.Run("reuses a transaction already in context", func(t *testing.T) {
		outer := &fakeTx{}
		db := &fakeDB{tx: &fakeTx{}}

		err := Run(WithTx(context.Background(), outer), db, func(_ context.Context, got pgx.Tx) error {
			assert.Same(t, outer, got)
			return nil
		})

		require.NoError(t, err)
		assert.Zero(t, db.begun)
		assert.False(t, outer.committed)
	})

	t.Run("begin failure", func(t *testing.T) {
		db := &fakeDB{err: errors.New("pool closed")}

		err := Run(context.Background(), db, func(context.Context, pgx.Tx) error { return nil })

		assert.Error(t, err)
	})
}

func TestWithTxNil(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}
