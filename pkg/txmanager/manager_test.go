package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/pkg/dbmetrics"
)

// fakeTx транзакция с настраиваемой ошибкой коммита
type fakeTx struct {
	commitErr error
	commits   int
	rollbacks int
}

func (t *fakeTx) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

// fakeBeginner выдаёт по одной транзакции на каждый BeginTx
// commitErrs задают ошибку коммита для соответствующей попытки
type fakeBeginner struct {
	commitErrs []error
	begins     int
	lastOpts   *sql.TxOptions
	txs        []*fakeTx
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	var commitErr error
	if b.begins < len(b.commitErrs) {
		commitErr = b.commitErrs[b.begins]
	}
	b.begins++
	b.lastOpts = opts

	tx := &fakeTx{commitErr: commitErr}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func serializationError() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesSerializationFailureFromFn(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	// Ошибка statement-уровня приходит из репозитория уже обёрнутой,
	// драйверная ошибка должна сохраняться в цепочке
	errExecQuery := errors.New("storage: failed to execute query")
	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: GetActiveByBranchServiceAndDate - execute query: %w",
			errExecQuery, serializationError())
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errExecQuery)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, beginner.begins)

	// Каждая неудачная попытка откатывается
	for _, tx := range beginner.txs {
		assert.Equal(t, 1, tx.rollbacks)
		assert.Equal(t, 0, tx.commits)
	}
}

func TestDoSerializable_RetriesCommitConflictUntilSuccess(t *testing.T) {
	beginner := &fakeBeginner{
		commitErrs: []error{serializationError(), serializationError(), nil},
	}
	mgr := NewTransactionManager(beginner)

	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, beginner.begins)
	assert.Equal(t, 1, beginner.txs[2].commits)
}

func TestDoSerializable_ExhaustsRetriesOnPersistentConflict(t *testing.T) {
	beginner := &fakeBeginner{
		commitErrs: []error{serializationError(), serializationError(), serializationError(), serializationError()},
	}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, "40001", string(pqErr.Code))
	assert.Equal(t, 3, beginner.begins)
}

func TestDoSerializable_DoesNotRetryOtherErrors(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	errBusiness := errors.New("slot already taken")
	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errBusiness
	})

	require.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, beginner.begins)
}

func TestDoSerializable_UsesSerializableIsolation(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, beginner.lastOpts)
	assert.Equal(t, sql.LevelSerializable, beginner.lastOpts.Isolation)
	assert.Equal(t, 1, beginner.txs[0].commits)
}

func TestDoSerializable_PutsTransactionIntoContext(t *testing.T) {
	beginner := &fakeBeginner{}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, ok := dbmetrics.TxFromContext(ctx)
		assert.True(t, ok)
		return nil
	})

	require.NoError(t, err)
}
