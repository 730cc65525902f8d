package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/pkg/dbmetrics"
)

// Фейковый драйвер поверх database/sql: считает транзакции
// и подставляет ошибки коммита по номеру попытки

type fakeDriver struct{}

func (d *fakeDriver) Open(_ string) (driver.Conn, error) {
	return nil, errors.New("use connector")
}

type fakeConnector struct {
	conn *fakeConn
}

func (c *fakeConnector) Connect(_ context.Context) (driver.Conn, error) {
	return c.conn, nil
}

func (c *fakeConnector) Driver() driver.Driver {
	return &fakeDriver{}
}

type fakeConn struct {
	commitErrs    []error
	begins        int
	commits       int
	rollbacks     int
	lastIsolation driver.IsolationLevel
}

func (c *fakeConn) Prepare(_ string) (driver.Stmt, error) {
	return nil, errors.New("queries are not supported")
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	var commitErr error
	if c.begins < len(c.commitErrs) {
		commitErr = c.commitErrs[c.begins]
	}
	c.begins++
	c.lastIsolation = opts.Isolation
	return &fakeDriverTx{conn: c, commitErr: commitErr}, nil
}

type fakeDriverTx struct {
	conn      *fakeConn
	commitErr error
}

func (t *fakeDriverTx) Commit() error {
	t.conn.commits++
	return t.commitErr
}

func (t *fakeDriverTx) Rollback() error {
	t.conn.rollbacks++
	return nil
}

func newTestDB(conn *fakeConn) *sql.DB {
	db := sql.OpenDB(&fakeConnector{conn: conn})
	db.SetMaxOpenConns(1)
	return db
}

func serializationError() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesSerializationFailureFromFn(t *testing.T) {
	conn := &fakeConn{}
	db := newTestDB(conn)
	defer db.Close()

	mgr := NewTransactionManager(db)

	// Репозиторий оборачивает драйверную ошибку, сохраняя её в цепочке
	errExecQuery := errors.New("storage: failed to execute query")
	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: DebitVoucher - scan voucher: %w", errExecQuery, serializationError())
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errExecQuery)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, conn.begins)
	assert.Equal(t, 3, conn.rollbacks)
	assert.Equal(t, 0, conn.commits)
}

func TestDoSerializable_RetriesCommitConflictUntilSuccess(t *testing.T) {
	conn := &fakeConn{
		commitErrs: []error{serializationError(), serializationError(), nil},
	}
	db := newTestDB(conn)
	defer db.Close()

	mgr := NewTransactionManager(db)

	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, conn.begins)
	assert.Equal(t, 3, conn.commits)
}

func TestDoSerializable_DoesNotRetryOtherErrors(t *testing.T) {
	conn := &fakeConn{}
	db := newTestDB(conn)
	defer db.Close()

	mgr := NewTransactionManager(db)

	errBusiness := errors.New("voucher balance exhausted")
	calls := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errBusiness
	})

	require.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, conn.begins)
	assert.Equal(t, 1, conn.rollbacks)
}

func TestDoSerializable_UsesSerializableIsolation(t *testing.T) {
	conn := &fakeConn{}
	db := newTestDB(conn)
	defer db.Close()

	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, driver.IsolationLevel(sql.LevelSerializable), conn.lastIsolation)
}

func TestDoSerializable_PutsTransactionIntoContext(t *testing.T) {
	conn := &fakeConn{}
	db := newTestDB(conn)
	defer db.Close()

	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, ok := dbmetrics.TxFromContext(ctx)
		assert.True(t, ok)
		return nil
	})

	require.NoError(t, err)
}
