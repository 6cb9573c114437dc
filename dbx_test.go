/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package dbx_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dbx"
	"dirpx.dev/dbx/apis"
	"dirpx.dev/dbx/config"
	"dirpx.dev/dbx/instrumented"
	"dirpx.dev/dbx/registry"
)

// ---------------------- Test doubles ----------------------

// pgDriver hands out zero pgx stdlib connections. They are only inspected,
// never used to talk to a server.
type pgDriver struct{}

func (pgDriver) Open(string) (driver.Conn, error) { return &stdlib.Conn{}, nil }

// fakeDriver opens fakeConns that produce fake statements, rows and
// transactions.
type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{}, nil }

type fakeConn struct{}

func (*fakeConn) Prepare(string) (driver.Stmt, error) { return &fakeStmt{}, nil }
func (*fakeConn) Close() error                        { return nil }
func (*fakeConn) Begin() (driver.Tx, error)           { return &fakeTx{}, nil }

type fakeStmt struct{}

func (*fakeStmt) Close() error                               { return nil }
func (*fakeStmt) NumInput() int                              { return -1 }
func (*fakeStmt) Exec([]driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (*fakeStmt) Query([]driver.Value) (driver.Rows, error)  { return &fakeRows{}, nil }
func (*fakeStmt) ColumnConverter(int) driver.ValueConverter  { return driver.DefaultParameterConverter }

type fakeRows struct{}

func (*fakeRows) Columns() []string         { return []string{"id"} }
func (*fakeRows) Close() error              { return nil }
func (*fakeRows) Next([]driver.Value) error { return nil }
func (*fakeRows) HasNextResultSet() bool    { return false }
func (*fakeRows) NextResultSet() error      { return nil }

type fakeTx struct{}

func (*fakeTx) Commit() error   { return nil }
func (*fakeTx) Rollback() error { return nil }

// ---------------------- Helpers ----------------------

func resetAfter(t *testing.T) {
	t.Helper()
	dbx.Reset()
	t.Cleanup(dbx.Reset)
}

func openPG(t *testing.T) driver.Conn {
	t.Helper()
	c, err := instrumented.Wrap(pgDriver{}).Open("")
	require.NoError(t, err)
	return c
}

type handles struct {
	conn driver.Conn
	stmt driver.Stmt
	rows driver.Rows
	tx   driver.Tx
}

func openFake(t *testing.T) handles {
	t.Helper()
	c, err := instrumented.Wrap(fakeDriver{}).Open("")
	require.NoError(t, err)
	s, err := c.Prepare("select 1")
	require.NoError(t, err)
	r, err := s.Query(nil)
	require.NoError(t, err)
	tx, err := c.(driver.ConnBeginTx).BeginTx(context.Background(), driver.TxOptions{})
	require.NoError(t, err)
	return handles{conn: c, stmt: s, rows: r, tx: tx}
}

// ---------------------- Scenarios ----------------------

func TestScenarioA_UnwrappedHandleResolvesToItself(t *testing.T) {
	resetAfter(t)

	pc := &stdlib.Conn{}
	got, err := dbx.InnerConn[*stdlib.Conn](pc)
	require.NoError(t, err)
	assert.Same(t, pc, got)
}

func TestScenarioB_WrapperWithoutAccessorFails(t *testing.T) {
	resetAfter(t)

	_, err := dbx.InnerConn[*stdlib.Conn](openPG(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	assert.Contains(t, err.Error(), "Conn")
	assert.Contains(t, err.Error(), "*stdlib.Conn")
	assert.Contains(t, err.Error(), "*instrumented.Conn")
	assert.Contains(t, err.Error(), "ConfigureConnAccessor")
}

func TestScenarioC_AccessorUnwrapsOneLevel(t *testing.T) {
	resetAfter(t)
	dbx.ConfigureConnAccessor(func(c *instrumented.Conn) driver.Conn { return c.Inner() })

	wrapped := openPG(t)
	got, err := dbx.InnerConn[*stdlib.Conn](wrapped)
	require.NoError(t, err)
	assert.Same(t, wrapped.(*instrumented.Conn).Inner(), got)
}

func TestScenarioD_ConfigureCallsBackAndChains(t *testing.T) {
	resetAfter(t)
	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)

	wrapped := openPG(t)
	var seen []*stdlib.Conn
	got, err := dbx.ConfigureConn(wrapped, func(pc *stdlib.Conn) error {
		seen = append(seen, pc)
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, wrapped, got)
	require.Len(t, seen, 1)
	assert.Same(t, wrapped.(*instrumented.Conn).Inner(), seen[0])
}

func TestScenarioE_ResetRestoresFailure(t *testing.T) {
	resetAfter(t)
	wrapped := openPG(t)

	_, before := dbx.InnerConn[*stdlib.Conn](wrapped)
	require.Error(t, before)

	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	_, err := dbx.InnerConn[*stdlib.Conn](wrapped)
	require.NoError(t, err)

	dbx.Reset()
	_, after := dbx.InnerConn[*stdlib.Conn](wrapped)
	require.Error(t, after)
	assert.Equal(t, before.Error(), after.Error())
}

// ---------------------- Properties ----------------------

func TestIdentityDefault_AllCategories(t *testing.T) {
	resetAfter(t)
	h := openFake(t)

	// Wrappers resolve to themselves ...
	_, err := dbx.InnerConn[*instrumented.Conn](h.conn)
	assert.NoError(t, err)
	_, err = dbx.InnerStmt[*instrumented.Stmt](h.stmt)
	assert.NoError(t, err)
	_, err = dbx.InnerRows[*instrumented.Rows](h.rows)
	assert.NoError(t, err)
	_, err = dbx.InnerTx[*instrumented.Tx](h.tx)
	assert.NoError(t, err)

	// ... but not to the provider types underneath.
	_, err = dbx.InnerConn[*fakeConn](h.conn)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	_, err = dbx.InnerStmt[*fakeStmt](h.stmt)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	_, err = dbx.InnerRows[*fakeRows](h.rows)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	_, err = dbx.InnerTx[*fakeTx](h.tx)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
}

func TestConfiguredAccessors_AllCategories(t *testing.T) {
	resetAfter(t)
	instrumented.Install()
	h := openFake(t)

	c, err := dbx.InnerConn[*fakeConn](h.conn)
	require.NoError(t, err)
	assert.Same(t, h.conn.(*instrumented.Conn).Inner(), c)

	s, err := dbx.InnerStmt[*fakeStmt](h.stmt)
	require.NoError(t, err)
	assert.Same(t, h.stmt.(*instrumented.Stmt).Inner(), s)

	// Narrowing to a capability the wrapper lacks.
	cc, err := dbx.InnerStmt[interface {
		driver.Stmt
		driver.ColumnConverter
	}](h.stmt)
	require.NoError(t, err)
	assert.NotNil(t, cc.ColumnConverter(0))

	r, err := dbx.InnerRows[driver.RowsNextResultSet](h.rows)
	require.NoError(t, err)
	assert.False(t, r.HasNextResultSet())

	tx, err := dbx.InnerTx[*fakeTx](h.tx)
	require.NoError(t, err)
	assert.Same(t, h.tx.(*instrumented.Tx).Inner(), tx)
}

func TestReconfiguration_ReplacesPreviousAccessor(t *testing.T) {
	resetAfter(t)
	wrapped := openPG(t)
	other := &stdlib.Conn{}

	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	dbx.ConfigureConnAccessor(func(*instrumented.Conn) *stdlib.Conn { return other })

	got, err := dbx.InnerConn[*stdlib.Conn](wrapped)
	require.NoError(t, err)
	assert.Same(t, other, got)
}

func TestCategoryIndependence(t *testing.T) {
	resetAfter(t)
	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	h := openFake(t)

	_, err := dbx.InnerStmt[*fakeStmt](h.stmt)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	_, err = dbx.InnerRows[*fakeRows](h.rows)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	_, err = dbx.InnerTx[*fakeTx](h.tx)
	assert.ErrorIs(t, err, apis.ErrUnresolvable)

	_, err = dbx.InnerConn[*fakeConn](h.conn)
	assert.NoError(t, err)
}

func TestConfigure_AllCategoriesReturnOriginal(t *testing.T) {
	resetAfter(t)
	instrumented.Install()
	h := openFake(t)

	calls := 0
	count := func(any) error { calls++; return nil }

	c, err := dbx.ConfigureConn(h.conn, func(c *fakeConn) error { return count(c) })
	require.NoError(t, err)
	assert.Same(t, h.conn, c)

	s, err := dbx.ConfigureStmt(h.stmt, func(s *fakeStmt) error { return count(s) })
	require.NoError(t, err)
	assert.Same(t, h.stmt, s)

	r, err := dbx.ConfigureRows(h.rows, func(r *fakeRows) error { return count(r) })
	require.NoError(t, err)
	assert.Same(t, h.rows, r)

	tx, err := dbx.ConfigureTx(h.tx, func(tx *fakeTx) error { return count(tx) })
	require.NoError(t, err)
	assert.Same(t, h.tx, tx)

	assert.Equal(t, 4, calls)
}

func TestConfigure_FailurePaths(t *testing.T) {
	resetAfter(t)
	h := openFake(t)

	called := false
	got, err := dbx.ConfigureTx(h.tx, func(*fakeTx) error { called = true; return nil })
	assert.ErrorIs(t, err, apis.ErrUnresolvable)
	assert.Nil(t, got)
	assert.False(t, called)

	sentinel := errors.New("callback failed")
	got, err = dbx.ConfigureTx(h.tx, func(*instrumented.Tx) error { return sentinel })
	assert.Same(t, sentinel, err)
	assert.Nil(t, got)
}

func TestErrorMessage_NamesConfigureOperationPerCategory(t *testing.T) {
	resetAfter(t)
	h := openFake(t)

	_, err := dbx.InnerStmt[*fakeStmt](h.stmt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fakeStmt")
	assert.Contains(t, err.Error(), "ConfigureStmtAccessor")

	_, err = dbx.InnerRows[*fakeRows](h.rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fakeRows")
	assert.Contains(t, err.Error(), "ConfigureRowsAccessor")

	_, err = dbx.InnerTx[*fakeTx](h.tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fakeTx")
	assert.Contains(t, err.Error(), "ConfigureTxAccessor")
}

// ---------------------- Global state ----------------------

func TestSetRegistry_InjectsAndIgnoresNil(t *testing.T) {
	resetAfter(t)
	prev := dbx.Registry()
	t.Cleanup(func() {
		dbx.SetRegistry(prev)
		dbx.UnpinRegistry()
	})

	custom := registry.New(config.DefaultConfig())
	dbx.SetRegistry(custom)
	assert.Same(t, custom, dbx.Registry())
	assert.True(t, dbx.IsRegistryPinned())

	dbx.SetRegistry(nil)
	assert.Same(t, custom, dbx.Registry())

	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	_, err := dbx.InnerConn[*stdlib.Conn](openPG(t))
	require.NoError(t, err)

	dbx.SetRegistry(prev)
	_, err = dbx.InnerConn[*stdlib.Conn](openPG(t))
	assert.Error(t, err, "accessor leaked from the injected registry")
}

func TestSetConfig_KeepsAccessors(t *testing.T) {
	resetAfter(t)
	prevCfg := dbx.Config()
	t.Cleanup(func() { dbx.SetConfig(prevCfg) })

	require.False(t, dbx.IsRegistryPinned())

	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	before := dbx.Registry()

	dbx.SetConfig(config.NewConfig())
	assert.NotSame(t, before, dbx.Registry())

	_, err := dbx.InnerConn[*stdlib.Conn](openPG(t))
	require.NoError(t, err)
}

func TestSetConfig_KeepsInjectedRegistry(t *testing.T) {
	resetAfter(t)
	prev := dbx.Registry()
	prevCfg := dbx.Config()
	t.Cleanup(func() {
		dbx.SetRegistry(prev)
		dbx.SetConfig(prevCfg)
		dbx.UnpinRegistry()
	})

	custom := registry.New(config.DefaultConfig())
	dbx.SetRegistry(custom)

	cfg := config.NewConfig()
	dbx.SetConfig(cfg)
	assert.Same(t, custom, dbx.Registry())
	assert.Equal(t, cfg, dbx.Config())

	// Accessors configured through the facade land in the injected registry.
	dbx.ConfigureConnAccessor(instrumented.UnwrapConn)
	inner, err := dbx.InnerConn[*stdlib.Conn](openPG(t))
	require.NoError(t, err)
	assert.NotNil(t, inner)

	_, ok := custom.Accessors().Conn(openPG(t)).(*stdlib.Conn)
	assert.True(t, ok, "injected registry does not hold the Conn accessor")
}

func TestPinRegistry(t *testing.T) {
	resetAfter(t)
	prevCfg := dbx.Config()
	t.Cleanup(func() {
		dbx.UnpinRegistry()
		dbx.SetConfig(prevCfg)
	})

	dbx.PinRegistry()
	pinned := dbx.Registry()
	dbx.SetConfig(config.NewConfig())
	assert.Same(t, pinned, dbx.Registry())

	dbx.UnpinRegistry()
	assert.False(t, dbx.IsRegistryPinned())
	dbx.SetConfig(config.NewConfig())
	assert.NotSame(t, pinned, dbx.Registry())
}
