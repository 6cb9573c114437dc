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

package instrumented

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"dirpx.dev/dbx/apis"
)

// ErrNamedArgsUnsupported is returned when named arguments reach a
// statement that only accepts positional values.
var ErrNamedArgsUnsupported = errors.New("dbx(instrumented): driver does not support named arguments")

// Stmt decorates a driver.Stmt.
type Stmt struct {
	inner driver.Stmt
	conn  *Conn
	o     *options
}

var (
	_ driver.Stmt              = (*Stmt)(nil)
	_ driver.StmtExecContext   = (*Stmt)(nil)
	_ driver.StmtQueryContext  = (*Stmt)(nil)
	_ driver.NamedValueChecker = (*Stmt)(nil)
)

func newStmt(s driver.Stmt, c *Conn, o *options) *Stmt {
	return &Stmt{inner: s, conn: c, o: o}
}

// Inner returns the decorated statement.
func (s *Stmt) Inner() driver.Stmt {
	if s == nil {
		return nil
	}
	return s.inner
}

func (s *Stmt) Close() error {
	start := time.Now()
	err := s.inner.Close()
	s.o.record(apis.Stmt, "close", start, err)
	return err
}

func (s *Stmt) NumInput() int {
	return s.inner.NumInput()
}

// CheckNamedValue converts an argument the way database/sql would for the
// decorated statement: its own checker first, then the connection's, then
// its column converter. driver.ErrSkip falls back to the default conversion.
func (s *Stmt) CheckNamedValue(nv *driver.NamedValue) error {
	if nc, ok := s.inner.(driver.NamedValueChecker); ok {
		return nc.CheckNamedValue(nv)
	}
	if s.conn != nil {
		if err := s.conn.CheckNamedValue(nv); !errors.Is(err, driver.ErrSkip) {
			return err
		}
	}
	if cc, ok := s.inner.(driver.ColumnConverter); ok {
		return convertColumn(cc, s.inner.NumInput(), nv)
	}
	return driver.ErrSkip
}

// convertColumn applies the column converter of a statement expecting want
// arguments to nv. Arguments past want are left alone.
func convertColumn(cc driver.ColumnConverter, want int, nv *driver.NamedValue) error {
	index := nv.Ordinal - 1
	if want <= index {
		return nil
	}
	if vr, ok := nv.Value.(driver.Valuer); ok {
		v, err := vr.Value()
		if err != nil {
			return err
		}
		if !driver.IsValue(v) {
			return fmt.Errorf("dbx(instrumented): non-subset type %T returned from Value", v)
		}
		nv.Value = v
	}
	arg := nv.Value
	v, err := cc.ColumnConverter(index).ConvertValue(arg)
	if err != nil {
		return err
	}
	if !driver.IsValue(v) {
		return fmt.Errorf("dbx(instrumented): column converter turned %T into unsupported type %T", arg, v)
	}
	nv.Value = v
	return nil
}

// Exec executes the statement with positional arguments.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.ExecContext(context.Background(), named(args))
}

// Query executes the statement with positional arguments.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.QueryContext(context.Background(), named(args))
}

func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	res, err := s.exec(ctx, args)
	s.o.record(apis.Stmt, "exec", start, err)
	return res, err
}

func (s *Stmt) exec(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if sc, ok := s.inner.(driver.StmtExecContext); ok {
		return sc.ExecContext(ctx, args)
	}
	vals, err := values(args)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Exec(vals)
}

func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	start := time.Now()
	rows, err := s.query(ctx, args)
	s.o.record(apis.Stmt, "query", start, err)
	if err != nil {
		return nil, err
	}
	return newRows(rows, s.o), nil
}

func (s *Stmt) query(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if sc, ok := s.inner.(driver.StmtQueryContext); ok {
		return sc.QueryContext(ctx, args)
	}
	vals, err := values(args)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Query(vals)
}

// named converts positional values to ordinal named values.
func named(args []driver.Value) []driver.NamedValue {
	out := make([]driver.NamedValue, len(args))
	for i, v := range args {
		out[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return out
}

// values converts named values back to positional ones.
func values(args []driver.NamedValue) ([]driver.Value, error) {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		if a.Name != "" {
			return nil, ErrNamedArgsUnsupported
		}
		out[i] = a.Value
	}
	return out, nil
}
