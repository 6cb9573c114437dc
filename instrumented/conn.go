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
	"time"

	"dirpx.dev/dbx/apis"
)

var (
	// ErrIsolationUnsupported is returned by BeginTx when the decorated
	// connection cannot honor a non-default isolation level.
	ErrIsolationUnsupported = errors.New("dbx(instrumented): driver does not support non-default isolation level")
	// ErrReadOnlyUnsupported is returned by BeginTx when the decorated
	// connection cannot open read-only transactions.
	ErrReadOnlyUnsupported = errors.New("dbx(instrumented): driver does not support read-only transactions")
)

// Conn decorates a driver.Conn.
//
// Only the base capabilities and the context-aware prepare/begin variants
// are exposed. Provider extensions of the decorated connection are reached
// through Inner, typically via dbx.InnerConn.
type Conn struct {
	inner driver.Conn
	o     *options
}

var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
)

func newConn(c driver.Conn, o *options) *Conn {
	return &Conn{inner: c, o: o}
}

// Inner returns the decorated connection.
func (c *Conn) Inner() driver.Conn {
	if c == nil {
		return nil
	}
	return c.inner
}

func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	start := time.Now()
	var (
		s   driver.Stmt
		err error
	)
	if pc, ok := c.inner.(driver.ConnPrepareContext); ok {
		s, err = pc.PrepareContext(ctx, query)
	} else {
		s, err = c.inner.Prepare(query)
	}
	c.o.record(apis.Conn, "prepare", start, err)
	if err != nil {
		return nil, err
	}
	return newStmt(s, c, c.o), nil
}

// CheckNamedValue defers argument conversion to the decorated connection.
// It returns driver.ErrSkip when that connection does not check arguments,
// so database/sql applies its default conversion.
func (c *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	if nc, ok := c.inner.(driver.NamedValueChecker); ok {
		return nc.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

func (c *Conn) Close() error {
	start := time.Now()
	err := c.inner.Close()
	c.o.record(apis.Conn, "close", start, err)
	return err
}

// Begin starts a transaction with default options.
func (c *Conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	start := time.Now()
	tx, err := c.beginTx(ctx, opts)
	c.o.record(apis.Conn, "begin", start, err)
	if err != nil {
		return nil, err
	}
	return newTx(tx, c.o), nil
}

func (c *Conn) beginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if bt, ok := c.inner.(driver.ConnBeginTx); ok {
		return bt.BeginTx(ctx, opts)
	}
	// Same restrictions database/sql applies to legacy drivers.
	if opts.Isolation != driver.IsolationLevel(0) {
		return nil, ErrIsolationUnsupported
	}
	if opts.ReadOnly {
		return nil, ErrReadOnlyUnsupported
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.inner.Begin()
}
