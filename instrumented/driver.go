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
	"time"

	"dirpx.dev/dbx/apis"
)

// Driver decorates a driver.Driver; every connection it opens is a *Conn.
type Driver struct {
	inner driver.Driver
	o     *options
}

var (
	_ driver.Driver        = (*Driver)(nil)
	_ driver.DriverContext = (*Driver)(nil)
)

// Wrap decorates d.
func Wrap(d driver.Driver, opts ...Option) *Driver {
	return &Driver{inner: d, o: newOptions(opts)}
}

// NewConnector decorates d and opens a connector for dsn, suitable for
// sql.OpenDB.
func NewConnector(d driver.Driver, dsn string, opts ...Option) (driver.Connector, error) {
	return Wrap(d, opts...).OpenConnector(dsn)
}

// Inner returns the decorated driver.
func (d *Driver) Inner() driver.Driver {
	return d.inner
}

// Open opens a connection through the decorated driver.
func (d *Driver) Open(name string) (driver.Conn, error) {
	start := time.Now()
	c, err := d.inner.Open(name)
	d.o.record(apis.Conn, "open", start, err)
	if err != nil {
		return nil, err
	}
	return newConn(c, d.o), nil
}

// OpenConnector implements driver.DriverContext. It uses the decorated
// driver's connector when it provides one.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	if dc, ok := d.inner.(driver.DriverContext); ok {
		c, err := dc.OpenConnector(name)
		if err != nil {
			return nil, err
		}
		return &connector{inner: c, d: d}, nil
	}
	return &connector{inner: dsnConnector{dsn: name, d: d.inner}, d: d}, nil
}

// connector decorates the connections produced by inner.
type connector struct {
	inner driver.Connector
	d     *Driver
}

func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	start := time.Now()
	conn, err := c.inner.Connect(ctx)
	c.d.o.record(apis.Conn, "open", start, err)
	if err != nil {
		return nil, err
	}
	return newConn(conn, c.d.o), nil
}

func (c *connector) Driver() driver.Driver {
	return c.d
}

// dsnConnector adapts a driver without DriverContext.
type dsnConnector struct {
	dsn string
	d   driver.Driver
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) {
	return c.d.Open(c.dsn)
}

func (c dsnConnector) Driver() driver.Driver {
	return c.d
}
