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

package dbx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrNilSQLConn is returned when a nil *sql.Conn is passed.
var ErrNilSQLConn = errors.New("dbx: nil *sql.Conn")

// ConfigureSQLConn runs ConfigureConn against the driver connection held by
// c. The driver connection is only valid for the duration of fn, as with
// (*sql.Conn).Raw.
func ConfigureSQLConn[T driver.Conn](c *sql.Conn, fn func(T) error) error {
	if c == nil {
		return ErrNilSQLConn
	}
	return c.Raw(func(raw any) error {
		dc, ok := raw.(driver.Conn)
		if !ok {
			return fmt.Errorf("dbx: %T is not a driver.Conn", raw)
		}
		_, err := ConfigureConn(dc, fn)
		return err
	})
}
