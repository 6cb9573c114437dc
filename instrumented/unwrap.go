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
	"database/sql/driver"

	"dirpx.dev/dbx"
)

// UnwrapConn is the connection accessor for *Conn.
func UnwrapConn(c *Conn) driver.Conn { return c.Inner() }

// UnwrapStmt is the statement accessor for *Stmt.
func UnwrapStmt(s *Stmt) driver.Stmt { return s.Inner() }

// UnwrapRows is the rows accessor for *Rows.
func UnwrapRows(r *Rows) driver.Rows { return r.Inner() }

// UnwrapTx is the transaction accessor for *Tx.
func UnwrapTx(t *Tx) driver.Tx { return t.Inner() }

// Install registers the accessors of this package with the dbx
// process-wide registry, replacing whatever was configured before.
func Install() {
	dbx.ConfigureConnAccessor(UnwrapConn)
	dbx.ConfigureStmtAccessor(UnwrapStmt)
	dbx.ConfigureRowsAccessor(UnwrapRows)
	dbx.ConfigureTxAccessor(UnwrapTx)
}
