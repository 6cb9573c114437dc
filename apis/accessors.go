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

package apis

import "database/sql/driver"

// ConnAccessor steps from an outer connection to the connection it wraps.
type ConnAccessor func(driver.Conn) driver.Conn

// StmtAccessor steps from an outer statement to the statement it wraps.
type StmtAccessor func(driver.Stmt) driver.Stmt

// RowsAccessor steps from an outer result set to the result set it wraps.
type RowsAccessor func(driver.Rows) driver.Rows

// TxAccessor steps from an outer transaction to the transaction it wraps.
type TxAccessor func(driver.Tx) driver.Tx

// Accessors is the set of accessor functions, one slot per Category.
// It is passed by value; a published snapshot must not be modified.
type Accessors struct {
	Conn ConnAccessor
	Stmt StmtAccessor
	Rows RowsAccessor
	Tx   TxAccessor
}

// Identity returns accessors that hand every handle back unchanged.
func Identity() Accessors {
	return Accessors{
		Conn: func(c driver.Conn) driver.Conn { return c },
		Stmt: func(s driver.Stmt) driver.Stmt { return s },
		Rows: func(r driver.Rows) driver.Rows { return r },
		Tx:   func(t driver.Tx) driver.Tx { return t },
	}
}

// Complete returns a copy of a with every nil slot set to identity.
func (a Accessors) Complete() Accessors {
	id := Identity()
	if a.Conn == nil {
		a.Conn = id.Conn
	}
	if a.Stmt == nil {
		a.Stmt = id.Stmt
	}
	if a.Rows == nil {
		a.Rows = id.Rows
	}
	if a.Tx == nil {
		a.Tx = id.Tx
	}
	return a
}

// With returns a copy of a whose slot for c is taken from src. An invalid
// category leaves a unchanged.
func (a Accessors) With(c Category, src Accessors) Accessors {
	switch c {
	case Conn:
		a.Conn = src.Conn
	case Stmt:
		a.Stmt = src.Stmt
	case Rows:
		a.Rows = src.Rows
	case Tx:
		a.Tx = src.Tx
	}
	return a
}
