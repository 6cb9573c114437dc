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

package resolver

import (
	"database/sql/driver"

	"dirpx.dev/dbx/apis"
)

// Slot describes where the accessor of one handle capability H lives inside
// apis.Accessors. The four package-level slots are the only valid values.
type Slot[H any] struct {
	category apis.Category
	get      func(apis.Accessors) func(H) H
	set      func(*apis.Accessors, func(H) H)
}

// Category returns the category the slot belongs to.
func (s Slot[H]) Category() apis.Category {
	return s.category
}

var (
	// ConnSlot addresses the driver.Conn accessor.
	ConnSlot = Slot[driver.Conn]{
		category: apis.Conn,
		get:      func(a apis.Accessors) func(driver.Conn) driver.Conn { return a.Conn },
		set:      func(a *apis.Accessors, fn func(driver.Conn) driver.Conn) { a.Conn = fn },
	}
	// StmtSlot addresses the driver.Stmt accessor.
	StmtSlot = Slot[driver.Stmt]{
		category: apis.Stmt,
		get:      func(a apis.Accessors) func(driver.Stmt) driver.Stmt { return a.Stmt },
		set:      func(a *apis.Accessors, fn func(driver.Stmt) driver.Stmt) { a.Stmt = fn },
	}
	// RowsSlot addresses the driver.Rows accessor.
	RowsSlot = Slot[driver.Rows]{
		category: apis.Rows,
		get:      func(a apis.Accessors) func(driver.Rows) driver.Rows { return a.Rows },
		set:      func(a *apis.Accessors, fn func(driver.Rows) driver.Rows) { a.Rows = fn },
	}
	// TxSlot addresses the driver.Tx accessor.
	TxSlot = Slot[driver.Tx]{
		category: apis.Tx,
		get:      func(a apis.Accessors) func(driver.Tx) driver.Tx { return a.Tx },
		set:      func(a *apis.Accessors, fn func(driver.Tx) driver.Tx) { a.Tx = fn },
	}
)
