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

import (
	"fmt"
	"strings"
)

// Category identifies one of the four driver handle capabilities that carry
// an independent accessor slot.
//
// The set is closed: adding a category means extending Accessors and the
// registry implementations with it.
type Category int

const (
	// Conn is the driver.Conn category (connections).
	Conn Category = iota
	// Stmt is the driver.Stmt category (prepared commands).
	Stmt
	// Rows is the driver.Rows category (data readers).
	Rows
	// Tx is the driver.Tx category (transactions).
	Tx
)

// Categories lists every known category in declaration order.
func Categories() []Category {
	return []Category{Conn, Stmt, Rows, Tx}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= Conn && c <= Tx
}

// String returns the short stable token of the category ("Conn", "Stmt",
// "Rows", "Tx"). Unknown values render as "Unknown(<n>)" and never panic.
func (c Category) String() string {
	switch c {
	case Conn:
		return "Conn"
	case Stmt:
		return "Stmt"
	case Rows:
		return "Rows"
	case Tx:
		return "Tx"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Capability returns the qualified name of the driver interface the
// category's handles satisfy, e.g. "driver.Conn".
func (c Category) Capability() string {
	if !c.Valid() {
		return c.String()
	}
	return "driver." + c.String()
}

// AccessorFunc returns the name of the dbx function that configures the
// accessor of this category, e.g. "ConfigureConnAccessor".
func (c Category) AccessorFunc() string {
	if !c.Valid() {
		return c.String()
	}
	return "Configure" + c.String() + "Accessor"
}

// ParseCategory converts s into a Category. Matching is case-insensitive and
// accepts both the short tokens and the long names ("connection", "command",
// "datareader", "reader", "transaction").
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Conn, fmt.Errorf("dbx(apis): empty category")
	}

	switch strings.ToLower(trimmed) {
	case "conn", "connection":
		return Conn, nil
	case "stmt", "command", "statement":
		return Stmt, nil
	case "rows", "reader", "datareader":
		return Rows, nil
	case "tx", "transaction":
		return Tx, nil
	default:
		return Conn, fmt.Errorf("dbx(apis): unknown category %q", s)
	}
}

// MustParseCategory is like ParseCategory but panics on error.
func MustParseCategory(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("dbx(apis): cannot marshal unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
