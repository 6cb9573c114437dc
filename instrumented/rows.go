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
	"errors"
	"io"
	"time"

	"dirpx.dev/dbx/apis"
)

// Rows decorates a driver.Rows.
type Rows struct {
	inner driver.Rows
	o     *options
}

var _ driver.Rows = (*Rows)(nil)

func newRows(r driver.Rows, o *options) *Rows {
	return &Rows{inner: r, o: o}
}

// Inner returns the decorated rows.
func (r *Rows) Inner() driver.Rows {
	if r == nil {
		return nil
	}
	return r.inner
}

func (r *Rows) Columns() []string {
	return r.inner.Columns()
}

func (r *Rows) Close() error {
	start := time.Now()
	err := r.inner.Close()
	r.o.record(apis.Rows, "close", start, err)
	return err
}

// Next advances to the next row. io.EOF ends the result set and is recorded
// as a successful operation.
func (r *Rows) Next(dest []driver.Value) error {
	start := time.Now()
	err := r.inner.Next(dest)
	rec := err
	if errors.Is(err, io.EOF) {
		rec = nil
	}
	r.o.record(apis.Rows, "next", start, rec)
	return err
}
