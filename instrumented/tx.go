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
	"time"

	"dirpx.dev/dbx/apis"
)

// Tx decorates a driver.Tx.
type Tx struct {
	inner driver.Tx
	o     *options
}

var _ driver.Tx = (*Tx)(nil)

func newTx(tx driver.Tx, o *options) *Tx {
	return &Tx{inner: tx, o: o}
}

// Inner returns the decorated transaction.
func (t *Tx) Inner() driver.Tx {
	if t == nil {
		return nil
	}
	return t.inner
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.inner.Commit()
	t.o.record(apis.Tx, "commit", start, err)
	return err
}

func (t *Tx) Rollback() error {
	start := time.Now()
	err := t.inner.Rollback()
	t.o.record(apis.Tx, "rollback", start, err)
	return err
}
