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
	"database/sql/driver"
	"sync"
	"sync/atomic"

	"dirpx.dev/dbx/apis"
	"dirpx.dev/dbx/config"
	"dirpx.dev/dbx/registry"
	"dirpx.dev/dbx/resolver"
)

// init publishes the default state: default config, identity accessors.
func init() {
	cfg := config.DefaultConfig()
	st.Store(&state{cfg: cfg, reg: registry.New(cfg)})
}

// Registry returns the process-wide registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces the process-wide registry with reg.
// A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: reg, preg: true})
}

// Config returns the configuration of the process-wide registry.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig rebuilds the process-wide registry with cfg. Accessors that are
// currently configured are carried over.
//
// A registry installed with SetRegistry is kept as is; only the stored
// config changes.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if old.preg {
		st.Store(&state{cfg: cfg, reg: old.reg, preg: true})
		return
	}
	st.Store(&state{cfg: cfg, reg: registry.NewWith(cfg, old.reg.Accessors())})
}

// IsRegistryPinned reports whether the process-wide registry survives
// SetConfig unchanged.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes SetConfig keep the current registry instead of
// rebuilding it. SetRegistry pins implicitly.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg, preg: true})
}

// UnpinRegistry lets SetConfig rebuild the registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg, preg: false})
}

// Reset restores identity accessors for every category of the process-wide
// registry. Tests call it between cases to avoid leaking configuration.
func Reset() {
	Registry().Reset()
}

// ConfigureConnAccessor sets how an outer connection of type O is unwrapped
// into the connection of type I it decorates. It replaces any accessor set
// before for connections.
func ConfigureConnAccessor[O, I driver.Conn](fn func(O) I) {
	resolver.SetAccessor(Registry(), resolver.ConnSlot, fn)
}

// ConfigureStmtAccessor sets how an outer statement of type O is unwrapped
// into the statement of type I it decorates.
func ConfigureStmtAccessor[O, I driver.Stmt](fn func(O) I) {
	resolver.SetAccessor(Registry(), resolver.StmtSlot, fn)
}

// ConfigureRowsAccessor sets how outer rows of type O are unwrapped into
// the rows of type I they decorate.
func ConfigureRowsAccessor[O, I driver.Rows](fn func(O) I) {
	resolver.SetAccessor(Registry(), resolver.RowsSlot, fn)
}

// ConfigureTxAccessor sets how an outer transaction of type O is unwrapped
// into the transaction of type I it decorates.
func ConfigureTxAccessor[O, I driver.Tx](fn func(O) I) {
	resolver.SetAccessor(Registry(), resolver.TxSlot, fn)
}

// InnerConn returns the provider connection of type T underneath c.
// It fails with an *apis.ResolutionError when the configured accessor does
// not lead to a T.
func InnerConn[T driver.Conn](c driver.Conn) (T, error) {
	return resolver.Resolve[T](Registry(), resolver.ConnSlot, c)
}

// InnerStmt returns the provider statement of type T underneath s.
func InnerStmt[T driver.Stmt](s driver.Stmt) (T, error) {
	return resolver.Resolve[T](Registry(), resolver.StmtSlot, s)
}

// InnerRows returns the provider rows of type T underneath r.
func InnerRows[T driver.Rows](r driver.Rows) (T, error) {
	return resolver.Resolve[T](Registry(), resolver.RowsSlot, r)
}

// InnerTx returns the provider transaction of type T underneath tx.
func InnerTx[T driver.Tx](tx driver.Tx) (T, error) {
	return resolver.Resolve[T](Registry(), resolver.TxSlot, tx)
}

// ConfigureConn calls fn with the provider connection of type T underneath
// c and returns c for chaining. fn is not called when resolution fails, and
// an error from fn is returned unchanged.
func ConfigureConn[T driver.Conn](c driver.Conn, fn func(T) error) (driver.Conn, error) {
	return resolver.Configure(Registry(), resolver.ConnSlot, c, fn)
}

// ConfigureStmt calls fn with the provider statement of type T underneath s
// and returns s for chaining.
func ConfigureStmt[T driver.Stmt](s driver.Stmt, fn func(T) error) (driver.Stmt, error) {
	return resolver.Configure(Registry(), resolver.StmtSlot, s, fn)
}

// ConfigureRows calls fn with the provider rows of type T underneath r and
// returns r for chaining.
func ConfigureRows[T driver.Rows](r driver.Rows, fn func(T) error) (driver.Rows, error) {
	return resolver.Configure(Registry(), resolver.RowsSlot, r, fn)
}

// ConfigureTx calls fn with the provider transaction of type T underneath
// tx and returns tx for chaining.
func ConfigureTx[T driver.Tx](tx driver.Tx, fn func(T) error) (driver.Tx, error) {
	return resolver.Configure(Registry(), resolver.TxSlot, tx, fn)
}

// buildMu serializes writers of st so a snapshot is never published
// half-built.
var buildMu sync.Mutex

// st is the global dbx state.
var st atomic.Pointer[state]

// state is the global dbx state snapshot.
// Immutable once published; writers create a new state and swap it in.
type state struct {
	// cfg is the configuration reg was built with.
	cfg apis.Config
	// reg is the process-wide registry.
	reg apis.Registry
	// preg reports whether reg was installed with SetRegistry.
	preg bool
}
