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

// Package dbx exposes the provider-specific implementation that sits under
// wrapped database/sql driver handles.
//
// Instrumentation layers commonly decorate a driver's connections,
// statements, rows and transactions. Code that holds such a handle and needs
// a provider capability (a pgx connection, a SQLite extension method, ...)
// asks dbx to resolve the handle as a concrete type:
//
//	pc, err := dbx.InnerConn[*stdlib.Conn](conn)
//
// or to run a callback against it and continue with the original handle:
//
//	conn, err = dbx.ConfigureConn(conn, func(pc *stdlib.Conn) error {
//	    pc.Conn().TypeMap().RegisterDefaultPgType(...)
//	    return nil
//	})
//
// # Accessors
//
// dbx does not know the shape of the wrappers. The application tells it once,
// at startup, how to step from an outer handle to the one it wraps:
//
//	dbx.ConfigureConnAccessor(func(c *instrumented.Conn) driver.Conn { return c.Inner() })
//
// There is one accessor per category (Conn, Stmt, Rows, Tx). Each starts as
// identity, which is correct when handles are not wrapped at all. Configuring
// a category replaces its accessor; the other categories are unaffected.
// Reset restores identity everywhere.
//
// # Resolution
//
// InnerConn/InnerStmt/InnerRows/InnerTx apply the category's accessor and
// then narrow the result with a type assertion. When the result is not of
// the requested type, an *apis.ResolutionError is returned. Its message names
// the requested type, the actual handle type and the ConfigureXAccessor call
// that would fix the mismatch. ConfigureConn and friends resolve, call the
// callback exactly once and return the original handle.
//
// # Concurrency model
//
// The accessors live in an immutable snapshot published through an atomic
// pointer. Resolution is lock-free; configuration takes a short mutex and
// swaps in a new snapshot. A resolution that happens after a configuration
// call returned observes it. Configuration is meant for startup and test
// setup; racing it against in-flight resolution yields either the old or the
// new accessor.
//
// # Injection
//
// The process-wide registry is a convenience. The registry and resolver
// packages work on any apis.Registry, so components that want their own
// accessors build one with registry.New and call resolver.Resolve and
// resolver.Configure directly, or install it with SetRegistry. An installed
// registry is pinned: SetConfig keeps it and only records the new config,
// until UnpinRegistry is called.
package dbx
