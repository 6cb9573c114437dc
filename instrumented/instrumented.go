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

// Package instrumented decorates a database/sql driver with zap logging and
// prometheus metrics.
//
// Every decorated handle keeps the handle it wraps and returns it from
// Inner. Install registers the matching accessors with dbx so code holding
// an instrumented handle can reach the provider underneath:
//
//	instrumented.Install()
//	connector, err := instrumented.NewConnector(&sqlite.Driver{}, dsn)
//	...
//	db := sql.OpenDB(connector)
//	err := dbx.ConfigureSQLConn(conn, func(c execConn) error { ... })
package instrumented

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dirpx.dev/dbx/apis"
)

// Option configures the decorating driver.
type Option func(*options)

// WithLogger sets the logger receiving one debug entry per operation.
// A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.log = l
	}
}

// WithMetrics sets the collector that records operation counts and
// latencies. Without WithRegisterer, registering it is up to the caller.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRegisterer registers the driver's Metrics with reg, creating them when
// WithMetrics is not given. Metrics already registered with reg by another
// driver are shared. Any other registration failure panics, as
// prometheus.MustRegister does.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = reg
	}
}

// options is shared by a driver and every handle it hands out.
type options struct {
	log     *zap.Logger
	metrics *Metrics
	reg     prometheus.Registerer
}

func newOptions(opts []Option) *options {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.reg != nil {
		if o.metrics == nil {
			o.metrics = NewMetrics()
		}
		o.metrics = register(o.reg, o.metrics)
	}
	return o
}

// register adds m to reg and returns the collector the driver should use.
func register(reg prometheus.Registerer, m *Metrics) *Metrics {
	err := reg.Register(m)
	if err == nil {
		return m
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*Metrics); ok {
			return existing
		}
	}
	panic(err)
}

// record logs and measures a single operation that started at start.
func (o *options) record(c apis.Category, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	o.metrics.observe(c, op, elapsed, err)
	if ce := o.log.Check(zap.DebugLevel, "dbx instrumented operation"); ce != nil {
		ce.Write(
			zap.Stringer("category", c),
			zap.String("op", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	}
}
