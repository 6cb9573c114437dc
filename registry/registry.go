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

package registry

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/dbx/apis"
)

// New constructs a Registry with identity accessors for every category.
func New(cfg apis.Config) apis.Registry {
	return NewWith(cfg, apis.Identity())
}

// NewWith constructs a Registry whose initial snapshot is acc.
// Nil slots of acc start as identity.
func NewWith(cfg apis.Config, acc apis.Accessors) apis.Registry {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &registry{log: log}
	s := acc.Complete()
	r.st.Store(&s)
	return r
}

// registry publishes immutable apis.Accessors snapshots.
// Readers load the pointer without locking; writers copy, modify and swap.
type registry struct {
	// log receives configuration events.
	log *zap.Logger
	// mu serializes writers so concurrent updates of different slots are not lost.
	mu sync.Mutex
	// st is the current snapshot. Never mutate a published value.
	st atomic.Pointer[apis.Accessors]
}

// Accessors returns the current snapshot.
func (r *registry) Accessors() apis.Accessors {
	return *r.st.Load()
}

// Update replaces the slot of category c with whatever apply assigns to it.
// Assignments to other slots are discarded.
func (r *registry) Update(c apis.Category, apply func(*apis.Accessors)) {
	if apply == nil || !c.Valid() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Work on a copy of the old snapshot.
	old := *r.st.Load()
	scratch := old
	apply(&scratch)
	next := old.With(c, scratch).Complete()
	r.st.Store(&next)

	r.log.Debug("dbx accessor configured",
		zap.Stringer("category", c),
		zap.String("capability", c.Capability()),
	)
}

// Reset restores identity accessors for all categories.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := apis.Identity()
	r.st.Store(&next)

	r.log.Debug("dbx accessors reset")
}
