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

// Registry holds the active accessor of every Category.
// Implementations must be safe for concurrent Accessors calls.
type Registry interface {
	// Accessors returns the current snapshot. Every slot is non-nil.
	Accessors() Accessors
	// Update replaces the slot of category c. apply receives a copy of the
	// current snapshot; only its assignment to the slot of c is kept, and a
	// slot left nil reverts to identity. An invalid c is ignored.
	Update(c Category, apply func(*Accessors))
	// Reset restores identity accessors for all categories.
	Reset()
}
