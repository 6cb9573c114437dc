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
	"reflect"

	"dirpx.dev/dbx/apis"
)

// SetAccessor installs fn as the accessor of slot s in reg, replacing the
// previous one. A nil fn restores identity for that slot.
func SetAccessor[O, I, H any](reg apis.Registry, s Slot[H], fn func(O) I) {
	var acc func(H) H
	if fn != nil {
		acc = Adapt[O, I, H](fn)
	}
	reg.Update(s.category, func(a *apis.Accessors) {
		s.set(a, acc)
	})
}

// Resolve runs the current accessor of slot s on h and narrows the result
// to T. It never mutates h.
func Resolve[T, H any](reg apis.Registry, s Slot[H], h H) (T, error) {
	inner := s.get(reg.Accessors())(h)
	if t, ok := Narrow[T](inner); ok {
		return t, nil
	}
	var zero T
	return zero, &apis.ResolutionError{
		Category:  s.category,
		Handle:    typeOf(h),
		Inner:     typeOf(inner),
		Requested: reflect.TypeOf((*T)(nil)).Elem(),
	}
}

// Configure resolves h as a T, calls fn with it once, and returns h so the
// caller can keep chaining on the original handle.
//
// When resolution fails fn is not called. Errors returned by fn are passed
// through as is.
func Configure[T, H any](reg apis.Registry, s Slot[H], h H, fn func(T) error) (H, error) {
	var zero H
	t, err := Resolve[T](reg, s, h)
	if err != nil {
		return zero, err
	}
	if fn != nil {
		if err := fn(t); err != nil {
			return zero, err
		}
	}
	return h, nil
}

// typeOf returns the dynamic type of v, or nil for a nil interface.
func typeOf(v any) reflect.Type {
	return reflect.TypeOf(v)
}
