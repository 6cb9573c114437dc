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

// Narrow views v as a T. It reports false instead of panicking when v's
// dynamic type does not satisfy T. A nil v never narrows.
func Narrow[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Adapt turns a typed accessor into one that fits a slot of capability H.
//
// A handle that is not an O is returned unchanged, so the mismatch surfaces
// as an apis.ResolutionError when the result is narrowed. A result of fn
// that does not satisfy H (only possible for a nil interface) becomes the
// zero H. Panics raised by fn are not recovered.
func Adapt[O, I, H any](fn func(O) I) func(H) H {
	return func(h H) H {
		o, ok := Narrow[O](h)
		if !ok {
			return h
		}
		out, _ := Narrow[H](fn(o))
		return out
	}
}
