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
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnresolvable is matched by every *ResolutionError via errors.Is.
var ErrUnresolvable = errors.New("dbx: handle cannot be narrowed to the requested type")

// ResolutionError reports that the accessor of Category produced a value
// that does not satisfy the Requested type.
type ResolutionError struct {
	// Category is the handle category that was resolved.
	Category Category
	// Handle is the runtime type of the handle passed in (nil for a nil handle).
	Handle reflect.Type
	// Inner is the runtime type returned by the accessor (nil for a nil result).
	Inner reflect.Type
	// Requested is the type the caller asked for.
	Requested reflect.Type
}

// Error names the requested type, the actual handle type and the accessor
// registration that would fix the mismatch.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dbx: cannot resolve %s %s as %s",
		e.Category.Capability(), TypeName(e.Handle), TypeName(e.Requested))
	if e.Inner != e.Handle {
		fmt.Fprintf(&b, " (accessor returned %s)", TypeName(e.Inner))
	}
	fmt.Fprintf(&b, "; register an accessor with dbx.%s[%s, %s](...)",
		e.Category.AccessorFunc(), TypeName(e.Handle), TypeName(e.Requested))
	return b.String()
}

// Is reports whether target is ErrUnresolvable.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolvable
}

// TypeName renders t the way Go source spells it ("*stdlib.Conn",
// "driver.Conn"), or "<nil>" for a nil type.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
