/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sema

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/onflow/jgen/errors"
)

// typeWriter renders types.
//
// Captured variables are rendered with the wildcard they stand for,
// but only once per nesting, as their bound may mention them.
type typeWriter struct {
	builder  strings.Builder
	expanded bitset.BitSet
	// keyed writers produce unique strings, usable as map keys
	keyed bool
}

func typeString(t Type) string {
	var w typeWriter
	w.writeType(t)
	return w.builder.String()
}

// typeKey returns a string which identifies the type up to equality.
func typeKey(t Type) string {
	w := typeWriter{keyed: true}
	w.writeType(t)
	return w.builder.String()
}

func (w *typeWriter) writeType(t Type) {
	switch t := t.(type) {
	case *PrimitiveType:
		w.builder.WriteString(t.name)

	case *NullType:
		w.builder.WriteString("null")

	case *ArrayType:
		w.writeType(t.Element)
		w.builder.WriteString("[]")

	case *ClassType:
		w.builder.WriteString(t.QualifiedName)

	case *RawClass:
		if w.keyed {
			w.builder.WriteString("raw ")
		}
		w.builder.WriteString(t.Base.QualifiedName)

	case *InstantiatedClassType:
		w.writeInstantiated(t.Base, t)

	case *TypeVariable:
		w.writeTypeVariable(t)

	case *WildcardType:
		w.writeWildcard(t)

	case *IntersectionType:
		w.writeTypes(t.Bounds, " & ")

	case *LubType:
		w.builder.WriteString("lub(")
		w.writeTypes(t.Elements, ", ")
		w.builder.WriteByte(')')

	default:
		panic(errors.NewUnreachableError())
	}
}

func (w *typeWriter) writeTypes(types []Type, separator string) {
	for i, t := range types {
		if i > 0 {
			w.builder.WriteString(separator)
		}
		w.writeType(t)
	}
}

func (w *typeWriter) writeInstantiated(class *ClassType, t *InstantiatedClassType) {
	if class.IsInner() && class.Outer.CanBeRaw() {
		w.writeInstantiated(class.Outer, t)
		w.builder.WriteByte('.')
		w.builder.WriteString(class.SimpleName())
	} else {
		w.builder.WriteString(class.QualifiedName)
	}

	if len(class.TypeParameters) == 0 {
		return
	}

	w.builder.WriteByte('<')
	for i, parameter := range class.TypeParameters {
		if i > 0 {
			w.builder.WriteString(", ")
		}
		if actual, ok := t.Subst.Lookup(parameter); ok {
			w.writeType(actual)
		} else {
			w.writeTypeVariable(parameter)
		}
	}
	w.builder.WriteByte('>')
}

func (w *typeWriter) writeTypeVariable(v *TypeVariable) {
	w.builder.WriteString(v.Name)

	if w.keyed {
		w.builder.WriteByte('#')
		w.builder.WriteString(strconv.FormatUint(uint64(v.ID), 10))
		return
	}

	if v.Capture == nil || w.expanded.Test(uint(v.ID)) {
		return
	}

	w.expanded.Set(uint(v.ID))
	defer w.expanded.Clear(uint(v.ID))

	w.builder.WriteString(" of ")
	w.writeWildcard(v.Capture)
}

func (w *typeWriter) writeWildcard(t *WildcardType) {
	w.builder.WriteByte('?')
	switch {
	case t.LowerBound != nil:
		w.builder.WriteString(" super ")
		w.writeType(t.LowerBound)

	case t.UpperBound != nil && !isTopType(t.UpperBound):
		w.builder.WriteString(" extends ")
		w.writeType(t.UpperBound)
	}
}

// isTopType returns true if the type is the root of the class hierarchy.
func isTopType(t Type) bool {
	class, ok := t.(*ClassType)
	return ok && class.QualifiedName == ObjectTypeName
}
