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
	"github.com/bits-and-blooms/bitset"

	"github.com/onflow/jgen/errors"
)

// Erasure returns the erasure of the given type.
// Erasure is idempotent.
func (ts *TypeSystem) Erasure(t Type) Type {
	var erasing bitset.BitSet
	return ts.erasure(t, &erasing)
}

func (ts *TypeSystem) erasures(types []Type) []Type {
	if types == nil {
		return nil
	}
	result := make([]Type, len(types))
	for i, t := range types {
		result[i] = ts.Erasure(t)
	}
	return result
}

func (ts *TypeSystem) erasure(t Type, erasing *bitset.BitSet) Type {
	switch t := t.(type) {
	case *PrimitiveType, *NullType, *RawClass:
		return t

	case *ArrayType:
		element := ts.erasure(t.Element, erasing)
		if element == t.Element {
			return t
		}
		if t.VariableArity {
			return ts.VariableArityArrayType(element)
		}
		return NewArrayType(element)

	case *TypeVariable:
		id := uint(t.ID)
		if erasing.Test(id) {
			return ts.ObjectType
		}
		erasing.Set(id)
		defer erasing.Clear(id)

		bound := t.UpperBound()
		if intersection, ok := bound.(*IntersectionType); ok {
			bound = intersection.Bounds[0]
		}
		return ts.erasure(bound, erasing)

	case *IntersectionType:
		return ts.erasure(t.Bounds[0], erasing)

	case *WildcardType:
		if t.UpperBound == nil {
			return ts.ObjectType
		}
		return ts.erasure(t.UpperBound, erasing)

	case *InstantiatedClassType:
		return ts.ToRawType(t.Base)

	case *ClassType:
		return ts.ToRawType(t)

	case *LubType:
		return ts.erasure(ts.ComputeLub(t), erasing)
	}

	panic(errors.NewUnreachableError())
}

// ToRawType returns the raw class of a generic class, and recurses into array element types.
// Any other type is returned unchanged.
func (ts *TypeSystem) ToRawType(t Type) Type {
	switch t := t.(type) {
	case *ClassType:
		if t.CanBeRaw() {
			return ts.RawClass(t)
		}
		return t

	case *ArrayType:
		element := ts.ToRawType(t.Element)
		if element == t.Element {
			return t
		}
		return NewArrayType(element)
	}

	return t
}

// ErasureSubstitution returns the raw substitution which maps
// the class's own and enclosing type variables to their erasures.
func (ts *TypeSystem) ErasureSubstitution(class *ClassType) *Substitution {
	if class.erasureSubstitution != nil {
		return class.erasureSubstitution
	}

	variables := class.ClassAndEnclosingTypeVariables()
	erasures := make([]Type, len(variables))
	for i, variable := range variables {
		erasures[i] = ts.Erasure(variable)
	}

	subst := NewSubstitution(ts, variables, erasures)
	subst.rawBase = class

	class.erasureSubstitution = subst
	return subst
}

// ProcedureErasureSubstitution returns the substitution which maps the procedure's
// own type parameters to their erasures, or nil if the procedure is not generic.
func (ts *TypeSystem) ProcedureErasureSubstitution(procedure *Procedure) *Substitution {
	if len(procedure.TypeParameters) == 0 {
		return nil
	}

	erasures := make([]Type, len(procedure.TypeParameters))
	for i, parameter := range procedure.TypeParameters {
		erasures[i] = ts.Erasure(parameter)
	}

	return NewSubstitution(ts, procedure.TypeParameters, erasures)
}

// Erased returns the instantiation of the raw class's base with the erasures
// of its type variables. Members of the raw class are the members of this instantiation.
func (ts *TypeSystem) Erased(raw *RawClass) *InstantiatedClassType {
	if raw.erased == nil {
		raw.erased = ts.InstantiateWith(raw.Base, ts.ErasureSubstitution(raw.Base))
	}
	return raw.erased
}

// IsReifiable returns true if the type is fully available at run time:
// it is not a type variable, and if it is parameterized,
// all its type arguments are unbounded wildcards.
func (ts *TypeSystem) IsReifiable(t Type) bool {
	switch t := t.(type) {
	case *PrimitiveType, *NullType, *RawClass:
		return true

	case *ClassType:
		return !t.CanBeRaw()

	case *ArrayType:
		return ts.IsReifiable(t.Element)

	case *InstantiatedClassType:
		for _, argument := range t.AllTypeArguments() {
			wildcard, ok := argument.(*WildcardType)
			if !ok || !wildcard.IsExtends() || !ts.isObject(wildcard.UpperBound) {
				return false
			}
		}
		return true

	case *TypeVariable, *WildcardType, *IntersectionType, *LubType:
		return false
	}

	panic(errors.NewUnreachableError())
}
