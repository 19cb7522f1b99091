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
	"github.com/onflow/jgen/errors"
)

// Boxing returns the wrapper class of the given primitive type,
// or nil for void.
func (ts *TypeSystem) Boxing(primitiveType *PrimitiveType) *ClassType {
	if primitiveType.wrapperName == "" {
		return nil
	}
	return ts.wrapperClass(primitiveType)
}

// Unboxing returns the primitive type wrapped by the given class-like type,
// or nil if the type is not a wrapper class.
func (ts *TypeSystem) Unboxing(t Type) *PrimitiveType {
	class, ok := t.(*ClassType)
	if !ok {
		return nil
	}
	for _, primitiveType := range AllPrimitiveTypes {
		if primitiveType.wrapperName == class.QualifiedName {
			return primitiveType
		}
	}
	return nil
}

// primitiveWidenings are the widening primitive conversions,
// by source kind.
var primitiveWidenings = map[PrimitiveKind][]PrimitiveKind{
	PrimitiveKindByte: {
		PrimitiveKindShort,
		PrimitiveKindInt,
		PrimitiveKindLong,
		PrimitiveKindFloat,
		PrimitiveKindDouble,
	},
	PrimitiveKindShort: {
		PrimitiveKindInt,
		PrimitiveKindLong,
		PrimitiveKindFloat,
		PrimitiveKindDouble,
	},
	PrimitiveKindChar: {
		PrimitiveKindInt,
		PrimitiveKindLong,
		PrimitiveKindFloat,
		PrimitiveKindDouble,
	},
	PrimitiveKindInt: {
		PrimitiveKindLong,
		PrimitiveKindFloat,
		PrimitiveKindDouble,
	},
	PrimitiveKindLong: {
		PrimitiveKindFloat,
		PrimitiveKindDouble,
	},
	PrimitiveKindFloat: {
		PrimitiveKindDouble,
	},
}

// isPrimitiveWidening returns true if from widens to to, or both are the same type.
func (ts *TypeSystem) isPrimitiveWidening(from, to *PrimitiveType) bool {
	if from == to {
		return !from.IsVoid()
	}
	for _, kind := range primitiveWidenings[from.Kind] {
		if kind == to.Kind {
			return true
		}
	}
	return false
}

// ImplicitCastChain returns the chain of conversions which converts
// a value of type from to type to, starting with from and ending with to,
// or nil if there is no implicit conversion.
//
// Boxing and unboxing conversions contribute the wrapper class
// or primitive type as an intermediate step.
func (ts *TypeSystem) ImplicitCastChain(from, to Type) []Type {
	switch from := from.(type) {
	case *PrimitiveType:
		if toPrimitive, ok := to.(*PrimitiveType); ok {
			if ts.isPrimitiveWidening(from, toPrimitive) {
				return []Type{from, to}
			}
			return nil
		}

		wrapper := ts.Boxing(from)
		if wrapper == nil {
			return nil
		}
		chain := ts.ImplicitCastChain(wrapper, to)
		if chain == nil {
			return nil
		}
		return append([]Type{from}, chain...)

	case *NullType:
		if IsReferenceType(to) {
			return []Type{from, to}
		}
		return nil

	case *ClassType, *InstantiatedClassType, *RawClass, *ArrayType, *WildcardType:
		if ts.IsSubtype(from, to) {
			return []Type{from, to}
		}
		toPrimitive, ok := to.(*PrimitiveType)
		if !ok {
			return nil
		}
		unboxed := ts.Unboxing(from)
		if unboxed == nil {
			return nil
		}
		chain := ts.ImplicitCastChain(unboxed, toPrimitive)
		if chain == nil {
			return nil
		}
		return append([]Type{from}, chain...)

	case *TypeVariable:
		if ts.IsSubtype(from, to) {
			return []Type{from, to}
		}
		if ts.IsImplicitCastValid(from.UpperBound(), to) {
			return []Type{from, to}
		}
		return nil

	case *IntersectionType:
		for _, bound := range from.Bounds {
			if ts.IsImplicitCastValid(bound, to) {
				return []Type{from, to}
			}
		}
		return nil

	case *LubType:
		for _, element := range from.Elements {
			if !ts.IsImplicitCastValid(element, to) {
				return nil
			}
		}
		return []Type{from, to}
	}

	panic(errors.NewUnreachableError())
}

// IsImplicitCastValid returns true if a value of type from
// can be assigned to a variable of type to.
//
// An unchecked conversion to a parameterized type is allowed
// if the conversion to its raw type is.
// A chain of conversions with two parameterized types which
// are not related by subtyping is invalid.
func (ts *TypeSystem) IsImplicitCastValid(from, to Type) bool {
	chain := ts.ImplicitCastChain(from, to)

	if chain == nil {
		if toInstantiated, ok := to.(*InstantiatedClassType); ok {
			chain = ts.ImplicitCastChain(from, ts.RawClass(toInstantiated.Base))
			if chain != nil {
				chain = append(chain, to)
			}
		}
	}

	if chain == nil {
		return false
	}

	for i, t := range chain {
		if _, ok := t.(*InstantiatedClassType); !ok {
			continue
		}
		for _, u := range chain[i+1:] {
			if _, ok := u.(*InstantiatedClassType); !ok {
				continue
			}
			if !ts.IsSubtype(t, u) {
				return false
			}
		}
	}

	return true
}

// IsCastValid returns true if a value of type from
// can be explicitly cast to type to.
func (ts *TypeSystem) IsCastValid(from, to Type) bool {
	if from.Equal(to) {
		return true
	}

	fromPrimitive, fromIsPrimitive := from.(*PrimitiveType)
	toPrimitive, toIsPrimitive := to.(*PrimitiveType)

	switch {
	case fromIsPrimitive && toIsPrimitive:
		return fromPrimitive.IsNumeric() && toPrimitive.IsNumeric()

	case fromIsPrimitive:
		return ts.IsImplicitCastValid(from, to)

	case toIsPrimitive:
		unboxed := ts.Unboxing(from)
		if unboxed == nil {
			return false
		}
		return ts.isPrimitiveWidening(unboxed, toPrimitive)
	}

	if ts.IsSubtype(from, to) || ts.IsSubtype(to, from) {
		return true
	}

	if toVariable, ok := to.(*TypeVariable); ok {
		return ts.IsCastValid(from, toVariable.UpperBound())
	}

	switch from := from.(type) {
	case *NullType:
		return true

	case *ClassType, *InstantiatedClassType, *RawClass:
		if isInterfaceType(from) {
			return ts.isCastValidFromInterface(from, to)
		}
		return ts.isCastValidFromClass(from, to)

	case *TypeVariable:
		return ts.IsCastValid(from.UpperBound(), to)

	case *WildcardType:
		return ts.IsCastValid(from.UpperBound, to)

	case *ArrayType:
		return ts.isCastValidFromArray(from, to)

	case *IntersectionType:
		for _, bound := range from.Bounds {
			if ts.IsCastValid(bound, to) {
				return true
			}
		}
		return false

	case *LubType:
		for _, element := range from.Elements {
			if !ts.IsCastValid(element, to) {
				return false
			}
		}
		return true
	}

	panic(errors.NewUnreachableError())
}

func (ts *TypeSystem) isCastValidFromClass(from Type, to Type) bool {
	toClass, ok := classOf(to)
	if !ok {
		return false
	}

	if !toClass.IsInterface() {
		erasedFrom := ts.Erasure(from)
		erasedTo := ts.Erasure(to)
		return ts.IsSubtype(erasedFrom, erasedTo) ||
			ts.IsSubtype(erasedTo, erasedFrom)
	}

	fromClass, _ := classOf(from)
	if fromClass.IsFinal() {
		return ts.IsSubtype(ts.Erasure(from), ts.Erasure(to))
	}

	return !ts.haveProvablyDistinctSupertypes(from, to)
}

func (ts *TypeSystem) isCastValidFromInterface(from Type, to Type) bool {
	toClass, ok := classOf(to)
	if !ok {
		// Arrays only implement the interfaces they are subtypes of
		return false
	}

	if !toClass.IsFinal() {
		return !ts.haveProvablyDistinctSupertypes(from, to)
	}

	switch from := from.(type) {
	case *InstantiatedClassType, *RawClass:
		// The final class must implement an invocation of the generic interface
		fromClass, _ := classOf(from)
		supertype := ts.FindGenericSupertype(fromClass, to)
		if supertype == nil {
			return false
		}
		fromInstantiated, ok := from.(*InstantiatedClassType)
		if !ok {
			return true
		}
		supertypeInstantiated, ok := supertype.(*InstantiatedClassType)
		return !ok || !ts.areProvablyDistinct(fromInstantiated, supertypeInstantiated)

	default:
		return ts.IsSubtype(to, from)
	}
}

func (ts *TypeSystem) isCastValidFromArray(from *ArrayType, to Type) bool {
	switch to := to.(type) {
	case *ClassType:
		return ts.isObject(to) ||
			to == ts.CloneableType ||
			to == ts.SerializableType

	case *ArrayType:
		if IsPrimitiveType(from.Element) {
			return from.Element.Equal(to.Element)
		}
		if IsReferenceType(from.Element) && IsReferenceType(to.Element) {
			return ts.IsCastValid(from.Element, to.Element)
		}
	}
	return false
}

// haveProvablyDistinctSupertypes returns true if the two types have
// supertypes which are provably distinct parameterizations
// of the same generic class.
func (ts *TypeSystem) haveProvablyDistinctSupertypes(first, second Type) bool {
	secondAncestors := ts.AllAncestors(second)
	for _, x := range ts.AllAncestors(first) {
		xInstantiated, ok := x.(*InstantiatedClassType)
		if !ok {
			continue
		}
		for _, y := range secondAncestors {
			yInstantiated, ok := y.(*InstantiatedClassType)
			if !ok || xInstantiated.Base != yInstantiated.Base {
				continue
			}
			if ts.areProvablyDistinct(xInstantiated, yInstantiated) {
				return true
			}
		}
	}
	return false
}

// areProvablyDistinct returns true if the two parameterized types are
// invocations of different generic classes, or if any pair of corresponding
// type arguments are provably distinct: neither is a type variable or wildcard,
// and they are not the same type.
func (ts *TypeSystem) areProvablyDistinct(first, second *InstantiatedClassType) bool {
	if first.Base != second.Base {
		return true
	}

	firstArguments := first.AllTypeArguments()
	secondArguments := second.AllTypeArguments()
	if len(firstArguments) != len(secondArguments) {
		return true
	}

	for i, firstArgument := range firstArguments {
		secondArgument := secondArguments[i]
		if isTypeVariableOrWildcard(firstArgument) || isTypeVariableOrWildcard(secondArgument) {
			continue
		}
		if !firstArgument.Equal(secondArgument) {
			return true
		}
	}
	return false
}

func isTypeVariableOrWildcard(t Type) bool {
	switch t.(type) {
	case *TypeVariable, *WildcardType:
		return true
	}
	return false
}

// IsUncheckedConversion returns true if from is a raw class
// and to is a parameterization of the same generic class.
func (ts *TypeSystem) IsUncheckedConversion(from, to Type) bool {
	raw, ok := from.(*RawClass)
	if !ok {
		return false
	}
	instantiated, ok := to.(*InstantiatedClassType)
	return ok && instantiated.Base == raw.Base
}

// AreReturnTypeSubstitutable returns true if a method with return type ri
// may override or implement a method with return type rj.
func (ts *TypeSystem) AreReturnTypeSubstitutable(ri, rj Type) bool {
	if primitiveType, ok := ri.(*PrimitiveType); ok {
		if primitiveType.IsVoid() {
			return IsVoidType(rj)
		}
		return ri.Equal(rj)
	}

	return ts.IsSubtype(ri, rj) ||
		ts.IsUncheckedConversion(ri, rj) ||
		ts.IsSubtype(ri, ts.Erasure(rj))
}

// IsVoidType returns true if the type is the void type.
func IsVoidType(t Type) bool {
	primitiveType, ok := t.(*PrimitiveType)
	return ok && primitiveType.IsVoid()
}
