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
	"github.com/onflow/jgen/common/orderedmap"
	"github.com/onflow/jgen/errors"
)

// IsSubtype returns true if t1 is a subtype of t2.
func (ts *TypeSystem) IsSubtype(t1, t2 Type) bool {
	if t1.Equal(t2) {
		return true
	}

	if ts.DescendsFrom(t1, t2) {
		return true
	}

	switch t2 := t2.(type) {
	case *TypeVariable:
		if lowerBound := t2.LowerBound(); lowerBound != nil {
			return ts.IsSubtype(t1, lowerBound)
		}

	case *WildcardType:
		if t2.LowerBound != nil {
			return ts.IsSubtype(t1, t2.LowerBound)
		}

	case *IntersectionType:
		for _, bound := range t2.Bounds {
			if ts.IsSubtype(t1, bound) {
				return true
			}
		}

	case *LubType:
		for _, element := range t2.Elements {
			if ts.IsSubtype(t1, element) {
				return true
			}
		}
	}

	return false
}

// DescendsFrom returns true if child is a proper descendant of ancestor.
//
// The lower bound of a type variable or wildcard, and the elements of a lub,
// are direct ancestors.
func (ts *TypeSystem) DescendsFrom(child, ancestor Type) bool {
	if ts.descendsNominally(child, ancestor) {
		return true
	}

	switch ancestor := ancestor.(type) {
	case *TypeVariable:
		if lowerBound := ancestor.LowerBound(); lowerBound != nil {
			return ts.IsSubtype(child, lowerBound)
		}

	case *WildcardType:
		if ancestor.LowerBound != nil {
			return ts.IsSubtype(child, ancestor.LowerBound)
		}

	case *LubType:
		for _, element := range ancestor.Elements {
			if ts.DescendsFrom(child, element) {
				return true
			}
		}
	}

	return false
}

func (ts *TypeSystem) descendsNominally(child, ancestor Type) bool {
	if !IsReferenceType(child) || !IsReferenceType(ancestor) {
		return false
	}

	// The top type is an ancestor of every other reference type
	if ts.isObject(ancestor) {
		return !ts.isObject(child)
	}

	switch child := child.(type) {
	case *NullType:
		return true

	case *ClassType:
		return ts.directSupertypesAreSubtypes(child, ancestor)

	case *RawClass:
		return ts.directSupertypesAreSubtypes(child, ancestor)

	case *InstantiatedClassType:
		return ts.instantiatedDescendsFrom(child, ancestor)

	case *TypeVariable:
		return ts.IsSubtype(child.UpperBound(), ancestor)

	case *WildcardType:
		return ts.IsSubtype(child.UpperBound, ancestor)

	case *IntersectionType:
		for _, bound := range child.Bounds {
			if ts.IsSubtype(bound, ancestor) {
				return true
			}
		}
		return false

	case *ArrayType:
		return ts.arrayDescendsFrom(child, ancestor)

	case *LubType:
		for _, element := range child.Elements {
			if !ts.IsSubtype(element, ancestor) {
				return false
			}
		}
		return true
	}

	panic(errors.NewUnreachableError())
}

func (ts *TypeSystem) directSupertypesAreSubtypes(child Type, ancestor Type) bool {
	if superType := ts.SuperType(child); superType != nil {
		if ts.IsSubtype(superType, ancestor) {
			return true
		}
	}
	for _, interfaceType := range ts.Interfaces(child) {
		if ts.IsSubtype(interfaceType, ancestor) {
			return true
		}
	}
	return false
}

// subtypeCapture returns the capture of the type, or nil if capture fails.
// The result is memoized, so repeated subtype checks reuse the same captured variables.
func (ts *TypeSystem) subtypeCapture(t *InstantiatedClassType) Type {
	captured, ok := ts.subtypeCaptures[t]
	if ok {
		return captured
	}

	captured, err := ts.Capture(t)
	if err != nil {
		captured = nil
	}
	ts.subtypeCaptures[t] = captured
	return captured
}

func (ts *TypeSystem) instantiatedDescendsFrom(child *InstantiatedClassType, ancestor Type) bool {
	for _, argument := range child.AllTypeArguments() {
		if _, ok := argument.(*WildcardType); ok {
			captured := ts.subtypeCapture(child)
			if captured == nil {
				return false
			}
			return ts.DescendsFrom(captured, ancestor)
		}
	}

	switch ancestor := ancestor.(type) {
	case *RawClass:
		if ancestor.Base == child.Base {
			return true
		}

	case *InstantiatedClassType:
		if ancestor.Base == child.Base {
			childArguments := child.AllTypeArguments()
			for i, ancestorArgument := range ancestor.AllTypeArguments() {
				if !ts.IsContained(childArguments[i], ancestorArgument) {
					return false
				}
			}
			return true
		}
	}

	return ts.directSupertypesAreSubtypes(child, ancestor)
}

func (ts *TypeSystem) arrayDescendsFrom(child *ArrayType, ancestor Type) bool {
	switch ancestor := ancestor.(type) {
	case *ClassType:
		return ancestor == ts.CloneableType ||
			ancestor == ts.SerializableType

	case *ArrayType:
		return IsReferenceType(child.Element) &&
			IsReferenceType(ancestor.Element) &&
			ts.IsSubtype(child.Element, ancestor.Element)
	}

	return false
}

// IsContained returns true if the type argument from is contained by the type argument to.
func (ts *TypeSystem) IsContained(from, to Type) bool {
	toWildcard, ok := to.(*WildcardType)
	if !ok {
		return from.Equal(to)
	}

	if fromWildcard, ok := from.(*WildcardType); ok {
		switch {
		case fromWildcard.IsExtends() && toWildcard.IsExtends():
			return ts.IsSubtype(fromWildcard.UpperBound, toWildcard.UpperBound)

		case fromWildcard.IsSuper() && toWildcard.IsSuper():
			return ts.IsSubtype(toWildcard.LowerBound, fromWildcard.LowerBound)

		case fromWildcard.IsSuper() && toWildcard.IsExtends():
			// `? super L` is contained by `?`
			return ts.isObject(toWildcard.UpperBound)
		}
		return false
	}

	if toWildcard.IsSuper() {
		return ts.IsImplicitCastValid(toWildcard.LowerBound, from)
	}
	return ts.IsImplicitCastValid(from, toWildcard.UpperBound)
}

// SuperType returns the direct super class of a reference type, or nil.
func (ts *TypeSystem) SuperType(t Type) Type {
	switch t := t.(type) {
	case *ClassType:
		if t.superType == nil && t.IsInterface() {
			return ts.ObjectType
		}
		return t.superType

	case *InstantiatedClassType:
		superType := ts.SuperType(t.Base)
		if superType == nil {
			return nil
		}
		return t.Subst.SubstituteType(superType)

	case *RawClass:
		superType := ts.SuperType(ts.Erased(t))
		if superType == nil {
			return nil
		}
		return ts.Erasure(superType)

	case *TypeVariable:
		return t.UpperBound()

	case *IntersectionType:
		for _, bound := range t.Bounds {
			if isClassNotInterface(bound) {
				return bound
			}
		}
		return ts.ObjectType

	case *ArrayType:
		return ts.ObjectType

	case *LubType:
		return ts.SuperType(ts.ComputeLub(t))

	case *WildcardType:
		return t.UpperBound

	case *PrimitiveType, *NullType:
		return nil
	}

	panic(errors.NewUnreachableError())
}

// Interfaces returns the direct super interfaces of a reference type.
func (ts *TypeSystem) Interfaces(t Type) []Type {
	switch t := t.(type) {
	case *ClassType:
		return t.interfaces

	case *InstantiatedClassType:
		return t.Subst.SubstituteTypes(t.Base.interfaces)

	case *RawClass:
		interfaces := ts.Interfaces(ts.Erased(t))
		return ts.erasures(interfaces)

	case *IntersectionType:
		var interfaces []Type
		for _, bound := range t.Bounds {
			if isInterfaceType(bound) {
				interfaces = append(interfaces, bound)
			}
		}
		return interfaces

	case *ArrayType:
		return []Type{ts.CloneableType, ts.SerializableType}

	case *LubType:
		return ts.Interfaces(ts.ComputeLub(t))

	case *TypeVariable, *WildcardType, *PrimitiveType, *NullType:
		return nil
	}

	panic(errors.NewUnreachableError())
}

// AllAncestors returns the type itself, followed by all its supertypes,
// each once, in the order of a depth-first walk of super classes and interfaces.
func (ts *TypeSystem) AllAncestors(t Type) []Type {
	ancestors := orderedmap.New[orderedmap.OrderedMap[string, Type]](0)
	ts.collectAncestors(t, ancestors)

	result := make([]Type, 0, ancestors.Len())
	ancestors.Foreach(func(_ string, ancestor Type) {
		result = append(result, ancestor)
	})
	return result
}

func (ts *TypeSystem) collectAncestors(t Type, ancestors *orderedmap.OrderedMap[string, Type]) {
	key := typeKey(t)
	if ancestors.Contains(key) {
		return
	}
	ancestors.Set(key, t)

	if superType := ts.SuperType(t); superType != nil {
		ts.collectAncestors(superType, ancestors)
	}
	for _, interfaceType := range ts.Interfaces(t) {
		ts.collectAncestors(interfaceType, ancestors)
	}
}

// FindGenericSupertype returns the supertype of the given type
// which is the class, an instantiation of it, or its raw form. It returns nil if there is none.
func (ts *TypeSystem) FindGenericSupertype(class *ClassType, t Type) Type {
	for _, ancestor := range ts.AllAncestors(t) {
		if ancestorClass, ok := classOf(ancestor); ok && ancestorClass == class {
			return ancestor
		}
	}
	return nil
}

// isSubclass returns true if the declaration sub is the declaration super,
// or inherits from it.
func (ts *TypeSystem) isSubclass(sub, super *ClassType) bool {
	if sub == super || super == ts.ObjectType {
		return true
	}
	for _, ancestor := range ts.AllAncestors(sub) {
		if class, ok := classOf(ancestor); ok && class == super {
			return true
		}
	}
	return false
}
