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
	"strings"

	"github.com/onflow/jgen/common/orderedmap"
	"github.com/onflow/jgen/errors"
)

// Lub returns the least upper bound of the given reference types.
// The bound is computed lazily, see ComputeLub.
func (ts *TypeSystem) Lub(elements ...Type) *LubType {
	return &LubType{
		Elements: elements,
	}
}

func lubKey(elements []Type) string {
	var builder strings.Builder
	for i, element := range elements {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(typeKey(element))
	}
	return builder.String()
}

// ComputeLub returns the concrete least upper bound of the lub's elements:
// the intersection of the least containing invocations
// of the minimal erased candidates.
func (ts *TypeSystem) ComputeLub(lub *LubType) Type {
	if lub.lub == nil {
		lub.lub = ts.computeLub(lub.Elements)
	}
	return lub.lub
}

func (ts *TypeSystem) computeLub(elements []Type) Type {
	var nonNull []Type
	for _, element := range elements {
		if _, ok := element.(*NullType); !ok {
			nonNull = append(nonNull, element)
		}
	}

	switch len(nonNull) {
	case 0:
		if len(elements) == 0 {
			return ts.ObjectType
		}
		return TheNullType
	case 1:
		return nonNull[0]
	}

	key := lubKey(nonNull)
	if _, ok := ts.lubsInProgress[key]; ok {
		return ts.ObjectType
	}
	ts.lubsInProgress[key] = struct{}{}
	defer delete(ts.lubsInProgress, key)

	// All supertypes of all elements
	supertypes := orderedmap.New[orderedmap.OrderedMap[string, Type]](0)

	// The erased supertypes common to all elements considered so far
	var erasedCandidates *orderedmap.OrderedMap[string, Type]

	for _, element := range nonNull {
		erasedSupertypes := orderedmap.New[orderedmap.OrderedMap[string, Type]](0)

		for _, ancestor := range ts.AllAncestors(element) {
			supertypes.Set(typeKey(ancestor), ancestor)

			erased := ancestor
			if class, ok := classOf(ancestor); ok {
				erased = class
			}
			erasedSupertypes.Set(typeKey(erased), erased)
		}

		if erasedCandidates == nil {
			erasedCandidates = erasedSupertypes
			continue
		}

		for _, key := range erasedCandidates.Keys() {
			if !erasedSupertypes.Contains(key) {
				erasedCandidates.Delete(key)
			}
		}
	}

	minimalCandidates := ts.minimalErasedCandidates(erasedCandidates)

	candidates := make([]Type, 0, len(minimalCandidates))
	for _, candidate := range minimalCandidates {
		var invocations []Type
		supertypes.Foreach(func(_ string, supertype Type) {
			if supertype.Equal(candidate) {
				invocations = append(invocations, supertype)
				return
			}
			if class, ok := classOf(supertype); ok && class == candidate {
				invocations = append(invocations, supertype)
			}
		})
		candidates = append(candidates, ts.leastContainingInvocation(invocations))
	}

	if len(candidates) == 0 {
		return ts.ObjectType
	}
	if ts.CheckIntersectionBounds(candidates) != nil {
		return ts.ObjectType
	}
	return ts.intersection(candidates)
}

// minimalErasedCandidates removes all candidates which are supertypes of another candidate.
func (ts *TypeSystem) minimalErasedCandidates(candidates *orderedmap.OrderedMap[string, Type]) []Type {
	var result []Type
	candidates.Foreach(func(key string, candidate Type) {
		for otherKey, other := range candidates.All() {
			if otherKey != key && ts.isErasedSubtype(other, candidate) {
				return
			}
		}
		result = append(result, candidate)
	})
	return result
}

// isErasedSubtype compares class declarations by inheritance,
// and all other types by subtyping.
func (ts *TypeSystem) isErasedSubtype(sub, super Type) bool {
	subClass, ok := sub.(*ClassType)
	if !ok {
		return ts.IsSubtype(sub, super)
	}
	superClass, ok := super.(*ClassType)
	if !ok {
		return ts.IsSubtype(sub, super)
	}
	return ts.isSubclass(subClass, superClass)
}

// leastContainingInvocation returns the least instantiation of a generic class
// which contains all the given invocations of it.
// A raw or non-generic invocation is its own least containing invocation.
func (ts *TypeSystem) leastContainingInvocation(invocations []Type) Type {
	first := invocations[0]
	result, ok := first.(*InstantiatedClassType)
	if !ok || len(invocations) == 1 {
		return first
	}

	for _, next := range invocations[1:] {
		nextInstantiated, ok := next.(*InstantiatedClassType)
		if !ok {
			return next
		}

		resultArguments := result.AllTypeArguments()
		nextArguments := nextInstantiated.AllTypeArguments()

		arguments := make([]Type, len(resultArguments))
		for i, argument := range resultArguments {
			arguments[i] = ts.leastContainingTypeArgument(argument, nextArguments[i])
		}

		subst := NewSubstitution(ts, result.Base.ClassAndEnclosingTypeVariables(), arguments)
		result = ts.InstantiateWith(result.Base, subst)
	}

	return result
}

// leastContainingTypeArgument returns the least type argument
// which contains both given type arguments.
func (ts *TypeSystem) leastContainingTypeArgument(first, second Type) Type {
	firstWildcard, firstIsWildcard := first.(*WildcardType)
	secondWildcard, secondIsWildcard := second.(*WildcardType)

	switch {
	case firstIsWildcard && secondIsWildcard:
		switch {
		case firstWildcard.IsSuper() && secondWildcard.IsSuper():
			return ts.SuperWildcard(ts.GLB(firstWildcard.LowerBound, secondWildcard.LowerBound))

		case firstWildcard.IsSuper():
			if firstWildcard.LowerBound.Equal(secondWildcard.UpperBound) {
				return firstWildcard.LowerBound
			}
			return ts.UnboundedWildcard()

		case secondWildcard.IsSuper():
			if secondWildcard.LowerBound.Equal(firstWildcard.UpperBound) {
				return secondWildcard.LowerBound
			}
			return ts.UnboundedWildcard()

		default:
			return ts.extendsLubWildcard(firstWildcard.UpperBound, secondWildcard.UpperBound)
		}

	case firstIsWildcard:
		if firstWildcard.IsSuper() {
			return ts.SuperWildcard(ts.GLB(firstWildcard.LowerBound, second))
		}
		return ts.extendsLubWildcard(firstWildcard.UpperBound, second)

	case secondIsWildcard:
		if secondWildcard.IsSuper() {
			return ts.SuperWildcard(ts.GLB(first, secondWildcard.LowerBound))
		}
		return ts.extendsLubWildcard(first, secondWildcard.UpperBound)

	case first.Equal(second):
		return first

	default:
		return ts.extendsLubWildcard(first, second)
	}
}

// extendsLubWildcard returns `? extends lub(first, second)`.
// The lub of types whose lub is currently being computed
// is infinite, and is approximated by the unbounded wildcard.
func (ts *TypeSystem) extendsLubWildcard(first, second Type) *WildcardType {
	elements := []Type{first, second}
	if _, ok := ts.lubsInProgress[lubKey(elements)]; ok {
		return ts.UnboundedWildcard()
	}
	return ts.ExtendsWildcard(ts.Lub(elements...))
}

// LeastCommonAncestor returns the least common ancestor of two types,
// e.g. the type of a conditional expression. Primitive and reference types
// are related through boxing, numeric types through widening.
func (ts *TypeSystem) LeastCommonAncestor(first, second Type) (Type, error) {
	if first.Equal(second) {
		return first, nil
	}

	firstPrimitive, firstIsPrimitive := first.(*PrimitiveType)
	secondPrimitive, secondIsPrimitive := second.(*PrimitiveType)

	switch {
	case firstIsPrimitive && secondIsPrimitive:
		if firstPrimitive.IsNumeric() && secondPrimitive.IsNumeric() {
			switch {
			case ts.isPrimitiveWidening(firstPrimitive, secondPrimitive):
				return secondPrimitive, nil
			case ts.isPrimitiveWidening(secondPrimitive, firstPrimitive):
				return firstPrimitive, nil
			default:
				return IntType, nil
			}
		}
		return nil, &NoCommonAncestorError{
			First:  first,
			Second: second,
		}

	case firstIsPrimitive:
		if firstPrimitive.IsVoid() {
			return nil, &NoCommonAncestorError{
				First:  first,
				Second: second,
			}
		}
		return ts.LeastCommonAncestor(ts.Boxing(firstPrimitive), second)

	case secondIsPrimitive:
		return ts.LeastCommonAncestor(second, first)
	}

	switch {
	case ts.IsSubtype(first, second):
		return second, nil
	case ts.IsSubtype(second, first):
		return first, nil
	}

	if !isClassNotInterface(first) || !isClassNotInterface(second) {
		return ts.ObjectType, nil
	}

	for superType := ts.SuperType(first); superType != nil; superType = ts.SuperType(superType) {
		if ts.IsSubtype(second, superType) {
			return superType, nil
		}
	}

	panic(errors.NewUnexpectedError("no common ancestor of classes %s and %s", first, second))
}
