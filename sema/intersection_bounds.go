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
)

// ConcreteBounds returns the bounds which are neither type variables nor intersections,
// found by expanding type variables to their upper bounds and intersections to their bounds.
// Each bound is returned once, in breadth-first order.
func (ts *TypeSystem) ConcreteBounds(bounds []Type) []Type {
	var visitedVariables bitset.BitSet
	visited := map[string]struct{}{}

	var concrete []Type

	queue := append([]Type(nil), bounds...)
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		switch t := t.(type) {
		case *TypeVariable:
			id := uint(t.ID)
			if visitedVariables.Test(id) {
				continue
			}
			visitedVariables.Set(id)
			queue = append(queue, t.UpperBound())

		case *IntersectionType:
			queue = append(queue, t.Bounds...)

		default:
			key := typeKey(t)
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			concrete = append(concrete, t)
		}
	}

	return concrete
}

// CheckIntersectionBounds returns an error if the given bounds
// can not form an intersection type: two classes must be related by subtyping,
// and two instantiations of the same generic interface must be equal.
//
// Pairs involving a bound that is not class-like, e.g. an array, are not checked.
func (ts *TypeSystem) CheckIntersectionBounds(bounds []Type) error {
	concrete := ts.ConcreteBounds(bounds)
	if len(concrete) == 0 {
		return &InvalidIntersectionTypeError{
			Bounds: bounds,
		}
	}

	for i, first := range concrete {
		for _, second := range concrete[i+1:] {
			firstClass, ok := classOf(first)
			if !ok {
				continue
			}
			secondClass, ok := classOf(second)
			if !ok {
				continue
			}

			if !firstClass.IsInterface() && !secondClass.IsInterface() {
				if !ts.IsSubtype(first, second) && !ts.IsSubtype(second, first) {
					return &InvalidIntersectionTypeError{
						Bounds: bounds,
						First:  first,
						Second: second,
					}
				}
			}

			if firstClass.IsInterface() && secondClass.IsInterface() {
				firstInstantiated, ok := first.(*InstantiatedClassType)
				if !ok {
					continue
				}
				secondInstantiated, ok := second.(*InstantiatedClassType)
				if !ok {
					continue
				}
				if firstInstantiated.Base == secondInstantiated.Base &&
					!firstInstantiated.Equal(secondInstantiated) {

					return &InvalidIntersectionTypeError{
						Bounds:                 bounds,
						First:                  first,
						Second:                 second,
						ConflictingArgumentsOf: firstInstantiated.Base,
					}
				}
			}
		}
	}

	return nil
}

// GLB returns the greatest lower bound of the given reference types.
// The greatest lower bound of no types, or of types which
// can not form an intersection, is the top type.
func (ts *TypeSystem) GLB(bounds ...Type) Type {
	if len(bounds) == 0 {
		return ts.ObjectType
	}
	if ts.CheckIntersectionBounds(bounds) != nil {
		return ts.ObjectType
	}
	return ts.intersection(bounds)
}

// intersection returns the normalized intersection of the given bounds:
// nested intersections are flattened, duplicates and bounds which are
// supertypes of other bounds are removed, and classes precede interfaces.
// A single remaining bound is returned as is.
func (ts *TypeSystem) intersection(bounds []Type) Type {
	var flattened []Type
	seen := map[string]struct{}{}

	var add func(t Type)
	add = func(t Type) {
		if intersection, ok := t.(*IntersectionType); ok {
			for _, bound := range intersection.Bounds {
				add(bound)
			}
			return
		}
		key := typeKey(t)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		flattened = append(flattened, t)
	}
	for _, bound := range bounds {
		add(bound)
	}

	kept := make([]bool, len(flattened))
	for i := range kept {
		kept[i] = true
	}
	for i, bound := range flattened {
		for j, other := range flattened {
			if i == j || !kept[j] {
				continue
			}
			if ts.IsSubtype(other, bound) {
				kept[i] = false
				break
			}
		}
	}

	var classes, others []Type
	for i, bound := range flattened {
		if !kept[i] {
			continue
		}
		if isClassNotInterface(bound) {
			classes = append(classes, bound)
		} else {
			others = append(others, bound)
		}
	}
	result := append(classes, others...)

	switch len(result) {
	case 0:
		return ts.ObjectType
	case 1:
		return result[0]
	default:
		return NewIntersectionType(result)
	}
}
