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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubtype(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")
	listClass := requireClass(t, ts, "test.List")
	arrayListClass := requireClass(t, ts, "test.ArrayList")
	collectionClass := requireClass(t, ts, "test.Collection")
	comparableClass := requireClass(t, ts, ComparableTypeName)

	listOfString := ts.Instantiate(listClass, []Type{ts.StringType})
	listOfObject := ts.Instantiate(listClass, []Type{ts.ObjectType})
	arrayListOfString := ts.Instantiate(arrayListClass, []Type{ts.StringType})
	collectionOfString := ts.Instantiate(collectionClass, []Type{ts.StringType})

	tests := []struct {
		name     string
		subType  Type
		super    Type
		expected bool
	}{
		{"Integer <: Number", integerType, ts.NumberType, true},
		{"Integer <: Object", integerType, ts.ObjectType, true},
		{"Integer <: Serializable", integerType, ts.SerializableType, true},
		{"Integer <: Comparable<Integer>", integerType, ts.Instantiate(comparableClass, []Type{integerType}), true},
		{"Integer </: Comparable<Number>", integerType, ts.Instantiate(comparableClass, []Type{ts.NumberType}), false},
		{"Number </: Integer", ts.NumberType, integerType, false},
		{"Object </: Number", ts.ObjectType, ts.NumberType, false},
		{"String <: String", ts.StringType, ts.StringType, true},
		{"null <: String", TheNullType, ts.StringType, true},
		{"String </: null", ts.StringType, TheNullType, false},
		{"int </: Integer", IntType, integerType, false},
		{"int </: long", IntType, LongType, false},
		{"ArrayList<String> <: List<String>", arrayListOfString, listOfString, true},
		{"ArrayList<String> <: Collection<String>", arrayListOfString, collectionOfString, true},
		{"ArrayList<String> </: List<Object>", arrayListOfString, listOfObject, false},
		{"List<String> </: ArrayList<String>", listOfString, arrayListOfString, false},
		{"List<String> <: List<?>", listOfString, ts.Instantiate(listClass, []Type{ts.UnboundedWildcard()}), true},
		{"List<String> <: raw List", listOfString, ts.RawClass(listClass), true},
		{"ArrayList<String> <: raw List", arrayListOfString, ts.RawClass(listClass), true},
		{"raw ArrayList <: raw List", ts.RawClass(arrayListClass), ts.RawClass(listClass), true},
		{"String[] <: Object[]", NewArrayType(ts.StringType), NewArrayType(ts.ObjectType), true},
		{"String[] <: Cloneable", NewArrayType(ts.StringType), ts.CloneableType, true},
		{"int[] <: Object", NewArrayType(IntType), ts.ObjectType, true},
		{"int[] </: Object[]", NewArrayType(IntType), NewArrayType(ts.ObjectType), false},
		{"int[] </: long[]", NewArrayType(IntType), NewArrayType(LongType), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t,
				test.expected,
				ts.IsSubtype(test.subType, test.super),
				"%s <: %s", test.subType, test.super,
			)
		})
	}
}

func TestIsSubtypeTypeVariables(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	boxClass := requireClass(t, ts, "test.Box")
	parameter := boxClass.TypeParameters[0]

	assert.True(t, ts.IsSubtype(parameter, ts.NumberType))
	assert.True(t, ts.IsSubtype(parameter, parameter))
	assert.False(t, ts.IsSubtype(ts.NumberType, parameter))

	integerType := requireClass(t, ts, "lang.Integer")

	// A variable with a lower bound is a supertype of its lower bound
	variable := ts.NewTypeVariable("S", TypeVariableSiteSynthetic)
	variable.SetBounds(ts.ObjectType, integerType)

	assert.True(t, ts.IsSubtype(integerType, variable))
	assert.False(t, ts.IsSubtype(ts.StringType, variable))

	// An intersection is a subtype of each of its bounds
	intersection := NewIntersectionType([]Type{ts.NumberType, ts.CloneableType})
	assert.True(t, ts.IsSubtype(intersection, ts.NumberType))
	assert.True(t, ts.IsSubtype(intersection, ts.CloneableType))
	assert.False(t, ts.IsSubtype(intersection, ts.StringType))
}

func TestIsContained(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")

	extendsNumber := ts.ExtendsWildcard(ts.NumberType)
	extendsInteger := ts.ExtendsWildcard(integerType)
	superInteger := ts.SuperWildcard(integerType)
	superNumber := ts.SuperWildcard(ts.NumberType)
	unbounded := ts.UnboundedWildcard()

	tests := []struct {
		name     string
		from     Type
		to       Type
		expected bool
	}{
		{"Integer in Integer", integerType, integerType, true},
		{"Integer not in Number", integerType, ts.NumberType, false},
		{"Integer in ? extends Number", integerType, extendsNumber, true},
		{"String not in ? extends Number", ts.StringType, extendsNumber, false},
		{"Number in ? super Integer", ts.NumberType, superInteger, true},
		{"Integer not in ? super Number", integerType, superNumber, false},
		{"? extends Integer in ? extends Number", extendsInteger, extendsNumber, true},
		{"? extends Number not in ? extends Integer", extendsNumber, extendsInteger, false},
		{"? super Number in ? super Integer", superNumber, superInteger, true},
		{"? super Integer not in ? super Number", superInteger, superNumber, false},
		{"? super Integer in ?", superInteger, unbounded, true},
		{"? super Integer not in ? extends Number", superInteger, extendsNumber, false},
		{"? extends Number not in ? super Integer", extendsNumber, superInteger, false},
		{"? extends Number not in Number", extendsNumber, ts.NumberType, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ts.IsContained(test.from, test.to))
		})
	}
}

func TestAllAncestors(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")

	var names []string
	for _, ancestor := range ts.AllAncestors(integerType) {
		names = append(names, ancestor.String())
	}

	assert.Equal(t,
		[]string{
			"lang.Integer",
			"lang.Number",
			"lang.Object",
			"lang.Serializable",
			"lang.Comparable<lang.Integer>",
		},
		names,
	)
}

func TestSupertypesOfInstantiations(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	listClass := requireClass(t, ts, "test.List")
	collectionClass := requireClass(t, ts, "test.Collection")
	arrayListOfString := instantiate(t, ts, "test.ArrayList", ts.StringType)

	t.Run("interfaces are substituted", func(t *testing.T) {
		interfaces := ts.Interfaces(arrayListOfString)
		require.Len(t, interfaces, 1)
		assert.Equal(t, "test.List<lang.String>", interfaces[0].String())
	})

	t.Run("generic supertype", func(t *testing.T) {
		supertype := ts.FindGenericSupertype(collectionClass, arrayListOfString)
		require.NotNil(t, supertype)
		assert.Equal(t, "test.Collection<lang.String>", supertype.String())

		assert.Nil(t, ts.FindGenericSupertype(listClass, ts.StringType))
	})

	t.Run("raw supertypes are erased", func(t *testing.T) {
		raw := ts.RawClass(requireClass(t, ts, "test.ArrayList"))

		interfaces := ts.Interfaces(raw)
		require.Len(t, interfaces, 1)
		assert.Equal(t, ts.RawClass(listClass), interfaces[0])
	})

	t.Run("interface super type is the top type", func(t *testing.T) {
		assert.Equal(t, Type(ts.ObjectType), ts.SuperType(listClass))
	})

	t.Run("primitive types have no supertypes", func(t *testing.T) {
		assert.Nil(t, ts.SuperType(IntType))
		assert.Empty(t, ts.Interfaces(IntType))
	})
}

func TestIsSubtypeReusesCapture(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	arrayListClass := requireClass(t, ts, "test.ArrayList")
	collectionClass := requireClass(t, ts, "test.Collection")

	arrayListOfStrings := ts.Instantiate(arrayListClass, []Type{ts.ExtendsWildcard(ts.StringType)})
	collectionOfObjects := ts.Instantiate(collectionClass, []Type{ts.ExtendsWildcard(ts.ObjectType)})

	require.True(t, ts.IsSubtype(arrayListOfStrings, collectionOfObjects))
	variableCount := ts.Arena().Len()

	for i := 0; i < 3; i++ {
		require.True(t, ts.IsSubtype(arrayListOfStrings, collectionOfObjects))
	}
	assert.Equal(t, variableCount, ts.Arena().Len())
}
