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

func TestComputeLub(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")
	doubleType := requireClass(t, ts, "lang.Double")

	tests := []struct {
		name     string
		elements []Type
		expected string
	}{
		{"none", nil, "lang.Object"},
		{"null", []Type{TheNullType}, "null"},
		{"null and class", []Type{TheNullType, ts.StringType}, "lang.String"},
		{"same class", []Type{ts.StringType, ts.StringType}, "lang.String"},
		{"subclass", []Type{integerType, ts.NumberType}, "lang.Number"},
		{
			"recursive generic interface",
			[]Type{integerType, doubleType},
			"lang.Number & lang.Comparable<?>",
		},
		{
			"interfaces only",
			[]Type{ts.StringType, integerType},
			"lang.Serializable & lang.Comparable<?>",
		},
		{
			"instantiations",
			[]Type{
				instantiate(t, ts, "test.ArrayList", ts.StringType),
				instantiate(t, ts, "test.ArrayList", integerType),
			},
			"test.ArrayList<? extends lub(lang.String, lang.Integer)>",
		},
		{
			"instantiation and raw class",
			[]Type{
				instantiate(t, ts, "test.ArrayList", ts.StringType),
				ts.RawClass(requireClass(t, ts, "test.ArrayList")),
			},
			"test.ArrayList",
		},
		{
			"instantiation and implementing class",
			[]Type{
				instantiate(t, ts, "test.ArrayList", ts.StringType),
				requireClass(t, ts, "test.StringList"),
			},
			"test.List<lang.String>",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lub := ts.Lub(test.elements...)
			assert.Equal(t, test.expected, ts.ComputeLub(lub).String())
		})
	}
}

func TestLubIsMemoized(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")
	doubleType := requireClass(t, ts, "lang.Double")

	lub := ts.Lub(integerType, doubleType)
	first := ts.ComputeLub(lub)
	second := ts.ComputeLub(lub)
	assert.Same(t, first, second)

	// The lub is an upper bound of all of its elements
	assert.True(t, ts.IsSubtype(integerType, lub))
	assert.True(t, ts.IsSubtype(doubleType, lub))
	assert.True(t, ts.IsSubtype(lub, ts.NumberType))
	assert.False(t, ts.IsSubtype(lub, integerType))
}

func TestLeastCommonAncestor(t *testing.T) {

	t.Parallel()

	ts := newTestTypeSystem()

	integerType := requireClass(t, ts, "lang.Integer")
	doubleType := requireClass(t, ts, "lang.Double")

	tests := []struct {
		name     string
		first    Type
		second   Type
		expected Type
	}{
		{"same", ts.StringType, ts.StringType, ts.StringType},
		{"widening", IntType, LongType, LongType},
		{"widening reversed", LongType, IntType, LongType},
		{"no widening", ByteType, CharType, IntType},
		{"boxing", IntType, integerType, integerType},
		{"boxing reversed", integerType, IntType, integerType},
		{"boxing to super class", IntType, ts.NumberType, ts.NumberType},
		{"sibling classes", integerType, doubleType, ts.NumberType},
		{"interface", ts.StringType, ts.CloneableType, ts.ObjectType},
		{"null", TheNullType, ts.StringType, ts.StringType},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ancestor, err := ts.LeastCommonAncestor(test.first, test.second)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ancestor)
		})
	}

	t.Run("boolean and int", func(t *testing.T) {
		_, err := ts.LeastCommonAncestor(BooleanType, IntType)

		var ancestorError *NoCommonAncestorError
		require.ErrorAs(t, err, &ancestorError)
	})

	t.Run("void", func(t *testing.T) {
		_, err := ts.LeastCommonAncestor(VoidType, ts.StringType)

		var ancestorError *NoCommonAncestorError
		require.ErrorAs(t, err, &ancestorError)
	})
}
