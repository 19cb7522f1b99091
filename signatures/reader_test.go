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

package signatures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/sema"
)

var testStartPosition = ast.Position{
	Offset: 100,
	Line:   3,
	Column: 10,
}

func TestReadTypeExpression(t *testing.T) {

	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"String", "String"},
		{"lang.String", "lang.String"},
		{"int[][]", "int[][]"},
		{"List<?>", "List<?>"},
		{"Comparable<? super T>", "Comparable<? super T>"},
		{"Map<K, List<? extends V>>[]", "Map<K, List<? extends V>>[]"},
		{"  List < String >  ", "List<String>"},
		{"String...", "String..."},
		{"List<String[]>...", "List<String[]>..."},
		{"$Proxy_1", "$Proxy_1"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			t.Parallel()

			expression, err := readTypeExpression(test.input, testStartPosition, "", true)
			require.NoError(t, err)
			assert.Equal(t, test.expected, expression.String())
		})
	}
}

func TestReadTypeExpressionStructure(t *testing.T) {

	t.Parallel()

	expression, err := readTypeExpression("Map<K, ? super V>...", testStartPosition, "", true)
	require.NoError(t, err)

	require.IsType(t, &sema.ArrayTypeExpression{}, expression)
	array := expression.(*sema.ArrayTypeExpression)
	assert.True(t, array.VariableArity)

	require.IsType(t, &sema.NamedTypeExpression{}, array.Element)
	named := array.Element.(*sema.NamedTypeExpression)
	assert.Equal(t, "Map", named.Name)
	require.Len(t, named.Arguments, 2)

	require.IsType(t, &sema.WildcardTypeExpression{}, named.Arguments[1])
	wildcard := named.Arguments[1].(*sema.WildcardTypeExpression)
	assert.True(t, wildcard.Super)
	assert.Equal(t, "V", wildcard.Bound.String())
}

func TestReadTypeExpressionRanges(t *testing.T) {

	t.Parallel()

	expression, err := readTypeExpression("Map<K, V>[]", testStartPosition, "", false)
	require.NoError(t, err)

	assert.Equal(t,
		ast.NewRange(
			ast.Position{Offset: 100, Line: 3, Column: 10},
			ast.Position{Offset: 110, Line: 3, Column: 20},
		),
		ast.NewRangeFromPositioned(expression),
	)

	named := expression.(*sema.ArrayTypeExpression).Element.(*sema.NamedTypeExpression)
	assert.Equal(t,
		ast.NewRange(
			ast.Position{Offset: 100, Line: 3, Column: 10},
			ast.Position{Offset: 108, Line: 3, Column: 18},
		),
		named.Range,
	)

	assert.Equal(t,
		ast.NewRange(
			ast.Position{Offset: 104, Line: 3, Column: 14},
			ast.Position{Offset: 104, Line: 3, Column: 14},
		),
		ast.NewRangeFromPositioned(named.Arguments[0]),
	)
	assert.Equal(t,
		ast.NewRange(
			ast.Position{Offset: 107, Line: 3, Column: 17},
			ast.Position{Offset: 107, Line: 3, Column: 17},
		),
		ast.NewRangeFromPositioned(named.Arguments[1]),
	)
}

func TestReadTypeExpressionErrors(t *testing.T) {

	t.Parallel()

	tests := []struct {
		name               string
		input              string
		allowVariableArity bool
		message            string
		column             int
	}{
		{
			name:    "empty",
			input:   "",
			message: "expected type name, got end of input",
			column:  10,
		},
		{
			name:    "missing argument",
			input:   "List<",
			message: "expected type name, got end of input",
			column:  15,
		},
		{
			name:    "unterminated arguments",
			input:   "List<String",
			message: "missing '>' at end of type arguments",
			column:  21,
		},
		{
			name:    "invalid argument separator",
			input:   "List<String;",
			message: "expected ',' or '>', got ';'",
			column:  21,
		},
		{
			name:    "wildcard",
			input:   "? extends T",
			message: "wildcard is only allowed as a type argument",
			column:  10,
		},
		{
			name:    "wildcard bound",
			input:   "List<? extends ?>",
			message: "wildcard is only allowed as a type argument",
			column:  25,
		},
		{
			name:    "variable arity",
			input:   "String...",
			message: "variable arity is only allowed for formal parameters",
			column:  16,
		},
		{
			name:               "nested variable arity",
			input:              "List<String...>",
			allowVariableArity: true,
			message:            "variable arity is only allowed for formal parameters",
			column:             21,
		},
		{
			name:               "suffix after variable arity",
			input:              "String...[]",
			allowVariableArity: true,
			message:            `unexpected "[]" after type`,
			column:             19,
		},
		{
			name:    "trailing name",
			input:   "String[] x",
			message: `unexpected "x" after type`,
			column:  19,
		},
		{
			name:    "leading digit",
			input:   "1List",
			message: "expected type name, got '1'",
			column:  10,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := readTypeExpression(test.input, testStartPosition, "$.formals[0]", test.allowVariableArity)
			require.Error(t, err)

			var parsingErr ParsingError
			require.ErrorAs(t, err, &parsingErr)
			assert.Equal(t, test.message, parsingErr.Message)
			assert.Equal(t, "$.formals[0]", parsingErr.Path)
			assert.Equal(t, 3, parsingErr.StartPos.Line)
			assert.Equal(t, test.column, parsingErr.StartPos.Column)
		})
	}
}

func TestReadTypeParameter(t *testing.T) {

	t.Parallel()

	t.Run("unbounded", func(t *testing.T) {
		t.Parallel()

		parameter, err := readTypeParameter("T", testStartPosition, "")
		require.NoError(t, err)

		assert.Equal(t, "T", parameter.Name)
		assert.Empty(t, parameter.Bounds)
		assert.Equal(t,
			ast.NewRange(testStartPosition, testStartPosition),
			parameter.Range,
		)
	})

	t.Run("bounded", func(t *testing.T) {
		t.Parallel()

		parameter, err := readTypeParameter("T extends Number & Comparable<T>", testStartPosition, "")
		require.NoError(t, err)

		assert.Equal(t, "T", parameter.Name)
		require.Len(t, parameter.Bounds, 2)
		assert.Equal(t, "Number", parameter.Bounds[0].String())
		assert.Equal(t, "Comparable<T>", parameter.Bounds[1].String())
		assert.Equal(t, 41, parameter.EndPos.Column)
	})

	t.Run("keyword prefix", func(t *testing.T) {
		t.Parallel()

		_, err := readTypeParameter("T extendsNumber", testStartPosition, "")

		var parsingErr ParsingError
		require.ErrorAs(t, err, &parsingErr)
		assert.Equal(t, `unexpected "extendsNumber" after type`, parsingErr.Message)
	})

	t.Run("missing bound", func(t *testing.T) {
		t.Parallel()

		_, err := readTypeParameter("T extends", testStartPosition, "")

		var parsingErr ParsingError
		require.ErrorAs(t, err, &parsingErr)
		assert.Equal(t, "expected type name, got end of input", parsingErr.Message)
	})

	t.Run("wildcard bound", func(t *testing.T) {
		t.Parallel()

		_, err := readTypeParameter("T extends ?", testStartPosition, "")

		var parsingErr ParsingError
		require.ErrorAs(t, err, &parsingErr)
		assert.Equal(t, "wildcard is only allowed as a type argument", parsingErr.Message)
	})
}

func TestIsIdentifier(t *testing.T) {

	t.Parallel()

	assert.True(t, isIdentifier("Box"))
	assert.True(t, isIdentifier("_1"))
	assert.False(t, isIdentifier(""))
	assert.False(t, isIdentifier("1Box"))
	assert.False(t, isIdentifier("Box.Entry"))
	assert.False(t, isIdentifier("Box<T>"))
}
