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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
)

func classSignature(name string, superType TypeExpression, interfaces ...TypeExpression) *ClassSignature {
	return &ClassSignature{
		Name:       name,
		Kind:       common.ClassKindClass,
		Flags:      common.FlagPublic,
		SuperType:  superType,
		Interfaces: interfaces,
	}
}

func TestClassNamed(t *testing.T) {

	t.Parallel()

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem()

		class, err := ts.ClassNamed("test.Unknown")
		require.NoError(t, err)
		assert.Nil(t, class)
	})

	t.Run("loaded once", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem()

		first := requireClass(t, ts, "test.ArrayList")
		second := requireClass(t, ts, "test.ArrayList")
		assert.Same(t, first, second)
	})

	t.Run("failing source", func(t *testing.T) {
		t.Parallel()

		ts := NewTypeSystem(&Config{
			SignatureSource: failingSignatureSource{},
		})

		_, err := ts.ClassNamed("test.Anything")
		require.Error(t, err)

		var externalErr errors.ExternalError
		require.ErrorAs(t, err, &externalErr)
		assert.EqualError(t, externalErr, "source unavailable: test.Anything")

		// Builtin classes do not need the source
		requireClass(t, ts, "lang.Integer")
	})
}

type failingSignatureSource struct{}

var _ SignatureSource = failingSignatureSource{}

func (failingSignatureSource) ClassSignature(qualifiedName string) (*ClassSignature, error) {
	return nil, fmt.Errorf("source unavailable: %s", qualifiedName)
}

func TestSignatureResolutionErrors(t *testing.T) {

	t.Parallel()

	stringType := namedTypeExpression("String")

	t.Run("missing super type", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem(
			classSignature("test.Broken", namedTypeExpression("test.Missing")),
		)

		_, err := ts.ClassNamed("test.Broken")

		var notDeclaredErr *NotDeclaredTypeError
		require.ErrorAs(t, err, &notDeclaredErr)
		assert.Equal(t, "test.Missing", notDeclaredErr.Name)
		assert.True(t, errors.IsUserError(err))

		// A class which failed to load is not registered
		_, err = ts.ClassNamed("test.Broken")
		require.ErrorAs(t, err, &notDeclaredErr)
	})

	t.Run("type argument count", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem(
			classSignature("test.TooMany", nil,
				namedTypeExpression("test.List", stringType, stringType),
			),
		)

		_, err := ts.ClassNamed("test.TooMany")

		var countErr *InvalidTypeArgumentCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, "test.List", countErr.Class.QualifiedName)
		assert.Equal(t, 1, countErr.TypeParameterCount)
		assert.Equal(t, 2, countErr.TypeArgumentCount)
	})

	t.Run("primitive type argument", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem(
			classSignature("test.Ints", nil,
				namedTypeExpression("test.List", namedTypeExpression("int")),
			),
		)

		_, err := ts.ClassNamed("test.Ints")

		var argumentErr *InvalidTypeArgumentError
		require.ErrorAs(t, err, &argumentErr)
		assert.Equal(t, IntType, argumentErr.Type)
	})

	t.Run("array super type", func(t *testing.T) {
		t.Parallel()

		ts := newTestTypeSystem(
			classSignature("test.ArraySuper", arrayTypeExpression(namedTypeExpression("Object"))),
		)

		_, err := ts.ClassNamed("test.ArraySuper")

		var supertypeErr *InvalidSupertypeError
		require.ErrorAs(t, err, &supertypeErr)
		assert.Equal(t, "lang.Object[]", supertypeErr.Type.String())
	})

	t.Run("type variable super type", func(t *testing.T) {
		t.Parallel()

		signature := classSignature("test.VariableSuper", namedTypeExpression("T"))
		signature.TypeParameters = []TypeParameterSignature{typeParameter("T")}

		ts := newTestTypeSystem(signature)

		_, err := ts.ClassNamed("test.VariableSuper")

		var supertypeErr *InvalidSupertypeError
		require.ErrorAs(t, err, &supertypeErr)
		assert.IsType(t, &TypeVariable{}, supertypeErr.Type)
	})

	t.Run("variable arity formal not last", func(t *testing.T) {
		t.Parallel()

		signature := classSignature("test.BadVarargs", nil)
		signature.Methods = []ProcedureSignature{
			methodSignature(
				common.NoFlags,
				namedTypeExpression("void"),
				"m",
				variableArityTypeExpression(stringType),
				namedTypeExpression("int"),
			),
		}

		ts := newTestTypeSystem(signature)

		// Members are resolved on first use
		class := requireClass(t, ts, "test.BadVarargs")

		_, err := ts.Members(class)

		var varargsErr *InvalidVariableArityError
		require.ErrorAs(t, err, &varargsErr)
		assert.Equal(t, "m", varargsErr.Procedure.Name)
	})

	t.Run("variable arity without array", func(t *testing.T) {
		t.Parallel()

		signature := classSignature("test.FlaggedVarargs", nil)
		signature.Methods = []ProcedureSignature{
			methodSignature(
				common.FlagVariableArity,
				namedTypeExpression("void"),
				"m",
				namedTypeExpression("int"),
			),
		}

		ts := newTestTypeSystem(signature)

		_, err := ts.Members(requireClass(t, ts, "test.FlaggedVarargs"))

		var varargsErr *InvalidVariableArityError
		require.ErrorAs(t, err, &varargsErr)
	})
}

func TestNameResolution(t *testing.T) {

	t.Parallel()

	field := func(name string, fieldType TypeExpression) FieldSignature {
		return FieldSignature{
			Name:  name,
			Flags: common.FlagPublic,
			Type:  fieldType,
		}
	}

	holder := classSignature("test.Holder", nil)
	holder.TypeParameters = []TypeParameterSignature{typeParameter("T")}
	holder.Fields = []FieldSignature{
		field("entry", namedTypeExpression("Entry")),
		field("list", namedTypeExpression("StringList")),
		field("raw", namedTypeExpression("List")),
		field("builtin", namedTypeExpression("Integer")),
		field("qualified", namedTypeExpression("lang.Number")),
		field("variable", namedTypeExpression("T")),
		field("primitive", namedTypeExpression("double")),
		field("array", arrayTypeExpression(namedTypeExpression("T"))),
		field("wildcard", namedTypeExpression("List", extendsWildcardExpression(namedTypeExpression("T")))),
	}

	entry := classSignature("test.Holder.Entry", nil)
	entry.Outer = "test.Holder"
	entry.Flags |= common.FlagStatic

	node := classSignature("test.Node", nil)
	node.TypeParameters = []TypeParameterSignature{
		typeParameter("N", namedTypeExpression("Node", namedTypeExpression("N"))),
	}

	ts := newTestTypeSystem(holder, entry, node)

	holderClass := requireClass(t, ts, "test.Holder")
	members := requireMembers(t, ts, holderClass)

	fieldTypes := map[string]string{}
	for _, field := range members.Fields {
		fieldTypes[field.Name] = field.Type.String()
	}

	assert.Equal(t,
		map[string]string{
			"entry":     "test.Holder.Entry",
			"list":      "test.StringList",
			"raw":       "test.List",
			"builtin":   "lang.Integer",
			"qualified": "lang.Number",
			"variable":  "T",
			"primitive": "double",
			"array":     "T[]",
			"wildcard":  "test.List<? extends T>",
		},
		fieldTypes,
	)

	for _, field := range members.Fields {
		switch field.Name {
		case "raw":
			assert.IsType(t, &RawClass{}, field.Type)
		case "variable":
			assert.Same(t, holderClass.TypeParameters[0], field.Type)
		}
	}

	nodeClass := requireClass(t, ts, "test.Node")
	bound := nodeClass.TypeParameters[0].UpperBound()
	assert.Equal(t, "test.Node<N>", bound.String())
}
