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

	"github.com/stretchr/testify/require"

	"github.com/onflow/jgen/common"
)

type testSignatureSource map[string]*ClassSignature

var _ SignatureSource = testSignatureSource{}

func (s testSignatureSource) ClassSignature(qualifiedName string) (*ClassSignature, error) {
	return s[qualifiedName], nil
}

func newTestSignatureSource(signatures ...*ClassSignature) testSignatureSource {
	source := testSignatureSource{}
	for _, signature := range signatures {
		source[signature.Name] = signature
	}
	return source
}

// newTestTypeSystem returns a type system which knows the fixture classes
// and the given additional classes.
func newTestTypeSystem(signatures ...*ClassSignature) *TypeSystem {
	all := append(fixtureClassSignatures(), signatures...)
	return NewTypeSystem(&Config{
		SignatureSource: newTestSignatureSource(all...),
	})
}

func requireClass(t *testing.T, ts *TypeSystem, qualifiedName string) *ClassType {
	class, err := ts.ClassNamed(qualifiedName)
	require.NoError(t, err)
	require.NotNil(t, class, "missing class %s", qualifiedName)
	return class
}

func requireMembers(t *testing.T, ts *TypeSystem, container Type) *ClassMembers {
	result, err := ts.Members(container)
	require.NoError(t, err)
	require.True(t, result.IsReady())
	return result.Value()
}

// requireMethod returns the first method with the given name
// among the members of the container.
func requireMethod(t *testing.T, ts *TypeSystem, container Type, name string) *Procedure {
	for _, method := range requireMembers(t, ts, container).Methods {
		if method.Name == name {
			return method
		}
	}
	require.FailNow(t, "missing method", "%s.%s", container, name)
	return nil
}

func instantiate(t *testing.T, ts *TypeSystem, qualifiedName string, arguments ...Type) Type {
	return ts.Instantiate(requireClass(t, ts, qualifiedName), arguments)
}

func arrayTypeExpression(element TypeExpression) *ArrayTypeExpression {
	return &ArrayTypeExpression{
		Element: element,
	}
}

func variableArityTypeExpression(element TypeExpression) *ArrayTypeExpression {
	return &ArrayTypeExpression{
		Element:       element,
		VariableArity: true,
	}
}

func extendsWildcardExpression(bound TypeExpression) *WildcardTypeExpression {
	return &WildcardTypeExpression{
		Bound: bound,
	}
}

func superWildcardExpression(bound TypeExpression) *WildcardTypeExpression {
	return &WildcardTypeExpression{
		Bound: bound,
		Super: true,
	}
}

func typeParameter(name string, bounds ...TypeExpression) TypeParameterSignature {
	return TypeParameterSignature{
		Name:   name,
		Bounds: bounds,
	}
}

func genericMethodSignature(
	flags common.Flags,
	typeParameters []TypeParameterSignature,
	returnType TypeExpression,
	name string,
	formals ...TypeExpression,
) ProcedureSignature {
	signature := methodSignature(flags, returnType, name, formals...)
	signature.TypeParameters = typeParameters
	return signature
}

func interfaceSignature(name string, typeParameters []TypeParameterSignature, interfaces ...TypeExpression) *ClassSignature {
	return &ClassSignature{
		Name:           name,
		Kind:           common.ClassKindInterface,
		Flags:          common.FlagPublic,
		TypeParameters: typeParameters,
		Interfaces:     interfaces,
	}
}

// fixtureClassSignatures returns a small collection library in the package `test`:
//
//	interface Collection<E> { int size(); }
//	interface List<E> extends Collection<E> { E get(int); void add(E); }
//	class ArrayList<E> implements List<E> { ... }
//	class StringList implements List<String> { ... }
//	class Box<T extends Number> { T value; T get(); }
//	class IntegerBox extends Box<Integer>
//	class Numbers<T extends Number> { T first(); List<T> all(); <U extends T> U narrow(U); }
//	class Calls { static overloads }
func fixtureClassSignatures() []*ClassSignature {
	e := namedTypeExpression("E")
	t := namedTypeExpression("T")
	u := namedTypeExpression("U")
	intType := namedTypeExpression("int")
	voidType := namedTypeExpression("void")
	objectType := namedTypeExpression("Object")
	stringType := namedTypeExpression("String")
	integerType := namedTypeExpression("Integer")
	numberType := namedTypeExpression("Number")

	listOf := func(argument TypeExpression) TypeExpression {
		return namedTypeExpression("test.List", argument)
	}

	collection := interfaceSignature(
		"test.Collection",
		[]TypeParameterSignature{typeParameter("E")},
	)
	collection.Methods = []ProcedureSignature{
		methodSignature(common.FlagAbstract, intType, "size"),
	}

	list := interfaceSignature(
		"test.List",
		[]TypeParameterSignature{typeParameter("E")},
		namedTypeExpression("test.Collection", e),
	)
	list.Methods = []ProcedureSignature{
		methodSignature(common.FlagAbstract, e, "get", intType),
		methodSignature(common.FlagAbstract, voidType, "add", e),
	}

	return []*ClassSignature{
		collection,
		list,
		{
			Name:           "test.ArrayList",
			Kind:           common.ClassKindClass,
			Flags:          common.FlagPublic,
			TypeParameters: []TypeParameterSignature{typeParameter("E")},
			Interfaces:     []TypeExpression{listOf(e)},
			Constructors: []ProcedureSignature{
				constructorSignature(),
				constructorSignature(intType),
			},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, e, "get", intType),
				methodSignature(common.NoFlags, voidType, "add", e),
				methodSignature(common.NoFlags, intType, "size"),
			},
		},
		{
			Name:       "test.StringList",
			Kind:       common.ClassKindClass,
			Flags:      common.FlagPublic,
			Interfaces: []TypeExpression{listOf(stringType)},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, stringType, "get", intType),
				methodSignature(common.NoFlags, voidType, "add", stringType),
				methodSignature(common.NoFlags, intType, "size"),
			},
		},
		{
			Name:           "test.Box",
			Kind:           common.ClassKindClass,
			Flags:          common.FlagPublic,
			TypeParameters: []TypeParameterSignature{typeParameter("T", numberType)},
			Constructors: []ProcedureSignature{
				constructorSignature(t),
			},
			Fields: []FieldSignature{
				{
					Name:  "value",
					Flags: common.FlagPublic,
					Type:  t,
				},
			},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, t, "get"),
			},
		},
		{
			Name:      "test.IntegerBox",
			Kind:      common.ClassKindClass,
			Flags:     common.FlagPublic,
			SuperType: namedTypeExpression("test.Box", integerType),
		},
		{
			Name:           "test.Numbers",
			Kind:           common.ClassKindClass,
			Flags:          common.FlagPublic,
			TypeParameters: []TypeParameterSignature{typeParameter("T", numberType)},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, t, "first"),
				methodSignature(common.NoFlags, listOf(t), "all"),
				genericMethodSignature(
					common.NoFlags,
					[]TypeParameterSignature{typeParameter("U", t)},
					u,
					"narrow",
					u,
				),
			},
		},
		{
			Name:  "test.Calls",
			Kind:  common.ClassKindClass,
			Flags: common.FlagPublic,
			Methods: []ProcedureSignature{
				methodSignature(common.FlagStatic, voidType, "f", intType),
				methodSignature(common.FlagStatic, voidType, "f", integerType),

				methodSignature(common.FlagStatic, voidType, "g", objectType),
				methodSignature(common.FlagStatic, voidType, "g", variableArityTypeExpression(stringType)),

				methodSignature(common.FlagStatic, voidType, "h", integerType, objectType),
				methodSignature(common.FlagStatic, voidType, "h", objectType, integerType),

				methodSignature(common.FlagStatic, voidType, "k", objectType),
				methodSignature(common.FlagStatic, voidType, "k", stringType),

				methodSignature(common.FlagStatic, voidType, "w", namedTypeExpression("long")),

				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T", numberType)},
					t,
					"pick",
					t, t,
				),
				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T")},
					t,
					"id",
					t,
				),
				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T")},
					listOf(t),
					"asList",
					variableArityTypeExpression(t),
				),
				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T")},
					listOf(t),
					"emptyList",
				),
				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T")},
					t,
					"head",
					listOf(extendsWildcardExpression(t)),
				),
				genericMethodSignature(
					common.FlagStatic,
					[]TypeParameterSignature{typeParameter("T")},
					voidType,
					"fill",
					listOf(superWildcardExpression(t)),
					t,
				),
			},
		},
	}
}
