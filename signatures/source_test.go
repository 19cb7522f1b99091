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
	"embed"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
	"github.com/onflow/jgen/pretty"
	"github.com/onflow/jgen/sema"
)

//go:embed testdata/*.yaml
var testdataFS embed.FS

func newTestdataSource(t *testing.T) *Source {
	source := NewSource()
	err := source.LoadFS(testdataFS, "testdata/*.yaml")
	require.NoError(t, err)
	return source
}

func newTestdataTypeSystem(t *testing.T) *sema.TypeSystem {
	return sema.NewTypeSystem(&sema.Config{
		SignatureSource: newTestdataSource(t),
	})
}

func requireClass(t *testing.T, ts *sema.TypeSystem, qualifiedName string) *sema.ClassType {
	class, err := ts.ClassNamed(qualifiedName)
	require.NoError(t, err)
	require.NotNil(t, class, "missing class %s", qualifiedName)
	return class
}

func findMethod(
	t *testing.T,
	ts *sema.TypeSystem,
	container sema.Type,
	name string,
	argumentTypes ...sema.Type,
) *sema.Procedure {
	result, err := ts.FindMethod(sema.MethodQuery{
		Container:     container,
		Name:          name,
		ArgumentTypes: argumentTypes,
	})
	require.NoError(t, err)
	require.True(t, result.IsReady())
	return result.Value()
}

func TestSourceLoadFS(t *testing.T) {

	t.Parallel()

	source := newTestdataSource(t)

	assert.Equal(t,
		[]string{
			"util.Collection",
			"util.List",
			"util.ArrayList",
			"util.Collections",
			"values.Box",
			"values.Box.Entry",
			"values.Color",
			"values.Marker",
		},
		source.ClassNames(),
	)

	name, code, ok := source.File("values.Box.Entry")
	require.True(t, ok)
	assert.Equal(t, "testdata/values.yaml", name)
	assert.Contains(t, string(code), "name: Entry")

	_, _, ok = source.File("values.Missing")
	assert.False(t, ok)

	signature, err := source.ClassSignature("values.Missing")
	require.NoError(t, err)
	assert.Nil(t, signature)
}

func TestSourceClassSignature(t *testing.T) {

	t.Parallel()

	source := newTestdataSource(t)

	t.Run("interface", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("util.List")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, common.ClassKindInterface, signature.Kind)
		assert.Equal(t, common.FlagPublic, signature.Flags)
		assert.Empty(t, signature.Outer)
		require.Len(t, signature.TypeParameters, 1)
		assert.Equal(t, "E", signature.TypeParameters[0].Name)
		assert.Nil(t, signature.SuperType)
		require.Len(t, signature.Interfaces, 1)
		assert.Equal(t, "Collection<E>", signature.Interfaces[0].String())

		require.Len(t, signature.Methods, 1)
		method := signature.Methods[0]
		assert.Equal(t, "get", method.Name)
		assert.Equal(t, common.FlagPublic|common.FlagAbstract, method.Flags)
		assert.Equal(t, "E", method.ReturnType.String())
		require.Len(t, method.Formals, 1)
		assert.Equal(t, "int", method.Formals[0].String())
	})

	t.Run("class", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("util.ArrayList")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, common.ClassKindClass, signature.Kind)
		require.Len(t, signature.Constructors, 2)
		assert.Empty(t, signature.Constructors[0].Formals)
		assert.Nil(t, signature.Constructors[0].ReturnType)
		require.Len(t, signature.Fields, 1)
		assert.Equal(t, "modCount", signature.Fields[0].Name)
		assert.Equal(t, common.FlagProtected, signature.Fields[0].Flags)
		assert.Len(t, signature.Methods, 3)
	})

	t.Run("generic method", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("util.Collections")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, common.FlagPublic|common.FlagFinal, signature.Flags)

		asList := signature.Methods[0]
		assert.Equal(t, common.FlagPublic|common.FlagStatic, asList.Flags)
		require.Len(t, asList.Formals, 1)
		assert.Equal(t, "T...", asList.Formals[0].String())

		maxMethod := signature.Methods[1]
		require.Len(t, maxMethod.TypeParameters, 1)
		require.Len(t, maxMethod.TypeParameters[0].Bounds, 1)
		assert.Equal(t, "Comparable<T>", maxMethod.TypeParameters[0].Bounds[0].String())
		assert.Equal(t, "Collection<? extends T>", maxMethod.Formals[0].String())
	})

	t.Run("void return", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("util.Collections")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, "void", signature.Methods[2].ReturnType.String())
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("values.Box.Entry")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, "values.Box", signature.Outer)
		assert.Equal(t, common.FlagPublic|common.FlagStatic, signature.Flags)
	})

	t.Run("enum", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("values.Color")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, common.ClassKindEnum, signature.Kind)
		assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, signature.EnumConstants)
	})

	t.Run("annotation", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("values.Marker")
		require.NoError(t, err)
		require.NotNil(t, signature)

		assert.Equal(t, common.ClassKindAnnotation, signature.Kind)
		require.Len(t, signature.AnnotationElements, 2)
		assert.False(t, signature.AnnotationElements[0].HasDefault)
		assert.True(t, signature.AnnotationElements[1].HasDefault)
	})

	t.Run("positions", func(t *testing.T) {
		t.Parallel()

		signature, err := source.ClassSignature("util.List")
		require.NoError(t, err)
		require.NotNil(t, signature)

		// `  - name: List` on line 17
		assert.Equal(t, 17, signature.StartPos.Line)
		assert.Equal(t, 10, signature.StartPos.Column)
		assert.Equal(t, 13, signature.EndPos.Column)

		// `      - Collection<E>` on line 22
		interfaceStart := signature.Interfaces[0].StartPosition()
		assert.Equal(t, 22, interfaceStart.Line)
		assert.Equal(t, 8, interfaceStart.Column)
	})
}

func TestSourceTypeSystem(t *testing.T) {

	t.Parallel()

	t.Run("overloads", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)
		collections := requireClass(t, ts, "util.Collections")
		integerType := ts.Boxing(sema.IntType)

		assert.Equal(t,
			"print(int)",
			findMethod(t, ts, collections, "print", sema.IntType).Signature(),
		)
		assert.Equal(t,
			"print(lang.Integer)",
			findMethod(t, ts, collections, "print", integerType).Signature(),
		)
		assert.Equal(t,
			"print(lang.Object)",
			findMethod(t, ts, collections, "print", ts.StringType).Signature(),
		)
	})

	t.Run("inference", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)
		collections := requireClass(t, ts, "util.Collections")

		asList := findMethod(t, ts, collections, "asList", ts.StringType, ts.StringType)
		assert.Equal(t, "util.List<lang.String>", asList.ReturnType.String())

		integerType := ts.Boxing(sema.IntType)
		integers := ts.Instantiate(requireClass(t, ts, "util.ArrayList"), []sema.Type{integerType})

		maxMethod := findMethod(t, ts, collections, "max", integers)
		assert.Equal(t, "lang.Integer", maxMethod.ReturnType.String())
	})

	t.Run("instantiated members", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)

		strings := ts.Instantiate(requireClass(t, ts, "util.ArrayList"), []sema.Type{ts.StringType})

		get := findMethod(t, ts, strings, "get", sema.IntType)
		assert.Equal(t, "lang.String", get.ReturnType.String())

		collection := ts.Instantiate(requireClass(t, ts, "util.Collection"), []sema.Type{ts.StringType})
		assert.True(t, ts.IsSubtype(strings, collection))

		result, err := ts.FindConstructor(sema.ConstructorQuery{
			Container:     strings,
			ArgumentTypes: []sema.Type{sema.IntType},
		})
		require.NoError(t, err)
		require.True(t, result.IsReady())
		assert.Equal(t, "ArrayList(int)", result.Value().Signature())
	})

	t.Run("bounded type parameter", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)

		box := requireClass(t, ts, "values.Box")
		require.Len(t, box.TypeParameters, 1)
		assert.True(t, ts.IsSubtype(box.TypeParameters[0], ts.NumberType))

		result, err := ts.FindField(sema.FieldQuery{
			Container: ts.RawClass(box),
			Name:      "value",
		})
		require.NoError(t, err)
		require.True(t, result.IsReady())
		assert.Equal(t, ts.NumberType, result.Value().Type)
	})

	t.Run("nested class", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)

		entry := requireClass(t, ts, "values.Box.Entry")
		assert.Same(t, requireClass(t, ts, "values.Box"), entry.Outer)
		assert.False(t, entry.IsInner())
	})

	t.Run("enum and annotation", func(t *testing.T) {
		t.Parallel()

		ts := newTestdataTypeSystem(t)

		color := requireClass(t, ts, "values.Color")
		constant, err := ts.FindEnumConstant(color, "BLUE", ast.EmptyRange)
		require.NoError(t, err)
		assert.Equal(t, 2, constant.Value().Ordinal)

		marker := requireClass(t, ts, "values.Marker")
		element, err := ts.FindAnnotationElement(marker, "priority", ast.EmptyRange)
		require.NoError(t, err)
		assert.True(t, element.Value().HasDefault)
		assert.Equal(t, sema.IntType, element.Value().Type)
	})
}

func TestSourceLoadErrors(t *testing.T) {

	t.Parallel()

	type errorTest struct {
		name    string
		code    string
		message string
		line    int
		column  int
	}

	tests := []errorTest{
		{
			name: "unknown key",
			code: `
package: broken
classes:
  - name: Broken
    kinds: interface
`,
			message: "unknown key `kinds`, expected one of " +
				"[name kind flags typeParameters super interfaces fields constructors methods constants elements classes]",
			line:   5,
			column: 4,
		},
		{
			name: "missing name",
			code: `
package: broken
classes:
  - kind: interface
`,
			message: "missing `name`",
			line:    4,
			column:  4,
		},
		{
			name: "invalid class name",
			code: `
package: broken
classes:
  - name: Bro-ken
`,
			message: "invalid class name `Bro-ken`",
			line:    4,
			column:  10,
		},
		{
			name: "unknown kind",
			code: `
package: broken
classes:
  - name: Broken
    kind: struct
`,
			message: "unknown class kind `struct`",
			line:    5,
			column:  10,
		},
		{
			name: "unknown modifier",
			code: `
package: broken
classes:
  - name: Broken
    flags: [public, pubic]
`,
			message: "unknown modifier `pubic`",
			line:    5,
			column:  20,
		},
		{
			name: "duplicate modifier",
			code: `
package: broken
classes:
  - name: Broken
    flags: [static, static]
`,
			message: "duplicate modifier `static`",
			line:    5,
			column:  20,
		},
		{
			name: "invalid type expression",
			code: `
package: broken
classes:
  - name: Broken
    methods:
      - name: m
        formals:
          - List<String
`,
			message: "missing '>' at end of type arguments",
			line:    8,
			column:  23,
		},
		{
			name: "wildcard supertype",
			code: `
package: broken
classes:
  - name: Broken
    super: '? extends Object'
`,
			message: "wildcard is only allowed as a type argument",
			line:    5,
			column:  12,
		},
		{
			name: "variable arity return type",
			code: `
package: broken
classes:
  - name: Broken
    methods:
      - name: m
        returns: String...
`,
			message: "variable arity is only allowed for formal parameters",
			line:    7,
			column:  23,
		},
		{
			name: "constants of class",
			code: `
package: broken
classes:
  - name: Broken
    constants: [A]
`,
			message: "only enums may declare constants",
			line:    5,
			column:  15,
		},
		{
			name: "duplicate class",
			code: `
package: broken
classes:
  - name: Broken
  - name: Broken
`,
			message: "class broken.Broken is already declared",
			line:    5,
			column:  10,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			source := NewSource()
			err := source.Load("broken.yaml", []byte(test.code))
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "broken.yaml", loadErr.Name)

			var parsingErr ParsingError
			require.ErrorAs(t, err, &parsingErr)
			assert.Equal(t, test.message, parsingErr.Message)
			assert.Equal(t, test.line, parsingErr.StartPos.Line)
			assert.Equal(t, test.column, parsingErr.StartPos.Column)
			assert.True(t, errors.IsUserError(err))

			assert.Empty(t, source.ClassNames())
		})
	}
}

func TestSourceLoadInvalidYAML(t *testing.T) {

	t.Parallel()

	source := NewSource()
	err := source.Load("broken.yaml", []byte("classes: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestSourceLoadTwice(t *testing.T) {

	t.Parallel()

	code := []byte("package: twice\nclasses:\n  - name: Once\n")

	source := NewSource()
	require.NoError(t, source.Load("twice.yaml", code))

	err := source.Load("twice.yaml", code)
	require.EqualError(t, err, `signature file "twice.yaml" is already loaded`)

	err = source.Load("again.yaml", code)
	var parsingErr ParsingError
	require.ErrorAs(t, err, &parsingErr)
	assert.Equal(t, "class twice.Once is already declared", parsingErr.Message)

	assert.Equal(t, []string{"twice.Once"}, source.ClassNames())
}

func TestLoadErrorMessage(t *testing.T) {

	t.Parallel()

	source := NewSource()
	err := source.Load(
		"broken.yaml",
		[]byte("package: broken\nclasses:\n  - name: Broken\n    super: Map<String\n"),
	)
	require.Error(t, err)

	var parsingErr ParsingError
	require.ErrorAs(t, err, &parsingErr)

	assert.Equal(t,
		"Loading signatures failed:\n"+
			"error: missing '>' at end of type arguments\n"+
			" --> broken.yaml:4:21\n"+
			"  |\n"+
			"4 |     super: Map<String\n"+
			"  | "+strings.Repeat(" ", 21)+"^ at "+parsingErr.Path+"\n",
		err.Error(),
	)
}

func TestSemanticErrorPositions(t *testing.T) {

	t.Parallel()

	code := "package: broken\nclasses:\n  - name: Orphan\n    super: Missing\n"

	source := NewSource()
	require.NoError(t, source.Load("broken.yaml", []byte(code)))

	ts := sema.NewTypeSystem(&sema.Config{
		SignatureSource: source,
	})

	_, err := ts.ClassNamed("broken.Orphan")
	require.Error(t, err)

	var notDeclaredErr *sema.NotDeclaredTypeError
	require.ErrorAs(t, err, &notDeclaredErr)
	assert.Equal(t, "Missing", notDeclaredErr.Name)

	name, fileCode, ok := source.File("broken.Orphan")
	require.True(t, ok)

	var builder strings.Builder
	printErr := pretty.NewErrorPrettyPrinter(&builder, false).
		PrettyPrintError(notDeclaredErr, name, fileCode)
	require.NoError(t, printErr)

	assert.Equal(t,
		"error: cannot find type `Missing`\n"+
			" --> broken.yaml:4:11\n"+
			"  |\n"+
			"4 |     super: Missing\n"+
			"  |            ^^^^^^^\n",
		builder.String(),
	)
}
