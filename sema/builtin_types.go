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
	"github.com/onflow/jgen/common"
)

const (
	ObjectTypeName           = "lang.Object"
	StringTypeName           = "lang.String"
	CloneableTypeName        = "lang.Cloneable"
	SerializableTypeName     = "lang.Serializable"
	ComparableTypeName       = "lang.Comparable"
	CharSequenceTypeName     = "lang.CharSequence"
	NumberTypeName           = "lang.Number"
	EnumTypeName             = "lang.Enum"
	AnnotationTypeName       = "lang.Annotation"
	ThrowableTypeName        = "lang.Throwable"
	ExceptionTypeName        = "lang.Exception"
	RuntimeExceptionTypeName = "lang.RuntimeException"
	ErrorTypeName            = "lang.Error"
)

// BuiltinPackage is the package whose classes are visible by their simple name everywhere.
const BuiltinPackage = "lang"

func namedTypeExpression(name string, arguments ...TypeExpression) *NamedTypeExpression {
	return &NamedTypeExpression{
		Name:      name,
		Arguments: arguments,
	}
}

func methodSignature(flags common.Flags, returnType TypeExpression, name string, formals ...TypeExpression) ProcedureSignature {
	return ProcedureSignature{
		Name:       name,
		Flags:      flags | common.FlagPublic,
		ReturnType: returnType,
		Formals:    formals,
	}
}

func constructorSignature(formals ...TypeExpression) ProcedureSignature {
	return ProcedureSignature{
		Flags:   common.FlagPublic,
		Formals: formals,
	}
}

func wrapperClassSignature(name string, primitive string, superType TypeExpression, interfaces ...TypeExpression) *ClassSignature {
	self := namedTypeExpression(name)
	primitiveType := namedTypeExpression(primitive)
	return &ClassSignature{
		Name:       name,
		Kind:       common.ClassKindClass,
		Flags:      common.FlagPublic | common.FlagFinal,
		SuperType:  superType,
		Interfaces: append(interfaces, namedTypeExpression(ComparableTypeName, self)),
		Constructors: []ProcedureSignature{
			constructorSignature(primitiveType),
		},
		Methods: []ProcedureSignature{
			methodSignature(common.FlagStatic, self, "valueOf", primitiveType),
			methodSignature(common.NoFlags, primitiveType, primitive+"Value"),
			methodSignature(common.NoFlags, namedTypeExpression("int"), "compareTo", self),
		},
	}
}

func exceptionClassSignature(name string, superType string) *ClassSignature {
	return &ClassSignature{
		Name:      name,
		Kind:      common.ClassKindClass,
		Flags:     common.FlagPublic,
		SuperType: namedTypeExpression(superType),
		Constructors: []ProcedureSignature{
			constructorSignature(),
			constructorSignature(namedTypeExpression(StringTypeName)),
		},
	}
}

// builtinClassSignatures returns the signatures of the classes
// which the type rules themselves refer to.
func builtinClassSignatures() []*ClassSignature {
	objectType := namedTypeExpression(ObjectTypeName)
	stringType := namedTypeExpression(StringTypeName)
	serializableType := namedTypeExpression(SerializableTypeName)
	numberType := namedTypeExpression(NumberTypeName)
	intType := namedTypeExpression("int")
	booleanType := namedTypeExpression("boolean")

	typeParameterT := TypeParameterSignature{Name: "T"}
	typeParameterE := TypeParameterSignature{
		Name: "E",
		Bounds: []TypeExpression{
			namedTypeExpression(EnumTypeName, namedTypeExpression("E")),
		},
	}

	return []*ClassSignature{
		{
			Name:  ObjectTypeName,
			Kind:  common.ClassKindClass,
			Flags: common.FlagPublic,
			Constructors: []ProcedureSignature{
				constructorSignature(),
			},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, booleanType, "equals", objectType),
				methodSignature(common.NoFlags, intType, "hashCode"),
				methodSignature(common.NoFlags, stringType, "toString"),
			},
		},
		{
			Name:  CloneableTypeName,
			Kind:  common.ClassKindInterface,
			Flags: common.FlagPublic,
		},
		{
			Name:  SerializableTypeName,
			Kind:  common.ClassKindInterface,
			Flags: common.FlagPublic,
		},
		{
			Name:           ComparableTypeName,
			Kind:           common.ClassKindInterface,
			Flags:          common.FlagPublic,
			TypeParameters: []TypeParameterSignature{typeParameterT},
			Methods: []ProcedureSignature{
				methodSignature(common.FlagAbstract, intType, "compareTo", namedTypeExpression("T")),
			},
		},
		{
			Name:  CharSequenceTypeName,
			Kind:  common.ClassKindInterface,
			Flags: common.FlagPublic,
			Methods: []ProcedureSignature{
				methodSignature(common.FlagAbstract, intType, "length"),
			},
		},
		{
			Name:  StringTypeName,
			Kind:  common.ClassKindClass,
			Flags: common.FlagPublic | common.FlagFinal,
			Interfaces: []TypeExpression{
				serializableType,
				namedTypeExpression(ComparableTypeName, stringType),
				namedTypeExpression(CharSequenceTypeName),
			},
			Constructors: []ProcedureSignature{
				constructorSignature(),
				constructorSignature(stringType),
			},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, intType, "length"),
				methodSignature(common.NoFlags, intType, "compareTo", stringType),
				methodSignature(common.NoFlags, stringType, "concat", stringType),
				methodSignature(common.FlagStatic, stringType, "valueOf", objectType),
				methodSignature(common.FlagStatic, stringType, "valueOf", intType),
			},
		},
		{
			Name:       NumberTypeName,
			Kind:       common.ClassKindClass,
			Flags:      common.FlagPublic | common.FlagAbstract,
			Interfaces: []TypeExpression{serializableType},
			Constructors: []ProcedureSignature{
				constructorSignature(),
			},
			Methods: []ProcedureSignature{
				methodSignature(common.FlagAbstract, intType, "intValue"),
				methodSignature(common.FlagAbstract, namedTypeExpression("long"), "longValue"),
				methodSignature(common.FlagAbstract, namedTypeExpression("double"), "doubleValue"),
			},
		},
		wrapperClassSignature("lang.Boolean", "boolean", nil, serializableType),
		wrapperClassSignature("lang.Character", "char", nil, serializableType),
		wrapperClassSignature("lang.Byte", "byte", numberType),
		wrapperClassSignature("lang.Short", "short", numberType),
		wrapperClassSignature("lang.Integer", "int", numberType),
		wrapperClassSignature("lang.Long", "long", numberType),
		wrapperClassSignature("lang.Float", "float", numberType),
		wrapperClassSignature("lang.Double", "double", numberType),
		{
			Name:           EnumTypeName,
			Kind:           common.ClassKindClass,
			Flags:          common.FlagPublic | common.FlagAbstract,
			TypeParameters: []TypeParameterSignature{typeParameterE},
			Interfaces: []TypeExpression{
				namedTypeExpression(ComparableTypeName, namedTypeExpression("E")),
				serializableType,
			},
			Methods: []ProcedureSignature{
				methodSignature(common.FlagFinal, stringType, "name"),
				methodSignature(common.FlagFinal, intType, "ordinal"),
				methodSignature(common.FlagFinal, intType, "compareTo", namedTypeExpression("E")),
			},
		},
		{
			Name:  AnnotationTypeName,
			Kind:  common.ClassKindInterface,
			Flags: common.FlagPublic,
		},
		{
			Name:       ThrowableTypeName,
			Kind:       common.ClassKindClass,
			Flags:      common.FlagPublic,
			Interfaces: []TypeExpression{serializableType},
			Constructors: []ProcedureSignature{
				constructorSignature(),
				constructorSignature(stringType),
			},
			Methods: []ProcedureSignature{
				methodSignature(common.NoFlags, stringType, "getMessage"),
			},
		},
		exceptionClassSignature(ExceptionTypeName, ThrowableTypeName),
		exceptionClassSignature(RuntimeExceptionTypeName, ExceptionTypeName),
		exceptionClassSignature(ErrorTypeName, ThrowableTypeName),
	}
}
