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
	"github.com/onflow/jgen/errors"
)

// TypeSystem is one analysis session: it owns the loaded classes,
// the arena of type variables, and the memoization caches.
//
// A TypeSystem is not safe for concurrent use.
type TypeSystem struct {
	config  *Config
	arena   *TypeVariableArena
	classes map[string]*ClassType

	builtinSignatures   map[string]*ClassSignature
	variableArityArrays map[string]*ArrayType
	lubsInProgress      map[string]struct{}
	// subtypeCaptures memoizes the capture of wildcard-parameterized subtypes,
	// nil if capture failed
	subtypeCaptures map[*InstantiatedClassType]Type

	ObjectType       *ClassType
	StringType       *ClassType
	CloneableType    *ClassType
	SerializableType *ClassType
	NumberType       *ClassType
	EnumType         *ClassType
	AnnotationType   *ClassType
}

func NewTypeSystem(config *Config) *TypeSystem {
	if config == nil {
		config = &Config{}
	}

	ts := &TypeSystem{
		config:              config,
		arena:               NewTypeVariableArena(),
		classes:             map[string]*ClassType{},
		builtinSignatures:   map[string]*ClassSignature{},
		variableArityArrays: map[string]*ArrayType{},
		lubsInProgress:      map[string]struct{}{},
		subtypeCaptures:     map[*InstantiatedClassType]Type{},
	}

	for _, signature := range builtinClassSignatures() {
		ts.builtinSignatures[signature.Name] = signature
	}

	// The top type must be loaded first, it is the default bound of all type variables
	ts.ObjectType = ts.builtinClass(ObjectTypeName)
	ts.StringType = ts.builtinClass(StringTypeName)
	ts.CloneableType = ts.builtinClass(CloneableTypeName)
	ts.SerializableType = ts.builtinClass(SerializableTypeName)
	ts.NumberType = ts.builtinClass(NumberTypeName)
	ts.EnumType = ts.builtinClass(EnumTypeName)
	ts.AnnotationType = ts.builtinClass(AnnotationTypeName)

	return ts
}

func (ts *TypeSystem) Config() *Config {
	return ts.config
}

func (ts *TypeSystem) Arena() *TypeVariableArena {
	return ts.arena
}

func (ts *TypeSystem) builtinClass(qualifiedName string) *ClassType {
	class, err := ts.ClassNamed(qualifiedName)
	if err != nil {
		panic(errors.NewUnexpectedErrorFromCause(err))
	}
	if class == nil {
		panic(errors.NewUnexpectedError("missing builtin class `%s`", qualifiedName))
	}
	return class
}

// NewTypeVariable creates a type variable bounded by the top type.
// Its bounds may be set once, using TypeVariable.SetBounds.
func (ts *TypeSystem) NewTypeVariable(name string, site TypeVariableSite) *TypeVariable {
	return ts.arena.New(name, site, ts.ObjectType)
}

func (ts *TypeSystem) newCapturedTypeVariable(wildcard *WildcardType) *TypeVariable {
	variable := ts.arena.New("", TypeVariableSiteSynthetic, ts.ObjectType)
	variable.Name = captureName(variable.ID)
	variable.Capture = wildcard
	return variable
}

// Instantiate returns the parameterization of a class with the given type arguments
// for the class's own type parameters.
// A class without type parameters is returned unchanged.
func (ts *TypeSystem) Instantiate(class *ClassType, arguments []Type) Type {
	if len(arguments) != len(class.TypeParameters) {
		panic(errors.NewUnexpectedError(
			"class `%s` has %d type parameters, got %d type arguments",
			class.QualifiedName,
			len(class.TypeParameters),
			len(arguments),
		))
	}
	if len(arguments) == 0 {
		return class
	}
	return &InstantiatedClassType{
		Base:  class,
		Subst: NewSubstitution(ts, class.TypeParameters, arguments),
	}
}

// InstantiateWith returns the parameterization of a class for a substitution
// of the class's own and enclosing type parameters.
func (ts *TypeSystem) InstantiateWith(class *ClassType, subst *Substitution) *InstantiatedClassType {
	if !class.CanBeRaw() {
		panic(errors.NewUnexpectedError("class `%s` is not generic", class.QualifiedName))
	}
	return &InstantiatedClassType{
		Base:  class,
		Subst: subst,
	}
}

// RawClass returns the raw form of a generic class.
func (ts *TypeSystem) RawClass(class *ClassType) *RawClass {
	if !class.CanBeRaw() {
		panic(errors.NewUnexpectedError("class `%s` has no type parameters and can not be raw", class.QualifiedName))
	}
	if class.rawClass == nil {
		class.rawClass = &RawClass{
			Base: class,
		}
	}
	return class.rawClass
}

// UnboundedWildcard returns `?`.
func (ts *TypeSystem) UnboundedWildcard() *WildcardType {
	return &WildcardType{
		UpperBound: ts.ObjectType,
	}
}

// ExtendsWildcard returns `? extends upperBound`.
// A nil bound is the top type.
func (ts *TypeSystem) ExtendsWildcard(upperBound Type) *WildcardType {
	if upperBound == nil {
		upperBound = ts.ObjectType
	}
	return &WildcardType{
		UpperBound: upperBound,
	}
}

// SuperWildcard returns `? super lowerBound`.
func (ts *TypeSystem) SuperWildcard(lowerBound Type) *WildcardType {
	return &WildcardType{
		UpperBound: ts.ObjectType,
		LowerBound: lowerBound,
	}
}

// VariableArityArrayType returns the array type of a trailing variable-arity formal.
// The array types are cached by element type.
func (ts *TypeSystem) VariableArityArrayType(element Type) *ArrayType {
	key := typeKey(element)
	arrayType, ok := ts.variableArityArrays[key]
	if !ok {
		arrayType = &ArrayType{
			Element:       element,
			VariableArity: true,
		}
		ts.variableArityArrays[key] = arrayType
	}
	return arrayType
}

// wrapperClass returns the class which boxes values of the given primitive type.
func (ts *TypeSystem) wrapperClass(primitiveType *PrimitiveType) *ClassType {
	if primitiveType.wrapperName == "" {
		return nil
	}
	return ts.builtinClass(primitiveType.wrapperName)
}

func (ts *TypeSystem) isObject(t Type) bool {
	return t == ts.ObjectType
}
