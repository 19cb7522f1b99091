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
	"github.com/turbolent/prettier"

	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
)

// Type is the closed set of types of the analysed program:
//
//   - *PrimitiveType
//   - *NullType
//   - *ArrayType
//   - *ClassType (a class declaration, possibly generic)
//   - *TypeVariable
//   - *WildcardType
//   - *IntersectionType
//   - *InstantiatedClassType
//   - *RawClass
//   - *LubType
//
// Every algorithm switches over all variants,
// and panics with an unreachable error for any other value.
type Type interface {
	isType()
	String() string
	Equal(other Type) bool
}

// PrimitiveKind

type PrimitiveKind uint8

const (
	PrimitiveKindUnknown PrimitiveKind = iota
	PrimitiveKindBoolean
	PrimitiveKindByte
	PrimitiveKindShort
	PrimitiveKindChar
	PrimitiveKindInt
	PrimitiveKindLong
	PrimitiveKindFloat
	PrimitiveKindDouble
	PrimitiveKindVoid
)

// PrimitiveType

type PrimitiveType struct {
	Kind PrimitiveKind
	name string
	// wrapperName is the name of the class which boxes values of the type
	wrapperName string
}

var (
	BooleanType = &PrimitiveType{Kind: PrimitiveKindBoolean, name: "boolean", wrapperName: "lang.Boolean"}
	ByteType    = &PrimitiveType{Kind: PrimitiveKindByte, name: "byte", wrapperName: "lang.Byte"}
	ShortType   = &PrimitiveType{Kind: PrimitiveKindShort, name: "short", wrapperName: "lang.Short"}
	CharType    = &PrimitiveType{Kind: PrimitiveKindChar, name: "char", wrapperName: "lang.Character"}
	IntType     = &PrimitiveType{Kind: PrimitiveKindInt, name: "int", wrapperName: "lang.Integer"}
	LongType    = &PrimitiveType{Kind: PrimitiveKindLong, name: "long", wrapperName: "lang.Long"}
	FloatType   = &PrimitiveType{Kind: PrimitiveKindFloat, name: "float", wrapperName: "lang.Float"}
	DoubleType  = &PrimitiveType{Kind: PrimitiveKindDouble, name: "double", wrapperName: "lang.Double"}
	VoidType    = &PrimitiveType{Kind: PrimitiveKindVoid, name: "void"}
)

var AllPrimitiveTypes = []*PrimitiveType{
	BooleanType,
	ByteType,
	ShortType,
	CharType,
	IntType,
	LongType,
	FloatType,
	DoubleType,
	VoidType,
}

// PrimitiveTypeNamed returns the primitive type with the given keyword, if any.
func PrimitiveTypeNamed(name string) *PrimitiveType {
	for _, primitiveType := range AllPrimitiveTypes {
		if primitiveType.name == name {
			return primitiveType
		}
	}
	return nil
}

var _ Type = &PrimitiveType{}

func (*PrimitiveType) isType() {}

func (t *PrimitiveType) String() string {
	return t.name
}

func (t *PrimitiveType) Equal(other Type) bool {
	return t == other
}

func (t *PrimitiveType) IsNumeric() bool {
	switch t.Kind {
	case PrimitiveKindByte,
		PrimitiveKindShort,
		PrimitiveKindChar,
		PrimitiveKindInt,
		PrimitiveKindLong,
		PrimitiveKindFloat,
		PrimitiveKindDouble:

		return true
	}
	return false
}

func (t *PrimitiveType) IsVoid() bool {
	return t.Kind == PrimitiveKindVoid
}

// NullType

type NullType struct{}

var TheNullType = &NullType{}

var _ Type = &NullType{}

func (*NullType) isType() {}

func (*NullType) String() string {
	return "null"
}

func (t *NullType) Equal(other Type) bool {
	_, ok := other.(*NullType)
	return ok
}

// ArrayType

type ArrayType struct {
	Element Type
	// VariableArity is set for the type of a trailing variable-arity formal
	VariableArity bool
}

var _ Type = &ArrayType{}

func NewArrayType(element Type) *ArrayType {
	return &ArrayType{
		Element: element,
	}
}

func (*ArrayType) isType() {}

func (t *ArrayType) String() string {
	return typeString(t)
}

func (t *ArrayType) Equal(other Type) bool {
	otherArray, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	return t.Element.Equal(otherArray.Element)
}

// WildcardType

// WildcardType is a use-site type argument.
// An extends-wildcard has no lower bound, a super-wildcard has one.
// The upper bound is never nil: an unbounded wildcard is bounded by the top type.
type WildcardType struct {
	UpperBound Type
	LowerBound Type
}

var _ Type = &WildcardType{}

func (*WildcardType) isType() {}

func (t *WildcardType) String() string {
	return typeString(t)
}

func (t *WildcardType) IsSuper() bool {
	return t.LowerBound != nil
}

func (t *WildcardType) IsExtends() bool {
	return t.LowerBound == nil
}

func (t *WildcardType) Equal(other Type) bool {
	otherWildcard, ok := other.(*WildcardType)
	if !ok {
		return false
	}
	return equalOptionalTypes(t.UpperBound, otherWildcard.UpperBound) &&
		equalOptionalTypes(t.LowerBound, otherWildcard.LowerBound)
}

func equalOptionalTypes(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// IntersectionType

type IntersectionType struct {
	Bounds []Type
}

var _ Type = &IntersectionType{}

// NewIntersectionType returns the intersection of the given bounds.
// There must be at least two bounds.
func NewIntersectionType(bounds []Type) *IntersectionType {
	if len(bounds) < 2 {
		panic(errors.NewUnexpectedError("intersection type requires at least two bounds, got %d", len(bounds)))
	}
	return &IntersectionType{
		Bounds: bounds,
	}
}

func (*IntersectionType) isType() {}

func (t *IntersectionType) String() string {
	return typeString(t)
}

func (t *IntersectionType) Equal(other Type) bool {
	otherIntersection, ok := other.(*IntersectionType)
	if !ok {
		return false
	}
	return equalTypeLists(t.Bounds, otherIntersection.Bounds)
}

func equalTypeLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i, t := range a {
		if !t.Equal(b[i]) {
			return false
		}
	}
	return true
}

// InstantiatedClassType

// InstantiatedClassType is a parameterized use of a generic class declaration.
// Members and supertypes are derived on demand by applying the substitution.
type InstantiatedClassType struct {
	Base  *ClassType
	Subst *Substitution
}

var _ Type = &InstantiatedClassType{}

func (*InstantiatedClassType) isType() {}

func (t *InstantiatedClassType) String() string {
	return typeString(t)
}

// TypeArguments returns the actual arguments for the base's own type parameters.
func (t *InstantiatedClassType) TypeArguments() []Type {
	return t.actualsFor(t.Base.TypeParameters)
}

// AllTypeArguments returns the actual arguments for the base's own
// and enclosing type parameters.
func (t *InstantiatedClassType) AllTypeArguments() []Type {
	return t.actualsFor(t.Base.ClassAndEnclosingTypeVariables())
}

func (t *InstantiatedClassType) actualsFor(variables []*TypeVariable) []Type {
	actuals := make([]Type, len(variables))
	for i, variable := range variables {
		if actual, ok := t.Subst.Lookup(variable); ok {
			actuals[i] = actual
		} else {
			actuals[i] = variable
		}
	}
	return actuals
}

func (t *InstantiatedClassType) Equal(other Type) bool {
	otherInstantiated, ok := other.(*InstantiatedClassType)
	if !ok || t.Base != otherInstantiated.Base {
		return false
	}
	return equalTypeLists(t.AllTypeArguments(), otherInstantiated.AllTypeArguments())
}

// RawClass

// RawClass is the erasure-style use of a generic class declaration.
type RawClass struct {
	Base *ClassType

	erased  *InstantiatedClassType
	members *ClassMembers
}

var _ Type = &RawClass{}

func (*RawClass) isType() {}

func (t *RawClass) String() string {
	return typeString(t)
}

func (t *RawClass) Equal(other Type) bool {
	otherRaw, ok := other.(*RawClass)
	return ok && t.Base == otherRaw.Base
}

// LubType

// LubType is the least upper bound of its elements.
// The concrete bound is computed on demand, see TypeSystem.ComputeLub.
type LubType struct {
	Elements []Type

	lub Type
}

var _ Type = &LubType{}

func (*LubType) isType() {}

func (t *LubType) String() string {
	return typeString(t)
}

func (t *LubType) Equal(other Type) bool {
	otherLub, ok := other.(*LubType)
	if !ok {
		return false
	}
	return equalTypeLists(t.Elements, otherLub.Elements)
}

// IsReferenceType returns true for all types except primitive types.
func IsReferenceType(t Type) bool {
	switch t.(type) {
	case *PrimitiveType:
		return false
	case *NullType,
		*ArrayType,
		*ClassType,
		*TypeVariable,
		*WildcardType,
		*IntersectionType,
		*InstantiatedClassType,
		*RawClass,
		*LubType:

		return true
	}

	panic(errors.NewUnreachableError())
}

// IsPrimitiveType returns true if the type is a non-void primitive type.
func IsPrimitiveType(t Type) bool {
	primitiveType, ok := t.(*PrimitiveType)
	return ok && !primitiveType.IsVoid()
}

// classOf returns the declaration underlying a class-like type:
// a declaration, an instantiation of it, or its raw form.
func classOf(t Type) (*ClassType, bool) {
	switch t := t.(type) {
	case *ClassType:
		return t, true
	case *InstantiatedClassType:
		return t.Base, true
	case *RawClass:
		return t.Base, true
	}
	return nil, false
}

// isInterfaceType returns true if the type is a class-like type for an interface.
func isInterfaceType(t Type) bool {
	class, ok := classOf(t)
	return ok && class.Kind.IsInterface()
}

// isClassNotInterface returns true if the type is a class-like type for a class, enum, etc.
func isClassNotInterface(t Type) bool {
	class, ok := classOf(t)
	return ok && !class.Kind.IsInterface()
}

// TypeDoc returns a document for the given type,
// which breaks long type argument lists over multiple lines.
func TypeDoc(t Type) prettier.Doc {
	instantiated, ok := t.(*InstantiatedClassType)
	if !ok {
		return prettier.Text(t.String())
	}

	arguments := instantiated.TypeArguments()
	if len(arguments) == 0 {
		return prettier.Text(t.String())
	}

	argumentDocs := make([]prettier.Doc, len(arguments))
	for i, argument := range arguments {
		argumentDocs[i] = TypeDoc(argument)
	}

	return prettier.Concat{
		prettier.Text(instantiated.Base.QualifiedName),
		prettier.Wrap(
			prettier.Text("<"),
			prettier.Join(typeListSeparatorDoc, argumentDocs...),
			prettier.Text(">"),
			prettier.SoftLine{},
		),
	}
}

var typeListSeparatorDoc prettier.Doc = prettier.Concat{
	prettier.Text(","),
	prettier.Line{},
}

// declarationKindOf returns the declaration kind of a class-like type,
// used in error messages.
func declarationKindOf(t Type) common.DeclarationKind {
	if class, ok := classOf(t); ok {
		return class.Kind.DeclarationKind()
	}
	return common.DeclarationKindUnknown
}
