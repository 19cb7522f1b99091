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
	"time"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
)

// typeScope is the set of type variables visible in a signature.
type typeScope struct {
	class     *ClassType
	variables []*TypeVariable
}

func (s typeScope) lookup(name string) *TypeVariable {
	for _, variable := range s.variables {
		if variable.Name == name {
			return variable
		}
	}
	if s.class == nil {
		return nil
	}
	for _, variable := range s.class.ClassAndEnclosingTypeVariables() {
		if variable.Name == name {
			return variable
		}
	}
	return nil
}

// ClassNamed returns the class with the given qualified name,
// loading it from the signature source if it is not loaded yet.
// It returns nil if no such class exists.
//
// Loading resolves the class's type parameters and supertypes.
// Members are resolved on first use.
func (ts *TypeSystem) ClassNamed(qualifiedName string) (*ClassType, error) {
	if class, ok := ts.classes[qualifiedName]; ok {
		return class, nil
	}

	signature, err := ts.lookupSignature(qualifiedName)
	if err != nil || signature == nil {
		return nil, err
	}

	if ts.tracingEnabled() {
		startTime := time.Now()
		defer func() {
			ts.reportClassLoadTrace(qualifiedName, time.Since(startTime))
		}()
	}

	class := &ClassType{
		QualifiedName: signature.Name,
		Kind:          signature.Kind,
		Flags:         signature.Flags,
		signature:     signature,
	}

	// Register the class before resolving it,
	// so that its own signature may refer to it
	ts.classes[qualifiedName] = class

	err = ts.resolveClass(class)
	if err != nil {
		delete(ts.classes, qualifiedName)
		return nil, err
	}

	return class, nil
}

func (ts *TypeSystem) lookupSignature(qualifiedName string) (*ClassSignature, error) {
	if signature, ok := ts.builtinSignatures[qualifiedName]; ok {
		return signature, nil
	}

	source := ts.config.SignatureSource
	if source == nil {
		return nil, nil
	}

	signature, err := source.ClassSignature(qualifiedName)
	if err != nil {
		return nil, errors.NewExternalError(err)
	}
	return signature, nil
}

func (ts *TypeSystem) resolveClass(class *ClassType) error {
	signature := class.signature

	if signature.Outer != "" {
		outer, err := ts.ClassNamed(signature.Outer)
		if err != nil {
			return err
		}
		if outer == nil {
			return &NotDeclaredTypeError{
				Name:  signature.Outer,
				Range: signature.Range,
			}
		}
		class.Outer = outer
	}

	typeParameters, err := ts.resolveTypeParameters(
		signature.TypeParameters,
		TypeVariableSiteClass,
		func(variable *TypeVariable) {
			variable.DeclaringClass = class
		},
		func(variables []*TypeVariable) typeScope {
			class.TypeParameters = variables
			return typeScope{class: class}
		},
	)
	if err != nil {
		return err
	}
	class.TypeParameters = typeParameters

	scope := typeScope{class: class}

	switch {
	case signature.SuperType != nil:
		superType, err := ts.resolveSupertype(signature.SuperType, scope)
		if err != nil {
			return err
		}
		class.superType = superType

	case class.QualifiedName == ObjectTypeName:
		// The top type has no super type

	case class.Kind == common.ClassKindEnum:
		class.superType = ts.Instantiate(ts.EnumType, []Type{class})

	default:
		class.superType = ts.ObjectType
	}

	for _, interfaceExpression := range signature.Interfaces {
		interfaceType, err := ts.resolveSupertype(interfaceExpression, scope)
		if err != nil {
			return err
		}
		class.interfaces = append(class.interfaces, interfaceType)
	}

	if class.Kind == common.ClassKindAnnotation {
		class.interfaces = append(class.interfaces, ts.AnnotationType)
	}

	class.resolved = true

	return ts.checkSupertypes(class)
}

// resolveTypeParameters creates the variables for the given type parameters,
// and then resolves their bounds, which may refer to any of the variables.
func (ts *TypeSystem) resolveTypeParameters(
	parameters []TypeParameterSignature,
	site TypeVariableSite,
	declare func(variable *TypeVariable),
	scopeWith func(variables []*TypeVariable) typeScope,
) ([]*TypeVariable, error) {
	if len(parameters) == 0 {
		return nil, nil
	}

	variables := make([]*TypeVariable, len(parameters))
	for i, parameter := range parameters {
		variable := ts.NewTypeVariable(parameter.Name, site)
		declare(variable)
		variables[i] = variable
	}

	boundScope := scopeWith(variables)

	for i, parameter := range parameters {
		bound, err := ts.resolveBounds(parameter.Bounds, boundScope, parameter.Range)
		if err != nil {
			return nil, err
		}
		variables[i].SetBounds(bound, nil)
	}

	return variables, nil
}

func (ts *TypeSystem) resolveBounds(expressions []TypeExpression, scope typeScope, r ast.Range) (Type, error) {
	switch len(expressions) {
	case 0:
		return ts.ObjectType, nil
	case 1:
		return ts.resolveTypeExpression(expressions[0], scope)
	}

	bounds := make([]Type, len(expressions))
	for i, expression := range expressions {
		bound, err := ts.resolveTypeExpression(expression, scope)
		if err != nil {
			return nil, err
		}
		bounds[i] = bound
	}

	err := ts.CheckIntersectionBounds(bounds)
	if err != nil {
		if intersectionError, ok := err.(*InvalidIntersectionTypeError); ok {
			intersectionError.Range = r
		}
		return nil, err
	}

	return NewIntersectionType(bounds), nil
}

func (ts *TypeSystem) resolveSupertype(expression TypeExpression, scope typeScope) (Type, error) {
	supertype, err := ts.resolveTypeExpression(expression, scope)
	if err != nil {
		return nil, err
	}

	if _, ok := classOf(supertype); !ok {
		return nil, &InvalidSupertypeError{
			Type:  supertype,
			Range: ast.NewRangeFromPositioned(expression),
		}
	}

	return supertype, nil
}

// checkSupertypes rejects classes which inherit incompatible instantiations
// of the same generic interface, directly or through their supertypes.
func (ts *TypeSystem) checkSupertypes(class *ClassType) error {
	signature := class.signature

	var directSupertypes []Type
	if class.superType != nil {
		directSupertypes = append(directSupertypes, class.superType)
	}
	directSupertypes = append(directSupertypes, class.interfaces...)

	if len(directSupertypes) > 1 {
		err := ts.CheckIntersectionBounds(directSupertypes)
		if err != nil {
			if intersectionError, ok := err.(*InvalidIntersectionTypeError); ok {
				intersectionError.Range = signature.Range
			}
			return err
		}
	}

	instantiations := map[*ClassType]*InstantiatedClassType{}
	for _, ancestor := range ts.AllAncestors(class) {
		instantiated, ok := ancestor.(*InstantiatedClassType)
		if !ok {
			continue
		}
		previous, ok := instantiations[instantiated.Base]
		if !ok {
			instantiations[instantiated.Base] = instantiated
			continue
		}
		if !previous.Equal(instantiated) {
			return &ConflictingInstantiationsError{
				Class:  class,
				First:  previous,
				Second: instantiated,
				Range:  signature.Range,
			}
		}
	}

	return nil
}

func (ts *TypeSystem) resolveTypeExpression(expression TypeExpression, scope typeScope) (Type, error) {
	switch expression := expression.(type) {
	case *NamedTypeExpression:
		return ts.resolveNamedTypeExpression(expression, scope)

	case *ArrayTypeExpression:
		element, err := ts.resolveTypeExpression(expression.Element, scope)
		if err != nil {
			return nil, err
		}
		if expression.VariableArity {
			return ts.VariableArityArrayType(element), nil
		}
		return NewArrayType(element), nil

	case *WildcardTypeExpression:
		if expression.Bound == nil {
			return ts.UnboundedWildcard(), nil
		}
		bound, err := ts.resolveTypeExpression(expression.Bound, scope)
		if err != nil {
			return nil, err
		}
		if expression.Super {
			return ts.SuperWildcard(bound), nil
		}
		return ts.ExtendsWildcard(bound), nil
	}

	panic(errors.NewUnreachableError())
}

func (ts *TypeSystem) resolveNamedTypeExpression(expression *NamedTypeExpression, scope typeScope) (Type, error) {
	if len(expression.Arguments) == 0 {
		if primitiveType := PrimitiveTypeNamed(expression.Name); primitiveType != nil {
			return primitiveType, nil
		}
		if variable := scope.lookup(expression.Name); variable != nil {
			return variable, nil
		}
	}

	class, err := ts.resolveClassName(expression.Name, scope)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, &NotDeclaredTypeError{
			Name:  expression.Name,
			Range: expression.Range,
		}
	}

	if len(expression.Arguments) == 0 {
		// A generic class without type arguments is a raw use of the class
		if len(class.TypeParameters) > 0 {
			return ts.RawClass(class), nil
		}
		return class, nil
	}

	if len(expression.Arguments) != len(class.TypeParameters) {
		return nil, &InvalidTypeArgumentCountError{
			Class:              class,
			TypeParameterCount: len(class.TypeParameters),
			TypeArgumentCount:  len(expression.Arguments),
			Range:              expression.Range,
		}
	}

	arguments := make([]Type, len(expression.Arguments))
	for i, argumentExpression := range expression.Arguments {
		argument, err := ts.resolveTypeExpression(argumentExpression, scope)
		if err != nil {
			return nil, err
		}
		if !IsReferenceType(argument) {
			return nil, &InvalidTypeArgumentError{
				Type:  argument,
				Range: ast.NewRangeFromPositioned(argumentExpression),
			}
		}
		arguments[i] = argument
	}

	return ts.Instantiate(class, arguments), nil
}

// resolveClassName finds a class by name: as a member class of the current
// or an enclosing class, by its qualified name, in the current package,
// and finally in the builtin package.
func (ts *TypeSystem) resolveClassName(name string, scope typeScope) (*ClassType, error) {
	var candidates []string
	if scope.class != nil {
		for class := scope.class; class != nil; class = class.Outer {
			candidates = append(candidates, class.QualifiedName+"."+name)
		}
	}
	candidates = append(candidates, name)
	if scope.class != nil {
		if pkg := scope.class.Package(); pkg != "" {
			candidates = append(candidates, pkg+"."+name)
		}
	}
	candidates = append(candidates, BuiltinPackage+"."+name)

	for _, candidate := range candidates {
		class, err := ts.ClassNamed(candidate)
		if err != nil || class != nil {
			return class, err
		}
	}

	return nil, nil
}

// Members

// ensureMembers populates the members of the class underlying the given type.
func (ts *TypeSystem) ensureMembers(t Type) error {
	class, ok := classOf(t)
	if !ok || class.members != nil {
		return nil
	}

	handler := ts.config.PopulateMembersHandler
	if handler != nil && !handler(class) {
		return &missingDependencyError{
			goal: DependencyGoal{
				Class: class,
				Kind:  DependencyKindMembers,
			},
		}
	}

	members, err := ts.resolveMembers(class)
	if err != nil {
		return err
	}
	class.members = members
	return nil
}

// PopulateMembers populates the members of the class, if possible.
func (ts *TypeSystem) PopulateMembers(class *ClassType) (Result[*ClassMembers], error) {
	err := ts.ensureMembers(class)
	return resultOf(class.members, err)
}

func (ts *TypeSystem) resolveMembers(class *ClassType) (*ClassMembers, error) {
	signature := class.signature
	members := &ClassMembers{}

	for _, methodSignature := range signature.Methods {
		method, err := ts.resolveProcedure(class, methodSignature, ProcedureKindMethod)
		if err != nil {
			return nil, err
		}
		members.Methods = append(members.Methods, method)
	}

	for _, constructorSignature := range signature.Constructors {
		constructor, err := ts.resolveProcedure(class, constructorSignature, ProcedureKindConstructor)
		if err != nil {
			return nil, err
		}
		members.Constructors = append(members.Constructors, constructor)
	}

	scope := typeScope{class: class}

	for _, fieldSignature := range signature.Fields {
		fieldType, err := ts.resolveTypeExpression(fieldSignature.Type, scope)
		if err != nil {
			return nil, err
		}
		members.Fields = append(members.Fields, &Field{
			Name:      fieldSignature.Name,
			Container: class,
			Flags:     fieldSignature.Flags,
			Type:      fieldType,
		})
	}

	for ordinal, name := range signature.EnumConstants {
		members.EnumConstants = append(members.EnumConstants, &EnumConstant{
			Name:      name,
			Container: class,
			Ordinal:   ordinal,
		})
	}

	for _, elementSignature := range signature.AnnotationElements {
		elementType, err := ts.resolveTypeExpression(elementSignature.Type, scope)
		if err != nil {
			return nil, err
		}
		members.AnnotationElements = append(members.AnnotationElements, &AnnotationElement{
			Name:       elementSignature.Name,
			Container:  class,
			Type:       elementType,
			HasDefault: elementSignature.HasDefault,
		})
	}

	return members, nil
}

func (ts *TypeSystem) resolveProcedure(
	class *ClassType,
	signature ProcedureSignature,
	kind ProcedureKind,
) (*Procedure, error) {
	procedure := &Procedure{
		Kind:      kind,
		Name:      signature.Name,
		Container: class,
		Flags:     signature.Flags,
	}
	if kind == ProcedureKindConstructor {
		procedure.Name = class.SimpleName()
	}

	typeParameters, err := ts.resolveTypeParameters(
		signature.TypeParameters,
		TypeVariableSiteProcedure,
		func(variable *TypeVariable) {
			variable.DeclaringClass = class
			variable.DeclaringProcedure = procedure
		},
		func(variables []*TypeVariable) typeScope {
			return typeScope{
				class:     class,
				variables: variables,
			}
		},
	)
	if err != nil {
		return nil, err
	}
	procedure.TypeParameters = typeParameters

	scope := typeScope{
		class:     class,
		variables: typeParameters,
	}

	procedure.ReturnType = VoidType
	if kind == ProcedureKindMethod && signature.ReturnType != nil {
		returnType, err := ts.resolveTypeExpression(signature.ReturnType, scope)
		if err != nil {
			return nil, err
		}
		procedure.ReturnType = returnType
	}

	procedure.FormalTypes = make([]Type, len(signature.Formals))
	for i, formalExpression := range signature.Formals {
		formal, err := ts.resolveTypeExpression(formalExpression, scope)
		if err != nil {
			return nil, err
		}
		procedure.FormalTypes[i] = formal
	}

	if err := ts.checkVariableArity(procedure, signature); err != nil {
		return nil, err
	}

	for _, throwExpression := range signature.Throws {
		throwType, err := ts.resolveTypeExpression(throwExpression, scope)
		if err != nil {
			return nil, err
		}
		procedure.ThrowTypes = append(procedure.ThrowTypes, throwType)
	}

	return procedure, nil
}

// checkVariableArity marks a procedure with a trailing `T...` formal as variable-arity,
// and turns the trailing array formal of a variable-arity procedure into a variable-arity array.
func (ts *TypeSystem) checkVariableArity(procedure *Procedure, signature ProcedureSignature) error {
	count := len(procedure.FormalTypes)

	for i, formalExpression := range signature.Formals {
		arrayExpression, ok := formalExpression.(*ArrayTypeExpression)
		if !ok || !arrayExpression.VariableArity {
			continue
		}
		if i != count-1 {
			return &InvalidVariableArityError{
				Procedure: procedure,
				Range:     arrayExpression.Range,
			}
		}
		procedure.Flags = procedure.Flags.Set(common.FlagVariableArity)
	}

	if !procedure.IsVariableArity() {
		return nil
	}

	if count == 0 {
		return &InvalidVariableArityError{
			Procedure: procedure,
			Range:     signature.Range,
		}
	}

	last, ok := procedure.FormalTypes[count-1].(*ArrayType)
	if !ok {
		return &InvalidVariableArityError{
			Procedure: procedure,
			Range:     ast.NewRangeFromPositioned(signature.Formals[count-1]),
		}
	}
	procedure.FormalTypes[count-1] = ts.VariableArityArrayType(last.Element)

	return nil
}
