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
	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
)

// Members returns the members of a class-like type.
// The members of an instantiated class are the declared members with the
// substitution applied. The members of a raw class are the erased declared members.
func (ts *TypeSystem) Members(t Type) (Result[*ClassMembers], error) {
	members, err := ts.membersOf(t)
	return resultOf(members, err)
}

func (ts *TypeSystem) membersOf(t Type) (*ClassMembers, error) {
	switch t := t.(type) {
	case *ClassType:
		err := ts.ensureMembers(t)
		if err != nil {
			return nil, err
		}
		return t.members, nil

	case *InstantiatedClassType:
		declared, err := ts.membersOf(t.Base)
		if err != nil {
			return nil, err
		}
		return substituteMembers(declared, t.Subst), nil

	case *RawClass:
		if t.members == nil {
			declared, err := ts.membersOf(t.Base)
			if err != nil {
				return nil, err
			}
			t.members = substituteMembers(declared, ts.ErasureSubstitution(t.Base))
		}
		return t.members, nil
	}

	return &ClassMembers{}, nil
}

func substituteMembers(declared *ClassMembers, subst *Substitution) *ClassMembers {
	members := &ClassMembers{
		EnumConstants: declared.EnumConstants,
	}

	for _, method := range declared.Methods {
		members.Methods = append(members.Methods, subst.SubstituteProcedure(method))
	}
	for _, constructor := range declared.Constructors {
		members.Constructors = append(members.Constructors, subst.SubstituteProcedure(constructor))
	}
	for _, field := range declared.Fields {
		members.Fields = append(members.Fields, subst.SubstituteField(field))
	}
	for _, element := range declared.AnnotationElements {
		substituted := *element
		substituted.Type = subst.SubstituteType(element.Type)
		members.AnnotationElements = append(members.AnnotationElements, &substituted)
	}

	return members
}

// IsAccessible returns true if a member with the given flags,
// declared in the given class, can be accessed from the given context class.
// A nil context is outside of any class, where only public members are accessible.
func (ts *TypeSystem) IsAccessible(flags common.Flags, declaringClass *ClassType, context *ClassType) bool {
	if flags.IsPublic() {
		return true
	}
	if context == nil {
		return false
	}

	if flags.IsPrivate() {
		return context.TopLevel() == declaringClass.TopLevel()
	}

	if context.Package() == declaringClass.Package() {
		return true
	}

	if flags.IsProtected() {
		for current := context; current != nil; current = current.Outer {
			if ts.isSubclass(current, declaringClass) {
				return true
			}
		}
	}

	return false
}

func (ts *TypeSystem) isProcedureAccessible(procedure *Procedure, context *ClassType) bool {
	return ts.IsAccessible(procedure.Flags, procedure.DeclaringClass(), context)
}

// IsMember returns true if the procedure is a member of the given type:
// it is declared in the type's class, or inherited from a supertype.
// Private members and constructors are not inherited.
func (ts *TypeSystem) IsMember(procedure *Procedure, container Type) bool {
	declaringClass := procedure.DeclaringClass()

	containerClass, isClass := classOf(container)
	if isClass && containerClass == declaringClass {
		return true
	}

	if procedure.Kind == ProcedureKindConstructor ||
		procedure.Flags.IsPrivate() {

		return false
	}

	return ts.FindGenericSupertype(declaringClass, container) != nil
}

// FieldQuery

type FieldQuery struct {
	Container Type
	Name      string
	// Context is the class in which the field is accessed, if any
	Context *ClassType
	ast.Range
}

// FindField finds the field with the given name in the container or its supertypes.
// A field which is inherited from several interfaces is ambiguous.
func (ts *TypeSystem) FindField(query FieldQuery) (Result[*Field], error) {
	field, err := ts.findField(query)
	return resultOf(field, err)
}

func (ts *TypeSystem) findField(query FieldQuery) (*Field, error) {
	if !IsReferenceType(query.Container) {
		return nil, &NotReferenceTypeError{
			Type:  query.Container,
			Range: query.Range,
		}
	}

	visited := map[string]struct{}{}
	var fieldNames []string

	fields, err := ts.fieldsNamed(query.Container, query.Name, visited, &fieldNames)
	if err != nil {
		return nil, err
	}

	switch len(fields) {
	case 0:
		return nil, &NotDeclaredMemberError{
			Container:   query.Container,
			Name:        query.Name,
			Kind:        common.DeclarationKindField,
			MemberNames: fieldNames,
			Range:       query.Range,
		}

	case 1:
		field := fields[0]
		declaringClass, _ := classOf(field.Declaration().Container)
		if !ts.IsAccessible(field.Flags, declaringClass, query.Context) {
			return nil, &InaccessibleMemberError{
				Kind:      common.DeclarationKindField,
				Member:    field.Name,
				Container: query.Container,
				Range:     query.Range,
			}
		}
		return field, nil

	default:
		return nil, &AmbiguousFieldError{
			Name:   query.Name,
			First:  fields[0],
			Second: fields[1],
			Range:  query.Range,
		}
	}
}

// fieldsNamed returns the fields with the given name which are visible in the given type:
// the field declared by the type's class, or else the fields visible in its supertypes.
func (ts *TypeSystem) fieldsNamed(
	t Type,
	name string,
	visited map[string]struct{},
	fieldNames *[]string,
) ([]*Field, error) {
	key := typeKey(t)
	if _, ok := visited[key]; ok {
		return nil, nil
	}
	visited[key] = struct{}{}

	members, err := ts.membersOf(t)
	if err != nil {
		return nil, err
	}

	for _, field := range members.Fields {
		*fieldNames = append(*fieldNames, field.Name)
		if field.Name == name {
			return []*Field{field}, nil
		}
	}

	var supertypes []Type
	if superType := ts.SuperType(t); superType != nil {
		supertypes = append(supertypes, superType)
	}
	supertypes = append(supertypes, ts.Interfaces(t)...)

	var result []*Field
	for _, supertype := range supertypes {
		fields, err := ts.fieldsNamed(supertype, name, visited, fieldNames)
		if err != nil {
			return nil, err
		}
	outer:
		for _, field := range fields {
			for _, existing := range result {
				if existing.Declaration() == field.Declaration() {
					continue outer
				}
			}
			result = append(result, field)
		}
	}

	return result, nil
}

// FindEnumConstant finds the enum constant with the given name in an enum type.
func (ts *TypeSystem) FindEnumConstant(container Type, name string, r ast.Range) (Result[*EnumConstant], error) {
	constant, err := ts.findEnumConstant(container, name, r)
	return resultOf(constant, err)
}

func (ts *TypeSystem) findEnumConstant(container Type, name string, r ast.Range) (*EnumConstant, error) {
	members, err := ts.membersOf(container)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, constant := range members.EnumConstants {
		if constant.Name == name {
			return constant, nil
		}
		names = append(names, constant.Name)
	}

	return nil, &NotDeclaredMemberError{
		Container:   container,
		Name:        name,
		Kind:        common.DeclarationKindEnumConstant,
		MemberNames: names,
		Range:       r,
	}
}

// FindAnnotationElement finds the element with the given name in an annotation type.
func (ts *TypeSystem) FindAnnotationElement(container Type, name string, r ast.Range) (Result[*AnnotationElement], error) {
	element, err := ts.findAnnotationElement(container, name, r)
	return resultOf(element, err)
}

func (ts *TypeSystem) findAnnotationElement(container Type, name string, r ast.Range) (*AnnotationElement, error) {
	members, err := ts.membersOf(container)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, element := range members.AnnotationElements {
		if element.Name == name {
			return element, nil
		}
		names = append(names, element.Name)
	}

	return nil, &NotDeclaredMemberError{
		Container:   container,
		Name:        name,
		Kind:        common.DeclarationKindAnnotationElement,
		MemberNames: names,
		Range:       r,
	}
}

// IsValidAnnotationValueType returns true if values of the type
// can be the value of an annotation element: primitive types, strings,
// enums, annotations, and arrays of those.
func (ts *TypeSystem) IsValidAnnotationValueType(t Type) bool {
	switch t := t.(type) {
	case *PrimitiveType:
		return !t.IsVoid()

	case *ClassType:
		return t == ts.StringType ||
			t.Kind == common.ClassKindEnum ||
			t.Kind == common.ClassKindAnnotation

	case *ArrayType:
		return ts.IsValidAnnotationValueType(t.Element)
	}

	return false
}
