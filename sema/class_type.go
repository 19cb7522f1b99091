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
	"strings"

	"github.com/onflow/jgen/common"
)

// ClassType is the declaration of a class, interface, enum or annotation type.
//
// The declaration of a generic class, used as a type, is the class
// as seen from inside its own body: its type arguments are its own type parameters.
type ClassType struct {
	QualifiedName string
	Kind          common.ClassKind
	Flags         common.Flags
	// Outer is the enclosing class of a nested or inner class
	Outer *ClassType
	// TypeParameters are the class's own type parameters, set once at resolution
	TypeParameters []*TypeVariable

	superType  Type
	interfaces []Type
	signature  *ClassSignature
	resolved   bool

	members             *ClassMembers
	rawClass            *RawClass
	erasureSubstitution *Substitution
}

// ClassMembers are the members declared by a class.
type ClassMembers struct {
	Methods            []*Procedure
	Constructors       []*Procedure
	Fields             []*Field
	EnumConstants      []*EnumConstant
	AnnotationElements []*AnnotationElement
}

var _ Type = &ClassType{}

func (*ClassType) isType() {}

func (t *ClassType) String() string {
	return typeString(t)
}

func (t *ClassType) Equal(other Type) bool {
	return t == other
}

// SimpleName returns the name of the class without its package or enclosing classes.
func (t *ClassType) SimpleName() string {
	index := strings.LastIndexByte(t.QualifiedName, '.')
	return t.QualifiedName[index+1:]
}

// Package returns the name of the package of the class.
func (t *ClassType) Package() string {
	topLevel := t.TopLevel()
	index := strings.LastIndexByte(topLevel.QualifiedName, '.')
	if index < 0 {
		return ""
	}
	return topLevel.QualifiedName[:index]
}

// TopLevel returns the outermost enclosing class, or the class itself.
func (t *ClassType) TopLevel() *ClassType {
	current := t
	for current.Outer != nil {
		current = current.Outer
	}
	return current
}

// IsInner returns true if instances of the class have an enclosing instance.
func (t *ClassType) IsInner() bool {
	return t.Outer != nil &&
		!t.Flags.IsStatic() &&
		!t.Kind.IsInterface() &&
		t.Kind != common.ClassKindEnum
}

func (t *ClassType) IsInterface() bool {
	return t.Kind.IsInterface()
}

func (t *ClassType) IsFinal() bool {
	return t.Flags.IsFinal() || t.Kind == common.ClassKindEnum
}

// ClassAndEnclosingTypeVariables returns the type parameters of the enclosing classes
// of an inner class, followed by the class's own type parameters.
func (t *ClassType) ClassAndEnclosingTypeVariables() []*TypeVariable {
	if !t.IsInner() {
		return t.TypeParameters
	}
	enclosing := t.Outer.ClassAndEnclosingTypeVariables()
	if len(enclosing) == 0 {
		return t.TypeParameters
	}
	result := make([]*TypeVariable, 0, len(enclosing)+len(t.TypeParameters))
	result = append(result, enclosing...)
	result = append(result, t.TypeParameters...)
	return result
}

// CanBeRaw returns true if the class has own or enclosing type parameters.
func (t *ClassType) CanBeRaw() bool {
	return len(t.ClassAndEnclosingTypeVariables()) > 0
}

// DeclaredSuperType returns the declared super type,
// or nil for the top type.
func (t *ClassType) DeclaredSuperType() Type {
	return t.superType
}

func (t *ClassType) DeclaredInterfaces() []Type {
	return t.interfaces
}

// Members returns the declared members, or nil if they are not populated yet.
func (t *ClassType) Members() *ClassMembers {
	return t.members
}

func (m *ClassMembers) methodsNamed(name string) (result []*Procedure) {
	for _, method := range m.Methods {
		if method.Name == name {
			result = append(result, method)
		}
	}
	return
}
