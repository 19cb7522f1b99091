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

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
)

// ClassSignature is the raw structural signature of a class,
// as provided by a SignatureSource. Types are unresolved expressions.
type ClassSignature struct {
	Name               string
	Kind               common.ClassKind
	Flags              common.Flags
	Outer              string
	TypeParameters     []TypeParameterSignature
	SuperType          TypeExpression
	Interfaces         []TypeExpression
	Methods            []ProcedureSignature
	Constructors       []ProcedureSignature
	Fields             []FieldSignature
	EnumConstants      []string
	AnnotationElements []AnnotationElementSignature
	ast.Range
}

type TypeParameterSignature struct {
	Name   string
	Bounds []TypeExpression
	ast.Range
}

type ProcedureSignature struct {
	Name           string
	Flags          common.Flags
	TypeParameters []TypeParameterSignature
	// ReturnType is nil for constructors
	ReturnType TypeExpression
	Formals    []TypeExpression
	Throws     []TypeExpression
	ast.Range
}

type FieldSignature struct {
	Name  string
	Flags common.Flags
	Type  TypeExpression
	ast.Range
}

type AnnotationElementSignature struct {
	Name       string
	Type       TypeExpression
	HasDefault bool
	ast.Range
}

// TypeExpression is an unresolved type in a signature.
type TypeExpression interface {
	ast.HasPosition
	isTypeExpression()
	String() string
}

// NamedTypeExpression is a primitive type, a type parameter, or a class,
// optionally with type arguments.
type NamedTypeExpression struct {
	Name      string
	Arguments []TypeExpression
	ast.Range
}

var _ TypeExpression = &NamedTypeExpression{}

func (*NamedTypeExpression) isTypeExpression() {}

func (e *NamedTypeExpression) String() string {
	if len(e.Arguments) == 0 {
		return e.Name
	}
	var builder strings.Builder
	builder.WriteString(e.Name)
	builder.WriteByte('<')
	for i, argument := range e.Arguments {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(argument.String())
	}
	builder.WriteByte('>')
	return builder.String()
}

type ArrayTypeExpression struct {
	Element       TypeExpression
	VariableArity bool
	ast.Range
}

var _ TypeExpression = &ArrayTypeExpression{}

func (*ArrayTypeExpression) isTypeExpression() {}

func (e *ArrayTypeExpression) String() string {
	if e.VariableArity {
		return e.Element.String() + "..."
	}
	return e.Element.String() + "[]"
}

// WildcardTypeExpression is `?`, `? extends Bound`, or `? super Bound`.
type WildcardTypeExpression struct {
	Bound TypeExpression
	Super bool
	ast.Range
}

var _ TypeExpression = &WildcardTypeExpression{}

func (*WildcardTypeExpression) isTypeExpression() {}

func (e *WildcardTypeExpression) String() string {
	switch {
	case e.Bound == nil:
		return "?"
	case e.Super:
		return "? super " + e.Bound.String()
	default:
		return "? extends " + e.Bound.String()
	}
}
