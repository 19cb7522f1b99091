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

	"github.com/turbolent/prettier"

	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
)

type ProcedureKind uint8

const (
	ProcedureKindUnknown ProcedureKind = iota
	ProcedureKindMethod
	ProcedureKindConstructor
)

func (k ProcedureKind) DeclarationKind() common.DeclarationKind {
	switch k {
	case ProcedureKindMethod:
		return common.DeclarationKindMethod
	case ProcedureKindConstructor:
		return common.DeclarationKindConstructor
	}

	panic(errors.NewUnreachableError())
}

// Procedure is a method or a constructor.
//
// Substitution produces instances of a declared procedure,
// which all refer back to the declaration.
type Procedure struct {
	Kind      ProcedureKind
	Name      string
	Container Type
	Flags     common.Flags
	// ReturnType is void for constructors
	ReturnType     Type
	FormalTypes    []Type
	ThrowTypes     []Type
	TypeParameters []*TypeVariable

	declaration *Procedure
}

// Declaration returns the declared procedure this procedure is an instance of.
func (p *Procedure) Declaration() *Procedure {
	if p.declaration == nil {
		return p
	}
	return p.declaration
}

// instance returns a copy of the procedure which refers to the same declaration.
func (p *Procedure) instance() *Procedure {
	result := *p
	result.declaration = p.Declaration()
	return &result
}

func (p *Procedure) IsVariableArity() bool {
	return p.Flags.IsVariableArity()
}

func (p *Procedure) IsStatic() bool {
	return p.Flags.IsStatic()
}

// DeclaringClass returns the declaration of the class which declares the procedure.
func (p *Procedure) DeclaringClass() *ClassType {
	class, ok := classOf(p.Declaration().Container)
	if !ok {
		panic(errors.NewUnexpectedError("procedure `%s` is not declared in a class", p.Name))
	}
	return class
}

// variableArityElementType returns the element type of the trailing variable-arity formal.
func (p *Procedure) variableArityElementType() Type {
	last := p.FormalTypes[len(p.FormalTypes)-1]
	arrayType, ok := last.(*ArrayType)
	if !ok {
		panic(errors.NewUnexpectedError("variable-arity formal of `%s` is not an array", p.Name))
	}
	return arrayType.Element
}

// Designator returns `name` for methods, and the simple class name for constructors.
func (p *Procedure) Designator() string {
	if p.Kind == ProcedureKindConstructor {
		return p.DeclaringClass().SimpleName()
	}
	return p.Name
}

// Signature returns the name of the procedure and its formal types, e.g. `m(int, T)`.
func (p *Procedure) Signature() string {
	var builder strings.Builder
	builder.WriteString(p.Designator())
	builder.WriteByte('(')
	writeFormals(&builder, p.FormalTypes, p.IsVariableArity())
	builder.WriteByte(')')
	return builder.String()
}

func writeFormals(builder *strings.Builder, formals []Type, variableArity bool) {
	for i, formal := range formals {
		if i > 0 {
			builder.WriteString(", ")
		}
		if variableArity && i == len(formals)-1 {
			if arrayType, ok := formal.(*ArrayType); ok {
				builder.WriteString(arrayType.Element.String())
				builder.WriteString("...")
				continue
			}
		}
		builder.WriteString(formal.String())
	}
}

func (p *Procedure) String() string {
	var builder strings.Builder

	if len(p.TypeParameters) > 0 {
		builder.WriteByte('<')
		for i, parameter := range p.TypeParameters {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(parameter.Name)
		}
		builder.WriteString("> ")
	}

	if p.Kind == ProcedureKindMethod {
		builder.WriteString(p.ReturnType.String())
		builder.WriteByte(' ')
	}

	builder.WriteString(p.Container.String())
	builder.WriteByte('.')
	builder.WriteString(p.Signature())

	return builder.String()
}

// Doc returns a document for the procedure, e.g. for listing candidates.
func (p *Procedure) Doc() prettier.Doc {
	formalDocs := make([]prettier.Doc, len(p.FormalTypes))
	for i, formal := range p.FormalTypes {
		formalDoc := TypeDoc(formal)
		if p.IsVariableArity() && i == len(p.FormalTypes)-1 {
			if arrayType, ok := formal.(*ArrayType); ok {
				formalDoc = prettier.Concat{
					TypeDoc(arrayType.Element),
					prettier.Text("..."),
				}
			}
		}
		formalDocs[i] = formalDoc
	}

	var formalsDoc prettier.Doc
	if len(formalDocs) == 0 {
		formalsDoc = prettier.Text("()")
	} else {
		formalsDoc = prettier.WrapParentheses(
			prettier.Join(typeListSeparatorDoc, formalDocs...),
			prettier.SoftLine{},
		)
	}

	return prettier.Concat{
		TypeDoc(p.Container),
		prettier.Text("." + p.Designator()),
		formalsDoc,
	}
}

// Field

type Field struct {
	Name      string
	Container Type
	Flags     common.Flags
	Type      Type

	declaration *Field
}

func (f *Field) Declaration() *Field {
	if f.declaration == nil {
		return f
	}
	return f.declaration
}

func (f *Field) String() string {
	return f.Container.String() + "." + f.Name
}

// EnumConstant

type EnumConstant struct {
	Name string
	// Container is the enum declaration, or an instantiation of it
	Container Type
	Ordinal   int
}

func (c *EnumConstant) String() string {
	return c.Container.String() + "." + c.Name
}

// AnnotationElement

type AnnotationElement struct {
	Name       string
	Container  Type
	Type       Type
	HasDefault bool
}

func (e *AnnotationElement) String() string {
	return e.Container.String() + "." + e.Name + "()"
}
