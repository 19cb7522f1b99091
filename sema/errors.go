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
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"github.com/turbolent/prettier"
	"golang.org/x/exp/slices"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/errors"
)

// SemanticError is a violation of a typing rule by the analysed program.

type SemanticError interface {
	errors.UserError
	ast.HasPosition
	isSemanticError()
}

func typeListString(types []Type) string {
	var builder strings.Builder
	for i, t := range types {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(t.String())
	}
	return builder.String()
}

// NotDeclaredTypeError

type NotDeclaredTypeError struct {
	Name string
	ast.Range
}

var _ SemanticError = &NotDeclaredTypeError{}
var _ errors.UserError = &NotDeclaredTypeError{}

func (*NotDeclaredTypeError) isSemanticError() {}

func (*NotDeclaredTypeError) IsUserError() {}

func (e *NotDeclaredTypeError) Error() string {
	return fmt.Sprintf("cannot find type `%s`", e.Name)
}

// InvalidSupertypeError

type InvalidSupertypeError struct {
	Type Type
	ast.Range
}

var _ SemanticError = &InvalidSupertypeError{}
var _ errors.UserError = &InvalidSupertypeError{}
var _ errors.SecondaryError = &InvalidSupertypeError{}

func (*InvalidSupertypeError) isSemanticError() {}

func (*InvalidSupertypeError) IsUserError() {}

func (e *InvalidSupertypeError) Error() string {
	return fmt.Sprintf("cannot inherit from `%s`", e.Type)
}

func (e *InvalidSupertypeError) SecondaryError() string {
	return "only classes and interfaces can be inherited from"
}

// ConflictingInstantiationsError

type ConflictingInstantiationsError struct {
	Class  *ClassType
	First  Type
	Second Type
	ast.Range
}

var _ SemanticError = &ConflictingInstantiationsError{}
var _ errors.UserError = &ConflictingInstantiationsError{}
var _ errors.SecondaryError = &ConflictingInstantiationsError{}

func (*ConflictingInstantiationsError) isSemanticError() {}

func (*ConflictingInstantiationsError) IsUserError() {}

func (e *ConflictingInstantiationsError) Error() string {
	return fmt.Sprintf(
		"%s `%s` cannot inherit from both `%s` and `%s`",
		e.Class.Kind.Name(),
		e.Class.QualifiedName,
		e.First,
		e.Second,
	)
}

func (e *ConflictingInstantiationsError) SecondaryError() string {
	return "a generic interface can only be inherited with one type argument list"
}

// InvalidTypeArgumentCountError

type InvalidTypeArgumentCountError struct {
	Class              *ClassType
	TypeParameterCount int
	TypeArgumentCount  int
	ast.Range
}

var _ SemanticError = &InvalidTypeArgumentCountError{}
var _ errors.UserError = &InvalidTypeArgumentCountError{}
var _ errors.SecondaryError = &InvalidTypeArgumentCountError{}

func (*InvalidTypeArgumentCountError) isSemanticError() {}

func (*InvalidTypeArgumentCountError) IsUserError() {}

func (e *InvalidTypeArgumentCountError) Error() string {
	return fmt.Sprintf(
		"incorrect number of type arguments for `%s`",
		e.Class.QualifiedName,
	)
}

func (e *InvalidTypeArgumentCountError) SecondaryError() string {
	return fmt.Sprintf(
		"expected up to %d, got %d",
		e.TypeParameterCount,
		e.TypeArgumentCount,
	)
}

// InvalidTypeArgumentError

type InvalidTypeArgumentError struct {
	Type Type
	ast.Range
}

var _ SemanticError = &InvalidTypeArgumentError{}
var _ errors.UserError = &InvalidTypeArgumentError{}
var _ errors.SecondaryError = &InvalidTypeArgumentError{}

func (*InvalidTypeArgumentError) isSemanticError() {}

func (*InvalidTypeArgumentError) IsUserError() {}

func (e *InvalidTypeArgumentError) Error() string {
	return fmt.Sprintf("invalid type argument `%s`", e.Type)
}

func (e *InvalidTypeArgumentError) SecondaryError() string {
	return "type arguments must be reference types"
}

// InvalidVariableArityError

type InvalidVariableArityError struct {
	Procedure *Procedure
	ast.Range
}

var _ SemanticError = &InvalidVariableArityError{}
var _ errors.UserError = &InvalidVariableArityError{}
var _ errors.SecondaryError = &InvalidVariableArityError{}

func (*InvalidVariableArityError) isSemanticError() {}

func (*InvalidVariableArityError) IsUserError() {}

func (e *InvalidVariableArityError) Error() string {
	return fmt.Sprintf(
		"invalid variable-arity %s `%s`",
		e.Procedure.Kind.DeclarationKind().Name(),
		e.Procedure.Name,
	)
}

func (e *InvalidVariableArityError) SecondaryError() string {
	return "only the last formal parameter can have variable arity, and it must be an array"
}

// InvalidIntersectionTypeError

type InvalidIntersectionTypeError struct {
	Bounds []Type
	// First and Second are the conflicting bounds, if any
	First  Type
	Second Type
	// ConflictingArgumentsOf is set if First and Second
	// are different instantiations of the same generic interface
	ConflictingArgumentsOf *ClassType
	ast.Range
}

var _ SemanticError = &InvalidIntersectionTypeError{}
var _ errors.UserError = &InvalidIntersectionTypeError{}
var _ errors.SecondaryError = &InvalidIntersectionTypeError{}

func (*InvalidIntersectionTypeError) isSemanticError() {}

func (*InvalidIntersectionTypeError) IsUserError() {}

func (e *InvalidIntersectionTypeError) Error() string {
	return fmt.Sprintf("invalid intersection type `%s`", typeListString(e.Bounds))
}

func (e *InvalidIntersectionTypeError) SecondaryError() string {
	switch {
	case e.First == nil:
		return "intersection types require at least one bound"
	case e.ConflictingArgumentsOf != nil:
		return fmt.Sprintf(
			"`%s` and `%s` are instantiations of `%s` with different type arguments",
			e.First,
			e.Second,
			e.ConflictingArgumentsOf.QualifiedName,
		)
	default:
		return fmt.Sprintf(
			"classes `%s` and `%s` are not related by subtyping",
			e.First,
			e.Second,
		)
	}
}

// CaptureConversionError

type CaptureConversionError struct {
	Type          Type
	WildcardBound Type
	DeclaredBound Type
	ast.Range
}

var _ SemanticError = &CaptureConversionError{}
var _ errors.UserError = &CaptureConversionError{}
var _ errors.SecondaryError = &CaptureConversionError{}

func (*CaptureConversionError) isSemanticError() {}

func (*CaptureConversionError) IsUserError() {}

func (e *CaptureConversionError) Error() string {
	return fmt.Sprintf("cannot capture `%s`", e.Type)
}

func (e *CaptureConversionError) SecondaryError() string {
	return fmt.Sprintf(
		"wildcard bound `%s` is not related to the declared bound `%s`",
		e.WildcardBound,
		e.DeclaredBound,
	)
}

// NoCommonAncestorError

type NoCommonAncestorError struct {
	First  Type
	Second Type
	ast.Range
}

var _ SemanticError = &NoCommonAncestorError{}
var _ errors.UserError = &NoCommonAncestorError{}

func (*NoCommonAncestorError) isSemanticError() {}

func (*NoCommonAncestorError) IsUserError() {}

func (e *NoCommonAncestorError) Error() string {
	return fmt.Sprintf("types `%s` and `%s` have no common ancestor", e.First, e.Second)
}

// NotReferenceTypeError

type NotReferenceTypeError struct {
	Type Type
	ast.Range
}

var _ SemanticError = &NotReferenceTypeError{}
var _ errors.UserError = &NotReferenceTypeError{}

func (*NotReferenceTypeError) isSemanticError() {}

func (*NotReferenceTypeError) IsUserError() {}

func (e *NotReferenceTypeError) Error() string {
	return fmt.Sprintf("cannot access members of non-reference type `%s`", e.Type)
}

// NotDeclaredMemberError

type NotDeclaredMemberError struct {
	Container Type
	Name      string
	Kind      common.DeclarationKind
	// MemberNames are the names of the members of the container
	// with the same kind, used to suggest a member
	MemberNames []string
	ast.Range
}

var _ SemanticError = &NotDeclaredMemberError{}
var _ errors.UserError = &NotDeclaredMemberError{}
var _ errors.SecondaryError = &NotDeclaredMemberError{}

func (*NotDeclaredMemberError) isSemanticError() {}

func (*NotDeclaredMemberError) IsUserError() {}

func (e *NotDeclaredMemberError) Error() string {
	return fmt.Sprintf(
		"type `%s` has no %s `%s`",
		e.Container,
		e.Kind.Name(),
		e.Name,
	)
}

func (e *NotDeclaredMemberError) SecondaryError() string {
	if closestMember := e.findClosestMember(); closestMember != "" {
		return fmt.Sprintf("did you mean `%s`?", closestMember)
	}
	return "unknown member"
}

// findClosestMember searches the names of the members of the container,
// and finds the name with the smallest edit distance from the member the user
// tried to access. In cases of typos, this should provide a helpful hint.
func (e *NotDeclaredMemberError) findClosestMember() (closestMember string) {
	nameRunes := []rune(e.Name)

	closestDistance := len(e.Name)

	sortedMemberNames := append([]string(nil), e.MemberNames...)
	slices.Sort(sortedMemberNames)

	for _, memberName := range sortedMemberNames {
		distance := levenshtein.DistanceForStrings(
			nameRunes,
			[]rune(memberName),
			levenshtein.DefaultOptions,
		)

		// Don't update the closest member if the distance is greater than one already found,
		// or if the edits required would involve a complete replacement of the member's text
		if distance < closestDistance && distance < len(memberName) {
			closestMember = memberName
			closestDistance = distance
		}
	}

	return
}

// ProcedureNotApplicableError

type ProcedureNotApplicableError struct {
	Procedure     *Procedure
	Container     Type
	ArgumentTypes []Type
	ast.Range
}

var _ SemanticError = &ProcedureNotApplicableError{}
var _ errors.UserError = &ProcedureNotApplicableError{}
var _ errors.SecondaryError = &ProcedureNotApplicableError{}

func (*ProcedureNotApplicableError) isSemanticError() {}

func (*ProcedureNotApplicableError) IsUserError() {}

func (e *ProcedureNotApplicableError) Error() string {
	return fmt.Sprintf(
		"%s `%s` in `%s` cannot be called with arguments (%s)",
		e.Procedure.Kind.DeclarationKind().Name(),
		e.Procedure.Signature(),
		e.Container,
		typeListString(e.ArgumentTypes),
	)
}

func (e *ProcedureNotApplicableError) SecondaryError() string {
	formalCount := len(e.Procedure.FormalTypes)
	argumentCount := len(e.ArgumentTypes)
	switch {
	case e.Procedure.IsVariableArity() && argumentCount < formalCount-1:
		return fmt.Sprintf("expected at least %d arguments, got %d", formalCount-1, argumentCount)
	case !e.Procedure.IsVariableArity() && argumentCount != formalCount:
		return fmt.Sprintf("expected %d arguments, got %d", formalCount, argumentCount)
	default:
		return "argument types do not match the parameter types"
	}
}

// InaccessibleMemberError

type InaccessibleMemberError struct {
	Kind      common.DeclarationKind
	Member    string
	Container Type
	ast.Range
}

var _ SemanticError = &InaccessibleMemberError{}
var _ errors.UserError = &InaccessibleMemberError{}

func (*InaccessibleMemberError) isSemanticError() {}

func (*InaccessibleMemberError) IsUserError() {}

func (e *InaccessibleMemberError) Error() string {
	return fmt.Sprintf(
		"%s `%s` in `%s` is not accessible",
		e.Kind.Name(),
		e.Member,
		e.Container,
	)
}

// AmbiguousProcedureCallError

type AmbiguousProcedureCallError struct {
	Name          string
	ArgumentTypes []Type
	Candidates    []*Procedure
	ast.Range
}

var _ SemanticError = &AmbiguousProcedureCallError{}
var _ errors.UserError = &AmbiguousProcedureCallError{}
var _ errors.SecondaryError = &AmbiguousProcedureCallError{}
var _ errors.ErrorNotes = &AmbiguousProcedureCallError{}

func (*AmbiguousProcedureCallError) isSemanticError() {}

func (*AmbiguousProcedureCallError) IsUserError() {}

func (e *AmbiguousProcedureCallError) Error() string {
	return fmt.Sprintf(
		"call to `%s(%s)` is ambiguous",
		e.Name,
		typeListString(e.ArgumentTypes),
	)
}

const candidateListWidth = 80

func (e *AmbiguousProcedureCallError) SecondaryError() string {
	candidateDocs := make([]prettier.Doc, len(e.Candidates))
	for i, candidate := range e.Candidates {
		candidateDocs[i] = candidate.Doc()
	}

	doc := prettier.Concat{
		prettier.Text("candidates:"),
		prettier.Indent{
			Doc: prettier.Concat{
				prettier.HardLine{},
				prettier.Join(prettier.HardLine{}, candidateDocs...),
			},
		},
	}

	var builder strings.Builder
	prettier.Prettier(&builder, doc, candidateListWidth, "  ")
	return builder.String()
}

func (e *AmbiguousProcedureCallError) ErrorNotes() []errors.ErrorNote {
	notes := make([]errors.ErrorNote, len(e.Candidates))
	for i, candidate := range e.Candidates {
		notes[i] = &AmbiguousCandidateNote{
			Procedure: candidate,
		}
	}
	return notes
}

// AmbiguousCandidateNote

type AmbiguousCandidateNote struct {
	Procedure *Procedure
	ast.Range
}

func (n *AmbiguousCandidateNote) Message() string {
	return fmt.Sprintf("candidate `%s` declared in `%s`", n.Procedure.Signature(), n.Procedure.Container)
}

// AmbiguousFieldError

type AmbiguousFieldError struct {
	Name   string
	First  *Field
	Second *Field
	ast.Range
}

var _ SemanticError = &AmbiguousFieldError{}
var _ errors.UserError = &AmbiguousFieldError{}

func (*AmbiguousFieldError) isSemanticError() {}

func (*AmbiguousFieldError) IsUserError() {}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf(
		"field `%s` is ambiguous, it is declared in both `%s` and `%s`",
		e.Name,
		e.First.Container,
		e.Second.Container,
	)
}

// OverrideFailure

type OverrideFailure uint8

const (
	OverrideFailureUnknown OverrideFailure = iota
	OverrideFailureIncompatibleParameters
	OverrideFailureFinal
	OverrideFailureIncompatibleReturnType
	OverrideFailureIncompatibleThrows
	OverrideFailureWeakerAccess
	OverrideFailureStaticMismatch
)

// IncompatibleOverrideError

type IncompatibleOverrideError struct {
	Procedure  *Procedure
	Overridden *Procedure
	Failure    OverrideFailure
	ast.Range
}

var _ SemanticError = &IncompatibleOverrideError{}
var _ errors.UserError = &IncompatibleOverrideError{}
var _ errors.SecondaryError = &IncompatibleOverrideError{}

func (*IncompatibleOverrideError) isSemanticError() {}

func (*IncompatibleOverrideError) IsUserError() {}

func (e *IncompatibleOverrideError) verb() string {
	if e.Procedure.IsStatic() {
		return "hide"
	}
	return "override"
}

func (e *IncompatibleOverrideError) participle() string {
	if e.Procedure.IsStatic() {
		return "hidden"
	}
	return "overridden"
}

func (e *IncompatibleOverrideError) Error() string {
	return fmt.Sprintf(
		"`%s` in `%s` cannot %s `%s` in `%s`",
		e.Procedure.Signature(),
		e.Procedure.Container,
		e.verb(),
		e.Overridden.Signature(),
		e.Overridden.Container,
	)
}

func (e *IncompatibleOverrideError) SecondaryError() string {
	switch e.Failure {
	case OverrideFailureIncompatibleParameters:
		return "incompatible parameter types"

	case OverrideFailureFinal:
		return fmt.Sprintf("%s method is final", e.participle())

	case OverrideFailureIncompatibleReturnType:
		return fmt.Sprintf(
			"incompatible return type: found `%s`, required `%s`",
			e.Procedure.ReturnType,
			e.Overridden.ReturnType,
		)

	case OverrideFailureIncompatibleThrows:
		return fmt.Sprintf(
			"throw set (%s) is not a subset of the %s method's throw set (%s)",
			typeListString(e.Procedure.ThrowTypes),
			e.participle(),
			typeListString(e.Overridden.ThrowTypes),
		)

	case OverrideFailureWeakerAccess:
		return "attempting to assign weaker access privileges"

	case OverrideFailureStaticMismatch:
		if e.Overridden.IsStatic() {
			return fmt.Sprintf("%s method is static", e.participle())
		}
		return fmt.Sprintf("%s method is not static", e.participle())
	}

	panic(errors.NewUnreachableError())
}

// MethodNameClashError

type MethodNameClashError struct {
	Procedure *Procedure
	Other     *Procedure
	ast.Range
}

var _ SemanticError = &MethodNameClashError{}
var _ errors.UserError = &MethodNameClashError{}
var _ errors.SecondaryError = &MethodNameClashError{}

func (*MethodNameClashError) isSemanticError() {}

func (*MethodNameClashError) IsUserError() {}

func (e *MethodNameClashError) Error() string {
	return fmt.Sprintf(
		"name clash: `%s` in `%s` has the same erasure as `%s` in `%s`",
		e.Procedure.Signature(),
		e.Procedure.Container,
		e.Other.Signature(),
		e.Other.Container,
	)
}

func (e *MethodNameClashError) SecondaryError() string {
	return "but does not override it"
}

// ClassCheckError

// ClassCheckError is returned when checking a class declaration
// finds one or more semantic errors.
type ClassCheckError struct {
	Class  *ClassType
	Errors []error
}

var _ errors.UserError = &ClassCheckError{}
var _ errors.ParentError = &ClassCheckError{}

func (*ClassCheckError) IsUserError() {}

func (e *ClassCheckError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "checking `%s` failed:", e.Class)
	for _, err := range e.Errors {
		sb.WriteString("\n")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *ClassCheckError) ChildErrors() []error {
	return e.Errors
}

func (e *ClassCheckError) Unwrap() []error {
	return e.Errors
}
