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
)

// MethodQuery describes a method call site.
type MethodQuery struct {
	Container     Type
	Name          string
	ArgumentTypes []Type
	// TypeArguments are the explicit type arguments of the call, if any
	TypeArguments []Type
	// ExpectedReturnType is the type the call's context expects, if known
	ExpectedReturnType Type
	// Context is the class in which the call occurs, if any
	Context *ClassType
	ast.Range
}

// ConstructorQuery describes an instance creation site.
type ConstructorQuery struct {
	Container     Type
	ArgumentTypes []Type
	TypeArguments []Type
	Context       *ClassType
	ast.Range
}

// applicabilityPhase

type applicabilityPhase uint8

const (
	// no boxing, no variable arity
	applicabilityPhaseStrict applicabilityPhase = iota
	// boxing and unboxing
	applicabilityPhaseLoose
	applicabilityPhaseVariableArity
	applicabilityPhaseCount
)

// applicableProcedures are the applicable and accessible procedures
// of one phase, without the procedures they override.
type applicableProcedures struct {
	procedures []*Procedure
	overridden map[*Procedure]struct{}
}

func (a *applicableProcedures) add(procedure *Procedure, implemented []*Procedure) {
	if _, ok := a.overridden[procedure.Declaration()]; ok {
		return
	}

	if a.overridden == nil {
		a.overridden = map[*Procedure]struct{}{}
	}
	for _, other := range implemented {
		a.overridden[other.Declaration()] = struct{}{}
	}

	a.remove(implemented)
	a.procedures = append(a.procedures, procedure)
}

func (a *applicableProcedures) remove(removed []*Procedure) {
	if len(removed) == 0 {
		return
	}

	declarations := make(map[*Procedure]struct{}, len(removed))
	for _, procedure := range removed {
		declarations[procedure.Declaration()] = struct{}{}
	}

	kept := a.procedures[:0]
	for _, procedure := range a.procedures {
		if _, ok := declarations[procedure.Declaration()]; !ok {
			kept = append(kept, procedure)
		}
	}
	a.procedures = kept
}

// FindMethod finds the most specific applicable and accessible method for the call.
func (ts *TypeSystem) FindMethod(query MethodQuery) (Result[*Procedure], error) {
	if ts.tracingEnabled() {
		startTime := time.Now()
		defer func() {
			ts.reportResolveTrace(
				tracingMethodPostfix,
				query.Container,
				query.Name,
				len(query.ArgumentTypes),
				time.Since(startTime),
			)
		}()
	}

	method, err := ts.findMethod(query)
	return resultOf(method, err)
}

func (ts *TypeSystem) findMethod(query MethodQuery) (*Procedure, error) {
	if !IsReferenceType(query.Container) {
		return nil, &NotReferenceTypeError{
			Type:  query.Container,
			Range: query.Range,
		}
	}

	container, err := ts.Capture(query.Container)
	if err != nil {
		if captureError, ok := err.(*CaptureConversionError); ok {
			captureError.Range = query.Range
		}
		return nil, err
	}

	var phases [applicabilityPhaseCount]applicableProcedures
	var inaccessible []*Procedure
	var firstError error
	var memberNames []string
	declared := false

	visited := map[string]struct{}{}
	queue := []Type{container}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		key := typeKey(t)
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}

		members, err := ts.membersOf(t)
		if err != nil {
			return nil, err
		}

		for _, method := range members.Methods {
			memberNames = append(memberNames, method.Name)

			if method.Name != query.Name {
				continue
			}
			declared = true

			applicable := ts.procedureCallValid(
				method,
				query.ArgumentTypes,
				query.TypeArguments,
				query.ExpectedReturnType,
			)
			if applicable == nil {
				if firstError == nil {
					firstError = &ProcedureNotApplicableError{
						Procedure:     method,
						Container:     query.Container,
						ArgumentTypes: query.ArgumentTypes,
						Range:         query.Range,
					}
				}
				continue
			}

			if !ts.IsMember(applicable, container) ||
				!ts.isAccessibleThrough(applicable, container, query.Context) {

				inaccessible = append(inaccessible, applicable)
				if firstError == nil {
					firstError = &InaccessibleMemberError{
						Kind:      common.DeclarationKindMethod,
						Member:    applicable.Signature(),
						Container: query.Container,
						Range:     query.Range,
					}
				}
				continue
			}

			implemented, err := ts.implemented(applicable)
			if err != nil {
				return nil, err
			}
			if applicable != method {
				implementedByDeclared, err := ts.implemented(method)
				if err != nil {
					return nil, err
				}
				implemented = append(implemented, implementedByDeclared...)
			}

			phase := applicabilityPhaseOf(applicable, query.ArgumentTypes)
			phases[phase].add(applicable, implemented)
		}

		if superType := ts.SuperType(t); superType != nil {
			queue = append(queue, superType)
		}
		queue = append(queue, ts.Interfaces(t)...)
	}

	// Valid but inaccessible methods hide the methods they override
	for _, method := range inaccessible {
		overridden, err := ts.overrides(method)
		if err != nil {
			return nil, err
		}
		for i := range phases {
			phases[i].remove(overridden)
		}
	}

	for _, phase := range phases {
		if len(phase.procedures) == 0 {
			continue
		}
		return ts.selectMostSpecific(
			phase.procedures,
			query.Name,
			query.ArgumentTypes,
			query.Range,
		)
	}

	if !declared || firstError == nil {
		return nil, &NotDeclaredMemberError{
			Container:   query.Container,
			Name:        query.Name,
			Kind:        common.DeclarationKindMethod,
			MemberNames: memberNames,
			Range:       query.Range,
		}
	}

	return nil, firstError
}

// isAccessibleThrough returns true if the procedure is accessible
// from the context, when accessed through the given container.
// Private members are never accessible through a type variable.
func (ts *TypeSystem) isAccessibleThrough(procedure *Procedure, container Type, context *ClassType) bool {
	if _, ok := container.(*TypeVariable); ok && procedure.Flags.IsPrivate() {
		return false
	}
	return ts.isProcedureAccessible(procedure, context)
}

// FindConstructor finds the most specific applicable and accessible constructor
// of the container class for the instance creation.
func (ts *TypeSystem) FindConstructor(query ConstructorQuery) (Result[*Procedure], error) {
	if ts.tracingEnabled() {
		startTime := time.Now()
		defer func() {
			ts.reportResolveTrace(
				tracingConstructorPostfix,
				query.Container,
				"new",
				len(query.ArgumentTypes),
				time.Since(startTime),
			)
		}()
	}

	constructor, err := ts.findConstructor(query)
	return resultOf(constructor, err)
}

func (ts *TypeSystem) findConstructor(query ConstructorQuery) (*Procedure, error) {
	class, ok := classOf(query.Container)
	if !ok {
		return nil, &NotReferenceTypeError{
			Type:  query.Container,
			Range: query.Range,
		}
	}

	members, err := ts.membersOf(query.Container)
	if err != nil {
		return nil, err
	}

	name := class.SimpleName()

	if len(members.Constructors) == 0 {
		return nil, &NotDeclaredMemberError{
			Container: query.Container,
			Name:      name,
			Kind:      common.DeclarationKindConstructor,
			Range:     query.Range,
		}
	}

	var phases [applicabilityPhaseCount][]*Procedure
	var firstError error

	for _, constructor := range members.Constructors {
		applicable := ts.procedureCallValid(
			constructor,
			query.ArgumentTypes,
			query.TypeArguments,
			nil,
		)
		if applicable == nil {
			if firstError == nil {
				firstError = &ProcedureNotApplicableError{
					Procedure:     constructor,
					Container:     query.Container,
					ArgumentTypes: query.ArgumentTypes,
					Range:         query.Range,
				}
			}
			continue
		}

		if !ts.isProcedureAccessible(applicable, query.Context) {
			if firstError == nil {
				firstError = &InaccessibleMemberError{
					Kind:      common.DeclarationKindConstructor,
					Member:    applicable.Signature(),
					Container: query.Container,
					Range:     query.Range,
				}
			}
			continue
		}

		phase := applicabilityPhaseOf(applicable, query.ArgumentTypes)
		phases[phase] = append(phases[phase], applicable)
	}

	for _, candidates := range phases {
		if len(candidates) == 0 {
			continue
		}
		return ts.selectMostSpecific(
			candidates,
			name,
			query.ArgumentTypes,
			query.Range,
		)
	}

	return nil, firstError
}

// procedureCallValid returns the procedure, instantiated for the call,
// if the procedure can be called with the given arguments, or nil.
//
// The type arguments of a generic procedure are the explicit type arguments,
// or are inferred from the argument types and the expected return type.
func (ts *TypeSystem) procedureCallValid(
	procedure *Procedure,
	argumentTypes []Type,
	typeArguments []Type,
	expectedReturnType Type,
) *Procedure {
	if !arityMatches(procedure, len(argumentTypes)) {
		return nil
	}

	instance := procedure

	if len(procedure.TypeParameters) > 0 {
		var subst *Substitution
		if len(typeArguments) == 0 {
			subst = ts.InferTypeArguments(procedure, argumentTypes, expectedReturnType)
		} else if len(typeArguments) == len(procedure.TypeParameters) {
			subst = NewSubstitution(ts, procedure.TypeParameters, typeArguments)
		}
		if subst == nil {
			return nil
		}

		for i, parameter := range procedure.TypeParameters {
			argument, ok := subst.Lookup(parameter)
			if !ok {
				argument = procedure.TypeParameters[i]
			}
			if !ts.IsSubtype(argument, subst.SubstituteType(parameter.UpperBound())) {
				return nil
			}
		}

		instance = subst.SubstituteProcedure(procedure)
	}

	if !ts.argumentsValid(instance, argumentTypes) {
		return nil
	}

	return instance
}

func arityMatches(procedure *Procedure, argumentCount int) bool {
	formalCount := len(procedure.FormalTypes)
	if procedure.IsVariableArity() {
		// The variable-arity formal takes zero or more arguments
		return argumentCount >= formalCount-1
	}
	return argumentCount == formalCount
}

// argumentsValid returns true if each argument type converts to its formal type
// by method invocation conversion.
// The trailing arguments of a variable-arity procedure are matched against
// the element type of the variable-arity formal, or, if there are as many arguments
// as formals, the last argument may be the array itself.
func (ts *TypeSystem) argumentsValid(procedure *Procedure, argumentTypes []Type) bool {
	if !arityMatches(procedure, len(argumentTypes)) {
		return false
	}

	formals := procedure.FormalTypes
	last := len(formals) - 1
	variableArity := procedure.IsVariableArity()

	for i, argument := range argumentTypes {
		var formal Type
		if variableArity && i >= last {
			formal = procedure.variableArityElementType()
		} else {
			formal = formals[i]
		}

		if ts.IsImplicitCastValid(argument, formal) {
			continue
		}

		if variableArity &&
			i == last &&
			len(argumentTypes) == len(formals) &&
			ts.IsImplicitCastValid(argument, formals[last]) {

			continue
		}

		return false
	}

	return true
}

func applicabilityPhaseOf(procedure *Procedure, argumentTypes []Type) applicabilityPhase {
	switch {
	case procedure.IsVariableArity():
		return applicabilityPhaseVariableArity
	case boxingRequired(procedure, argumentTypes):
		return applicabilityPhaseLoose
	default:
		return applicabilityPhaseStrict
	}
}

// boxingRequired returns true if an argument of a fixed-arity procedure
// is primitive and its formal is not, or vice versa.
func boxingRequired(procedure *Procedure, argumentTypes []Type) bool {
	for i, formal := range procedure.FormalTypes {
		if i >= len(argumentTypes) {
			break
		}
		if isPrimitive(formal) != isPrimitive(argumentTypes[i]) {
			return true
		}
	}
	return false
}

func isPrimitive(t Type) bool {
	_, ok := t.(*PrimitiveType)
	return ok
}

// moreSpecific returns true if p1 is at least as specific as p2:
// p2 can be called with the formal types of p1.
func (ts *TypeSystem) moreSpecific(p1, p2 *Procedure) bool {
	return ts.procedureCallValid(p2, p1.FormalTypes, nil, nil) != nil
}

func (ts *TypeSystem) selectMostSpecific(
	candidates []*Procedure,
	name string,
	argumentTypes []Type,
	r ast.Range,
) (*Procedure, error) {
	maximal := ts.mostSpecific(candidates)
	if len(maximal) == 1 {
		return maximal[0], nil
	}
	return nil, &AmbiguousProcedureCallError{
		Name:          name,
		ArgumentTypes: argumentTypes,
		Candidates:    maximal,
		Range:         r,
	}
}

// mostSpecific returns the maximally specific candidates.
//
// Of several maximally specific candidates, the only non-abstract one is chosen.
// If all are abstract and override-equivalent, the one with the most specific
// return type is chosen.
func (ts *TypeSystem) mostSpecific(candidates []*Procedure) []*Procedure {
	if len(candidates) < 2 {
		return candidates
	}

	var maximal []*Procedure

	for i, candidate := range candidates {
		dominated := false
		for j, other := range candidates {
			if i == j {
				continue
			}
			if ts.moreSpecific(other, candidate) &&
				!ts.moreSpecific(candidate, other) {

				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, candidate)
		}
	}

	if len(maximal) < 2 {
		if len(maximal) == 0 {
			return candidates
		}
		return maximal
	}

	var concrete []*Procedure
	for _, candidate := range maximal {
		if !candidate.Flags.IsAbstract() {
			concrete = append(concrete, candidate)
		}
	}

	switch len(concrete) {
	case 1:
		return concrete

	case 0:
		first := maximal[0]
		for _, other := range maximal[1:] {
			if !ts.AreOverrideEquivalent(first.Declaration(), other.Declaration()) {
				return maximal
			}
		}

		best := first
		for _, other := range maximal[1:] {
			if !ts.AreReturnTypeSubstitutable(best.ReturnType, other.ReturnType) &&
				ts.AreReturnTypeSubstitutable(other.ReturnType, best.ReturnType) {

				best = other
			}
		}
		return []*Procedure{best}
	}

	return maximal
}
