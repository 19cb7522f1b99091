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
	"time"

	"github.com/onflow/jgen/errors"
)

// constraintKind

type constraintKind uint8

const (
	constraintKindUnknown constraintKind = iota
	// actual << formal: the actual converts to the formal by method invocation conversion
	constraintKindSubConversion
	// actual >> formal: the formal converts to the actual
	constraintKindSuperConversion
	// actual = formal
	constraintKindEqual
	// actual <: target variable
	constraintKindSubtype
	// actual :> target variable
	constraintKindSupertype
)

// inferenceConstraint relates a type of the call site (actual)
// and a type of the procedure's signature (formal), which mentions the target variables.
type inferenceConstraint struct {
	kind   constraintKind
	actual Type
	formal Type
}

func (c inferenceConstraint) String() string {
	var operator string
	switch c.kind {
	case constraintKindSubConversion:
		operator = "<<"
	case constraintKindSuperConversion:
		operator = ">>"
	case constraintKindEqual:
		operator = "="
	case constraintKindSubtype:
		operator = "<:"
	case constraintKindSupertype:
		operator = ":>"
	default:
		panic(errors.NewUnreachableError())
	}
	return fmt.Sprintf("%s %s %s", c.actual, operator, c.formal)
}

// inferenceSolver infers the type arguments of a call of a generic procedure
// from the argument types, and optionally from the expected return type.
type inferenceSolver struct {
	ts            *TypeSystem
	procedure     *Procedure
	argumentTypes []Type
	targets       []*TypeVariable
	targetIndices map[TypeVariableID]int
}

func newInferenceSolver(ts *TypeSystem, procedure *Procedure, argumentTypes []Type) *inferenceSolver {
	targets := procedure.TypeParameters
	targetIndices := make(map[TypeVariableID]int, len(targets))
	for i, target := range targets {
		targetIndices[target.ID] = i
	}
	return &inferenceSolver{
		ts:            ts,
		procedure:     procedure,
		argumentTypes: argumentTypes,
		targets:       targets,
		targetIndices: targetIndices,
	}
}

// InferTypeArguments infers the type arguments of a call of the given generic procedure.
// The expected return type is optional.
// It returns nil if the arguments admit no solution.
func (ts *TypeSystem) InferTypeArguments(
	procedure *Procedure,
	argumentTypes []Type,
	expectedReturnType Type,
) (subst *Substitution) {
	if ts.tracingEnabled() {
		startTime := time.Now()
		defer func() {
			ts.reportInferTrace(procedure, subst != nil, time.Since(startTime))
		}()
	}

	solver := newInferenceSolver(ts, procedure, argumentTypes)
	solution := solver.solve(expectedReturnType)
	if solution == nil {
		return nil
	}
	return NewSubstitution(ts, procedure.TypeParameters, solution)
}

func (s *inferenceSolver) targetIndex(t Type) (int, bool) {
	variable, ok := t.(*TypeVariable)
	if !ok {
		return 0, false
	}
	index, ok := s.targetIndices[variable.ID]
	return index, ok
}

func (s *inferenceSolver) isTarget(t Type) bool {
	_, ok := s.targetIndex(t)
	return ok
}

func (s *inferenceSolver) initialConstraints() []inferenceConstraint {
	var constraints []inferenceConstraint

	addSubConversion := func(actual, formal Type) {
		constraints = append(constraints, inferenceConstraint{
			kind:   constraintKindSubConversion,
			actual: actual,
			formal: formal,
		})
	}

	formals := s.procedure.FormalTypes
	arguments := s.argumentTypes
	formalCount := len(formals)

	for i := 0; i < formalCount-1 && i < len(arguments); i++ {
		addSubConversion(arguments[i], formals[i])
	}

	if formalCount == 0 {
		return constraints
	}

	last := formalCount - 1

	switch {
	case s.procedure.IsVariableArity():
		passesArray := false
		if len(arguments) == formalCount {
			_, passesArray = arguments[last].(*ArrayType)
		}
		if passesArray {
			// The array is passed for the variable-arity formal
			addSubConversion(arguments[last], formals[last])
		} else {
			element := s.procedure.variableArityElementType()
			for i := last; i < len(arguments); i++ {
				addSubConversion(arguments[i], element)
			}
		}

	case len(arguments) == formalCount:
		addSubConversion(arguments[last], formals[last])
	}

	return constraints
}

func (s *inferenceSolver) solve(expectedReturnType Type) []Type {
	ts := s.ts

	solution := s.solveConstraints(s.initialConstraints(), true)
	if solution == nil {
		return nil
	}

	returnType := s.returnType()

	if hasUnresolvedTargets(solution) {
		s.solveUnresolved(solution, expectedReturnType)
	} else if ts.config.MorePermissiveInference &&
		returnType != nil &&
		expectedReturnType != nil {

		// The expected return type may lead to a better solution
		constraints := append(
			s.initialConstraints(),
			inferenceConstraint{
				kind:   constraintKindSuperConversion,
				actual: expectedReturnType,
				formal: returnType,
			},
		)
		if better := s.solveConstraints(constraints, true); better != nil {
			solution = better
		}
	}

	for i, solved := range solution {
		if solved == nil {
			solution[i] = ts.ObjectType
		}
	}

	return solution
}

// returnType returns the return type of a method if it is a reference type, or nil.
func (s *inferenceSolver) returnType() Type {
	if s.procedure.Kind != ProcedureKindMethod {
		return nil
	}
	returnType := s.procedure.ReturnType
	if !IsReferenceType(returnType) {
		return nil
	}
	return returnType
}

func hasUnresolvedTargets(solution []Type) bool {
	for _, solved := range solution {
		if solved == nil {
			return true
		}
	}
	return false
}

// solveUnresolved infers the targets which the arguments do not determine,
// from the expected return type and the declared bounds.
func (s *inferenceSolver) solveUnresolved(solution []Type, expectedReturnType Type) {
	ts := s.ts

	replacements := make([]Type, len(solution))
	for i, solved := range solution {
		if solved == nil {
			replacements[i] = s.targets[i]
		} else {
			replacements[i] = solved
		}
	}
	partial := NewSubstitution(ts, s.targets, replacements)

	constraints := s.initialConstraints()

	if returnType := s.returnType(); returnType != nil {
		if expectedReturnType == nil {
			expectedReturnType = ts.ObjectType
		}
		constraints = append(constraints, inferenceConstraint{
			kind:   constraintKindSuperConversion,
			actual: expectedReturnType,
			formal: partial.SubstituteType(returnType),
		})
	}

	for _, target := range s.targets {
		bound := partial.SubstituteType(target.UpperBound())
		// A bound which still mentions an unresolved target can not be a solution
		if s.mentionsTarget(bound) {
			bound = ts.Erasure(bound)
		}
		constraints = append(constraints, inferenceConstraint{
			kind:   constraintKindSuperConversion,
			actual: bound,
			formal: target,
		})
	}

	remaining := s.solveConstraints(constraints, false)
	if remaining == nil {
		return
	}

	for i, solved := range solution {
		if solved == nil {
			solution[i] = remaining[i]
		}
	}
}

func (s *inferenceSolver) mentionsTarget(t Type) bool {
	switch t := t.(type) {
	case *TypeVariable:
		return s.isTarget(t)

	case *ArrayType:
		return s.mentionsTarget(t.Element)

	case *WildcardType:
		return s.mentionsTarget(t.UpperBound) ||
			(t.LowerBound != nil && s.mentionsTarget(t.LowerBound))

	case *IntersectionType:
		return s.anyMentionsTarget(t.Bounds)

	case *LubType:
		return s.anyMentionsTarget(t.Elements)

	case *InstantiatedClassType:
		return s.anyMentionsTarget(t.AllTypeArguments())

	case *PrimitiveType, *NullType, *ClassType, *RawClass:
		return false
	}

	panic(errors.NewUnreachableError())
}

func (s *inferenceSolver) anyMentionsTarget(types []Type) bool {
	for _, t := range types {
		if s.mentionsTarget(t) {
			return true
		}
	}
	return false
}

// solveConstraints reduces the constraints to constraints on the targets,
// and solves them: first using the equality constraints,
// then, for the remaining targets, either the subtype or the supertype constraints.
// It returns nil if the equality constraints conflict, or the lub of
// the subtype constraints does not satisfy the target's bound.
func (s *inferenceSolver) solveConstraints(
	constraints []inferenceConstraint,
	useSubtypeConstraints bool,
) []Type {
	ts := s.ts

	var equals, subs, supers []inferenceConstraint

	for len(constraints) > 0 {
		head := constraints[0]
		constraints = constraints[1:]

		if s.canSimplify(head) {
			// Simplified constraints are handled first
			simplified := s.simplify(head)
			constraints = append(simplified, constraints...)
			continue
		}

		switch head.kind {
		case constraintKindEqual:
			equals = append(equals, head)
		case constraintKindSubtype:
			subs = append(subs, head)
		case constraintKindSupertype:
			supers = append(supers, head)
		default:
			panic(errors.NewUnreachableError())
		}
	}

	solution := make([]Type, len(s.targets))

	for _, target := range s.targets {
		for _, equal := range equals {
			if !equal.formal.Equal(target) {
				continue
			}
			index := s.targetIndices[target.ID]
			if solution[index] != nil && !solution[index].Equal(equal.actual) {
				return nil
			}
			solution[index] = equal.actual
		}
	}

	bounding := supers
	if useSubtypeConstraints {
		bounding = subs
	}

	for i, target := range s.targets {
		if solution[i] != nil {
			continue
		}

		var bounds []Type
	constraints:
		for _, constraint := range bounding {
			if !constraint.formal.Equal(target) ||
				!IsReferenceType(constraint.actual) {

				continue
			}
			for _, bound := range bounds {
				if bound.Equal(constraint.actual) {
					continue constraints
				}
			}
			bounds = append(bounds, constraint.actual)
		}

		switch {
		case len(bounds) == 1:
			solution[i] = bounds[0]

		case len(bounds) > 1 && useSubtypeConstraints:
			lub := ts.Lub(bounds...)
			if !ts.IsSubtype(lub, target.UpperBound()) {
				return nil
			}
			solution[i] = lub

		case len(bounds) > 1:
			solution[i] = ts.GLB(bounds...)
		}
	}

	return solution
}

func (s *inferenceSolver) canSimplify(constraint inferenceConstraint) bool {
	switch constraint.kind {
	case constraintKindSubConversion, constraintKindSuperConversion:
		return true
	case constraintKindEqual:
		return !s.isTarget(constraint.formal)
	case constraintKindSubtype, constraintKindSupertype:
		return false
	}

	panic(errors.NewUnreachableError())
}

func (s *inferenceSolver) simplify(constraint inferenceConstraint) []inferenceConstraint {
	switch constraint.kind {
	case constraintKindSubConversion:
		return s.simplifySubConversion(constraint.actual, constraint.formal)
	case constraintKindSuperConversion:
		return s.simplifySuperConversion(constraint.actual, constraint.formal)
	case constraintKindEqual:
		return s.simplifyEqual(constraint.actual, constraint.formal)
	}

	panic(errors.NewUnreachableError())
}

func subConversion(actual, formal Type) inferenceConstraint {
	return inferenceConstraint{
		kind:   constraintKindSubConversion,
		actual: actual,
		formal: formal,
	}
}

func superConversion(actual, formal Type) inferenceConstraint {
	return inferenceConstraint{
		kind:   constraintKindSuperConversion,
		actual: actual,
		formal: formal,
	}
}

func equalConstraint(actual, formal Type) inferenceConstraint {
	return inferenceConstraint{
		kind:   constraintKindEqual,
		actual: actual,
		formal: formal,
	}
}

// arrayElementOf returns the element type of an array,
// or of the array upper bound of a type variable,
// if it is a reference type.
func arrayElementOf(t Type) (Type, bool) {
	if variable, ok := t.(*TypeVariable); ok {
		t = variable.UpperBound()
	}
	arrayType, ok := t.(*ArrayType)
	if !ok || !IsReferenceType(arrayType.Element) {
		return nil, false
	}
	return arrayType.Element, true
}

func (s *inferenceSolver) simplifySubConversion(actual, formal Type) []inferenceConstraint {
	ts := s.ts

	switch actual := actual.(type) {
	case *PrimitiveType:
		if actual.IsVoid() {
			return nil
		}
		return []inferenceConstraint{
			subConversion(ts.Boxing(actual), formal),
		}

	case *NullType:
		return nil
	}

	if s.isTarget(formal) {
		return []inferenceConstraint{{
			kind:   constraintKindSubtype,
			actual: actual,
			formal: formal,
		}}
	}

	switch formal := formal.(type) {
	case *ArrayType:
		if element, ok := arrayElementOf(actual); ok {
			return []inferenceConstraint{
				subConversion(element, formal.Element),
			}
		}

	case *InstantiatedClassType:
		supertype, ok := ts.FindGenericSupertype(formal.Base, actual).(*InstantiatedClassType)
		if !ok {
			return nil
		}

		var result []inferenceConstraint

		actualArguments := supertype.AllTypeArguments()
		for i, formalArgument := range formal.AllTypeArguments() {
			actualArgument := actualArguments[i]
			actualWildcard, actualIsWildcard := actualArgument.(*WildcardType)

			formalWildcard, ok := formalArgument.(*WildcardType)
			switch {
			case !ok:
				result = append(result, equalConstraint(actualArgument, formalArgument))

			case formalWildcard.IsExtends():
				switch {
				case !actualIsWildcard:
					result = append(result, subConversion(actualArgument, formalWildcard.UpperBound))
				case actualWildcard.IsExtends():
					result = append(result, subConversion(actualWildcard.UpperBound, formalWildcard.UpperBound))
				}

			default:
				switch {
				case !actualIsWildcard:
					result = append(result, superConversion(actualArgument, formalWildcard.LowerBound))
				case actualWildcard.IsSuper():
					result = append(result, superConversion(actualWildcard.LowerBound, formalWildcard.LowerBound))
				}
			}
		}

		return result
	}

	return nil
}

func (s *inferenceSolver) simplifySuperConversion(actual, formal Type) []inferenceConstraint {
	ts := s.ts

	if _, ok := actual.(*NullType); ok {
		return nil
	}

	if s.isTarget(formal) {
		return []inferenceConstraint{{
			kind:   constraintKindSupertype,
			actual: actual,
			formal: formal,
		}}
	}

	switch formal := formal.(type) {
	case *ArrayType:
		if element, ok := arrayElementOf(actual); ok {
			return []inferenceConstraint{
				superConversion(element, formal.Element),
			}
		}

	case *InstantiatedClassType:
		actualInstantiated, ok := actual.(*InstantiatedClassType)
		if !ok {
			return nil
		}

		if actualInstantiated.Base != formal.Base {
			supertype, ok := ts.FindGenericSupertype(actualInstantiated.Base, formal).(*InstantiatedClassType)
			if !ok {
				return nil
			}
			return []inferenceConstraint{
				superConversion(actual, supertype),
			}
		}

		var result []inferenceConstraint

		actualArguments := actualInstantiated.AllTypeArguments()
		for i, formalArgument := range formal.AllTypeArguments() {
			actualArgument := actualArguments[i]
			actualWildcard, actualIsWildcard := actualArgument.(*WildcardType)
			formalWildcard, formalIsWildcard := formalArgument.(*WildcardType)

			switch {
			case !formalIsWildcard && !actualIsWildcard:
				result = append(result, equalConstraint(actualArgument, formalArgument))

			case !formalIsWildcard && actualWildcard.IsExtends():
				result = append(result, superConversion(actualWildcard.UpperBound, formalArgument))

			case !formalIsWildcard:
				result = append(result, subConversion(actualWildcard.LowerBound, formalArgument))

			case actualIsWildcard && formalWildcard.IsExtends() && actualWildcard.IsExtends():
				result = append(result, superConversion(actualWildcard.UpperBound, formalWildcard.UpperBound))

			case actualIsWildcard && formalWildcard.IsSuper() && actualWildcard.IsSuper():
				result = append(result, subConversion(actualWildcard.LowerBound, formalWildcard.LowerBound))
			}
		}

		return result
	}

	return nil
}

func (s *inferenceSolver) simplifyEqual(actual, formal Type) []inferenceConstraint {
	if _, ok := actual.(*NullType); ok {
		return nil
	}

	switch formal := formal.(type) {
	case *ArrayType:
		if element, ok := arrayElementOf(actual); ok {
			return []inferenceConstraint{
				equalConstraint(element, formal.Element),
			}
		}

	case *InstantiatedClassType:
		actualInstantiated, ok := actual.(*InstantiatedClassType)
		if !ok || actualInstantiated.Base != formal.Base {
			return nil
		}

		var result []inferenceConstraint

		actualArguments := actualInstantiated.AllTypeArguments()
		for i, formalArgument := range formal.AllTypeArguments() {
			actualArgument := actualArguments[i]
			actualWildcard, actualIsWildcard := actualArgument.(*WildcardType)
			formalWildcard, formalIsWildcard := formalArgument.(*WildcardType)

			switch {
			case !formalIsWildcard && !actualIsWildcard:
				result = append(result, equalConstraint(actualArgument, formalArgument))

			case formalIsWildcard && actualIsWildcard:
				switch {
				case formalWildcard.IsExtends() && actualWildcard.IsExtends():
					result = append(result, equalConstraint(actualWildcard.UpperBound, formalWildcard.UpperBound))
				case formalWildcard.IsSuper() && actualWildcard.IsSuper():
					result = append(result, equalConstraint(actualWildcard.LowerBound, formalWildcard.LowerBound))
				}
			}
		}

		return result
	}

	return nil
}
