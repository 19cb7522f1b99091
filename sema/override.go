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
)

// HasSameSignature returns true if the two procedures have the same name,
// the same number of type parameters with the same bounds, and the same formal types,
// after renaming the type parameters of mj to those of mi.
func (ts *TypeSystem) HasSameSignature(mi, mj *Procedure) bool {
	return ts.hasSameSignature(mi, mj, false)
}

func (ts *TypeSystem) hasSameSignature(mi, mj *Procedure, eraseMj bool) bool {
	if mi.Kind == ProcedureKindMethod &&
		mj.Kind == ProcedureKindMethod &&
		mi.Name != mj.Name {

		return false
	}

	if len(mi.FormalTypes) != len(mj.FormalTypes) {
		return false
	}

	if eraseMj {
		// The erasure of mj has no type parameters
		if len(mi.TypeParameters) > 0 {
			return false
		}
	} else if len(mi.TypeParameters) != len(mj.TypeParameters) {
		return false
	}

	if !eraseMj && len(mi.TypeParameters) > 0 {
		subst := ts.renamingSubstitution(mj, mi)

		for i, ti := range mi.TypeParameters {
			tj := mj.TypeParameters[i]
			if !ti.UpperBound().Equal(subst.SubstituteType(tj.UpperBound())) {
				return false
			}
		}

		mj = subst.SubstituteProcedure(mj)
	}

	for i, ti := range mi.FormalTypes {
		tj := mj.FormalTypes[i]
		if eraseMj {
			tj = ts.Erasure(tj)
		}
		if !ti.Equal(tj) {
			return false
		}
	}

	return true
}

// renamingSubstitution returns the substitution which replaces
// the type parameters of from with the type parameters of to.
func (ts *TypeSystem) renamingSubstitution(from, to *Procedure) *Substitution {
	replacements := make([]Type, len(to.TypeParameters))
	for i, parameter := range to.TypeParameters {
		replacements[i] = parameter
	}
	return NewSubstitution(ts, from.TypeParameters, replacements)
}

// IsSubSignature returns true if m1 has the same signature as m2,
// or as the erasure of m2.
func (ts *TypeSystem) IsSubSignature(m1, m2 *Procedure) bool {
	return ts.hasSameSignature(m1, m2, false) ||
		ts.hasSameSignature(m1, m2, true)
}

func (ts *TypeSystem) AreOverrideEquivalent(mi, mj *Procedure) bool {
	return ts.IsSubSignature(mi, mj) ||
		ts.IsSubSignature(mj, mi)
}

// Overrides returns the methods which the given method overrides or hides:
// the override-equivalent methods of the method's container and its super classes.
// The result includes the method itself.
func (ts *TypeSystem) Overrides(method *Procedure) (Result[[]*Procedure], error) {
	overridden, err := ts.overrides(method)
	return resultOf(overridden, err)
}

func (ts *TypeSystem) overrides(method *Procedure) ([]*Procedure, error) {
	var result []*Procedure

	for t := method.Container; t != nil; t = ts.SuperType(t) {
		members, err := ts.membersOf(t)
		if err != nil {
			return nil, err
		}
		for _, other := range members.methodsNamed(method.Name) {
			if ts.AreOverrideEquivalent(method, other) {
				result = append(result, other)
			}
		}
	}

	return result, nil
}

// Implemented returns the methods which the given method implements, overrides or hides:
// the override-equivalent methods of the method's container, its super classes,
// and all their super interfaces. The result includes the method itself.
func (ts *TypeSystem) Implemented(method *Procedure) (Result[[]*Procedure], error) {
	implemented, err := ts.implemented(method)
	return resultOf(implemented, err)
}

func (ts *TypeSystem) implemented(method *Procedure) ([]*Procedure, error) {
	var result []*Procedure
	visited := map[string]struct{}{}

	err := ts.collectImplemented(method, method.Container, visited, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (ts *TypeSystem) collectImplemented(
	method *Procedure,
	t Type,
	visited map[string]struct{},
	result *[]*Procedure,
) error {
	key := typeKey(t)
	if _, ok := visited[key]; ok {
		return nil
	}
	visited[key] = struct{}{}

	members, err := ts.membersOf(t)
	if err != nil {
		return err
	}
	for _, other := range members.methodsNamed(method.Name) {
		if ts.AreOverrideEquivalent(method, other) {
			*result = append(*result, other)
		}
	}

	if superType := ts.SuperType(t); superType != nil {
		err := ts.collectImplemented(method, superType, visited, result)
		if err != nil {
			return err
		}
	}

	for _, interfaceType := range ts.Interfaces(t) {
		err := ts.collectImplemented(method, interfaceType, visited, result)
		if err != nil {
			return err
		}
	}

	return nil
}

// CheckOverride checks that the method mi can override (or hide) the method mj.
func (ts *TypeSystem) CheckOverride(mi, mj *Procedure, r ast.Range) error {
	failure := ts.overrideFailure(mi, mj)
	if failure == OverrideFailureUnknown {
		return nil
	}
	return &IncompatibleOverrideError{
		Procedure:  mi,
		Overridden: mj,
		Failure:    failure,
		Range:      r,
	}
}

func (ts *TypeSystem) overrideFailure(mi, mj *Procedure) OverrideFailure {
	if !ts.IsSubSignature(mi, mj) {
		return OverrideFailureIncompatibleParameters
	}

	// A method may "override" itself, even if it is final
	if mi.Declaration() != mj.Declaration() && mj.Flags.IsFinal() {
		return OverrideFailureFinal
	}

	if len(mi.TypeParameters) > 0 {
		mj = ts.renamingSubstitution(mj, mi).SubstituteProcedure(mj)
	}

	if !ts.AreReturnTypeSubstitutable(mi.ReturnType, mj.ReturnType) {
		return OverrideFailureIncompatibleReturnType
	}

	if !ts.throwsSubset(mi, mj) {
		return OverrideFailureIncompatibleThrows
	}

	if mi.Flags.MoreRestrictiveThan(mj.Flags) {
		return OverrideFailureWeakerAccess
	}

	if mi.IsStatic() != mj.IsStatic() {
		return OverrideFailureStaticMismatch
	}

	return OverrideFailureUnknown
}

// throwsSubset returns true if every checked exception thrown by p1
// is a subtype of an exception thrown by p2.
func (ts *TypeSystem) throwsSubset(p1, p2 *Procedure) bool {
	for _, thrown := range p1.ThrowTypes {
		if ts.isUncheckedException(thrown) {
			continue
		}

		declared := false
		for _, other := range p2.ThrowTypes {
			if ts.IsSubtype(thrown, other) {
				declared = true
				break
			}
		}
		if !declared {
			return false
		}
	}

	return true
}

func (ts *TypeSystem) isUncheckedException(t Type) bool {
	return ts.IsSubtype(t, ts.builtinClass(RuntimeExceptionTypeName)) ||
		ts.IsSubtype(t, ts.builtinClass(ErrorTypeName))
}

// FindImplementingMethod returns the method which implements the given method
// in the given class, declared by the class or inherited from its super classes.
// It returns nil if the method is not implemented, i.e. if the closest
// override-equivalent declaration is abstract.
func (ts *TypeSystem) FindImplementingMethod(class Type, method *Procedure) (Result[*Procedure], error) {
	implementation, err := ts.findImplementingMethod(class, method)
	return resultOf(implementation, err)
}

func (ts *TypeSystem) findImplementingMethod(class Type, method *Procedure) (*Procedure, error) {
	for t := class; t != nil; t = ts.SuperType(t) {
		members, err := ts.membersOf(t)
		if err != nil {
			return nil, err
		}

		context, _ := classOf(t)

		for _, other := range members.methodsNamed(method.Name) {
			if !ts.AreOverrideEquivalent(method, other) {
				continue
			}
			if other.Flags.IsAbstract() {
				return nil, nil
			}
			if method.Flags.IsPublic() ||
				method.Flags.IsProtected() ||
				ts.isProcedureAccessible(method, context) {

				return other, nil
			}
		}
	}

	return nil, nil
}

// CheckMethodNameClash checks that the method, declared in the given class,
// does not have the same erasure as a method of the class or one of its supertypes
// without overriding it.
func (ts *TypeSystem) CheckMethodNameClash(method *Procedure, class Type, r ast.Range) error {
	context, _ := classOf(class)
	return ts.checkMethodNameClash(method, context, class, r)
}

func (ts *TypeSystem) checkMethodNameClash(
	method *Procedure,
	context *ClassType,
	declaringType Type,
	r ast.Range,
) error {
	members, err := ts.membersOf(declaringType)
	if err != nil {
		return err
	}

	var implementedByMethod []*Procedure

	for _, other := range members.methodsNamed(method.Name) {
		if !ts.isProcedureAccessible(other, context) ||
			ts.IsSubSignature(method, other) {

			continue
		}

		if implementedByMethod == nil {
			implementedByMethod, err = ts.implemented(method)
			if err != nil {
				return err
			}
		}
		implementedByOther, err := ts.implemented(other)
		if err != nil {
			return err
		}

		for _, first := range implementedByMethod {
			for _, second := range implementedByOther {
				if ts.hasSameErasure(first, second) {
					return &MethodNameClashError{
						Procedure: first,
						Other:     second,
						Range:     r,
					}
				}
			}
		}
	}

	if superType := ts.SuperType(declaringType); superType != nil {
		err := ts.checkMethodNameClash(method, context, superType, r)
		if err != nil {
			return err
		}
	}

	for _, interfaceType := range ts.Interfaces(declaringType) {
		err := ts.checkMethodNameClash(method, context, interfaceType, r)
		if err != nil {
			return err
		}
	}

	return nil
}

// hasSameErasure returns true if the declarations of the two methods
// have the same name and the same erased formal types.
func (ts *TypeSystem) hasSameErasure(mi, mj *Procedure) bool {
	if mi.Name != mj.Name ||
		len(mi.FormalTypes) != len(mj.FormalTypes) {

		return false
	}

	mi = mi.Declaration()
	mj = mj.Declaration()

	for i, ti := range mi.FormalTypes {
		if !ts.Erasure(ti).Equal(ts.Erasure(mj.FormalTypes[i])) {
			return false
		}
	}

	return true
}
