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

// CheckClass checks the methods declared by the class.
// A method must be a valid override of every method it overrides or implements,
// and must not have the same erasure as an inherited method it does not override.
//
// All violations are reported together in a *ClassCheckError.
func (ts *TypeSystem) CheckClass(class *ClassType) (Result[*ClassMembers], error) {
	members, err := ts.checkClass(class)
	return resultOf(members, err)
}

func (ts *TypeSystem) checkClass(class *ClassType) (*ClassMembers, error) {
	members, err := ts.membersOf(class)
	if err != nil {
		return nil, err
	}

	var semanticErrors []error

	report := func(err error) error {
		if semanticError, ok := err.(SemanticError); ok {
			semanticErrors = append(semanticErrors, semanticError)
			return nil
		}
		return err
	}

	for i, method := range members.Methods {
		r := class.signature.Methods[i].Range

		implemented, err := ts.implemented(method)
		if err != nil {
			return nil, err
		}

		for _, other := range implemented {
			if !ts.isOverridable(other, class) ||
				other.Declaration() == method.Declaration() {

				continue
			}

			err := report(ts.CheckOverride(method, other, r))
			if err != nil {
				return nil, err
			}
		}

		err = report(ts.checkMethodNameClash(method, class, class, r))
		if err != nil {
			return nil, err
		}
	}

	if len(semanticErrors) > 0 {
		return nil, &ClassCheckError{
			Class:  class,
			Errors: semanticErrors,
		}
	}

	return members, nil
}

// isOverridable returns true if a method of the given class can override the method.
// Private methods are not inherited, and static interface methods are not members of implementations.
func (ts *TypeSystem) isOverridable(method *Procedure, class *ClassType) bool {
	if method.Flags.IsPrivate() {
		return false
	}
	if method.IsStatic() && isInterfaceType(method.Container) {
		return false
	}
	return ts.isProcedureAccessible(method, class)
}
