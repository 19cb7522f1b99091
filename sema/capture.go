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
)

// Capture returns the capture conversion of the given type:
// wildcard type arguments of an instantiated class are replaced
// by fresh type variables, bounded by the wildcard bound and
// by the bound of the corresponding type parameter.
//
// Any type other than an instantiated class is returned unchanged.
func (ts *TypeSystem) Capture(t Type) (Type, error) {
	instantiated, ok := t.(*InstantiatedClassType)
	if !ok {
		return t, nil
	}

	variables := instantiated.Base.ClassAndEnclosingTypeVariables()
	actuals := instantiated.AllTypeArguments()

	hasWildcard := false
	for _, actual := range actuals {
		if _, ok := actual.(*WildcardType); ok {
			hasWildcard = true
			break
		}
	}
	if !hasWildcard {
		return t, nil
	}

	if ts.tracingEnabled() {
		startTime := time.Now()
		defer func() {
			ts.reportCaptureTrace(t, time.Since(startTime))
		}()
	}

	captured := make([]Type, len(actuals))
	for i, actual := range actuals {
		if wildcard, ok := actual.(*WildcardType); ok {
			captured[i] = ts.newCapturedTypeVariable(wildcard)
		} else {
			captured[i] = actual
		}
	}

	subst := NewSubstitution(ts, variables, captured)

	for i, actual := range actuals {
		wildcard, ok := actual.(*WildcardType)
		if !ok {
			continue
		}

		variable := captured[i].(*TypeVariable)
		declaredBound := subst.SubstituteType(variables[i].UpperBound())

		if wildcard.IsSuper() {
			variable.SetBounds(declaredBound, wildcard.LowerBound)
			continue
		}

		upperBound := wildcard.UpperBound
		switch {
		case upperBound.Equal(declaredBound), ts.isObject(declaredBound):
			variable.SetBounds(upperBound, nil)

		case ts.isObject(upperBound):
			variable.SetBounds(declaredBound, nil)

		default:
			if isClassNotInterface(upperBound) &&
				isClassNotInterface(declaredBound) &&
				!ts.IsSubtype(upperBound, declaredBound) &&
				!ts.IsSubtype(declaredBound, upperBound) {

				return nil, &CaptureConversionError{
					Type:          t,
					WildcardBound: upperBound,
					DeclaredBound: declaredBound,
				}
			}
			variable.SetBounds(ts.intersection([]Type{upperBound, declaredBound}), nil)
		}
	}

	return ts.InstantiateWith(instantiated.Base, subst), nil
}
