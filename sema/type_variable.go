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

	"github.com/onflow/jgen/errors"
)

// TypeVariableID is the handle of a type variable in the arena of a type system.
type TypeVariableID uint

//go:generate go tool stringer -type=TypeVariableSite -trimprefix=TypeVariableSite

type TypeVariableSite uint8

const (
	TypeVariableSiteUnknown TypeVariableSite = iota
	TypeVariableSiteClass
	TypeVariableSiteProcedure
	TypeVariableSiteSynthetic
)

// TypeVariable is a named, bounded placeholder.
//
// The identity of a type variable is its handle:
// substitution produces copies with rewritten bounds,
// all of which are equal to the declared variable.
type TypeVariable struct {
	ID                 TypeVariableID
	Name               string
	Site               TypeVariableSite
	DeclaringClass     *ClassType
	DeclaringProcedure *Procedure
	// Capture is the wildcard which the variable stands for,
	// if the variable was created by capture conversion
	Capture *WildcardType

	upperBound Type
	lowerBound Type
	bound      bool
}

var _ Type = &TypeVariable{}

func (*TypeVariable) isType() {}

func (v *TypeVariable) String() string {
	return typeString(v)
}

func (v *TypeVariable) Equal(other Type) bool {
	otherVariable, ok := other.(*TypeVariable)
	return ok && v.ID == otherVariable.ID
}

// UpperBound returns the upper bound of the variable, which is never nil.
func (v *TypeVariable) UpperBound() Type {
	return v.upperBound
}

// LowerBound returns the lower bound of the variable, or nil.
func (v *TypeVariable) LowerBound() Type {
	return v.lowerBound
}

func (v *TypeVariable) IsCaptured() bool {
	return v.Capture != nil
}

// SetBounds sets the bounds of a variable which was created without them.
// Bounds are set at most once, after all variables they may mention exist.
func (v *TypeVariable) SetBounds(upperBound, lowerBound Type) {
	if v.bound {
		panic(errors.NewUnexpectedError("type variable `%s` is already bound", v.Name))
	}
	if upperBound != nil {
		v.upperBound = upperBound
	}
	v.lowerBound = lowerBound
	v.bound = true
}

// WithUpperBound returns a copy of the variable with the given upper bound.
// The copy has the same handle, so it is equal to the variable.
func (v *TypeVariable) WithUpperBound(upperBound Type) *TypeVariable {
	if upperBound == nil {
		panic(errors.NewUnexpectedError("type variable `%s` requires an upper bound", v.Name))
	}
	result := *v
	result.upperBound = upperBound
	result.bound = true
	return &result
}

// TypeVariableArena owns the type variables of one type system,
// and hands out small, stable handles for them.
type TypeVariableArena struct {
	variables []*TypeVariable
}

func NewTypeVariableArena() *TypeVariableArena {
	return &TypeVariableArena{}
}

// New creates a variable bounded by the given upper bound.
// The bounds may be replaced once, using SetBounds.
func (a *TypeVariableArena) New(name string, site TypeVariableSite, upperBound Type) *TypeVariable {
	variable := &TypeVariable{
		ID:         TypeVariableID(len(a.variables)),
		Name:       name,
		Site:       site,
		upperBound: upperBound,
	}
	a.variables = append(a.variables, variable)
	return variable
}

// Get returns the variable as it was created for the given handle.
func (a *TypeVariableArena) Get(id TypeVariableID) *TypeVariable {
	if int(id) >= len(a.variables) {
		panic(errors.NewUnexpectedError("unknown type variable handle: %d", id))
	}
	return a.variables[id]
}

func (a *TypeVariableArena) Len() int {
	return len(a.variables)
}

func captureName(id TypeVariableID) string {
	return fmt.Sprintf("capture#%d", id)
}
