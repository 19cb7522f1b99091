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

	"github.com/bits-and-blooms/bitset"

	"github.com/onflow/jgen/common/orderedmap"
	"github.com/onflow/jgen/errors"
)

type substitutionEntry struct {
	variable    *TypeVariable
	replacement Type
}

// Substitution is an immutable mapping from type variables to types.
//
// The erasure substitution of a generic class is raw: it additionally
// turns the members of the class into the members of its raw class.
type Substitution struct {
	typeSystem *TypeSystem
	entries    *orderedmap.OrderedMap[TypeVariableID, substitutionEntry]
	rawBase    *ClassType
}

// NewSubstitution returns the substitution which maps
// each of the variables to the replacement at the same index.
func NewSubstitution(ts *TypeSystem, variables []*TypeVariable, replacements []Type) *Substitution {
	if len(variables) != len(replacements) {
		panic(errors.NewUnexpectedError(
			"substitution requires a replacement for each of %d variables, got %d",
			len(variables),
			len(replacements),
		))
	}

	entries := orderedmap.New[orderedmap.OrderedMap[TypeVariableID, substitutionEntry]](len(variables))
	for i, variable := range variables {
		entries.Set(variable.ID, substitutionEntry{
			variable:    variable,
			replacement: replacements[i],
		})
	}

	return &Substitution{
		typeSystem: ts,
		entries:    entries,
	}
}

// EmptySubstitution returns the substitution which maps no variable.
func (ts *TypeSystem) EmptySubstitution() *Substitution {
	return NewSubstitution(ts, nil, nil)
}

func (s *Substitution) IsEmpty() bool {
	return s.entries.Len() == 0
}

func (s *Substitution) Len() int {
	return s.entries.Len()
}

// IsRaw returns true for the erasure substitution of a generic class.
func (s *Substitution) IsRaw() bool {
	return s.rawBase != nil
}

// Lookup returns the replacement for the given variable, if it is in the domain.
func (s *Substitution) Lookup(variable *TypeVariable) (Type, bool) {
	entry, ok := s.entries.Get(variable.ID)
	if !ok {
		return nil, false
	}
	return entry.replacement, true
}

func (s *Substitution) contains(variable *TypeVariable) bool {
	return s.entries.Contains(variable.ID)
}

// Domain returns the mapped variables, in insertion order.
func (s *Substitution) Domain() []*TypeVariable {
	domain := make([]*TypeVariable, 0, s.entries.Len())
	s.entries.Foreach(func(_ TypeVariableID, entry substitutionEntry) {
		domain = append(domain, entry.variable)
	})
	return domain
}

func (s *Substitution) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	first := true
	s.entries.Foreach(func(_ TypeVariableID, entry substitutionEntry) {
		if !first {
			builder.WriteString(", ")
		}
		first = false
		builder.WriteString(entry.variable.Name)
		builder.WriteString(" := ")
		builder.WriteString(entry.replacement.String())
	})
	builder.WriteByte(']')
	return builder.String()
}

// Compose returns the substitution which has the effect of applying
// this substitution, and then the other one.
func (s *Substitution) Compose(other *Substitution) *Substitution {
	entries := orderedmap.New[orderedmap.OrderedMap[TypeVariableID, substitutionEntry]](s.Len() + other.Len())

	s.entries.Foreach(func(id TypeVariableID, entry substitutionEntry) {
		entries.Set(id, substitutionEntry{
			variable:    entry.variable,
			replacement: other.SubstituteType(entry.replacement),
		})
	})

	other.entries.Foreach(func(id TypeVariableID, entry substitutionEntry) {
		if !entries.Contains(id) {
			entries.Set(id, entry)
		}
	})

	return &Substitution{
		typeSystem: s.typeSystem,
		entries:    entries,
		rawBase:    s.rawBase,
	}
}

// SubstituteType applies the substitution to the given type.
//
// Variables in the domain are replaced. The upper bound of any other variable
// is substituted, guarding against variables whose bounds mention themselves.
func (s *Substitution) SubstituteType(t Type) Type {
	if s.IsEmpty() && s.rawBase == nil {
		return t
	}
	sub := substituter{subst: s}
	return sub.substituteType(t)
}

func (s *Substitution) SubstituteTypes(types []Type) []Type {
	if types == nil {
		return nil
	}
	sub := substituter{subst: s}
	result := make([]Type, len(types))
	for i, t := range types {
		result[i] = sub.substituteType(t)
	}
	return result
}

// substituter applies a substitution,
// tracking the variables whose bounds are being substituted.
type substituter struct {
	subst     *Substitution
	expanding bitset.BitSet
}

func (sub *substituter) substituteType(t Type) Type {
	ts := sub.subst.typeSystem

	switch t := t.(type) {
	case *PrimitiveType, *NullType, *RawClass:
		return t

	case *TypeVariable:
		return sub.substituteTypeVariable(t)

	case *ArrayType:
		element := sub.substituteType(t.Element)
		if element == t.Element {
			return t
		}
		if t.VariableArity {
			return ts.VariableArityArrayType(element)
		}
		return NewArrayType(element)

	case *WildcardType:
		upperBound := sub.substituteOptionalType(t.UpperBound)
		lowerBound := sub.substituteOptionalType(t.LowerBound)
		if upperBound == t.UpperBound && lowerBound == t.LowerBound {
			return t
		}
		return &WildcardType{
			UpperBound: upperBound,
			LowerBound: lowerBound,
		}

	case *IntersectionType:
		bounds, changed := sub.substituteTypeList(t.Bounds)
		if !changed {
			return t
		}
		return NewIntersectionType(bounds)

	case *LubType:
		elements, changed := sub.substituteTypeList(t.Elements)
		if !changed {
			return t
		}
		return ts.Lub(elements...)

	case *InstantiatedClassType:
		variables := t.Base.ClassAndEnclosingTypeVariables()
		actuals, changed := sub.substituteTypeList(t.AllTypeArguments())
		if !changed {
			return t
		}
		return ts.InstantiateWith(t.Base, NewSubstitution(ts, variables, actuals))

	case *ClassType:
		return sub.substituteClass(t)
	}

	panic(errors.NewUnreachableError())
}

func (sub *substituter) substituteOptionalType(t Type) Type {
	if t == nil {
		return nil
	}
	return sub.substituteType(t)
}

func (sub *substituter) substituteTypeList(types []Type) (result []Type, changed bool) {
	result = make([]Type, len(types))
	for i, t := range types {
		substituted := sub.substituteType(t)
		if substituted != t {
			changed = true
		}
		result[i] = substituted
	}
	return
}

func (sub *substituter) substituteTypeVariable(variable *TypeVariable) Type {
	if replacement, ok := sub.subst.Lookup(variable); ok {
		return replacement
	}

	id := uint(variable.ID)
	if sub.expanding.Test(id) {
		return variable
	}
	sub.expanding.Set(id)
	defer sub.expanding.Clear(id)

	upperBound := sub.substituteType(variable.UpperBound())
	if upperBound == variable.UpperBound() {
		return variable
	}
	return variable.WithUpperBound(upperBound)
}

// substituteClass wraps a generic class declaration into an instantiation,
// if any of its own or enclosing variables is in the domain.
func (sub *substituter) substituteClass(class *ClassType) Type {
	ts := sub.subst.typeSystem

	if class == sub.subst.rawBase {
		return ts.RawClass(class)
	}

	variables := class.ClassAndEnclosingTypeVariables()

	inDomain := false
	for _, variable := range variables {
		if sub.subst.contains(variable) {
			inDomain = true
			break
		}
	}
	if !inDomain {
		return class
	}

	actuals := make([]Type, len(variables))
	for i, variable := range variables {
		if replacement, ok := sub.subst.Lookup(variable); ok {
			actuals[i] = replacement
		} else {
			actuals[i] = variable
		}
	}

	return ts.InstantiateWith(class, NewSubstitution(ts, variables, actuals))
}

// SubstituteProcedure applies the substitution to the signature of a procedure.
//
// The procedure's own type parameters which are in the domain are removed,
// the bounds of the remaining ones are substituted.
// Static procedures keep their container.
func (s *Substitution) SubstituteProcedure(procedure *Procedure) *Procedure {
	if s.rawBase != nil {
		if class, ok := classOf(procedure.Container); ok && class == s.rawBase {
			return s.substituteRawProcedure(procedure)
		}
	}

	sub := substituter{subst: s}

	result := procedure.instance()

	if !procedure.IsStatic() {
		result.Container = sub.substituteType(procedure.Container)
	}

	result.TypeParameters = nil
	for _, parameter := range procedure.TypeParameters {
		if s.contains(parameter) {
			continue
		}
		result.TypeParameters = append(
			result.TypeParameters,
			sub.substituteTypeVariable(parameter).(*TypeVariable),
		)
	}

	result.ReturnType = sub.substituteType(procedure.ReturnType)
	result.FormalTypes, _ = sub.substituteTypeList(procedure.FormalTypes)
	if procedure.ThrowTypes != nil {
		result.ThrowTypes, _ = sub.substituteTypeList(procedure.ThrowTypes)
	}

	return result
}

// substituteRawProcedure returns the member of the raw class for a member of its base:
// the signature of the declaration, erased.
func (s *Substitution) substituteRawProcedure(procedure *Procedure) *Procedure {
	ts := s.typeSystem
	declaration := procedure.Declaration()

	if declaration.IsStatic() {
		return declaration
	}

	result := declaration.instance()
	result.Container = ts.RawClass(s.rawBase)
	result.ReturnType = ts.Erasure(declaration.ReturnType)
	result.FormalTypes = ts.erasures(declaration.FormalTypes)
	result.ThrowTypes = ts.erasures(declaration.ThrowTypes)

	sub := substituter{subst: s}
	result.TypeParameters = nil
	for _, parameter := range declaration.TypeParameters {
		result.TypeParameters = append(
			result.TypeParameters,
			sub.substituteTypeVariable(parameter).(*TypeVariable),
		)
	}

	if erasure := ts.ProcedureErasureSubstitution(result); erasure != nil {
		result = erasure.SubstituteProcedure(result)
	}

	return result
}

// SubstituteField applies the substitution to the type of a field.
func (s *Substitution) SubstituteField(field *Field) *Field {
	ts := s.typeSystem
	declaration := field.Declaration()

	if s.rawBase != nil {
		if class, ok := classOf(field.Container); ok && class == s.rawBase {
			if declaration.Flags.IsStatic() {
				return declaration
			}
			return &Field{
				Name:        declaration.Name,
				Container:   ts.RawClass(s.rawBase),
				Flags:       declaration.Flags,
				Type:        ts.Erasure(declaration.Type),
				declaration: declaration,
			}
		}
	}

	container := field.Container
	if !field.Flags.IsStatic() {
		container = s.SubstituteType(container)
	}

	return &Field{
		Name:        field.Name,
		Container:   container,
		Flags:       field.Flags,
		Type:        s.SubstituteType(field.Type),
		declaration: declaration,
	}
}
