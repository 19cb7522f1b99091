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

package common

import (
	"strings"
)

// Flags is the set of modifiers of a class or member declaration.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagFinal
	FlagAbstract
	FlagVariableArity
)

const NoFlags Flags = 0

const accessFlags = FlagPublic | FlagProtected | FlagPrivate

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagAbstract, "abstract"},
	{FlagVariableArity, "varargs"},
}

// FlagNamed returns the flag with the given modifier keyword.
func FlagNamed(name string) (Flags, bool) {
	for _, entry := range flagNames {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return NoFlags, false
}

func (f Flags) Contains(other Flags) bool {
	return f&other == other
}

func (f Flags) Set(other Flags) Flags {
	return f | other
}

func (f Flags) Clear(other Flags) Flags {
	return f &^ other
}

func (f Flags) IsPublic() bool {
	return f.Contains(FlagPublic)
}

func (f Flags) IsProtected() bool {
	return f.Contains(FlagProtected)
}

func (f Flags) IsPrivate() bool {
	return f.Contains(FlagPrivate)
}

// IsPackagePrivate returns true if no access modifier is present.
func (f Flags) IsPackagePrivate() bool {
	return f&accessFlags == 0
}

func (f Flags) IsStatic() bool {
	return f.Contains(FlagStatic)
}

func (f Flags) IsFinal() bool {
	return f.Contains(FlagFinal)
}

func (f Flags) IsAbstract() bool {
	return f.Contains(FlagAbstract)
}

func (f Flags) IsVariableArity() bool {
	return f.Contains(FlagVariableArity)
}

// Access returns only the access modifiers of the flags.
func (f Flags) Access() Flags {
	return f & accessFlags
}

// accessLevel orders access from most restrictive (private) to least restrictive (public).
func (f Flags) accessLevel() int {
	switch {
	case f.IsPrivate():
		return 0
	case f.IsProtected():
		return 2
	case f.IsPublic():
		return 3
	default:
		return 1
	}
}

// MoreRestrictiveThan returns true if the access modifiers of f
// grant access to strictly fewer clients than the access modifiers of other.
func (f Flags) MoreRestrictiveThan(other Flags) bool {
	return f.accessLevel() < other.accessLevel()
}

func (f Flags) String() string {
	var names []string
	for _, entry := range flagNames {
		if f.Contains(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, " ")
}
