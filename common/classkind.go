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
	"github.com/onflow/jgen/errors"
)

//go:generate go tool stringer -type=ClassKind -trimprefix=ClassKind

type ClassKind uint

const (
	ClassKindUnknown ClassKind = iota
	ClassKindClass
	ClassKindInterface
	ClassKindEnum
	ClassKindAnnotation
)

func ClassKindCount() int {
	return len(_ClassKind_index) - 1
}

var AllClassKinds = []ClassKind{
	ClassKindClass,
	ClassKindInterface,
	ClassKindEnum,
	ClassKindAnnotation,
}

// ClassKindNamed returns the class kind with the given keyword.
func ClassKindNamed(keyword string) (ClassKind, bool) {
	for _, kind := range AllClassKinds {
		if kind.Keyword() == keyword {
			return kind, true
		}
	}
	return ClassKindUnknown, false
}

func (k ClassKind) Name() string {
	switch k {
	case ClassKindClass:
		return "class"
	case ClassKindInterface:
		return "interface"
	case ClassKindEnum:
		return "enum"
	case ClassKindAnnotation:
		return "annotation type"
	}

	panic(errors.NewUnreachableError())
}

func (k ClassKind) Keyword() string {
	switch k {
	case ClassKindClass:
		return "class"
	case ClassKindInterface:
		return "interface"
	case ClassKindEnum:
		return "enum"
	case ClassKindAnnotation:
		return "@interface"
	}

	panic(errors.NewUnreachableError())
}

// IsInterface returns true for interfaces and annotation types,
// which are both implemented rather than extended.
func (k ClassKind) IsInterface() bool {
	switch k {
	case ClassKindInterface,
		ClassKindAnnotation:

		return true

	case ClassKindClass,
		ClassKindEnum:

		return false
	}

	panic(errors.NewUnreachableError())
}

func (k ClassKind) DeclarationKind() DeclarationKind {
	switch k {
	case ClassKindClass:
		return DeclarationKindClass
	case ClassKindInterface:
		return DeclarationKindInterface
	case ClassKindEnum:
		return DeclarationKindEnum
	case ClassKindAnnotation:
		return DeclarationKindAnnotation
	}

	panic(errors.NewUnreachableError())
}
