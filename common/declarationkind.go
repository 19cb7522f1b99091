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

//go:generate go tool stringer -type=DeclarationKind -trimprefix=DeclarationKind

type DeclarationKind uint

const (
	DeclarationKindUnknown DeclarationKind = iota
	DeclarationKindClass
	DeclarationKindInterface
	DeclarationKindEnum
	DeclarationKindAnnotation
	DeclarationKindMethod
	DeclarationKindConstructor
	DeclarationKindField
	DeclarationKindEnumConstant
	DeclarationKindAnnotationElement
	DeclarationKindTypeParameter
)

func (k DeclarationKind) IsTypeDeclaration() bool {
	switch k {
	case DeclarationKindClass,
		DeclarationKindInterface,
		DeclarationKindEnum,
		DeclarationKindAnnotation,
		DeclarationKindTypeParameter:

		return true

	default:
		return false
	}
}

func (k DeclarationKind) Name() string {
	switch k {
	case DeclarationKindClass:
		return "class"
	case DeclarationKindInterface:
		return "interface"
	case DeclarationKindEnum:
		return "enum"
	case DeclarationKindAnnotation:
		return "annotation type"
	case DeclarationKindMethod:
		return "method"
	case DeclarationKindConstructor:
		return "constructor"
	case DeclarationKindField:
		return "field"
	case DeclarationKindEnumConstant:
		return "enum constant"
	case DeclarationKindAnnotationElement:
		return "annotation element"
	case DeclarationKindTypeParameter:
		return "type parameter"
	case DeclarationKindUnknown:
		return "unknown"
	}

	panic(errors.NewUnreachableError())
}
