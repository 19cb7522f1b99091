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

package signatures

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/sema"
)

// typeExpressionReader reads the type expressions of signature files,
// e.g. `Map<K, List<? extends V>>[]`, `String...`, or `T extends Comparable<T>`.
//
// Offsets are byte offsets into the input,
// positions are relative to the position of the input in the file.
type typeExpressionReader struct {
	input  string
	offset int
	start  ast.Position
	path   string
}

type typeExpressionContext struct {
	allowWildcard      bool
	allowVariableArity bool
}

// readTypeExpression reads a complete type expression.
// A trailing `...` is only accepted if allowVariableArity is set.
func readTypeExpression(
	input string,
	start ast.Position,
	path string,
	allowVariableArity bool,
) (
	sema.TypeExpression,
	error,
) {
	reader := &typeExpressionReader{
		input: input,
		start: start,
		path:  path,
	}

	reader.skipSpace()
	expression, err := reader.readType(typeExpressionContext{
		allowVariableArity: allowVariableArity,
	})
	if err != nil {
		return nil, err
	}

	err = reader.expectEnd()
	if err != nil {
		return nil, err
	}

	return expression, nil
}

// readTypeParameter reads a type parameter declaration,
// e.g. `T` or `T extends Number & Comparable<T>`.
func readTypeParameter(
	input string,
	start ast.Position,
	path string,
) (
	sema.TypeParameterSignature,
	error,
) {
	reader := &typeExpressionReader{
		input: input,
		start: start,
		path:  path,
	}

	reader.skipSpace()
	startOffset := reader.offset

	name, err := reader.readIdentifier()
	if err != nil {
		return sema.TypeParameterSignature{}, err
	}
	endOffset := reader.offset

	reader.skipSpace()

	var bounds []sema.TypeExpression
	if reader.consumeKeyword("extends") {
		for {
			reader.skipSpace()
			bound, err := reader.readType(typeExpressionContext{})
			if err != nil {
				return sema.TypeParameterSignature{}, err
			}
			bounds = append(bounds, bound)

			reader.skipSpace()
			if !reader.consume("&") {
				break
			}
		}
		endOffset = reader.offset
	}

	err = reader.expectEnd()
	if err != nil {
		return sema.TypeParameterSignature{}, err
	}

	return sema.TypeParameterSignature{
		Name:   name,
		Bounds: bounds,
		Range:  reader.rangeOf(startOffset, endOffset),
	}, nil
}

func (r *typeExpressionReader) readType(context typeExpressionContext) (sema.TypeExpression, error) {
	if r.peek() == '?' {
		if !context.allowWildcard {
			return nil, r.errorAt(r.offset, r.offset+1, "wildcard is only allowed as a type argument")
		}
		return r.readWildcard()
	}

	startOffset := r.offset

	var expression sema.TypeExpression
	expression, err := r.readNamed()
	if err != nil {
		return nil, err
	}

	for {
		suffixOffset := r.offset
		r.skipSpace()

		switch {
		case r.consume("[]"):
			expression = &sema.ArrayTypeExpression{
				Element: expression,
				Range:   r.rangeOf(startOffset, r.offset),
			}

		case r.consume("..."):
			if !context.allowVariableArity {
				return nil, r.errorAt(r.offset-3, r.offset, "variable arity is only allowed for formal parameters")
			}
			return &sema.ArrayTypeExpression{
				Element:       expression,
				VariableArity: true,
				Range:         r.rangeOf(startOffset, r.offset),
			}, nil

		default:
			r.offset = suffixOffset
			return expression, nil
		}
	}
}

func (r *typeExpressionReader) readNamed() (*sema.NamedTypeExpression, error) {
	startOffset := r.offset

	name, err := r.readQualifiedIdentifier()
	if err != nil {
		return nil, err
	}

	expression := &sema.NamedTypeExpression{
		Name: name,
	}

	endOffset := r.offset
	r.skipSpace()

	if r.consume("<") {
		arguments, err := r.readTypeArguments()
		if err != nil {
			return nil, err
		}
		expression.Arguments = arguments
		endOffset = r.offset
	} else {
		r.offset = endOffset
	}

	expression.Range = r.rangeOf(startOffset, endOffset)

	return expression, nil
}

func (r *typeExpressionReader) readTypeArguments() ([]sema.TypeExpression, error) {
	var arguments []sema.TypeExpression

	for {
		r.skipSpace()

		argument, err := r.readType(typeExpressionContext{
			allowWildcard: true,
		})
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, argument)

		r.skipSpace()

		switch {
		case r.consume(","):
			continue
		case r.consume(">"):
			return arguments, nil
		case r.atEnd():
			return nil, r.errorAt(r.offset, r.offset, "missing '>' at end of type arguments")
		default:
			return nil, r.errorAt(r.offset, r.offset+1, "expected ',' or '>', got %q", r.peek())
		}
	}
}

func (r *typeExpressionReader) readWildcard() (*sema.WildcardTypeExpression, error) {
	startOffset := r.offset
	// ?
	r.offset++

	endOffset := r.offset
	r.skipSpace()

	wildcard := &sema.WildcardTypeExpression{}

	switch {
	case r.consumeKeyword("extends"):
	case r.consumeKeyword("super"):
		wildcard.Super = true
	default:
		r.offset = endOffset
		wildcard.Range = r.rangeOf(startOffset, endOffset)
		return wildcard, nil
	}

	r.skipSpace()

	bound, err := r.readType(typeExpressionContext{})
	if err != nil {
		return nil, err
	}
	wildcard.Bound = bound
	wildcard.Range = r.rangeOf(startOffset, r.offset)

	return wildcard, nil
}

func (r *typeExpressionReader) readQualifiedIdentifier() (string, error) {
	var builder strings.Builder

	for {
		identifier, err := r.readIdentifier()
		if err != nil {
			return "", err
		}
		builder.WriteString(identifier)

		if !r.consume(".") {
			return builder.String(), nil
		}
		builder.WriteByte('.')
	}
}

func (r *typeExpressionReader) readIdentifier() (string, error) {
	startOffset := r.offset

	for !r.atEnd() {
		ch, size := utf8.DecodeRuneInString(r.input[r.offset:])
		if !isIdentifierPart(ch) || (r.offset == startOffset && unicode.IsDigit(ch)) {
			break
		}
		r.offset += size
	}

	if r.offset == startOffset {
		if r.atEnd() {
			return "", r.errorAt(r.offset, r.offset, "expected type name, got end of input")
		}
		return "", r.errorAt(r.offset, r.offset+1, "expected type name, got %q", r.peek())
	}

	return r.input[startOffset:r.offset], nil
}

func isIdentifierPart(ch rune) bool {
	return ch == '_' ||
		ch == '$' ||
		unicode.IsLetter(ch) ||
		unicode.IsDigit(ch)
}

func (r *typeExpressionReader) atEnd() bool {
	return r.offset >= len(r.input)
}

func (r *typeExpressionReader) peek() rune {
	if r.atEnd() {
		return utf8.RuneError
	}
	ch, _ := utf8.DecodeRuneInString(r.input[r.offset:])
	return ch
}

func (r *typeExpressionReader) skipSpace() {
	for !r.atEnd() {
		switch r.input[r.offset] {
		case ' ', '\t':
			r.offset++
			continue
		}
		return
	}
}

func (r *typeExpressionReader) consume(token string) bool {
	if !strings.HasPrefix(r.input[r.offset:], token) {
		return false
	}
	r.offset += len(token)
	return true
}

// consumeKeyword consumes the keyword only if it is not the prefix of a longer identifier.
func (r *typeExpressionReader) consumeKeyword(keyword string) bool {
	rest := r.input[r.offset:]
	if !strings.HasPrefix(rest, keyword) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(rest[len(keyword):])
	if len(rest) > len(keyword) && isIdentifierPart(next) {
		return false
	}
	r.offset += len(keyword)
	return true
}

func (r *typeExpressionReader) expectEnd() error {
	r.skipSpace()
	if r.atEnd() {
		return nil
	}
	return r.errorAt(
		r.offset,
		len(r.input),
		"unexpected %q after type",
		r.input[r.offset:],
	)
}

// rangeOf returns the range of the input between the given offsets.
// The end offset is exclusive, the end position of the range is inclusive.
func (r *typeExpressionReader) rangeOf(startOffset, endOffset int) ast.Range {
	startPos := r.start.Shifted(startOffset)
	endPos := startPos
	if endOffset > startOffset {
		endPos = r.start.Shifted(endOffset - 1)
	}
	return ast.NewRange(startPos, endPos)
}

func (r *typeExpressionReader) errorAt(startOffset, endOffset int, format string, args ...any) ParsingError {
	return ParsingError{
		Message: fmt.Sprintf(format, args...),
		Path:    r.path,
		Range:   r.rangeOf(startOffset, endOffset),
	}
}
