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
	"strings"

	yaml "github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/errors"
	"github.com/onflow/jgen/pretty"
)

// LoadError is returned when a signature file can not be loaded.
// It renders the underlying error against the code of the file.
type LoadError struct {
	Name string
	Code []byte
	Err  error
}

var _ error = &LoadError{}

func (e *LoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("Loading signatures failed:\n")
	printErr := pretty.NewErrorPrettyPrinter(&sb, false).
		PrettyPrintError(e.Err, e.Name, e.Code)
	if printErr != nil {
		panic(printErr)
	}
	return sb.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParsingError is a malformed signature file.
type ParsingError struct {
	Message string
	Path    string
	ast.Range
}

var _ errors.UserError = ParsingError{}
var _ ast.HasPosition = ParsingError{}

func NewParsingError(message string, node yaml.Node) ParsingError {
	position := nodePosition(node)

	// The YAML parser does not store end positions,
	// so the range is empty
	return ParsingError{
		Message: message,
		Path:    node.GetPath(),
		Range:   ast.NewRange(position, position),
	}
}

func (ParsingError) IsUserError() {}

func (e ParsingError) Error() string {
	return e.Message
}

func (e ParsingError) SecondaryError() string {
	if e.Path == "" {
		return ""
	}
	return "at " + e.Path
}

// nodePosition returns the position of the first character of the node's value.
func nodePosition(node yaml.Node) ast.Position {
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return ast.EmptyPosition
	}

	yamlPosition := tok.Position

	// YAML columns are 1-based
	position := ast.Position{
		Offset: yamlPosition.Offset,
		Line:   yamlPosition.Line,
		Column: yamlPosition.Column - 1,
	}

	switch tok.Type {
	case token.SingleQuoteType, token.DoubleQuoteType:
		position = position.Shifted(1)
	}

	return position
}
