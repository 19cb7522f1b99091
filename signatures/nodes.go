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

	yaml "github.com/goccy/go-yaml/ast"
	"golang.org/x/exp/slices"

	"github.com/onflow/jgen/ast"
)

type keyValues map[string]yaml.Node

func nodeAsKeyValues(node yaml.Node, keys ...string) (keyValues, error) {
	mappingNode, ok := node.(*yaml.MappingNode)
	if !ok {
		return nil, NewParsingError(
			fmt.Sprintf("expected a mapping, got %s", node.Type()),
			node,
		)
	}

	values := mappingNode.Values
	result := make(keyValues, len(values))

	for _, pair := range values {
		key, ok := pair.Key.(*yaml.StringNode)
		if !ok {
			return nil, NewParsingError(
				fmt.Sprintf("expected string-type key, got %s", pair.Key.Type()),
				pair.Value,
			)
		}

		if !slices.Contains(keys, key.Value) {
			return nil, NewParsingError(
				fmt.Sprintf("unknown key %#q, expected one of %v", key.Value, keys),
				key,
			)
		}

		result[key.Value] = pair.Value
	}

	return result, nil
}

func isNull(node yaml.Node) bool {
	if node == nil {
		return true
	}
	_, ok := node.(*yaml.NullNode)
	return ok
}

func nodeAsList(node yaml.Node) ([]yaml.Node, error) {
	if isNull(node) {
		return nil, nil
	}

	sequenceNode, ok := node.(*yaml.SequenceNode)
	if !ok {
		return nil, NewParsingError(
			fmt.Sprintf("expected a list, got %s", node.Type()),
			node,
		)
	}

	return sequenceNode.Values, nil
}

func nodeAsString(node yaml.Node) (string, error) {
	stringNode, ok := node.(*yaml.StringNode)
	if !ok {
		return "", NewParsingError(
			fmt.Sprintf("expected a string, got %s", node.Type()),
			node,
		)
	}
	return stringNode.Value, nil
}

func nodeAsBool(node yaml.Node) (bool, error) {
	boolNode, ok := node.(*yaml.BoolNode)
	if !ok {
		return false, NewParsingError(
			fmt.Sprintf("expected a boolean, got %s", node.Type()),
			node,
		)
	}
	return boolNode.Value, nil
}

// requiredString returns the string value for the given key,
// or an error if the mapping does not contain it.
func requiredString(values keyValues, key string, parent yaml.Node) (string, yaml.Node, error) {
	node, ok := values[key]
	if !ok || isNull(node) {
		return "", nil, missingKeyError(key, parent)
	}

	value, err := nodeAsString(node)
	if err != nil {
		return "", nil, err
	}

	return value, node, nil
}

// missingKeyError reports the missing key at the first key of the mapping.
func missingKeyError(key string, mapping yaml.Node) ParsingError {
	node := mapping
	if mappingNode, ok := mapping.(*yaml.MappingNode); ok && len(mappingNode.Values) > 0 {
		node = mappingNode.Values[0].Key
	}
	return NewParsingError(fmt.Sprintf("missing %#q", key), node)
}

// valueRange returns the range of a single-line scalar value.
func valueRange(node yaml.Node, value string) ast.Range {
	startPos := nodePosition(node)
	endPos := startPos
	if len(value) > 0 {
		endPos = startPos.Shifted(len(value) - 1)
	}
	return ast.NewRange(startPos, endPos)
}
