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

package pretty

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/errors"
)

type testError struct {
	message   string
	secondary string
	notes     []errors.ErrorNote
	ast.Range
}

var _ ast.HasPosition = testError{}
var _ errors.SecondaryError = testError{}
var _ errors.ErrorNotes = testError{}

func (e testError) Error() string {
	return e.message
}

func (e testError) SecondaryError() string {
	return e.secondary
}

func (e testError) ErrorNotes() []errors.ErrorNote {
	return e.notes
}

type testNote string

func (n testNote) Message() string {
	return string(n)
}

type testParentError struct {
	children []error
}

func (e testParentError) Error() string {
	return "multiple errors"
}

func (e testParentError) ChildErrors() []error {
	return e.children
}

type plainError struct{}

func (plainError) Error() string {
	return "something failed"
}

func lineRange(line, startColumn, endColumn int) ast.Range {
	return ast.NewRange(
		ast.Position{Line: line, Column: startColumn},
		ast.Position{Line: line, Column: endColumn},
	)
}

func prettyPrint(t *testing.T, err error, code string) string {
	var builder strings.Builder
	printErr := NewErrorPrettyPrinter(&builder, false).
		PrettyPrintError(err, "test.yaml", []byte(code))
	require.NoError(t, printErr)
	return builder.String()
}

func TestPrettyPrintError(t *testing.T) {

	t.Parallel()

	const code = "classes:\n  - name: Strin\n"

	t.Run("excerpt", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message:   "cannot find type",
			secondary: "not found",
			Range:     lineRange(2, 10, 14),
		}

		assert.Equal(t,
			"error: cannot find type\n"+
				" --> test.yaml:2:10\n"+
				"  |\n"+
				"2 |   - name: Strin\n"+
				"  |           ^^^^^ not found\n",
			prettyPrint(t, err, code),
		)
	})

	t.Run("notes", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message: "cannot find type",
			notes: []errors.ErrorNote{
				testNote("did you mean `String`?"),
			},
			Range: lineRange(2, 10, 14),
		}

		assert.Equal(t,
			"error: cannot find type\n"+
				" --> test.yaml:2:10\n"+
				"  |\n"+
				"2 |   - name: Strin\n"+
				"  |           ^^^^^\n"+
				"  = note: did you mean `String`?\n",
			prettyPrint(t, err, code),
		)
	})

	t.Run("range beyond line", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message: "unexpected end",
			Range:   lineRange(1, 8, 8),
		}

		assert.Equal(t,
			"error: unexpected end\n"+
				" --> test.yaml:1:8\n"+
				"  |\n"+
				"1 | classes:\n"+
				"  |         ^\n",
			prettyPrint(t, err, code),
		)
	})

	t.Run("multiple lines", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message: "invalid class",
			Range: ast.NewRange(
				ast.Position{Line: 2, Column: 4},
				ast.Position{Line: 3, Column: 0},
			),
		}

		assert.Equal(t,
			"error: invalid class\n"+
				" --> test.yaml:2:4\n"+
				"  |\n"+
				"2 |   - name: Strin\n"+
				"  |     ^^^^^^^^^^^\n",
			prettyPrint(t, err, code),
		)
	})

	t.Run("line outside of code", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message:   "invalid class",
			secondary: "declared here",
			Range:     lineRange(7, 0, 3),
		}

		assert.Equal(t,
			"error: invalid class\n"+
				" --> test.yaml:7:0\n"+
				"  = declared here\n",
			prettyPrint(t, err, code),
		)
	})

	t.Run("wide characters", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message: "cannot find type",
			Range:   lineRange(1, 8, 12),
		}

		assert.Equal(t,
			"error: cannot find type\n"+
				" --> test.yaml:1:8\n"+
				"  |\n"+
				"1 | 名前: Strin\n"+
				"  |       ^^^^^\n",
			prettyPrint(t, err, "名前: Strin"),
		)
	})

	t.Run("tabs", func(t *testing.T) {
		t.Parallel()

		err := testError{
			message: "cannot find type",
			Range:   lineRange(1, 1, 5),
		}

		assert.Equal(t,
			"error: cannot find type\n"+
				" --> test.yaml:1:1\n"+
				"  |\n"+
				"1 | \tStrin\n"+
				"  | \t^^^^^\n",
			prettyPrint(t, err, "\tStrin"),
		)
	})

	t.Run("no position", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t,
			"error: something failed\n",
			prettyPrint(t, plainError{}, code),
		)
	})

	t.Run("parent error", func(t *testing.T) {
		t.Parallel()

		err := testParentError{
			children: []error{
				plainError{},
				testError{
					message: "cannot find type",
					Range:   lineRange(2, 10, 14),
				},
			},
		}

		assert.Equal(t,
			"error: something failed\n"+
				"\n"+
				"error: cannot find type\n"+
				" --> test.yaml:2:10\n"+
				"  |\n"+
				"2 |   - name: Strin\n"+
				"  |           ^^^^^\n",
			prettyPrint(t, err, code),
		)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestPrettyPrintErrorWriteFailure(t *testing.T) {

	t.Parallel()

	err := NewErrorPrettyPrinter(failingWriter{}, false).
		PrettyPrintError(plainError{}, "test.yaml", nil)
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestPrettyPrintErrorColors(t *testing.T) {

	t.Parallel()

	var builder strings.Builder
	err := NewErrorPrettyPrinter(&builder, true).
		PrettyPrintError(
			testError{
				message: "cannot find type",
				Range:   lineRange(1, 0, 4),
			},
			"test.yaml",
			[]byte("Strin"),
		)
	require.NoError(t, err)

	output := builder.String()
	assert.Contains(t, output, "cannot find type")
	assert.Contains(t, output, "Strin")
	assert.Contains(t, output, "^^^^^")
}
