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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora/v4"
	"github.com/rivo/uniseg"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/errors"
)

const errorPrefix = "error"

const errorColor = aurora.RedFg | aurora.BrightFg | aurora.BoldFm

const gutterColor = aurora.BlueFg | aurora.BrightFg | aurora.BoldFm

// ErrorPrettyPrinter writes errors, including an excerpt of the code
// they refer to, if the error has a position.
type ErrorPrettyPrinter struct {
	writer   io.Writer
	useColor bool
}

func NewErrorPrettyPrinter(writer io.Writer, useColor bool) ErrorPrettyPrinter {
	return ErrorPrettyPrinter{
		writer:   writer,
		useColor: useColor,
	}
}

type writeError struct {
	err error
}

func (p ErrorPrettyPrinter) writeString(str string) {
	_, err := io.WriteString(p.writer, str)
	if err != nil {
		panic(writeError{err: err})
	}
}

func (p ErrorPrettyPrinter) colorize(str string, color aurora.Color) string {
	if !p.useColor {
		return str
	}
	return aurora.Colorize(str, color).String()
}

// PrettyPrintError writes the error.
// The children of a parent error are written instead of the parent error itself.
// Positions refer to the given code, which is shown under the given name.
func (p ErrorPrettyPrinter) PrettyPrintError(err error, name string, code []byte) (printErr error) {
	defer func() {
		if r := recover(); r != nil {
			writeErr, ok := r.(writeError)
			if !ok {
				panic(r)
			}
			printErr = writeErr.err
		}
	}()

	var lines []string
	if len(code) > 0 {
		lines = strings.Split(string(code), "\n")
	}

	var count int

	var printError func(err error)
	printError = func(err error) {
		if parentError, ok := err.(errors.ParentError); ok {
			for _, childErr := range parentError.ChildErrors() {
				printError(childErr)
			}
			return
		}

		if count > 0 {
			p.writeString("\n")
		}
		p.prettyPrintError(err, name, lines)
		count++
	}

	printError(err)

	return nil
}

func (p ErrorPrettyPrinter) prettyPrintError(err error, name string, lines []string) {
	p.writeString(p.colorize(errorPrefix+": ", errorColor))
	p.writeString(p.colorize(err.Error(), aurora.BoldFm))
	p.writeString("\n")

	var secondaryMessage string
	if secondaryError, ok := err.(errors.SecondaryError); ok {
		secondaryMessage = secondaryError.SecondaryError()
	}

	gutter := " "

	positioned, ok := err.(ast.HasPosition)
	if ok {
		startPos := positioned.StartPosition()
		endPos := positioned.EndPosition()

		lineNumber := strconv.Itoa(startPos.Line)
		gutter = strings.Repeat(" ", len(lineNumber))

		p.writeString(gutter)
		p.writeString(p.colorize("--> ", gutterColor))
		p.writeString(fmt.Sprintf("%s:%d:%d\n", name, startPos.Line, startPos.Column))

		if startPos.Line >= 1 && startPos.Line <= len(lines) {
			line := strings.TrimRight(lines[startPos.Line-1], "\r")

			p.writeString(gutter)
			p.writeString(p.colorize(" |", gutterColor))
			p.writeString("\n")

			p.writeString(p.colorize(lineNumber+" | ", gutterColor))
			p.writeString(line)
			p.writeString("\n")

			p.writeString(gutter)
			p.writeString(p.colorize(" | ", gutterColor))
			p.writeCaret(line, startPos, endPos)
			if secondaryMessage != "" {
				p.writeString(" ")
				p.writeString(p.colorize(secondaryMessage, errorColor))
			}
			p.writeString("\n")

			secondaryMessage = ""
		}
	}

	if secondaryMessage != "" {
		p.writeString(gutter)
		p.writeString(" = ")
		p.writeString(secondaryMessage)
		p.writeString("\n")
	}

	if errorNotes, ok := err.(errors.ErrorNotes); ok {
		for _, note := range errorNotes.ErrorNotes() {
			p.writeString(gutter)
			p.writeString(" = ")
			p.writeString(p.colorize("note", aurora.BoldFm))
			p.writeString(": ")
			p.writeString(note.Message())
			p.writeString("\n")
		}
	}
}

// writeCaret underlines the range on the line.
// The caret is indented by the display width of the preceding text,
// so wide and combined characters are accounted for.
func (p ErrorPrettyPrinter) writeCaret(line string, startPos, endPos ast.Position) {
	startColumn := clamp(startPos.Column, 0, len(line))

	endColumn := len(line)
	if endPos.Line == startPos.Line && endPos.Column >= startPos.Column {
		endColumn = clamp(endPos.Column+1, startColumn, len(line))
	}

	var indent strings.Builder
	graphemes := uniseg.NewGraphemes(line[:startColumn])
	for graphemes.Next() {
		cluster := graphemes.Str()
		if cluster == "\t" {
			indent.WriteString(cluster)
			continue
		}
		indent.WriteString(strings.Repeat(" ", uniseg.StringWidth(cluster)))
	}
	p.writeString(indent.String())

	width := max(uniseg.StringWidth(line[startColumn:endColumn]), 1)
	p.writeString(p.colorize(strings.Repeat("^", width), errorColor))
}

func clamp(value, low, high int) int {
	return min(max(value, low), high)
}
