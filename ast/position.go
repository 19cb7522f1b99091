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

package ast

import (
	"fmt"
)

var EmptyPosition = Position{}

var EmptyRange = Range{}

// Position defines a row/column within a source text.
//
// Line is 1-based, Column and Offset are 0-based.
type Position struct {
	// offset, starting at 0
	Offset int
	// line number, starting at 1
	Line int
	// column number, starting at 0 (byte count)
	Column int
}

func NewPosition(offset, line, column int) Position {
	return Position{
		Offset: offset,
		Line:   line,
		Column: column,
	}
}

func (position Position) String() string {
	return fmt.Sprintf("%d:%d", position.Line, position.Column)
}

// Shifted returns a new position on the same line, moved by the given number of bytes.
func (position Position) Shifted(length int) Position {
	return Position{
		Line:   position.Line,
		Column: position.Column + length,
		Offset: position.Offset + length,
	}
}

// Compare returns -1, 0 or 1, depending on whether the position
// is before, at, or after the other position.
func (position Position) Compare(other Position) int {
	switch {
	case position.Offset < other.Offset:
		return -1
	case position.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

type HasPosition interface {
	StartPosition() Position
	EndPosition() Position
}

// Range

type Range struct {
	StartPos Position
	EndPos   Position
}

var _ HasPosition = Range{}

func NewRange(startPos, endPos Position) Range {
	return Range{
		StartPos: startPos,
		EndPos:   endPos,
	}
}

func NewRangeFromPositioned(hasPosition HasPosition) Range {
	return Range{
		StartPos: hasPosition.StartPosition(),
		EndPos:   hasPosition.EndPosition(),
	}
}

func (r Range) StartPosition() Position {
	return r.StartPos
}

func (r Range) EndPosition() Position {
	return r.EndPos
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.StartPos, r.EndPos)
}

// AttachLeft moves the start of an empty range to the left,
// over all blanks which precede it on the same line.
//
// This is used to report a missing token directly after
// the last token that was present, instead of at the next one.
func (r Range) AttachLeft(code string) Range {
	start := r.StartPos
	if start.Offset > len(code) {
		return r
	}

	moved := start
	for moved.Offset > 0 {
		switch code[moved.Offset-1] {
		case ' ', '\t':
			moved.Offset--
			moved.Column--
			continue
		}
		break
	}

	end := r.EndPos
	if end.Offset <= start.Offset {
		end = moved
	}

	return Range{
		StartPos: moved,
		EndPos:   end,
	}
}
