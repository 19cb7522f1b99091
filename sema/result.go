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
	"fmt"

	"github.com/onflow/jgen/errors"
)

//go:generate go tool stringer -type=DependencyKind -trimprefix=DependencyKind

type DependencyKind uint8

const (
	DependencyKindUnknown DependencyKind = iota
	DependencyKindMembers
)

// DependencyGoal names a prerequisite which must be reached
// before a query can be answered.
type DependencyGoal struct {
	Class *ClassType
	Kind  DependencyKind
}

func (g DependencyGoal) String() string {
	return fmt.Sprintf("%s of %s", g.Kind, g.Class.QualifiedName)
}

// Result is the result of a query which may depend on
// a not yet reached prerequisite: either a value, or the goal to reach first.
type Result[T any] struct {
	value T
	goal  *DependencyGoal
}

func Ready[T any](value T) Result[T] {
	return Result[T]{
		value: value,
	}
}

func NeedsDependency[T any](goal DependencyGoal) Result[T] {
	return Result[T]{
		goal: &goal,
	}
}

func (r Result[T]) IsReady() bool {
	return r.goal == nil
}

// Value returns the value of a ready result.
func (r Result[T]) Value() T {
	if r.goal != nil {
		panic(errors.NewUnexpectedError("result is not ready, it needs %s", r.goal))
	}
	return r.value
}

// Goal returns the goal of a result which is not ready.
func (r Result[T]) Goal() DependencyGoal {
	if r.goal == nil {
		panic(errors.NewUnexpectedError("result is ready"))
	}
	return *r.goal
}

// missingDependencyError carries a dependency goal through the internal
// error returns of a query. It never leaves the package: queries
// convert it into a result which needs the goal.
type missingDependencyError struct {
	goal DependencyGoal
}

func (e *missingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: %s", e.goal)
}

func resultOf[T any](value T, err error) (Result[T], error) {
	if err != nil {
		if dependencyError, ok := err.(*missingDependencyError); ok {
			return NeedsDependency[T](dependencyError.goal), nil
		}
		return Result[T]{}, err
	}
	return Ready(value), nil
}
