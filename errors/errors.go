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

package errors

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/xerrors"
)

// InternalError is an implementation error of the type engine:
// an unreachable code path, or a broken invariant of the type graph,
// like a raw class of a non-generic declaration or an intersection with a single bound.
//
// Internal errors are panicked.
type InternalError interface {
	error
	IsInternalError()
}

// UserError is an error caused by the analysed program,
// e.g. a call for which no applicable method exists.
type UserError interface {
	error
	IsUserError()
}

// SecondaryError is implemented by errors which have a more detailed, secondary message
type SecondaryError interface {
	SecondaryError() string
}

// ErrorNotes is implemented by errors which point at related declarations
type ErrorNotes interface {
	ErrorNotes() []ErrorNote
}

type ErrorNote interface {
	Message() string
}

// ParentError is an error which groups one or more child errors.
type ParentError interface {
	error
	ChildErrors() []error
}

// ExternalError wraps a failure of a collaborator of the type engine,
// e.g. the signature source.
type ExternalError struct {
	Recovered any
}

func NewExternalError(recovered any) ExternalError {
	return ExternalError{
		Recovered: recovered,
	}
}

func (e ExternalError) Error() string {
	return fmt.Sprint(e.Recovered)
}

func (e ExternalError) Unwrap() error {
	err, _ := e.Recovered.(error)
	return err
}

// UnreachableError is reported for code paths which must never be taken.
// It is never caused by the analysed program.
type UnreachableError struct {
	Stack []byte
}

var _ InternalError = UnreachableError{}

func NewUnreachableError() *UnreachableError {
	return &UnreachableError{Stack: debug.Stack()}
}

func (e UnreachableError) Error() string {
	return fmt.Sprintf("unreachable\n%s", e.Stack)
}

func (UnreachableError) IsInternalError() {}

// UnexpectedError is an internal error with a message or a cause.
type UnexpectedError struct {
	Err error
}

var _ InternalError = UnexpectedError{}

func NewUnexpectedError(message string, arg ...any) UnexpectedError {
	return UnexpectedError{
		Err: fmt.Errorf(message, arg...),
	}
}

func NewUnexpectedErrorFromCause(err error) UnexpectedError {
	return UnexpectedError{
		Err: err,
	}
}

func (e UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e UnexpectedError) Unwrap() error {
	return e.Err
}

func (UnexpectedError) IsInternalError() {}

// IsUserError returns true if the error, or an error it wraps, is a UserError.
func IsUserError(err error) bool {
	for err != nil {
		if _, ok := err.(UserError); ok {
			return true
		}
		wrapper, ok := err.(xerrors.Wrapper)
		if !ok {
			return false
		}
		err = wrapper.Unwrap()
	}
	return false
}
