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

// SignatureSource provides the raw signatures of classes
// which are referenced but not yet loaded.
type SignatureSource interface {
	// ClassSignature returns the signature of the class with the given qualified name,
	// or nil if no such class exists.
	ClassSignature(qualifiedName string) (*ClassSignature, error)
}

// PopulateMembersHandlerFunc is called before the members of a class are inspected
// for the first time. It returns false if the members can not be populated yet,
// in which case the inspecting query returns a dependency on the class's members.
type PopulateMembersHandlerFunc func(class *ClassType) bool

type Config struct {
	// SignatureSource provides the signatures of all non-builtin classes.
	SignatureSource SignatureSource
	// PopulateMembersHandler gates the population of class members.
	// If nil, members are populated on first use.
	PopulateMembersHandler PopulateMembersHandlerFunc
	// MorePermissiveInference determines if the expected return type of a call
	// constrains the type arguments inferred from the call's arguments.
	MorePermissiveInference bool
	// TracingEnabled determines if tracing is enabled.
	// Tracing reports resolution, inference, capture conversion and class loading.
	TracingEnabled bool
	// OnRecordTrace is triggered when a trace is recorded.
	OnRecordTrace OnRecordTraceFunc
}
