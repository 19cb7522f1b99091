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
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	tracingResolvePrefix = "resolve."

	tracingMethodPostfix      = "method"
	tracingConstructorPostfix = "constructor"

	tracingInfer     = "infer"
	tracingCapture   = "capture"
	tracingClassLoad = "class.load"
)

// OnRecordTraceFunc is a function that records a trace.
type OnRecordTraceFunc func(
	operationName string,
	duration time.Duration,
	attrs []attribute.KeyValue,
)

func (ts *TypeSystem) tracingEnabled() bool {
	return ts.config.TracingEnabled && ts.config.OnRecordTrace != nil
}

func (ts *TypeSystem) reportResolveTrace(
	postfix string,
	container Type,
	name string,
	argumentCount int,
	duration time.Duration,
) {
	ts.config.OnRecordTrace(
		tracingResolvePrefix+postfix,
		duration,
		[]attribute.KeyValue{
			attribute.String("container", container.String()),
			attribute.String("name", name),
			attribute.Int("arguments", argumentCount),
		},
	)
}

func (ts *TypeSystem) reportInferTrace(procedure *Procedure, solved bool, duration time.Duration) {
	ts.config.OnRecordTrace(
		tracingInfer,
		duration,
		[]attribute.KeyValue{
			attribute.String("procedure", procedure.Signature()),
			attribute.Int("typeParameters", len(procedure.TypeParameters)),
			attribute.Bool("solved", solved),
		},
	)
}

func (ts *TypeSystem) reportCaptureTrace(t Type, duration time.Duration) {
	ts.config.OnRecordTrace(
		tracingCapture,
		duration,
		[]attribute.KeyValue{
			attribute.String("type", t.String()),
		},
	)
}

func (ts *TypeSystem) reportClassLoadTrace(qualifiedName string, duration time.Duration) {
	ts.config.OnRecordTrace(
		tracingClassLoad,
		duration,
		[]attribute.KeyValue{
			attribute.String("class", qualifiedName),
		},
	)
}
