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

package main

import (
	"io"

	"github.com/onflow/jgen/errors"
	"github.com/onflow/jgen/pretty"
	"github.com/onflow/jgen/sema"
	"github.com/onflow/jgen/signatures"
)

type checker struct {
	source        *signatures.Source
	output        io.Writer
	useColor      bool
	onRecordTrace sema.OnRecordTraceFunc
}

// check checks all classes of the source and writes the errors of invalid classes.
// It returns the number of invalid classes.
// Errors which are not caused by the signatures, e.g. write errors, are returned.
func (c *checker) check() (failed int, err error) {
	ts := sema.NewTypeSystem(&sema.Config{
		SignatureSource: c.source,
		TracingEnabled:  c.onRecordTrace != nil,
		OnRecordTrace:   c.onRecordTrace,
	})

	printer := pretty.NewErrorPrettyPrinter(c.output, c.useColor)

	for _, name := range c.source.ClassNames() {
		checkErr := checkClass(ts, name)
		if checkErr == nil {
			continue
		}

		if !errors.IsUserError(checkErr) {
			return failed, checkErr
		}

		if failed > 0 {
			_, err = io.WriteString(c.output, "\n")
			if err != nil {
				return failed, err
			}
		}
		failed++

		fileName, code, _ := c.source.File(name)
		err = printer.PrettyPrintError(checkErr, fileName, code)
		if err != nil {
			return failed, err
		}
	}

	return failed, nil
}

func checkClass(ts *sema.TypeSystem, name string) error {
	class, err := ts.ClassNamed(name)
	if err != nil {
		return err
	}

	result, err := ts.CheckClass(class)
	if err != nil {
		return err
	}

	// Members are populated on demand, as no handler is configured
	if !result.IsReady() {
		return errors.NewUnexpectedError("unexpected dependency: %s", result.Goal())
	}

	return nil
}
