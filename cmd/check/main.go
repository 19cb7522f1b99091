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

// check loads signature files and checks the method declarations of all classes they declare:
//
//	check [-color=false] [-trace] <file.yaml>...
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onflow/jgen/pretty"
	"github.com/onflow/jgen/signatures"
)

var colorFlag = flag.Bool("color", true, "colorize error messages")
var traceFlag = flag.Bool("trace", false, "print traces of class loading and resolution")

func must(err error, useColor bool) {
	if err == nil {
		return
	}

	if loadErr, ok := err.(*signatures.LoadError); ok {
		printErr := pretty.NewErrorPrettyPrinter(os.Stderr, useColor).
			PrettyPrintError(loadErr.Err, loadErr.Name, loadErr.Code)
		if printErr != nil {
			panic(printErr)
		}
	} else {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(1)
}

func main() {
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "usage: check [-color=false] [-trace] <file.yaml>...")
		os.Exit(2)
	}

	source := signatures.NewSource()

	for _, path := range paths {
		code, err := os.ReadFile(path)
		must(err, *colorFlag)
		must(source.Load(path, code), *colorFlag)
	}

	checker := &checker{
		source:   source,
		output:   os.Stderr,
		useColor: *colorFlag,
	}
	if *traceFlag {
		checker.onRecordTrace = printTrace
	}

	failed, err := checker.check()
	must(err, *colorFlag)

	if failed > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "\n%d of %d classes failed to check\n", failed, len(source.ClassNames()))
		os.Exit(1)
	}
}

func printTrace(operationName string, duration time.Duration, attrs []attribute.KeyValue) {
	var sb strings.Builder
	sb.WriteString(operationName)
	sb.WriteString("\t")
	sb.WriteString(duration.String())
	for _, attr := range attrs {
		sb.WriteString("\t")
		sb.WriteString(string(attr.Key))
		sb.WriteString("=")
		sb.WriteString(attr.Value.Emit())
	}
	sb.WriteString("\n")

	_, _ = os.Stderr.WriteString(sb.String())
}
