// Copyright Conjure-CP Contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package essence

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/fatih/color"
)

// parser is built once; participle parsers are safe for concurrent use.
var parser = participle.MustBuild[Program](
	participle.Lexer(essenceLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseString parses Essence source text into a typed model.
func ParseString(filename string, source string, ctx *context.Context) (*ast.Model, error) {
	program, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", solver.ErrParse, err)
	}
	//
	return buildModel(filename, program, ctx)
}

// ParseFile parses an Essence model file into a typed model.
func ParseFile(path string, ctx *context.Context) (*ast.Model, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", solver.ErrParse, err)
	}
	//
	ctx.SetFilename(path)
	//
	return ParseString(path, string(source), ctx)
}

// ReportParseError prints a caret-style parse error message to stderr.
func ReportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("%s", err)
		return
	}
	//
	pos := pe.Position()
	lines := strings.Split(src, "\n")
	//
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}
	//
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"
	//
	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Fprintln(os.Stderr, line)
	color.HiRed(caret)
	fmt.Fprintf(os.Stderr, "-> %s\n", pe.Message())
}
