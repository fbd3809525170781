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
package ast

import (
	"fmt"
	"strings"
)

// Expression is a node in the constraint tree.  Each variant carries a
// Metadata header, and exposes a uniform traversal interface: Children returns
// the immediate subexpressions in order, and WithChildren rebuilds the node
// with replacement subexpressions.  Rewrite rules are written against whole
// expressions; the engine supplies the walk through these two methods.
type Expression interface {
	fmt.Stringer
	Typeable
	// Meta returns the metadata header of this node.
	Meta() Metadata
	// Children returns the immediate subexpressions of this node, in
	// left-to-right order.  Leaves return nil.
	Children() []Expression
	// WithChildren rebuilds this node with the given subexpressions.  The
	// number of children must match what Children returned; anything else is
	// a bug and panics.
	WithChildren(children []Expression) Expression
}

// ============================================================================
// Root
// ============================================================================

// Root is the top-level container for a submodel's constraints.  The root
// expression of any submodel is exactly a Root, and rewriting preserves this.
type Root struct {
	Metadata
	// Top-level constraints, conjoined implicitly.
	Constraints []Expression
}

// NewRoot constructs a root node over the given top-level constraints.
func NewRoot(constraints ...Expression) *Root {
	return &Root{Metadata{}, constraints}
}

// Meta implementation for the Expression interface.
func (e *Root) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Root) Children() []Expression { return e.Constraints }

// WithChildren implementation for the Expression interface.
func (e *Root) WithChildren(children []Expression) Expression {
	return &Root{e.Metadata, children}
}

// ReturnType implementation for the Typeable interface.
func (e *Root) ReturnType() Type { return BoolType{} }

func (e *Root) String() string {
	var builder strings.Builder
	//
	for _, c := range e.Constraints {
		builder.WriteString("such that ")
		builder.WriteString(c.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// ============================================================================
// Helpers
// ============================================================================

// arityCheck panics unless the given child slice has the expected length.
// WithChildren implementations use this to enforce their arity.
func arityCheck(name string, children []Expression, n int) {
	if len(children) != n {
		panic(fmt.Sprintf("%s: expected %d children, got %d", name, n, len(children)))
	}
}

// exprsToStrings renders a slice of expressions.
func exprsToStrings(exprs []Expression) []string {
	strs := make([]string, len(exprs))
	for i, e := range exprs {
		strs[i] = e.String()
	}
	//
	return strs
}
