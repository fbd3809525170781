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

import "fmt"

// ============================================================================
// Not
// ============================================================================

// Not is boolean negation.
type Not struct {
	Metadata
	Arg Expression
}

// NewNot negates the given boolean expression.
func NewNot(arg Expression) *Not { return &Not{Metadata{}, arg} }

// Meta implementation for the Expression interface.
func (e *Not) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Not) Children() []Expression { return []Expression{e.Arg} }

// WithChildren implementation for the Expression interface.
func (e *Not) WithChildren(children []Expression) Expression {
	arityCheck("Not", children, 1)
	return &Not{e.Metadata, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *Not) ReturnType() Type { return BoolType{} }

func (e *Not) String() string { return fmt.Sprintf("!(%s)", e.Arg) }

// ============================================================================
// Imply
// ============================================================================

// Imply is boolean implication.
type Imply struct {
	Metadata
	Left  Expression
	Right Expression
}

// NewImply builds the implication left -> right.
func NewImply(left Expression, right Expression) *Imply {
	return &Imply{Metadata{}, left, right}
}

// Meta implementation for the Expression interface.
func (e *Imply) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Imply) Children() []Expression { return []Expression{e.Left, e.Right} }

// WithChildren implementation for the Expression interface.
func (e *Imply) WithChildren(children []Expression) Expression {
	arityCheck("Imply", children, 2)
	return &Imply{e.Metadata, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *Imply) ReturnType() Type { return BoolType{} }

func (e *Imply) String() string { return fmt.Sprintf("(%s -> %s)", e.Left, e.Right) }

// ============================================================================
// Iff
// ============================================================================

// Iff is boolean equivalence.
type Iff struct {
	Metadata
	Left  Expression
	Right Expression
}

// NewIff builds the equivalence left <-> right.
func NewIff(left Expression, right Expression) *Iff {
	return &Iff{Metadata{}, left, right}
}

// Meta implementation for the Expression interface.
func (e *Iff) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Iff) Children() []Expression { return []Expression{e.Left, e.Right} }

// WithChildren implementation for the Expression interface.
func (e *Iff) WithChildren(children []Expression) Expression {
	arityCheck("Iff", children, 2)
	return &Iff{e.Metadata, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *Iff) ReturnType() Type { return BoolType{} }

func (e *Iff) String() string { return fmt.Sprintf("(%s <-> %s)", e.Left, e.Right) }
