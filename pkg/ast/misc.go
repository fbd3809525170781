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
// Metavar
// ============================================================================

// Metavar is a compile-time hole, standing for an expression to be
// substituted before rewriting begins.  A metavariable reaching the rewriter
// is a bug in whatever produced the model.
type Metavar struct {
	Metadata
	Name string
}

// NewMetavar builds a metavariable with the given name.
func NewMetavar(name string) *Metavar { return &Metavar{Metadata{}, name} }

// Meta implementation for the Expression interface.
func (e *Metavar) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Metavar) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *Metavar) WithChildren(children []Expression) Expression {
	arityCheck("Metavar", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *Metavar) ReturnType() Type { return UnknownType{} }

func (e *Metavar) String() string { return fmt.Sprintf("&%s", e.Name) }

// ============================================================================
// FromSolution
// ============================================================================

// FromSolution refers to the value a variable takes in an incumbent solution.
// It may only appear inside a dominance-relation definition.
type FromSolution struct {
	Metadata
	Name Name
}

// NewFromSolution refers to the incumbent value of the given variable.
func NewFromSolution(name Name) *FromSolution { return &FromSolution{Metadata{}, name} }

// Meta implementation for the Expression interface.
func (e *FromSolution) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FromSolution) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FromSolution) WithChildren(children []Expression) Expression {
	arityCheck("FromSolution", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FromSolution) ReturnType() Type { return UnknownType{} }

func (e *FromSolution) String() string { return fmt.Sprintf("fromSolution(%s)", e.Name) }
