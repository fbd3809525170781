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

// Qualifier is one step of a comprehension: either a generator introducing a
// quantified name over a domain, or a condition (guard) filtering the
// generated tuples.
type Qualifier interface {
	fmt.Stringer
	//
	isQualifier()
}

// Generator introduces a quantified variable ranging over a domain.
type Generator struct {
	Name Name
	// The generator domain.  May mention quantified names bound by earlier
	// generators in its bounds.
	Domain Domain
}

func (q Generator) isQualifier() {}

func (q Generator) String() string { return fmt.Sprintf("%s : %s", q.Name, q.Domain) }

// Condition filters the generated tuples with a boolean guard.
type Condition struct {
	Guard Expression
}

func (q Condition) isQualifier() {}

func (q Condition) String() string { return q.Guard.String() }

// Comprehension is a quantified expression [ e | q1, q2, ... ].  Its local
// scope contains the quantified declarations; the scope's parent is the
// symbol table of the enclosing submodel.
//
// A comprehension never survives rewriting: the expander replaces it with the
// finite matrix of its instantiated return expressions.  Until then it is
// opaque to the zipper walk: its internals belong to the comprehension scope
// and are simplified during expansion, not in place.
type Comprehension struct {
	Metadata
	ReturnExpression Expression
	Qualifiers       []Qualifier
	// The comprehension's local scope, containing one Quantified declaration
	// per generator.
	Symbols *SymbolTable
}

// NewComprehension builds a comprehension.  The symbol table must contain a
// Quantified declaration for every generator name.
func NewComprehension(ret Expression, qualifiers []Qualifier, symbols *SymbolTable) *Comprehension {
	return &Comprehension{Metadata{}, ret, qualifiers, symbols}
}

// Meta implementation for the Expression interface.
func (e *Comprehension) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.  Comprehensions are
// opaque to the generic walk.
func (e *Comprehension) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *Comprehension) WithChildren(children []Expression) Expression {
	arityCheck("Comprehension", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *Comprehension) ReturnType() Type {
	return MatrixType{e.ReturnExpression.ReturnType()}
}

// QuantifiedNames returns the names bound by the generators, in order.
func (e *Comprehension) QuantifiedNames() []Name {
	var names []Name
	//
	for _, q := range e.Qualifiers {
		if gen, ok := q.(Generator); ok {
			names = append(names, gen.Name)
		}
	}
	//
	return names
}

// Guards returns the condition qualifiers, in order.
func (e *Comprehension) Guards() []Expression {
	var guards []Expression
	//
	for _, q := range e.Qualifiers {
		if cond, ok := q.(Condition); ok {
			guards = append(guards, cond.Guard)
		}
	}
	//
	return guards
}

// IsQuantifiedGuard checks whether the given guard is free of decision
// variables, so that it can be decided during enumeration.  Quantified
// variables, lettings and givens are all fine; a guard referencing a
// decision variable must be absorbed into the return expression before
// expansion.
func (e *Comprehension) IsQuantifiedGuard(guard Expression) bool {
	for _, decl := range ReferencedDeclarations(guard) {
		if decl.IsDecisionVariable() {
			return false
		}
	}
	//
	return true
}

// AddGuard appends a condition qualifier.  Returns false (and leaves the
// comprehension unchanged) if the guard references non-quantified variables.
func (e *Comprehension) AddGuard(guard Expression) bool {
	if !e.IsQuantifiedGuard(guard) {
		return false
	}
	//
	e.Qualifiers = append(e.Qualifiers, Condition{guard})
	//
	return true
}

func (e *Comprehension) String() string {
	quals := make([]string, len(e.Qualifiers))
	for i, q := range e.Qualifiers {
		quals[i] = q.String()
	}
	//
	return fmt.Sprintf("[%s | %s]", e.ReturnExpression, strings.Join(quals, ", "))
}
