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

// Atom is an indivisible expression: either a literal value or a reference to
// a declaration.  Flat solver-facing constraints accept only atoms as their
// operands.
type Atom interface {
	fmt.Stringer
	Typeable
	//
	isAtom()
}

// Reference is a strong pointer to a declaration.  Every reference in a
// well-formed model points to a declaration reachable through the symbol table
// chain of its enclosing submodel.
type Reference struct {
	Decl *Declaration
}

func (a Reference) isAtom() {}

// Name returns the name carried by the referenced declaration.  After
// representation selection this may be a WithRepresentation wrapper.
func (a Reference) Name() Name { return a.Decl.Name() }

// ReturnType implementation for the Typeable interface.
func (a Reference) ReturnType() Type { return a.Decl.ReturnType() }

func (a Reference) String() string { return a.Decl.Name().String() }

// ============================================================================
// Atomic
// ============================================================================

// Atomic is the expression variant wrapping an atom.
type Atomic struct {
	Metadata
	Atom Atom
}

// NewAtomic wraps an atom as an expression.
func NewAtomic(atom Atom) *Atomic {
	return &Atomic{Metadata{}, atom}
}

// NewLiteralExpr wraps a literal as an expression.
func NewLiteralExpr(lit Literal) *Atomic {
	return &Atomic{Metadata{}, lit}
}

// NewReferenceExpr wraps a declaration reference as an expression.
func NewReferenceExpr(decl *Declaration) *Atomic {
	return &Atomic{Metadata{}, Reference{decl}}
}

// IntExpr returns an integer literal expression.
func IntExpr(val int64) *Atomic { return NewLiteralExpr(IntLit(val)) }

// BoolExpr returns a boolean literal expression.
func BoolExpr(val bool) *Atomic { return NewLiteralExpr(BoolLit(val)) }

// Meta implementation for the Expression interface.
func (e *Atomic) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.  Atoms are leaves.
func (e *Atomic) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *Atomic) WithChildren(children []Expression) Expression {
	arityCheck("Atomic", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *Atomic) ReturnType() Type { return e.Atom.ReturnType() }

func (e *Atomic) String() string { return e.Atom.String() }

// ============================================================================
// Pattern-matching helpers
// ============================================================================

// AsLiteral matches an expression against Atomic(Literal), returning the
// literal if it matches.
func AsLiteral(e Expression) (Literal, bool) {
	if atomic, ok := e.(*Atomic); ok {
		if lit, ok := atomic.Atom.(Literal); ok {
			return lit, true
		}
	}
	//
	return nil, false
}

// AsIntLiteral matches an expression against Atomic(Literal(Int)).
func AsIntLiteral(e Expression) (int64, bool) {
	if lit, ok := AsLiteral(e); ok {
		if n, ok := lit.(IntLit); ok {
			return int64(n), true
		}
	}
	//
	return 0, false
}

// AsBoolLiteral matches an expression against Atomic(Literal(Bool)).
func AsBoolLiteral(e Expression) (bool, bool) {
	if lit, ok := AsLiteral(e); ok {
		if b, ok := lit.(BoolLit); ok {
			return bool(b), true
		}
	}
	//
	return false, false
}

// AsReference matches an expression against Atomic(Reference), returning the
// referenced declaration if it matches.
func AsReference(e Expression) (*Declaration, bool) {
	if atomic, ok := e.(*Atomic); ok {
		if ref, ok := atomic.Atom.(Reference); ok {
			return ref.Decl, true
		}
	}
	//
	return nil, false
}

// IsAtomic checks whether an expression is an atom (literal or reference).
func IsAtomic(e Expression) bool {
	_, ok := e.(*Atomic)
	return ok
}
