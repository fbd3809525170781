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

// The associative-commutative operators And, Or, Sum, Product, Min, Max and
// AllDiff each wrap a single child expression.  After construction that child
// is a matrix form (a MatrixExpr, or a matrix literal); before comprehension
// expansion it may also be a Comprehension.  This uniform shape lets
// comprehensions and variadic operators share rewrite rules.

// ACKind identifies an associative-commutative operator.
type ACKind int

const (
	// ACAnd is conjunction.
	ACAnd ACKind = iota
	// ACOr is disjunction.
	ACOr
	// ACSum is integer summation.
	ACSum
	// ACProduct is integer product.
	ACProduct
	// ACMin is integer minimum.
	ACMin
	// ACMax is integer maximum.
	ACMax
	// ACAllDiff is pairwise disequality.
	ACAllDiff
)

func (k ACKind) String() string {
	switch k {
	case ACAnd:
		return "and"
	case ACOr:
		return "or"
	case ACSum:
		return "sum"
	case ACProduct:
		return "product"
	case ACMin:
		return "min"
	case ACMax:
		return "max"
	case ACAllDiff:
		return "allDiff"
	}
	//
	panic("unknown AC operator")
}

// ACOp is an associative-commutative operator applied to a matrix of
// operands.
type ACOp struct {
	Metadata
	Kind ACKind
	// The operand matrix.  Invariant: a matrix form, or (prior to expansion)
	// a comprehension.
	Args Expression
}

// NewACOp wraps the given operand expression in an AC operator.  The operand
// is a matrix form after construction; prior to lowering it may also be a
// comprehension, a matrix-typed reference, or a slice which later rules
// dissolve into a matrix.
func NewACOp(kind ACKind, args Expression) *ACOp {
	return &ACOp{Metadata{}, kind, args}
}

// And builds a conjunction over the given expressions.
func And(terms ...Expression) *ACOp { return NewACOp(ACAnd, NewMatrixExpr(terms...)) }

// Or builds a disjunction over the given expressions.
func Or(terms ...Expression) *ACOp { return NewACOp(ACOr, NewMatrixExpr(terms...)) }

// Sum builds a summation over the given expressions.
func Sum(terms ...Expression) *ACOp { return NewACOp(ACSum, NewMatrixExpr(terms...)) }

// Product builds a product over the given expressions.
func Product(terms ...Expression) *ACOp { return NewACOp(ACProduct, NewMatrixExpr(terms...)) }

// Min builds a minimum over the given expressions.
func Min(terms ...Expression) *ACOp { return NewACOp(ACMin, NewMatrixExpr(terms...)) }

// Max builds a maximum over the given expressions.
func Max(terms ...Expression) *ACOp { return NewACOp(ACMax, NewMatrixExpr(terms...)) }

// AllDiff builds a pairwise-disequality constraint over the given
// expressions.
func AllDiff(terms ...Expression) *ACOp { return NewACOp(ACAllDiff, NewMatrixExpr(terms...)) }

// Meta implementation for the Expression interface.
func (e *ACOp) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *ACOp) Children() []Expression { return []Expression{e.Args} }

// WithChildren implementation for the Expression interface.
func (e *ACOp) WithChildren(children []Expression) Expression {
	arityCheck("ACOp", children, 1)
	return &ACOp{e.Metadata, e.Kind, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *ACOp) ReturnType() Type {
	switch e.Kind {
	case ACAnd, ACOr, ACAllDiff:
		return BoolType{}
	default:
		return IntType{}
	}
}

func (e *ACOp) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Args)
}

// Operands returns the operand expressions of this operator, unwrapping the
// matrix child.  Returns false if the child is not (yet) in matrix form, for
// example an unexpanded comprehension.
func (e *ACOp) Operands() ([]Expression, bool) {
	return MatrixElems(e.Args)
}

// Identity returns the identity element of this operator, used when the
// operand matrix is empty: true for and, false for or and 0 for sum.  AllDiff
// over nothing is vacuously true; min and max have no identity and return
// false.
func (e *ACOp) Identity() (Literal, bool) {
	switch e.Kind {
	case ACAnd, ACAllDiff:
		return BoolLit(true), true
	case ACOr:
		return BoolLit(false), true
	case ACSum:
		return IntLit(0), true
	case ACProduct:
		return IntLit(1), true
	default:
		return nil, false
	}
}
