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

// This file defines the abstract-literal expression forms: matrices, tuples
// and records whose elements are arbitrary expressions.  Once every element
// has been evaluated to a literal, the corresponding Literal form (MatrixLit,
// TupleLit, RecordLit) takes over.

// ============================================================================
// MatrixExpr
// ============================================================================

// MatrixExpr is a matrix of expressions together with its index domain.  This
// is the uniform child shape of all associative-commutative operators, which
// lets comprehensions and variadic operators share rewrite rules.
type MatrixExpr struct {
	Metadata
	Elems []Expression
	// Domain the matrix is indexed by.
	Index Domain
}

// NewMatrixExpr builds a matrix expression over the given elements, indexed
// contiguously from 1.
func NewMatrixExpr(elems ...Expression) *MatrixExpr {
	return &MatrixExpr{Metadata{}, elems, IntRangeDomain(1, int64(len(elems)))}
}

// NewMatrixExprIndexed builds a matrix expression with an explicit index
// domain.
func NewMatrixExprIndexed(elems []Expression, index Domain) *MatrixExpr {
	return &MatrixExpr{Metadata{}, elems, index}
}

// Meta implementation for the Expression interface.
func (e *MatrixExpr) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *MatrixExpr) Children() []Expression { return e.Elems }

// WithChildren implementation for the Expression interface.
func (e *MatrixExpr) WithChildren(children []Expression) Expression {
	return &MatrixExpr{e.Metadata, children, e.Index}
}

// ReturnType implementation for the Typeable interface.
func (e *MatrixExpr) ReturnType() Type {
	if len(e.Elems) == 0 {
		return MatrixType{UnknownType{}}
	}
	//
	return MatrixType{e.Elems[0].ReturnType()}
}

func (e *MatrixExpr) String() string {
	return fmt.Sprintf("[%s]", strings.Join(exprsToStrings(e.Elems), ", "))
}

// ============================================================================
// TupleExpr
// ============================================================================

// TupleExpr is a tuple of expressions.
type TupleExpr struct {
	Metadata
	Elems []Expression
}

// NewTupleExpr builds a tuple expression over the given elements.
func NewTupleExpr(elems ...Expression) *TupleExpr {
	return &TupleExpr{Metadata{}, elems}
}

// Meta implementation for the Expression interface.
func (e *TupleExpr) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *TupleExpr) Children() []Expression { return e.Elems }

// WithChildren implementation for the Expression interface.
func (e *TupleExpr) WithChildren(children []Expression) Expression {
	return &TupleExpr{e.Metadata, children}
}

// ReturnType implementation for the Typeable interface.
func (e *TupleExpr) ReturnType() Type {
	elems := make([]Type, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.ReturnType()
	}
	//
	return TupleType{elems}
}

func (e *TupleExpr) String() string {
	return fmt.Sprintf("(%s)", strings.Join(exprsToStrings(e.Elems), ", "))
}

// ============================================================================
// RecordExpr
// ============================================================================

// RecordExprEntry is one named field of a record expression.
type RecordExprEntry struct {
	Name  Name
	Value Expression
}

// RecordExpr is a record of expressions, with fields in declaration order.
type RecordExpr struct {
	Metadata
	Fields []RecordExprEntry
}

// NewRecordExpr builds a record expression over the given fields.
func NewRecordExpr(fields ...RecordExprEntry) *RecordExpr {
	return &RecordExpr{Metadata{}, fields}
}

// Meta implementation for the Expression interface.
func (e *RecordExpr) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *RecordExpr) Children() []Expression {
	children := make([]Expression, len(e.Fields))
	for i, f := range e.Fields {
		children[i] = f.Value
	}
	//
	return children
}

// WithChildren implementation for the Expression interface.
func (e *RecordExpr) WithChildren(children []Expression) Expression {
	arityCheck("RecordExpr", children, len(e.Fields))
	//
	fields := make([]RecordExprEntry, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = RecordExprEntry{f.Name, children[i]}
	}
	//
	return &RecordExpr{e.Metadata, fields}
}

// ReturnType implementation for the Typeable interface.
func (e *RecordExpr) ReturnType() Type {
	fields := make([]Type, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.Value.ReturnType()
	}
	//
	return RecordType{fields}
}

func (e *RecordExpr) String() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = fmt.Sprintf("%s = %s", f.Name, f.Value)
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
}

// ============================================================================
// Helpers
// ============================================================================

// MatrixElems matches an expression against a matrix form, either a
// MatrixExpr or a wrapped MatrixLit, and returns its elements as expressions.
func MatrixElems(e Expression) ([]Expression, bool) {
	switch m := e.(type) {
	case *MatrixExpr:
		return m.Elems, true
	case *Atomic:
		if lit, ok := m.Atom.(MatrixLit); ok {
			elems := make([]Expression, len(lit.Elems))
			for i, l := range lit.Elems {
				elems[i] = NewLiteralExpr(l)
			}
			//
			return elems, true
		}
	}
	//
	return nil, false
}

// LiteralToExpr converts a literal into its expression form.  Abstract
// literals become abstract expressions so that rules can match on their
// structure.
func LiteralToExpr(lit Literal) Expression {
	switch l := lit.(type) {
	case MatrixLit:
		elems := make([]Expression, len(l.Elems))
		for i, el := range l.Elems {
			elems[i] = LiteralToExpr(el)
		}
		//
		return NewMatrixExprIndexed(elems, l.Index)
	case TupleLit:
		elems := make([]Expression, len(l.Elems))
		for i, el := range l.Elems {
			elems[i] = LiteralToExpr(el)
		}
		//
		return NewTupleExpr(elems...)
	case RecordLit:
		fields := make([]RecordExprEntry, len(l.Fields))
		for i, f := range l.Fields {
			fields[i] = RecordExprEntry{f.Name, LiteralToExpr(f.Value)}
		}
		//
		return NewRecordExpr(fields...)
	default:
		return NewLiteralExpr(lit)
	}
}

// ExprToLiteral attempts to convert an expression into a literal.  This
// succeeds only when every leaf is already a literal.
func ExprToLiteral(e Expression) (Literal, bool) {
	switch ex := e.(type) {
	case *Atomic:
		lit, ok := ex.Atom.(Literal)
		return lit, ok
	case *MatrixExpr:
		elems := make([]Literal, len(ex.Elems))
		for i, el := range ex.Elems {
			lit, ok := ExprToLiteral(el)
			if !ok {
				return nil, false
			}
			//
			elems[i] = lit
		}
		//
		return MatrixLit{elems, ex.Index}, true
	case *TupleExpr:
		elems := make([]Literal, len(ex.Elems))
		for i, el := range ex.Elems {
			lit, ok := ExprToLiteral(el)
			if !ok {
				return nil, false
			}
			//
			elems[i] = lit
		}
		//
		return TupleLit{elems}, true
	case *RecordExpr:
		fields := make([]RecordEntry, len(ex.Fields))
		for i, f := range ex.Fields {
			lit, ok := ExprToLiteral(f.Value)
			if !ok {
				return nil, false
			}
			//
			fields[i] = RecordEntry{f.Name, lit}
		}
		//
		return RecordLit{fields}, true
	}
	//
	return nil, false
}
