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

// CmpKind identifies a binary comparison operator.
type CmpKind int

const (
	// CmpEq is equality.
	CmpEq CmpKind = iota
	// CmpNeq is disequality.
	CmpNeq
	// CmpLeq is less-than-or-equal.
	CmpLeq
	// CmpGeq is greater-than-or-equal.
	CmpGeq
	// CmpLt is strict less-than.
	CmpLt
	// CmpGt is strict greater-than.
	CmpGt
)

func (k CmpKind) String() string {
	switch k {
	case CmpEq:
		return "="
	case CmpNeq:
		return "!="
	case CmpLeq:
		return "<="
	case CmpGeq:
		return ">="
	case CmpLt:
		return "<"
	case CmpGt:
		return ">"
	}
	//
	panic("unknown comparison operator")
}

// Flip returns the comparison with its operands swapped, e.g. <= becomes >=.
func (k CmpKind) Flip() CmpKind {
	switch k {
	case CmpLeq:
		return CmpGeq
	case CmpGeq:
		return CmpLeq
	case CmpLt:
		return CmpGt
	case CmpGt:
		return CmpLt
	default:
		return k
	}
}

// Cmp is a binary comparison between two expressions.  Equality and
// disequality apply to aggregates as well as scalars; the ordering comparisons
// are integer only.
type Cmp struct {
	Metadata
	Kind  CmpKind
	Left  Expression
	Right Expression
}

// NewCmp builds a comparison of the given kind.
func NewCmp(kind CmpKind, left Expression, right Expression) *Cmp {
	return &Cmp{Metadata{}, kind, left, right}
}

// Eq builds the equality left = right.
func Eq(left Expression, right Expression) *Cmp { return NewCmp(CmpEq, left, right) }

// Neq builds the disequality left != right.
func Neq(left Expression, right Expression) *Cmp { return NewCmp(CmpNeq, left, right) }

// Leq builds the comparison left <= right.
func Leq(left Expression, right Expression) *Cmp { return NewCmp(CmpLeq, left, right) }

// Geq builds the comparison left >= right.
func Geq(left Expression, right Expression) *Cmp { return NewCmp(CmpGeq, left, right) }

// Lt builds the comparison left < right.
func Lt(left Expression, right Expression) *Cmp { return NewCmp(CmpLt, left, right) }

// Gt builds the comparison left > right.
func Gt(left Expression, right Expression) *Cmp { return NewCmp(CmpGt, left, right) }

// Meta implementation for the Expression interface.
func (e *Cmp) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Cmp) Children() []Expression { return []Expression{e.Left, e.Right} }

// WithChildren implementation for the Expression interface.
func (e *Cmp) WithChildren(children []Expression) Expression {
	arityCheck("Cmp", children, 2)
	return &Cmp{e.Metadata, e.Kind, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *Cmp) ReturnType() Type { return BoolType{} }

func (e *Cmp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Kind, e.Right)
}
