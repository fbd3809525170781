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
// Neg
// ============================================================================

// Neg is integer negation.
type Neg struct {
	Metadata
	Arg Expression
}

// NewNeg negates the given integer expression.
func NewNeg(arg Expression) *Neg { return &Neg{Metadata{}, arg} }

// Meta implementation for the Expression interface.
func (e *Neg) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Neg) Children() []Expression { return []Expression{e.Arg} }

// WithChildren implementation for the Expression interface.
func (e *Neg) WithChildren(children []Expression) Expression {
	arityCheck("Neg", children, 1)
	return &Neg{e.Metadata, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *Neg) ReturnType() Type { return IntType{} }

func (e *Neg) String() string { return fmt.Sprintf("-(%s)", e.Arg) }

// ============================================================================
// Abs
// ============================================================================

// Abs is the absolute value of an integer expression.
type Abs struct {
	Metadata
	Arg Expression
}

// NewAbs takes the absolute value of the given integer expression.
func NewAbs(arg Expression) *Abs { return &Abs{Metadata{}, arg} }

// Meta implementation for the Expression interface.
func (e *Abs) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Abs) Children() []Expression { return []Expression{e.Arg} }

// WithChildren implementation for the Expression interface.
func (e *Abs) WithChildren(children []Expression) Expression {
	arityCheck("Abs", children, 1)
	return &Abs{e.Metadata, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *Abs) ReturnType() Type { return IntType{} }

func (e *Abs) String() string { return fmt.Sprintf("|%s|", e.Arg) }

// ============================================================================
// Minus
// ============================================================================

// Minus is binary integer subtraction.
type Minus struct {
	Metadata
	Left  Expression
	Right Expression
}

// NewMinus builds the subtraction left - right.
func NewMinus(left Expression, right Expression) *Minus {
	return &Minus{Metadata{}, left, right}
}

// Meta implementation for the Expression interface.
func (e *Minus) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Minus) Children() []Expression { return []Expression{e.Left, e.Right} }

// WithChildren implementation for the Expression interface.
func (e *Minus) WithChildren(children []Expression) Expression {
	arityCheck("Minus", children, 2)
	return &Minus{e.Metadata, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *Minus) ReturnType() Type { return IntType{} }

func (e *Minus) String() string { return fmt.Sprintf("(%s - %s)", e.Left, e.Right) }

// ============================================================================
// Division, modulo and exponentiation
// ============================================================================

// ArithKind identifies a partial arithmetic operator.
type ArithKind int

const (
	// ArithDiv is integer division (rounding towards negative infinity).
	ArithDiv ArithKind = iota
	// ArithMod is the modulo operation (sign follows the divisor).
	ArithMod
	// ArithPow is integer exponentiation.
	ArithPow
)

func (k ArithKind) String() string {
	switch k {
	case ArithDiv:
		return "/"
	case ArithMod:
		return "%"
	case ArithPow:
		return "**"
	}
	//
	panic("unknown arithmetic operator")
}

// BinArith is a partial binary arithmetic operator: division, modulo or
// exponentiation.  The unsafe form is what the parser produces; it may only
// appear inside a bubble's value position, or be rewritten into the safe form
// (guarded by a definedness side condition) by the bubbling rules.
type BinArith struct {
	Metadata
	Kind ArithKind
	// Safe marks that a definedness guard has been established for this
	// operation, so evaluation cannot hit an undefined case.
	Safe  bool
	Left  Expression
	Right Expression
}

// NewUnsafeArith builds an unguarded partial arithmetic operation.
func NewUnsafeArith(kind ArithKind, left Expression, right Expression) *BinArith {
	return &BinArith{Metadata{}, kind, false, left, right}
}

// NewSafeArith builds a guarded partial arithmetic operation.
func NewSafeArith(kind ArithKind, left Expression, right Expression) *BinArith {
	return &BinArith{Metadata{}, kind, true, left, right}
}

// Meta implementation for the Expression interface.
func (e *BinArith) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *BinArith) Children() []Expression { return []Expression{e.Left, e.Right} }

// WithChildren implementation for the Expression interface.
func (e *BinArith) WithChildren(children []Expression) Expression {
	arityCheck("BinArith", children, 2)
	return &BinArith{e.Metadata, e.Kind, e.Safe, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *BinArith) ReturnType() Type { return IntType{} }

func (e *BinArith) String() string {
	if e.Safe {
		return fmt.Sprintf("(%s %s %s)", e.Left, e.Kind, e.Right)
	}
	//
	return fmt.Sprintf("(%s %s' %s)", e.Left, e.Kind, e.Right)
}
