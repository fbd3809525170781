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
	"testing"
)

// ===================================================================
// Arithmetic
// ===================================================================

func TestEval_Sum(t *testing.T) {
	CheckInt(t, Sum(IntExpr(1), IntExpr(2), IntExpr(3)), 6)
}

func TestEval_Sum_Empty(t *testing.T) {
	CheckInt(t, Sum(), 0)
}

func TestEval_Product(t *testing.T) {
	CheckInt(t, Product(IntExpr(2), IntExpr(3), IntExpr(4)), 24)
}

func TestEval_Product_Empty(t *testing.T) {
	CheckInt(t, Product(), 1)
}

func TestEval_MinMax(t *testing.T) {
	CheckInt(t, Min(IntExpr(3), IntExpr(1), IntExpr(2)), 1)
	CheckInt(t, Max(IntExpr(3), IntExpr(1), IntExpr(2)), 3)
}

func TestEval_Minus(t *testing.T) {
	CheckInt(t, NewMinus(IntExpr(7), IntExpr(3)), 4)
}

func TestEval_Neg_Abs(t *testing.T) {
	CheckInt(t, NewNeg(IntExpr(5)), -5)
	CheckInt(t, NewAbs(IntExpr(-5)), 5)
}

func TestEval_Div_FloorsTowardsNegativeInfinity(t *testing.T) {
	CheckInt(t, NewSafeArith(ArithDiv, IntExpr(7), IntExpr(2)), 3)
	CheckInt(t, NewSafeArith(ArithDiv, IntExpr(-7), IntExpr(2)), -4)
	CheckInt(t, NewSafeArith(ArithDiv, IntExpr(7), IntExpr(-2)), -4)
}

func TestEval_Div_ByZeroIsUndefined(t *testing.T) {
	CheckUndefined(t, NewSafeArith(ArithDiv, IntExpr(1), IntExpr(0)))
}

func TestEval_Mod_SignFollowsDivisor(t *testing.T) {
	CheckInt(t, NewSafeArith(ArithMod, IntExpr(7), IntExpr(3)), 1)
	CheckInt(t, NewSafeArith(ArithMod, IntExpr(-7), IntExpr(3)), 2)
	CheckInt(t, NewSafeArith(ArithMod, IntExpr(7), IntExpr(-3)), -2)
}

func TestEval_Pow(t *testing.T) {
	CheckInt(t, NewSafeArith(ArithPow, IntExpr(2), IntExpr(10)), 1024)
	CheckUndefined(t, NewSafeArith(ArithPow, IntExpr(2), IntExpr(-1)))
	CheckUndefined(t, NewSafeArith(ArithPow, IntExpr(0), IntExpr(0)))
}

// ===================================================================
// Booleans
// ===================================================================

func TestEval_And_Empty(t *testing.T) {
	CheckBool(t, And(), true)
}

func TestEval_Or_Empty(t *testing.T) {
	CheckBool(t, Or(), false)
}

func TestEval_And_ShortCircuit(t *testing.T) {
	// The unbound reference never needs evaluating.
	x := NewDecisionVariable(UserName("x"), BoolDomain{})
	CheckBool(t, And(BoolExpr(false), NewReferenceExpr(x)), false)
}

func TestEval_Imply(t *testing.T) {
	CheckBool(t, NewImply(BoolExpr(false), BoolExpr(false)), true)
	CheckBool(t, NewImply(BoolExpr(true), BoolExpr(false)), false)
}

func TestEval_AllDiff(t *testing.T) {
	CheckBool(t, AllDiff(IntExpr(1), IntExpr(2), IntExpr(3)), true)
	CheckBool(t, AllDiff(IntExpr(1), IntExpr(2), IntExpr(1)), false)
}

// ===================================================================
// Comparisons & structure
// ===================================================================

func TestEval_Cmp(t *testing.T) {
	CheckBool(t, Eq(IntExpr(2), IntExpr(2)), true)
	CheckBool(t, Neq(IntExpr(2), IntExpr(2)), false)
	CheckBool(t, Lt(IntExpr(1), IntExpr(2)), true)
	CheckBool(t, Geq(IntExpr(1), IntExpr(2)), false)
}

func TestEval_TupleEquality(t *testing.T) {
	a := NewTupleExpr(IntExpr(1), IntExpr(2))
	b := NewTupleExpr(IntExpr(1), IntExpr(2))
	//
	CheckBool(t, Eq(a, b), true)
}

func TestEval_Index(t *testing.T) {
	m := NewMatrixExpr(IntExpr(10), IntExpr(20), IntExpr(30))
	CheckInt(t, NewSafeIndex(m, IntExpr(2)), 20)
}

func TestEval_Index_OutOfRangeIsUndefined(t *testing.T) {
	m := NewMatrixExpr(IntExpr(10), IntExpr(20))
	CheckUndefined(t, NewSafeIndex(m, IntExpr(3)))
}

func TestEval_BoundReference(t *testing.T) {
	x := NewQuantified(UserName("x"), IntRangeDomain(1, 5))
	restore := x.BindTemporary(IntLit(4))
	defer restore()
	//
	CheckInt(t, Sum(NewReferenceExpr(x), IntExpr(1)), 5)
}

func TestEval_BindingRestores(t *testing.T) {
	x := NewQuantified(UserName("x"), IntRangeDomain(1, 5))
	//
	restore := x.BindTemporary(IntLit(4))
	restore()
	//
	CheckUndefined(t, NewReferenceExpr(x))
}

func TestEval_Bubble(t *testing.T) {
	CheckInt(t, NewBubble(IntExpr(3), BoolExpr(true)), 3)
	CheckUndefined(t, NewBubble(IntExpr(3), BoolExpr(false)))
}

// ===================================================================
// Flat forms
// ===================================================================

func TestEval_FlatSum(t *testing.T) {
	terms := []Atom{IntLit(1), IntLit(2)}
	//
	CheckBool(t, NewFlatSumLeq(terms, IntLit(4)), true)
	CheckBool(t, NewFlatSumGeq(terms, IntLit(4)), false)
}

func TestEval_FlatIneq(t *testing.T) {
	CheckBool(t, NewFlatIneq(IntLit(3), IntLit(2), IntLit(1)), true)
	CheckBool(t, NewFlatIneq(IntLit(3), IntLit(2), IntLit(0)), false)
}

func TestEval_FlatAllDiff(t *testing.T) {
	CheckBool(t, NewFlatAllDiff([]Atom{IntLit(1), IntLit(2)}), true)
	CheckBool(t, NewFlatAllDiff([]Atom{IntLit(1), IntLit(1)}), false)
}

// ===================================================================
// Helpers
// ===================================================================

// CheckInt evaluates an expression and checks for an expected integer.
func CheckInt(t *testing.T, e Expression, expected int64) {
	t.Helper()
	//
	lit, ok := EvalConstant(e)
	if !ok {
		t.Fatalf("%s did not evaluate", e)
	}
	//
	if n, ok := lit.(IntLit); !ok || int64(n) != expected {
		t.Errorf("%s evaluated to %s, expected %d", e, lit, expected)
	}
}

// CheckBool evaluates an expression and checks for an expected boolean.
func CheckBool(t *testing.T, e Expression, expected bool) {
	t.Helper()
	//
	lit, ok := EvalConstant(e)
	if !ok {
		t.Fatalf("%s did not evaluate", e)
	}
	//
	if b, ok := lit.(BoolLit); !ok || bool(b) != expected {
		t.Errorf("%s evaluated to %s, expected %t", e, lit, expected)
	}
}

// CheckUndefined checks that an expression has no constant value.
func CheckUndefined(t *testing.T, e Expression) {
	t.Helper()
	//
	if lit, ok := EvalConstant(e); ok {
		t.Errorf("%s evaluated to %s, expected undefined", e, lit)
	}
}
