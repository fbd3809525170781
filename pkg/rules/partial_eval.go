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
package rules

import (
	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
)

func init() {
	rewrite.Register("Base", 9000, rewrite.Rule{
		Name:        "partial_evaluator",
		Application: partialEvaluator,
	})
}

// partialEvaluator folds constants and collapses trivial identities.  It is
// registered at the highest priority so that it fires before any flattening.
//
// The evaluator must return ErrNotApplicable if and only if no simplification
// was found: anything else and the engine either loops on this rule or fails
// to reach the fixpoint.
func partialEvaluator(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	switch e := expr.(type) {
	case *ast.Atomic, *ast.Bubble, *ast.Comprehension:
		// Atoms are already minimal; bubbles wait for the bubbling rules;
		// comprehension internals are simplified during expansion.
		return rewrite.Update{}, rewrite.ErrNotApplicable
	case *ast.Root:
		return evalRoot(e)
	case *ast.ACOp:
		if update, err := evalACPartial(e); err == nil {
			return update, nil
		}
	case *ast.Abs:
		// |−x| = |x|
		if neg, ok := e.Arg.(*ast.Neg); ok {
			return rewrite.Pure(ast.NewAbs(neg.Arg)), nil
		}
	case *ast.Imply:
		if update, err := evalImply(e); err == nil {
			return update, nil
		}
	}
	//
	// Generic collapse: a non-atomic expression which evaluates to a
	// constant becomes that constant.
	if lit, ok := ast.EvalConstant(expr); ok {
		return rewrite.Pure(ast.NewLiteralExpr(lit)), nil
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// evalRoot simplifies the top-level constraint vector: known-true constraints
// are dropped, and a known-false constraint collapses the whole root.
func evalRoot(root *ast.Root) (rewrite.Update, error) {
	var kept []ast.Expression
	//
	changed := false
	//
	for _, c := range root.Constraints {
		if b, ok := ast.AsBoolLiteral(c); ok {
			changed = true
			//
			if !b {
				return rewrite.Pure(ast.NewRoot(ast.BoolExpr(false))), nil
			}
			//
			continue
		}
		//
		kept = append(kept, c)
	}
	//
	if !changed {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if len(kept) == 0 {
		kept = []ast.Expression{ast.BoolExpr(true)}
	}
	//
	return rewrite.Pure(ast.NewRoot(kept...)), nil
}

// evalACPartial folds literal operands of an AC operator without requiring
// the whole operator to be constant.
func evalACPartial(e *ast.ACOp) (rewrite.Update, error) {
	operands, ok := e.Operands()
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch e.Kind {
	case ast.ACSum:
		return foldIntOperands(e, operands, 0, func(acc int64, n int64) int64 { return acc + n })
	case ast.ACProduct:
		return foldProduct(e, operands)
	case ast.ACMin:
		return foldMinMax(e, operands, true)
	case ast.ACMax:
		return foldMinMax(e, operands, false)
	case ast.ACAnd:
		return foldBoolOperands(e, operands, false)
	case ast.ACOr:
		return foldBoolOperands(e, operands, true)
	case ast.ACAllDiff:
		return foldAllDiff(e, operands)
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// foldIntOperands accumulates literal children of a sum into one constant.
// The identity (zero) is dropped entirely, and a singleton operand collapses
// the operator.
func foldIntOperands(e *ast.ACOp, operands []ast.Expression, identity int64,
	fold func(int64, int64) int64) (rewrite.Update, error) {
	acc := identity
	nconsts := 0
	//
	var rest []ast.Expression
	//
	for _, op := range operands {
		if n, ok := ast.AsIntLiteral(op); ok {
			acc = fold(acc, n)
			nconsts++
		} else {
			rest = append(rest, op)
		}
	}
	//
	if acc != identity {
		rest = append(rest, ast.IntExpr(acc))
	}
	//
	// Applicable when constants were merged, or when an identity constant
	// was dropped.
	if nconsts <= 1 && !(nconsts == 1 && acc == identity && len(rest) > 0) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(collapseAC(e, rest)), nil
}

func foldProduct(e *ast.ACOp, operands []ast.Expression) (rewrite.Update, error) {
	acc := int64(1)
	nconsts := 0
	//
	var rest []ast.Expression
	//
	for _, op := range operands {
		if n, ok := ast.AsIntLiteral(op); ok {
			acc *= n
			nconsts++
		} else {
			rest = append(rest, op)
		}
	}
	//
	if nconsts == 0 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if acc == 0 {
		// 0 * es annihilates only when the other factors cannot bubble.
		safe := true
		for _, op := range rest {
			safe = safe && ast.IsSafe(op)
		}
		//
		if safe {
			return rewrite.Pure(ast.IntExpr(0)), nil
		}
		//
		rest = append(rest, ast.IntExpr(0))
		//
		if nconsts == 1 {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		return rewrite.Pure(collapseAC(e, rest)), nil
	}
	//
	if acc != 1 {
		rest = append(rest, ast.IntExpr(acc))
	}
	//
	if nconsts <= 1 && !(nconsts == 1 && acc == 1 && len(rest) > 0) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(collapseAC(e, rest)), nil
}

func foldMinMax(e *ast.ACOp, operands []ast.Expression, isMin bool) (rewrite.Update, error) {
	var acc *int64
	//
	nconsts := 0
	//
	var rest []ast.Expression
	//
	for _, op := range operands {
		if n, ok := ast.AsIntLiteral(op); ok {
			nconsts++
			//
			if acc == nil || (isMin && n < *acc) || (!isMin && n > *acc) {
				acc = &n
			}
		} else {
			rest = append(rest, op)
		}
	}
	//
	if nconsts <= 1 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if acc != nil {
		rest = append(rest, ast.IntExpr(*acc))
	}
	//
	return rewrite.Pure(collapseAC(e, rest)), nil
}

// foldBoolOperands drops identity literals from and/or and short-circuits on
// the absorbing one.
func foldBoolOperands(e *ast.ACOp, operands []ast.Expression, absorber bool) (rewrite.Update, error) {
	var rest []ast.Expression
	//
	changed := false
	//
	for _, op := range operands {
		if b, ok := ast.AsBoolLiteral(op); ok {
			changed = true
			//
			if b == absorber {
				return rewrite.Pure(ast.BoolExpr(absorber)), nil
			}
			//
			continue
		}
		//
		rest = append(rest, op)
	}
	//
	// or(x, !x) collapses to true immediately; and(x, !x) is not checked.
	if e.Kind == ast.ACOr && pairwiseTautology(rest) {
		return rewrite.Pure(ast.BoolExpr(true)), nil
	}
	//
	if !changed {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(collapseAC(e, rest)), nil
}

// pairwiseTautology checks for an operand and its negation appearing
// together.
func pairwiseTautology(operands []ast.Expression) bool {
	for _, a := range operands {
		not, ok := a.(*ast.Not)
		if !ok {
			continue
		}
		//
		for _, b := range operands {
			if ast.ExprEqual(not.Arg, b) {
				return true
			}
		}
	}
	//
	return false
}

// foldAllDiff collapses an alldiff containing two identical constant
// operands to false.  Fully-constant alldiffs fall to the generic collapse.
func foldAllDiff(e *ast.ACOp, operands []ast.Expression) (rewrite.Update, error) {
	var lits []ast.Literal
	//
	for _, op := range operands {
		if lit, ok := ast.AsLiteral(op); ok {
			lits = append(lits, lit)
		}
	}
	//
	for i := range lits {
		for j := i + 1; j < len(lits); j++ {
			if lits[i].EqualLiteral(lits[j]) {
				return rewrite.Pure(ast.BoolExpr(false)), nil
			}
		}
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

func evalImply(e *ast.Imply) (rewrite.Update, error) {
	if b, ok := ast.AsBoolLiteral(e.Left); ok {
		if b {
			return rewrite.Pure(e.Right), nil
		}
		//
		return rewrite.Pure(ast.BoolExpr(true)), nil
	}
	//
	// p -> p is trivially true, under atom-level equivalence.
	if ast.ExprEqual(e.Left, e.Right) {
		return rewrite.Pure(ast.BoolExpr(true)), nil
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// collapseAC rebuilds an AC operator over the remaining operands: an empty
// operand list becomes the operator identity, a singleton collapses to its
// sole operand (for and/or/sum/product/min/max), and anything else keeps the
// operator.
func collapseAC(e *ast.ACOp, operands []ast.Expression) ast.Expression {
	if len(operands) == 0 {
		if identity, ok := e.Identity(); ok {
			return ast.NewLiteralExpr(identity)
		}
	}
	//
	if len(operands) == 1 && e.Kind != ast.ACAllDiff {
		return operands[0]
	}
	//
	return ast.NewACOp(e.Kind, ast.NewMatrixExpr(operands...))
}
