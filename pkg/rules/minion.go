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

// The Minion rule set lowers comparisons over sums, products and the other
// numeric operators into the flat constraint forms the Minion adaptor
// accepts.  Operands which are not yet atoms are named by auxiliary
// variables, with the defining equality appended as a side constraint.

func init() {
	rewrite.Register("Minion", 4400, rewrite.Rule{
		Name:        "alldiff_to_flat",
		Application: allDiffToFlat,
	})
	rewrite.Register("Minion", 4200, rewrite.Rule{
		Name:        "sum_cmp_to_flat",
		Application: sumCmpToFlat,
	})
	rewrite.Register("Minion", 4200, rewrite.Rule{
		Name:        "product_eq_to_flat",
		Application: productEqToFlat,
	})
	rewrite.Register("Minion", 4200, rewrite.Rule{
		Name:        "minus_eq_to_flat",
		Application: minusEqToFlat,
	})
	rewrite.Register("Minion", 4200, rewrite.Rule{
		Name:        "abs_eq_to_flat",
		Application: absEqToFlat,
	})
	rewrite.Register("Minion", 4150, rewrite.Rule{
		Name:        "weighted_sum_cmp_to_flat",
		Application: weightedSumCmpToFlat,
	})
	rewrite.Register("Minion", 4100, rewrite.Rule{
		Name:        "int_cmp_to_flat",
		Application: intCmpToFlat,
	})
	rewrite.Register("Minion", 4000, rewrite.Rule{
		Name:        "flatten_operand",
		Application: flattenOperand,
	})
}

// exprAtom projects an expression which is already an atom.
func exprAtom(e ast.Expression) (ast.Atom, bool) {
	if atomic, ok := e.(*ast.Atomic); ok {
		return atomic.Atom, true
	}
	//
	return nil, false
}

// exprAtoms projects a matrix operand whose elements are all atoms.
func exprAtoms(e ast.Expression) ([]ast.Atom, bool) {
	elems, ok := ast.MatrixElems(e)
	if !ok {
		return nil, false
	}
	//
	atoms := make([]ast.Atom, len(elems))
	//
	for i, el := range elems {
		atom, ok := exprAtom(el)
		if !ok {
			return nil, false
		}
		//
		atoms[i] = atom
	}
	//
	return atoms, true
}

// allDiffToFlat lowers allDiff over atoms.
func allDiffToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, ok := expr.(*ast.ACOp)
	if !ok || op.Kind != ast.ACAllDiff {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	atoms, ok := exprAtoms(op.Args)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewFlatAllDiff(atoms)), nil
}

// asSum matches the first operand of a comparison against a sum of atoms,
// returning the atoms and the other side.  Callers swap the operands to try
// the other orientation.
func asSum(left ast.Expression, right ast.Expression) ([]ast.Atom, ast.Expression, bool) {
	if sum, ok := left.(*ast.ACOp); ok && sum.Kind == ast.ACSum {
		if atoms, ok := exprAtoms(sum.Args); ok {
			return atoms, right, true
		}
	}
	//
	return nil, nil, false
}

// sumCmpToFlat lowers comparisons whose one side is a sum of atoms and whose
// other side is an atom: equality becomes a leq/geq pair, and one-sided
// comparisons become a single flat sum constraint.
func sumCmpToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	kind := cmp.Kind
	//
	terms, other, ok := asSum(cmp.Left, cmp.Right)
	if !ok {
		// Flip so the sum is on the left.
		if terms, other, ok = asSum(cmp.Right, cmp.Left); !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		kind = kind.Flip()
	}
	//
	total, ok := exprAtom(other)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch kind {
	case ast.CmpEq:
		return rewrite.Pure(ast.And(
			ast.NewFlatSumLeq(terms, total),
			ast.NewFlatSumGeq(terms, total),
		)), nil
	case ast.CmpLeq:
		return rewrite.Pure(ast.NewFlatSumLeq(terms, total)), nil
	case ast.CmpGeq:
		return rewrite.Pure(ast.NewFlatSumGeq(terms, total)), nil
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// productEqToFlat lowers x * y = z over atoms.
func productEqToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || cmp.Kind != ast.CmpEq {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	product, result := cmp.Left, cmp.Right
	//
	op, ok := product.(*ast.ACOp)
	if !ok || op.Kind != ast.ACProduct {
		op, ok = result.(*ast.ACOp)
		if !ok || op.Kind != ast.ACProduct {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		product, result = result, product
	}
	//
	atoms, ok := exprAtoms(op.Args)
	if !ok || len(atoms) != 2 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	res, ok := exprAtom(result)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewFlatProductEq(atoms[0], atoms[1], res)), nil
}

// minusEqToFlat lowers x - y = z over atoms.
func minusEqToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || cmp.Kind != ast.CmpEq {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	minus, ok := cmp.Left.(*ast.Minus)
	result := cmp.Right
	//
	if !ok {
		if minus, ok = cmp.Right.(*ast.Minus); !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		result = cmp.Left
	}
	//
	left, okl := exprAtom(minus.Left)
	right, okr := exprAtom(minus.Right)
	res, okres := exprAtom(result)
	//
	if !okl || !okr || !okres {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewFlatMinusEq(left, right, res)), nil
}

// absEqToFlat lowers |x| = y over atoms.
func absEqToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || cmp.Kind != ast.CmpEq {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	abs, ok := cmp.Left.(*ast.Abs)
	result := cmp.Right
	//
	if !ok {
		if abs, ok = cmp.Right.(*ast.Abs); !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		result = cmp.Left
	}
	//
	value, okv := exprAtom(abs.Arg)
	res, okr := exprAtom(result)
	//
	if !okv || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewFlatAbsEq(value, res)), nil
}

// weightedTerms matches a sum whose terms are atoms or products of an
// integer literal and an atom, yielding the weight/atom pairs.
func weightedTerms(e ast.Expression) ([]ast.IntLit, []ast.Atom, bool) {
	sum, ok := e.(*ast.ACOp)
	if !ok || sum.Kind != ast.ACSum {
		return nil, nil, false
	}
	//
	operands, ok := ast.MatrixElems(sum.Args)
	if !ok {
		return nil, nil, false
	}
	//
	weights := make([]ast.IntLit, len(operands))
	atoms := make([]ast.Atom, len(operands))
	weighted := false
	//
	for i, operand := range operands {
		if atom, ok := exprAtom(operand); ok {
			weights[i] = 1
			atoms[i] = atom
			//
			continue
		}
		//
		product, ok := operand.(*ast.ACOp)
		if !ok || product.Kind != ast.ACProduct {
			return nil, nil, false
		}
		//
		factors, ok := exprAtoms(product.Args)
		if !ok || len(factors) != 2 {
			return nil, nil, false
		}
		//
		weight, ok := factors[0].(ast.IntLit)
		if !ok {
			// the literal may also come second (constant folding appends
			// merged constants last); a product without one is not a
			// weighted term
			if weight, ok = factors[1].(ast.IntLit); !ok {
				return nil, nil, false
			}
			//
			factors[1] = factors[0]
		}
		//
		weights[i] = weight
		atoms[i] = factors[1]
		weighted = true
	}
	//
	// Plain sums belong to sum_cmp_to_flat.
	if !weighted {
		return nil, nil, false
	}
	//
	return weights, atoms, true
}

// weightedSumCmpToFlat lowers comparisons over sums of weighted atoms, e.g.
// 2*x + y - produced by negation normalisation - into flat weighted sums.
func weightedSumCmpToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	kind := cmp.Kind
	//
	weights, atoms, ok := weightedTerms(cmp.Left)
	other := cmp.Right
	//
	if !ok {
		if weights, atoms, ok = weightedTerms(cmp.Right); !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		other = cmp.Left
		kind = kind.Flip()
	}
	//
	total, ok := exprAtom(other)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch kind {
	case ast.CmpEq:
		return rewrite.Pure(ast.And(
			ast.NewFlatWeightedSumLeq(weights, atoms, total),
			ast.NewFlatWeightedSumGeq(weights, atoms, total),
		)), nil
	case ast.CmpLeq:
		return rewrite.Pure(ast.NewFlatWeightedSumLeq(weights, atoms, total)), nil
	case ast.CmpGeq:
		return rewrite.Pure(ast.NewFlatWeightedSumGeq(weights, atoms, total)), nil
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// intCmpToFlat lowers the remaining integer comparisons over atoms into flat
// inequalities: x <= y becomes ineq(x,y,0), x < y becomes ineq(x,y,-1),
// equality becomes an inequality pair, and disequality a two-element
// alldiff.
func intCmpToFlat(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if !ast.IsIntType(cmp.Left.ReturnType()) || !ast.IsIntType(cmp.Right.ReturnType()) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	left, okl := exprAtom(cmp.Left)
	right, okr := exprAtom(cmp.Right)
	//
	if !okl || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch cmp.Kind {
	case ast.CmpLeq:
		return rewrite.Pure(ast.NewFlatIneq(left, right, 0)), nil
	case ast.CmpLt:
		return rewrite.Pure(ast.NewFlatIneq(left, right, -1)), nil
	case ast.CmpGeq:
		return rewrite.Pure(ast.NewFlatIneq(right, left, 0)), nil
	case ast.CmpGt:
		return rewrite.Pure(ast.NewFlatIneq(right, left, -1)), nil
	case ast.CmpEq:
		return rewrite.Pure(ast.And(
			ast.NewFlatIneq(left, right, 0),
			ast.NewFlatIneq(right, left, 0),
		)), nil
	case ast.CmpNeq:
		return rewrite.Pure(ast.NewFlatAllDiff([]ast.Atom{left, right})), nil
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// flattenOperand names a nested integer operand with an auxiliary variable,
// appending the defining equality as a side constraint.  This runs at the
// lowest Minion priority, so the specific flat rules get first refusal; what
// remains is a comparison whose operand needs a name.  Operands of other
// operators are not named here.
func flattenOperand(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	// Left side first, then right: one aux per application.
	for _, side := range []int{0, 1} {
		operand := cmp.Left
		if side == 1 {
			operand = cmp.Right
		}
		//
		if !needsName(operand) {
			continue
		}
		//
		bounds, ok := ast.ExpressionBounds(operand)
		if !ok {
			continue
		}
		//
		updated := symbols.Clone()
		aux := updated.GensymDecisionVariable(ast.IntRangeDomain(bounds.Lo, bounds.Hi))
		ref := ast.NewReferenceExpr(aux)
		//
		var replaced ast.Expression
		if side == 0 {
			replaced = ast.NewCmp(cmp.Kind, ref, cmp.Right)
		} else {
			replaced = ast.NewCmp(cmp.Kind, cmp.Left, ref)
		}
		//
		defining := ast.Eq(ref, operand)
		//
		return rewrite.WithConstraints(replaced, []ast.Expression{defining}, updated), nil
	}
	//
	// With compound operands on both sides (e.g. a sum compared against a
	// sum), name the right side so the specific rules can finish the left.
	_, okl := exprAtom(cmp.Left)
	_, okr := exprAtom(cmp.Right)
	//
	if !okl && !okr && ast.IsIntType(cmp.Right.ReturnType()) {
		if bounds, ok := ast.ExpressionBounds(cmp.Right); ok {
			updated := symbols.Clone()
			aux := updated.GensymDecisionVariable(ast.IntRangeDomain(bounds.Lo, bounds.Hi))
			ref := ast.NewReferenceExpr(aux)
			//
			replaced := ast.NewCmp(cmp.Kind, cmp.Left, ref)
			defining := ast.Eq(ref, cmp.Right)
			//
			return rewrite.WithConstraints(replaced, []ast.Expression{defining}, updated), nil
		}
	}
	//
	return rewrite.Update{}, rewrite.ErrNotApplicable
}

// needsName checks for a nested integer operand: not an atom, and not a
// shape the specific flat rules consume in place.
func needsName(e ast.Expression) bool {
	if !ast.IsIntType(e.ReturnType()) {
		return false
	}
	//
	switch ex := e.(type) {
	case *ast.Atomic:
		return false
	case *ast.ACOp:
		// A sum or two-element product of atoms is consumed directly by the
		// cmp rules; anything deeper needs a name for its operands first,
		// which the walk reaches on its own.
		if atoms, ok := exprAtoms(ex.Args); ok {
			return !(ex.Kind == ast.ACSum || (ex.Kind == ast.ACProduct && len(atoms) == 2))
		}
		//
		return false
	case *ast.Minus:
		_, okl := exprAtom(ex.Left)
		_, okr := exprAtom(ex.Right)
		//
		return !(okl && okr)
	case *ast.Abs:
		_, ok := exprAtom(ex.Arg)
		return !ok
	}
	//
	return false
}
