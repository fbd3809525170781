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
	rewrite.Register("Base", 8800, rewrite.Rule{
		Name:        "inline_and_in_root",
		Application: inlineAndInRoot,
	})
	rewrite.Register("Base", 8800, rewrite.Rule{
		Name:        "remove_double_negation",
		Application: removeDoubleNegation,
	})
	rewrite.Register("Base", 8800, rewrite.Rule{
		Name:        "flatten_nested_ac",
		Application: flattenNestedAC,
	})
	rewrite.Register("Base", 8800, rewrite.Rule{
		Name:        "neg_to_minus",
		Application: negToMinus,
	})
}

// inlineAndInRoot splices a top-level conjunction into the root's constraint
// vector, keeping the top level flat.
func inlineAndInRoot(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	root, ok := expr.(*ast.Root)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	var constraints []ast.Expression
	//
	changed := false
	//
	for _, c := range root.Constraints {
		if and, ok := c.(*ast.ACOp); ok && and.Kind == ast.ACAnd {
			if operands, ok := and.Operands(); ok {
				constraints = append(constraints, operands...)
				changed = true
				//
				continue
			}
		}
		//
		constraints = append(constraints, c)
	}
	//
	if !changed {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewRoot(constraints...)), nil
}

// removeDoubleNegation rewrites !!p to p.
func removeDoubleNegation(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	outer, ok := expr.(*ast.Not)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	inner, ok := outer.Arg.(*ast.Not)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(inner.Arg), nil
}

// flattenNestedAC merges a directly-nested operator of the same kind into
// its parent: and(a, and(b, c)) becomes and(a, b, c), and likewise for or,
// sum and product.
func flattenNestedAC(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, ok := expr.(*ast.ACOp)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch op.Kind {
	case ast.ACAnd, ast.ACOr, ast.ACSum, ast.ACProduct:
	default:
		// min/max/allDiff do not nest associatively over matrices
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	operands, ok := op.Operands()
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	var merged []ast.Expression
	//
	changed := false
	//
	for _, operand := range operands {
		if inner, ok := operand.(*ast.ACOp); ok && inner.Kind == op.Kind {
			if innerOps, ok := inner.Operands(); ok {
				merged = append(merged, innerOps...)
				changed = true
				//
				continue
			}
		}
		//
		merged = append(merged, operand)
	}
	//
	if !changed {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewACOp(op.Kind, ast.NewMatrixExpr(merged...))), nil
}

// negToMinus rewrites a negation, wherever it occurs, into
// subtraction-friendly form: -x becomes -1 * x, which the weighted-sum
// flattening understands.
func negToMinus(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	neg, ok := expr.(*ast.Neg)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	// Only rewrite when the operand is not itself a literal; the evaluator
	// handles those.
	if _, ok := ast.AsIntLiteral(neg.Arg); ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.Product(ast.IntExpr(-1), neg.Arg)), nil
}
