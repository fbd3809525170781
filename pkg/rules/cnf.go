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

// The CNF rule set normalises boolean structure towards conjunctive normal
// form for SAT backends: implications and equivalences dissolve into
// disjunctions, and negation is pushed through the connectives.

func init() {
	rewrite.Register("CNF", 4000, rewrite.Rule{
		Name:        "imply_to_or",
		Application: implyToOr,
	})
	rewrite.Register("CNF", 4000, rewrite.Rule{
		Name:        "iff_to_implications",
		Application: iffToImplications,
	})
	rewrite.Register("CNF", 3900, rewrite.Rule{
		Name:        "push_not_inwards",
		Application: pushNotInwards,
	})
}

// implyToOr rewrites p -> q as !p \/ q.
func implyToOr(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	imply, ok := expr.(*ast.Imply)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.Or(ast.NewNot(imply.Left), imply.Right)), nil
}

// iffToImplications rewrites p <-> q as (p -> q) /\ (q -> p).
func iffToImplications(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	iff, ok := expr.(*ast.Iff)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.And(
		ast.NewImply(iff.Left, iff.Right),
		ast.NewImply(iff.Right, iff.Left),
	)), nil
}

// pushNotInwards applies De Morgan's laws: !and(es) becomes or(!es) and
// !or(es) becomes and(!es).
func pushNotInwards(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	not, ok := expr.(*ast.Not)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	op, ok := not.Arg.(*ast.ACOp)
	if !ok || (op.Kind != ast.ACAnd && op.Kind != ast.ACOr) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	operands, ok := op.Operands()
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	negated := make([]ast.Expression, len(operands))
	for i, operand := range operands {
		negated[i] = ast.NewNot(operand)
	}
	//
	dual := ast.ACOr
	if op.Kind == ast.ACOr {
		dual = ast.ACAnd
	}
	//
	return rewrite.Pure(ast.NewACOp(dual, ast.NewMatrixExpr(negated...))), nil
}
