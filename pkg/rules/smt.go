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

// The SMT rule set is deliberately thin: SMT solvers consume most of the
// intermediate representation directly, so only the constructs without an
// SMT-LIB reading are rewritten.

func init() {
	rewrite.Register("Smt", 4000, rewrite.Rule{
		Name:        "alldiff_to_pairwise",
		Application: allDiffToPairwise,
	})
}

// allDiffToPairwise expands allDiff into its pairwise disequalities, which
// SMT-LIB expresses directly.
func allDiffToPairwise(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, ok := expr.(*ast.ACOp)
	if !ok || op.Kind != ast.ACAllDiff {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	operands, ok := op.Operands()
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	var pairs []ast.Expression
	//
	for i := range operands {
		for j := i + 1; j < len(operands); j++ {
			pairs = append(pairs, ast.Neq(operands[i], operands[j]))
		}
	}
	//
	return rewrite.Pure(ast.And(pairs...)), nil
}
