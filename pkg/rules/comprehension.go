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
	"fmt"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
)

// expansionMode selects the comprehension expansion strategy for this run.
// The solve driver configures it before rewriting starts; rewriting itself is
// single-threaded, so a package variable suffices.
var expansionMode = context.NativeExpander

// SetExpansionMode selects native or solver-assisted comprehension
// expansion.
func SetExpansionMode(mode context.ExpanderKind) {
	expansionMode = mode
}

func init() {
	rewrite.Register("Base", 3000, rewrite.Rule{
		Name:        "absorb_decision_guards",
		Application: absorbDecisionGuards,
	})
	rewrite.Register("Base", 2500, rewrite.Rule{
		Name:        "expand_comprehension",
		Application: expandComprehension,
	})
}

// comprehensionUnder matches an AC operator applied to an unexpanded
// comprehension.
func comprehensionUnder(expr ast.Expression) (*ast.ACOp, *ast.Comprehension, bool) {
	op, ok := expr.(*ast.ACOp)
	if !ok {
		return nil, nil, false
	}
	//
	c, ok := op.Args.(*ast.Comprehension)
	if !ok {
		return nil, nil, false
	}
	//
	return op, c, true
}

// absorbDecisionGuards moves guards which reference decision variables into
// the return expression, where the solver can decide them: under a
// conjunction each element becomes guard -> body, under a disjunction
// guard /\ body.  Numeric aggregations over data-dependent guards have no
// such reading and are rejected.
func absorbDecisionGuards(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, c, ok := comprehensionUnder(expr)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	var retained []ast.Qualifier
	var absorbed []ast.Expression
	//
	for _, q := range c.Qualifiers {
		if cond, ok := q.(ast.Condition); ok && !c.IsQuantifiedGuard(cond.Guard) {
			absorbed = append(absorbed, cond.Guard)
			continue
		}
		//
		retained = append(retained, q)
	}
	//
	if len(absorbed) == 0 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	ret := c.ReturnExpression
	//
	for _, guard := range absorbed {
		switch op.Kind {
		case ast.ACAnd:
			ret = ast.NewImply(guard, ret)
		case ast.ACOr:
			ret = ast.And(guard, ret)
		default:
			return rewrite.Update{}, fmt.Errorf(
				"%s comprehension has a guard over decision variables, which has no %s reading",
				op.Kind, op.Kind)
		}
	}
	//
	expanded := ast.NewComprehension(ret, retained, c.Symbols)
	//
	return rewrite.Pure(ast.NewACOp(op.Kind, expanded)), nil
}

// expandComprehension unrolls a comprehension under an AC operator into the
// finite matrix of its instantiated return expressions.  All remaining
// guards reference quantified variables only (absorb_decision_guards runs at
// a higher priority); the expander enumerates generator domains natively, or
// through a backend when solver-assisted expansion is configured.
func expandComprehension(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, c, ok := comprehensionUnder(expr)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	for _, guard := range c.Guards() {
		if !c.IsQuantifiedGuard(guard) {
			// absorb_decision_guards has not run yet
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
	}
	//
	updated := symbols.Clone()
	//
	var expanded []ast.Expression
	var err error
	//
	switch expansionMode {
	case context.ViaSolverExpander:
		expanded, err = ExpandViaSolver(c, updated)
	default:
		expanded, err = ExpandNative(c, updated)
	}
	//
	if err != nil {
		return rewrite.Update{}, err
	}
	//
	return rewrite.WithSymbols(ast.NewACOp(op.Kind, ast.NewMatrixExpr(expanded...)), updated), nil
}
