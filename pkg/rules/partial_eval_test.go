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
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intVar declares an unbound integer decision variable for rule tests.
func intVar(name string, lo int64, hi int64) ast.Expression {
	return ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName(name), ast.IntRangeDomain(lo, hi)))
}

// evalOnce applies the partial evaluator to a single node.
func evalOnce(t *testing.T, e ast.Expression) ast.Expression {
	t.Helper()
	//
	update, err := partialEvaluator(e, ast.NewSymbolTable())
	require.NoError(t, err)
	//
	return update.NewSubtree
}

// evalFails asserts the partial evaluator has nothing to do.
func evalFails(t *testing.T, e ast.Expression) {
	t.Helper()
	//
	_, err := partialEvaluator(e, ast.NewSymbolTable())
	require.ErrorIs(t, err, rewrite.ErrNotApplicable)
}

func TestPartialEval_SumFoldsConstants(t *testing.T) {
	x := intVar("x", 0, 9)
	//
	result := evalOnce(t, ast.Sum(x, ast.IntExpr(2), ast.IntExpr(3)))
	assert.Equal(t, "sum([x, 5])", result.String())
}

func TestPartialEval_SumDropsZero(t *testing.T) {
	x := intVar("x", 0, 9)
	//
	result := evalOnce(t, ast.Sum(x, ast.IntExpr(0)))
	assert.Equal(t, "x", result.String())
}

func TestPartialEval_ProductDropsOne(t *testing.T) {
	x := intVar("x", 0, 9)
	//
	result := evalOnce(t, ast.Product(x, ast.IntExpr(1)))
	assert.Equal(t, "x", result.String())
}

func TestPartialEval_ProductAnnihilatesOnSafeZero(t *testing.T) {
	x := intVar("x", 0, 9)
	//
	result := evalOnce(t, ast.Product(x, ast.IntExpr(0)))
	assert.Equal(t, "0", result.String())
}

func TestPartialEval_ProductKeepsUnsafeZero(t *testing.T) {
	x := intVar("x", 0, 9)
	y := intVar("y", 0, 9)
	division := ast.NewUnsafeArith(ast.ArithDiv, x, y)
	//
	// 0 * (x /' y) may be undefined, so the zero cannot annihilate; with a
	// single constant and nothing else to fold, the evaluator leaves the
	// node alone.
	evalFails(t, ast.Product(division, ast.IntExpr(0)))
}

func TestPartialEval_EmptyOperandIdentities(t *testing.T) {
	assert.Equal(t, "true", evalOnce(t, ast.And()).String())
	assert.Equal(t, "false", evalOnce(t, ast.Or()).String())
	assert.Equal(t, "0", evalOnce(t, ast.Sum()).String())
}

func TestPartialEval_OrTautology(t *testing.T) {
	x := ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName("p"), ast.BoolDomain{}))
	//
	result := evalOnce(t, ast.Or(x, ast.NewNot(x)))
	assert.Equal(t, "true", result.String())
}

func TestPartialEval_AllDiffDuplicateConstants(t *testing.T) {
	x := intVar("x", 0, 9)
	//
	result := evalOnce(t, ast.AllDiff(x, ast.IntExpr(3), ast.IntExpr(3)))
	assert.Equal(t, "false", result.String())
}

func TestPartialEval_ImplySimplifications(t *testing.T) {
	p := ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName("p"), ast.BoolDomain{}))
	q := ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName("q"), ast.BoolDomain{}))
	//
	assert.Equal(t, "q", evalOnce(t, ast.NewImply(ast.BoolExpr(true), q)).String())
	assert.Equal(t, "true", evalOnce(t, ast.NewImply(ast.BoolExpr(false), q)).String())
	assert.Equal(t, "true", evalOnce(t, ast.NewImply(p, p)).String())
}

func TestPartialEval_AbsOfNegation(t *testing.T) {
	x := intVar("x", -9, 9)
	//
	result := evalOnce(t, ast.NewAbs(ast.NewNeg(x)))
	assert.Equal(t, "|x|", result.String())
}

func TestPartialEval_RootDropsTrues(t *testing.T) {
	x := ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName("p"), ast.BoolDomain{}))
	//
	result := evalOnce(t, ast.NewRoot(ast.BoolExpr(true), x))
	assert.Equal(t, "such that p\n", result.String())
}

func TestPartialEval_RootCollapsesOnFalse(t *testing.T) {
	x := ast.NewReferenceExpr(ast.NewDecisionVariable(ast.UserName("p"), ast.BoolDomain{}))
	//
	result := evalOnce(t, ast.NewRoot(x, ast.BoolExpr(false), x))
	assert.Equal(t, "such that false\n", result.String())
}

func TestPartialEval_AtomsAreUntouched(t *testing.T) {
	evalFails(t, intVar("x", 0, 9))
	evalFails(t, ast.IntExpr(3))
}

// ===================================================================
// Cascade & closure
// ===================================================================

// rewriteWithBase runs a submodel to fixpoint over the Base and Bubble rule
// sets.
func rewriteWithBase(t *testing.T, sm *ast.SubModel) {
	t.Helper()
	//
	groups, err := rewrite.ResolveRuleSets("Base", "Bubble")
	require.NoError(t, err)
	//
	engine := rewrite.NewEngine(groups, rewrite.SelectFirst)
	require.NoError(t, engine.RewriteSubModel(sm))
}

func TestPartialEval_Cascade(t *testing.T) {
	// (x + 0) * 1 = 5 + 0 reduces to x = 5.
	sm := ast.NewSubModel()
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(0, 10))
	require.NoError(t, sm.AddSymbol(x))
	//
	ref := ast.NewReferenceExpr(x)
	sm.AddConstraint(ast.Eq(
		ast.Product(ast.Sum(ref, ast.IntExpr(0)), ast.IntExpr(1)),
		ast.Sum(ast.IntExpr(5), ast.IntExpr(0)),
	))
	//
	rewriteWithBase(t, sm)
	//
	assert.Equal(t, "such that (x = 5)\n", sm.Root().String())
}

func TestPartialEval_IsAClosureOperator(t *testing.T) {
	// Once the engine reaches fixpoint, a second application finds nothing:
	// evaluating twice equals evaluating once.
	sm := ast.NewSubModel()
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(0, 10))
	require.NoError(t, sm.AddSymbol(x))
	//
	ref := ast.NewReferenceExpr(x)
	sm.AddConstraint(ast.Leq(ast.Sum(ref, ast.IntExpr(1), ast.IntExpr(2)), ast.IntExpr(9)))
	//
	rewriteWithBase(t, sm)
	//
	for _, node := range ast.Descendants(sm.Root()) {
		_, err := partialEvaluator(node, sm.Symbols())
		assert.ErrorIs(t, err, rewrite.ErrNotApplicable, "evaluator still fires on %s", node)
	}
}
