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
package rewrite

import (
	"errors"
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalMulRule folds a product of two integer literals, counting its
// applications.
func evalMulRule(counter *int) Rule {
	return Rule{
		Name: "eval_mul",
		Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
			op, ok := expr.(*ast.ACOp)
			if !ok || op.Kind != ast.ACProduct {
				return Update{}, ErrNotApplicable
			}
			//
			operands, ok := op.Operands()
			if !ok || len(operands) != 2 {
				return Update{}, ErrNotApplicable
			}
			//
			a, oka := ast.AsIntLiteral(operands[0])
			b, okb := ast.AsIntLiteral(operands[1])
			//
			if !oka || !okb {
				return Update{}, ErrNotApplicable
			}
			//
			*counter++
			//
			return Pure(ast.IntExpr(a * b)), nil
		},
	}
}

// expandSqrRule rewrites e ** 2 into e * e, counting its applications.  If
// applied before the base is fully evaluated, duplicate work is done on the
// two copies.
func expandSqrRule(counter *int) Rule {
	return Rule{
		Name: "expand_sqr",
		Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
			pow, ok := expr.(*ast.BinArith)
			if !ok || pow.Kind != ast.ArithPow {
				return Update{}, ErrNotApplicable
			}
			//
			if n, ok := ast.AsIntLiteral(pow.Right); !ok || n != 2 {
				return Update{}, ErrNotApplicable
			}
			//
			*counter++
			//
			return Pure(ast.Product(pow.Left, pow.Left)), nil
		},
	}
}

// sqrOfMul builds (1 * 2) ** 2 inside a fresh submodel.
func sqrOfMul() *ast.SubModel {
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.NewSafeArith(ast.ArithPow,
		ast.Product(ast.IntExpr(1), ast.IntExpr(2)), ast.IntExpr(2)))
	//
	return sm
}

func TestEngine_SingleGroupDuplicatesWork(t *testing.T) {
	counter := 0
	//
	engine := NewEngine([]Group{
		{Priority: 0, Rules: []Rule{evalMulRule(&counter), expandSqrRule(&counter)}},
	}, SelectFirst)
	//
	sm := sqrOfMul()
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	// The square is expanded first (it sits higher in the tree), so the
	// inner product is evaluated twice.
	assert.Equal(t, 4, counter)
	assert.Equal(t, "such that 4\n", sm.Root().String())
}

func TestEngine_EarlierGroupFiresFirst(t *testing.T) {
	counter := 0
	//
	engine := NewEngine([]Group{
		{Priority: 1, Rules: []Rule{evalMulRule(&counter)}},
		{Priority: 0, Rules: []Rule{expandSqrRule(&counter)}},
	}, SelectFirst)
	//
	sm := sqrOfMul()
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	// The inner product is evaluated before the square is expanded.
	assert.Equal(t, 3, counter)
	assert.Equal(t, "such that 4\n", sm.Root().String())
}

func TestEngine_RootShapeIsPreserved(t *testing.T) {
	counter := 0
	//
	engine := NewEngine([]Group{
		{Priority: 0, Rules: []Rule{evalMulRule(&counter), expandSqrRule(&counter)}},
	}, SelectFirst)
	//
	sm := sqrOfMul()
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	_, ok := sm.Root().(*ast.Root)
	assert.True(t, ok, "the submodel root must remain a Root")
}

func TestEngine_FixpointMeansNoRuleFires(t *testing.T) {
	counter := 0
	rules := []Rule{evalMulRule(&counter), expandSqrRule(&counter)}
	//
	engine := NewEngine([]Group{{Priority: 0, Rules: rules}}, SelectFirst)
	//
	sm := sqrOfMul()
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	for _, node := range ast.Descendants(sm.Root()) {
		for _, rule := range rules {
			_, err := rule.Apply(node, sm.Symbols())
			assert.ErrorIs(t, err, ErrNotApplicable, "rule %s still fires on %s", rule.Name, node)
		}
	}
}

// nameOperandRule replaces a product with a fresh auxiliary variable,
// posting the defining constraint at the root.
var nameOperandRule = Rule{
	Name: "name_operand",
	Application: func(expr ast.Expression, symbols *ast.SymbolTable) (Update, error) {
		op, ok := expr.(*ast.ACOp)
		if !ok || op.Kind != ast.ACProduct {
			return Update{}, ErrNotApplicable
		}
		//
		updated := symbols.Clone()
		aux := updated.GensymDecisionVariable(ast.IntRangeDomain(1, 9))
		ref := ast.NewReferenceExpr(aux)
		//
		return WithConstraints(ref, []ast.Expression{ast.Eq(ref, op)}, updated), nil
	},
}

func TestEngine_SideConstraintsAndSymbolsSplice(t *testing.T) {
	// The rule would fire again on the product inside the defining equality
	// it posts at the root, and so forever; a one-shot wrapper bounds the
	// run.
	fired := false
	//
	oneShot := Rule{
		Name: "name_operand_once",
		Application: func(expr ast.Expression, symbols *ast.SymbolTable) (Update, error) {
			if fired {
				return Update{}, ErrNotApplicable
			}
			//
			update, err := nameOperandRule.Apply(expr, symbols)
			if err == nil {
				fired = true
			}
			//
			return update, err
		},
	}
	//
	engine := NewEngine([]Group{{Priority: 0, Rules: []Rule{oneShot}}}, SelectFirst)
	//
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.Leq(ast.Product(ast.IntExpr(2), ast.IntExpr(3)), ast.IntExpr(9)))
	//
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	// The defining equality was appended to the root.
	require.Len(t, sm.Constraints(), 2)
	//
	// The auxiliary declaration persists in the symbol table.
	aux, ok := sm.Symbols().Lookup(ast.MachineName(1))
	require.True(t, ok, "gensym missing from symbol table")
	assert.True(t, aux.IsDecisionVariable())
}

func TestEngine_SelectPanicOnOverlap(t *testing.T) {
	toTrue := Rule{
		Name: "a_to_true",
		Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
			if _, ok := expr.(*ast.ACOp); ok {
				return Pure(ast.BoolExpr(true)), nil
			}
			//
			return Update{}, ErrNotApplicable
		},
	}
	//
	toFalse := Rule{
		Name: "b_to_false",
		Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
			if _, ok := expr.(*ast.ACOp); ok {
				return Pure(ast.BoolExpr(false)), nil
			}
			//
			return Update{}, ErrNotApplicable
		},
	}
	//
	engine := NewEngine([]Group{{Priority: 0, Rules: []Rule{toTrue, toFalse}}}, SelectPanic)
	//
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.And(ast.BoolExpr(true)))
	//
	assert.Panics(t, func() { _ = engine.RewriteSubModel(sm) })
}

func TestEngine_SelectStableIsDeterministic(t *testing.T) {
	rewriteTo := func(name string, result ast.Expression) Rule {
		return Rule{
			Name: name,
			Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
				if _, ok := expr.(*ast.ACOp); !ok {
					return Update{}, ErrNotApplicable
				}
				//
				return Pure(result), nil
			},
		}
	}
	//
	// Registration order deliberately disagrees with name order; the
	// lexicographically smaller rule must win.
	engine := NewEngine([]Group{{Priority: 0, Rules: []Rule{
		rewriteTo("z_rule", ast.BoolExpr(false)),
		rewriteTo("a_rule", ast.BoolExpr(true)),
	}}}, SelectStable)
	//
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.And(ast.BoolExpr(true)))
	//
	require.NoError(t, engine.RewriteSubModel(sm))
	assert.Equal(t, "such that true\n", sm.Root().String())
}

func TestEngine_RuleErrorsAreAnnotated(t *testing.T) {
	boom := errors.New("boom")
	//
	failing := Rule{
		Name: "failing_rule",
		Application: func(expr ast.Expression, _ *ast.SymbolTable) (Update, error) {
			if _, ok := expr.(*ast.ACOp); ok {
				return Update{}, boom
			}
			//
			return Update{}, ErrNotApplicable
		},
	}
	//
	engine := NewEngine([]Group{{Priority: 0, Rules: []Rule{failing}}}, SelectFirst)
	//
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.And(ast.BoolExpr(true)))
	//
	err := engine.RewriteSubModel(sm)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing_rule")
}

func TestEngine_TraceRecordsApplications(t *testing.T) {
	counter := 0
	//
	engine := NewEngine([]Group{
		{Priority: 0, Rules: []Rule{evalMulRule(&counter)}},
	}, SelectFirst)
	//
	var trace []TraceEntry
	engine.Trace = func(entry TraceEntry) { trace = append(trace, entry) }
	//
	sm := ast.NewSubModel()
	sm.AddConstraint(ast.Eq(ast.Product(ast.IntExpr(2), ast.IntExpr(3)), ast.IntExpr(6)))
	//
	require.NoError(t, engine.RewriteSubModel(sm))
	//
	require.Len(t, trace, 1)
	assert.Equal(t, "eval_mul", trace[0].Rule)
}

func TestResolveRuleSets_UnknownName(t *testing.T) {
	_, err := ResolveRuleSets("NoSuchRuleSet")
	assert.Error(t, err)
}

func TestRewriteNaive_AgreesWithMorph(t *testing.T) {
	counterA, counterB := 0, 0
	//
	groups := func(counter *int) []Group {
		return []Group{
			{Priority: 1, Rules: []Rule{evalMulRule(counter)}},
			{Priority: 0, Rules: []Rule{expandSqrRule(counter)}},
		}
	}
	//
	optimised := sqrOfMul()
	require.NoError(t, NewEngine(groups(&counterA), SelectFirst).RewriteSubModel(optimised))
	//
	naive := sqrOfMul()
	require.NoError(t, NewEngine(groups(&counterB), SelectFirst).RewriteNaive(naive))
	//
	// Same fixpoint, regardless of traversal bookkeeping.
	assert.Equal(t, optimised.Root().String(), naive.Root().String())
}
