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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quantifiedComprehension builds [ x != i | i : int(1..3), i != 2 ] in a
// fresh scope containing the decision variable x.
func quantifiedComprehension(t *testing.T) (*ast.SubModel, *ast.Comprehension) {
	t.Helper()
	//
	sm := ast.NewSubModel()
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(1, 3))
	require.NoError(t, sm.AddSymbol(x))
	//
	child := ast.NewChildSymbolTable(sm.Symbols())
	domain := ast.IntRangeDomain(1, 3)
	i := ast.NewQuantified(ast.UserName("i"), domain)
	require.NoError(t, child.Insert(i))
	//
	comprehension := ast.NewComprehension(
		ast.Neq(ast.NewReferenceExpr(x), ast.NewReferenceExpr(i)),
		[]ast.Qualifier{
			ast.Generator{Name: ast.UserName("i"), Domain: domain},
			ast.Condition{Guard: ast.Neq(ast.NewReferenceExpr(i), ast.IntExpr(2))},
		},
		child,
	)
	//
	return sm, comprehension
}

func TestExpandNative_EnumeratesAndFilters(t *testing.T) {
	sm, comprehension := quantifiedComprehension(t)
	//
	expanded, err := ExpandNative(comprehension, sm.Symbols())
	require.NoError(t, err)
	//
	require.Len(t, expanded, 2)
	assert.Equal(t, "(x != 1)", expanded[0].String())
	assert.Equal(t, "(x != 3)", expanded[1].String())
}

func TestExpandNative_BindingsAreReverted(t *testing.T) {
	sm, comprehension := quantifiedComprehension(t)
	//
	_, err := ExpandNative(comprehension, sm.Symbols())
	require.NoError(t, err)
	//
	decl, ok := comprehension.Symbols.LookupLocal(ast.UserName("i"))
	require.True(t, ok)
	//
	_, isQuantified := decl.Kind().(*ast.Quantified)
	assert.True(t, isQuantified, "quantified declaration must be restored after expansion")
}

func TestExpandViaSolver_AgreesWithNative(t *testing.T) {
	sm, comprehension := quantifiedComprehension(t)
	//
	native, err := ExpandNative(comprehension, sm.Symbols())
	require.NoError(t, err)
	//
	viaSolver, err := ExpandViaSolver(comprehension, sm.Symbols())
	require.NoError(t, err)
	//
	require.Equal(t, len(native), len(viaSolver))
	//
	for i := range native {
		assert.Equal(t, native[i].String(), viaSolver[i].String())
	}
}

func TestExpandNative_ChainedGeneratorBounds(t *testing.T) {
	// [ 10*i + j | i : int(1..3), j : int(1..i) ]: the second generator's
	// domain depends on the first.
	sm := ast.NewSubModel()
	child := ast.NewChildSymbolTable(sm.Symbols())
	//
	iDomain := ast.IntRangeDomain(1, 3)
	i := ast.NewQuantified(ast.UserName("i"), iDomain)
	require.NoError(t, child.Insert(i))
	//
	jDomain := ast.IntDomain{Ranges: []ast.Range{
		ast.BoundedRange{Lo: ast.ConstInt(1), Hi: ast.RefVal{Decl: i}},
	}}
	j := ast.NewQuantified(ast.UserName("j"), jDomain)
	require.NoError(t, child.Insert(j))
	//
	comprehension := ast.NewComprehension(
		ast.Sum(ast.Product(ast.IntExpr(10), ast.NewReferenceExpr(i)), ast.NewReferenceExpr(j)),
		[]ast.Qualifier{
			ast.Generator{Name: ast.UserName("i"), Domain: iDomain},
			ast.Generator{Name: ast.UserName("j"), Domain: jDomain},
		},
		child,
	)
	//
	expanded, err := ExpandNative(comprehension, sm.Symbols())
	require.NoError(t, err)
	//
	// 1+2+3 satisfying tuples, each fully evaluated.
	require.Len(t, expanded, 6)
	assert.Equal(t, "11", expanded[0].String())
	assert.Equal(t, "33", expanded[5].String())
}

func TestAbsorbDecisionGuards_UnderAnd(t *testing.T) {
	// [ x != i | i : int(1..2), x > 1 ] under and(): the x > 1 guard
	// references a decision variable and must move into the body as an
	// implication.
	sm := ast.NewSubModel()
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(1, 3))
	require.NoError(t, sm.AddSymbol(x))
	//
	child := ast.NewChildSymbolTable(sm.Symbols())
	domain := ast.IntRangeDomain(1, 2)
	i := ast.NewQuantified(ast.UserName("i"), domain)
	require.NoError(t, child.Insert(i))
	//
	guard := ast.Gt(ast.NewReferenceExpr(x), ast.IntExpr(1))
	//
	comprehension := ast.NewComprehension(
		ast.Neq(ast.NewReferenceExpr(x), ast.NewReferenceExpr(i)),
		[]ast.Qualifier{
			ast.Generator{Name: ast.UserName("i"), Domain: domain},
			ast.Condition{Guard: guard},
		},
		child,
	)
	//
	update, err := absorbDecisionGuards(ast.NewACOp(ast.ACAnd, comprehension), sm.Symbols())
	require.NoError(t, err)
	//
	op := update.NewSubtree.(*ast.ACOp)
	inner := op.Args.(*ast.Comprehension)
	//
	assert.Empty(t, inner.Guards(), "decision guard should have left the qualifiers")
	assert.Equal(t, "((x > 1) -> (x != i))", inner.ReturnExpression.String())
}

func TestAbsorbDecisionGuards_RejectsNumericAggregations(t *testing.T) {
	sm := ast.NewSubModel()
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(1, 3))
	require.NoError(t, sm.AddSymbol(x))
	//
	child := ast.NewChildSymbolTable(sm.Symbols())
	domain := ast.IntRangeDomain(1, 2)
	i := ast.NewQuantified(ast.UserName("i"), domain)
	require.NoError(t, child.Insert(i))
	//
	comprehension := ast.NewComprehension(
		ast.NewReferenceExpr(i),
		[]ast.Qualifier{
			ast.Generator{Name: ast.UserName("i"), Domain: domain},
			ast.Condition{Guard: ast.Gt(ast.NewReferenceExpr(x), ast.IntExpr(1))},
		},
		child,
	)
	//
	_, err := absorbDecisionGuards(ast.NewACOp(ast.ACSum, comprehension), sm.Symbols())
	assert.Error(t, err)
}

func TestExpandComprehension_EliminatesAllComprehensions(t *testing.T) {
	sm, comprehension := quantifiedComprehension(t)
	sm.AddConstraint(ast.NewACOp(ast.ACAnd, comprehension))
	//
	rewriteWithBase(t, sm)
	//
	assert.False(t, ast.ContainsComprehension(sm.Root()),
		"no comprehension survives rewriting")
}
