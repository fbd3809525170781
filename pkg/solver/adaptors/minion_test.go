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
package adaptors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatModel builds a small already-lowered model: x, y in 1..3 with
// sum([x,y]) <= 4 and alldiff.
func flatModel(t *testing.T) *ast.Model {
	t.Helper()
	//
	model := ast.NewModel(context.NewContext(context.Minion))
	//
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(1, 3))
	y := ast.NewDecisionVariable(ast.UserName("y"), ast.IntRangeDomain(1, 3))
	require.NoError(t, model.AddSymbol(x))
	require.NoError(t, model.AddSymbol(y))
	//
	xa, ya := ast.Reference{Decl: x}, ast.Reference{Decl: y}
	//
	model.AddConstraint(ast.NewFlatSumLeq([]ast.Atom{xa, ya}, ast.IntLit(4)))
	model.AddConstraint(ast.NewFlatAllDiff([]ast.Atom{xa, ya}))
	//
	return model
}

func TestMinion_WritesInputFormat(t *testing.T) {
	adaptor := NewMinion()
	//
	s, err := solver.New(adaptor)
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(flatModel(t))
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	require.NoError(t, loaded.WriteSolverInput(&buf))
	//
	input := buf.String()
	//
	assert.True(t, strings.HasPrefix(input, "MINION 3\n"))
	assert.Contains(t, input, "DISCRETE x {1..3}")
	assert.Contains(t, input, "DISCRETE y {1..3}")
	assert.Contains(t, input, "sumleq([x,y], 4)")
	assert.Contains(t, input, "alldiff([x,y])")
	assert.Contains(t, input, "**EOF**")
}

func TestMinion_RejectsResidualConstraints(t *testing.T) {
	model := ast.NewModel(context.NewContext(context.Minion))
	//
	x := ast.NewDecisionVariable(ast.UserName("x"), ast.IntRangeDomain(1, 3))
	require.NoError(t, model.AddSymbol(x))
	//
	// A non-flat constraint must be rejected at load time.
	model.AddConstraint(ast.Eq(ast.NewReferenceExpr(x), ast.IntExpr(2)))
	//
	s, err := solver.New(NewMinion())
	require.NoError(t, err)
	//
	_, err = s.LoadModel(model)
	assert.ErrorIs(t, err, solver.ErrModelFeatureNotSupported)
}

func TestNative_SolvesFlatModel(t *testing.T) {
	s, err := solver.New(NewNative())
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(flatModel(t))
	require.NoError(t, err)
	//
	count := 0
	//
	solved, err := loaded.Solve(func(solution solver.Solution) bool {
		count++
		return true
	})
	//
	require.NoError(t, err)
	//
	// pairs with x != y and x + y <= 4: (1,2), (1,3), (2,1), (3,1)
	assert.Equal(t, 4, count)
	assert.Equal(t, solver.Complete, solved.Stats().Status)
}

func TestNative_SolveMutHandsOutNotModifiable(t *testing.T) {
	s, err := solver.New(NewNative())
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(flatModel(t))
	require.NoError(t, err)
	//
	_, err = loaded.SolveMut(func(_ solver.Solution, modifier solver.ModelModifier) bool {
		assert.ErrorIs(t, modifier.AddConstraint(ast.BoolExpr(true)), solver.ErrModelFeatureNotSupported)
		return false
	})
	//
	require.NoError(t, err)
}
