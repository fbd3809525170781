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
package solver_test

import (
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/essence"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
	_ "github.com/conjure-cp/conjure-go/pkg/rules"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/conjure-cp/conjure-go/pkg/solver/adaptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Solve runs the whole pipeline on Essence source with the native backend,
// returning the reconstructed solutions.
func Solve(t *testing.T, source string) []solver.Solution {
	t.Helper()
	//
	ctx := context.NewContext(context.Minion)
	//
	model, err := essence.ParseString("test.essence", source, ctx)
	require.NoError(t, err)
	//
	groups, err := rewrite.ResolveRuleSets(rewrite.DefaultRuleSets(context.Minion)...)
	require.NoError(t, err)
	//
	engine := rewrite.NewEngine(groups, rewrite.SelectFirst)
	engine.Context = ctx
	require.NoError(t, engine.RewriteModel(model))
	//
	s, err := solver.New(adaptors.NewNative())
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(model)
	require.NoError(t, err)
	//
	var solutions []solver.Solution
	//
	solved, err := loaded.Solve(func(solution solver.Solution) bool {
		reconstructed, err := solver.ReconstructSolution(model.Symbols(), solution)
		require.NoError(t, err)
		//
		solutions = append(solutions, reconstructed)
		//
		return true
	})
	//
	require.NoError(t, err)
	assert.Equal(t, uint64(len(solutions)), solved.Stats().SolutionsFound)
	//
	return solutions
}

// contains checks whether any solution assigns exactly the given values.
func contains(solutions []solver.Solution, expected map[string]int64) bool {
	for _, solution := range solutions {
		match := true
		//
		for name, value := range expected {
			lit, ok := solution[name]
			if !ok {
				match = false
				break
			}
			//
			n, ok := lit.(ast.IntLit)
			if !ok || int64(n) != value {
				match = false
				break
			}
		}
		//
		if match {
			return true
		}
	}
	//
	return false
}

// ===================================================================
// End-to-end scenarios
// ===================================================================

func TestSolve_ArithmeticAndDifference(t *testing.T) {
	solutions := Solve(t, `
find x, y, z : int(1..4)
such that x + y + z = 4
such that x >= y
`)
	//
	assert.Len(t, solutions, 2)
	assert.True(t, contains(solutions, map[string]int64{"x": 1, "y": 1, "z": 2}))
	assert.True(t, contains(solutions, map[string]int64{"x": 2, "y": 1, "z": 1}))
}

func TestSolve_TupleEquality(t *testing.T) {
	solutions := Solve(t, `
find t : tuple (int(1..2), int(1..2))
such that t = (1, 2)
`)
	//
	require.Len(t, solutions, 1)
	//
	value, ok := solutions[0]["t"].(ast.TupleLit)
	require.True(t, ok, "t should reconstruct as a tuple")
	//
	assert.Equal(t, "(1, 2)", value.String())
}

func TestSolve_MatrixSliceAllDiff(t *testing.T) {
	solutions := Solve(t, `
find m : matrix indexed by [int(1..3)] of int(1..3)
such that allDiff(m[..])
`)
	//
	// the six permutations of {1,2,3}
	require.Len(t, solutions, 6)
	//
	for _, solution := range solutions {
		m, ok := solution["m"].(ast.MatrixLit)
		require.True(t, ok, "m should reconstruct as a matrix")
		require.Len(t, m.Elems, 3)
	}
}

func TestSolve_ComprehensionExpansion(t *testing.T) {
	solutions := Solve(t, `
find x : int(1..3)
such that and([x != i | i : int(1..3), i != 2])
`)
	//
	require.Len(t, solutions, 1)
	assert.True(t, contains(solutions, map[string]int64{"x": 2}))
}

func TestSolve_PartialEvaluationCascade(t *testing.T) {
	solutions := Solve(t, `
find x : int(0..10)
such that (x + 0) * 1 = 5 + 0
`)
	//
	require.Len(t, solutions, 1)
	assert.True(t, contains(solutions, map[string]int64{"x": 5}))
}

func TestSolve_TupleDisequalityCount(t *testing.T) {
	solutions := Solve(t, `
find a, b : tuple (bool, int(1..3))
such that a != b
`)
	//
	// (2*3) * (2*3) - (2*3)
	assert.Len(t, solutions, 30)
}

// ===================================================================
// Smaller end-to-end behaviours
// ===================================================================

func TestSolve_Unsatisfiable(t *testing.T) {
	solutions := Solve(t, `
find x : int(1..3)
such that x > 5
`)
	//
	assert.Empty(t, solutions)
}

func TestSolve_DivisionGuardsAgainstZero(t *testing.T) {
	// y = 0 would make the division undefined, so only y != 0 survives.
	solutions := Solve(t, `
find x : int(0..2)
find y : int(0..2)
such that x / y = 1
`)
	//
	for _, solution := range solutions {
		y := solution["y"].(ast.IntLit)
		assert.NotEqual(t, ast.IntLit(0), y)
	}
	//
	// 1/1 and 2/2
	assert.Len(t, solutions, 2)
}

func TestSolve_CallbackTerminatesSearch(t *testing.T) {
	ctx := context.NewContext(context.Minion)
	//
	model, err := essence.ParseString("test.essence", "find x : int(1..9)\n", ctx)
	require.NoError(t, err)
	//
	s, err := solver.New(adaptors.NewNative())
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(model)
	require.NoError(t, err)
	//
	seen := 0
	//
	solved, err := loaded.Solve(func(solver.Solution) bool {
		seen++
		return seen < 3
	})
	//
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.Equal(t, solver.IncompleteUserTerminated, solved.Stats().Status)
}

func TestSolve_StatsArePopulated(t *testing.T) {
	ctx := context.NewContext(context.Minion)
	//
	model, err := essence.ParseString("test.essence", "find x : int(1..3)\n", ctx)
	require.NoError(t, err)
	//
	s, err := solver.New(adaptors.NewNative())
	require.NoError(t, err)
	//
	loaded, err := s.LoadModel(model)
	require.NoError(t, err)
	//
	solved, err := loaded.Solve(func(solver.Solution) bool { return true })
	require.NoError(t, err)
	//
	stats := solved.Stats()
	assert.Equal(t, "Native", stats.Adaptor)
	assert.Equal(t, uint64(3), stats.SolutionsFound)
	assert.True(t, stats.Satisfiable)
	//
	// The shared context saw the same numbers.
	assert.Equal(t, uint64(3), ctx.Stats().SolverSolutionsFound)
}

func TestMarshalSolutionsJSON(t *testing.T) {
	solutions := []solver.Solution{
		{"x": ast.IntLit(1), "p": ast.BoolLit(true)},
	}
	//
	out, err := solver.MarshalSolutionsJSON(solutions)
	require.NoError(t, err)
	//
	assert.JSONEq(t, `[{"x": 1, "p": true}]`, string(out))
}
