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
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds sum(1, product(2, 3)).
func testTree() ast.Expression {
	return ast.Sum(ast.IntExpr(1), ast.Product(ast.IntExpr(2), ast.IntExpr(3)))
}

func TestZipper_Moves(t *testing.T) {
	z := NewZipper(testTree())
	//
	require.True(t, z.GoDown())
	// focus is now the operand matrix
	_, ok := z.Focus().(*ast.MatrixExpr)
	require.True(t, ok)
	//
	require.True(t, z.GoDown())
	assert.Equal(t, "1", z.Focus().String())
	//
	require.True(t, z.GoRight())
	assert.Equal(t, "product([2, 3])", z.Focus().String())
	//
	assert.False(t, z.GoRight())
	require.True(t, z.GoUp())
	require.True(t, z.GoUp())
	assert.False(t, z.GoUp())
}

func TestZipper_ReplaceFocusRebuilds(t *testing.T) {
	z := NewZipper(testTree())
	//
	require.True(t, z.GoDown())
	require.True(t, z.GoDown())
	require.True(t, z.GoRight())
	//
	z.ReplaceFocus(ast.IntExpr(6))
	//
	rebuilt := z.Rebuild()
	assert.Equal(t, "sum([1, 6])", rebuilt.String())
}

func TestZipper_Path(t *testing.T) {
	z := NewZipper(testTree())
	//
	assert.Equal(t, "$", z.Path())
	//
	require.True(t, z.GoDown())
	require.True(t, z.GoDown())
	require.True(t, z.GoRight())
	//
	assert.Equal(t, "0.1", z.Path())
}

func TestZipper_GoNextDirtyVisitsPreOrder(t *testing.T) {
	z := NewZipper(testTree())
	//
	var visited []string
	//
	for z.GoNextDirty(0) {
		visited = append(visited, z.Focus().String())
		z.SetDirtyFrom(1)
	}
	//
	require.Len(t, visited, 7)
	assert.Equal(t, "sum([1, product([2, 3])])", visited[0])
	assert.Equal(t, "1", visited[2])
	assert.Equal(t, "product([2, 3])", visited[3])
	assert.Equal(t, "[2, 3]", visited[4])
	assert.Equal(t, "3", visited[6])
}

func TestZipper_DirtyLevels(t *testing.T) {
	z := NewZipper(testTree())
	//
	// Exhaust level 0; every node is then still dirty at level 1.
	for z.GoNextDirty(0) {
		z.SetDirtyFrom(1)
	}
	//
	count := 0
	for z.GoNextDirty(1) {
		count++
		z.SetDirtyFrom(2)
	}
	//
	assert.Equal(t, 7, count)
	//
	// And nothing is dirty at level 1 any more.
	assert.False(t, z.GoNextDirty(1))
}

func TestZipper_MarkDirtyToRoot(t *testing.T) {
	z := NewZipper(testTree())
	//
	for z.GoNextDirty(0) {
		z.SetDirtyFrom(1)
	}
	//
	// Dirty a leaf: its ancestors become dirty again, siblings stay clean.
	require.True(t, z.GoDown())
	require.True(t, z.GoDown())
	z.ReplaceFocus(ast.IntExpr(9))
	z.MarkDirtyToRoot()
	//
	var visited []string
	for z.GoNextDirty(0) {
		visited = append(visited, z.Focus().String())
		z.SetDirtyFrom(1)
	}
	//
	// root, operand matrix and the replaced leaf; product's subtree is
	// untouched.
	assert.Equal(t, []string{"sum([9, product([2, 3])])", "[9, product([2, 3])]", "9"}, visited)
}
