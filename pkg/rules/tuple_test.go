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
	"strings"
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
	"github.com/conjure-cp/conjure-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tupleModel builds `find t : tuple (int(1..2), int(1..2)); t = (1, 2)`.
func tupleModel(t *testing.T) (*ast.SubModel, *ast.Declaration) {
	t.Helper()
	//
	sm := ast.NewSubModel()
	domain := ast.TupleDomain{Elems: []ast.Domain{ast.IntRangeDomain(1, 2), ast.IntRangeDomain(1, 2)}}
	decl := ast.NewDecisionVariable(ast.UserName("t"), domain)
	require.NoError(t, sm.AddSymbol(decl))
	//
	sm.AddConstraint(ast.Eq(
		ast.NewReferenceExpr(decl),
		ast.NewTupleExpr(ast.IntExpr(1), ast.IntExpr(2)),
	))
	//
	return sm, decl
}

func TestTuple_EqualityLowersToComponentAtoms(t *testing.T) {
	sm, decl := tupleModel(t)
	//
	rewriteWithBase(t, sm)
	//
	// The tuple variable now carries its representation tag.
	name, ok := decl.Name().(ast.WithRepresentation)
	require.True(t, ok, "declaration should be tagged with a representation")
	assert.Equal(t, []string{"tuple_to_atom"}, name.Representations)
	//
	// The equality has dissolved into component equalities over the
	// represented atoms; no tuple-level equality survives.
	rendered := sm.Root().String()
	assert.Contains(t, rendered, "t__tuple_to_atom__1")
	assert.Contains(t, rendered, "t__tuple_to_atom__2")
	assert.NotContains(t, rendered, "(t =")
	//
	// And the represented pieces are in scope.
	_, ok = sm.Symbols().LookupLocal(ast.RepresentedName{
		Inner: ast.UserName("t"), Rule: "tuple_to_atom", Suffix: "1"})
	assert.True(t, ok)
}

func TestTuple_ScopeIntegrityAfterRewriting(t *testing.T) {
	sm, _ := tupleModel(t)
	//
	rewriteWithBase(t, sm)
	//
	// Every reference in the rewritten tree resolves through the submodel's
	// symbol table to the very declaration it points at.
	for _, node := range ast.Descendants(sm.Root()) {
		decl, ok := ast.AsReference(node)
		if !ok {
			continue
		}
		//
		found, ok := sm.Symbols().Lookup(decl.Name())
		require.True(t, ok, "reference %s is out of scope", decl.Name())
		assert.Same(t, decl, found)
	}
}

func TestTuple_RepresentationSelectionIsIdempotent(t *testing.T) {
	sm, decl := tupleModel(t)
	//
	rewriteWithBase(t, sm)
	nameAfterFirst := decl.Name().String()
	//
	// Applying the selection rule again must not refire.
	_, err := selectRepresentation(ast.NewReferenceExpr(decl), sm.Symbols())
	assert.ErrorIs(t, err, rewrite.ErrNotApplicable)
	assert.Equal(t, nameAfterFirst, decl.Name().String())
}

func TestTuple_NeqUnfoldsToNegatedConjunction(t *testing.T) {
	sm := ast.NewSubModel()
	domain := ast.TupleDomain{Elems: []ast.Domain{ast.BoolDomain{}, ast.IntRangeDomain(1, 3)}}
	//
	a := ast.NewDecisionVariable(ast.UserName("a"), domain)
	b := ast.NewDecisionVariable(ast.UserName("b"), domain)
	require.NoError(t, sm.AddSymbol(a))
	require.NoError(t, sm.AddSymbol(b))
	//
	sm.AddConstraint(ast.Neq(ast.NewReferenceExpr(a), ast.NewReferenceExpr(b)))
	//
	rewriteWithBase(t, sm)
	//
	rendered := sm.Root().String()
	//
	// a != b becomes !(a1 = b1 /\ a2 = b2) over represented atoms.
	assert.True(t, strings.HasPrefix(rendered, "such that !("), "got %s", rendered)
	assert.Contains(t, rendered, "a__tuple_to_atom__1")
	assert.Contains(t, rendered, "b__tuple_to_atom__2")
}

func TestMatrix_SliceLowersToCellAtoms(t *testing.T) {
	sm := ast.NewSubModel()
	domain := ast.MatrixDomain{
		Value:   ast.IntRangeDomain(1, 3),
		Indexes: []ast.Domain{ast.IntRangeDomain(1, 3)},
	}
	//
	m := ast.NewDecisionVariable(ast.UserName("m"), domain)
	require.NoError(t, sm.AddSymbol(m))
	//
	slice := ast.NewUnsafeSlice(ast.NewReferenceExpr(m), util.None[ast.Expression]())
	sm.AddConstraint(ast.NewACOp(ast.ACAllDiff, slice))
	//
	rewriteWithBase(t, sm)
	//
	rendered := sm.Root().String()
	assert.Contains(t, rendered, "m__matrix_to_atom__1")
	assert.Contains(t, rendered, "m__matrix_to_atom__3")
	assert.NotContains(t, rendered, "..")
}
