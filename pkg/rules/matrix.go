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

func init() {
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "index_to_atom",
		Application: indexToAtom,
	})
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "slice_to_atom",
		Application: sliceToAtom,
	})
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "multi_dim_index_flattening",
		Application: multiDimIndexFlattening,
	})
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "matrix_eq_unfold",
		Application: matrixEqUnfold,
	})
	rewrite.Register("Base", 1900, rewrite.Rule{
		Name:        "matrix_ref_to_atom",
		Application: matrixRefToAtom,
	})
}

// matrixReprOf matches SafeIndex/SafeSlice subjects: a reference carrying
// the matrix_to_atom representation.  Returns the declaration, its resolved
// matrix domain and the representation instance.
func matrixReprOf(subject ast.Expression, symbols *ast.SymbolTable) (*ast.Declaration, ast.MatrixDomain, ast.Representation, bool) {
	decl, ok := ast.AsReference(subject)
	if !ok {
		return nil, ast.MatrixDomain{}, nil, false
	}
	//
	repr, ok := representationOf(decl, symbols, "matrix_to_atom")
	if !ok {
		return nil, ast.MatrixDomain{}, nil, false
	}
	//
	domain, ok := decl.Domain()
	if !ok {
		return nil, ast.MatrixDomain{}, nil, false
	}
	//
	resolved, err := ast.Resolved(domain)
	if err != nil {
		return nil, ast.MatrixDomain{}, nil, false
	}
	//
	matrix, ok := resolved.(ast.MatrixDomain)
	if !ok {
		return nil, ast.MatrixDomain{}, nil, false
	}
	//
	return decl, matrix, repr, true
}

// constantIndices evaluates every index expression to a literal.
func constantIndices(indices []ast.Expression) ([]ast.Literal, bool) {
	lits := make([]ast.Literal, len(indices))
	//
	for i, idx := range indices {
		lit, ok := ast.EvalConstant(idx)
		if !ok {
			return nil, false
		}
		//
		lits[i] = lit
	}
	//
	return lits, true
}

// indexToAtom rewrites a fully-constant index into a represented matrix
// variable to the specific represented atom for those indices.
func indexToAtom(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	idx, ok := expr.(*ast.Index)
	if !ok || !idx.Safe {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	decl, matrix, repr, ok := matrixReprOf(idx.Subject, symbols)
	if !ok || len(idx.Indices) != len(matrix.Indexes) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	combo, ok := constantIndices(idx.Indices)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	down, err := repr.ExpressionDown(symbols)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	piece, ok := down[ast.NameKey(ast.MatrixPieceName(decl.Name(), combo))]
	if !ok {
		// constant index outside the matrix: out-of-range accesses are the
		// bubbling rules' problem, not ours
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(piece), nil
}

// sliceToAtom rewrites a slice of a represented matrix variable into the
// one-dimensional matrix of represented atoms along the sliced axis.
func sliceToAtom(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	slice, ok := expr.(*ast.Slice)
	if !ok || !slice.Safe {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	decl, matrix, repr, ok := matrixReprOf(slice.Subject, symbols)
	if !ok || len(slice.Indices) != len(matrix.Indexes) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	// All fixed positions must be constant.
	fixed := make([]ast.Literal, len(slice.Indices))
	hole := -1
	//
	for i, index := range slice.Indices {
		if index.IsEmpty() {
			hole = i
			continue
		}
		//
		lit, ok := ast.EvalConstant(index.Unwrap())
		if !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		fixed[i] = lit
	}
	//
	if hole < 0 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	down, err := repr.ExpressionDown(symbols)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	axis, err := ast.DomainValues(matrix.Indexes[hole])
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	elems := make([]ast.Expression, len(axis))
	//
	for i, v := range axis {
		combo := make([]ast.Literal, len(fixed))
		copy(combo, fixed)
		combo[hole] = v
		//
		piece, ok := down[ast.NameKey(ast.MatrixPieceName(decl.Name(), combo))]
		if !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		elems[i] = piece
	}
	//
	return rewrite.Pure(ast.NewMatrixExprIndexed(elems, matrix.Indexes[hole])), nil
}

// multiDimIndexFlattening translates multi-dimensional indexing with
// non-constant indices into a single index into the row-major flattened
// matrix: z = sum_i (prod_{j>i} size_j) * (x_i - lb_i) + 1.
func multiDimIndexFlattening(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	idx, ok := expr.(*ast.Index)
	if !ok || !idx.Safe || len(idx.Indices) < 2 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	decl, matrix, repr, ok := matrixReprOf(idx.Subject, symbols)
	if !ok || len(idx.Indices) != len(matrix.Indexes) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	// The constant case belongs to indexToAtom.
	if _, ok := constantIndices(idx.Indices); ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	sizes := make([]int64, len(matrix.Indexes))
	lowers := make([]int64, len(matrix.Indexes))
	//
	for i, index := range matrix.Indexes {
		values, err := ast.DomainValues(index)
		if err != nil {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		lo, _, err := ast.IntDomainBounds(index)
		if err != nil {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		sizes[i] = int64(len(values))
		lowers[i] = lo
	}
	//
	// Linear index into the row-major flattening.
	var terms []ast.Expression
	//
	for i, index := range idx.Indices {
		stride := int64(1)
		for j := i + 1; j < len(sizes); j++ {
			stride *= sizes[j]
		}
		//
		offset := ast.NewMinus(index, ast.IntExpr(lowers[i]))
		terms = append(terms, ast.Product(ast.IntExpr(stride), offset))
	}
	//
	terms = append(terms, ast.IntExpr(1))
	linear := ast.Sum(terms...)
	//
	// The flattened matrix of represented atoms, row-major.
	down, err := repr.ExpressionDown(symbols)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	combos, err := ast.EnumerateIndices(matrix.Indexes)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	elems := make([]ast.Expression, len(combos))
	for i, combo := range combos {
		piece, ok := down[ast.NameKey(ast.MatrixPieceName(decl.Name(), combo))]
		if !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		elems[i] = piece
	}
	//
	flattened := ast.NewMatrixExpr(elems...)
	//
	return rewrite.Pure(ast.NewSafeIndex(flattened, linear)), nil
}

// matrixRefToAtom expands a bare reference to a represented matrix variable
// into the full matrix literal of represented atoms.  This runs at a lower
// priority than the index and slice rules, so a reference directly under an
// index or slice is consumed by those first.
func matrixRefToAtom(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	atomic, ok := expr.(*ast.Atomic)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	decl, matrix, repr, ok := matrixReprOf(atomic, symbols)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	down, err := repr.ExpressionDown(symbols)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	// Nest dimensions outermost-first so the result indexes like the
	// original variable.
	nested, ok := nestMatrix(decl, matrix.Indexes, nil, down)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(nested), nil
}

// nestMatrix builds the (possibly nested) matrix expression of represented
// atoms for the given prefix of fixed indices.
func nestMatrix(decl *ast.Declaration, indexes []ast.Domain, prefix []ast.Literal,
	down map[string]ast.Expression) (ast.Expression, bool) {
	//
	if len(indexes) == 0 {
		piece, ok := down[ast.NameKey(ast.MatrixPieceName(decl.Name(), prefix))]
		return piece, ok
	}
	//
	values, err := ast.DomainValues(indexes[0])
	if err != nil {
		return nil, false
	}
	//
	elems := make([]ast.Expression, len(values))
	//
	for i, v := range values {
		next := append(append([]ast.Literal{}, prefix...), v)
		//
		inner, ok := nestMatrix(decl, indexes[1:], next, down)
		if !ok {
			return nil, false
		}
		//
		elems[i] = inner
	}
	//
	return ast.NewMatrixExprIndexed(elems, indexes[0]), true
}

// matrixEqUnfold unfolds equality and disequality between matrix-typed
// operands element-wise over the union of their index positions: equal
// matrices agree at every position, and matrices of different shapes are
// never equal.
func matrixEqUnfold(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || (cmp.Kind != ast.CmpEq && cmp.Kind != ast.CmpNeq) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	left, okl := ast.MatrixElems(cmp.Left)
	right, okr := ast.MatrixElems(cmp.Right)
	//
	if !okl || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if len(left) != len(right) {
		return rewrite.Pure(ast.BoolExpr(cmp.Kind == ast.CmpNeq)), nil
	}
	//
	eqs := make([]ast.Expression, len(left))
	for i := range left {
		eqs[i] = ast.Eq(left[i], right[i])
	}
	//
	conjunction := ast.And(eqs...)
	//
	if cmp.Kind == ast.CmpNeq {
		return rewrite.Pure(ast.NewNot(conjunction)), nil
	}
	//
	return rewrite.Pure(conjunction), nil
}
