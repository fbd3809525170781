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
	"strconv"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
)

func init() {
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "index_tuple_to_atom",
		Application: indexTupleToAtom,
	})
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "tuple_eq_unfold",
		Application: tupleEqUnfold,
	})
}

// indexTupleToAtom rewrites a constant index into a represented tuple
// variable to the represented atom for that component.  Tuples are always
// one-dimensional.
func indexTupleToAtom(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	idx, ok := expr.(*ast.Index)
	if !ok || !idx.Safe || len(idx.Indices) != 1 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	decl, ok := ast.AsReference(idx.Subject)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	repr, ok := representationOf(decl, symbols, "tuple_to_atom")
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	n, ok := ast.AsIntLiteral(idx.Indices[0])
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	down, err := repr.ExpressionDown(symbols)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	name := ast.RepresentedName{
		Inner:  decl.Name().BaseName(),
		Rule:   "tuple_to_atom",
		Suffix: strconv.FormatInt(n, 10),
	}
	//
	piece, ok := down[ast.NameKey(name)]
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(piece), nil
}

// tupleComponents projects every component of a tuple-typed operand, in
// order: tuple expressions yield the elements directly, references yield a
// 1-based index access per component for the lowering rules to consume.
func tupleComponents(e ast.Expression, arity int) ([]ast.Expression, bool) {
	if t, ok := e.(*ast.TupleExpr); ok {
		if len(t.Elems) != arity {
			return nil, false
		}
		//
		return t.Elems, true
	}
	//
	if lit, ok := ast.AsLiteral(e); ok {
		if t, ok := lit.(ast.TupleLit); ok && len(t.Elems) == arity {
			elems := make([]ast.Expression, arity)
			for i, el := range t.Elems {
				elems[i] = ast.LiteralToExpr(el)
			}
			//
			return elems, true
		}
		//
		return nil, false
	}
	//
	if _, ok := ast.AsReference(e); ok {
		elems := make([]ast.Expression, arity)
		for i := range arity {
			elems[i] = ast.NewSafeIndex(e, ast.IntExpr(int64(i+1)))
		}
		//
		return elems, true
	}
	//
	return nil, false
}

// tupleEqUnfold unfolds equality and disequality between tuple-typed
// operands component-wise: t = u holds when every pair of corresponding
// components is equal.
func tupleEqUnfold(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || (cmp.Kind != ast.CmpEq && cmp.Kind != ast.CmpNeq) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	ltype, okl := cmp.Left.ReturnType().(ast.TupleType)
	rtype, okr := cmp.Right.ReturnType().(ast.TupleType)
	//
	if !okl || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if len(ltype.Elems) != len(rtype.Elems) {
		return rewrite.Pure(ast.BoolExpr(cmp.Kind == ast.CmpNeq)), nil
	}
	//
	arity := len(ltype.Elems)
	//
	left, okl := tupleComponents(cmp.Left, arity)
	right, okr := tupleComponents(cmp.Right, arity)
	//
	if !okl || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	eqs := make([]ast.Expression, arity)
	for i := range arity {
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
