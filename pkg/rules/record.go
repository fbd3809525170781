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

// Record lowering mirrors the tuple rules: fields are accessed by position,
// so a record behaves as a tuple whose components carry names.

func init() {
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "index_record_to_atom",
		Application: indexRecordToAtom,
	})
	rewrite.Register("Base", 2000, rewrite.Rule{
		Name:        "record_eq_unfold",
		Application: recordEqUnfold,
	})
}

// indexRecordToAtom rewrites a constant field access into a represented
// record variable to the represented atom for that field.
func indexRecordToAtom(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
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
	repr, ok := representationOf(decl, symbols, "record_to_atom")
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
		Rule:   "record_to_atom",
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

// recordComponents projects the fields of a record-typed operand in
// declaration order.
func recordComponents(e ast.Expression, arity int) ([]ast.Expression, bool) {
	if r, ok := e.(*ast.RecordExpr); ok {
		if len(r.Fields) != arity {
			return nil, false
		}
		//
		elems := make([]ast.Expression, arity)
		for i, f := range r.Fields {
			elems[i] = f.Value
		}
		//
		return elems, true
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

// recordEqUnfold unfolds equality and disequality between record-typed
// operands field-wise.
func recordEqUnfold(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	cmp, ok := expr.(*ast.Cmp)
	if !ok || (cmp.Kind != ast.CmpEq && cmp.Kind != ast.CmpNeq) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	ltype, okl := cmp.Left.ReturnType().(ast.RecordType)
	rtype, okr := cmp.Right.ReturnType().(ast.RecordType)
	//
	if !okl || !okr {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if len(ltype.Fields) != len(rtype.Fields) {
		return rewrite.Pure(ast.BoolExpr(cmp.Kind == ast.CmpNeq)), nil
	}
	//
	arity := len(ltype.Fields)
	//
	left, okl := recordComponents(cmp.Left, arity)
	right, okr := recordComponents(cmp.Right, arity)
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
