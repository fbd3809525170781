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
	rewrite.Register("Base", 8001, rewrite.Rule{
		Name:        "select_representation_matrix",
		Application: selectRepresentationMatrix,
	})
	rewrite.Register("Base", 8000, rewrite.Rule{
		Name:        "select_representation",
		Application: selectRepresentation,
	})
}

// selectRepresentationMatrix selects matrix_to_atom for every local matrix
// decision variable in one go.  Matrices have exactly one possible
// representation, and backends need the cell variables even for matrices the
// constraints never mention, so this fires once on the root rather than per
// reference.
func selectRepresentationMatrix(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	if _, ok := expr.(*ast.Root); !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	updated := symbols.Clone()
	changed := false
	//
	for _, decl := range symbols.IterLocal() {
		if !decl.IsDecisionVariable() {
			continue
		}
		//
		if _, ok := decl.Name().(ast.WithRepresentation); ok {
			continue
		}
		//
		domain, ok := decl.Domain()
		if !ok {
			continue
		}
		//
		resolved, err := ast.Resolved(domain)
		if err != nil {
			continue
		}
		//
		if _, ok := resolved.(ast.MatrixDomain); !ok {
			continue
		}
		//
		if _, err := updated.GetOrAddRepresentation(decl.Name(), []string{"matrix_to_atom"}); err != nil {
			continue
		}
		//
		decl.SetName(ast.WithRepresentation{
			Inner:           decl.Name().BaseName(),
			Representations: []string{"matrix_to_atom"},
		})
		//
		changed = true
	}
	//
	if !changed {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.WithSymbols(expr, updated), nil
}

// selectRepresentation fires on a reference to a declaration with an
// abstract domain and no representation yet.  It chooses the representation
// for the domain, wraps the declaration's name in place, and installs the
// represented sub-declarations.  Further applications on the same node see
// the already-tagged name and do not refire, making selection idempotent.
func selectRepresentation(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	decl, ok := ast.AsReference(expr)
	if !ok || !decl.IsDecisionVariable() {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if _, ok := decl.Name().(ast.WithRepresentation); ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	domain, ok := decl.Domain()
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	resolved, err := ast.Resolved(domain)
	if err != nil {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	switch resolved.(type) {
	case ast.TupleDomain, ast.RecordDomain:
		// matrices are handled wholesale by selectRepresentationMatrix
	default:
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	tag, ok := ast.SelectRepresentationFor(resolved)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	updated := symbols.Clone()
	//
	if _, err := updated.GetOrAddRepresentation(decl.Name(), []string{tag}); err != nil {
		return rewrite.Update{}, err
	}
	//
	decl.SetName(ast.WithRepresentation{
		Inner:           decl.Name().BaseName(),
		Representations: []string{tag},
	})
	//
	return rewrite.WithSymbols(expr, updated), nil
}

// representationOf matches a reference whose declaration carries the given
// representation tag, returning the representation instance.
func representationOf(decl *ast.Declaration, symbols *ast.SymbolTable, tag string) (ast.Representation, bool) {
	name, ok := decl.Name().(ast.WithRepresentation)
	if !ok || len(name.Representations) == 0 || name.Representations[0] != tag {
		return nil, false
	}
	//
	reprs, ok := symbols.GetRepresentation(name.Inner, []string{tag})
	if !ok {
		return nil, false
	}
	//
	return reprs[0], true
}
