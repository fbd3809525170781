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
package ast

import (
	"github.com/conjure-cp/conjure-go/pkg/context"
)

// Model is a top-level submodel together with run-wide extras: an optional
// search-variable ordering, an optional dominance relation, and the shared
// execution context.
type Model struct {
	submodel *SubModel
	// SearchOrder fixes the backend's variable ordering, where set.
	SearchOrder []Name
	// Dominance is the optional dominance relation, for optimisation-style
	// runs.  FromSolution expressions may only appear inside it.
	Dominance Expression
	// The shared execution context of this run.
	Context *context.Context
}

// NewModel creates an empty model with the given execution context.
func NewModel(ctx *context.Context) *Model {
	return &Model{submodel: NewSubModel(), Context: ctx}
}

// NewModelInScope creates an empty model whose top-level scope nests inside
// the given symbol table.  The comprehension expander uses this to build
// temporary generator models sharing the comprehension scope.
func NewModelInScope(parent *SymbolTable, ctx *context.Context) *Model {
	return &Model{submodel: NewSubModelInScope(parent), Context: ctx}
}

// NewModelOver wraps an existing submodel as a model.
func NewModelOver(sm *SubModel, ctx *context.Context) *Model {
	return &Model{submodel: sm, Context: ctx}
}

// AsSubModel returns the top-level submodel.
func (m *Model) AsSubModel() *SubModel { return m.submodel }

// Symbols returns the top-level symbol table.
func (m *Model) Symbols() *SymbolTable { return m.submodel.Symbols() }

// AddConstraint appends a top-level constraint.
func (m *Model) AddConstraint(constraint Expression) {
	m.submodel.AddConstraint(constraint)
}

// AddConstraints appends top-level constraints.
func (m *Model) AddConstraints(constraints []Expression) {
	m.submodel.AddConstraints(constraints)
}

// AddSymbol inserts a declaration into the top-level scope.
func (m *Model) AddSymbol(decl *Declaration) error {
	return m.submodel.AddSymbol(decl)
}

// DecisionVariables returns the decision variables of the top-level scope,
// in declaration order (or search order, where one is set).
func (m *Model) DecisionVariables() []*Declaration {
	if m.SearchOrder != nil {
		var decls []*Declaration
		//
		for _, name := range m.SearchOrder {
			if decl, ok := m.Symbols().Lookup(name); ok {
				decls = append(decls, decl)
			}
		}
		//
		return decls
	}
	//
	var decls []*Declaration
	//
	for _, decl := range m.Symbols().IterLocal() {
		if decl.IsDecisionVariable() {
			decls = append(decls, decl)
		}
	}
	//
	return decls
}

func (m *Model) String() string {
	return m.submodel.String()
}
