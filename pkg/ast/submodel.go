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
	"fmt"
	"strings"
)

// SubModel is a lexical scope in the model: a symbol table together with an
// expression tree.  The tree is always rooted at a Root node holding the top
// level constraints of this scope.
//
// A submodel exclusively owns its symbol table; nested submodels reference
// the parent table through the scope chain and never outlive it.
type SubModel struct {
	root    Expression
	symbols *SymbolTable
}

// NewSubModel creates an empty top-level submodel.
func NewSubModel() *SubModel {
	return &SubModel{NewRoot(), NewSymbolTable()}
}

// NewSubModelInScope creates an empty submodel whose scope nests inside the
// given parent symbol table.
func NewSubModelInScope(parent *SymbolTable) *SubModel {
	return &SubModel{NewRoot(), NewChildSymbolTable(parent)}
}

// NewSubModelWithSymbols creates an empty submodel sharing an existing
// symbol table.  The comprehension expander uses this to build temporary
// generator models over the comprehension's own scope.
func NewSubModelWithSymbols(symbols *SymbolTable) *SubModel {
	return &SubModel{NewRoot(), symbols}
}

// Symbols returns the symbol table of this submodel.
func (sm *SubModel) Symbols() *SymbolTable { return sm.symbols }

// Root returns the root node of this submodel.  The result is always a
// *Root.
func (sm *SubModel) Root() Expression { return sm.root }

// ReplaceRoot swaps in a new root node, returning the previous one.  Panics
// if the replacement is not a Root: rewriting must preserve the root shape.
func (sm *SubModel) ReplaceRoot(root Expression) Expression {
	if _, ok := root.(*Root); !ok {
		panic(fmt.Sprintf("replacement root is a %T, not a Root", root))
	}
	//
	old := sm.root
	sm.root = root
	//
	return old
}

// Constraints returns the top-level constraints of this submodel.
func (sm *SubModel) Constraints() []Expression {
	return sm.root.(*Root).Constraints
}

// AddConstraint appends a top-level constraint.
func (sm *SubModel) AddConstraint(constraint Expression) {
	root := sm.root.(*Root)
	sm.root = &Root{root.Metadata, append(root.Constraints, constraint)}
}

// AddConstraints appends top-level constraints.
func (sm *SubModel) AddConstraints(constraints []Expression) {
	for _, c := range constraints {
		sm.AddConstraint(c)
	}
}

// AddSymbol inserts a declaration into this submodel's scope.
func (sm *SubModel) AddSymbol(decl *Declaration) error {
	return sm.symbols.Insert(decl)
}

func (sm *SubModel) String() string {
	var builder strings.Builder
	//
	for _, decl := range sm.symbols.IterLocal() {
		switch kind := decl.Kind().(type) {
		case *DecisionVariable:
			fmt.Fprintf(&builder, "find %s : %s\n", decl.Name(), kind.Domain)
		case *ValueLetting:
			fmt.Fprintf(&builder, "letting %s be %s\n", decl.Name(), kind.Value)
		case *DomainLetting:
			fmt.Fprintf(&builder, "letting %s be domain %s\n", decl.Name(), kind.Domain)
		case *Given:
			fmt.Fprintf(&builder, "given %s : %s\n", decl.Name(), kind.Domain)
		}
	}
	//
	builder.WriteString(sm.root.String())
	//
	return builder.String()
}
