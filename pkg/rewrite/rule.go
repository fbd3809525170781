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
	"errors"

	"github.com/conjure-cp/conjure-go/pkg/ast"
)

// ErrNotApplicable is the per-rule "not me" signal.  Rules return it to tell
// the engine to try the next rule; it never surfaces to users.  Any other
// error from a rule is fatal and propagates out of the engine.
var ErrNotApplicable = errors.New("rule not applicable")

// Update is the result of one successful rule application.
type Update struct {
	// Replacement for the focused node.
	NewSubtree ast.Expression
	// Side constraints to append to the enclosing submodel's root.
	NewConstraints []ast.Expression
	// Replacement symbol table (a mutated clone), or nil if the rule made no
	// symbol changes.  The engine merges it into the enclosing scope;
	// declarations are only ever added, never removed.
	Symbols *ast.SymbolTable
}

// Pure wraps a plain subtree replacement as an update.
func Pure(subtree ast.Expression) Update {
	return Update{NewSubtree: subtree}
}

// WithSymbols wraps a subtree replacement carrying symbol-table changes.
func WithSymbols(subtree ast.Expression, symbols *ast.SymbolTable) Update {
	return Update{NewSubtree: subtree, Symbols: symbols}
}

// WithConstraints wraps a subtree replacement carrying side constraints and
// symbol-table changes.
func WithConstraints(subtree ast.Expression, constraints []ast.Expression, symbols *ast.SymbolTable) Update {
	return Update{NewSubtree: subtree, NewConstraints: constraints, Symbols: symbols}
}

// ApplicationFn is a single-step transformation attempt.  It must be
// semantics-preserving under the given symbol table, monotone with respect to
// auxiliary introduction (it may add gensyms but never remove a declaration
// it did not itself add), and must return ErrNotApplicable when it has
// nothing to do.
type ApplicationFn func(expr ast.Expression, symbols *ast.SymbolTable) (Update, error)

// Rule is a named single-step transformation.
type Rule struct {
	Name        string
	Application ApplicationFn
}

// Apply attempts this rule on the given expression.
func (r Rule) Apply(expr ast.Expression, symbols *ast.SymbolTable) (Update, error) {
	return r.Application(expr, symbols)
}
