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
	"fmt"

	"github.com/conjure-cp/conjure-go/pkg/ast"
)

// ExpandNative unrolls a comprehension without calling an external solver:
// quantified variables are enumerated with plain loops over their finite
// domains, and guards are evaluated from the currently-bound quantified
// declarations.
//
// Each binding temporarily replaces the declaration's kind with a transient
// value letting, installed on every binding target and reverted on unwind.
// At the deepest level the return expression is simplified (the substituted
// literals propagate through it) and any machine-named declarations it picked
// up are lifted into the parent scope under fresh gensyms.
func ExpandNative(c *ast.Comprehension, parent *ast.SymbolTable) ([]ast.Expression, error) {
	targets := quantifiedBindingTargets(c)
	//
	var expanded []ast.Expression
	//
	err := enumerateAssignments(c, 0, targets, func() error {
		result := simplifyExpression(c.ReturnExpression)
		result = liftMachineNames(result, c.Symbols, parent)
		//
		expanded = append(expanded, result)
		//
		return nil
	})
	//
	if err != nil {
		return nil, err
	}
	//
	return expanded, nil
}

// quantifiedBindingTargets collects, per quantified name, every declaration
// the binding must be installed on: the declaration in the comprehension
// scope, plus any same-named quantified declarations referenced from the
// guards, the return expression or later generator domains (clones arise
// when scopes are copied during parsing or macro substitution).
func quantifiedBindingTargets(c *ast.Comprehension) map[string][]*ast.Declaration {
	quantified := make(map[string]bool)
	for _, n := range c.QuantifiedNames() {
		quantified[ast.NameKey(n)] = true
	}
	//
	targets := make(map[string][]*ast.Declaration)
	//
	add := func(decl *ast.Declaration) {
		key := ast.NameKey(decl.Name())
		//
		if !quantified[key] {
			return
		}
		//
		for _, existing := range targets[key] {
			if existing == decl {
				return
			}
		}
		//
		targets[key] = append(targets[key], decl)
	}
	//
	for _, decl := range c.Symbols.IterLocal() {
		add(decl)
	}
	//
	for _, decl := range ast.ReferencedDeclarations(c.ReturnExpression) {
		add(decl)
	}
	//
	for _, guard := range c.Guards() {
		for _, decl := range ast.ReferencedDeclarations(guard) {
			add(decl)
		}
	}
	//
	return targets
}

// enumerateAssignments walks the qualifiers in order, binding each generator
// to every value of its (resolved) domain and filtering through each
// condition, calling onAssignment once per satisfying tuple.
func enumerateAssignments(c *ast.Comprehension, index int,
	targets map[string][]*ast.Declaration, onAssignment func() error) error {
	//
	if index == len(c.Qualifiers) {
		return onAssignment()
	}
	//
	switch q := c.Qualifiers[index].(type) {
	case ast.Generator:
		// The generator domain may reference earlier quantified variables in
		// its bounds; those are bound by now, so resolution sees constants.
		resolved, err := ast.Resolved(q.Domain)
		if err != nil {
			if referencesDecisionVariables(q.Domain) {
				return fmt.Errorf(
					"generator domain of %s depends on decision variables, which native expansion cannot enumerate", q.Name)
			}
			//
			return fmt.Errorf("generator domain of %s: %w", q.Name, err)
		}
		//
		values, err := ast.DomainValues(resolved)
		if err != nil {
			return fmt.Errorf("generator domain of %s: %w", q.Name, err)
		}
		//
		decls, ok := targets[ast.NameKey(q.Name)]
		if !ok {
			return fmt.Errorf("quantified variable %s has no binding targets in comprehension scope", q.Name)
		}
		//
		for _, value := range values {
			err := func() error {
				restores := make([]func(), len(decls))
				for i, decl := range decls {
					restores[i] = decl.BindTemporary(value)
				}
				//
				// Bindings are reverted even on early error returns.
				defer func() {
					for _, restore := range restores {
						restore()
					}
				}()
				//
				return enumerateAssignments(c, index+1, targets, onAssignment)
			}()
			//
			if err != nil {
				return err
			}
		}
		//
		return nil
	case ast.Condition:
		verdict, ok := ast.EvalConstant(simplifyExpression(q.Guard))
		if !ok {
			return fmt.Errorf("could not evaluate comprehension guard %s", q.Guard)
		}
		//
		b, ok := verdict.(ast.BoolLit)
		if !ok {
			return fmt.Errorf("comprehension guard %s is not boolean", q.Guard)
		}
		//
		if !b {
			return nil
		}
		//
		return enumerateAssignments(c, index+1, targets, onAssignment)
	}
	//
	return nil
}

// referencesDecisionVariables checks the bounds of a domain for decision
// variable references.
func referencesDecisionVariables(d ast.Domain) bool {
	probe := ast.NewComprehension(ast.BoolExpr(true),
		[]ast.Qualifier{ast.Generator{Name: ast.UserName("_"), Domain: d}},
		ast.NewSymbolTable())
	//
	for _, decl := range ast.ReferencedDeclarations(probe) {
		if decl.IsDecisionVariable() {
			return true
		}
	}
	//
	return false
}

// simplifyExpression propagates bound literals bottom-up: every subexpression
// which evaluates to a constant is replaced by that constant.
func simplifyExpression(e ast.Expression) ast.Expression {
	return ast.TransformUp(e, func(node ast.Expression) ast.Expression {
		if _, ok := node.(*ast.Atomic); ok {
			// Bound references still become literals.
			if lit, ok := ast.EvalConstant(node); ok {
				return ast.NewLiteralExpr(lit)
			}
			//
			return node
		}
		//
		if lit, ok := ast.EvalConstant(node); ok {
			return ast.NewLiteralExpr(lit)
		}
		//
		return node
	})
}

// liftMachineNames moves machine-named declarations local to the
// comprehension scope into the parent scope, renaming them with fresh
// gensyms to avoid collisions across expansion steps.
func liftMachineNames(e ast.Expression, scope *ast.SymbolTable, parent *ast.SymbolTable) ast.Expression {
	renamed := make(map[*ast.Declaration]*ast.Declaration)
	//
	for _, decl := range ast.ReferencedDeclarations(e) {
		if _, ok := decl.Name().BaseName().(ast.MachineName); !ok {
			continue
		}
		//
		if _, local := scope.LookupLocal(decl.Name()); !local {
			continue
		}
		//
		if _, seen := renamed[decl]; seen {
			continue
		}
		//
		fresh := ast.NewDeclaration(parent.Gensym(), decl.Kind())
		//
		if err := parent.Insert(fresh); err != nil {
			// Gensyms are fresh, so insertion cannot collide.
			panic(err)
		}
		//
		renamed[decl] = fresh
	}
	//
	if len(renamed) == 0 {
		return e
	}
	//
	return ast.TransformUp(e, func(node ast.Expression) ast.Expression {
		if decl, ok := ast.AsReference(node); ok {
			if fresh, ok := renamed[decl]; ok {
				return ast.NewReferenceExpr(fresh)
			}
		}
		//
		return node
	})
}
