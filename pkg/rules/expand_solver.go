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
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/conjure-cp/conjure-go/pkg/solver/adaptors"
)

// ExpandViaSolver unrolls a comprehension by handing its guards to a backend
// as a temporary sub-model: the scope is the comprehension scope, the
// constraints are the guards, and the search order is exactly the quantified
// variables.  Every satisfying assignment becomes one instantiation of the
// return expression.
func ExpandViaSolver(c *ast.Comprehension, parent *ast.SymbolTable) ([]ast.Expression, error) {
	targets := quantifiedBindingTargets(c)
	//
	// The temporary model shares the comprehension's own symbol table, so
	// guard references resolve without rebinding.
	generator := ast.NewModelOver(ast.NewSubModelWithSymbols(c.Symbols), context.NewContext(context.Minion))
	generator.SearchOrder = c.QuantifiedNames()
	generator.AddConstraints(c.Guards())
	//
	s, err := solver.New(adaptors.NewNative())
	if err != nil {
		return nil, err
	}
	//
	loaded, err := s.LoadModel(generator)
	if err != nil {
		return nil, err
	}
	//
	var expanded []ast.Expression
	var bindErr error
	//
	if _, err := loaded.Solve(func(solution solver.Solution) bool {
		var restores []func()
		//
		for key, decls := range targets {
			value, ok := solution[key]
			if !ok {
				bindErr = fmt.Errorf("backend returned no value for quantified variable %s", key)
				return false
			}
			//
			for _, decl := range decls {
				restores = append(restores, decl.BindTemporary(value))
			}
		}
		//
		result := simplifyExpression(c.ReturnExpression)
		result = liftMachineNames(result, c.Symbols, parent)
		//
		for _, restore := range restores {
			restore()
		}
		//
		expanded = append(expanded, result)
		//
		return true
	}); err != nil {
		return nil, err
	}
	//
	if bindErr != nil {
		return nil, bindErr
	}
	//
	return expanded, nil
}
