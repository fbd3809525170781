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
package adaptors

import (
	"fmt"
	"io"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
)

// Native is the in-process enumerating backend: a depth-first sweep over the
// scalar search variables, evaluating the constraint tree under each partial
// assignment and pruning branches as soon as a constraint is decidably
// false.  It is complete for finite models, needs no external binary, and
// yields solutions in lexicographic order of the search variables, which
// the tests rely on.
//
// The comprehension expander also drives this adaptor when enumerating
// guard-satisfying assignments in solver-assisted mode.
type Native struct {
	model *ast.Model
	// Search variables, in order.
	vars []*ast.Declaration
	// Enumerated domain of each search variable.
	domains [][]ast.Literal
	// Assignments explored.
	nodes uint64
}

// NewNative creates a native enumerating backend.
func NewNative() *Native { return &Native{} }

// Name implementation for the Adaptor interface.
func (a *Native) Name(solver.Internal) string { return "Native" }

// Family implementation for the Adaptor interface.
func (a *Native) Family(solver.Internal) context.SolverFamily { return context.Minion }

// InitSolver implementation for the Adaptor interface.
func (a *Native) InitSolver(solver.Internal) error { return nil }

// LoadModel implementation for the Adaptor interface.  Every scalar search
// variable must have a finite ground domain.
func (a *Native) LoadModel(model *ast.Model, _ solver.Internal) error {
	a.model = model
	a.vars = nil
	a.domains = nil
	//
	for _, decl := range searchVariables(model) {
		domain, ok := decl.Domain()
		if !ok {
			continue
		}
		//
		resolved, err := ast.Resolved(domain)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrDomain, err)
		}
		//
		switch resolved.(type) {
		case ast.BoolDomain, ast.IntDomain:
		default:
			return solver.FeatureNotSupported(
				"variable %s still has abstract domain %s after lowering", decl.Name(), resolved)
		}
		//
		values, err := ast.DomainValues(resolved)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrDomain, err)
		}
		//
		a.vars = append(a.vars, decl)
		a.domains = append(a.domains, values)
	}
	//
	return nil
}

// searchVariables returns the declarations to branch on: the model's search
// order where set, otherwise every scalar-searchable declaration of the top
// scope.  Represented abstract variables are skipped (their pieces are
// searched instead).
func searchVariables(model *ast.Model) []*ast.Declaration {
	if model.SearchOrder != nil {
		return model.DecisionVariables()
	}
	//
	var vars []*ast.Declaration
	//
	for _, decl := range model.Symbols().IterLocal() {
		if _, ok := decl.Name().(ast.WithRepresentation); ok {
			continue
		}
		//
		switch decl.Kind().(type) {
		case *ast.DecisionVariable, *ast.Quantified:
			vars = append(vars, decl)
		}
	}
	//
	return vars
}

// Solve implementation for the Adaptor interface.
func (a *Native) Solve(callback solver.Callback, token solver.Internal) (solver.SolverStats, error) {
	return a.solve(func(s solver.Solution) bool { return callback(s) })
}

// SolveMut implementation for the Adaptor interface.  The native backend has
// no incremental support, so callbacks receive a NotModifiable.
func (a *Native) SolveMut(callback solver.MutCallback, token solver.Internal) (solver.SolverStats, error) {
	return a.solve(func(s solver.Solution) bool {
		return callback(s, solver.NotModifiable{})
	})
}

func (a *Native) solve(deliver func(solver.Solution) bool) (solver.SolverStats, error) {
	if a.model == nil {
		return solver.SolverStats{}, solver.ModelInvalid("no model loaded")
	}
	//
	a.nodes = 0
	//
	stats := solver.SolverStats{Status: solver.Complete}
	constraints := a.model.AsSubModel().Constraints()
	//
	a.search(0, constraints, &stats, deliver)
	//
	stats.Satisfiable = stats.SolutionsFound > 0
	stats.Nodes = a.nodes
	//
	return stats, nil
}

// search binds variable i to each of its domain values in turn, pruning as
// soon as a constraint is decidably false.  Returns false to abort the whole
// search.
func (a *Native) search(i int, constraints []ast.Expression,
	stats *solver.SolverStats, deliver func(solver.Solution) bool) bool {
	//
	if i == len(a.vars) {
		a.nodes++
		//
		for _, c := range constraints {
			lit, ok := ast.EvalConstant(c)
			if !ok {
				// An unevaluable constraint under a full assignment means
				// something survived lowering that should not have.
				return true
			}
			//
			if b, ok := lit.(ast.BoolLit); !ok || !bool(b) {
				return true
			}
		}
		//
		stats.SolutionsFound++
		//
		if !deliver(a.snapshot()) {
			stats.Status = solver.IncompleteUserTerminated
			return false
		}
		//
		return true
	}
	//
	for _, value := range a.domains[i] {
		restore := a.vars[i].BindTemporary(value)
		//
		pruned := false
		//
		for _, c := range constraints {
			if lit, ok := ast.EvalConstant(c); ok {
				if b, ok := lit.(ast.BoolLit); ok && !bool(b) {
					pruned = true
					break
				}
			}
		}
		//
		proceed := pruned || a.search(i+1, constraints, stats, deliver)
		restore()
		//
		if !proceed {
			return false
		}
	}
	//
	return true
}

// snapshot captures the current assignment as a solution.
func (a *Native) snapshot() solver.Solution {
	solution := make(solver.Solution, len(a.vars))
	//
	for _, decl := range a.vars {
		if value, ok := decl.Value(); ok {
			if lit, ok := ast.EvalConstant(value); ok {
				solution[ast.NameKey(decl.Name())] = lit
			}
		}
	}
	//
	return solution
}

// WriteSolverInput implementation for the Adaptor interface.  The native
// backend consumes the intermediate representation directly, so its "input
// file" is the pretty-printed model.
func (a *Native) WriteSolverInput(w io.Writer, _ solver.Internal) error {
	if a.model == nil {
		return solver.ModelInvalid("no model loaded")
	}
	//
	_, err := io.WriteString(w, a.model.String())
	//
	return err
}
