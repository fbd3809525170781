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
package solver

import (
	"io"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
)

// Internal is the sealing token: every adaptor method takes one, and only
// this package can hand them out (the zero value is useless to well-behaved
// callers, and constructing a meaningful one requires the unexported field).
// Adaptors are therefore only callable through Solver, never directly.
type Internal struct {
	_ internalToken
}

type internalToken struct{}

// the one true token, passed by Solver into adaptor methods.
var sealed = Internal{}

// Solution is one satisfying assignment, keyed by the NameKey of each
// variable the backend searched over (atom-level names, after lowering).
type Solution map[string]ast.Literal

// Callback receives every solution the backend finds; returning false
// terminates the search.  The backend may invoke it from another goroutine,
// so callbacks must not rely on the caller's goroutine-local state.
type Callback func(solution Solution) bool

// MutCallback additionally receives a model modifier for incremental
// solving.
type MutCallback func(solution Solution, modifier ModelModifier) bool

// ModelModifier lets a callback change the model mid-search, for backends
// which support incremental solving.  Backends without that support hand the
// callback a NotModifiable.
type ModelModifier interface {
	// AddConstraint posts an extra constraint for the remainder of the
	// search.  Fails with ErrModelFeatureNotSupported where the backend
	// cannot do this.
	AddConstraint(constraint ast.Expression) error
}

// NotModifiable is the ModelModifier of backends without incremental
// support.
type NotModifiable struct{}

// AddConstraint implementation for the ModelModifier interface.
func (NotModifiable) AddConstraint(ast.Expression) error {
	return FeatureNotSupported("this backend does not support incremental solving")
}

// Adaptor translates between the lowered intermediate representation and one
// concrete solver.  Implementations live in the adaptors subpackage and are
// driven exclusively through Solver.
//
// Multiple Solver instances may run in parallel across goroutines; the
// Solver itself provides no concurrency control, so adaptors must tolerate
// concurrent instances of themselves.  Adaptors wrapping single-instance
// native solvers must serialise internally.  Calls should block rather than
// error where possible.
type Adaptor interface {
	// Name identifies this adaptor in stats and error messages.
	Name(Internal) string
	// Family returns the solver family this adaptor belongs to.
	Family(Internal) context.SolverFamily
	// InitSolver prepares the underlying solver.  Called once, by New.
	InitSolver(Internal) error
	// LoadModel translates the lowered model into the backend's native
	// form.  Constructs the backend cannot encode fail with
	// ErrModelFeatureNotSupported.
	LoadModel(model *ast.Model, token Internal) error
	// Solve runs the backend, calling back once per solution.
	Solve(callback Callback, token Internal) (SolverStats, error)
	// SolveMut runs the backend with incremental-solving support.
	SolveMut(callback MutCallback, token Internal) (SolverStats, error)
	// WriteSolverInput renders the backend-native input file, for
	// debugging.
	WriteSolverInput(w io.Writer, token Internal) error
}
