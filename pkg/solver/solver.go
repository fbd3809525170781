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
	"time"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
)

// alias to keep the stats-update callback readable.
type contextStats = context.Stats

// The solver API is a typed state machine over a generic adaptor: a Solver
// is created around an adaptor, loading a model produces a LoadedSolver, and
// solving produces a SolvedSolver carrying the run's stats.  Each transition
// returns a new state value and leaves the previous one usable; the compiler
// rules out solving before loading, or reading stats before solving.

// Solver is the initial state: an initialised adaptor with no model.
type Solver[A Adaptor] struct {
	adaptor A
}

// New initialises the given adaptor and wraps it as a Solver.
func New[A Adaptor](adaptor A) (*Solver[A], error) {
	if err := adaptor.InitSolver(sealed); err != nil {
		return nil, err
	}
	//
	return &Solver[A]{adaptor}, nil
}

// Name returns the adaptor's name.
func (s *Solver[A]) Name() string { return s.adaptor.Name(sealed) }

// LoadModel translates the lowered model into the backend's native form,
// transitioning to the loaded state.
func (s *Solver[A]) LoadModel(model *ast.Model) (*LoadedSolver[A], error) {
	if err := s.adaptor.LoadModel(model, sealed); err != nil {
		return nil, err
	}
	//
	return &LoadedSolver[A]{s.adaptor, model}, nil
}

// LoadedSolver is the state holding a translated model, ready to solve.
type LoadedSolver[A Adaptor] struct {
	adaptor A
	model   *ast.Model
}

// WriteSolverInput renders the backend-native input file for debugging.
func (s *LoadedSolver[A]) WriteSolverInput(w io.Writer) error {
	return s.adaptor.WriteSolverInput(w, sealed)
}

// Solve runs the backend.  The callback receives every solution and returns
// true to continue the search, false to terminate it.
func (s *LoadedSolver[A]) Solve(callback Callback) (*SolvedSolver[A], error) {
	start := time.Now()
	//
	stats, err := s.adaptor.Solve(callback, sealed)
	if err != nil {
		return nil, err
	}
	//
	return s.solved(stats, start), nil
}

// SolveMut runs the backend with incremental-solving support: the callback
// additionally receives a model modifier.
func (s *LoadedSolver[A]) SolveMut(callback MutCallback) (*SolvedSolver[A], error) {
	start := time.Now()
	//
	stats, err := s.adaptor.SolveMut(callback, sealed)
	if err != nil {
		return nil, err
	}
	//
	return s.solved(stats, start), nil
}

func (s *LoadedSolver[A]) solved(stats SolverStats, start time.Time) *SolvedSolver[A] {
	if stats.WallTimeMillis == 0 {
		stats.WallTimeMillis = time.Since(start).Milliseconds()
	}
	//
	stats.Adaptor = s.adaptor.Name(sealed)
	//
	if ctx := s.model.Context; ctx != nil {
		ctx.UpdateStats(func(cs *contextStats) {
			cs.SolverSolutionsFound = stats.SolutionsFound
			cs.SolverNodes = stats.Nodes
			cs.Satisfiable = stats.Satisfiable
			cs.SolveTimeMillis = stats.WallTimeMillis
			cs.SolverAdaptor = stats.Adaptor
		})
	}
	//
	return &SolvedSolver[A]{s.adaptor, stats}
}

// SolvedSolver is the terminal state: execution succeeded and stats are
// available.
type SolvedSolver[A Adaptor] struct {
	adaptor A
	stats   SolverStats
}

// Stats returns the wall time and solver-reported metrics of the run.
func (s *SolvedSolver[A]) Stats() SolverStats { return s.stats }
