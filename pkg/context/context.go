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
package context

import (
	"encoding/json"
	"sync"
)

// SolverFamily identifies a family of solver backends: each family has its
// own default rule sets and its own lowered target form.
type SolverFamily int

const (
	// Minion targets the Minion constraint solver.
	Minion SolverFamily = iota
	// Sat targets CNF SAT solvers.
	Sat
	// Smt targets SMT solvers.
	Smt
)

func (f SolverFamily) String() string {
	switch f {
	case Minion:
		return "Minion"
	case Sat:
		return "SAT"
	case Smt:
		return "SMT"
	}
	//
	return "unknown"
}

// ExpanderKind selects how comprehensions are unrolled.
type ExpanderKind int

const (
	// NativeExpander enumerates generator domains in-process.
	NativeExpander ExpanderKind = iota
	// ViaSolverExpander enumerates satisfying assignments with a backend.
	ViaSolverExpander
)

// Stats accumulates run statistics, updated as the pipeline progresses.
type Stats struct {
	// Number of successful rewrites.
	RewriterRuleApplications uint64 `json:"rewriterRuleApplications"`
	// Number of solutions found.
	SolverSolutionsFound uint64 `json:"solverSolutionsFound"`
	// Nodes explored by the backend, where reported.
	SolverNodes uint64 `json:"solverNodes"`
	// Whether the model was satisfiable.
	Satisfiable bool `json:"satisfiable"`
	// Wall time of the solve step, milliseconds.
	SolveTimeMillis int64 `json:"solveTimeMillis"`
	// Adaptor used for the solve step.
	SolverAdaptor string `json:"solverAdaptor,omitempty"`
}

// Context is the shared execution metadata of one run: the target solver
// family, the configuration flags and the statistics accumulated so far.
// Rule predicates read it; stats updates and file-name initialisation write
// it.  A reader/writer lock guards both directions.
type Context struct {
	mu sync.RWMutex
	// The target solver family for this run.
	family SolverFamily
	// Input file currently being solved, once known.
	filename string
	// Extra rule-set names requested on top of the family defaults.
	extraRuleSets []string
	// Comprehension expansion strategy.
	expander ExpanderKind
	// Assert that at most one rule of a group applies at each node.
	CheckEquallyApplicableRules bool
	// Stop after rewriting, without solving.
	ExitAfterUnrolling bool
	// Save the backend-native input file for debugging.
	SaveSolverInputFile bool
	//
	stats Stats
}

// NewContext creates an execution context for the given solver family.
func NewContext(family SolverFamily) *Context {
	return &Context{family: family}
}

// Family returns the target solver family.
func (c *Context) Family() SolverFamily {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return c.family
}

// Filename returns the input file of this run, if initialised.
func (c *Context) Filename() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return c.filename
}

// SetFilename records the input file of this run.
func (c *Context) SetFilename(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	c.filename = filename
}

// ExtraRuleSets returns the rule-set names requested on top of the family
// defaults.
func (c *Context) ExtraRuleSets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return append([]string(nil), c.extraRuleSets...)
}

// AddExtraRuleSet requests an additional rule set for this run.
func (c *Context) AddExtraRuleSet(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	c.extraRuleSets = append(c.extraRuleSets, name)
}

// Expander returns the comprehension expansion strategy.
func (c *Context) Expander() ExpanderKind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return c.expander
}

// SetExpander selects the comprehension expansion strategy.
func (c *Context) SetExpander(kind ExpanderKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	c.expander = kind
}

// UpdateStats applies a mutation to the statistics under the write lock.
func (c *Context) UpdateStats(f func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	f(&c.stats)
}

// Stats returns a snapshot of the statistics.
func (c *Context) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return c.stats
}

// MarshalJSON renders a snapshot of the context for the stats file.
func (c *Context) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	//
	return json.Marshal(struct {
		Family   string `json:"solverFamily"`
		Filename string `json:"file,omitempty"`
		Stats    Stats  `json:"stats"`
	}{c.family.String(), c.filename, c.stats})
}
