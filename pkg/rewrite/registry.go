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
	"fmt"
	"sort"

	"github.com/conjure-cp/conjure-go/pkg/context"
)

// Rules are registered into named rule sets at package-initialisation time,
// each registration carrying a priority within its set (higher fires
// earlier).  At engine start the requested sets are resolved into a flat
// list and grouped by priority.  The registry is read-only after init: the
// engine rebuilds its group vector per run rather than mutating shared
// state.

// registration is one rule within a rule set.
type registration struct {
	rule     Rule
	priority int
}

var ruleSets = make(map[string][]registration)

// Register adds a rule to a named rule set with the given priority.  Called
// from init functions of the rule library.
func Register(set string, priority int, rule Rule) {
	ruleSets[set] = append(ruleSets[set], registration{rule, priority})
}

// Group is one priority stratum of resolved rules.
type Group struct {
	Priority int
	Rules    []Rule
}

// ResolveRuleSets flattens the given rule sets into priority groups, highest
// priority first.  Within a group, rules are ordered by name so that
// resolution is deterministic regardless of registration order.  Fails on an
// unknown rule-set name.
func ResolveRuleSets(names ...string) ([]Group, error) {
	byPriority := make(map[int][]Rule)
	//
	for _, name := range names {
		registrations, ok := ruleSets[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule set %q", name)
		}
		//
		for _, reg := range registrations {
			byPriority[reg.priority] = append(byPriority[reg.priority], reg.rule)
		}
	}
	//
	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}
	//
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))
	//
	groups := make([]Group, len(priorities))
	//
	for i, p := range priorities {
		rules := byPriority[p]
		sort.Slice(rules, func(a, b int) bool { return rules[a].Name < rules[b].Name })
		groups[i] = Group{p, rules}
	}
	//
	return groups, nil
}

// RuleSetNames returns the names of all registered rule sets, sorted.
func RuleSetNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

// DefaultRuleSets returns the rule sets enabled by default for a solver
// family.
func DefaultRuleSets(family context.SolverFamily) []string {
	switch family {
	case context.Minion:
		return []string{"Base", "Bubble", "Minion"}
	case context.Sat:
		return []string{"Base", "Bubble", "CNF"}
	case context.Smt:
		return []string{"Base", "Bubble", "Smt"}
	}
	//
	return []string{"Base", "Bubble"}
}
