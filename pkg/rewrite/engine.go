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

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	log "github.com/sirupsen/logrus"
)

// TraceEntry records one successful rewrite, for the human-readable rule
// trace.
type TraceEntry struct {
	// Name of the rule which fired.
	Rule string
	// Dotted child-index path of the rewrite site.
	Path string
}

func (t TraceEntry) String() string {
	return fmt.Sprintf("rule fired: %s at %s", t.Rule, t.Path)
}

// Engine exhaustively rewrites a model using priority-grouped rules.
//
// The engine applies rules in an earlier group to the entire tree before
// trying later groups: no rule is attempted while a rule in an earlier group
// is applicable anywhere.  On every successful rewrite, traversal restarts
// with the first group from the root, since higher-priority rules may fire on
// newly-introduced expressions; the zipper's dirty tags avoid re-probing
// unchanged nodes.  Rewriting is complete when no rule in any group fires
// anywhere.
type Engine struct {
	groups   []Group
	selector Selector
	// Trace, when set, receives one entry per successful rewrite.
	Trace func(TraceEntry)
	// Context, when set, accumulates rewrite statistics.
	Context *context.Context
}

// NewEngine builds an engine over the given rule groups and selector.
func NewEngine(groups []Group, selector Selector) *Engine {
	return &Engine{groups: groups, selector: selector}
}

// RewriteModel rewrites the model's top-level submodel to fixpoint.
func (e *Engine) RewriteModel(m *ast.Model) error {
	return e.RewriteSubModel(m.AsSubModel())
}

// RewriteSubModel rewrites a submodel to fixpoint.  The root expression
// remains a Root; the symbol table only ever grows; side constraints
// produced by rules are appended to this submodel's root.
func (e *Engine) RewriteSubModel(sm *ast.SubModel) error {
	zipper := NewZipper(sm.Root())
	symbols := sm.Symbols()
	//
main:
	for {
		// Return here after every successful rule application.
		for level, group := range e.groups {
			// Try each rule group on the whole tree.
			for zipper.GoNextDirty(level) {
				applicable, err := e.applicableRules(group, zipper, symbols)
				if err != nil {
					return err
				}
				//
				if len(applicable) == 0 {
					// This level is exhausted here.
					zipper.SetDirtyFrom(level + 1)
					continue
				}
				//
				selected := e.selectOne(zipper.Focus(), applicable)
				e.fired(selected, zipper.Path())
				//
				zipper.ReplaceFocus(selected.Update.NewSubtree)
				zipper.MarkDirtyToRoot()
				//
				if selected.Update.Symbols != nil {
					symbols.Extend(selected.Update.Symbols)
				}
				//
				if len(selected.Update.NewConstraints) > 0 {
					// Splicing into the root redefines the whole tree, so the
					// node states must be thrown away.
					root := zipper.Rebuild().(*ast.Root)
					constraints := append(root.Constraints, selected.Update.NewConstraints...)
					zipper = NewZipper(root.WithChildren(constraints))
				}
				//
				continue main
			}
		}
		//
		// All rules have been tried with no more changes.
		break
	}
	//
	sm.ReplaceRoot(zipper.Rebuild())
	//
	return nil
}

// applicableRules attempts every rule of a group on the focus, collecting
// the successful updates.  A rule error other than ErrNotApplicable is
// fatal and is annotated with the rule name and node position.
func (e *Engine) applicableRules(group Group, zipper *Zipper, symbols *ast.SymbolTable) ([]Applicable, error) {
	var applicable []Applicable
	//
	for _, rule := range group.Rules {
		update, err := rule.Apply(zipper.Focus(), symbols)
		//
		switch {
		case err == nil:
			applicable = append(applicable, Applicable{rule, update})
		case err == ErrNotApplicable:
			// try the next rule
		default:
			return nil, fmt.Errorf("rule %s at %s: %w", rule.Name, zipper.Path(), err)
		}
	}
	//
	return applicable, nil
}

// selectOne picks the update to apply.  The selector is only consulted when
// several rules fire at once.
func (e *Engine) selectOne(expr ast.Expression, applicable []Applicable) Applicable {
	if len(applicable) == 1 {
		return applicable[0]
	}
	//
	return e.selector(expr, applicable)
}

// fired reports a successful application to the trace and the stats.
func (e *Engine) fired(selected Applicable, path string) {
	entry := TraceEntry{selected.Rule.Name, path}
	log.Debugf("%s", entry)
	//
	if e.Trace != nil {
		e.Trace(entry)
	}
	//
	if e.Context != nil {
		e.Context.UpdateStats(func(s *context.Stats) {
			s.RewriterRuleApplications++
		})
	}
}
