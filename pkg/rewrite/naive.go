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
	"github.com/conjure-cp/conjure-go/pkg/ast"
)

// RewriteNaive rewrites a submodel to fixpoint by restarting the whole
// pre-order walk from the root after every successful application.  This is
// quadratic where the tagged zipper is not, but its simplicity makes it the
// reference the optimised engine is checked against.
func (e *Engine) RewriteNaive(sm *ast.SubModel) error {
	symbols := sm.Symbols()
	//
	for {
		changed, err := e.naiveStep(sm, symbols)
		if err != nil {
			return err
		}
		//
		if !changed {
			return nil
		}
	}
}

// naiveStep performs at most one rewrite, scanning groups in order and the
// tree in pre-order.
func (e *Engine) naiveStep(sm *ast.SubModel, symbols *ast.SymbolTable) (bool, error) {
	for _, group := range e.groups {
		zipper := NewZipper(sm.Root())
		//
		for zipper.GoNextDirty(0) {
			applicable, err := e.applicableRules(group, zipper, symbols)
			if err != nil {
				return false, err
			}
			//
			if len(applicable) == 0 {
				zipper.SetDirtyFrom(1)
				continue
			}
			//
			selected := e.selectOne(zipper.Focus(), applicable)
			e.fired(selected, zipper.Path())
			//
			zipper.ReplaceFocus(selected.Update.NewSubtree)
			//
			if selected.Update.Symbols != nil {
				symbols.Extend(selected.Update.Symbols)
			}
			//
			sm.ReplaceRoot(zipper.Rebuild())
			sm.AddConstraints(selected.Update.NewConstraints)
			//
			return true, nil
		}
	}
	//
	return false, nil
}
