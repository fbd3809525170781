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
)

// Applicable pairs a rule with the update it produced for the node under
// consideration.
type Applicable struct {
	Rule   Rule
	Update Update
}

// Selector picks one update when more than one rule in the same group fires
// on a node.  The engine only consults the selector for genuine conflicts: a
// single applicable rule is taken directly.
type Selector func(expr ast.Expression, applicable []Applicable) Applicable

// SelectFirst takes the first applicable rule.
func SelectFirst(_ ast.Expression, applicable []Applicable) Applicable {
	return applicable[0]
}

// SelectPanic asserts that rules within a group never overlap.  Multiple
// applicable rules on one node indicate a non-confluent rule set; tests run
// with this selector to surface that bug.
func SelectPanic(expr ast.Expression, applicable []Applicable) Applicable {
	names := make([]string, len(applicable))
	for i, a := range applicable {
		names[i] = a.Rule.Name
	}
	//
	panic(fmt.Sprintf("rules %v are equally applicable to %s", names, expr))
}

// SelectStable takes the applicable rule with the lexicographically smallest
// name, making selection deterministic under any registration order.
func SelectStable(_ ast.Expression, applicable []Applicable) Applicable {
	best := applicable[0]
	//
	for _, a := range applicable[1:] {
		if a.Rule.Name < best.Rule.Name {
			best = a
		}
	}
	//
	return best
}
