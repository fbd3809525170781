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
package ast

import "fmt"

// Bubble pairs a value with an undefinedness guard.  Partial operations
// (division, indexing out of range, and so on) are wrapped in bubbles by the
// bubbling rules; the guard then floats towards the root, where it is
// conjoined with the enclosing boolean context.  Unsafe operator variants may
// only appear in the value position of a bubble.
type Bubble struct {
	Metadata
	// The possibly-undefined value.
	Value Expression
	// The side condition under which the value is defined.
	Condition Expression
}

// NewBubble attaches a definedness condition to a value.
func NewBubble(value Expression, condition Expression) *Bubble {
	return &Bubble{Metadata{}, value, condition}
}

// Meta implementation for the Expression interface.
func (e *Bubble) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Bubble) Children() []Expression { return []Expression{e.Value, e.Condition} }

// WithChildren implementation for the Expression interface.
func (e *Bubble) WithChildren(children []Expression) Expression {
	arityCheck("Bubble", children, 2)
	return &Bubble{e.Metadata, children[0], children[1]}
}

// ReturnType implementation for the Typeable interface.
func (e *Bubble) ReturnType() Type { return e.Value.ReturnType() }

func (e *Bubble) String() string {
	return fmt.Sprintf("{%s @ %s}", e.Value, e.Condition)
}
