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
	"strings"

	"github.com/conjure-cp/conjure-go/pkg/ast"
)

// node is one entry of the zipper's shadow tree.  The shadow tree persists
// across moves, so per-node engine state survives as the focus wanders.
// Children are materialised lazily on first descent.
type node struct {
	expr ast.Expression
	// Rule groups with indices below dirtyFrom have been fully attempted on
	// this node without change.  For a level n, the node is dirty iff
	// n >= dirtyFrom.
	dirtyFrom int
	// Materialised children, or nil if not yet descended into.
	children     []*node
	materialised bool
}

func newNode(expr ast.Expression) *node {
	return &node{expr: expr}
}

// Zipper walks an expression tree with O(1) local moves, in-place focus
// replacement, and a per-node dirty tag driving the rewrite engine's
// traversal.  Naively restarting from the root after every rewrite is
// quadratic; the dirty tags let the engine resume from the next candidate
// node, re-probing only the ancestors-to-root path.
type Zipper struct {
	root *node
	// Ancestors of the focus, outermost first.
	path []*node
	// Child index taken at each ancestor.
	indexes []int
	focus   *node
}

// NewZipper constructs a zipper focused on the root of the given tree.  All
// nodes start dirty at every level.
func NewZipper(expr ast.Expression) *Zipper {
	root := newNode(expr)
	return &Zipper{root: root, focus: root}
}

// Focus returns the expression at the focus.
func (z *Zipper) Focus() ast.Expression { return z.focus.expr }

// ReplaceFocus swaps the focused subtree for a replacement.  The node state
// of the old subtree is discarded; the replacement starts dirty at every
// level.
func (z *Zipper) ReplaceFocus(expr ast.Expression) {
	z.focus.expr = expr
	z.focus.children = nil
	z.focus.materialised = false
	z.focus.dirtyFrom = 0
}

// IsDirty checks whether the focus is dirty at the given level.
func (z *Zipper) IsDirty(level int) bool { return level >= z.focus.dirtyFrom }

// SetDirtyFrom records that the focus has been attempted without change at
// all levels below the given one.
func (z *Zipper) SetDirtyFrom(level int) { z.focus.dirtyFrom = level }

// AtRoot checks whether the focus is the root.
func (z *Zipper) AtRoot() bool { return len(z.path) == 0 }

// Path renders the position of the focus as a dotted child-index path from
// the root, e.g. "0.2.1".  The root itself renders as "$".
func (z *Zipper) Path() string {
	if len(z.indexes) == 0 {
		return "$"
	}
	//
	parts := make([]string, len(z.indexes))
	for i, idx := range z.indexes {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	//
	return strings.Join(parts, ".")
}

// GoDown moves the focus to its first child, if any.
func (z *Zipper) GoDown() bool {
	z.materialise(z.focus)
	//
	if len(z.focus.children) == 0 {
		return false
	}
	//
	z.path = append(z.path, z.focus)
	z.indexes = append(z.indexes, 0)
	z.focus = z.focus.children[0]
	//
	return true
}

// GoRight moves the focus to its next sibling, if any.
func (z *Zipper) GoRight() bool {
	if len(z.path) == 0 {
		return false
	}
	//
	parent := z.path[len(z.path)-1]
	idx := z.indexes[len(z.indexes)-1]
	//
	if idx+1 >= len(parent.children) {
		return false
	}
	//
	z.indexes[len(z.indexes)-1] = idx + 1
	z.focus = parent.children[idx+1]
	//
	return true
}

// GoUp moves the focus to its parent, rebuilding the parent expression from
// the (possibly replaced) children.
func (z *Zipper) GoUp() bool {
	if len(z.path) == 0 {
		return false
	}
	//
	parent := z.path[len(z.path)-1]
	z.path = z.path[:len(z.path)-1]
	z.indexes = z.indexes[:len(z.indexes)-1]
	//
	rebuild(parent)
	z.focus = parent
	//
	return true
}

// GoNextDirty performs a pre-order search from the focus for the nearest
// node dirty at the given level; that node may be the focus itself.  Returns
// false if no such node exists, leaving the focus at the root.
func (z *Zipper) GoNextDirty(level int) bool {
	if z.IsDirty(level) {
		return true
	}
	//
	// Scan the children for a dirty one.
	if z.GoDown() {
		for {
			if z.IsDirty(level) {
				return true
			}
			//
			if !z.GoRight() {
				// All children clean.
				z.GoUp()
				break
			}
		}
	}
	//
	// Neither this node nor its children are dirty: sweep right then up
	// until a dirty node is found or the root is reached.
	for {
		if z.GoRight() {
			if z.IsDirty(level) {
				return true
			}
		} else if !z.GoUp() {
			return false
		}
	}
}

// MarkDirtyToRoot resets the dirty tag of every ancestor and returns the
// focus to the root.  A rewrite may make the ancestor chain newly rewritable,
// so the whole path is re-probed.
func (z *Zipper) MarkDirtyToRoot() {
	for z.GoUp() {
		z.SetDirtyFrom(0)
	}
}

// Rebuild returns the whole tree, reflecting every replacement made so far.
// The focus moves to the root.
func (z *Zipper) Rebuild() ast.Expression {
	z.MarkDirtyToRoot()
	return z.root.expr
}

// ============================================================================
// Internals
// ============================================================================

// materialise populates the children of a node from its expression.
func (z *Zipper) materialise(n *node) {
	if n.materialised {
		return
	}
	//
	children := n.expr.Children()
	n.children = make([]*node, len(children))
	//
	for i, child := range children {
		n.children[i] = newNode(child)
	}
	//
	n.materialised = true
}

// rebuild recomputes a node's expression from its materialised children.
func rebuild(n *node) {
	if !n.materialised {
		return
	}
	//
	children := make([]ast.Expression, len(n.children))
	for i, child := range n.children {
		children[i] = child.expr
	}
	//
	n.expr = n.expr.WithChildren(children)
}
