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

import (
	"fmt"
	"strings"

	"github.com/conjure-cp/conjure-go/pkg/util"
)

// ============================================================================
// Index
// ============================================================================

// Index accesses one element of a matrix, tuple or record subject.  The
// unsafe form is what the parser produces; the bubbling rules establish an
// in-range side condition and convert it to the safe form.
type Index struct {
	Metadata
	// Safe marks that an in-range guard has been established.
	Safe    bool
	Subject Expression
	// One index per dimension of the subject.
	Indices []Expression
}

// NewUnsafeIndex builds an unguarded index access.
func NewUnsafeIndex(subject Expression, indices ...Expression) *Index {
	return &Index{Metadata{}, false, subject, indices}
}

// NewSafeIndex builds a guarded index access.
func NewSafeIndex(subject Expression, indices ...Expression) *Index {
	return &Index{Metadata{}, true, subject, indices}
}

// Meta implementation for the Expression interface.
func (e *Index) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Index) Children() []Expression {
	children := make([]Expression, 0, len(e.Indices)+1)
	children = append(children, e.Subject)
	children = append(children, e.Indices...)
	//
	return children
}

// WithChildren implementation for the Expression interface.
func (e *Index) WithChildren(children []Expression) Expression {
	arityCheck("Index", children, len(e.Indices)+1)
	return &Index{e.Metadata, e.Safe, children[0], children[1:]}
}

// ReturnType implementation for the Typeable interface.
func (e *Index) ReturnType() Type {
	switch t := e.Subject.ReturnType().(type) {
	case MatrixType:
		return t.Elem
	case TupleType:
		if idx, ok := AsIntLiteral(e.Indices[0]); ok && idx >= 1 && int(idx) <= len(t.Elems) {
			return t.Elems[idx-1]
		}
	}
	//
	return UnknownType{}
}

func (e *Index) String() string {
	return fmt.Sprintf("%s[%s]", e.Subject, strings.Join(exprsToStrings(e.Indices), ", "))
}

// ============================================================================
// Slice
// ============================================================================

// Slice accesses a one-dimensional slice of a matrix subject.  Exactly one
// index position is a hole (None), marking the sliced axis; all others are
// fixed.  As with indexing, the unsafe form must be guarded by bubbling rules
// before reaching solver-facing flat form.
type Slice struct {
	Metadata
	// Safe marks that an in-range guard has been established.
	Safe    bool
	Subject Expression
	// One entry per dimension; the hole is the sliced axis.
	Indices []util.Option[Expression]
}

// NewUnsafeSlice builds an unguarded slice access.
func NewUnsafeSlice(subject Expression, indices ...util.Option[Expression]) *Slice {
	return &Slice{Metadata{}, false, subject, indices}
}

// NewSafeSlice builds a guarded slice access.
func NewSafeSlice(subject Expression, indices ...util.Option[Expression]) *Slice {
	return &Slice{Metadata{}, true, subject, indices}
}

// Meta implementation for the Expression interface.
func (e *Slice) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.  Holes contribute no
// child.
func (e *Slice) Children() []Expression {
	children := []Expression{e.Subject}
	for _, idx := range e.Indices {
		if idx.HasValue() {
			children = append(children, idx.Unwrap())
		}
	}
	//
	return children
}

// WithChildren implementation for the Expression interface.
func (e *Slice) WithChildren(children []Expression) Expression {
	indices := make([]util.Option[Expression], len(e.Indices))
	next := 1
	//
	for i, idx := range e.Indices {
		if idx.HasValue() {
			indices[i] = util.Some(children[next])
			next++
		} else {
			indices[i] = util.None[Expression]()
		}
	}
	//
	arityCheck("Slice", children, next)
	//
	return &Slice{e.Metadata, e.Safe, children[0], indices}
}

// ReturnType implementation for the Typeable interface.
func (e *Slice) ReturnType() Type {
	if t, ok := e.Subject.ReturnType().(MatrixType); ok {
		return MatrixType{t.Elem}
	}
	//
	return UnknownType{}
}

// HoleAxis returns the index of the sliced axis.
func (e *Slice) HoleAxis() int {
	for i, idx := range e.Indices {
		if idx.IsEmpty() {
			return i
		}
	}
	//
	panic("slice without a hole")
}

func (e *Slice) String() string {
	indices := make([]string, len(e.Indices))
	for i, idx := range e.Indices {
		if idx.HasValue() {
			indices[i] = idx.Unwrap().String()
		} else {
			indices[i] = ".."
		}
	}
	//
	return fmt.Sprintf("%s[%s]", e.Subject, strings.Join(indices, ", "))
}

// ============================================================================
// Flatten
// ============================================================================

// Flatten flattens a nested matrix expression, to the given depth or
// completely when no depth is given.
type Flatten struct {
	Metadata
	Depth   util.Option[int]
	Subject Expression
}

// NewFlatten flattens the subject completely.
func NewFlatten(subject Expression) *Flatten {
	return &Flatten{Metadata{}, util.None[int](), subject}
}

// NewFlattenDepth flattens the subject to the given depth.
func NewFlattenDepth(depth int, subject Expression) *Flatten {
	return &Flatten{Metadata{}, util.Some(depth), subject}
}

// Meta implementation for the Expression interface.
func (e *Flatten) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Flatten) Children() []Expression { return []Expression{e.Subject} }

// WithChildren implementation for the Expression interface.
func (e *Flatten) WithChildren(children []Expression) Expression {
	arityCheck("Flatten", children, 1)
	return &Flatten{e.Metadata, e.Depth, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *Flatten) ReturnType() Type {
	t := e.Subject.ReturnType()
	for {
		m, ok := t.(MatrixType)
		if !ok {
			break
		}
		//
		t = m.Elem
	}
	//
	return MatrixType{t}
}

func (e *Flatten) String() string {
	if e.Depth.HasValue() {
		return fmt.Sprintf("flatten(%d, %s)", e.Depth.Unwrap(), e.Subject)
	}
	//
	return fmt.Sprintf("flatten(%s)", e.Subject)
}
