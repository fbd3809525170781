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
)

// Literal is a fully-evaluated constant value: an integer, a boolean, or an
// abstract literal (matrix, tuple or record) of literals.  Literals are atoms,
// and are what solvers report solutions in terms of.
type Literal interface {
	Atom
	// EqualLiteral checks (deep) equality with another literal.
	EqualLiteral(other Literal) bool
	//
	isLiteral()
}

// ============================================================================
// IntLit
// ============================================================================

// IntLit is an integer literal.
type IntLit int64

func (l IntLit) isAtom()    {}
func (l IntLit) isLiteral() {}

// ReturnType implementation for the Typeable interface.
func (l IntLit) ReturnType() Type { return IntType{} }

// EqualLiteral implementation for the Literal interface.
func (l IntLit) EqualLiteral(other Literal) bool {
	o, ok := other.(IntLit)
	return ok && o == l
}

func (l IntLit) String() string { return fmt.Sprintf("%d", int64(l)) }

// ============================================================================
// BoolLit
// ============================================================================

// BoolLit is a boolean literal.
type BoolLit bool

func (l BoolLit) isAtom()    {}
func (l BoolLit) isLiteral() {}

// ReturnType implementation for the Typeable interface.
func (l BoolLit) ReturnType() Type { return BoolType{} }

// EqualLiteral implementation for the Literal interface.
func (l BoolLit) EqualLiteral(other Literal) bool {
	o, ok := other.(BoolLit)
	return ok && o == l
}

func (l BoolLit) String() string { return fmt.Sprintf("%t", bool(l)) }

// ============================================================================
// MatrixLit
// ============================================================================

// MatrixLit is a matrix of literals, together with its index domain.
type MatrixLit struct {
	Elems []Literal
	// Domain the matrix is indexed by.  One-dimensional matrices have
	// exactly one index domain; nested matrices nest MatrixLit values.
	Index Domain
}

func (l MatrixLit) isAtom()    {}
func (l MatrixLit) isLiteral() {}

// ReturnType implementation for the Typeable interface.
func (l MatrixLit) ReturnType() Type {
	if len(l.Elems) == 0 {
		return MatrixType{UnknownType{}}
	}
	//
	return MatrixType{l.Elems[0].ReturnType()}
}

// EqualLiteral implementation for the Literal interface.
func (l MatrixLit) EqualLiteral(other Literal) bool {
	o, ok := other.(MatrixLit)
	if !ok || len(o.Elems) != len(l.Elems) {
		return false
	}
	//
	for i := range l.Elems {
		if !l.Elems[i].EqualLiteral(o.Elems[i]) {
			return false
		}
	}
	//
	return true
}

func (l MatrixLit) String() string {
	return fmt.Sprintf("[%s]", strings.Join(literalsToStrings(l.Elems), ", "))
}

// ============================================================================
// TupleLit
// ============================================================================

// TupleLit is a tuple of literals.
type TupleLit struct {
	Elems []Literal
}

func (l TupleLit) isAtom()    {}
func (l TupleLit) isLiteral() {}

// ReturnType implementation for the Typeable interface.
func (l TupleLit) ReturnType() Type {
	elems := make([]Type, len(l.Elems))
	for i, e := range l.Elems {
		elems[i] = e.ReturnType()
	}
	//
	return TupleType{elems}
}

// EqualLiteral implementation for the Literal interface.
func (l TupleLit) EqualLiteral(other Literal) bool {
	o, ok := other.(TupleLit)
	if !ok || len(o.Elems) != len(l.Elems) {
		return false
	}
	//
	for i := range l.Elems {
		if !l.Elems[i].EqualLiteral(o.Elems[i]) {
			return false
		}
	}
	//
	return true
}

func (l TupleLit) String() string {
	return fmt.Sprintf("(%s)", strings.Join(literalsToStrings(l.Elems), ", "))
}

// ============================================================================
// RecordLit
// ============================================================================

// RecordEntry is one named field of a record literal.
type RecordEntry struct {
	Name  Name
	Value Literal
}

// RecordLit is a record of literals, with fields in declaration order.
type RecordLit struct {
	Fields []RecordEntry
}

func (l RecordLit) isAtom()    {}
func (l RecordLit) isLiteral() {}

// ReturnType implementation for the Typeable interface.
func (l RecordLit) ReturnType() Type {
	fields := make([]Type, len(l.Fields))
	for i, f := range l.Fields {
		fields[i] = f.Value.ReturnType()
	}
	//
	return RecordType{fields}
}

// EqualLiteral implementation for the Literal interface.
func (l RecordLit) EqualLiteral(other Literal) bool {
	o, ok := other.(RecordLit)
	if !ok || len(o.Fields) != len(l.Fields) {
		return false
	}
	//
	for i := range l.Fields {
		if !NamesEqual(l.Fields[i].Name, o.Fields[i].Name) ||
			!l.Fields[i].Value.EqualLiteral(o.Fields[i].Value) {
			return false
		}
	}
	//
	return true
}

func (l RecordLit) String() string {
	fields := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		fields[i] = fmt.Sprintf("%s = %s", f.Name, f.Value)
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
}

// ============================================================================
// Helpers
// ============================================================================

func literalsToStrings(lits []Literal) []string {
	strs := make([]string, len(lits))
	for i, l := range lits {
		strs[i] = l.String()
	}
	//
	return strs
}
