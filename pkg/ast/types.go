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

// Type describes the value an expression evaluates to.  Typing here is
// structural and shallow: it exists so that rules can dispatch on whether a
// node is boolean, integer or aggregate, not to re-typecheck the model (the
// parser hands us a fully-typed tree).
type Type interface {
	fmt.Stringer
	//
	isType()
}

// Typeable is anything which has a type.
type Typeable interface {
	// ReturnType returns the type this element evaluates to, or UnknownType
	// where it cannot be determined locally.
	ReturnType() Type
}

// ============================================================================
// Ground types
// ============================================================================

// BoolType is the type of boolean expressions.
type BoolType struct{}

// IntType is the type of integer expressions.
type IntType struct{}

// UnknownType indicates a type which cannot be determined locally, for
// example the type of a metavariable.
type UnknownType struct{}

func (BoolType) isType()    {}
func (IntType) isType()     {}
func (UnknownType) isType() {}

func (BoolType) String() string    { return "bool" }
func (IntType) String() string     { return "int" }
func (UnknownType) String() string { return "?" }

// ============================================================================
// Aggregate types
// ============================================================================

// MatrixType is the type of matrix expressions.
type MatrixType struct {
	// Type of the matrix elements.
	Elem Type
}

// TupleType is the type of tuple expressions.
type TupleType struct {
	Elems []Type
}

// RecordType is the type of record expressions.
type RecordType struct {
	Fields []Type
}

func (MatrixType) isType() {}
func (TupleType) isType()  {}
func (RecordType) isType() {}

func (t MatrixType) String() string {
	return fmt.Sprintf("matrix of %s", t.Elem)
}

func (t TupleType) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("tuple (%s)", strings.Join(elems, ", "))
}

func (t RecordType) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f.String()
	}
	//
	return fmt.Sprintf("record {%s}", strings.Join(fields, ", "))
}

// IsBoolType checks whether the given type is boolean.
func IsBoolType(t Type) bool {
	_, ok := t.(BoolType)
	return ok
}

// IsIntType checks whether the given type is integer.
func IsIntType(t Type) bool {
	_, ok := t.(IntType)
	return ok
}
