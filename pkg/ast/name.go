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

// Name identifies a declaration within a symbol table.  Names come in four
// forms: those written by the user; machine names generated for auxiliary
// variables; represented names identifying one atomic piece of a lowered
// abstract variable (e.g. "x__tuple_to_atom__1"); and reference-site wrappers
// recording which representation(s) to use when consulting the symbol table.
type Name interface {
	fmt.Stringer
	// BaseName returns the name with any representation wrapper stripped.
	// Symbol tables are always keyed by base names.
	BaseName() Name
	//
	isName()
}

// ============================================================================
// UserName
// ============================================================================

// UserName is a name as written in the source model.
type UserName string

func (n UserName) isName() {}

// BaseName implementation for the Name interface.
func (n UserName) BaseName() Name { return n }

func (n UserName) String() string { return string(n) }

// ============================================================================
// MachineName
// ============================================================================

// MachineName is a gensymmed name for an auxiliary variable or temporary.
// Machine names are unique within their root symbol table.
type MachineName int

func (n MachineName) isName() {}

// BaseName implementation for the Name interface.
func (n MachineName) BaseName() Name { return n }

func (n MachineName) String() string { return fmt.Sprintf("__%d", int(n)) }

// ============================================================================
// RepresentedName
// ============================================================================

// RepresentedName identifies a concrete represented piece of an abstract
// variable.  For example, the second component of a tuple variable "x" lowered
// by the tuple_to_atom representation is named "x__tuple_to_atom__2".
type RepresentedName struct {
	// Name of the abstract variable being represented.
	Inner Name
	// Name of the representation rule (e.g. "tuple_to_atom").
	Rule string
	// Distinguishes the pieces of the representation (e.g. a tuple index).
	Suffix string
}

func (n RepresentedName) isName() {}

// BaseName implementation for the Name interface.
func (n RepresentedName) BaseName() Name { return n }

func (n RepresentedName) String() string {
	return fmt.Sprintf("%s__%s__%s", n.Inner, n.Rule, n.Suffix)
}

// ============================================================================
// WithRepresentation
// ============================================================================

// WithRepresentation wraps a name at a reference site, indicating which
// representation(s) should be used when consulting the symbol table.  The
// representation-selection rule introduces this wrapper; lowering rules
// pattern-match on it.
type WithRepresentation struct {
	// The wrapped name.
	Inner Name
	// Ordered representation tags, outermost first.
	Representations []string
}

func (n WithRepresentation) isName() {}

// BaseName implementation for the Name interface.
func (n WithRepresentation) BaseName() Name { return n.Inner.BaseName() }

func (n WithRepresentation) String() string {
	return fmt.Sprintf("%s#%s", n.Inner, strings.Join(n.Representations, "#"))
}

// ============================================================================
// Helpers
// ============================================================================

// NameKey returns the canonical string form under which a name is stored in a
// symbol table.  Representation wrappers are stripped, since they decorate
// reference sites rather than declarations.
func NameKey(n Name) string {
	return n.BaseName().String()
}

// NamesEqual checks two names for equality, ignoring representation wrappers
// on neither side.
func NamesEqual(a Name, b Name) bool {
	return a.String() == b.String()
}
