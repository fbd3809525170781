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
	"sync/atomic"
)

// DeclarationKind distinguishes the ways a name can be declared.  The kind of
// a declaration can be replaced in place (representation lowering and
// quantified-variable binding rely on this); its id never changes.
type DeclarationKind interface {
	fmt.Stringer
	//
	isDeclarationKind()
}

// DecisionVariable is a variable whose value the solver must determine (a
// "find" statement).
type DecisionVariable struct {
	Domain Domain
}

// ValueLetting is a compile-time binding of a name to an expression.
type ValueLetting struct {
	Value Expression
}

// DomainLetting is a compile-time binding of a name to a domain.
type DomainLetting struct {
	Domain Domain
}

// Given is an instance parameter: a value supplied at solve time.
type Given struct {
	Domain Domain
}

// Quantified is a comprehension-bound variable.
type Quantified struct {
	Domain Domain
}

// RecordField declares one field of a record domain.
type RecordField struct {
	Domain Domain
}

// TemporaryValueLetting is a transient binding installed while the native
// comprehension expander enumerates an assignment.  It is always reverted by
// the scoped guard that installed it.
type TemporaryValueLetting struct {
	Value Expression
}

func (*DecisionVariable) isDeclarationKind()      {}
func (*ValueLetting) isDeclarationKind()          {}
func (*DomainLetting) isDeclarationKind()         {}
func (*Given) isDeclarationKind()                 {}
func (*Quantified) isDeclarationKind()            {}
func (*RecordField) isDeclarationKind()           {}
func (*TemporaryValueLetting) isDeclarationKind() {}

func (k *DecisionVariable) String() string      { return fmt.Sprintf("find %s", k.Domain) }
func (k *ValueLetting) String() string          { return fmt.Sprintf("letting %s", k.Value) }
func (k *DomainLetting) String() string         { return fmt.Sprintf("letting domain %s", k.Domain) }
func (k *Given) String() string                 { return fmt.Sprintf("given %s", k.Domain) }
func (k *Quantified) String() string            { return fmt.Sprintf("quantified %s", k.Domain) }
func (k *RecordField) String() string           { return fmt.Sprintf("field %s", k.Domain) }
func (k *TemporaryValueLetting) String() string { return fmt.Sprintf("binding %s", k.Value) }

// ============================================================================
// Declaration
// ============================================================================

// Global declaration counter.  Ids are assigned at creation and are
// monotonic for the life of the process, giving declarations a stable
// identity independent of their (replaceable) name and kind.
var declarationCounter atomic.Uint64

// Declaration binds a name to a domain, value or parameter.  Declarations are
// shared: every reference atom for a variable points at the same declaration,
// so that kind replacement during representation lowering, and transient
// bindings during comprehension enumeration, are visible everywhere at once.
// Always handle declarations by pointer.
type Declaration struct {
	// Unique, stable id.
	id uint64
	// Name under which this declaration is (or will be) stored.  After
	// representation selection this may carry a WithRepresentation wrapper.
	name Name
	// The kind slot, replaceable in place.
	kind DeclarationKind
}

// NewDeclaration creates a declaration with a fresh id.
func NewDeclaration(name Name, kind DeclarationKind) *Declaration {
	return &Declaration{declarationCounter.Add(1), name, kind}
}

// NewDecisionVariable creates a find declaration.
func NewDecisionVariable(name Name, domain Domain) *Declaration {
	return NewDeclaration(name, &DecisionVariable{domain})
}

// NewValueLetting creates a value letting declaration.
func NewValueLetting(name Name, value Expression) *Declaration {
	return NewDeclaration(name, &ValueLetting{value})
}

// NewDomainLetting creates a domain letting declaration.
func NewDomainLetting(name Name, domain Domain) *Declaration {
	return NewDeclaration(name, &DomainLetting{domain})
}

// NewGiven creates a given declaration.
func NewGiven(name Name, domain Domain) *Declaration {
	return NewDeclaration(name, &Given{domain})
}

// NewQuantified creates a quantified declaration for a comprehension scope.
func NewQuantified(name Name, domain Domain) *Declaration {
	return NewDeclaration(name, &Quantified{domain})
}

// Id returns the unique id of this declaration.
func (d *Declaration) Id() uint64 { return d.id }

// Name returns the name of this declaration.
func (d *Declaration) Name() Name { return d.name }

// SetName replaces the name of this declaration.  The id is unchanged, so
// references remain valid.
func (d *Declaration) SetName(name Name) { d.name = name }

// Kind returns the current kind of this declaration.
func (d *Declaration) Kind() DeclarationKind { return d.kind }

// SetKind replaces the kind of this declaration in place.  All references
// observe the change.
func (d *Declaration) SetKind(kind DeclarationKind) { d.kind = kind }

// Domain returns the domain of this declaration, where it has one.
func (d *Declaration) Domain() (Domain, bool) {
	switch k := d.kind.(type) {
	case *DecisionVariable:
		return k.Domain, true
	case *DomainLetting:
		return k.Domain, true
	case *Given:
		return k.Domain, true
	case *Quantified:
		return k.Domain, true
	case *RecordField:
		return k.Domain, true
	}
	//
	return nil, false
}

// Value returns the bound value of this declaration, where it has one.
func (d *Declaration) Value() (Expression, bool) {
	switch k := d.kind.(type) {
	case *ValueLetting:
		return k.Value, true
	case *TemporaryValueLetting:
		return k.Value, true
	}
	//
	return nil, false
}

// IsDecisionVariable checks whether this declares a decision variable.
func (d *Declaration) IsDecisionVariable() bool {
	_, ok := d.kind.(*DecisionVariable)
	return ok
}

// ReturnType implementation for the Typeable interface.
func (d *Declaration) ReturnType() Type {
	if dom, ok := d.Domain(); ok {
		return dom.ValueType()
	}
	//
	if val, ok := d.Value(); ok {
		return val.ReturnType()
	}
	//
	return UnknownType{}
}

// BindTemporary installs a transient value binding, replacing the current
// kind, and returns a restore function.  The caller must invoke restore on
// unwind, including on early return.
func (d *Declaration) BindTemporary(value Literal) (restore func()) {
	saved := d.kind
	d.kind = &TemporaryValueLetting{NewLiteralExpr(value)}
	//
	return func() { d.kind = saved }
}

func (d *Declaration) String() string {
	return fmt.Sprintf("%s: %s", d.name, d.kind)
}
