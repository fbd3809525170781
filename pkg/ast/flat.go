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

// The flat constraint forms are introduced by the late-phase flattening rules
// and consumed directly by backend adaptors.  Their operands are atoms, so
// they are leaves of the expression tree.

// ============================================================================
// FlatSum
// ============================================================================

// FlatSumLeq asserts sum(terms) <= total.
type FlatSumLeq struct {
	Metadata
	Terms []Atom
	Total Atom
}

// FlatSumGeq asserts sum(terms) >= total.
type FlatSumGeq struct {
	Metadata
	Terms []Atom
	Total Atom
}

// NewFlatSumLeq builds a flat sum upper bound.
func NewFlatSumLeq(terms []Atom, total Atom) *FlatSumLeq {
	return &FlatSumLeq{Metadata{}, terms, total}
}

// NewFlatSumGeq builds a flat sum lower bound.
func NewFlatSumGeq(terms []Atom, total Atom) *FlatSumGeq {
	return &FlatSumGeq{Metadata{}, terms, total}
}

// Meta implementation for the Expression interface.
func (e *FlatSumLeq) Meta() Metadata { return e.Metadata }

// Meta implementation for the Expression interface.
func (e *FlatSumGeq) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatSumLeq) Children() []Expression { return nil }

// Children implementation for the Expression interface.
func (e *FlatSumGeq) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatSumLeq) WithChildren(children []Expression) Expression {
	arityCheck("FlatSumLeq", children, 0)
	return e
}

// WithChildren implementation for the Expression interface.
func (e *FlatSumGeq) WithChildren(children []Expression) Expression {
	arityCheck("FlatSumGeq", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatSumLeq) ReturnType() Type { return BoolType{} }

// ReturnType implementation for the Typeable interface.
func (e *FlatSumGeq) ReturnType() Type { return BoolType{} }

func (e *FlatSumLeq) String() string {
	return fmt.Sprintf("__flat_sumleq([%s], %s)", atomsToString(e.Terms), e.Total)
}

func (e *FlatSumGeq) String() string {
	return fmt.Sprintf("__flat_sumgeq([%s], %s)", atomsToString(e.Terms), e.Total)
}

// ============================================================================
// FlatIneq
// ============================================================================

// FlatIneq asserts left <= right + constant.
type FlatIneq struct {
	Metadata
	Left     Atom
	Right    Atom
	Constant IntLit
}

// NewFlatIneq builds a flat inequality left <= right + constant.
func NewFlatIneq(left Atom, right Atom, constant IntLit) *FlatIneq {
	return &FlatIneq{Metadata{}, left, right, constant}
}

// Meta implementation for the Expression interface.
func (e *FlatIneq) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatIneq) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatIneq) WithChildren(children []Expression) Expression {
	arityCheck("FlatIneq", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatIneq) ReturnType() Type { return BoolType{} }

func (e *FlatIneq) String() string {
	return fmt.Sprintf("__flat_ineq(%s, %s, %s)", e.Left, e.Right, e.Constant)
}

// ============================================================================
// FlatProductEq / FlatAbsEq / FlatMinusEq
// ============================================================================

// FlatProductEq asserts left * right = result.
type FlatProductEq struct {
	Metadata
	Left   Atom
	Right  Atom
	Result Atom
}

// FlatAbsEq asserts |value| = result.
type FlatAbsEq struct {
	Metadata
	Value  Atom
	Result Atom
}

// FlatMinusEq asserts left - right = result.
type FlatMinusEq struct {
	Metadata
	Left   Atom
	Right  Atom
	Result Atom
}

// NewFlatProductEq builds a flat product equality.
func NewFlatProductEq(left Atom, right Atom, result Atom) *FlatProductEq {
	return &FlatProductEq{Metadata{}, left, right, result}
}

// NewFlatAbsEq builds a flat absolute-value equality.
func NewFlatAbsEq(value Atom, result Atom) *FlatAbsEq {
	return &FlatAbsEq{Metadata{}, value, result}
}

// NewFlatMinusEq builds a flat subtraction equality.
func NewFlatMinusEq(left Atom, right Atom, result Atom) *FlatMinusEq {
	return &FlatMinusEq{Metadata{}, left, right, result}
}

// Meta implementation for the Expression interface.
func (e *FlatProductEq) Meta() Metadata { return e.Metadata }

// Meta implementation for the Expression interface.
func (e *FlatAbsEq) Meta() Metadata { return e.Metadata }

// Meta implementation for the Expression interface.
func (e *FlatMinusEq) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatProductEq) Children() []Expression { return nil }

// Children implementation for the Expression interface.
func (e *FlatAbsEq) Children() []Expression { return nil }

// Children implementation for the Expression interface.
func (e *FlatMinusEq) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatProductEq) WithChildren(children []Expression) Expression {
	arityCheck("FlatProductEq", children, 0)
	return e
}

// WithChildren implementation for the Expression interface.
func (e *FlatAbsEq) WithChildren(children []Expression) Expression {
	arityCheck("FlatAbsEq", children, 0)
	return e
}

// WithChildren implementation for the Expression interface.
func (e *FlatMinusEq) WithChildren(children []Expression) Expression {
	arityCheck("FlatMinusEq", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatProductEq) ReturnType() Type { return BoolType{} }

// ReturnType implementation for the Typeable interface.
func (e *FlatAbsEq) ReturnType() Type { return BoolType{} }

// ReturnType implementation for the Typeable interface.
func (e *FlatMinusEq) ReturnType() Type { return BoolType{} }

func (e *FlatProductEq) String() string {
	return fmt.Sprintf("__flat_producteq(%s, %s, %s)", e.Left, e.Right, e.Result)
}

func (e *FlatAbsEq) String() string {
	return fmt.Sprintf("__flat_abseq(%s, %s)", e.Value, e.Result)
}

func (e *FlatMinusEq) String() string {
	return fmt.Sprintf("__flat_minuseq(%s, %s, %s)", e.Left, e.Right, e.Result)
}

// ============================================================================
// FlatWeightedSum
// ============================================================================

// FlatWeightedSumLeq asserts sum(weights[i] * terms[i]) <= total.
type FlatWeightedSumLeq struct {
	Metadata
	Weights []IntLit
	Terms   []Atom
	Total   Atom
}

// FlatWeightedSumGeq asserts sum(weights[i] * terms[i]) >= total.
type FlatWeightedSumGeq struct {
	Metadata
	Weights []IntLit
	Terms   []Atom
	Total   Atom
}

// NewFlatWeightedSumLeq builds a flat weighted sum upper bound.
func NewFlatWeightedSumLeq(weights []IntLit, terms []Atom, total Atom) *FlatWeightedSumLeq {
	return &FlatWeightedSumLeq{Metadata{}, weights, terms, total}
}

// NewFlatWeightedSumGeq builds a flat weighted sum lower bound.
func NewFlatWeightedSumGeq(weights []IntLit, terms []Atom, total Atom) *FlatWeightedSumGeq {
	return &FlatWeightedSumGeq{Metadata{}, weights, terms, total}
}

// Meta implementation for the Expression interface.
func (e *FlatWeightedSumLeq) Meta() Metadata { return e.Metadata }

// Meta implementation for the Expression interface.
func (e *FlatWeightedSumGeq) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatWeightedSumLeq) Children() []Expression { return nil }

// Children implementation for the Expression interface.
func (e *FlatWeightedSumGeq) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatWeightedSumLeq) WithChildren(children []Expression) Expression {
	arityCheck("FlatWeightedSumLeq", children, 0)
	return e
}

// WithChildren implementation for the Expression interface.
func (e *FlatWeightedSumGeq) WithChildren(children []Expression) Expression {
	arityCheck("FlatWeightedSumGeq", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatWeightedSumLeq) ReturnType() Type { return BoolType{} }

// ReturnType implementation for the Typeable interface.
func (e *FlatWeightedSumGeq) ReturnType() Type { return BoolType{} }

func (e *FlatWeightedSumLeq) String() string {
	return fmt.Sprintf("__flat_wsumleq(%s, [%s], %s)", intLitsToString(e.Weights), atomsToString(e.Terms), e.Total)
}

func (e *FlatWeightedSumGeq) String() string {
	return fmt.Sprintf("__flat_wsumgeq(%s, [%s], %s)", intLitsToString(e.Weights), atomsToString(e.Terms), e.Total)
}

// ============================================================================
// FlatAllDiff
// ============================================================================

// FlatAllDiff asserts that all operand atoms take pairwise-distinct values.
type FlatAllDiff struct {
	Metadata
	Terms []Atom
}

// NewFlatAllDiff builds a flat alldifferent constraint.
func NewFlatAllDiff(terms []Atom) *FlatAllDiff {
	return &FlatAllDiff{Metadata{}, terms}
}

// Meta implementation for the Expression interface.
func (e *FlatAllDiff) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatAllDiff) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatAllDiff) WithChildren(children []Expression) Expression {
	arityCheck("FlatAllDiff", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatAllDiff) ReturnType() Type { return BoolType{} }

func (e *FlatAllDiff) String() string {
	return fmt.Sprintf("__flat_alldiff([%s])", atomsToString(e.Terms))
}

// ============================================================================
// FlatWatchedLiteral
// ============================================================================

// FlatWatchedLiteral asserts variable = value, as a watched literal.
type FlatWatchedLiteral struct {
	Metadata
	Variable *Declaration
	Value    Literal
}

// NewFlatWatchedLiteral builds a flat watched-literal constraint.
func NewFlatWatchedLiteral(variable *Declaration, value Literal) *FlatWatchedLiteral {
	return &FlatWatchedLiteral{Metadata{}, variable, value}
}

// Meta implementation for the Expression interface.
func (e *FlatWatchedLiteral) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *FlatWatchedLiteral) Children() []Expression { return nil }

// WithChildren implementation for the Expression interface.
func (e *FlatWatchedLiteral) WithChildren(children []Expression) Expression {
	arityCheck("FlatWatchedLiteral", children, 0)
	return e
}

// ReturnType implementation for the Typeable interface.
func (e *FlatWatchedLiteral) ReturnType() Type { return BoolType{} }

func (e *FlatWatchedLiteral) String() string {
	return fmt.Sprintf("__flat_watchlit(%s, %s)", e.Variable.Name(), e.Value)
}

// ============================================================================
// AuxDeclaration
// ============================================================================

// AuxDeclaration binds an auxiliary variable to an expression, as a top-level
// constraint.  Flattening rules introduce these when a nested expression must
// be given a name.
type AuxDeclaration struct {
	Metadata
	Decl  *Declaration
	Value Expression
}

// NewAuxDeclaration binds the given auxiliary declaration to a defining
// expression.
func NewAuxDeclaration(decl *Declaration, value Expression) *AuxDeclaration {
	return &AuxDeclaration{Metadata{}, decl, value}
}

// Meta implementation for the Expression interface.
func (e *AuxDeclaration) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *AuxDeclaration) Children() []Expression { return []Expression{e.Value} }

// WithChildren implementation for the Expression interface.
func (e *AuxDeclaration) WithChildren(children []Expression) Expression {
	arityCheck("AuxDeclaration", children, 1)
	return &AuxDeclaration{e.Metadata, e.Decl, children[0]}
}

// ReturnType implementation for the Typeable interface.
func (e *AuxDeclaration) ReturnType() Type { return BoolType{} }

func (e *AuxDeclaration) String() string {
	return fmt.Sprintf("__aux(%s, %s)", e.Decl.Name(), e.Value)
}

// ============================================================================
// Reify
// ============================================================================

// Reify asserts switch <-> constraint, reifying a constraint into a boolean
// atom.  ImplyOnly weakens this to switch -> constraint.
type Reify struct {
	Metadata
	Constraint Expression
	Switch     Atom
	// ImplyOnly requests half reification.
	ImplyOnly bool
}

// NewReify builds a full reification of the given constraint.
func NewReify(constraint Expression, sw Atom) *Reify {
	return &Reify{Metadata{}, constraint, sw, false}
}

// NewReifyImply builds a half reification of the given constraint.
func NewReifyImply(constraint Expression, sw Atom) *Reify {
	return &Reify{Metadata{}, constraint, sw, true}
}

// Meta implementation for the Expression interface.
func (e *Reify) Meta() Metadata { return e.Metadata }

// Children implementation for the Expression interface.
func (e *Reify) Children() []Expression { return []Expression{e.Constraint} }

// WithChildren implementation for the Expression interface.
func (e *Reify) WithChildren(children []Expression) Expression {
	arityCheck("Reify", children, 1)
	return &Reify{e.Metadata, children[0], e.Switch, e.ImplyOnly}
}

// ReturnType implementation for the Typeable interface.
func (e *Reify) ReturnType() Type { return BoolType{} }

func (e *Reify) String() string {
	if e.ImplyOnly {
		return fmt.Sprintf("__reifyimply(%s, %s)", e.Constraint, e.Switch)
	}
	//
	return fmt.Sprintf("__reify(%s, %s)", e.Constraint, e.Switch)
}

// ============================================================================
// Helpers
// ============================================================================

func atomsToString(atoms []Atom) string {
	strs := make([]string, len(atoms))
	for i, a := range atoms {
		strs[i] = a.String()
	}
	//
	return strings.Join(strs, ", ")
}

func intLitsToString(lits []IntLit) string {
	strs := make([]string, len(lits))
	for i, l := range lits {
		strs[i] = l.String()
	}
	//
	return "[" + strings.Join(strs, ", ") + "]"
}
