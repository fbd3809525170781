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
package essence

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Surface grammar of the Essence subset, as participle grammar structs.
// The builder in build.go converts these into the typed intermediate
// representation; nothing below escapes this package.

// Program is a sequence of statements.
type Program struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one top-level Essence statement.
type Statement struct {
	Find     *FindStmt     `parser:"  @@"`
	Given    *GivenStmt    `parser:"| @@"`
	Letting  *LettingStmt  `parser:"| @@"`
	SuchThat *SuchThatStmt `parser:"| @@"`
}

// FindStmt declares one or more decision variables.
type FindStmt struct {
	Pos    lexer.Position
	Names  []string    `parser:"'find' @Ident (',' @Ident)*"`
	Domain *DomainNode `parser:"':' @@"`
}

// GivenStmt declares one or more instance parameters.
type GivenStmt struct {
	Pos    lexer.Position
	Names  []string    `parser:"'given' @Ident (',' @Ident)*"`
	Domain *DomainNode `parser:"':' @@"`
}

// LettingStmt binds a name to a domain or a value.
type LettingStmt struct {
	Pos    lexer.Position
	Name   string      `parser:"'letting' @Ident 'be'"`
	Domain *DomainNode `parser:"( 'domain' @@"`
	Value  *Expr       `parser:"| @@ )"`
}

// SuchThatStmt posts one or more constraints.
type SuchThatStmt struct {
	Pos         lexer.Position
	Constraints []*Expr `parser:"'such' 'that' @@ (',' @@)*"`
}

// ============================================================================
// Domains
// ============================================================================

// DomainNode is a surface domain.
type DomainNode struct {
	Bool   bool              `parser:"  @'bool'"`
	Int    *IntDomainNode    `parser:"| @@"`
	Tuple  *TupleDomainNode  `parser:"| @@"`
	Matrix *MatrixDomainNode `parser:"| @@"`
	Record *RecordDomainNode `parser:"| @@"`
	Ref    *string           `parser:"| @Ident"`
}

// IntDomainNode is an integer domain with optional ranges.  A bare `int` or
// `int()` is the unbounded integer domain.
type IntDomainNode struct {
	Open   bool         `parser:"'int' ( @'('"`
	Ranges []*RangeNode `parser:"( @@ (',' @@)* )? ')' )?"`
}

// RangeNode is one range of an integer domain: lo..hi, lo.., ..hi, .., or a
// single value.
type RangeNode struct {
	Lo       *Expr `parser:"( @@"`
	Dots     bool  `parser:"  ( @DotDot"`
	Hi       *Expr `parser:"    @@? )?"`
	DotsOnly bool  `parser:"| @DotDot"`
	HiOnly   *Expr `parser:"  @@? )"`
}

// TupleDomainNode is a tuple domain.
type TupleDomainNode struct {
	Elems []*DomainNode `parser:"'tuple' '(' @@ (',' @@)* ')'"`
}

// MatrixDomainNode is a matrix domain.
type MatrixDomainNode struct {
	Indexes []*DomainNode `parser:"'matrix' 'indexed' 'by' '[' @@ (',' @@)* ']'"`
	Value   *DomainNode   `parser:"'of' @@"`
}

// RecordDomainNode is a record domain.
type RecordDomainNode struct {
	Fields []*RecordFieldNode `parser:"'record' '{' ( @@ (',' @@)* )? '}'"`
}

// RecordFieldNode is one field of a record domain.
type RecordFieldNode struct {
	Name   string      `parser:"@Ident ':'"`
	Domain *DomainNode `parser:"@@"`
}

// ============================================================================
// Expressions (precedence climbing)
// ============================================================================

// Expr is the expression entry point.
type Expr struct {
	E *IffExpr `parser:"@@"`
}

// IffExpr handles <->, the loosest binder.
type IffExpr struct {
	Left *ImplyExpr   `parser:"@@"`
	Rest []*ImplyExpr `parser:"(IffOp @@)*"`
}

// ImplyExpr handles ->, right associative.
type ImplyExpr struct {
	Left *OrExpr   `parser:"@@"`
	Rest []*OrExpr `parser:"(ImplyOp @@)*"`
}

// OrExpr handles \/.
type OrExpr struct {
	Left *AndExpr   `parser:"@@"`
	Rest []*AndExpr `parser:"(OrOp @@)*"`
}

// AndExpr handles /\.
type AndExpr struct {
	Left *NotExpr   `parser:"@@"`
	Rest []*NotExpr `parser:"(AndOp @@)*"`
}

// NotExpr handles prefix negation.
type NotExpr struct {
	Not *NotExpr `parser:"  '!' @@"`
	Cmp *CmpExpr `parser:"| @@"`
}

// CmpExpr handles the (non-associative) comparisons.
type CmpExpr struct {
	Left  *AddExpr `parser:"@@"`
	Op    string   `parser:"( @('=' | '<' | '>' | Ne | Le | Ge)"`
	Right *AddExpr `parser:"  @@ )?"`
}

// AddExpr handles + and binary -.
type AddExpr struct {
	Left *MulExpr   `parser:"@@"`
	Rest []*AddRest `parser:"@@*"`
}

// AddRest is one +/- continuation.
type AddRest struct {
	Op    string   `parser:"@('+' | '-')"`
	Right *MulExpr `parser:"@@"`
}

// MulExpr handles *, / and %.
type MulExpr struct {
	Left *PowExpr   `parser:"@@"`
	Rest []*MulRest `parser:"@@*"`
}

// MulRest is one */'/'/% continuation.
type MulRest struct {
	Op    string   `parser:"@('*' | '/' | '%')"`
	Right *PowExpr `parser:"@@"`
}

// PowExpr handles **, right associative.
type PowExpr struct {
	Left *UnaryExpr   `parser:"@@"`
	Rest []*UnaryExpr `parser:"(Pow @@)*"`
}

// UnaryExpr handles prefix minus.
type UnaryExpr struct {
	Neg     *UnaryExpr   `parser:"  '-' @@"`
	Postfix *PostfixExpr `parser:"| @@"`
}

// PostfixExpr handles indexing and slicing.
type PostfixExpr struct {
	Primary *Primary     `parser:"@@"`
	Indexes []*IndexList `parser:"@@*"`
}

// IndexList is one bracketed index group.
type IndexList struct {
	Indices []*IndexOrHole `parser:"'[' @@ (',' @@)* ']'"`
}

// IndexOrHole is a fixed index or the sliced axis.
type IndexOrHole struct {
	Hole bool  `parser:"  @DotDot"`
	Expr *Expr `parser:"| @@"`
}

// Primary is an atom of the surface syntax.
type Primary struct {
	Pos   lexer.Position
	Int   *int64       `parser:"  @Integer"`
	Call  *CallExpr    `parser:"| @@"`
	Ident *string      `parser:"| @Ident"`
	Abs   *Expr        `parser:"| '|' @@ '|'"`
	Paren *ParenExpr   `parser:"| @@"`
	Brack *BracketExpr `parser:"| @@"`
}

// CallExpr is an operator call such as sum([...]) or allDiff(m).
type CallExpr struct {
	Name string  `parser:"@Ident '('"`
	Args []*Expr `parser:"( @@ (',' @@)* )? ')'"`
}

// ParenExpr is a parenthesised expression, or a tuple literal when it has
// more than one element.
type ParenExpr struct {
	Elems []*Expr `parser:"'(' @@ (',' @@)* ')'"`
}

// BracketExpr is a matrix literal, or a comprehension when the bar is
// present.
type BracketExpr struct {
	First *Expr        `parser:"'[' ( @@"`
	Bar   bool         `parser:"  ( @'|'"`
	Quals []*Qualifier `parser:"    @@ (',' @@)*"`
	Rest  []*Expr      `parser:"  | (',' @@)* ) )? ']'"`
}

// Qualifier is a generator or a guard inside a comprehension.
type Qualifier struct {
	Gen  *GeneratorNode `parser:"  @@"`
	Cond *Expr          `parser:"| @@"`
}

// GeneratorNode binds a quantified name to a domain.
type GeneratorNode struct {
	Name   string      `parser:"@Ident ':'"`
	Domain *DomainNode `parser:"@@"`
}
