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

// Generic traversal helpers over the expression tree.  Rules are written
// against whole expressions; these helpers supply the walks so that rules
// never pattern-match every variant themselves.

// Descendants returns the given expression and all its descendants, in
// pre-order.  Comprehension internals are not included (comprehensions are
// opaque to the generic walk).
func Descendants(e Expression) []Expression {
	result := []Expression{e}
	//
	for _, child := range e.Children() {
		result = append(result, Descendants(child)...)
	}
	//
	return result
}

// TransformUp rebuilds the expression bottom-up, applying f to every node
// after its children have been transformed.
func TransformUp(e Expression, f func(Expression) Expression) Expression {
	children := e.Children()
	//
	if len(children) > 0 {
		transformed := make([]Expression, len(children))
		for i, child := range children {
			transformed[i] = TransformUp(child, f)
		}
		//
		e = e.WithChildren(transformed)
	}
	//
	return f(e)
}

// ReferencedDeclarations collects the declarations referenced anywhere inside
// the given expression, including inside comprehension scopes and domain
// bounds of generators.
func ReferencedDeclarations(e Expression) []*Declaration {
	var decls []*Declaration
	//
	var walk func(Expression)
	//
	walk = func(e Expression) {
		switch ex := e.(type) {
		case *Atomic:
			if ref, ok := ex.Atom.(Reference); ok {
				decls = append(decls, ref.Decl)
			}
		case *Comprehension:
			walk(ex.ReturnExpression)
			//
			for _, q := range ex.Qualifiers {
				switch qual := q.(type) {
				case Condition:
					walk(qual.Guard)
				case Generator:
					decls = append(decls, domainReferences(qual.Domain)...)
				}
			}
			//
			return
		}
		//
		for _, child := range e.Children() {
			walk(child)
		}
	}
	//
	walk(e)
	//
	return decls
}

// domainReferences collects declarations referenced by the bounds of a
// domain.
func domainReferences(d Domain) []*Declaration {
	var decls []*Declaration
	//
	switch dom := d.(type) {
	case IntDomain:
		for _, r := range dom.Ranges {
			for _, v := range rangeIntVals(r) {
				switch val := v.(type) {
				case RefVal:
					decls = append(decls, val.Decl)
				case ExprVal:
					decls = append(decls, ReferencedDeclarations(val.Value)...)
				}
			}
		}
	case MatrixDomain:
		decls = append(decls, domainReferences(dom.Value)...)
		for _, idx := range dom.Indexes {
			decls = append(decls, domainReferences(idx)...)
		}
	case TupleDomain:
		for _, e := range dom.Elems {
			decls = append(decls, domainReferences(e)...)
		}
	case RecordDomain:
		for _, f := range dom.Fields {
			decls = append(decls, domainReferences(f.Domain)...)
		}
	case SetDomain:
		decls = append(decls, domainReferences(dom.Elem)...)
	case ReferenceDomain:
		decls = append(decls, dom.Decl)
	}
	//
	return decls
}

// rangeIntVals returns the bounds appearing in a range.
func rangeIntVals(r Range) []IntVal {
	switch rng := r.(type) {
	case SingleRange:
		return []IntVal{rng.Value}
	case BoundedRange:
		return []IntVal{rng.Lo, rng.Hi}
	case UnboundedLRange:
		return []IntVal{rng.Hi}
	case UnboundedRRange:
		return []IntVal{rng.Lo}
	}
	//
	return nil
}

// CategoryOf classifies an expression by the strongest kind of declaration it
// references: decision beats quantified beats parameter beats constant.
func CategoryOf(e Expression) Category {
	category := CategoryBottom
	//
	for _, decl := range ReferencedDeclarations(e) {
		var c Category
		//
		switch decl.Kind().(type) {
		case *DecisionVariable:
			c = CategoryDecision
		case *Quantified:
			c = CategoryQuantified
		case *Given:
			c = CategoryParameter
		default:
			c = CategoryConstant
		}
		//
		if c > category {
			category = c
		}
	}
	//
	return category
}

// ExprEqual checks two expressions for structural equality, ignoring
// metadata.  Renderings are exact, so equal strings mean equal trees.
func ExprEqual(a Expression, b Expression) bool {
	return a.String() == b.String()
}

// IsSafe checks that no partial operation inside the expression is
// unguarded: no unsafe division, modulo, power, index or slice, and no
// in-flight bubble.
func IsSafe(e Expression) bool {
	switch ex := e.(type) {
	case *BinArith:
		if !ex.Safe {
			return false
		}
	case *Index:
		if !ex.Safe {
			return false
		}
	case *Slice:
		if !ex.Safe {
			return false
		}
	case *Bubble:
		return false
	}
	//
	for _, child := range e.Children() {
		if !IsSafe(child) {
			return false
		}
	}
	//
	return true
}

// ContainsComprehension checks for any comprehension node in the tree.
func ContainsComprehension(e Expression) bool {
	if _, ok := e.(*Comprehension); ok {
		return true
	}
	//
	for _, child := range e.Children() {
		if ContainsComprehension(child) {
			return true
		}
	}
	//
	return false
}
