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
package rules

import (
	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
)

// The bubbling rules quarantine partial operations.  Each unsafe operation
// is rewritten into its safe form inside a bubble carrying the definedness
// condition; bubbles then float towards the nearest boolean context, where
// the condition is conjoined in ("undefined is false" semantics).

func init() {
	rewrite.Register("Bubble", 8000, rewrite.Rule{
		Name:        "index_to_bubble",
		Application: indexToBubble,
	})
	rewrite.Register("Bubble", 8000, rewrite.Rule{
		Name:        "slice_to_bubble",
		Application: sliceToBubble,
	})
	rewrite.Register("Bubble", 6000, rewrite.Rule{
		Name:        "arith_to_bubble",
		Application: arithToBubble,
	})
	rewrite.Register("Bubble", 200, rewrite.Rule{
		Name:        "bubble_with_true_condition",
		Application: bubbleWithTrueCondition,
	})
	rewrite.Register("Bubble", 100, rewrite.Rule{
		Name:        "bubble_up",
		Application: bubbleUp,
	})
	rewrite.Register("Bubble", 100, rewrite.Rule{
		Name:        "expand_boolean_bubble",
		Application: expandBooleanBubble,
	})
}

// arithToBubble converts an unsafe division, modulo or power into the safe
// form guarded by its definedness condition.
func arithToBubble(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	op, ok := expr.(*ast.BinArith)
	if !ok || op.Safe {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	safe := ast.NewSafeArith(op.Kind, op.Left, op.Right)
	//
	var condition ast.Expression
	//
	switch op.Kind {
	case ast.ArithDiv, ast.ArithMod:
		condition = ast.Neq(op.Right, ast.IntExpr(0))
	case ast.ArithPow:
		// x ** y is defined for y >= 0, except 0 ** 0.
		condition = ast.And(
			ast.Geq(op.Right, ast.IntExpr(0)),
			ast.Or(ast.Neq(op.Left, ast.IntExpr(0)), ast.Neq(op.Right, ast.IntExpr(0))),
		)
	default:
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.NewBubble(safe, condition)), nil
}

// indexToBubble converts an unsafe index access into the safe form guarded
// by in-range conditions on every index.
func indexToBubble(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	idx, ok := expr.(*ast.Index)
	if !ok || idx.Safe {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	domains, ok := indexDomainsOf(idx.Subject, symbols)
	if !ok || len(domains) < len(idx.Indices) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	var conditions []ast.Expression
	//
	for i, index := range idx.Indices {
		cond, ok := inRangeCondition(index, domains[i])
		if !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		conditions = append(conditions, cond)
	}
	//
	safe := ast.NewSafeIndex(idx.Subject, idx.Indices...)
	//
	return rewrite.Pure(ast.NewBubble(safe, ast.And(conditions...))), nil
}

// sliceToBubble converts an unsafe slice access into the safe form guarded
// by in-range conditions on its fixed indices.  The hole axis needs no
// guard.
func sliceToBubble(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	slice, ok := expr.(*ast.Slice)
	if !ok || slice.Safe {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	domains, ok := indexDomainsOf(slice.Subject, symbols)
	if !ok || len(domains) < len(slice.Indices) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	conditions := []ast.Expression{ast.BoolExpr(true)}
	//
	for i, index := range slice.Indices {
		if index.IsEmpty() {
			continue
		}
		//
		cond, ok := inRangeCondition(index.Unwrap(), domains[i])
		if !ok {
			return rewrite.Update{}, rewrite.ErrNotApplicable
		}
		//
		conditions = append(conditions, cond)
	}
	//
	safe := ast.NewSafeSlice(slice.Subject, slice.Indices...)
	//
	return rewrite.Pure(ast.NewBubble(safe, ast.And(conditions...))), nil
}

// indexDomainsOf determines the per-dimension index domains of an indexable
// subject: the index domains of a matrix, or 1..n for a tuple or record.
func indexDomainsOf(subject ast.Expression, symbols *ast.SymbolTable) ([]ast.Domain, bool) {
	var domain ast.Domain
	//
	if decl, ok := ast.AsReference(subject); ok {
		d, ok := decl.Domain()
		if !ok {
			return nil, false
		}
		//
		domain = d
	} else if m, ok := subject.(*ast.MatrixExpr); ok {
		return []ast.Domain{m.Index}, true
	} else if t, ok := subject.(*ast.TupleExpr); ok {
		return []ast.Domain{ast.IntRangeDomain(1, int64(len(t.Elems)))}, true
	} else {
		return nil, false
	}
	//
	resolved, err := ast.Resolved(domain)
	if err != nil {
		return nil, false
	}
	//
	switch d := resolved.(type) {
	case ast.MatrixDomain:
		return d.Indexes, true
	case ast.TupleDomain:
		return []ast.Domain{ast.IntRangeDomain(1, int64(len(d.Elems)))}, true
	case ast.RecordDomain:
		return []ast.Domain{ast.IntRangeDomain(1, int64(len(d.Fields)))}, true
	}
	//
	return nil, false
}

// inRangeCondition builds the condition that an index expression lies in the
// given index domain.
func inRangeCondition(index ast.Expression, domain ast.Domain) (ast.Expression, bool) {
	lo, hi, err := ast.IntDomainBounds(domain)
	if err != nil {
		return nil, false
	}
	//
	return ast.And(
		ast.Geq(index, ast.IntExpr(lo)),
		ast.Leq(index, ast.IntExpr(hi)),
	), true
}

// bubbleWithTrueCondition drops a bubble whose condition has evaluated to
// true.
func bubbleWithTrueCondition(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	bubble, ok := expr.(*ast.Bubble)
	if !ok {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if b, ok := ast.AsBoolLiteral(bubble.Condition); !ok || !b {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(bubble.Value), nil
}

// bubbleUp hoists bubbles out of non-boolean positions: an operator with a
// bubbled operand becomes a bubble around the operator, with the conditions
// conjoined.  Boolean-valued bubbles are handled by expandBooleanBubble
// instead, so that guards stay inside their own disjunct.
func bubbleUp(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	switch expr.(type) {
	case *ast.Root, *ast.Bubble, *ast.Comprehension:
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	children := expr.Children()
	//
	var conditions []ast.Expression
	//
	replaced := make([]ast.Expression, len(children))
	//
	for i, child := range children {
		if bubble, ok := child.(*ast.Bubble); ok && !ast.IsBoolType(bubble.Value.ReturnType()) {
			replaced[i] = bubble.Value
			conditions = append(conditions, bubble.Condition)
			//
			continue
		}
		//
		replaced[i] = child
	}
	//
	if len(conditions) == 0 {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	value := expr.WithChildren(replaced)
	//
	return rewrite.Pure(ast.NewBubble(value, ast.And(conditions...))), nil
}

// expandBooleanBubble dissolves a boolean-valued bubble into a conjunction
// of its value and its condition, realising undefined-is-false semantics at
// the nearest boolean context.
func expandBooleanBubble(expr ast.Expression, symbols *ast.SymbolTable) (rewrite.Update, error) {
	bubble, ok := expr.(*ast.Bubble)
	if !ok || !ast.IsBoolType(bubble.Value.ReturnType()) {
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	if b, ok := ast.AsBoolLiteral(bubble.Condition); ok && b {
		// bubble_with_true_condition handles this one.
		return rewrite.Update{}, rewrite.ErrNotApplicable
	}
	//
	return rewrite.Pure(ast.And(bubble.Value, bubble.Condition)), nil
}
