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

// EvalConstant evaluates an expression to a literal, where possible.  An
// expression is constant when every reference it contains is bound to a
// value (a letting, or a transient quantified binding) and no partial
// operation hits an undefined case.  Returns false otherwise.
//
// The partial evaluator, the comprehension expander and the native backend
// all share this evaluator; it is total over the full variant inventory,
// including the flat solver-facing forms.
func EvalConstant(e Expression) (Literal, bool) {
	switch ex := e.(type) {
	case *Atomic:
		return evalAtom(ex.Atom)
	case *Root:
		for _, c := range ex.Constraints {
			b, ok := evalBool(c)
			if !ok {
				return nil, false
			}
			//
			if !b {
				return BoolLit(false), true
			}
		}
		//
		return BoolLit(true), true
	case *MatrixExpr, *TupleExpr, *RecordExpr:
		return evalAbstract(e)
	case *ACOp:
		return evalACOp(ex)
	case *Not:
		if b, ok := evalBool(ex.Arg); ok {
			return BoolLit(!b), true
		}
	case *Imply:
		left, okl := evalBool(ex.Left)
		//
		if okl && !left {
			return BoolLit(true), true
		}
		//
		if right, okr := evalBool(ex.Right); okr {
			if okl {
				return BoolLit(!left || right), true
			}
			//
			if right {
				return BoolLit(true), true
			}
		}
	case *Iff:
		left, okl := evalBool(ex.Left)
		right, okr := evalBool(ex.Right)
		//
		if okl && okr {
			return BoolLit(left == right), true
		}
	case *Neg:
		if n, ok := evalInt(ex.Arg); ok {
			return IntLit(-n), true
		}
	case *Abs:
		if n, ok := evalInt(ex.Arg); ok {
			if n < 0 {
				n = -n
			}
			//
			return IntLit(n), true
		}
	case *Minus:
		left, okl := evalInt(ex.Left)
		right, okr := evalInt(ex.Right)
		//
		if okl && okr {
			return IntLit(left - right), true
		}
	case *BinArith:
		return evalArith(ex)
	case *Cmp:
		return evalCmp(ex)
	case *Index:
		return evalIndex(ex)
	case *Slice:
		return evalSlice(ex)
	case *Flatten:
		return evalFlatten(ex)
	case *Bubble:
		cond, ok := evalBool(ex.Condition)
		if !ok || !cond {
			// An undefined bubble has no constant value.
			return nil, false
		}
		//
		return EvalConstant(ex.Value)
	case *AuxDeclaration:
		bound, okb := evalAtom(Reference{ex.Decl})
		value, okv := EvalConstant(ex.Value)
		//
		if okb && okv {
			return BoolLit(bound.EqualLiteral(value)), true
		}
	case *Reify:
		constraint, okc := evalBool(ex.Constraint)
		sw, oks := evalAtom(ex.Switch)
		//
		if okc && oks {
			if b, ok := sw.(BoolLit); ok {
				if ex.ImplyOnly {
					return BoolLit(!bool(b) || constraint), true
				}
				//
				return BoolLit(bool(b) == constraint), true
			}
		}
	default:
		return evalFlat(e)
	}
	//
	return nil, false
}

// evalAtom evaluates an atom: literals are themselves; references evaluate
// through their bound value, if any.
func evalAtom(a Atom) (Literal, bool) {
	switch atom := a.(type) {
	case Literal:
		return atom, true
	case Reference:
		if value, ok := atom.Decl.Value(); ok {
			return EvalConstant(value)
		}
	}
	//
	return nil, false
}

func evalBool(e Expression) (bool, bool) {
	if lit, ok := EvalConstant(e); ok {
		if b, ok := lit.(BoolLit); ok {
			return bool(b), true
		}
	}
	//
	return false, false
}

func evalInt(e Expression) (int64, bool) {
	if lit, ok := EvalConstant(e); ok {
		if n, ok := lit.(IntLit); ok {
			return int64(n), true
		}
	}
	//
	return 0, false
}

// evalAbstract evaluates a matrix, tuple or record expression element-wise.
func evalAbstract(e Expression) (Literal, bool) {
	lit, ok := ExprToLiteral(constantChildren(e))
	return lit, ok
}

// constantChildren replaces every evaluable child with its literal form, so
// that ExprToLiteral can finish the job.
func constantChildren(e Expression) Expression {
	children := e.Children()
	//
	if len(children) == 0 {
		return e
	}
	//
	replaced := make([]Expression, len(children))
	//
	for i, child := range children {
		if lit, ok := EvalConstant(child); ok {
			replaced[i] = NewLiteralExpr(lit)
		} else {
			replaced[i] = child
		}
	}
	//
	return e.WithChildren(replaced)
}

func evalACOp(e *ACOp) (Literal, bool) {
	operands, ok := e.Operands()
	if !ok {
		return nil, false
	}
	//
	switch e.Kind {
	case ACAnd:
		for _, op := range operands {
			b, ok := evalBool(op)
			if !ok {
				return nil, false
			}
			//
			if !b {
				return BoolLit(false), true
			}
		}
		//
		return BoolLit(true), true
	case ACOr:
		for _, op := range operands {
			b, ok := evalBool(op)
			if !ok {
				return nil, false
			}
			//
			if b {
				return BoolLit(true), true
			}
		}
		//
		return BoolLit(false), true
	case ACSum:
		acc := int64(0)
		//
		for _, op := range operands {
			n, ok := evalInt(op)
			if !ok {
				return nil, false
			}
			//
			acc += n
		}
		//
		return IntLit(acc), true
	case ACProduct:
		acc := int64(1)
		//
		for _, op := range operands {
			n, ok := evalInt(op)
			if !ok {
				return nil, false
			}
			//
			acc *= n
		}
		//
		return IntLit(acc), true
	case ACMin, ACMax:
		if len(operands) == 0 {
			// min/max of nothing is undefined
			return nil, false
		}
		//
		acc, ok := evalInt(operands[0])
		if !ok {
			return nil, false
		}
		//
		for _, op := range operands[1:] {
			n, ok := evalInt(op)
			if !ok {
				return nil, false
			}
			//
			if (e.Kind == ACMin && n < acc) || (e.Kind == ACMax && n > acc) {
				acc = n
			}
		}
		//
		return IntLit(acc), true
	case ACAllDiff:
		lits := make([]Literal, len(operands))
		//
		for i, op := range operands {
			lit, ok := EvalConstant(op)
			if !ok {
				return nil, false
			}
			//
			lits[i] = lit
		}
		//
		for i := range lits {
			for j := i + 1; j < len(lits); j++ {
				if lits[i].EqualLiteral(lits[j]) {
					return BoolLit(false), true
				}
			}
		}
		//
		return BoolLit(true), true
	}
	//
	return nil, false
}

func evalArith(e *BinArith) (Literal, bool) {
	left, okl := evalInt(e.Left)
	right, okr := evalInt(e.Right)
	//
	if !okl || !okr {
		return nil, false
	}
	//
	switch e.Kind {
	case ArithDiv:
		if right == 0 {
			return nil, false
		}
		//
		return IntLit(floorDiv(left, right)), true
	case ArithMod:
		if right == 0 {
			return nil, false
		}
		//
		return IntLit(left - right*floorDiv(left, right)), true
	case ArithPow:
		if right < 0 || (left == 0 && right == 0) {
			return nil, false
		}
		//
		acc := int64(1)
		for range right {
			acc *= left
		}
		//
		return IntLit(acc), true
	}
	//
	return nil, false
}

// floorDiv divides rounding towards negative infinity, matching the
// semantics of Essence integer division.
func floorDiv(a int64, b int64) int64 {
	q := a / b
	//
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	//
	return q
}

func evalCmp(e *Cmp) (Literal, bool) {
	switch e.Kind {
	case CmpEq, CmpNeq:
		left, okl := EvalConstant(e.Left)
		right, okr := EvalConstant(e.Right)
		//
		if okl && okr {
			eq := left.EqualLiteral(right)
			return BoolLit(eq == (e.Kind == CmpEq)), true
		}
	default:
		left, okl := evalInt(e.Left)
		right, okr := evalInt(e.Right)
		//
		if okl && okr {
			switch e.Kind {
			case CmpLeq:
				return BoolLit(left <= right), true
			case CmpGeq:
				return BoolLit(left >= right), true
			case CmpLt:
				return BoolLit(left < right), true
			case CmpGt:
				return BoolLit(left > right), true
			}
		}
	}
	//
	return nil, false
}

func evalIndex(e *Index) (Literal, bool) {
	subject, ok := EvalConstant(e.Subject)
	if !ok {
		return nil, false
	}
	//
	for _, idx := range e.Indices {
		switch subj := subject.(type) {
		case MatrixLit:
			n, ok := evalInt(idx)
			if !ok {
				return nil, false
			}
			//
			position, ok := matrixPosition(subj, n)
			if !ok {
				return nil, false
			}
			//
			subject = subj.Elems[position]
		case TupleLit:
			n, ok := evalInt(idx)
			if !ok || n < 1 || int(n) > len(subj.Elems) {
				return nil, false
			}
			//
			subject = subj.Elems[n-1]
		case RecordLit:
			// Record access indexes by field position.
			n, ok := evalInt(idx)
			if !ok || n < 1 || int(n) > len(subj.Fields) {
				return nil, false
			}
			//
			subject = subj.Fields[n-1].Value
		default:
			return nil, false
		}
	}
	//
	return subject, true
}

// matrixPosition maps an index-domain value onto an element position.
func matrixPosition(m MatrixLit, idx int64) (int, bool) {
	values, err := DomainValues(m.Index)
	if err != nil {
		return 0, false
	}
	//
	for i, v := range values {
		if n, ok := v.(IntLit); ok && int64(n) == idx {
			if i < len(m.Elems) {
				return i, true
			}
		}
	}
	//
	return 0, false
}

func evalSlice(e *Slice) (Literal, bool) {
	subject, ok := EvalConstant(e.Subject)
	if !ok {
		return nil, false
	}
	//
	// Only one-dimensional subjects reach evaluation: lowering peels outer
	// dimensions before slices become evaluable.
	m, ok := subject.(MatrixLit)
	if !ok || len(e.Indices) != 1 || e.Indices[0].HasValue() {
		return nil, false
	}
	//
	return m, true
}

func evalFlatten(e *Flatten) (Literal, bool) {
	subject, ok := EvalConstant(e.Subject)
	if !ok {
		return nil, false
	}
	//
	m, ok := subject.(MatrixLit)
	if !ok {
		return nil, false
	}
	//
	depth := -1
	if e.Depth.HasValue() {
		depth = e.Depth.Unwrap()
	}
	//
	flat := flattenLit(m, depth)
	//
	return MatrixLit{flat, IntRangeDomain(1, int64(len(flat)))}, true
}

func flattenLit(m MatrixLit, depth int) []Literal {
	if depth == 0 {
		return m.Elems
	}
	//
	var flat []Literal
	//
	for _, el := range m.Elems {
		if inner, ok := el.(MatrixLit); ok {
			flat = append(flat, flattenLit(inner, depth-1)...)
		} else {
			flat = append(flat, el)
		}
	}
	//
	return flat
}

// evalFlat evaluates the flat solver-facing constraint forms.
func evalFlat(e Expression) (Literal, bool) {
	switch ex := e.(type) {
	case *FlatSumLeq:
		sum, ok := sumAtoms(ex.Terms)
		total, okt := evalIntAtom(ex.Total)
		//
		if ok && okt {
			return BoolLit(sum <= total), true
		}
	case *FlatSumGeq:
		sum, ok := sumAtoms(ex.Terms)
		total, okt := evalIntAtom(ex.Total)
		//
		if ok && okt {
			return BoolLit(sum >= total), true
		}
	case *FlatIneq:
		left, okl := evalIntAtom(ex.Left)
		right, okr := evalIntAtom(ex.Right)
		//
		if okl && okr {
			return BoolLit(left <= right+int64(ex.Constant)), true
		}
	case *FlatProductEq:
		left, okl := evalIntAtom(ex.Left)
		right, okr := evalIntAtom(ex.Right)
		result, okres := evalIntAtom(ex.Result)
		//
		if okl && okr && okres {
			return BoolLit(left*right == result), true
		}
	case *FlatAbsEq:
		value, okv := evalIntAtom(ex.Value)
		result, okr := evalIntAtom(ex.Result)
		//
		if okv && okr {
			if value < 0 {
				value = -value
			}
			//
			return BoolLit(value == result), true
		}
	case *FlatMinusEq:
		left, okl := evalIntAtom(ex.Left)
		right, okr := evalIntAtom(ex.Right)
		result, okres := evalIntAtom(ex.Result)
		//
		if okl && okr && okres {
			return BoolLit(left-right == result), true
		}
	case *FlatWeightedSumLeq:
		sum, ok := weightedSumAtoms(ex.Weights, ex.Terms)
		total, okt := evalIntAtom(ex.Total)
		//
		if ok && okt {
			return BoolLit(sum <= total), true
		}
	case *FlatWeightedSumGeq:
		sum, ok := weightedSumAtoms(ex.Weights, ex.Terms)
		total, okt := evalIntAtom(ex.Total)
		//
		if ok && okt {
			return BoolLit(sum >= total), true
		}
	case *FlatAllDiff:
		seen := make(map[int64]bool, len(ex.Terms))
		//
		for _, term := range ex.Terms {
			n, ok := evalIntAtom(term)
			if !ok {
				return nil, false
			}
			//
			if seen[n] {
				return BoolLit(false), true
			}
			//
			seen[n] = true
		}
		//
		return BoolLit(true), true
	case *FlatWatchedLiteral:
		if bound, ok := evalAtom(Reference{ex.Variable}); ok {
			return BoolLit(bound.EqualLiteral(ex.Value)), true
		}
	}
	//
	return nil, false
}

func evalIntAtom(a Atom) (int64, bool) {
	lit, ok := evalAtom(a)
	if !ok {
		return 0, false
	}
	//
	switch v := lit.(type) {
	case IntLit:
		return int64(v), true
	case BoolLit:
		// Booleans coerce to 0/1 in flat integer positions.
		if v {
			return 1, true
		}
		//
		return 0, true
	}
	//
	return 0, false
}

func sumAtoms(atoms []Atom) (int64, bool) {
	acc := int64(0)
	//
	for _, a := range atoms {
		n, ok := evalIntAtom(a)
		if !ok {
			return 0, false
		}
		//
		acc += n
	}
	//
	return acc, true
}

func weightedSumAtoms(weights []IntLit, atoms []Atom) (int64, bool) {
	acc := int64(0)
	//
	for i, a := range atoms {
		n, ok := evalIntAtom(a)
		if !ok {
			return 0, false
		}
		//
		acc += int64(weights[i]) * n
	}
	//
	return acc, true
}
