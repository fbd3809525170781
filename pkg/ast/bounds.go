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

// Interval is an inclusive integer range, used for conservative value-range
// analysis of expressions.  Flattening rules size auxiliary-variable domains
// with it.
type Interval struct {
	Lo int64
	Hi int64
}

// ExpressionBounds computes a conservative interval containing every value
// the given integer expression can take.  Returns false where no finite
// bound can be determined.
func ExpressionBounds(e Expression) (Interval, bool) {
	switch ex := e.(type) {
	case *Atomic:
		return atomBounds(ex.Atom)
	case *ACOp:
		return acBounds(ex)
	case *Neg:
		if b, ok := ExpressionBounds(ex.Arg); ok {
			return Interval{-b.Hi, -b.Lo}, true
		}
	case *Abs:
		if b, ok := ExpressionBounds(ex.Arg); ok {
			lo, hi := absRange(b)
			return Interval{lo, hi}, true
		}
	case *Minus:
		left, okl := ExpressionBounds(ex.Left)
		right, okr := ExpressionBounds(ex.Right)
		//
		if okl && okr {
			return Interval{left.Lo - right.Hi, left.Hi - right.Lo}, true
		}
	case *BinArith:
		return arithBounds(ex)
	case *Index:
		// The value of an element access lies within the subject's value
		// bounds.
		return subjectValueBounds(ex.Subject)
	case *Bubble:
		return ExpressionBounds(ex.Value)
	}
	//
	return Interval{}, false
}

func atomBounds(a Atom) (Interval, bool) {
	switch atom := a.(type) {
	case IntLit:
		return Interval{int64(atom), int64(atom)}, true
	case BoolLit:
		if atom {
			return Interval{1, 1}, true
		}
		//
		return Interval{0, 0}, true
	case Reference:
		if domain, ok := atom.Decl.Domain(); ok {
			if resolved, err := Resolved(domain); err == nil {
				if lo, hi, err := IntDomainBounds(resolved); err == nil {
					return Interval{lo, hi}, true
				}
			}
		}
		//
		if value, ok := atom.Decl.Value(); ok {
			return ExpressionBounds(value)
		}
	}
	//
	return Interval{}, false
}

func acBounds(e *ACOp) (Interval, bool) {
	operands, ok := e.Operands()
	if !ok {
		return Interval{}, false
	}
	//
	bounds := make([]Interval, len(operands))
	//
	for i, op := range operands {
		b, ok := ExpressionBounds(op)
		if !ok {
			return Interval{}, false
		}
		//
		bounds[i] = b
	}
	//
	switch e.Kind {
	case ACSum:
		acc := Interval{0, 0}
		for _, b := range bounds {
			acc = Interval{acc.Lo + b.Lo, acc.Hi + b.Hi}
		}
		//
		return acc, true
	case ACProduct:
		acc := Interval{1, 1}
		for _, b := range bounds {
			acc = mulRange(acc, b)
		}
		//
		return acc, true
	case ACMin, ACMax:
		if len(bounds) == 0 {
			return Interval{}, false
		}
		//
		acc := bounds[0]
		//
		for _, b := range bounds[1:] {
			if e.Kind == ACMin {
				acc = Interval{min64(acc.Lo, b.Lo), min64(acc.Hi, b.Hi)}
			} else {
				acc = Interval{max64(acc.Lo, b.Lo), max64(acc.Hi, b.Hi)}
			}
		}
		//
		return acc, true
	}
	//
	return Interval{}, false
}

func arithBounds(e *BinArith) (Interval, bool) {
	left, okl := ExpressionBounds(e.Left)
	right, okr := ExpressionBounds(e.Right)
	//
	if !okl || !okr {
		return Interval{}, false
	}
	//
	switch e.Kind {
	case ArithDiv:
		// Conservative: |result| never exceeds |numerator|.
		_, hi := absRange(left)
		return Interval{-hi, hi}, true
	case ArithMod:
		// The result's magnitude is below the divisor's.
		_, hi := absRange(right)
		return Interval{-hi, hi}, true
	}
	//
	return Interval{}, false
}

// subjectValueBounds bounds the elements of a matrix-valued subject.
func subjectValueBounds(subject Expression) (Interval, bool) {
	elems, ok := MatrixElems(subject)
	if !ok {
		if decl, okd := AsReference(subject); okd {
			if domain, okdom := decl.Domain(); okdom {
				if resolved, err := Resolved(domain); err == nil {
					if m, okm := resolved.(MatrixDomain); okm {
						if lo, hi, err := IntDomainBounds(m.Value); err == nil {
							return Interval{lo, hi}, true
						}
					}
				}
			}
		}
		//
		return Interval{}, false
	}
	//
	var acc Interval
	//
	for i, el := range elems {
		b, ok := ExpressionBounds(el)
		if !ok {
			return Interval{}, false
		}
		//
		if i == 0 {
			acc = b
		} else {
			acc = Interval{min64(acc.Lo, b.Lo), max64(acc.Hi, b.Hi)}
		}
	}
	//
	if len(elems) == 0 {
		return Interval{}, false
	}
	//
	return acc, true
}

func mulRange(a Interval, b Interval) Interval {
	products := []int64{a.Lo * b.Lo, a.Lo * b.Hi, a.Hi * b.Lo, a.Hi * b.Hi}
	//
	lo, hi := products[0], products[0]
	for _, p := range products[1:] {
		lo = min64(lo, p)
		hi = max64(hi, p)
	}
	//
	return Interval{lo, hi}
}

func absRange(b Interval) (int64, int64) {
	lo, hi := b.Lo, b.Hi
	//
	if lo < 0 {
		lo = -lo
	}
	//
	if hi < 0 {
		hi = -hi
	}
	//
	if hi < lo {
		lo, hi = hi, lo
	}
	//
	if b.Lo <= 0 && b.Hi >= 0 {
		lo = 0
	}
	//
	return lo, hi
}

func min64(a int64, b int64) int64 {
	if a < b {
		return a
	}
	//
	return b
}

func max64(a int64, b int64) int64 {
	if a > b {
		return a
	}
	//
	return b
}
