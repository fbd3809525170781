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

import "fmt"

// IntVal is an integer bound inside a domain.  Bounds may be constants,
// references to declarations (givens and lettings), or arbitrary constant
// expressions; the latter two are substituted away when a domain is resolved.
type IntVal interface {
	fmt.Stringer
	//
	isIntVal()
}

// ConstInt is a constant bound.
type ConstInt int64

// RefVal is a bound referring to a declaration.
type RefVal struct {
	Decl *Declaration
}

// ExprVal is a bound given by a constant expression.
type ExprVal struct {
	Value Expression
}

func (ConstInt) isIntVal() {}
func (RefVal) isIntVal()   {}
func (ExprVal) isIntVal()  {}

func (v ConstInt) String() string { return fmt.Sprintf("%d", int64(v)) }
func (v RefVal) String() string   { return v.Decl.Name().String() }
func (v ExprVal) String() string  { return v.Value.String() }

// resolveIntVal reduces a bound to a constant, consulting bound declarations
// and the constant evaluator.  Returns false if the bound is not (yet)
// constant.
func resolveIntVal(v IntVal) (int64, bool) {
	switch val := v.(type) {
	case ConstInt:
		return int64(val), true
	case RefVal:
		if expr, ok := val.Decl.Value(); ok {
			if lit, ok := EvalConstant(expr); ok {
				if n, ok := lit.(IntLit); ok {
					return int64(n), true
				}
			}
		}
	case ExprVal:
		if lit, ok := EvalConstant(val.Value); ok {
			if n, ok := lit.(IntLit); ok {
				return int64(n), true
			}
		}
	}
	//
	return 0, false
}

// ============================================================================
// Range
// ============================================================================

// Range is one component of an integer domain.
type Range interface {
	fmt.Stringer
	//
	isRange()
}

// SingleRange contains exactly one value.
type SingleRange struct {
	Value IntVal
}

// BoundedRange contains all values between its bounds, inclusive.
type BoundedRange struct {
	Lo IntVal
	Hi IntVal
}

// UnboundedLRange contains all values up to its upper bound.
type UnboundedLRange struct {
	Hi IntVal
}

// UnboundedRRange contains all values from its lower bound.
type UnboundedRRange struct {
	Lo IntVal
}

// UnboundedRange contains all integers.
type UnboundedRange struct{}

func (SingleRange) isRange()     {}
func (BoundedRange) isRange()    {}
func (UnboundedLRange) isRange() {}
func (UnboundedRRange) isRange() {}
func (UnboundedRange) isRange()  {}

func (r SingleRange) String() string     { return r.Value.String() }
func (r BoundedRange) String() string    { return fmt.Sprintf("%s..%s", r.Lo, r.Hi) }
func (r UnboundedLRange) String() string { return fmt.Sprintf("..%s", r.Hi) }
func (r UnboundedRRange) String() string { return fmt.Sprintf("%s..", r.Lo) }
func (r UnboundedRange) String() string  { return ".." }

// resolveRange reduces the bounds of a range to constants.  Returns false if
// any bound is not (yet) constant.
func resolveRange(r Range) (Range, bool) {
	switch rng := r.(type) {
	case SingleRange:
		if v, ok := resolveIntVal(rng.Value); ok {
			return SingleRange{ConstInt(v)}, true
		}
	case BoundedRange:
		lo, okl := resolveIntVal(rng.Lo)
		hi, okh := resolveIntVal(rng.Hi)
		//
		if okl && okh {
			return BoundedRange{ConstInt(lo), ConstInt(hi)}, true
		}
	case UnboundedLRange:
		if v, ok := resolveIntVal(rng.Hi); ok {
			return UnboundedLRange{ConstInt(v)}, true
		}
	case UnboundedRRange:
		if v, ok := resolveIntVal(rng.Lo); ok {
			return UnboundedRRange{ConstInt(v)}, true
		}
	case UnboundedRange:
		return rng, true
	}
	//
	return nil, false
}

// rangeContains checks whether a resolved range contains the given value.
func rangeContains(r Range, val int64) bool {
	switch rng := r.(type) {
	case SingleRange:
		v, _ := resolveIntVal(rng.Value)
		return v == val
	case BoundedRange:
		lo, _ := resolveIntVal(rng.Lo)
		hi, _ := resolveIntVal(rng.Hi)
		//
		return lo <= val && val <= hi
	case UnboundedLRange:
		hi, _ := resolveIntVal(rng.Hi)
		return val <= hi
	case UnboundedRRange:
		lo, _ := resolveIntVal(rng.Lo)
		return lo <= val
	case UnboundedRange:
		return true
	}
	//
	return false
}
