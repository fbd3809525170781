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
	"errors"
	"testing"
)

func TestDomain_IntValues(t *testing.T) {
	values, err := DomainValues(IntRangeDomain(1, 4))
	if err != nil {
		t.Fatal(err)
	}
	//
	if len(values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(values))
	}
	//
	for i, v := range values {
		if n := v.(IntLit); int64(n) != int64(i+1) {
			t.Errorf("value %d is %s", i, v)
		}
	}
}

func TestDomain_MultiRangeValues(t *testing.T) {
	domain := IntDomain{[]Range{
		BoundedRange{ConstInt(1), ConstInt(2)},
		SingleRange{ConstInt(5)},
		// overlap is deduplicated
		BoundedRange{ConstInt(2), ConstInt(3)},
	}}
	//
	values, err := DomainValues(domain)
	if err != nil {
		t.Fatal(err)
	}
	//
	if len(values) != 4 {
		t.Fatalf("expected values {1,2,5,3}, got %v", values)
	}
}

func TestDomain_BoolValues(t *testing.T) {
	values, err := DomainValues(BoolDomain{})
	if err != nil {
		t.Fatal(err)
	}
	//
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
}

func TestDomain_UnboundedIsNotFinite(t *testing.T) {
	domain := IntDomain{[]Range{UnboundedRRange{ConstInt(1)}}}
	//
	if _, err := DomainValues(domain); !errors.Is(err, ErrDomainNotFinite) {
		t.Fatalf("expected ErrDomainNotFinite, got %v", err)
	}
}

func TestDomain_ResolveReferenceBound(t *testing.T) {
	n := NewValueLetting(UserName("n"), IntExpr(3))
	domain := IntDomain{[]Range{BoundedRange{ConstInt(1), RefVal{n}}}}
	//
	if domain.IsGround() != true {
		// the bound resolves through the letting
		t.Fatal("domain with letting-bound should resolve")
	}
	//
	resolved, err := Resolved(domain)
	if err != nil {
		t.Fatal(err)
	}
	//
	lo, hi, err := IntDomainBounds(resolved)
	if err != nil {
		t.Fatal(err)
	}
	//
	if lo != 1 || hi != 3 {
		t.Fatalf("expected 1..3, got %d..%d", lo, hi)
	}
}

func TestDomain_UnresolvedGivenBound(t *testing.T) {
	n := NewGiven(UserName("n"), IntDomain{})
	domain := IntDomain{[]Range{BoundedRange{ConstInt(1), RefVal{n}}}}
	//
	if _, err := Resolved(domain); !errors.Is(err, ErrDomainNotGround) {
		t.Fatalf("expected ErrDomainNotGround, got %v", err)
	}
}

func TestDomain_TupleValues(t *testing.T) {
	domain := TupleDomain{[]Domain{BoolDomain{}, IntRangeDomain(1, 3)}}
	//
	values, err := DomainValues(domain)
	if err != nil {
		t.Fatal(err)
	}
	//
	if len(values) != 6 {
		t.Fatalf("expected 6 tuples, got %d", len(values))
	}
}

func TestDomain_Contains(t *testing.T) {
	domain := IntRangeDomain(1, 4)
	//
	if !DomainContains(domain, IntLit(3)) {
		t.Error("3 should be in 1..4")
	}
	//
	if DomainContains(domain, IntLit(5)) {
		t.Error("5 should not be in 1..4")
	}
}

func TestExpressionBounds_Sum(t *testing.T) {
	x := NewDecisionVariable(UserName("x"), IntRangeDomain(1, 4))
	y := NewDecisionVariable(UserName("y"), IntRangeDomain(-2, 2))
	//
	bounds, ok := ExpressionBounds(Sum(NewReferenceExpr(x), NewReferenceExpr(y)))
	if !ok {
		t.Fatal("expected bounds")
	}
	//
	if bounds.Lo != -1 || bounds.Hi != 6 {
		t.Fatalf("expected -1..6, got %d..%d", bounds.Lo, bounds.Hi)
	}
}

func TestExpressionBounds_Product(t *testing.T) {
	x := NewDecisionVariable(UserName("x"), IntRangeDomain(-2, 3))
	//
	bounds, ok := ExpressionBounds(Product(NewReferenceExpr(x), NewReferenceExpr(x)))
	if !ok {
		t.Fatal("expected bounds")
	}
	//
	if bounds.Lo != -6 || bounds.Hi != 9 {
		t.Fatalf("expected -6..9, got %d..%d", bounds.Lo, bounds.Hi)
	}
}
