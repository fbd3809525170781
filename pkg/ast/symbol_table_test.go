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
	"testing"
)

func TestSymbolTable_LookupWalksParents(t *testing.T) {
	parent := NewSymbolTable()
	child := NewChildSymbolTable(parent)
	//
	x := NewDecisionVariable(UserName("x"), BoolDomain{})
	if err := parent.Insert(x); err != nil {
		t.Fatal(err)
	}
	//
	if _, ok := child.LookupLocal(UserName("x")); ok {
		t.Error("lookup_local should not see the parent scope")
	}
	//
	decl, ok := child.Lookup(UserName("x"))
	if !ok || decl != x {
		t.Error("lookup should walk to the parent scope")
	}
}

func TestSymbolTable_ShadowingIsLocal(t *testing.T) {
	parent := NewSymbolTable()
	child := NewChildSymbolTable(parent)
	//
	outer := NewDecisionVariable(UserName("x"), BoolDomain{})
	inner := NewQuantified(UserName("x"), IntRangeDomain(1, 3))
	//
	if err := parent.Insert(outer); err != nil {
		t.Fatal(err)
	}
	//
	if err := child.Insert(inner); err != nil {
		t.Fatal(err)
	}
	//
	if decl, _ := child.Lookup(UserName("x")); decl != inner {
		t.Error("child lookup should find the shadowing declaration")
	}
	//
	if decl, _ := parent.Lookup(UserName("x")); decl != outer {
		t.Error("parent lookup should be unaffected by shadowing")
	}
}

func TestSymbolTable_DuplicateInsertFails(t *testing.T) {
	st := NewSymbolTable()
	//
	if err := st.Insert(NewDecisionVariable(UserName("x"), BoolDomain{})); err != nil {
		t.Fatal(err)
	}
	//
	if err := st.Insert(NewDecisionVariable(UserName("x"), BoolDomain{})); err == nil {
		t.Error("duplicate declaration should fail")
	}
}

func TestSymbolTable_GensymSharedWithChildren(t *testing.T) {
	parent := NewSymbolTable()
	child := NewChildSymbolTable(parent)
	//
	a := parent.Gensym()
	b := child.Gensym()
	c := parent.Gensym()
	//
	if a == b || b == c || a == c {
		t.Errorf("gensyms must be distinct across scopes: %s %s %s", a, b, c)
	}
}

func TestSymbolTable_DeclarationIdsAreStable(t *testing.T) {
	decl := NewDecisionVariable(UserName("x"), TupleDomain{[]Domain{BoolDomain{}}})
	id := decl.Id()
	//
	decl.SetName(WithRepresentation{Inner: UserName("x"), Representations: []string{"tuple_to_atom"}})
	decl.SetKind(&DecisionVariable{BoolDomain{}})
	//
	if decl.Id() != id {
		t.Error("name and kind replacement must not change the id")
	}
}

// ===================================================================
// Representations
// ===================================================================

func TestRepresentation_TupleInstallsPieces(t *testing.T) {
	st := NewSymbolTable()
	domain := TupleDomain{[]Domain{BoolDomain{}, IntRangeDomain(1, 3)}}
	//
	if err := st.Insert(NewDecisionVariable(UserName("t"), domain)); err != nil {
		t.Fatal(err)
	}
	//
	reprs, err := st.GetOrAddRepresentation(UserName("t"), []string{"tuple_to_atom"})
	if err != nil {
		t.Fatal(err)
	}
	//
	if len(reprs) != 1 || reprs[0].ReprName() != "tuple_to_atom" {
		t.Fatalf("unexpected representations %v", reprs)
	}
	//
	if _, ok := st.LookupLocal(RepresentedName{UserName("t"), "tuple_to_atom", "1"}); !ok {
		t.Error("first piece not installed")
	}
	//
	if _, ok := st.LookupLocal(RepresentedName{UserName("t"), "tuple_to_atom", "2"}); !ok {
		t.Error("second piece not installed")
	}
}

func TestRepresentation_GetOrAddIsIdempotent(t *testing.T) {
	st := NewSymbolTable()
	domain := TupleDomain{[]Domain{BoolDomain{}, BoolDomain{}}}
	//
	if err := st.Insert(NewDecisionVariable(UserName("t"), domain)); err != nil {
		t.Fatal(err)
	}
	//
	first, err := st.GetOrAddRepresentation(UserName("t"), []string{"tuple_to_atom"})
	if err != nil {
		t.Fatal(err)
	}
	//
	second, err := st.GetOrAddRepresentation(UserName("t"), []string{"tuple_to_atom"})
	if err != nil {
		t.Fatal(err)
	}
	//
	if first[0] != second[0] {
		t.Error("second request must reuse the installed representation")
	}
	//
	if tags := st.RepresentationsFor(UserName("t")); len(tags) != 1 {
		t.Errorf("expected one selected representation, got %v", tags)
	}
}

func TestRepresentation_MatrixPieceNames(t *testing.T) {
	st := NewSymbolTable()
	domain := MatrixDomain{IntRangeDomain(0, 1), []Domain{IntRangeDomain(1, 2), IntRangeDomain(1, 2)}}
	//
	if err := st.Insert(NewDecisionVariable(UserName("m"), domain)); err != nil {
		t.Fatal(err)
	}
	//
	if _, err := st.GetOrAddRepresentation(UserName("m"), []string{"matrix_to_atom"}); err != nil {
		t.Fatal(err)
	}
	//
	for _, suffix := range []string{"1_1", "1_2", "2_1", "2_2"} {
		if _, ok := st.LookupLocal(RepresentedName{UserName("m"), "matrix_to_atom", suffix}); !ok {
			t.Errorf("cell %s not installed", suffix)
		}
	}
}

func TestRepresentation_SatLogInt(t *testing.T) {
	st := NewSymbolTable()
	//
	if err := st.Insert(NewDecisionVariable(UserName("x"), IntRangeDomain(0, 5))); err != nil {
		t.Fatal(err)
	}
	//
	if _, err := st.GetOrAddRepresentation(UserName("x"), []string{"sat_log_int"}); err != nil {
		t.Fatal(err)
	}
	//
	// 0..5 spans 6 values, needing 3 bits.
	for _, suffix := range []string{"0", "1", "2"} {
		if _, ok := st.LookupLocal(RepresentedName{UserName("x"), "sat_log_int", suffix}); !ok {
			t.Errorf("bit %s not installed", suffix)
		}
	}
}
