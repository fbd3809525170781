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
	"errors"
	"testing"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
)

// Parse parses source text, failing the test on error.
func Parse(t *testing.T, source string) *ast.Model {
	t.Helper()
	//
	model, err := ParseString("test.essence", source, context.NewContext(context.Minion))
	if err != nil {
		t.Fatal(err)
	}
	//
	return model
}

// CheckConstraint checks the rendering of the sole constraint of a parsed
// model.
func CheckConstraint(t *testing.T, source string, expected string) {
	t.Helper()
	//
	model := Parse(t, source)
	constraints := model.AsSubModel().Constraints()
	//
	if len(constraints) != 1 {
		t.Fatalf("expected one constraint, got %d", len(constraints))
	}
	//
	if actual := constraints[0].String(); actual != expected {
		t.Errorf("parsed %q, expected %q", actual, expected)
	}
}

// ===================================================================
// Statements
// ===================================================================

func TestParse_Find(t *testing.T) {
	model := Parse(t, "find x, y : int(1..4)\n")
	//
	for _, name := range []string{"x", "y"} {
		decl, ok := model.Symbols().Lookup(ast.UserName(name))
		if !ok || !decl.IsDecisionVariable() {
			t.Errorf("%s should be a decision variable", name)
		}
	}
}

func TestParse_LettingValue(t *testing.T) {
	model := Parse(t, "letting n be 3\nfind x : int(1..n)\nsuch that x = n\n")
	//
	decl, ok := model.Symbols().Lookup(ast.UserName("n"))
	if !ok {
		t.Fatal("n not declared")
	}
	//
	if _, ok := decl.Kind().(*ast.ValueLetting); !ok {
		t.Errorf("n should be a value letting, got %s", decl.Kind())
	}
	//
	// The bound resolves through the letting.
	x, _ := model.Symbols().Lookup(ast.UserName("x"))
	domain, _ := x.Domain()
	//
	resolved, err := ast.Resolved(domain)
	if err != nil {
		t.Fatal(err)
	}
	//
	if _, hi, _ := ast.IntDomainBounds(resolved); hi != 3 {
		t.Errorf("expected upper bound 3, got %d", hi)
	}
}

func TestParse_Given(t *testing.T) {
	model := Parse(t, "given n : int\nfind x : int(1..n)\n")
	//
	decl, _ := model.Symbols().Lookup(ast.UserName("n"))
	if _, ok := decl.Kind().(*ast.Given); !ok {
		t.Error("n should be a given")
	}
}

func TestParse_UnknownNameFails(t *testing.T) {
	_, err := ParseString("test.essence", "such that x = 1\n", context.NewContext(context.Minion))
	//
	if !errors.Is(err, solver.ErrParse) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestParse_SyntaxErrorFails(t *testing.T) {
	_, err := ParseString("test.essence", "find : int(1..3)\n", context.NewContext(context.Minion))
	//
	if !errors.Is(err, solver.ErrParse) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

// ===================================================================
// Expressions
// ===================================================================

func TestParse_OperatorPrecedence(t *testing.T) {
	CheckConstraint(t, "find x : int(0..9)\nsuch that x + 2 * 3 = 7\n",
		"(sum([x, product([2, 3])]) = 7)")
}

func TestParse_SumChainsMerge(t *testing.T) {
	CheckConstraint(t, "find x, y, z : int(0..9)\nsuch that x + y + z = 4\n",
		"(sum([x, y, z]) = 4)")
}

func TestParse_Subtraction(t *testing.T) {
	CheckConstraint(t, "find x, y : int(0..9)\nsuch that x - y = 1\n",
		"((x - y) = 1)")
}

func TestParse_BooleanConnectives(t *testing.T) {
	CheckConstraint(t, "find p, q : bool\nsuch that p /\\ q -> p \\/ q\n",
		"(and([p, q]) -> or([p, q]))")
}

func TestParse_DivisionIsUnsafe(t *testing.T) {
	CheckConstraint(t, "find x : int(1..9)\nsuch that x / 2 = 1\n",
		"((x /' 2) = 1)")
}

func TestParse_Indexing(t *testing.T) {
	CheckConstraint(t,
		"find m : matrix indexed by [int(1..3)] of int(1..3)\nsuch that m[1] = 2\n",
		"(m[1] = 2)")
}

func TestParse_Slice(t *testing.T) {
	CheckConstraint(t,
		"find m : matrix indexed by [int(1..3)] of int(1..3)\nsuch that allDiff(m[..])\n",
		"allDiff(m[..])")
}

func TestParse_TupleLiteral(t *testing.T) {
	CheckConstraint(t,
		"find t : tuple (int(1..2), int(1..2))\nsuch that t = (1, 2)\n",
		"(t = (1, 2))")
}

func TestParse_MatrixLiteral(t *testing.T) {
	CheckConstraint(t, "find x : int(1..3)\nsuch that x = min([3, 1, 2])\n",
		"(x = min([3, 1, 2]))")
}

func TestParse_Abs(t *testing.T) {
	CheckConstraint(t, "find x : int(-3..3)\nsuch that |x| = 2\n",
		"(|x| = 2)")
}

func TestParse_Comprehension(t *testing.T) {
	model := Parse(t, "find x : int(1..3)\nsuch that and([x != i | i : int(1..3), i != 2])\n")
	//
	constraint := model.AsSubModel().Constraints()[0]
	//
	op, ok := constraint.(*ast.ACOp)
	if !ok || op.Kind != ast.ACAnd {
		t.Fatalf("expected and(...), got %s", constraint)
	}
	//
	comprehension, ok := op.Args.(*ast.Comprehension)
	if !ok {
		t.Fatalf("expected a comprehension operand, got %s", op.Args)
	}
	//
	if len(comprehension.QuantifiedNames()) != 1 {
		t.Errorf("expected one generator, got %v", comprehension.QuantifiedNames())
	}
	//
	if len(comprehension.Guards()) != 1 {
		t.Errorf("expected one guard, got %v", comprehension.Guards())
	}
	//
	// The quantified declaration lives in the comprehension scope, not the
	// model scope.
	if _, ok := model.Symbols().LookupLocal(ast.UserName("i")); ok {
		t.Error("quantified variable leaked into the model scope")
	}
	//
	if _, ok := comprehension.Symbols.LookupLocal(ast.UserName("i")); !ok {
		t.Error("quantified variable missing from the comprehension scope")
	}
}

func TestParse_CommentsAreElided(t *testing.T) {
	Parse(t, "$ a comment\nfind x : int(1..3) $ trailing\n")
}
