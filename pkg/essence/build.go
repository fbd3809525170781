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
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/conjure-cp/conjure-go/pkg/util"
)

// builder converts the surface grammar into the typed intermediate
// representation, resolving every name against the model's symbol tables as
// it goes.
type builder struct {
	filename string
}

func buildModel(filename string, program *Program, ctx *context.Context) (*ast.Model, error) {
	b := &builder{filename}
	model := ast.NewModel(ctx)
	scope := model.Symbols()
	//
	for _, stmt := range program.Statements {
		var err error
		//
		switch {
		case stmt.Find != nil:
			err = b.buildFind(stmt.Find, scope)
		case stmt.Given != nil:
			err = b.buildGiven(stmt.Given, scope)
		case stmt.Letting != nil:
			err = b.buildLetting(stmt.Letting, scope)
		case stmt.SuchThat != nil:
			err = b.buildSuchThat(stmt.SuchThat, model, scope)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	return model, nil
}

func (b *builder) errorAt(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d:%d: %s", solver.ErrParse,
		b.filename, pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

func (b *builder) buildFind(stmt *FindStmt, scope *ast.SymbolTable) error {
	domain, err := b.buildDomain(stmt.Domain, scope)
	if err != nil {
		return err
	}
	//
	for _, name := range stmt.Names {
		if err := scope.Insert(ast.NewDecisionVariable(ast.UserName(name), domain)); err != nil {
			return b.errorAt(stmt.Pos, "%v", err)
		}
	}
	//
	return nil
}

func (b *builder) buildGiven(stmt *GivenStmt, scope *ast.SymbolTable) error {
	domain, err := b.buildDomain(stmt.Domain, scope)
	if err != nil {
		return err
	}
	//
	for _, name := range stmt.Names {
		if err := scope.Insert(ast.NewGiven(ast.UserName(name), domain)); err != nil {
			return b.errorAt(stmt.Pos, "%v", err)
		}
	}
	//
	return nil
}

func (b *builder) buildLetting(stmt *LettingStmt, scope *ast.SymbolTable) error {
	if stmt.Domain != nil {
		domain, err := b.buildDomain(stmt.Domain, scope)
		if err != nil {
			return err
		}
		//
		if err := scope.Insert(ast.NewDomainLetting(ast.UserName(stmt.Name), domain)); err != nil {
			return b.errorAt(stmt.Pos, "%v", err)
		}
		//
		return nil
	}
	//
	value, err := b.buildExpr(stmt.Value, scope)
	if err != nil {
		return err
	}
	//
	if err := scope.Insert(ast.NewValueLetting(ast.UserName(stmt.Name), value)); err != nil {
		return b.errorAt(stmt.Pos, "%v", err)
	}
	//
	return nil
}

func (b *builder) buildSuchThat(stmt *SuchThatStmt, model *ast.Model, scope *ast.SymbolTable) error {
	for _, c := range stmt.Constraints {
		constraint, err := b.buildExpr(c, scope)
		if err != nil {
			return err
		}
		//
		model.AddConstraint(constraint)
	}
	//
	return nil
}

// ============================================================================
// Domains
// ============================================================================

func (b *builder) buildDomain(node *DomainNode, scope *ast.SymbolTable) (ast.Domain, error) {
	switch {
	case node.Bool:
		return ast.BoolDomain{}, nil
	case node.Int != nil:
		ranges := make([]ast.Range, len(node.Int.Ranges))
		//
		for i, r := range node.Int.Ranges {
			built, err := b.buildRange(r, scope)
			if err != nil {
				return nil, err
			}
			//
			ranges[i] = built
		}
		//
		if len(ranges) == 0 {
			ranges = []ast.Range{ast.UnboundedRange{}}
		}
		//
		return ast.IntDomain{Ranges: ranges}, nil
	case node.Tuple != nil:
		elems := make([]ast.Domain, len(node.Tuple.Elems))
		//
		for i, e := range node.Tuple.Elems {
			built, err := b.buildDomain(e, scope)
			if err != nil {
				return nil, err
			}
			//
			elems[i] = built
		}
		//
		return ast.TupleDomain{Elems: elems}, nil
	case node.Matrix != nil:
		value, err := b.buildDomain(node.Matrix.Value, scope)
		if err != nil {
			return nil, err
		}
		//
		indexes := make([]ast.Domain, len(node.Matrix.Indexes))
		for i, idx := range node.Matrix.Indexes {
			if indexes[i], err = b.buildDomain(idx, scope); err != nil {
				return nil, err
			}
		}
		//
		return ast.MatrixDomain{Value: value, Indexes: indexes}, nil
	case node.Record != nil:
		fields := make([]ast.RecordDomainField, len(node.Record.Fields))
		//
		for i, f := range node.Record.Fields {
			domain, err := b.buildDomain(f.Domain, scope)
			if err != nil {
				return nil, err
			}
			//
			fields[i] = ast.RecordDomainField{Name: ast.UserName(f.Name), Domain: domain}
		}
		//
		return ast.RecordDomain{Fields: fields}, nil
	case node.Ref != nil:
		decl, ok := scope.Lookup(ast.UserName(*node.Ref))
		if !ok {
			return nil, fmt.Errorf("%w: no domain named %s in scope", solver.ErrParse, *node.Ref)
		}
		//
		return ast.ReferenceDomain{Decl: decl}, nil
	}
	//
	return nil, fmt.Errorf("%w: malformed domain", solver.ErrParse)
}

func (b *builder) buildRange(node *RangeNode, scope *ast.SymbolTable) (ast.Range, error) {
	bound := func(e *Expr) (ast.IntVal, error) {
		built, err := b.buildExpr(e, scope)
		if err != nil {
			return nil, err
		}
		//
		if n, ok := ast.AsIntLiteral(built); ok {
			return ast.ConstInt(n), nil
		}
		//
		if decl, ok := ast.AsReference(built); ok {
			return ast.RefVal{Decl: decl}, nil
		}
		//
		return ast.ExprVal{Value: built}, nil
	}
	//
	switch {
	case node.Lo != nil && node.Dots && node.Hi != nil:
		lo, err := bound(node.Lo)
		if err != nil {
			return nil, err
		}
		//
		hi, err := bound(node.Hi)
		if err != nil {
			return nil, err
		}
		//
		return ast.BoundedRange{Lo: lo, Hi: hi}, nil
	case node.Lo != nil && node.Dots:
		lo, err := bound(node.Lo)
		if err != nil {
			return nil, err
		}
		//
		return ast.UnboundedRRange{Lo: lo}, nil
	case node.Lo != nil:
		v, err := bound(node.Lo)
		if err != nil {
			return nil, err
		}
		//
		return ast.SingleRange{Value: v}, nil
	case node.DotsOnly && node.HiOnly != nil:
		hi, err := bound(node.HiOnly)
		if err != nil {
			return nil, err
		}
		//
		return ast.UnboundedLRange{Hi: hi}, nil
	case node.DotsOnly:
		return ast.UnboundedRange{}, nil
	}
	//
	return nil, fmt.Errorf("%w: malformed range", solver.ErrParse)
}

// ============================================================================
// Expressions
// ============================================================================

func (b *builder) buildExpr(node *Expr, scope *ast.SymbolTable) (ast.Expression, error) {
	return b.buildIff(node.E, scope)
}

func (b *builder) buildIff(node *IffExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildImply(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	for _, rest := range node.Rest {
		right, err := b.buildImply(rest, scope)
		if err != nil {
			return nil, err
		}
		//
		left = ast.NewIff(left, right)
	}
	//
	return left, nil
}

func (b *builder) buildImply(node *ImplyExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	// Implication associates to the right.
	parts := make([]ast.Expression, 0, len(node.Rest)+1)
	//
	left, err := b.buildOr(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	parts = append(parts, left)
	//
	for _, rest := range node.Rest {
		right, err := b.buildOr(rest, scope)
		if err != nil {
			return nil, err
		}
		//
		parts = append(parts, right)
	}
	//
	result := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		result = ast.NewImply(parts[i], result)
	}
	//
	return result, nil
}

func (b *builder) buildOr(node *OrExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildAnd(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	if len(node.Rest) == 0 {
		return left, nil
	}
	//
	terms := []ast.Expression{left}
	//
	for _, rest := range node.Rest {
		right, err := b.buildAnd(rest, scope)
		if err != nil {
			return nil, err
		}
		//
		terms = append(terms, right)
	}
	//
	return ast.Or(terms...), nil
}

func (b *builder) buildAnd(node *AndExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildNot(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	if len(node.Rest) == 0 {
		return left, nil
	}
	//
	terms := []ast.Expression{left}
	//
	for _, rest := range node.Rest {
		right, err := b.buildNot(rest, scope)
		if err != nil {
			return nil, err
		}
		//
		terms = append(terms, right)
	}
	//
	return ast.And(terms...), nil
}

func (b *builder) buildNot(node *NotExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	if node.Not != nil {
		inner, err := b.buildNot(node.Not, scope)
		if err != nil {
			return nil, err
		}
		//
		return ast.NewNot(inner), nil
	}
	//
	return b.buildCmp(node.Cmp, scope)
}

func (b *builder) buildCmp(node *CmpExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildAdd(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	if node.Op == "" {
		return left, nil
	}
	//
	right, err := b.buildAdd(node.Right, scope)
	if err != nil {
		return nil, err
	}
	//
	var kind ast.CmpKind
	//
	switch node.Op {
	case "=":
		kind = ast.CmpEq
	case "!=":
		kind = ast.CmpNeq
	case "<=":
		kind = ast.CmpLeq
	case ">=":
		kind = ast.CmpGeq
	case "<":
		kind = ast.CmpLt
	case ">":
		kind = ast.CmpGt
	default:
		return nil, fmt.Errorf("%w: unknown comparison %q", solver.ErrParse, node.Op)
	}
	//
	return ast.NewCmp(kind, left, right), nil
}

func (b *builder) buildAdd(node *AddExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildMul(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	// Consecutive additions merge into one sum; subtraction closes the
	// current sum and continues from the difference.
	terms := []ast.Expression{left}
	//
	for _, rest := range node.Rest {
		right, err := b.buildMul(rest.Right, scope)
		if err != nil {
			return nil, err
		}
		//
		if rest.Op == "+" {
			terms = append(terms, right)
		} else {
			terms = []ast.Expression{ast.NewMinus(sumOf(terms), right)}
		}
	}
	//
	return sumOf(terms), nil
}

func sumOf(terms []ast.Expression) ast.Expression {
	if len(terms) == 1 {
		return terms[0]
	}
	//
	return ast.Sum(terms...)
}

func (b *builder) buildMul(node *MulExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	left, err := b.buildPow(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	factors := []ast.Expression{left}
	//
	for _, rest := range node.Rest {
		right, err := b.buildPow(rest.Right, scope)
		if err != nil {
			return nil, err
		}
		//
		switch rest.Op {
		case "*":
			factors = append(factors, right)
		case "/":
			factors = []ast.Expression{ast.NewUnsafeArith(ast.ArithDiv, productOf(factors), right)}
		case "%":
			factors = []ast.Expression{ast.NewUnsafeArith(ast.ArithMod, productOf(factors), right)}
		}
	}
	//
	return productOf(factors), nil
}

func productOf(factors []ast.Expression) ast.Expression {
	if len(factors) == 1 {
		return factors[0]
	}
	//
	return ast.Product(factors...)
}

func (b *builder) buildPow(node *PowExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	// Exponentiation associates to the right.
	parts := make([]ast.Expression, 0, len(node.Rest)+1)
	//
	left, err := b.buildUnary(node.Left, scope)
	if err != nil {
		return nil, err
	}
	//
	parts = append(parts, left)
	//
	for _, rest := range node.Rest {
		right, err := b.buildUnary(rest, scope)
		if err != nil {
			return nil, err
		}
		//
		parts = append(parts, right)
	}
	//
	result := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		result = ast.NewUnsafeArith(ast.ArithPow, parts[i], result)
	}
	//
	return result, nil
}

func (b *builder) buildUnary(node *UnaryExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	if node.Neg != nil {
		inner, err := b.buildUnary(node.Neg, scope)
		if err != nil {
			return nil, err
		}
		//
		return ast.NewNeg(inner), nil
	}
	//
	return b.buildPostfix(node.Postfix, scope)
}

func (b *builder) buildPostfix(node *PostfixExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	subject, err := b.buildPrimary(node.Primary, scope)
	if err != nil {
		return nil, err
	}
	//
	for _, group := range node.Indexes {
		hole := false
		for _, idx := range group.Indices {
			hole = hole || idx.Hole
		}
		//
		if hole {
			indices := make([]util.Option[ast.Expression], len(group.Indices))
			//
			for i, idx := range group.Indices {
				if idx.Hole {
					indices[i] = util.None[ast.Expression]()
					continue
				}
				//
				built, err := b.buildExpr(idx.Expr, scope)
				if err != nil {
					return nil, err
				}
				//
				indices[i] = util.Some(built)
			}
			//
			subject = ast.NewUnsafeSlice(subject, indices...)
			//
			continue
		}
		//
		indices := make([]ast.Expression, len(group.Indices))
		for i, idx := range group.Indices {
			if indices[i], err = b.buildExpr(idx.Expr, scope); err != nil {
				return nil, err
			}
		}
		//
		subject = ast.NewUnsafeIndex(subject, indices...)
	}
	//
	return subject, nil
}

func (b *builder) buildPrimary(node *Primary, scope *ast.SymbolTable) (ast.Expression, error) {
	switch {
	case node.Int != nil:
		return ast.IntExpr(*node.Int), nil
	case node.Call != nil:
		return b.buildCall(node, scope)
	case node.Ident != nil:
		switch *node.Ident {
		case "true":
			return ast.BoolExpr(true), nil
		case "false":
			return ast.BoolExpr(false), nil
		}
		//
		decl, ok := scope.Lookup(ast.UserName(*node.Ident))
		if !ok {
			return nil, b.errorAt(node.Pos, "no declaration named %s in scope", *node.Ident)
		}
		//
		// Every name, value lettings included, stays a reference to its
		// declaration; nothing is substituted at parse time.
		return ast.NewReferenceExpr(decl), nil
	case node.Abs != nil:
		inner, err := b.buildExpr(node.Abs, scope)
		if err != nil {
			return nil, err
		}
		//
		return ast.NewAbs(inner), nil
	case node.Paren != nil:
		elems := make([]ast.Expression, len(node.Paren.Elems))
		//
		for i, e := range node.Paren.Elems {
			built, err := b.buildExpr(e, scope)
			if err != nil {
				return nil, err
			}
			//
			elems[i] = built
		}
		//
		if len(elems) == 1 {
			return elems[0], nil
		}
		//
		return ast.NewTupleExpr(elems...), nil
	case node.Brack != nil:
		return b.buildBracket(node.Brack, scope)
	}
	//
	return nil, b.errorAt(node.Pos, "malformed expression")
}

// acCallKinds maps surface operator names onto AC operator kinds.
var acCallKinds = map[string]ast.ACKind{
	"and":     ast.ACAnd,
	"or":      ast.ACOr,
	"sum":     ast.ACSum,
	"product": ast.ACProduct,
	"min":     ast.ACMin,
	"max":     ast.ACMax,
	"allDiff": ast.ACAllDiff,
}

func (b *builder) buildCall(node *Primary, scope *ast.SymbolTable) (ast.Expression, error) {
	call := node.Call
	//
	args := make([]ast.Expression, len(call.Args))
	for i, a := range call.Args {
		built, err := b.buildExpr(a, scope)
		if err != nil {
			return nil, err
		}
		//
		args[i] = built
	}
	//
	if kind, ok := acCallKinds[call.Name]; ok {
		// A single matrix-ish argument is used directly; several scalar
		// arguments form the operand matrix.
		if len(args) == 1 {
			return ast.NewACOp(kind, args[0]), nil
		}
		//
		return ast.NewACOp(kind, ast.NewMatrixExpr(args...)), nil
	}
	//
	if call.Name == "flatten" {
		switch len(args) {
		case 1:
			return ast.NewFlatten(args[0]), nil
		case 2:
			depth, ok := ast.AsIntLiteral(args[0])
			if !ok {
				return nil, b.errorAt(node.Pos, "flatten depth must be a constant")
			}
			//
			return ast.NewFlattenDepth(int(depth), args[1]), nil
		}
		//
		return nil, b.errorAt(node.Pos, "flatten takes one or two arguments")
	}
	//
	return nil, b.errorAt(node.Pos, "unknown operator %s", call.Name)
}

func (b *builder) buildBracket(node *BracketExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	if node.Bar {
		return b.buildComprehension(node, scope)
	}
	//
	var elems []ast.Expression
	//
	if node.First != nil {
		first, err := b.buildExpr(node.First, scope)
		if err != nil {
			return nil, err
		}
		//
		elems = append(elems, first)
		//
		for _, rest := range node.Rest {
			built, err := b.buildExpr(rest, scope)
			if err != nil {
				return nil, err
			}
			//
			elems = append(elems, built)
		}
	}
	//
	return ast.NewMatrixExpr(elems...), nil
}

func (b *builder) buildComprehension(node *BracketExpr, scope *ast.SymbolTable) (ast.Expression, error) {
	child := ast.NewChildSymbolTable(scope)
	//
	var qualifiers []ast.Qualifier
	//
	for _, q := range node.Quals {
		switch {
		case q.Gen != nil:
			// Generator bounds may reference earlier quantified names, so
			// domains build in the child scope.
			domain, err := b.buildDomain(q.Gen.Domain, child)
			if err != nil {
				return nil, err
			}
			//
			name := ast.UserName(q.Gen.Name)
			//
			if err := child.Insert(ast.NewQuantified(name, domain)); err != nil {
				return nil, fmt.Errorf("%w: %v", solver.ErrParse, err)
			}
			//
			qualifiers = append(qualifiers, ast.Generator{Name: name, Domain: domain})
		case q.Cond != nil:
			guard, err := b.buildExpr(q.Cond, child)
			if err != nil {
				return nil, err
			}
			//
			qualifiers = append(qualifiers, ast.Condition{Guard: guard})
		}
	}
	//
	ret, err := b.buildExpr(node.First, child)
	if err != nil {
		return nil, err
	}
	//
	return ast.NewComprehension(ret, qualifiers, child), nil
}
