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
package adaptors

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/solver"
)

// minionMutex serialises solve calls: Minion is a single-instance solver, so
// concurrent adaptor instances must queue.
var minionMutex sync.Mutex

// Minion translates the lowered model into Minion's input format and drives
// an external minion binary.  Only the flat constraint forms are accepted:
// anything else reaching this adaptor means the Minion rule set did not run,
// or could not finish.
type Minion struct {
	model *ast.Model
	// Search variables in declaration order; Minion prints solutions in
	// this order.
	vars []*ast.Declaration
	// Minion-safe variable names, aligned with vars.
	names []string
	// Rendered input file.
	input []byte
	// Path of the minion binary, discovered at init.
	binary string
}

// NewMinion creates a Minion adaptor.
func NewMinion() *Minion { return &Minion{} }

// Name implementation for the Adaptor interface.
func (a *Minion) Name(solver.Internal) string { return "Minion" }

// Family implementation for the Adaptor interface.
func (a *Minion) Family(solver.Internal) context.SolverFamily { return context.Minion }

// InitSolver implementation for the Adaptor interface.  The binary is
// optional at this point: model translation and input-file dumping work
// without it.
func (a *Minion) InitSolver(solver.Internal) error {
	if path, err := exec.LookPath("minion"); err == nil {
		a.binary = path
	}
	//
	return nil
}

// LoadModel implementation for the Adaptor interface.
func (a *Minion) LoadModel(model *ast.Model, _ solver.Internal) error {
	a.model = model
	a.vars = nil
	a.names = nil
	//
	var buf bytes.Buffer
	//
	fmt.Fprintln(&buf, "MINION 3")
	fmt.Fprintln(&buf, "**VARIABLES**")
	//
	for _, decl := range searchVariables(model) {
		domain, ok := decl.Domain()
		if !ok {
			continue
		}
		//
		resolved, err := ast.Resolved(domain)
		if err != nil {
			return fmt.Errorf("%w: %v", solver.ErrDomain, err)
		}
		//
		name := minionName(decl.Name())
		//
		switch d := resolved.(type) {
		case ast.BoolDomain:
			fmt.Fprintf(&buf, "BOOL %s\n", name)
		case ast.IntDomain:
			lo, hi, err := ast.IntDomainBounds(d)
			if err != nil {
				return fmt.Errorf("%w: %v", solver.ErrDomain, err)
			}
			//
			fmt.Fprintf(&buf, "DISCRETE %s {%d..%d}\n", name, lo, hi)
		default:
			return solver.FeatureNotSupported(
				"variable %s has abstract domain %s after lowering", decl.Name(), resolved)
		}
		//
		a.vars = append(a.vars, decl)
		a.names = append(a.names, name)
	}
	//
	fmt.Fprintln(&buf, "**SEARCH**")
	fmt.Fprintf(&buf, "PRINT [%s]\n", "["+strings.Join(a.names, "],[")+"]")
	fmt.Fprintln(&buf, "**CONSTRAINTS**")
	//
	for _, constraint := range model.AsSubModel().Constraints() {
		if err := a.writeConstraint(&buf, constraint); err != nil {
			return err
		}
	}
	//
	fmt.Fprintln(&buf, "**EOF**")
	//
	a.input = buf.Bytes()
	//
	return nil
}

// writeConstraint renders one flat constraint in Minion syntax.
func (a *Minion) writeConstraint(w io.Writer, constraint ast.Expression) error {
	switch c := constraint.(type) {
	case *ast.FlatSumLeq:
		fmt.Fprintf(w, "sumleq([%s], %s)\n", a.atoms(c.Terms), a.atom(c.Total))
	case *ast.FlatSumGeq:
		fmt.Fprintf(w, "sumgeq([%s], %s)\n", a.atoms(c.Terms), a.atom(c.Total))
	case *ast.FlatIneq:
		fmt.Fprintf(w, "ineq(%s, %s, %d)\n", a.atom(c.Left), a.atom(c.Right), int64(c.Constant))
	case *ast.FlatProductEq:
		fmt.Fprintf(w, "product(%s, %s, %s)\n", a.atom(c.Left), a.atom(c.Right), a.atom(c.Result))
	case *ast.FlatAbsEq:
		fmt.Fprintf(w, "abs(%s, %s)\n", a.atom(c.Result), a.atom(c.Value))
	case *ast.FlatMinusEq:
		// left - right = result, as a pair of weighted sums
		terms := a.atoms([]ast.Atom{c.Left, c.Right, c.Result})
		fmt.Fprintf(w, "weightedsumleq([1,-1,-1], [%s], 0)\n", terms)
		fmt.Fprintf(w, "weightedsumgeq([1,-1,-1], [%s], 0)\n", terms)
	case *ast.FlatWeightedSumLeq:
		fmt.Fprintf(w, "weightedsumleq([%s], [%s], %s)\n",
			weights(c.Weights), a.atoms(c.Terms), a.atom(c.Total))
	case *ast.FlatWeightedSumGeq:
		fmt.Fprintf(w, "weightedsumgeq([%s], [%s], %s)\n",
			weights(c.Weights), a.atoms(c.Terms), a.atom(c.Total))
	case *ast.FlatAllDiff:
		fmt.Fprintf(w, "alldiff([%s])\n", a.atoms(c.Terms))
	case *ast.FlatWatchedLiteral:
		value, ok := ast.EvalConstant(ast.NewLiteralExpr(c.Value))
		if !ok {
			return solver.ModelInvalid("watched literal value %s is not constant", c.Value)
		}
		//
		fmt.Fprintf(w, "w-literal(%s, %s)\n", minionName(c.Variable.Name()), value)
	case *ast.Reify:
		var inner bytes.Buffer
		//
		if err := a.writeConstraint(&inner, c.Constraint); err != nil {
			return err
		}
		//
		kind := "reify"
		if c.ImplyOnly {
			kind = "reifyimply"
		}
		//
		fmt.Fprintf(w, "%s(%s, %s)\n", kind, strings.TrimSpace(inner.String()), a.atom(c.Switch))
	default:
		return solver.FeatureNotSupported(
			"constraint %s is not in Minion flat form; was the Minion rule set enabled?", constraint)
	}
	//
	return nil
}

func (a *Minion) atom(atom ast.Atom) string {
	switch at := atom.(type) {
	case ast.IntLit:
		return strconv.FormatInt(int64(at), 10)
	case ast.BoolLit:
		if at {
			return "1"
		}
		//
		return "0"
	case ast.Reference:
		return minionName(at.Decl.Name())
	}
	//
	return atom.String()
}

func (a *Minion) atoms(atoms []ast.Atom) string {
	parts := make([]string, len(atoms))
	for i, at := range atoms {
		parts[i] = a.atom(at)
	}
	//
	return strings.Join(parts, ",")
}

func weights(lits []ast.IntLit) string {
	parts := make([]string, len(lits))
	for i, l := range lits {
		parts[i] = strconv.FormatInt(int64(l), 10)
	}
	//
	return strings.Join(parts, ",")
}

// minionName renders a name in Minion's identifier syntax.
func minionName(name ast.Name) string {
	var builder strings.Builder
	//
	for _, r := range ast.NameKey(name) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		} else {
			builder.WriteRune('_')
		}
	}
	//
	return builder.String()
}

// Solve implementation for the Adaptor interface.
func (a *Minion) Solve(callback solver.Callback, token solver.Internal) (solver.SolverStats, error) {
	return a.run(func(s solver.Solution) bool { return callback(s) })
}

// SolveMut implementation for the Adaptor interface.  Minion runs as an
// external process, so incremental solving is unavailable.
func (a *Minion) SolveMut(callback solver.MutCallback, token solver.Internal) (solver.SolverStats, error) {
	return a.run(func(s solver.Solution) bool {
		return callback(s, solver.NotModifiable{})
	})
}

func (a *Minion) run(deliver func(solver.Solution) bool) (solver.SolverStats, error) {
	if a.input == nil {
		return solver.SolverStats{}, solver.ModelInvalid("no model loaded")
	}
	//
	if a.binary == "" {
		return solver.SolverStats{}, solver.Runtime("Minion",
			fmt.Errorf("no minion binary on PATH"))
	}
	//
	minionMutex.Lock()
	defer minionMutex.Unlock()
	//
	file, err := os.CreateTemp("", "conjure-go-*.minion")
	if err != nil {
		return solver.SolverStats{}, solver.Runtime("Minion", err)
	}
	//
	defer os.Remove(file.Name())
	//
	if _, err := file.Write(a.input); err != nil {
		return solver.SolverStats{}, solver.Runtime("Minion", err)
	}
	//
	file.Close()
	//
	cmd := exec.Command(a.binary, "-findallsols", "-printsolsonly", file.Name())
	//
	out, err := cmd.Output()
	if err != nil {
		return solver.SolverStats{}, solver.Runtime("Minion", err)
	}
	//
	stats := solver.SolverStats{Status: solver.Complete}
	//
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		//
		fields := strings.Fields(line)
		if len(fields) != len(a.vars) {
			continue
		}
		//
		solution := make(solver.Solution, len(a.vars))
		//
		for i, field := range fields {
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return stats, solver.Runtime("Minion", err)
			}
			//
			solution[ast.NameKey(a.vars[i].Name())] = minionValue(a.vars[i], n)
		}
		//
		stats.SolutionsFound++
		//
		if !deliver(solution) {
			stats.Status = solver.IncompleteUserTerminated
			break
		}
	}
	//
	stats.Satisfiable = stats.SolutionsFound > 0
	//
	return stats, nil
}

// minionValue converts a printed Minion value back to a literal of the
// variable's type.
func minionValue(decl *ast.Declaration, n int64) ast.Literal {
	if domain, ok := decl.Domain(); ok {
		if resolved, err := ast.Resolved(domain); err == nil {
			if _, ok := resolved.(ast.BoolDomain); ok {
				return ast.BoolLit(n != 0)
			}
		}
	}
	//
	return ast.IntLit(n)
}

// WriteSolverInput implementation for the Adaptor interface.
func (a *Minion) WriteSolverInput(w io.Writer, _ solver.Internal) error {
	if a.input == nil {
		return solver.ModelInvalid("no model loaded")
	}
	//
	_, err := w.Write(a.input)
	//
	return err
}
