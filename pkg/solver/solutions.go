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
package solver

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/conjure-cp/conjure-go/pkg/ast"
)

// Solutions are reported in terms of the original user variables: atoms
// introduced by representation lowering are folded back into the abstract
// value of the variable they represent, and machine-named auxiliaries are
// dropped.

// ReconstructSolution maps an atom-level solution back through the symbol
// table, producing one entry per user-named variable.
func ReconstructSolution(symbols *ast.SymbolTable, solution Solution) (Solution, error) {
	result := make(Solution)
	//
	for _, decl := range symbols.IterLocal() {
		if !decl.IsDecisionVariable() {
			continue
		}
		//
		base := decl.Name().BaseName()
		//
		switch base.(type) {
		case ast.MachineName, ast.RepresentedName:
			// auxiliaries and represented pieces are not user-facing
			continue
		}
		//
		key := ast.NameKey(base)
		//
		if name, ok := decl.Name().(ast.WithRepresentation); ok {
			value, err := reconstructRepresented(symbols, decl, name, solution)
			if err != nil {
				return nil, err
			}
			//
			result[key] = value
			//
			continue
		}
		//
		value, ok := solution[key]
		if !ok {
			return nil, ModelInvalid("no value for variable %s in solution", base)
		}
		//
		result[key] = value
	}
	//
	return result, nil
}

// reconstructRepresented rebuilds the abstract value of a represented
// variable from the values of its atom pieces.
func reconstructRepresented(symbols *ast.SymbolTable, decl *ast.Declaration,
	name ast.WithRepresentation, solution Solution) (ast.Literal, error) {
	//
	domain, ok := decl.Domain()
	if !ok {
		return nil, ModelInvalid("represented variable %s has no domain", name)
	}
	//
	resolved, err := ast.Resolved(domain)
	if err != nil {
		return nil, err
	}
	//
	if len(name.Representations) == 0 {
		return nil, ModelInvalid("variable %s has an empty representation wrapper", name)
	}
	//
	tag := name.Representations[0]
	base := name.Inner.BaseName()
	//
	piece := func(suffix string) (ast.Literal, error) {
		key := ast.NameKey(ast.RepresentedName{Inner: base, Rule: tag, Suffix: suffix})
		//
		value, ok := solution[key]
		if !ok {
			return nil, ModelInvalid("no value for represented piece %s of %s", suffix, base)
		}
		//
		return value, nil
	}
	//
	switch tag {
	case "tuple_to_atom":
		tuple := resolved.(ast.TupleDomain)
		elems := make([]ast.Literal, len(tuple.Elems))
		//
		for i := range tuple.Elems {
			value, err := piece(fmt.Sprintf("%d", i+1))
			if err != nil {
				return nil, err
			}
			//
			elems[i] = value
		}
		//
		return ast.TupleLit{Elems: elems}, nil
	case "record_to_atom":
		record := resolved.(ast.RecordDomain)
		fields := make([]ast.RecordEntry, len(record.Fields))
		//
		for i, field := range record.Fields {
			value, err := piece(fmt.Sprintf("%d", i+1))
			if err != nil {
				return nil, err
			}
			//
			fields[i] = ast.RecordEntry{Name: field.Name, Value: value}
		}
		//
		return ast.RecordLit{Fields: fields}, nil
	case "matrix_to_atom":
		matrix := resolved.(ast.MatrixDomain)
		return reconstructMatrix(base, tag, matrix.Indexes, nil, solution)
	case "sat_log_int":
		return nil, FeatureNotSupported("reconstructing sat_log_int values requires the SAT backend's decoder")
	}
	//
	return nil, ModelInvalid("unknown representation %s on %s", tag, base)
}

// reconstructMatrix rebuilds a (possibly nested) matrix literal from its
// cell atoms.
func reconstructMatrix(base ast.Name, tag string, indexes []ast.Domain,
	prefix []ast.Literal, solution Solution) (ast.Literal, error) {
	//
	if len(indexes) == 0 {
		key := ast.NameKey(ast.MatrixPieceName(base, prefix))
		//
		value, ok := solution[key]
		if !ok {
			return nil, ModelInvalid("no value for matrix cell %v of %s", prefix, base)
		}
		//
		return value, nil
	}
	//
	values, err := ast.DomainValues(indexes[0])
	if err != nil {
		return nil, err
	}
	//
	elems := make([]ast.Literal, len(values))
	//
	for i, v := range values {
		next := append(append([]ast.Literal{}, prefix...), v)
		//
		elem, err := reconstructMatrix(base, tag, indexes[1:], next, solution)
		if err != nil {
			return nil, err
		}
		//
		elems[i] = elem
	}
	//
	return ast.MatrixLit{Elems: elems, Index: indexes[0]}, nil
}

// MarshalSolutionsJSON renders solutions as the user-facing JSON array: one
// object per solution, mapping variable name to literal value.
func MarshalSolutionsJSON(solutions []Solution) ([]byte, error) {
	out := make([]map[string]any, len(solutions))
	//
	for i, solution := range solutions {
		obj := make(map[string]any, len(solution))
		//
		names := make([]string, 0, len(solution))
		for name := range solution {
			names = append(names, name)
		}
		//
		sort.Strings(names)
		//
		for _, name := range names {
			obj[name] = literalToJSON(solution[name])
		}
		//
		out[i] = obj
	}
	//
	return json.MarshalIndent(out, "", "  ")
}

func literalToJSON(lit ast.Literal) any {
	switch v := lit.(type) {
	case ast.IntLit:
		return int64(v)
	case ast.BoolLit:
		return bool(v)
	case ast.MatrixLit:
		elems := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = literalToJSON(e)
		}
		//
		return elems
	case ast.TupleLit:
		elems := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = literalToJSON(e)
		}
		//
		return elems
	case ast.RecordLit:
		fields := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			fields[f.Name.String()] = literalToJSON(f.Value)
		}
		//
		return fields
	}
	//
	return lit.String()
}
