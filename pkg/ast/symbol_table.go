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
	"fmt"
)

// SymbolTable maps names to declarations within one lexical scope.  Scopes
// nest: each table holds a pointer to its parent, and lookups walk the chain
// outwards.  Gensym counters are shared with the root table, so machine names
// are unique across an entire model.
//
// The table additionally records, per name, which representations have been
// selected for it (see Representation).  Installing a representation creates
// the represented sub-declarations as a side effect.
type SymbolTable struct {
	// Declarations in this scope, keyed by base-name key.
	table map[string]*Declaration
	// Insertion order of keys, for deterministic iteration.
	order []string
	// Enclosing scope, or nil for the root.
	parent *SymbolTable
	// Gensym counter, shared across all scopes of one model.
	gensym *uint64
	// Selected representations per name, in selection order.
	representations map[string][]Representation
}

// NewSymbolTable constructs an empty root symbol table.
func NewSymbolTable() *SymbolTable {
	var counter uint64
	//
	return &SymbolTable{
		table:           make(map[string]*Declaration),
		parent:          nil,
		gensym:          &counter,
		representations: make(map[string][]Representation),
	}
}

// NewChildSymbolTable constructs an empty scope nested inside parent.
func NewChildSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		table:           make(map[string]*Declaration),
		parent:          parent,
		gensym:          parent.gensym,
		representations: make(map[string][]Representation),
	}
}

// Parent returns the enclosing scope, or nil for the root table.
func (st *SymbolTable) Parent() *SymbolTable { return st.parent }

// Insert adds a declaration to this scope.  Fails if the name is already
// declared here (shadowing an outer scope is fine).
func (st *SymbolTable) Insert(decl *Declaration) error {
	key := NameKey(decl.Name())
	//
	if _, ok := st.table[key]; ok {
		return fmt.Errorf("duplicate declaration of %s", decl.Name())
	}
	//
	st.table[key] = decl
	st.order = append(st.order, key)
	//
	return nil
}

// LookupLocal finds a declaration in this scope only.  Representation
// wrappers on the name are ignored.
func (st *SymbolTable) LookupLocal(name Name) (*Declaration, bool) {
	decl, ok := st.table[NameKey(name)]
	return decl, ok
}

// Lookup finds a declaration in this scope or any enclosing scope.
func (st *SymbolTable) Lookup(name Name) (*Declaration, bool) {
	for scope := st; scope != nil; scope = scope.parent {
		if decl, ok := scope.LookupLocal(name); ok {
			return decl, true
		}
	}
	//
	return nil, false
}

// Gensym returns a fresh machine name, unique across the whole model.
func (st *SymbolTable) Gensym() MachineName {
	*st.gensym++
	return MachineName(*st.gensym)
}

// GensymDecisionVariable creates and inserts an auxiliary decision variable
// with a fresh machine name.
func (st *SymbolTable) GensymDecisionVariable(domain Domain) *Declaration {
	decl := NewDecisionVariable(st.Gensym(), domain)
	//
	if err := st.Insert(decl); err != nil {
		// Machine names are fresh, so insertion cannot collide.
		panic(err)
	}
	//
	return decl
}

// IterLocal returns the declarations of this scope in insertion order.
func (st *SymbolTable) IterLocal() []*Declaration {
	decls := make([]*Declaration, len(st.order))
	for i, key := range st.order {
		decls[i] = st.table[key]
	}
	//
	return decls
}

// Clone returns a shallow copy of this scope sharing its declarations,
// parent and gensym counter.  Rules mutate the clone and hand it back to the
// engine, which merges it in.
func (st *SymbolTable) Clone() *SymbolTable {
	table := make(map[string]*Declaration, len(st.table))
	for k, v := range st.table {
		table[k] = v
	}
	//
	reprs := make(map[string][]Representation, len(st.representations))
	for k, v := range st.representations {
		reprs[k] = append([]Representation(nil), v...)
	}
	//
	return &SymbolTable{
		table:           table,
		order:           append([]string(nil), st.order...),
		parent:          st.parent,
		gensym:          st.gensym,
		representations: reprs,
	}
}

// Extend merges the contents of other into this scope: declarations and
// representations present in other but not here are adopted.  Nothing is ever
// removed, keeping the table monotone across rewrites.
func (st *SymbolTable) Extend(other *SymbolTable) {
	for _, key := range other.order {
		if _, ok := st.table[key]; !ok {
			st.table[key] = other.table[key]
			st.order = append(st.order, key)
		}
	}
	//
	for name, reprs := range other.representations {
		if len(reprs) > len(st.representations[name]) {
			st.representations[name] = reprs
		}
	}
}

// ============================================================================
// Representations
// ============================================================================

// RepresentationsFor returns the tags of the representations selected for the
// given name so far, in selection order.
func (st *SymbolTable) RepresentationsFor(name Name) []string {
	reprs := st.representations[NameKey(name)]
	//
	tags := make([]string, len(reprs))
	for i, r := range reprs {
		tags[i] = r.ReprName()
	}
	//
	return tags
}

// GetOrAddRepresentation returns representation instances for the given name
// and tags, creating and installing them on first request.  Installation adds
// the represented sub-declarations to this scope.  Fails if a tag is unknown
// or does not apply to the declaration's domain.
func (st *SymbolTable) GetOrAddRepresentation(name Name, tags []string) ([]Representation, error) {
	key := NameKey(name)
	//
	decl, ok := st.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no declaration named %s in scope", name)
	}
	//
	existing := st.representations[key]
	result := make([]Representation, 0, len(tags))
	//
	for _, tag := range tags {
		var found Representation
		//
		for _, r := range existing {
			if r.ReprName() == tag {
				found = r
				break
			}
		}
		//
		if found == nil {
			repr, err := newRepresentation(tag, decl, st)
			if err != nil {
				return nil, err
			}
			//
			existing = append(existing, repr)
			found = repr
		}
		//
		result = append(result, found)
	}
	//
	st.representations[key] = existing
	//
	return result, nil
}

// GetRepresentation returns already-installed representation instances for
// the given name and tags, without creating any.
func (st *SymbolTable) GetRepresentation(name Name, tags []string) ([]Representation, bool) {
	existing := st.representations[NameKey(name)]
	result := make([]Representation, 0, len(tags))
	//
	for _, tag := range tags {
		var found Representation
		//
		for _, r := range existing {
			if r.ReprName() == tag {
				found = r
				break
			}
		}
		//
		if found == nil {
			return nil, false
		}
		//
		result = append(result, found)
	}
	//
	return result, true
}
