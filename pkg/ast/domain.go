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
	"fmt"
	"strings"

	"github.com/conjure-cp/conjure-go/pkg/util"
)

// ErrDomainNotGround indicates a domain whose bounds could not be reduced to
// constants (e.g. a bound referencing an unbound given).
var ErrDomainNotGround = errors.New("domain is not ground")

// ErrDomainNotFinite indicates a domain which cannot be finitely enumerated.
var ErrDomainNotFinite = errors.New("domain is not finite")

// Domain describes the set of values a declaration ranges over.  Domains with
// non-constant bounds (bounds referencing givens or lettings) are "unresolved"
// until Resolved substitutes constants through; only ground domains can be
// enumerated.
type Domain interface {
	fmt.Stringer
	// ValueType returns the type of the values in this domain.
	ValueType() Type
	// IsGround checks whether every bound in this domain is constant.
	IsGround() bool
	//
	isDomain()
}

// ============================================================================
// BoolDomain
// ============================================================================

// BoolDomain contains the two boolean values.
type BoolDomain struct{}

func (BoolDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (BoolDomain) ValueType() Type { return BoolType{} }

// IsGround implementation for the Domain interface.
func (BoolDomain) IsGround() bool { return true }

func (BoolDomain) String() string { return "bool" }

// ============================================================================
// IntDomain
// ============================================================================

// IntDomain contains the integers covered by its ranges.
type IntDomain struct {
	Ranges []Range
}

// IntRangeDomain builds the ground integer domain lo..hi.
func IntRangeDomain(lo int64, hi int64) IntDomain {
	return IntDomain{[]Range{BoundedRange{ConstInt(lo), ConstInt(hi)}}}
}

func (IntDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (IntDomain) ValueType() Type { return IntType{} }

// IsGround implementation for the Domain interface.
func (d IntDomain) IsGround() bool {
	for _, r := range d.Ranges {
		if _, ok := resolveRange(r); !ok {
			return false
		}
	}
	//
	return true
}

func (d IntDomain) String() string {
	ranges := make([]string, len(d.Ranges))
	for i, r := range d.Ranges {
		ranges[i] = r.String()
	}
	//
	return fmt.Sprintf("int(%s)", strings.Join(ranges, ", "))
}

// ============================================================================
// MatrixDomain
// ============================================================================

// MatrixDomain contains matrices of a value domain, indexed by one or more
// index domains.
type MatrixDomain struct {
	Value   Domain
	Indexes []Domain
}

func (MatrixDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d MatrixDomain) ValueType() Type {
	t := d.Value.ValueType()
	for range d.Indexes {
		t = MatrixType{t}
	}
	//
	return t
}

// IsGround implementation for the Domain interface.
func (d MatrixDomain) IsGround() bool {
	if !d.Value.IsGround() {
		return false
	}
	//
	for _, idx := range d.Indexes {
		if !idx.IsGround() {
			return false
		}
	}
	//
	return true
}

func (d MatrixDomain) String() string {
	indexes := make([]string, len(d.Indexes))
	for i, idx := range d.Indexes {
		indexes[i] = idx.String()
	}
	//
	return fmt.Sprintf("matrix indexed by [%s] of %s", strings.Join(indexes, ", "), d.Value)
}

// ============================================================================
// TupleDomain
// ============================================================================

// TupleDomain contains tuples whose components range over the given domains.
type TupleDomain struct {
	Elems []Domain
}

func (TupleDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d TupleDomain) ValueType() Type {
	elems := make([]Type, len(d.Elems))
	for i, e := range d.Elems {
		elems[i] = e.ValueType()
	}
	//
	return TupleType{elems}
}

// IsGround implementation for the Domain interface.
func (d TupleDomain) IsGround() bool {
	for _, e := range d.Elems {
		if !e.IsGround() {
			return false
		}
	}
	//
	return true
}

func (d TupleDomain) String() string {
	elems := make([]string, len(d.Elems))
	for i, e := range d.Elems {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("tuple (%s)", strings.Join(elems, ", "))
}

// ============================================================================
// RecordDomain
// ============================================================================

// RecordDomainField is one named field of a record domain.
type RecordDomainField struct {
	Name   Name
	Domain Domain
}

// RecordDomain contains records with the given fields.
type RecordDomain struct {
	Fields []RecordDomainField
}

func (RecordDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d RecordDomain) ValueType() Type {
	fields := make([]Type, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = f.Domain.ValueType()
	}
	//
	return RecordType{fields}
}

// IsGround implementation for the Domain interface.
func (d RecordDomain) IsGround() bool {
	for _, f := range d.Fields {
		if !f.Domain.IsGround() {
			return false
		}
	}
	//
	return true
}

func (d RecordDomain) String() string {
	fields := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = fmt.Sprintf("%s : %s", f.Name, f.Domain)
	}
	//
	return fmt.Sprintf("record {%s}", strings.Join(fields, ", "))
}

// ============================================================================
// SetDomain
// ============================================================================

// SetAttr constrains the cardinality of a set domain.
type SetAttr struct {
	Size    util.Option[int]
	MinSize util.Option[int]
	MaxSize util.Option[int]
}

// SetDomain contains sets of elements drawn from an element domain.
type SetDomain struct {
	Attr SetAttr
	Elem Domain
}

func (SetDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d SetDomain) ValueType() Type { return MatrixType{d.Elem.ValueType()} }

// IsGround implementation for the Domain interface.
func (d SetDomain) IsGround() bool { return d.Elem.IsGround() }

func (d SetDomain) String() string {
	return fmt.Sprintf("set of %s", d.Elem)
}

// ============================================================================
// ReferenceDomain
// ============================================================================

// ReferenceDomain refers to a domain letting.
type ReferenceDomain struct {
	Decl *Declaration
}

func (ReferenceDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d ReferenceDomain) ValueType() Type {
	if dom, ok := d.Decl.Domain(); ok {
		return dom.ValueType()
	}
	//
	return UnknownType{}
}

// IsGround implementation for the Domain interface.
func (d ReferenceDomain) IsGround() bool { return false }

func (d ReferenceDomain) String() string { return d.Decl.Name().String() }

// ============================================================================
// EmptyDomain
// ============================================================================

// EmptyDomain contains no values.
type EmptyDomain struct {
	Of Type
}

func (EmptyDomain) isDomain() {}

// ValueType implementation for the Domain interface.
func (d EmptyDomain) ValueType() Type { return d.Of }

// IsGround implementation for the Domain interface.
func (EmptyDomain) IsGround() bool { return true }

func (d EmptyDomain) String() string { return fmt.Sprintf("empty(%s)", d.Of) }

// ============================================================================
// Resolution & enumeration
// ============================================================================

// Resolved substitutes constants through the bounds of a domain, producing
// its ground form.  Fails with ErrDomainNotGround if any bound cannot be
// reduced to a constant.
func Resolved(d Domain) (Domain, error) {
	switch dom := d.(type) {
	case BoolDomain, EmptyDomain:
		return dom, nil
	case IntDomain:
		ranges := make([]Range, len(dom.Ranges))
		//
		for i, r := range dom.Ranges {
			resolved, ok := resolveRange(r)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrDomainNotGround, d)
			}
			//
			ranges[i] = resolved
		}
		//
		return IntDomain{ranges}, nil
	case MatrixDomain:
		value, err := Resolved(dom.Value)
		if err != nil {
			return nil, err
		}
		//
		indexes := make([]Domain, len(dom.Indexes))
		for i, idx := range dom.Indexes {
			if indexes[i], err = Resolved(idx); err != nil {
				return nil, err
			}
		}
		//
		return MatrixDomain{value, indexes}, nil
	case TupleDomain:
		elems := make([]Domain, len(dom.Elems))
		//
		for i, e := range dom.Elems {
			resolved, err := Resolved(e)
			if err != nil {
				return nil, err
			}
			//
			elems[i] = resolved
		}
		//
		return TupleDomain{elems}, nil
	case RecordDomain:
		fields := make([]RecordDomainField, len(dom.Fields))
		//
		for i, f := range dom.Fields {
			resolved, err := Resolved(f.Domain)
			if err != nil {
				return nil, err
			}
			//
			fields[i] = RecordDomainField{f.Name, resolved}
		}
		//
		return RecordDomain{fields}, nil
	case SetDomain:
		elem, err := Resolved(dom.Elem)
		if err != nil {
			return nil, err
		}
		//
		return SetDomain{dom.Attr, elem}, nil
	case ReferenceDomain:
		if inner, ok := dom.Decl.Domain(); ok {
			return Resolved(inner)
		}
		//
		return nil, fmt.Errorf("%w: %s", ErrDomainNotGround, d)
	}
	//
	return nil, fmt.Errorf("%w: %s", ErrDomainNotGround, d)
}

// DomainValues enumerates the values of a ground domain.  Integer values come
// in the order their ranges list them, each value once (not sorted).
// Fails with ErrDomainNotFinite for unbounded domains, and with
// ErrDomainNotGround for unresolved ones.
func DomainValues(d Domain) ([]Literal, error) {
	switch dom := d.(type) {
	case BoolDomain:
		return []Literal{BoolLit(false), BoolLit(true)}, nil
	case EmptyDomain:
		return nil, nil
	case IntDomain:
		var values []Literal
		//
		seen := make(map[int64]bool)
		//
		for _, r := range dom.Ranges {
			resolved, ok := resolveRange(r)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrDomainNotGround, d)
			}
			//
			switch rng := resolved.(type) {
			case SingleRange:
				v, _ := resolveIntVal(rng.Value)
				if !seen[v] {
					seen[v] = true
					values = append(values, IntLit(v))
				}
			case BoundedRange:
				lo, _ := resolveIntVal(rng.Lo)
				hi, _ := resolveIntVal(rng.Hi)
				//
				for v := lo; v <= hi; v++ {
					if !seen[v] {
						seen[v] = true
						values = append(values, IntLit(v))
					}
				}
			default:
				return nil, fmt.Errorf("%w: %s", ErrDomainNotFinite, d)
			}
		}
		//
		return values, nil
	case TupleDomain:
		products, err := domainProduct(dom.Elems)
		if err != nil {
			return nil, err
		}
		//
		values := make([]Literal, len(products))
		for i, p := range products {
			values[i] = TupleLit{p}
		}
		//
		return values, nil
	case ReferenceDomain:
		resolved, err := Resolved(dom)
		if err != nil {
			return nil, err
		}
		//
		return DomainValues(resolved)
	}
	//
	return nil, fmt.Errorf("%w: %s", ErrDomainNotFinite, d)
}

// domainProduct enumerates the cartesian product of the given domains.
func domainProduct(domains []Domain) ([][]Literal, error) {
	if len(domains) == 0 {
		return [][]Literal{{}}, nil
	}
	//
	head, err := DomainValues(domains[0])
	if err != nil {
		return nil, err
	}
	//
	rest, err := domainProduct(domains[1:])
	if err != nil {
		return nil, err
	}
	//
	var product [][]Literal
	//
	for _, h := range head {
		for _, r := range rest {
			row := append([]Literal{h}, r...)
			product = append(product, row)
		}
	}
	//
	return product, nil
}

// IntDomainBounds returns the inclusive lower and upper bounds of a ground
// integer domain.
func IntDomainBounds(d Domain) (int64, int64, error) {
	values, err := DomainValues(d)
	if err != nil {
		return 0, 0, err
	}
	//
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("%w: empty domain has no bounds", ErrDomainNotFinite)
	}
	//
	lo, ok := values[0].(IntLit)
	if !ok {
		return 0, 0, fmt.Errorf("integer bounds of non-integer domain %s", d)
	}
	//
	hi := values[len(values)-1].(IntLit)
	//
	return int64(lo), int64(hi), nil
}

// DomainContains checks whether a ground domain contains the given literal.
func DomainContains(d Domain, lit Literal) bool {
	switch dom := d.(type) {
	case BoolDomain:
		_, ok := lit.(BoolLit)
		return ok
	case IntDomain:
		n, ok := lit.(IntLit)
		if !ok {
			return false
		}
		//
		for _, r := range dom.Ranges {
			if resolved, ok := resolveRange(r); ok && rangeContains(resolved, int64(n)) {
				return true
			}
		}
		//
		return false
	case TupleDomain:
		t, ok := lit.(TupleLit)
		if !ok || len(t.Elems) != len(dom.Elems) {
			return false
		}
		//
		for i, e := range t.Elems {
			if !DomainContains(dom.Elems[i], e) {
				return false
			}
		}
		//
		return true
	}
	//
	return false
}
