// Package fg defines functional groups and the immutable registry that
// maps placeholder elements back to their real chemistry.
//
// During assembly a building block's reactive atoms are marked with rare
// metal placeholder elements so that bonding logic can find them without a
// substructure search.  This is a simplified implementation; a production
// system would use RDKit substructure matching to tag functional groups
// directly on the input structures.
package fg

import (
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// Group describes one supported functional group.
type Group struct {
	// Name is the chemical name of the group, e.g. "amine".
	Name string

	// Placeholder is the rare element marking the group's reactive atom
	// during assembly.
	Placeholder chem.Element

	// Target is the real element restored when assembly completes.
	Target chem.Element
}

// pairKey is an unordered pair of placeholder elements.
type pairKey struct {
	a, b chem.Element
}

func newPairKey(a, b chem.Element) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Registry is an immutable lookup table of functional groups and the bond
// orders formed between their placeholder pairs.  Construct one with
// NewRegistry and share it freely; it is safe for concurrent use.
type Registry struct {
	byName        map[string]Group
	byPlaceholder map[chem.Element]Group
	bondOrders    map[pairKey]chem.BondOrder
}

// DoubleBondPair declares that bonding two placeholders produces a double
// bond instead of the default single bond.
type DoubleBondPair struct {
	A chem.Element
	B chem.Element
}

// NewRegistry builds a registry from the given groups and double-bond
// pairs.  Duplicate names or placeholders are rejected.
func NewRegistry(groups []Group, doubles []DoubleBondPair) (*Registry, error) {
	r := &Registry{
		byName:        make(map[string]Group, len(groups)),
		byPlaceholder: make(map[chem.Element]Group, len(groups)),
		bondOrders:    make(map[pairKey]chem.BondOrder, len(doubles)),
	}
	for _, g := range groups {
		if g.Name == "" || g.Placeholder == "" || g.Target == "" {
			return nil, errors.InvalidParam("functional group fields must be non-empty").
				WithDetail("name=" + g.Name)
		}
		if _, ok := r.byName[g.Name]; ok {
			return nil, errors.InvalidParam("duplicate functional group name").WithDetail(g.Name)
		}
		if _, ok := r.byPlaceholder[g.Placeholder]; ok {
			return nil, errors.InvalidParam("duplicate placeholder element").
				WithDetail(string(g.Placeholder))
		}
		r.byName[g.Name] = g
		r.byPlaceholder[g.Placeholder] = g
	}
	for _, d := range doubles {
		if _, ok := r.byPlaceholder[d.A]; !ok {
			return nil, errors.InvalidParam("double-bond pair references unknown placeholder").
				WithDetail(string(d.A))
		}
		if _, ok := r.byPlaceholder[d.B]; !ok {
			return nil, errors.InvalidParam("double-bond pair references unknown placeholder").
				WithDetail(string(d.B))
		}
		r.bondOrders[newPairKey(d.A, d.B)] = chem.BondDouble
	}
	return r, nil
}

// ByName returns the group registered under name.
func (r *Registry) ByName(name string) (Group, error) {
	g, ok := r.byName[name]
	if !ok {
		return Group{}, errors.New(errors.CodeUnknownFunctionalGroup, "unknown functional group").
			WithDetail(name)
	}
	return g, nil
}

// ByPlaceholder returns the group whose placeholder element is el.
func (r *Registry) ByPlaceholder(el chem.Element) (Group, error) {
	g, ok := r.byPlaceholder[el]
	if !ok {
		return Group{}, errors.MissingFunctionalGroup("no functional group registered for placeholder").
			WithDetail(string(el))
	}
	return g, nil
}

// IsPlaceholder reports whether el marks a registered functional group.
func (r *Registry) IsPlaceholder(el chem.Element) bool {
	_, ok := r.byPlaceholder[el]
	return ok
}

// BondOrder returns the order of a bond formed between the placeholders a
// and b.  Both elements must be registered; pairs without a declared
// double bond default to single.
func (r *Registry) BondOrder(a, b chem.Element) (chem.BondOrder, error) {
	if _, ok := r.byPlaceholder[a]; !ok {
		return 0, errors.MissingFunctionalGroup("no functional group registered for placeholder").
			WithDetail(string(a))
	}
	if _, ok := r.byPlaceholder[b]; !ok {
		return 0, errors.MissingFunctionalGroup("no functional group registered for placeholder").
			WithDetail(string(b))
	}
	if order, ok := r.bondOrders[newPairKey(a, b)]; ok {
		return order, nil
	}
	return chem.BondSingle, nil
}

// Groups returns all registered groups in unspecified order.
func (r *Registry) Groups() []Group {
	out := make([]Group, 0, len(r.byName))
	for _, g := range r.byName {
		out = append(out, g)
	}
	return out
}

// DefaultRegistry returns the registry of groups supported out of the box.
// Amine and aldehyde placeholders condense to an imine, hence the double
// bond between Rh and Y.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]Group{
			{Name: "amine", Placeholder: chem.ElementRh, Target: chem.ElementN},
			{Name: "aldehyde", Placeholder: chem.ElementY, Target: chem.ElementC},
			{Name: "carboxylic_acid", Placeholder: chem.ElementZr, Target: chem.ElementC},
			{Name: "amide", Placeholder: chem.ElementNb, Target: chem.ElementC},
			{Name: "thiol", Placeholder: chem.ElementPd, Target: chem.ElementS},
		},
		[]DoubleBondPair{
			{A: chem.ElementRh, B: chem.ElementY},
		},
	)
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
