// Package molecule implements the mutable molecular model manipulated by
// the assembly engine: atoms with 3D coordinates, bonds with integer
// orders, and the geometric operations placement needs.
//
// This is a simplified implementation; a production system would delegate
// perception, sanitization and conformer generation to RDKit.
package molecule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/geometry"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// Atom is one atom of a molecule.
type Atom struct {
	Element chem.Element
	Pos     r3.Vec
}

// Bond connects two atoms by id with an integer bond order.
type Bond struct {
	A     chem.AtomID
	B     chem.AtomID
	Order chem.BondOrder
}

// Molecule is an editable collection of atoms and bonds.  Atom ids are
// dense indices into the atom slice and remain stable across mutation;
// atoms are never removed, only re-elemented.
type Molecule struct {
	name  string
	atoms []Atom
	bonds []Bond
}

// New creates an empty molecule with the given name.
func New(name string) *Molecule {
	return &Molecule{name: name}
}

// FromRecord builds a Molecule from its serializable form, validating
// that bond endpoints reference existing atoms.
func FromRecord(rec chem.MoleculeRecord) (*Molecule, error) {
	m := New(rec.Name)
	for _, a := range rec.Atoms {
		m.AddAtom(a.Element, r3.Vec{X: a.X, Y: a.Y, Z: a.Z})
	}
	for _, b := range rec.Bonds {
		if err := m.AddBond(b.A, b.B, b.Order); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ToRecord returns the serializable form of the molecule.
func (m *Molecule) ToRecord() chem.MoleculeRecord {
	rec := chem.MoleculeRecord{
		Name:  m.name,
		Atoms: make([]chem.AtomRecord, len(m.atoms)),
		Bonds: make([]chem.BondRecord, len(m.bonds)),
	}
	for i, a := range m.atoms {
		rec.Atoms[i] = chem.AtomRecord{
			ID:      chem.AtomID(i),
			Element: a.Element,
			X:       a.Pos.X,
			Y:       a.Pos.Y,
			Z:       a.Pos.Z,
		}
	}
	for i, b := range m.bonds {
		rec.Bonds[i] = chem.BondRecord{A: b.A, B: b.B, Order: b.Order}
	}
	return rec
}

// Name returns the molecule's name.
func (m *Molecule) Name() string { return m.name }

// SetName renames the molecule.
func (m *Molecule) SetName(name string) { m.name = name }

// NumAtoms returns the atom count.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// AddAtom appends an atom and returns its id.
func (m *Molecule) AddAtom(el chem.Element, pos r3.Vec) chem.AtomID {
	m.atoms = append(m.atoms, Atom{Element: el, Pos: pos})
	return chem.AtomID(len(m.atoms) - 1)
}

// AddBond connects atoms a and b.  Self-bonds, out-of-range ids and
// duplicate bonds are rejected.
func (m *Molecule) AddBond(a, b chem.AtomID, order chem.BondOrder) error {
	if !m.validID(a) || !m.validID(b) {
		return errors.InvalidParam("bond endpoint out of range").
			WithDetail(fmt.Sprintf("a=%d b=%d atoms=%d", a, b, len(m.atoms)))
	}
	if a == b {
		return errors.InvalidParam("cannot bond atom to itself").
			WithDetail(fmt.Sprintf("atom=%d", a))
	}
	if m.HasBond(a, b) {
		return errors.InvalidParam("bond already exists").
			WithDetail(fmt.Sprintf("a=%d b=%d", a, b))
	}
	if order < chem.BondSingle || order > chem.BondTriple {
		return errors.InvalidParam("unsupported bond order").
			WithDetail(fmt.Sprintf("order=%d", order))
	}
	m.bonds = append(m.bonds, Bond{A: a, B: b, Order: order})
	return nil
}

// HasBond reports whether a bond between a and b exists in either order.
func (m *Molecule) HasBond(a, b chem.AtomID) bool {
	for _, bd := range m.bonds {
		if (bd.A == a && bd.B == b) || (bd.A == b && bd.B == a) {
			return true
		}
	}
	return false
}

// Bonds returns a copy of the bond slice.
func (m *Molecule) Bonds() []Bond {
	out := make([]Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// AtomElement returns the element of the atom with the given id.
func (m *Molecule) AtomElement(id chem.AtomID) (chem.Element, error) {
	if !m.validID(id) {
		return "", errors.InvalidParam("atom id out of range").
			WithDetail(fmt.Sprintf("id=%d atoms=%d", id, len(m.atoms)))
	}
	return m.atoms[id].Element, nil
}

// AtomCoord returns the position of the atom with the given id.
func (m *Molecule) AtomCoord(id chem.AtomID) (r3.Vec, error) {
	if !m.validID(id) {
		return r3.Vec{}, errors.InvalidParam("atom id out of range").
			WithDetail(fmt.Sprintf("id=%d atoms=%d", id, len(m.atoms)))
	}
	return m.atoms[id].Pos, nil
}

// ReplaceAtom swaps the element of an existing atom, keeping its position
// and bonds intact.
func (m *Molecule) ReplaceAtom(id chem.AtomID, el chem.Element) error {
	if !m.validID(id) {
		return errors.InvalidParam("atom id out of range").
			WithDetail(fmt.Sprintf("id=%d atoms=%d", id, len(m.atoms)))
	}
	m.atoms[id].Element = el
	return nil
}

// AtomsOf returns, in ascending id order, the ids of all atoms whose
// element is el.
func (m *Molecule) AtomsOf(el chem.Element) []chem.AtomID {
	var out []chem.AtomID
	for i, a := range m.atoms {
		if a.Element == el {
			out = append(out, chem.AtomID(i))
		}
	}
	return out
}

// AtomsMatching returns, in ascending id order, the ids of all atoms whose
// element satisfies pred.
func (m *Molecule) AtomsMatching(pred func(chem.Element) bool) []chem.AtomID {
	var out []chem.AtomID
	for i, a := range m.atoms {
		if pred(a.Element) {
			out = append(out, chem.AtomID(i))
		}
	}
	return out
}

// Distance returns the Euclidean distance between two atoms.
func (m *Molecule) Distance(a, b chem.AtomID) (float64, error) {
	pa, err := m.AtomCoord(a)
	if err != nil {
		return 0, err
	}
	pb, err := m.AtomCoord(b)
	if err != nil {
		return 0, err
	}
	return r3.Norm(r3.Sub(pa, pb)), nil
}

// Centroid returns the unweighted centroid over all atoms, or a subset
// when ids are given.
func (m *Molecule) Centroid(ids ...chem.AtomID) (r3.Vec, error) {
	if len(m.atoms) == 0 {
		return r3.Vec{}, errors.InvalidParam("centroid of empty molecule")
	}
	if len(ids) == 0 {
		points := make([]r3.Vec, len(m.atoms))
		for i, a := range m.atoms {
			points[i] = a.Pos
		}
		return geometry.Centroid(points)
	}
	points := make([]r3.Vec, 0, len(ids))
	for _, id := range ids {
		p, err := m.AtomCoord(id)
		if err != nil {
			return r3.Vec{}, err
		}
		points = append(points, p)
	}
	return geometry.Centroid(points)
}

// Translate shifts every atom by delta.
func (m *Molecule) Translate(delta r3.Vec) {
	for i := range m.atoms {
		m.atoms[i].Pos = r3.Add(m.atoms[i].Pos, delta)
	}
}

// PositionMatrix returns atom positions as a 3xN column matrix.
func (m *Molecule) PositionMatrix() *mat.Dense {
	n := len(m.atoms)
	if n == 0 {
		return mat.NewDense(3, 1, nil)
	}
	pm := mat.NewDense(3, n, nil)
	for i, a := range m.atoms {
		pm.Set(0, i, a.Pos.X)
		pm.Set(1, i, a.Pos.Y)
		pm.Set(2, i, a.Pos.Z)
	}
	return pm
}

// SetPositionMatrix overwrites atom positions from a 3xN column matrix.
func (m *Molecule) SetPositionMatrix(pm *mat.Dense) error {
	r, c := pm.Dims()
	if r != 3 || c != len(m.atoms) {
		return errors.InvalidParam("position matrix shape mismatch").
			WithDetail(fmt.Sprintf("got %dx%d, want 3x%d", r, c, len(m.atoms)))
	}
	for i := range m.atoms {
		m.atoms[i].Pos = r3.Vec{X: pm.At(0, i), Y: pm.At(1, i), Z: pm.At(2, i)}
	}
	return nil
}

// Rotate applies a 3x3 rotation about origin to every atom position.
func (m *Molecule) Rotate(rot *mat.Dense, origin r3.Vec) {
	for i := range m.atoms {
		p := r3.Sub(m.atoms[i].Pos, origin)
		m.atoms[i].Pos = r3.Add(origin, r3.Vec{
			X: rot.At(0, 0)*p.X + rot.At(0, 1)*p.Y + rot.At(0, 2)*p.Z,
			Y: rot.At(1, 0)*p.X + rot.At(1, 1)*p.Y + rot.At(1, 2)*p.Z,
			Z: rot.At(2, 0)*p.X + rot.At(2, 1)*p.Y + rot.At(2, 2)*p.Z,
		})
	}
}

// Combine appends a copy of other's atoms and bonds to m and returns the
// atom id offset at which other's atoms start.
func (m *Molecule) Combine(other *Molecule) chem.AtomID {
	offset := chem.AtomID(len(m.atoms))
	m.atoms = append(m.atoms, other.atoms...)
	for _, b := range other.bonds {
		m.bonds = append(m.bonds, Bond{A: b.A + offset, B: b.B + offset, Order: b.Order})
	}
	return offset
}

// Clone returns a deep copy of the molecule.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		name:  m.name,
		atoms: make([]Atom, len(m.atoms)),
		bonds: make([]Bond, len(m.bonds)),
	}
	copy(c.atoms, m.atoms)
	copy(c.bonds, m.bonds)
	return c
}

// MaxDistanceFromCentroid returns the largest atom distance from the
// molecular centroid, a cheap proxy for molecular size.
func (m *Molecule) MaxDistanceFromCentroid() (float64, error) {
	c, err := m.Centroid()
	if err != nil {
		return 0, err
	}
	max := 0.0
	for _, a := range m.atoms {
		if d := r3.Norm(r3.Sub(a.Pos, c)); d > max {
			max = d
		}
	}
	return max, nil
}

func (m *Molecule) validID(id chem.AtomID) bool {
	return id >= 0 && int(id) < len(m.atoms)
}

// valences maps common elements to their standard valence, used when
// saturating a structure with implicit hydrogens.
var valences = map[chem.Element]int{
	"H": 1, "C": 4, "N": 3, "O": 2, "S": 2, "F": 1, "Cl": 1, "Br": 1,
}

// AddHydrogens saturates every atom with a known valence by appending
// hydrogens up to that valence.  Placement is crude, stepping through
// fixed offset directions at a standard X-H length; downstream geometry
// never depends on hydrogen positions.
func (m *Molecule) AddHydrogens() int {
	const bondLength = 1.09
	offsets := []r3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}

	counts := make([]int, len(m.atoms))
	for _, b := range m.bonds {
		counts[b.A] += int(b.Order)
		counts[b.B] += int(b.Order)
	}

	added := 0
	heavy := len(m.atoms)
	for i := 0; i < heavy; i++ {
		valence, ok := valences[m.atoms[i].Element]
		if !ok {
			continue
		}
		for j := 0; counts[i]+j < valence; j++ {
			dir := offsets[(j+added)%len(offsets)]
			pos := r3.Add(m.atoms[i].Pos, r3.Scale(bondLength, dir))
			h := m.AddAtom("H", pos)
			// Bond table is appended directly; the duplicate check in
			// AddBond cannot trip for a freshly created atom.
			m.bonds = append(m.bonds, Bond{A: chem.AtomID(i), B: h, Order: chem.BondSingle})
			added++
		}
	}
	return added
}

// NearlyEqualCoord reports whether two positions agree within tol on
// every axis.  Used by tests and identity hashing.
func NearlyEqualCoord(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}
