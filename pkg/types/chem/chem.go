// Package chem defines the primitive chemical value types shared by the
// molecule, topology and rendering layers: element symbols, atom and bond
// identifiers, bond orders, and the serializable records used for storage
// and transport.
package chem

// AtomID indexes an atom within a molecule's atom slice.  Identifiers are
// dense and zero-based; they are only meaningful relative to one molecule.
type AtomID int

// Element is a chemical element symbol such as "C", "N" or "Rh".
type Element string

// Placeholder elements used to mark reactive positions during assembly.
// They are substituted back to their real elements once bonding completes.
const (
	ElementH  Element = "H"
	ElementC  Element = "C"
	ElementN  Element = "N"
	ElementO  Element = "O"
	ElementS  Element = "S"
	ElementRh Element = "Rh"
	ElementY  Element = "Y"
	ElementZr Element = "Zr"
	ElementNb Element = "Nb"
	ElementPd Element = "Pd"
)

// BondOrder is the integer bond multiplicity.
type BondOrder int

const (
	BondSingle BondOrder = 1
	BondDouble BondOrder = 2
	BondTriple BondOrder = 3
)

// AtomRecord is the serializable form of a single atom.
type AtomRecord struct {
	ID      AtomID  `json:"id"`
	Element Element `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// BondRecord is the serializable form of a single bond.
type BondRecord struct {
	A     AtomID    `json:"a"`
	B     AtomID    `json:"b"`
	Order BondOrder `json:"order"`
}

// MoleculeRecord is the serializable form of a whole molecule, used for
// JSON storage and the building-block input format.
type MoleculeRecord struct {
	Name  string       `json:"name"`
	Atoms []AtomRecord `json:"atoms"`
	Bonds []BondRecord `json:"bonds"`
}
