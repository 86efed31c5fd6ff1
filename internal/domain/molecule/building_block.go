package molecule

import (
	"fmt"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// BuildingBlock is a molecule prepared for assembly: its reactive atoms
// carry the placeholder element of its functional group, so that bonding
// can locate them with a plain element scan.
type BuildingBlock struct {
	mol      *Molecule
	group    fg.Group
	reactive []chem.AtomID
}

// BuildingBlockRecord is the serializable building-block input format.
// ReactiveAtoms lists the ids of the atoms that carry the functional
// group's target element and will be marked with its placeholder.
type BuildingBlockRecord struct {
	chem.MoleculeRecord
	FunctionalGroup string        `json:"functional_group"`
	ReactiveAtoms   []chem.AtomID `json:"reactive_atoms"`
}

// NewBuildingBlock marks the given reactive atoms of mol with the
// placeholder of the named functional group.  Every reactive atom must
// currently carry the group's target element; the molecule is cloned, so
// the input is left untouched.
func NewBuildingBlock(mol *Molecule, registry *fg.Registry, groupName string, reactive []chem.AtomID) (*BuildingBlock, error) {
	group, err := registry.ByName(groupName)
	if err != nil {
		return nil, err
	}
	if len(reactive) == 0 {
		return nil, errors.InvalidConfig("building block has no reactive atoms").
			WithDetail(mol.Name())
	}

	clone := mol.Clone()
	seen := make(map[chem.AtomID]struct{}, len(reactive))
	for _, id := range reactive {
		if _, dup := seen[id]; dup {
			return nil, errors.InvalidParam("duplicate reactive atom id").
				WithDetail(fmt.Sprintf("atom=%d", id))
		}
		seen[id] = struct{}{}

		el, err := clone.AtomElement(id)
		if err != nil {
			return nil, err
		}
		if el != group.Target {
			return nil, errors.InvalidConfig("reactive atom element does not match functional group").
				WithDetail(fmt.Sprintf("atom=%d element=%s group=%s wants=%s",
					id, el, group.Name, group.Target))
		}
		if err := clone.ReplaceAtom(id, group.Placeholder); err != nil {
			return nil, err
		}
	}

	ordered := make([]chem.AtomID, len(reactive))
	copy(ordered, reactive)

	return &BuildingBlock{mol: clone, group: group, reactive: ordered}, nil
}

// BuildingBlockFromRecord decodes a serialized building block.
func BuildingBlockFromRecord(rec BuildingBlockRecord, registry *fg.Registry) (*BuildingBlock, error) {
	mol, err := FromRecord(rec.MoleculeRecord)
	if err != nil {
		return nil, err
	}
	return NewBuildingBlock(mol, registry, rec.FunctionalGroup, rec.ReactiveAtoms)
}

// Molecule returns the placeholder-marked molecule.  Callers must not
// mutate it; use Fragment for positioned copies.
func (b *BuildingBlock) Molecule() *Molecule { return b.mol }

// Group returns the building block's functional group.
func (b *BuildingBlock) Group() fg.Group { return b.group }

// NumFunctionalGroups returns the count of reactive atoms.
func (b *BuildingBlock) NumFunctionalGroups() int { return len(b.reactive) }

// ReactiveAtoms returns the reactive atom ids in registration order.
func (b *BuildingBlock) ReactiveAtoms() []chem.AtomID {
	out := make([]chem.AtomID, len(b.reactive))
	copy(out, b.reactive)
	return out
}

// Name returns the underlying molecule's name.
func (b *BuildingBlock) Name() string { return b.mol.Name() }

// NewFragment returns a freshly positioned copy of the building block for
// one placement.
func (b *BuildingBlock) NewFragment() *Fragment {
	return newFragment(b.mol.Clone(), b.reactive)
}
