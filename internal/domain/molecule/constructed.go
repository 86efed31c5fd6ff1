package molecule

import (
	"github.com/andrewtarzia/stk/pkg/types/chem"
	"github.com/andrewtarzia/stk/pkg/types/common"
)

// Constructed is the persisted record of one successful build: both
// molecular forms plus the build provenance.
type Constructed struct {
	common.BaseEntity

	Name        string               `json:"name"`
	Topology    string               `json:"topology"`
	IdentityKey string               `json:"identity_key"`
	BondsMade   int                  `json:"bonds_made"`
	Seed        int64                `json:"seed"`
	Heavy       chem.MoleculeRecord  `json:"heavy"`
	Pristine    chem.MoleculeRecord  `json:"pristine"`
	Usage       map[string]int       `json:"usage"`
}

// NewConstructed assembles a Constructed record from build output.
func NewConstructed(topology string, seed int64, bondsMade int, heavy, pristine *Molecule, usage map[string]int) *Constructed {
	return &Constructed{
		BaseEntity:  common.NewBaseEntity(),
		Name:        pristine.Name(),
		Topology:    topology,
		IdentityKey: pristine.IdentityKey(),
		BondsMade:   bondsMade,
		Seed:        seed,
		Heavy:       heavy.ToRecord(),
		Pristine:    pristine.ToRecord(),
		Usage:       usage,
	}
}
