package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

func TestNewBuildingBlock(t *testing.T) {
	registry := fg.DefaultRegistry()

	m := New("diamine")
	n1 := m.AddAtom("N", r3.Vec{X: -1})
	c := m.AddAtom("C", r3.Vec{})
	n2 := m.AddAtom("N", r3.Vec{X: 1})
	require.NoError(t, m.AddBond(n1, c, chem.BondSingle))
	require.NoError(t, m.AddBond(c, n2, chem.BondSingle))

	bb, err := NewBuildingBlock(m, registry, "amine", []chem.AtomID{n1, n2})
	require.NoError(t, err)

	assert.Equal(t, 2, bb.NumFunctionalGroups())
	assert.Equal(t, []chem.AtomID{n1, n2}, bb.ReactiveAtoms())

	// Marked copy carries placeholders; the source is untouched.
	el, err := bb.Molecule().AtomElement(n1)
	require.NoError(t, err)
	assert.Equal(t, chem.ElementRh, el)

	el, err = m.AtomElement(n1)
	require.NoError(t, err)
	assert.Equal(t, chem.Element("N"), el)
}

func TestNewBuildingBlock_Validation(t *testing.T) {
	registry := fg.DefaultRegistry()

	m := New("diamine")
	n1 := m.AddAtom("N", r3.Vec{X: -1})
	c := m.AddAtom("C", r3.Vec{})
	require.NoError(t, m.AddBond(n1, c, chem.BondSingle))

	t.Run("unknown group", func(t *testing.T) {
		_, err := NewBuildingBlock(m, registry, "phosphine", []chem.AtomID{n1})
		assert.True(t, errors.IsCode(err, errors.CodeUnknownFunctionalGroup))
	})

	t.Run("no reactive atoms", func(t *testing.T) {
		_, err := NewBuildingBlock(m, registry, "amine", nil)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidBlocks))
	})

	t.Run("element mismatch", func(t *testing.T) {
		_, err := NewBuildingBlock(m, registry, "amine", []chem.AtomID{c})
		assert.True(t, errors.IsCode(err, errors.CodeInvalidBlocks))
	})

	t.Run("duplicate reactive id", func(t *testing.T) {
		_, err := NewBuildingBlock(m, registry, "amine", []chem.AtomID{n1, n1})
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})
}

func TestFragmentIsIndependentCopy(t *testing.T) {
	bb := dialdehyde(t)

	f1 := bb.NewFragment()
	f1.Molecule().Translate(r3.Vec{X: 50})

	f2 := bb.NewFragment()
	p, err := f2.ReactiveCoord(0)
	require.NoError(t, err)
	assert.InDelta(t, -2, p.X, tol)
}
