package molecule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

const tol = 1e-9

// buildWater returns H2O with the oxygen at the origin.
func buildWater(t *testing.T) *Molecule {
	t.Helper()
	m := New("water")
	o := m.AddAtom("O", r3.Vec{})
	h1 := m.AddAtom("H", r3.Vec{X: 0.96})
	h2 := m.AddAtom("H", r3.Vec{X: -0.24, Y: 0.93})
	require.NoError(t, m.AddBond(o, h1, chem.BondSingle))
	require.NoError(t, m.AddBond(o, h2, chem.BondSingle))
	return m
}

func TestAddBond_Validation(t *testing.T) {
	m := buildWater(t)

	t.Run("out of range", func(t *testing.T) {
		err := m.AddBond(0, 99, chem.BondSingle)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})

	t.Run("self bond", func(t *testing.T) {
		err := m.AddBond(1, 1, chem.BondSingle)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})

	t.Run("duplicate in reverse order", func(t *testing.T) {
		err := m.AddBond(1, 0, chem.BondSingle)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})

	t.Run("bad order", func(t *testing.T) {
		m2 := New("x")
		a := m2.AddAtom("C", r3.Vec{})
		b := m2.AddAtom("C", r3.Vec{X: 1})
		err := m2.AddBond(a, b, 7)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	})
}

func TestCentroidAndTranslate(t *testing.T) {
	m := New("pair")
	m.AddAtom("C", r3.Vec{X: -1})
	m.AddAtom("C", r3.Vec{X: 3})

	c, err := m.Centroid()
	require.NoError(t, err)
	assert.InDelta(t, 1, c.X, tol)

	m.Translate(r3.Vec{X: -1, Z: 2})
	c, err = m.Centroid()
	require.NoError(t, err)
	assert.InDelta(t, 0, c.X, tol)
	assert.InDelta(t, 2, c.Z, tol)
}

func TestPositionMatrixRoundTrip(t *testing.T) {
	m := buildWater(t)

	pm := m.PositionMatrix()
	r, c := pm.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	pm.Set(0, 0, 5)
	require.NoError(t, m.SetPositionMatrix(pm))

	p, err := m.AtomCoord(0)
	require.NoError(t, err)
	assert.InDelta(t, 5, p.X, tol)
}

func TestCombine(t *testing.T) {
	a := buildWater(t)
	b := buildWater(t)
	b.Translate(r3.Vec{X: 10})

	offset := a.Combine(b)
	assert.Equal(t, chem.AtomID(3), offset)
	assert.Equal(t, 6, a.NumAtoms())
	assert.Equal(t, 4, a.NumBonds())

	// The second water's O-H bonds must reference shifted ids.
	assert.True(t, a.HasBond(3, 4))
	assert.True(t, a.HasBond(3, 5))

	p, err := a.AtomCoord(3)
	require.NoError(t, err)
	assert.InDelta(t, 10, p.X, tol)
}

func TestCloneIsIndependent(t *testing.T) {
	m := buildWater(t)
	c := m.Clone()

	c.Translate(r3.Vec{X: 100})
	require.NoError(t, c.ReplaceAtom(0, "N"))

	el, err := m.AtomElement(0)
	require.NoError(t, err)
	assert.Equal(t, chem.Element("O"), el)

	p, err := m.AtomCoord(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.X, tol)
}

func TestAtomsOfAndReplace(t *testing.T) {
	m := buildWater(t)
	assert.Equal(t, []chem.AtomID{1, 2}, m.AtomsOf("H"))

	require.NoError(t, m.ReplaceAtom(2, "Rh"))
	assert.Equal(t, []chem.AtomID{1}, m.AtomsOf("H"))
	assert.Equal(t, []chem.AtomID{2}, m.AtomsOf("Rh"))
}

func TestDistance(t *testing.T) {
	m := New("pair")
	m.AddAtom("C", r3.Vec{})
	m.AddAtom("C", r3.Vec{X: 3, Y: 4})

	d, err := m.Distance(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5, d, tol)
}

func TestAddHydrogens(t *testing.T) {
	m := New("methane-core")
	m.AddAtom("C", r3.Vec{})

	added := m.AddHydrogens()
	assert.Equal(t, 4, added)
	assert.Equal(t, 5, m.NumAtoms())
	assert.Equal(t, 4, m.NumBonds())

	// Unknown elements are left alone.
	m2 := New("metal")
	m2.AddAtom("Rh", r3.Vec{})
	assert.Equal(t, 0, m2.AddHydrogens())
}

func TestRecordRoundTrip(t *testing.T) {
	m := buildWater(t)
	rec := m.ToRecord()

	back, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, m.NumAtoms(), back.NumAtoms())
	assert.Equal(t, m.NumBonds(), back.NumBonds())
	assert.Equal(t, "water", back.Name())
}

func TestMaxDistanceFromCentroid(t *testing.T) {
	m := New("rod")
	m.AddAtom("C", r3.Vec{X: -2})
	m.AddAtom("C", r3.Vec{X: 2})

	d, err := m.MaxDistanceFromCentroid()
	require.NoError(t, err)
	assert.InDelta(t, 2, d, tol)
}

func TestRotateAboutOrigin(t *testing.T) {
	m := New("point")
	m.AddAtom("C", r3.Vec{X: 2, Y: 1})

	// Quarter turn about z through (1, 1, 0).
	rot := rotationZ(math.Pi / 2)
	m.Rotate(rot, r3.Vec{X: 1, Y: 1})

	p, err := m.AtomCoord(0)
	require.NoError(t, err)
	assert.InDelta(t, 1, p.X, tol)
	assert.InDelta(t, 2, p.Y, tol)
}
