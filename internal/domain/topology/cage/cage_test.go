package cage

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/internal/domain/topology"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

func TestTwoPlusThree(t *testing.T) {
	l, err := TwoPlusThree(5)
	require.NoError(t, err)

	assert.Equal(t, "TwoPlusThree", l.Name())
	assert.Len(t, l.Vertices(), 2)
	assert.Len(t, l.Edges(), 3)
	assert.Equal(t, 3, l.NumWindows())
	assert.Equal(t, 1, l.NumWindowTypes())

	assertVertexCentroidAtOrigin(t, l)
	assertTritopicVertices(t, l)
	assertUnitDirections(t, l)
}

func TestFourPlusSix(t *testing.T) {
	l, err := FourPlusSix(5)
	require.NoError(t, err)

	assert.Equal(t, "FourPlusSix", l.Name())
	assert.Len(t, l.Vertices(), 4)
	assert.Len(t, l.Edges(), 6)
	assert.Equal(t, 4, l.NumWindows())
	assert.Equal(t, 1, l.NumWindowTypes())

	assertVertexCentroidAtOrigin(t, l)
	assertTritopicVertices(t, l)
	assertUnitDirections(t, l)

	// Every edge lies at its endpoints' midpoint.
	for _, e := range l.Edges() {
		nbs := l.Neighbors(e)
		require.Len(t, nbs, 2)
		mid := r3.Scale(0.5, r3.Add(l.Coord(nbs[0]), l.Coord(nbs[1])))
		assert.True(t, molecule.NearlyEqualCoord(mid, l.Coord(e), 1e-12))
	}
}

func TestScaleValidation(t *testing.T) {
	_, err := TwoPlusThree(0)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = FourPlusSix(-1)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestFourPlusSix_FullBuild(t *testing.T) {
	l, err := FourPlusSix(8)
	require.NoError(t, err)

	registry := fg.DefaultRegistry()
	g := topology.NewGraph(l, registry, rand.New(rand.NewSource(11)))

	res, err := g.Build(context.Background(), triamine(t), dialdehyde(t))
	require.NoError(t, err)

	// 4 tritopic cores and 6 ditopic linkers close into 12 bonds.
	assert.Equal(t, 12, res.BondsMade)
	assert.Equal(t, map[string]int{"triamine": 4, "dialdehyde": 6}, res.Usage)
	assert.Empty(t, res.Pristine.AtomsMatching(registry.IsPlaceholder))
}

func assertVertexCentroidAtOrigin(t *testing.T, l *topology.Layout) {
	t.Helper()
	var sum r3.Vec
	for _, v := range l.Vertices() {
		sum = r3.Add(sum, l.Coord(v))
	}
	c := r3.Scale(1/float64(len(l.Vertices())), sum)
	assert.True(t, molecule.NearlyEqualCoord(c, r3.Vec{}, 1e-12))
}

func assertTritopicVertices(t *testing.T, l *topology.Layout) {
	t.Helper()
	for _, v := range l.Vertices() {
		assert.Len(t, l.Neighbors(v), 3)
	}
}

func assertUnitDirections(t *testing.T, l *topology.Layout) {
	t.Helper()
	for _, e := range l.Edges() {
		d, err := l.Direction(e)
		require.NoError(t, err)
		assert.InDelta(t, 1, r3.Norm(d), 1e-12)
	}
}

func triamine(t *testing.T) *molecule.BuildingBlock {
	t.Helper()
	m := molecule.New("triamine")
	center := m.AddAtom("C", r3.Vec{})
	var reactive []chem.AtomID
	for i := 0; i < 3; i++ {
		theta := 2 * math.Pi * float64(i) / 3
		n := m.AddAtom("N", r3.Vec{X: 2 * math.Cos(theta), Y: 2 * math.Sin(theta)})
		require.NoError(t, m.AddBond(center, n, chem.BondSingle))
		reactive = append(reactive, n)
	}
	bb, err := molecule.NewBuildingBlock(m, fg.DefaultRegistry(), "amine", reactive)
	require.NoError(t, err)
	return bb
}

func dialdehyde(t *testing.T) *molecule.BuildingBlock {
	t.Helper()
	m := molecule.New("dialdehyde")
	c1 := m.AddAtom("C", r3.Vec{X: -1.5})
	mid := m.AddAtom("C", r3.Vec{})
	c2 := m.AddAtom("C", r3.Vec{X: 1.5})
	require.NoError(t, m.AddBond(c1, mid, chem.BondSingle))
	require.NoError(t, m.AddBond(mid, c2, chem.BondSingle))
	bb, err := molecule.NewBuildingBlock(m, fg.DefaultRegistry(), "aldehyde", []chem.AtomID{c1, c2})
	require.NoError(t, err)
	return bb
}
