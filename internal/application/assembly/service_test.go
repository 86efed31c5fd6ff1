package assembly

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/prometheus"
	"github.com/andrewtarzia/stk/internal/testutil"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

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

// memStore collects saved molecules in memory.
type memStore struct {
	mu    sync.Mutex
	saved []*molecule.Constructed
	err   error
}

func (s *memStore) Save(_ context.Context, c *molecule.Constructed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, c)
	return nil
}

func TestService_Build(t *testing.T) {
	store := &memStore{}
	logger := testutil.NewMockLogger()
	svc := NewService(fg.DefaultRegistry(),
		WithLogger(logger),
		WithMetrics(prometheus.NewBuildMetrics()),
		WithStore(store),
	)

	built, err := svc.Build(context.Background(), BuildRequest{
		Topology: "FourPlusSix",
		Core:     triamine(t),
		Linker:   dialdehyde(t),
		Seed:     17,
	})
	require.NoError(t, err)

	assert.Equal(t, "FourPlusSix", built.Topology)
	assert.Equal(t, 12, built.BondsMade)
	assert.Equal(t, int64(17), built.Seed)
	assert.Len(t, built.IdentityKey, 27)
	assert.NotEmpty(t, built.Pristine.Atoms)

	require.Len(t, store.saved, 1)
	assert.Equal(t, built.ID, store.saved[0].ID)
	assert.Contains(t, logger.Messages(), "build complete")
}

func TestService_Build_UnknownTopology(t *testing.T) {
	svc := NewService(fg.DefaultRegistry())

	_, err := svc.Build(context.Background(), BuildRequest{
		Topology: "SixPlusNine",
		Core:     triamine(t),
		Linker:   dialdehyde(t),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownTopology))
}

func TestService_Build_SeededIsDeterministic(t *testing.T) {
	svc := NewService(fg.DefaultRegistry())

	req := BuildRequest{
		Topology: "TwoPlusThree",
		Core:     triamine(t),
		Linker:   dialdehyde(t),
		Seed:     5,
	}

	a, err := svc.Build(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.IdentityKey, b.IdentityKey)
	assert.Equal(t, a.Heavy.Atoms, b.Heavy.Atoms)
}

func TestService_BuildBatch_IsolatesFailures(t *testing.T) {
	svc := NewService(fg.DefaultRegistry(), WithConcurrency(2))

	reqs := []BuildRequest{
		{Topology: "TwoPlusThree", Core: triamine(t), Linker: dialdehyde(t), Seed: 1},
		{Topology: "DoesNotExist", Core: triamine(t), Linker: dialdehyde(t), Seed: 2},
		{Topology: "FourPlusSix", Core: triamine(t), Linker: dialdehyde(t), Seed: 3},
	}

	out := svc.BuildBatch(context.Background(), reqs)
	require.Len(t, out, 3)

	assert.NoError(t, out[0].Err)
	assert.Equal(t, 6, out[0].Molecule.BondsMade)

	assert.Error(t, out[1].Err)
	assert.Nil(t, out[1].Molecule)

	assert.NoError(t, out[2].Err)
	assert.Equal(t, 12, out[2].Molecule.BondsMade)
}

func TestService_Topologies(t *testing.T) {
	svc := NewService(fg.DefaultRegistry())
	assert.ElementsMatch(t, []string{"TwoPlusThree", "FourPlusSix"}, svc.Topologies())
}

func TestService_Build_StoreFailureIsFatal(t *testing.T) {
	store := &memStore{err: errors.New(errors.CodeDatabaseError, "db down")}
	svc := NewService(fg.DefaultRegistry(), WithStore(store))

	_, err := svc.Build(context.Background(), BuildRequest{
		Topology: "TwoPlusThree",
		Core:     triamine(t),
		Linker:   dialdehyde(t),
		Seed:     1,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDatabaseError))
}
