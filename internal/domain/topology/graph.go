package topology

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// stage tracks build progress through the strictly sequential pipeline.
type stage int

const (
	stageEmpty stage = iota
	stagePlaced
	stageBonded
	stageDone
)

// atomSitePair associates one placeholder atom with the neighboring site
// it should bond toward.
type atomSitePair struct {
	atom chem.AtomID
	site SiteID
}

// siteState is the per-build scratch state of one site.  It is flushed at
// the start of the site's placement.
type siteState struct {
	heavyIDs      []chem.AtomID
	atomSitePairs []atomSitePair
	distances     []Candidate[chem.AtomID, chem.AtomID]
}

// Result is the outcome of a successful build.
type Result struct {
	// Heavy is the assembled composite still carrying placeholder atoms.
	Heavy *molecule.Molecule

	// Pristine is the final molecule with placeholders substituted back
	// to their real elements and explicit hydrogens added.
	Pristine *molecule.Molecule

	// BondsMade counts the bonds formed between placed fragments.
	BondsMade int

	// Usage tallies how many times each building block was placed,
	// keyed by block name.
	Usage map[string]int
}

// Graph runs one build of one target molecule over a shared immutable
// layout.  A Graph is single use: create, call Build once, discard.  It
// holds no cross-build state and needs no locking; parallelism belongs at
// the granularity of independent builds.
type Graph struct {
	layout   *Layout
	registry *fg.Registry
	rng      *rand.Rand

	stage     stage
	composite *molecule.Molecule
	states    []siteState
	bondsMade int
	usage     map[string]int
}

// NewGraph prepares a build over layout with the given functional-group
// registry.  The random source drives the edge orientation flip; pass a
// seeded source for reproducible builds, or nil for a time-seeded one.
func NewGraph(layout *Layout, registry *fg.Registry, rng *rand.Rand) *Graph {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Graph{
		layout:   layout,
		registry: registry,
		rng:      rng,
		states:   make([]siteState, layout.NumSites()),
		usage:    make(map[string]int),
	}
}

// Build runs the full pipeline: placement, pairing, bonding and
// substitution.  Any stage error aborts the build; the caller must
// restart from scratch.
func (g *Graph) Build(ctx context.Context, a, b *molecule.BuildingBlock) (*Result, error) {
	if g.stage != stageEmpty {
		return nil, errors.New(errors.CodeInternal, "graph already consumed by a previous build")
	}

	core, linker, err := assignRoles(a, b)
	if err != nil {
		return nil, err
	}
	if err := g.checkSiteFit(core, linker); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "build canceled")
	}
	if err := g.placeMols(core, linker); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "build canceled")
	}
	if err := g.joinMols(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "build canceled")
	}
	pristine, err := g.finalSub()
	if err != nil {
		return nil, err
	}
	g.stage = stageDone

	return &Result{
		Heavy:     g.composite,
		Pristine:  pristine,
		BondsMade: g.bondsMade,
		Usage:     g.usage,
	}, nil
}

// assignRoles decides which block is the core and which the linker: the
// block with fewer functional groups is the linker.  Zero-group blocks
// and equal group counts are configuration errors caught before any
// placement happens.
func assignRoles(a, b *molecule.BuildingBlock) (core, linker *molecule.BuildingBlock, err error) {
	if a == nil || b == nil {
		return nil, nil, errors.InvalidConfig("build requires exactly two building blocks")
	}
	na, nb := a.NumFunctionalGroups(), b.NumFunctionalGroups()
	if na == 0 || nb == 0 {
		return nil, nil, errors.InvalidConfig("building block has zero functional groups").
			WithDetail(fmt.Sprintf("%s=%d %s=%d", a.Name(), na, b.Name(), nb))
	}
	if na == nb {
		return nil, nil, errors.InvalidConfig("building blocks have equal functional group counts").
			WithDetail(fmt.Sprintf("%s=%d %s=%d", a.Name(), na, b.Name(), nb))
	}
	if na > nb {
		return a, b, nil
	}
	return b, a, nil
}

// checkSiteFit validates the blocks against the layout's site partition:
// linkers are ditopic and the core block's group count must match every
// vertex's connection count.
func (g *Graph) checkSiteFit(core, linker *molecule.BuildingBlock) error {
	if n := linker.NumFunctionalGroups(); n != 2 {
		return errors.New(errors.CodeSiteMismatch, "linker must have exactly 2 functional groups").
			WithDetail(fmt.Sprintf("%s=%d", linker.Name(), n))
	}
	for _, v := range g.layout.Vertices() {
		if want := len(g.layout.Neighbors(v)); core.NumFunctionalGroups() != want {
			return errors.New(errors.CodeSiteMismatch,
				"core block group count does not match vertex connections").
				WithDetail(fmt.Sprintf("site=%d connections=%d groups=%d",
					v, want, core.NumFunctionalGroups()))
		}
	}
	return nil
}

// placeMols places the core block on every vertex and the linker on every
// edge, merging each placed fragment into the growing composite and
// recording the newly contributed placeholder atoms per site.
func (g *Graph) placeMols(core, linker *molecule.BuildingBlock) error {
	g.composite = molecule.New(fmt.Sprintf("%s(%s,%s)", g.layout.Name(), core.Name(), linker.Name()))

	for _, id := range g.layout.Vertices() {
		g.states[id] = siteState{}

		frag := core.NewFragment()
		if err := g.layout.placeOnVertex(id, frag); err != nil {
			return err
		}
		g.mergeFragment(id, frag, core)

		// Vertex heavy ids are recorded sorted.
		sort.Slice(g.states[id].heavyIDs, func(i, j int) bool {
			return g.states[id].heavyIDs[i] < g.states[id].heavyIDs[j]
		})

		if err := g.pairAtomsToSites(id); err != nil {
			return err
		}
	}

	for _, id := range g.layout.Edges() {
		g.states[id] = siteState{}

		frag := linker.NewFragment()
		if err := g.layout.placeOnEdge(id, frag, g.rng); err != nil {
			return err
		}
		// Edge heavy ids keep discovery order.  Edge sites are not
		// paired; bonding walks outward from the vertices alone.
		g.mergeFragment(id, frag, linker)
	}

	g.stage = stagePlaced
	return nil
}

// mergeFragment merges a placed fragment into the composite, tallies the
// block's usage and records the newest placeholder atoms as the site's
// heavy ids by rescanning the composite.
func (g *Graph) mergeFragment(id SiteID, frag *molecule.Fragment, block *molecule.BuildingBlock) {
	g.composite.Combine(frag.Molecule())
	g.usage[block.Name()]++

	all := g.composite.AtomsMatching(g.registry.IsPlaceholder)
	n := block.NumFunctionalGroups()
	g.states[id].heavyIDs = append(g.states[id].heavyIDs, all[len(all)-n:]...)
}

// pairAtomsToSites runs the first matching pass for one vertex site: each
// of its placeholder atoms is greedily paired with the nearest
// still-unclaimed neighboring site.
func (g *Graph) pairAtomsToSites(id SiteID) error {
	var candidates []Candidate[chem.AtomID, SiteID]
	for _, heavy := range g.states[id].heavyIDs {
		pos, err := g.composite.AtomCoord(heavy)
		if err != nil {
			return err
		}
		for _, nb := range g.layout.Neighbors(id) {
			candidates = append(candidates, Candidate[chem.AtomID, SiteID]{
				Distance: dist(pos, g.layout.Coord(nb)),
				A:        heavy,
				B:        nb,
			})
		}
	}

	for _, p := range GreedyExclusiveMatch(candidates) {
		g.states[id].atomSitePairs = append(g.states[id].atomSitePairs,
			atomSitePair{atom: p.A, site: p.B})
	}
	return nil
}

// joinMols runs the second matching pass and forms the bonds: candidate
// atom-to-atom distances accumulate per vertex site, are sorted globally
// ascending, and are accepted greedily under atom exclusivity.
func (g *Graph) joinMols() error {
	if g.stage != stagePlaced {
		return errors.Internal("joinMols called before placement")
	}

	var all []Candidate[chem.AtomID, chem.AtomID]
	for _, id := range g.layout.Vertices() {
		st := &g.states[id]
		for _, pair := range st.atomSitePairs {
			for _, nbAtom := range g.states[pair.site].heavyIDs {
				d, err := g.composite.Distance(pair.atom, nbAtom)
				if err != nil {
					return err
				}
				st.distances = append(st.distances, Candidate[chem.AtomID, chem.AtomID]{
					Distance: d,
					A:        pair.atom,
					B:        nbAtom,
				})
			}
		}
		all = append(all, st.distances...)
	}

	for _, p := range GreedyExclusiveMatch(all) {
		order, err := g.bondOrder(p.A, p.B)
		if err != nil {
			return err
		}
		if err := g.composite.AddBond(p.A, p.B, order); err != nil {
			return err
		}
		g.bondsMade++
	}

	g.stage = stageBonded
	return nil
}

// bondOrder decides the order of a bond between two placeholder atoms
// from the registry's double-bond combinations.
func (g *Graph) bondOrder(a, b chem.AtomID) (chem.BondOrder, error) {
	ea, err := g.composite.AtomElement(a)
	if err != nil {
		return 0, err
	}
	eb, err := g.composite.AtomElement(b)
	if err != nil {
		return 0, err
	}
	return g.registry.BondOrder(ea, eb)
}

// finalSub clones the bonded composite, substitutes every placeholder
// atom back to its registry target element and saturates the pristine
// copy with explicit hydrogens.
func (g *Graph) finalSub() (*molecule.Molecule, error) {
	if g.stage != stageBonded {
		return nil, errors.Internal("finalSub called before bonding")
	}

	pristine := g.composite.Clone()
	for _, id := range pristine.AtomsMatching(g.registry.IsPlaceholder) {
		el, err := pristine.AtomElement(id)
		if err != nil {
			return nil, err
		}
		group, err := g.registry.ByPlaceholder(el)
		if err != nil {
			return nil, err
		}
		if err := pristine.ReplaceAtom(id, group.Target); err != nil {
			return nil, err
		}
	}
	pristine.AddHydrogens()
	return pristine, nil
}

func dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}
