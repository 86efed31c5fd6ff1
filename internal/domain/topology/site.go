// Package topology implements the topology-graph assembly engine: static
// site layouts (vertices and edges of a cage graph), building-block
// placement, greedy nearest-distance atom pairing, bond formation and
// placeholder substitution.
package topology

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/geometry"
	"github.com/andrewtarzia/stk/pkg/errors"
)

// SiteID indexes a site within a layout's arena.  Connectivity is stored
// as id lists, so layouts contain no reference cycles and can be shared
// immutably across builds.
type SiteID int

// SiteKind discriminates the two site variants.
type SiteKind int

const (
	// SiteVertex is a multi-connection site occupied by a core block.
	SiteVertex SiteKind = iota

	// SiteEdge is a two-connection site occupied by a linker.
	SiteEdge
)

func (k SiteKind) String() string {
	if k == SiteEdge {
		return "edge"
	}
	return "vertex"
}

// site is one arena entry.  direction is only meaningful for edges.
type site struct {
	kind      SiteKind
	coord     r3.Vec
	neighbors []SiteID
	direction r3.Vec
}

// Layout is an immutable site arena describing one topology: vertex and
// edge coordinates, connectivity and window metadata.  Layouts are built
// once with a Builder and reused across any number of builds.
type Layout struct {
	name        string
	sites       []site
	vertices    []SiteID
	edges       []SiteID
	windows     int
	windowTypes int
}

// Name returns the layout's name, e.g. "FourPlusSix".
func (l *Layout) Name() string { return l.name }

// NumSites returns the total site count.
func (l *Layout) NumSites() int { return len(l.sites) }

// Vertices returns vertex site ids in layout order.
func (l *Layout) Vertices() []SiteID { return l.vertices }

// Edges returns edge site ids in layout order.
func (l *Layout) Edges() []SiteID { return l.edges }

// NumWindows returns the number of windows the assembled cage exposes.
// Informational; the build algorithm does not use it.
func (l *Layout) NumWindows() int { return l.windows }

// NumWindowTypes returns the number of symmetry-distinct window shapes.
func (l *Layout) NumWindowTypes() int { return l.windowTypes }

// Kind returns the variant of the given site.
func (l *Layout) Kind(id SiteID) SiteKind { return l.sites[id].kind }

// Coord returns the position of the given site.
func (l *Layout) Coord(id SiteID) r3.Vec { return l.sites[id].coord }

// Neighbors returns the connected site ids of the given site, in
// registration order.
func (l *Layout) Neighbors(id SiteID) []SiteID { return l.sites[id].neighbors }

// Direction returns an edge's unit direction vector.
func (l *Layout) Direction(id SiteID) (r3.Vec, error) {
	if l.sites[id].kind != SiteEdge {
		return r3.Vec{}, errors.New(errors.CodeSiteMismatch, "direction is only defined for edges").
			WithDetail(fmt.Sprintf("site=%d kind=%s", id, l.sites[id].kind))
	}
	return l.sites[id].direction, nil
}

// validSite reports whether id indexes an existing site.
func (l *Layout) validSite(id SiteID) bool {
	return id >= 0 && int(id) < len(l.sites)
}

// Builder assembles a Layout.  Errors are collected and surfaced by
// Build, so call chains stay flat.
type Builder struct {
	name  string
	sites []site
	err   error
}

// NewBuilder starts a layout with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddVertex appends a vertex site at coord and returns its id.
func (b *Builder) AddVertex(coord r3.Vec) SiteID {
	b.sites = append(b.sites, site{kind: SiteVertex, coord: coord})
	return SiteID(len(b.sites) - 1)
}

// AddEdge appends an edge site at the midpoint of vertices v1 and v2,
// registering back-references on both.
func (b *Builder) AddEdge(v1, v2 SiteID) SiteID {
	var mid r3.Vec
	if b.checkVertex(v1) && b.checkVertex(v2) {
		mid = r3.Scale(0.5, r3.Add(b.sites[v1].coord, b.sites[v2].coord))
	}
	return b.AddEdgeAt(v1, v2, mid)
}

// AddEdgeAt appends an edge site between vertices v1 and v2 at an
// explicit coordinate.  Needed when endpoint midpoints degenerate, as in
// two-vertex cages where every midpoint collapses onto the origin.
func (b *Builder) AddEdgeAt(v1, v2 SiteID, coord r3.Vec) SiteID {
	if !b.checkVertex(v1) || !b.checkVertex(v2) {
		b.sites = append(b.sites, site{kind: SiteEdge, coord: coord})
		return SiteID(len(b.sites) - 1)
	}
	if v1 == v2 {
		b.fail(errors.New(errors.CodeSiteMismatch, "edge endpoints must differ").
			WithDetail(fmt.Sprintf("vertex=%d", v1)))
	}

	dir, err := geometry.Normalize(r3.Sub(b.sites[v2].coord, b.sites[v1].coord))
	if err != nil {
		b.fail(errors.Wrap(err, errors.CodeSiteMismatch, "edge endpoints are coincident"))
	}

	id := SiteID(len(b.sites))
	b.sites = append(b.sites, site{
		kind:      SiteEdge,
		coord:     coord,
		neighbors: []SiteID{v1, v2},
		direction: dir,
	})
	b.sites[v1].neighbors = append(b.sites[v1].neighbors, id)
	b.sites[v2].neighbors = append(b.sites[v2].neighbors, id)
	return id
}

// Build finalizes the layout with its window metadata.
func (b *Builder) Build(windows, windowTypes int) (*Layout, error) {
	if b.err != nil {
		return nil, b.err
	}
	l := &Layout{
		name:        b.name,
		sites:       b.sites,
		windows:     windows,
		windowTypes: windowTypes,
	}
	for i, s := range b.sites {
		if s.kind == SiteVertex {
			l.vertices = append(l.vertices, SiteID(i))
		} else {
			l.edges = append(l.edges, SiteID(i))
		}
	}
	if len(l.vertices) == 0 || len(l.edges) == 0 {
		return nil, errors.New(errors.CodeSiteMismatch, "layout needs at least one vertex and one edge").
			WithDetail(b.name)
	}
	return l, nil
}

func (b *Builder) checkVertex(id SiteID) bool {
	if id < 0 || int(id) >= len(b.sites) || b.sites[id].kind != SiteVertex {
		b.fail(errors.New(errors.CodeSiteMismatch, "edge endpoint is not a vertex").
			WithDetail(fmt.Sprintf("site=%d", id)))
		return false
	}
	return true
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
