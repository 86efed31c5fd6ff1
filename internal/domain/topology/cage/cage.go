// Package cage provides the built-in cage layouts.  Coordinates are
// static with the graph centroid at the origin; the scale factor spaces
// the sites to fit the building blocks being assembled.
package cage

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/topology"
	"github.com/andrewtarzia/stk/pkg/errors"
)

// TwoPlusThree is the trigonal dimer cage: two tritopic blocks facing
// each other across three linkers.  Every edge connects the same two
// vertices, so the edge midpoints all degenerate onto the origin and the
// edge sites carry explicit trigonal coordinates instead.
func TwoPlusThree(scale float64) (*topology.Layout, error) {
	if scale <= 0 {
		return nil, errors.InvalidParam("layout scale must be positive")
	}

	b := topology.NewBuilder("TwoPlusThree")
	top := b.AddVertex(r3.Vec{Z: scale})
	bottom := b.AddVertex(r3.Vec{Z: -scale})

	h := math.Sqrt(3) / 2
	b.AddEdgeAt(top, bottom, r3.Vec{X: -scale, Y: -h * scale})
	b.AddEdgeAt(top, bottom, r3.Vec{X: scale, Y: -h * scale})
	b.AddEdgeAt(top, bottom, r3.Vec{Y: h * scale})

	return b.Build(3, 1)
}

// FourPlusSix is the tetrahedral cage: four tritopic blocks at the
// corners of a tetrahedron joined pairwise by six linkers at the edge
// midpoints.
func FourPlusSix(scale float64) (*topology.Layout, error) {
	if scale <= 0 {
		return nil, errors.InvalidParam("layout scale must be positive")
	}

	b := topology.NewBuilder("FourPlusSix")
	apex := b.AddVertex(r3.Vec{Z: scale * math.Sqrt(6) / 2})
	base := []topology.SiteID{
		b.AddVertex(r3.Vec{X: -scale, Y: -scale * math.Sqrt(3) / 3, Z: -scale * math.Sqrt(6) / 6}),
		b.AddVertex(r3.Vec{X: scale, Y: -scale * math.Sqrt(3) / 3, Z: -scale * math.Sqrt(6) / 6}),
		b.AddVertex(r3.Vec{Y: scale * 2 * math.Sqrt(3) / 3, Z: -scale * math.Sqrt(6) / 6}),
	}

	for _, v := range base {
		b.AddEdge(apex, v)
	}
	b.AddEdge(base[0], base[1])
	b.AddEdge(base[1], base[2])
	b.AddEdge(base[2], base[0])

	return b.Build(4, 1)
}
