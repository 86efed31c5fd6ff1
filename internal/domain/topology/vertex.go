package topology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/internal/geometry"
	"github.com/andrewtarzia/stk/pkg/errors"
)

// EdgeDirectionVectors returns the normalized pairwise differences over
// all 2-combinations of the site's neighbor coordinates.
func (l *Layout) EdgeDirectionVectors(id SiteID) ([]r3.Vec, error) {
	nbs := l.Neighbors(id)
	var out []r3.Vec
	for i := 0; i < len(nbs); i++ {
		for j := i + 1; j < len(nbs); j++ {
			d, err := geometry.Normalize(r3.Sub(l.Coord(nbs[j]), l.Coord(nbs[i])))
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeZeroVector, "coincident neighbor coordinates").
					WithDetail(fmt.Sprintf("site=%d neighbors=%d,%d", id, nbs[i], nbs[j]))
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// EdgePlaneNormal returns the unit normal of the plane spanned by the
// site's neighbors: the cross product of the first two edge-direction
// vectors, sign-corrected so its angle to the first neighbor's position
// is at most 90 degrees.  A site with fewer than 3 connections has no
// defined plane.
func (l *Layout) EdgePlaneNormal(id SiteID) (r3.Vec, error) {
	nbs := l.Neighbors(id)
	if len(nbs) < 3 {
		return r3.Vec{}, errors.New(errors.CodePlaneUndefined,
			"edge plane needs at least 3 connections").
			WithDetail(fmt.Sprintf("site=%d connections=%d", id, len(nbs)))
	}
	dirs, err := l.EdgeDirectionVectors(id)
	if err != nil {
		return r3.Vec{}, err
	}

	normal, err := geometry.Normalize(r3.Cross(dirs[0], dirs[1]))
	if err != nil {
		return r3.Vec{}, errors.Wrap(err, errors.CodeZeroVector, "collinear neighbor coordinates").
			WithDetail(fmt.Sprintf("site=%d", id))
	}

	theta, err := geometry.Angle(normal, l.Coord(nbs[0]))
	if err != nil {
		return r3.Vec{}, err
	}
	if theta > math.Pi/2 {
		normal = r3.Scale(-1, normal)
	}
	return normal, nil
}

// EdgePlane returns the scalar plane coefficients (a, b, c, d) of the
// neighbor plane, with d solved from the first neighbor's coordinate.
func (l *Layout) EdgePlane(id SiteID) ([4]float64, error) {
	normal, err := l.EdgePlaneNormal(id)
	if err != nil {
		return [4]float64{}, err
	}
	first := l.Coord(l.Neighbors(id)[0])
	return [4]float64{normal.X, normal.Y, normal.Z, -r3.Dot(normal, first)}, nil
}

// EdgeCoordMatrix returns the neighbor coordinates stacked into an Nx3
// matrix, one neighbor per row.
func (l *Layout) EdgeCoordMatrix(id SiteID) *mat.Dense {
	nbs := l.Neighbors(id)
	m := mat.NewDense(len(nbs), 3, nil)
	for i, nb := range nbs {
		c := l.Coord(nb)
		m.Set(i, 0, c.X)
		m.Set(i, 1, c.Y)
		m.Set(i, 2, c.Z)
	}
	return m
}

// EdgeCentroid returns the mean of the neighbor coordinates.
func (l *Layout) EdgeCentroid(id SiteID) (r3.Vec, error) {
	nbs := l.Neighbors(id)
	points := make([]r3.Vec, len(nbs))
	for i, nb := range nbs {
		points[i] = l.Coord(nb)
	}
	return geometry.Centroid(points)
}

// placeOnVertex orients and positions a core-block fragment on a vertex
// site.  The fragment's placer plane is aligned with the vertex's
// neighbor plane, the first reactive atom is swung toward the first
// connected edge, and the reactive centroid lands on the vertex
// coordinate.  No bonds are formed here.
func (l *Layout) placeOnVertex(id SiteID, frag *molecule.Fragment) error {
	normal, err := l.EdgePlaneNormal(id)
	if err != nil {
		return err
	}

	placerNormal, err := frag.PlacerPlaneNormal()
	if err != nil {
		return err
	}
	if err := frag.SetOrientation(placerNormal, normal); err != nil {
		return err
	}

	if err := frag.CenterPlacersAt(r3.Vec{}); err != nil {
		return err
	}

	// Angle between the first connected edge, recentered by the edge
	// centroid so it stays in the neighbor plane, and the first reactive
	// atom.
	centroid, err := l.EdgeCentroid(id)
	if err != nil {
		return err
	}
	firstEdge := r3.Sub(l.Coord(l.Neighbors(id)[0]), centroid)
	firstAtom, err := frag.ReactiveCoord(0)
	if err != nil {
		return err
	}
	theta, err := geometry.Angle(firstEdge, firstAtom)
	if err != nil {
		return err
	}
	if err := frag.RotateAbout(normal, theta, r3.Vec{}); err != nil {
		return err
	}

	return frag.CenterPlacersAt(l.Coord(id))
}
