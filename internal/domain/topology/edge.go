package topology

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/domain/molecule"
)

// placeOnEdge positions a ditopic linker fragment on an edge site.  The
// linker axis is aligned with the edge direction under a random flip, and
// a final rotation about the axis pushes the linker's bulk centroid away
// from the graph center.  The flip is the only source of randomness in a
// build; a seeded source makes builds reproducible.
func (l *Layout) placeOnEdge(id SiteID, frag *molecule.Fragment, rng *rand.Rand) error {
	coord := l.Coord(id)
	if err := frag.CenterPlacersAt(coord); err != nil {
		return err
	}

	direction, err := l.Direction(id)
	if err != nil {
		return err
	}
	sign := 1.0
	if rng.Intn(2) == 0 {
		sign = -1.0
	}

	axis, err := frag.DirectionVector()
	if err != nil {
		return err
	}
	if err := frag.SetOrientation(axis, r3.Scale(sign, direction)); err != nil {
		return err
	}

	return frag.MinimizeAngle(coord, direction, coord)
}
