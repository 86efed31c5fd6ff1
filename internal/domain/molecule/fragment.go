package molecule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/internal/geometry"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// Fragment is one positioned copy of a building block.  Placement mutates
// the fragment's private molecule copy; the source building block is
// never touched.
type Fragment struct {
	mol      *Molecule
	reactive []chem.AtomID
}

func newFragment(mol *Molecule, reactive []chem.AtomID) *Fragment {
	ids := make([]chem.AtomID, len(reactive))
	copy(ids, reactive)
	return &Fragment{mol: mol, reactive: ids}
}

// Molecule returns the fragment's positioned molecule.
func (f *Fragment) Molecule() *Molecule { return f.mol }

// ReactiveAtoms returns the fragment's reactive atom ids.
func (f *Fragment) ReactiveAtoms() []chem.AtomID {
	out := make([]chem.AtomID, len(f.reactive))
	copy(out, f.reactive)
	return out
}

// ReactiveCoord returns the position of the i-th reactive atom.
func (f *Fragment) ReactiveCoord(i int) (r3.Vec, error) {
	if i < 0 || i >= len(f.reactive) {
		return r3.Vec{}, errors.InvalidParam("reactive atom index out of range").
			WithDetail(fmt.Sprintf("i=%d reactive=%d", i, len(f.reactive)))
	}
	return f.mol.AtomCoord(f.reactive[i])
}

// PlacerCentroid returns the centroid of the reactive atoms.
func (f *Fragment) PlacerCentroid() (r3.Vec, error) {
	return f.mol.Centroid(f.reactive...)
}

// CenterPlacersAt translates the fragment so the reactive-atom centroid
// sits at target.
func (f *Fragment) CenterPlacersAt(target r3.Vec) error {
	c, err := f.PlacerCentroid()
	if err != nil {
		return err
	}
	f.mol.Translate(r3.Sub(target, c))
	return nil
}

// PlacerPlaneNormal returns the unit normal of the plane spanned by the
// first three reactive atoms, sign-corrected to point toward the bulk
// centroid of the molecule.  The sign is independent of the reactive
// atoms' listing order.  Fragments with fewer than three reactive atoms
// have no defined plane.
func (f *Fragment) PlacerPlaneNormal() (r3.Vec, error) {
	if len(f.reactive) < 3 {
		return r3.Vec{}, errors.New(errors.CodePlaneUndefined,
			"placer plane needs at least 3 reactive atoms").
			WithDetail(fmt.Sprintf("reactive=%d", len(f.reactive)))
	}
	p0, err := f.ReactiveCoord(0)
	if err != nil {
		return r3.Vec{}, err
	}
	p1, err := f.ReactiveCoord(1)
	if err != nil {
		return r3.Vec{}, err
	}
	p2, err := f.ReactiveCoord(2)
	if err != nil {
		return r3.Vec{}, err
	}
	normal, err := geometry.Normalize(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))
	if err != nil {
		return r3.Vec{}, err
	}

	bulk, err := f.mol.Centroid()
	if err != nil {
		return r3.Vec{}, err
	}
	placer, err := f.PlacerCentroid()
	if err != nil {
		return r3.Vec{}, err
	}
	if r3.Dot(normal, r3.Sub(bulk, placer)) < 0 {
		normal = r3.Scale(-1, normal)
	}
	return normal, nil
}

// DirectionVector returns the unit vector from the first reactive atom to
// the second.  Only defined for ditopic fragments.
func (f *Fragment) DirectionVector() (r3.Vec, error) {
	if len(f.reactive) != 2 {
		return r3.Vec{}, errors.InvalidConfig("direction vector requires exactly 2 reactive atoms").
			WithDetail(fmt.Sprintf("reactive=%d", len(f.reactive)))
	}
	p0, err := f.ReactiveCoord(0)
	if err != nil {
		return r3.Vec{}, err
	}
	p1, err := f.ReactiveCoord(1)
	if err != nil {
		return r3.Vec{}, err
	}
	return geometry.Normalize(r3.Sub(p1, p0))
}

// SetOrientation rotates the fragment about its placer centroid so that
// the molecular direction from aligns with to.
func (f *Fragment) SetOrientation(from, to r3.Vec) error {
	rot, err := geometry.RotationBetween(from, to)
	if err != nil {
		return err
	}
	origin, err := f.PlacerCentroid()
	if err != nil {
		return err
	}
	f.mol.Rotate(rot, origin)
	return nil
}

// RotateAbout rotates the fragment by theta radians about an axis passing
// through origin.
func (f *Fragment) RotateAbout(axis r3.Vec, theta float64, origin r3.Vec) error {
	rot, err := geometry.RotationMatrix(axis, theta)
	if err != nil {
		return err
	}
	f.mol.Rotate(rot, origin)
	return nil
}

// MinimizeAngle rotates the fragment about axis (through origin) by the
// angle that brings the origin-to-bulk-centroid vector as close as
// possible to target.  The optimum has a closed form: project both
// vectors onto the plane perpendicular to the axis and take the signed
// angle between the projections.
func (f *Fragment) MinimizeAngle(target, axis r3.Vec, origin r3.Vec) error {
	u, err := geometry.Normalize(axis)
	if err != nil {
		return err
	}
	c, err := f.mol.Centroid()
	if err != nil {
		return err
	}

	pb := projectOntoPlane(r3.Sub(c, origin), u)
	pt := projectOntoPlane(target, u)
	if r3.Norm2(pb) < 1e-20 || r3.Norm2(pt) < 1e-20 {
		// Either vector is parallel to the axis; every rotation angle is
		// equivalent, so leave the fragment as is.
		return nil
	}

	theta := math.Atan2(r3.Dot(u, r3.Cross(pb, pt)), r3.Dot(pb, pt))
	return f.RotateAbout(u, theta, origin)
}

// projectOntoPlane removes from v its component along the unit vector u.
func projectOntoPlane(v, u r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(v, u), u))
}
