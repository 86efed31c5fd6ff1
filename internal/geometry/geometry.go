// Package geometry provides the vector and rotation primitives used by
// molecular placement.  Positions are gonum r3 vectors; batched positions
// are 3xN column matrices so whole molecules rotate with one matrix product.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrewtarzia/stk/pkg/errors"
)

// zeroTol is the squared-norm threshold below which a vector is treated
// as zero for normalization purposes.
const zeroTol = 1e-24

// Normalize returns the unit vector along v.  A zero-length input is a
// caller error, not a silently propagated NaN.
func Normalize(v r3.Vec) (r3.Vec, error) {
	n2 := r3.Norm2(v)
	if n2 < zeroTol {
		return r3.Vec{}, errors.New(errors.CodeZeroVector, "cannot normalize zero-length vector")
	}
	return r3.Scale(1/math.Sqrt(n2), v), nil
}

// Angle returns the angle in radians between a and b, in [0, pi].  The
// cosine is clamped before acos so that floating-point drift on parallel
// vectors never produces NaN.
func Angle(a, b r3.Vec) (float64, error) {
	na := r3.Norm(a)
	nb := r3.Norm(b)
	if na*na < zeroTol || nb*nb < zeroTol {
		return 0, errors.New(errors.CodeZeroVector, "cannot measure angle involving zero-length vector")
	}
	cos := r3.Dot(a, b) / (na * nb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos), nil
}

// RotationMatrix returns the 3x3 matrix rotating by theta radians about
// axis, following the right-hand rule.  The axis need not be normalized.
func RotationMatrix(axis r3.Vec, theta float64) (*mat.Dense, error) {
	u, err := Normalize(axis)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeZeroVector, "rotation axis is zero")
	}
	c := math.Cos(theta)
	s := math.Sin(theta)
	t := 1 - c

	// Rodrigues rotation formula, expanded.
	return mat.NewDense(3, 3, []float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c,
	}), nil
}

// RotationBetween returns the matrix rotating unit direction from onto
// unit direction to.  Antiparallel inputs rotate by pi about an arbitrary
// axis perpendicular to from.
func RotationBetween(from, to r3.Vec) (*mat.Dense, error) {
	f, err := Normalize(from)
	if err != nil {
		return nil, err
	}
	t, err := Normalize(to)
	if err != nil {
		return nil, err
	}

	axis := r3.Cross(f, t)
	if r3.Norm2(axis) < zeroTol {
		if r3.Dot(f, t) > 0 {
			// Already aligned.
			return identity3(), nil
		}
		return RotationMatrix(perpendicular(f), math.Pi)
	}

	theta, err := Angle(f, t)
	if err != nil {
		return nil, err
	}
	return RotationMatrix(axis, theta)
}

// ApplyRotation multiplies a 3xN position matrix in place by rot.
func ApplyRotation(rot *mat.Dense, positions *mat.Dense) {
	var rotated mat.Dense
	rotated.Mul(rot, positions)
	positions.Copy(&rotated)
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(points []r3.Vec) (r3.Vec, error) {
	if len(points) == 0 {
		return r3.Vec{}, errors.New(errors.CodeInvalidParam, "centroid of empty point set")
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(points)), sum), nil
}

// identity3 returns a fresh 3x3 identity matrix.
func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// perpendicular returns a vector perpendicular to v, chosen by crossing v
// with whichever basis axis is least aligned with it.
func perpendicular(v r3.Vec) r3.Vec {
	basis := r3.Vec{X: 1}
	if math.Abs(v.X) > math.Abs(v.Y) {
		basis = r3.Vec{Y: 1}
	}
	return r3.Cross(v, basis)
}
