// Package render draws 2D depictions of molecules as PNG images.  Atoms
// are projected onto the xy plane and drawn as CPK-colored discs; double
// and triple bonds are drawn as offset parallel lines.
package render

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

// Options controls the output image.
type Options struct {
	Width  int
	Height int
	Margin float64
	// AtomRadius is the disc radius in pixels.
	AtomRadius float64
}

// DefaultOptions renders an 800x800 image with comfortable margins.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 800, Margin: 60, AtomRadius: 9}
}

type rgb struct{ r, g, b float64 }

// cpkColors maps elements to their conventional depiction colors.
// Placeholder metals render in distinct tones so heavy structures stay
// readable.
var cpkColors = map[chem.Element]rgb{
	"H":  {0.9, 0.9, 0.9},
	"C":  {0.2, 0.2, 0.2},
	"N":  {0.2, 0.3, 0.9},
	"O":  {0.9, 0.15, 0.15},
	"S":  {0.9, 0.8, 0.2},
	"F":  {0.3, 0.8, 0.3},
	"Cl": {0.2, 0.7, 0.2},
	"Br": {0.6, 0.2, 0.1},
	"Rh": {0.6, 0.4, 0.8},
	"Y":  {0.4, 0.8, 0.8},
	"Zr": {0.5, 0.75, 0.75},
	"Nb": {0.45, 0.7, 0.78},
	"Pd": {0.4, 0.5, 0.6},
}

var defaultColor = rgb{0.55, 0.55, 0.55}

// PNG renders the molecule and writes it to path.
func PNG(m *molecule.Molecule, path string, opts Options) error {
	if m.NumAtoms() == 0 {
		return errors.New(errors.CodeRenderError, "cannot render empty molecule")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.New(errors.CodeRenderError, "image dimensions must be positive")
	}

	project := projector(m, opts)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, b := range m.Bonds() {
		pa, err := m.AtomCoord(b.A)
		if err != nil {
			return err
		}
		pb, err := m.AtomCoord(b.B)
		if err != nil {
			return err
		}
		x1, y1 := project(pa.X, pa.Y)
		x2, y2 := project(pb.X, pb.Y)
		drawBond(dc, x1, y1, x2, y2, b.Order)
	}

	rec := m.ToRecord()
	for _, a := range rec.Atoms {
		x, y := project(a.X, a.Y)
		c, ok := cpkColors[a.Element]
		if !ok {
			c = defaultColor
		}
		dc.SetRGB(c.r, c.g, c.b)
		dc.DrawCircle(x, y, opts.AtomRadius)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.DrawCircle(x, y, opts.AtomRadius)
		dc.Stroke()
	}

	if err := dc.SavePNG(path); err != nil {
		return errors.Wrap(err, errors.CodeRenderError, "failed to save png").WithDetail(path)
	}
	return nil
}

// projector maps molecular xy coordinates into image space, preserving
// aspect ratio.
func projector(m *molecule.Molecule, opts Options) func(x, y float64) (float64, float64) {
	rec := m.ToRecord()
	minX, maxX := rec.Atoms[0].X, rec.Atoms[0].X
	minY, maxY := rec.Atoms[0].Y, rec.Atoms[0].Y
	for _, a := range rec.Atoms {
		minX = math.Min(minX, a.X)
		maxX = math.Max(maxX, a.X)
		minY = math.Min(minY, a.Y)
		maxY = math.Max(maxY, a.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	span := math.Max(spanX, spanY)
	if span == 0 {
		span = 1
	}
	scale := (math.Min(float64(opts.Width), float64(opts.Height)) - 2*opts.Margin) / span

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	return func(x, y float64) (float64, float64) {
		// Image y grows downward.
		return float64(opts.Width)/2 + (x-cx)*scale,
			float64(opts.Height)/2 - (y-cy)*scale
	}
}

// drawBond draws 1 to 3 parallel lines perpendicular-offset from the
// bond axis.
func drawBond(dc *gg.Context, x1, y1, x2, y2 float64, order chem.BondOrder) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit perpendicular for the parallel-line offset.
	px, py := -dy/length, dx/length
	const gap = 3.5

	offsets := []float64{0}
	switch order {
	case chem.BondDouble:
		offsets = []float64{-gap / 2, gap / 2}
	case chem.BondTriple:
		offsets = []float64{-gap, 0, gap}
	}

	dc.SetRGB(0.25, 0.25, 0.25)
	dc.SetLineWidth(2)
	for _, o := range offsets {
		dc.DrawLine(x1+px*o, y1+py*o, x2+px*o, y2+py*o)
		dc.Stroke()
	}
}
