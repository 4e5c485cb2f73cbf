package canny

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Grid is a fixed-size 2D buffer of float64 samples stored row-major.
//
// Sample (x, y) lives at Pix[x + y*Width]. Values carry no inherent bound;
// after ScaleTo255 they conventionally lie in [0, 255].
type Grid struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGrid allocates a zero-filled Grid.
//
// Returns ErrInvalidDimensions if width or height is not positive.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}, nil
}

// GridFromValues wraps a copy of values as a width x height Grid.
//
// Returns ErrInvalidDimensions if the dimensions are not positive or
// len(values) != width*height.
func GridFromValues(width, height int, values []float64) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid", ErrInvalidDimensions, len(values), width, height)
	}
	copy(g.Pix, values)
	return g, nil
}

// newGridLike allocates a zero Grid with the same shape as g.
func newGridLike(g *Grid) *Grid {
	return &Grid{
		Width:  g.Width,
		Height: g.Height,
		Pix:    make([]float64, len(g.Pix)),
	}
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	return len(g.Pix)
}

// Index returns the sample index of (x, y). It does not check bounds.
func (g *Grid) Index(x, y int) int {
	return x + y*g.Width
}

// InBounds reports whether (x, y) lies inside [0,Width) x [0,Height).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the sample at (x, y). It panics if (x, y) is out of bounds.
func (g *Grid) At(x, y int) float64 {
	return g.Pix[g.Index(x, y)]
}

// AtOr returns the sample at (x, y), or fallback when (x, y) is out of bounds.
func (g *Grid) AtOr(x, y int, fallback float64) float64 {
	if !g.InBounds(x, y) {
		return fallback
	}
	return g.Pix[g.Index(x, y)]
}

// Set stores v at (x, y). Only the stage that creates a Grid should call Set.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[g.Index(x, y)] = v
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := newGridLike(g)
	copy(c.Pix, g.Pix)
	return c
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g != nil && o != nil && g.Width == o.Width && g.Height == o.Height && len(g.Pix) == len(o.Pix)
}

// MinMax returns the smallest and largest samples. An empty Grid yields (0, 0).
func (g *Grid) MinMax() (min, max float64) {
	if len(g.Pix) == 0 {
		return 0, 0
	}
	return floats.Min(g.Pix), floats.Max(g.Pix)
}

// NonZeroMask returns a Grid holding 255 wherever g is non-zero and 0
// elsewhere.
func NonZeroMask(g *Grid) *Grid {
	mask := newGridLike(g)
	for i, v := range g.Pix {
		if v != 0 {
			mask.Pix[i] = 255
		}
	}
	return mask
}

func checkSameShape(op string, a, b *Grid) error {
	if a == nil || b == nil {
		return fmt.Errorf("%s: %w: nil grid", op, ErrShapeMismatch)
	}
	if !a.SameShape(b) {
		return fmt.Errorf("%s: %w: %dx%d vs %dx%d", op, ErrShapeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	return nil
}
