package canny

import (
	"fmt"
	"math"
)

// Orientation is one of the four discretized gradient directions used for
// non-maximum suppression.
type Orientation int

const (
	NS Orientation = iota
	WE
	NESW
	NWSE
)

// NumOrientations is the number of orientation bins.
const NumOrientations = 4

// binHalfWidth is half of the 45° span each bin covers.
const binHalfWidth = 22.5

// Orientations lists every bin in index order.
func Orientations() [NumOrientations]Orientation {
	return [NumOrientations]Orientation{NS, WE, NESW, NWSE}
}

// Offset returns the unit step toward the "plus" neighbor along the gradient.
func (o Orientation) Offset() (dx, dy int) {
	switch o {
	case NS:
		return 0, 1
	case WE:
		return 1, 0
	case NESW:
		return 1, 1
	case NWSE:
		return -1, 1
	}
	return 0, 0
}

func (o Orientation) String() string {
	switch o {
	case NS:
		return "n_s"
	case WE:
		return "w_e"
	case NESW:
		return "ne_sw"
	case NWSE:
		return "nw_se"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation is the inverse of Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range Orientations() {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// ClassifyAngle maps a gradient angle in degrees onto its orientation bin.
//
// Gradient direction is orientation, not polarity, so the angle is reduced
// modulo 180 first (10° and 190° are the same edge). The bins are:
//
//	(67.5, 112.5]             -> NS
//	(112.5, 157.5]            -> NWSE
//	(157.5, 180] or [0, 22.5] -> WE
//	(22.5, 67.5]              -> NESW
func ClassifyAngle(deg float64) Orientation {
	d := math.Mod(deg, 180)
	if d < 0 {
		d += 180
	}
	switch {
	case d > 90-binHalfWidth && d <= 90+binHalfWidth:
		return NS
	case d > 90+binHalfWidth && d <= 180-binHalfWidth:
		return NWSE
	case d > binHalfWidth && d <= 90-binHalfWidth:
		return NESW
	default:
		return WE
	}
}

// Bins records the orientation of every pixel of an angle Grid.
type Bins struct {
	Width  int
	Height int

	// Of holds the orientation of each pixel, indexed like Grid.Pix.
	Of []Orientation

	members [NumOrientations][]int
}

// Members returns the pixel indices assigned to o, in ascending order. The
// returned slice must not be modified.
func (b *Bins) Members(o Orientation) []int {
	if o < 0 || int(o) >= NumOrientations {
		return nil
	}
	return b.members[o]
}

// Counts returns the number of pixels in each bin.
func (b *Bins) Counts() [NumOrientations]int {
	var c [NumOrientations]int
	for _, o := range Orientations() {
		c[o] = len(b.members[o])
	}
	return c
}

// Bucketize classifies every sample of an angle Grid (degrees). Each pixel
// index lands in exactly one bin.
func Bucketize(angle *Grid) *Bins {
	b := &Bins{
		Width:  angle.Width,
		Height: angle.Height,
		Of:     make([]Orientation, len(angle.Pix)),
	}
	for i, deg := range angle.Pix {
		o := ClassifyAngle(deg)
		b.Of[i] = o
		b.members[o] = append(b.members[o], i)
	}
	return b
}

// BinGrids holds one Grid per orientation, indexed by Orientation.
type BinGrids [NumOrientations]*Grid

// SplitByBins projects values into four same-shape Grids. Each Grid keeps the
// samples of its own bin and is zero everywhere else.
//
// Returns ErrShapeMismatch if values and bins differ in size.
func SplitByBins(values *Grid, bins *Bins) (BinGrids, error) {
	var out BinGrids
	if values == nil || bins == nil {
		return out, fmt.Errorf("split by bins: %w: nil input", ErrShapeMismatch)
	}
	if values.Width != bins.Width || values.Height != bins.Height || len(values.Pix) != len(bins.Of) {
		return out, fmt.Errorf("split by bins: %w: %dx%d vs %dx%d",
			ErrShapeMismatch, values.Width, values.Height, bins.Width, bins.Height)
	}
	for _, o := range Orientations() {
		g := newGridLike(values)
		for _, i := range bins.members[o] {
			g.Pix[i] = values.Pix[i]
		}
		out[o] = g
	}
	return out, nil
}
