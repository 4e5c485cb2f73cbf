package canny

import "fmt"

// Thin applies non-maximum suppression to each per-orientation magnitude
// Grid.
//
// For a bin with offset (dx, dy), the pixel at (x, y) survives only when
//
//	middle >  value(x+dx, y+dy)  and
//	middle >= value(x-dx, y-dy)
//
// with out-of-range neighbors read as 0. The strict/non-strict split means a
// plateau two pixels wide keeps exactly one of them. Every other pixel is 0
// in the output.
//
// Returns ErrShapeMismatch if any Grid is nil or the four differ in size.
func Thin(byBin BinGrids) (BinGrids, error) {
	var out BinGrids
	if err := checkBinShapes(byBin); err != nil {
		return out, fmt.Errorf("thin: %w", err)
	}
	for _, o := range Orientations() {
		out[o] = thinOne(byBin[o], o)
	}
	return out, nil
}

func thinOne(g *Grid, o Orientation) *Grid {
	dx, dy := o.Offset()
	out := newGridLike(g)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			middle := g.Pix[x+y*g.Width]
			if middle == 0 {
				continue
			}
			plus := g.AtOr(x+dx, y+dy, 0)
			minus := g.AtOr(x-dx, y-dy, 0)
			if middle > plus && middle >= minus {
				out.Pix[x+y*g.Width] = middle
			}
		}
	}
	return out
}

// Combine merges four per-bin Grids into one by summing them pixel-wise.
// The bins are disjoint in their source pixels, so the sum is a union.
func Combine(byBin BinGrids) (*Grid, error) {
	if err := checkBinShapes(byBin); err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	out := newGridLike(byBin[0])
	for _, g := range byBin {
		for i, v := range g.Pix {
			out.Pix[i] += v
		}
	}
	return out, nil
}

func checkBinShapes(byBin BinGrids) error {
	for _, o := range Orientations() {
		if byBin[o] == nil {
			return fmt.Errorf("%w: missing %s grid", ErrShapeMismatch, o)
		}
		if !byBin[o].SameShape(byBin[0]) {
			return fmt.Errorf("%w: %s grid is %dx%d, want %dx%d", ErrShapeMismatch, o,
				byBin[o].Width, byBin[o].Height, byBin[0].Width, byBin[0].Height)
		}
	}
	return nil
}
