package canny

import "gonum.org/v1/gonum/floats"

// ScaleTo255 linearly remaps g so that its minimum becomes 0 and its maximum
// becomes 255, returning a new Grid.
//
// A constant Grid (max == min) has no range to stretch and comes back all
// zero. An empty Grid comes back empty.
func ScaleTo255(g *Grid) *Grid {
	out := g.Clone()
	if len(out.Pix) == 0 {
		return out
	}
	min, max := g.MinMax()
	if max == min {
		for i := range out.Pix {
			out.Pix[i] = 0
		}
		return out
	}
	floats.AddConst(-min, out.Pix)
	floats.Scale(255/(max-min), out.Pix)
	// the maximum must land on exactly 255
	for i, v := range g.Pix {
		if v == max {
			out.Pix[i] = 255
		}
	}
	return out
}
