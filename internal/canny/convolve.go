package canny

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

type convolveConfig struct {
	normalize    float64
	hasNormalize bool
	workers      int
}

// ConvolveOption customizes a Convolve call.
type ConvolveOption func(*convolveConfig)

// WithNormalize overrides the divisor applied to every output sample.
// Without it the kernel's Divisor is used.
func WithNormalize(v float64) ConvolveOption {
	return func(c *convolveConfig) {
		c.normalize = v
		c.hasNormalize = true
	}
}

// WithWorkers splits the rows across n goroutines. n <= 1 runs inline.
func WithWorkers(n int) ConvolveOption {
	return func(c *convolveConfig) {
		c.workers = n
	}
}

// Convolve applies k to img and returns a new Grid of the same size.
//
// Parameters:
//   - img: Input Grid. It is only read.
//   - k: Odd-sided square kernel. Weights are applied in reading order,
//     top-left weight to the top-left neighbour (correlation).
//   - opts: WithNormalize replaces the divisor (default k.Divisor(), which is
//     1 for zero-sum kernels). WithWorkers splits rows across goroutines.
//
// Returns:
//   - *Grid: The filtered Grid. Worker count never changes the values.
//   - error: ErrInvalidKernel if k is not odd-sided square or the normalize
//     override is 0; ErrInvalidDimensions for a nil Grid.
//
// # Border Handling
//
// Neighbours outside the Grid take the value of the pixel at the kernel
// center, not zero. A flat Grid therefore stays flat under any kernel whose
// weights sum to its divisor.
func Convolve(img *Grid, k Kernel, opts ...ConvolveOption) (*Grid, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("convolve: %w: nil grid", ErrInvalidDimensions)
	}

	cfg := convolveConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	normalize := k.Divisor()
	if cfg.hasNormalize {
		if cfg.normalize == 0 {
			return nil, fmt.Errorf("%w: normalize must not be 0", ErrInvalidKernel)
		}
		normalize = cfg.normalize
	}

	out := newGridLike(img)
	if cfg.workers <= 1 || img.Height < 2 {
		convolveRows(img, out, k, normalize, 0, img.Height)
		return out, nil
	}

	workers := cfg.workers
	if workers > img.Height {
		workers = img.Height
	}
	rowsPer := (img.Height + workers - 1) / workers

	var g errgroup.Group
	for y0 := 0; y0 < img.Height; y0 += rowsPer {
		y1 := y0 + rowsPer
		if y1 > img.Height {
			y1 = img.Height
		}
		y0 := y0
		g.Go(func() error {
			convolveRows(img, out, k, normalize, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// convolveRows fills out rows [y0, y1). Rows are disjoint between callers.
func convolveRows(img, out *Grid, k Kernel, normalize float64, y0, y1 int) {
	width, height := img.Width, img.Height
	r := k.Radius()

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			center := img.Pix[x+y*width]
			var sum float64
			ki := 0
			for ny := -r; ny <= r; ny++ {
				yy := y + ny
				rowOut := yy < 0 || yy >= height
				for nx := -r; nx <= r; nx++ {
					xx := x + nx
					p := center
					if !rowOut && xx >= 0 && xx < width {
						p = img.Pix[xx+yy*width]
					}
					sum += p * k.Weights[ki]
					ki++
				}
			}
			out.Pix[x+y*width] = sum / normalize
		}
	}
}
