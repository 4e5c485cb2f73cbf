package canny

import (
	"fmt"
	"math"
)

// Gradients convolves img with the Sobel X and Y kernels.
//
// The divisor is pinned to 1: Sobel weights sum to zero and the outputs must
// keep their signed directional strength.
func Gradients(img *Grid, workers int) (gx, gy *Grid, err error) {
	gx, err = Convolve(img, mustKernel(KernelSobelX), WithNormalize(1), WithWorkers(workers))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute x gradient: %w", err)
	}
	gy, err = Convolve(img, mustKernel(KernelSobelY), WithNormalize(1), WithWorkers(workers))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute y gradient: %w", err)
	}
	return gx, gy, nil
}

// Magnitude returns sqrt(gx² + gy²) per pixel.
//
// Returns ErrShapeMismatch if gx and gy differ in size.
func Magnitude(gx, gy *Grid) (*Grid, error) {
	if err := checkSameShape("magnitude", gx, gy); err != nil {
		return nil, err
	}
	out := newGridLike(gx)
	for i := range out.Pix {
		out.Pix[i] = math.Hypot(gx.Pix[i], gy.Pix[i])
	}
	return out, nil
}

// Angle returns the gradient direction in degrees, in [0, 360).
//
// The value is (atan2(gy, gx) + π) converted to degrees, so a zero gradient
// maps to 180. atan2 returns exactly π for negative gx with gy == +0; that
// sample would land on 360 and is folded to 0, which is the same direction.
//
// Returns ErrShapeMismatch if gx and gy differ in size.
func Angle(gx, gy *Grid) (*Grid, error) {
	if err := checkSameShape("angle", gx, gy); err != nil {
		return nil, err
	}
	out := newGridLike(gx)
	for i := range out.Pix {
		deg := (math.Atan2(gy.Pix[i], gx.Pix[i]) + math.Pi) * 180 / math.Pi
		if deg >= 360 {
			deg -= 360
		}
		out.Pix[i] = deg
	}
	return out, nil
}
