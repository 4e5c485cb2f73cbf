// Package canny implements the Canny edge-detection pipeline on single-channel
// intensity Grids.
//
// The pipeline runs strictly forward, each stage producing fresh Grids from
// the previous stage's output:
//
//  1. Greyscale: image.Image -> Grid (ITU-R BT.601 luma by default)
//  2. Gaussian blur: 5x5 kernel, divisor = kernel sum (159)
//  3. Gradients: Sobel X and Y with divisor 1, so signed strength survives
//  4. Magnitude and angle: sqrt(Gx² + Gy²) and (atan2(Gy, Gx) + π) in degrees
//  5. Bucketing: each angle falls into one of four orientation bins
//  6. Thinning: non-maximum suppression along each bin's offset
//  7. Double threshold and hysteresis tracking (8-connected)
//
// # Grids
//
// A Grid is a dense row-major buffer of float64 samples; pixel (x, y) lives at
// index x + y*Width. Grids returned by this package are never mutated by a
// later stage.
//
// # Border Handling
//
// Convolution substitutes the kernel-center pixel's own value for any neighbor
// that falls outside the Grid. Thinning treats out-of-range neighbors as 0.
//
// # Errors
//
// Every fallible operation returns an error wrapping one of the sentinel
// errors in errors.go, so callers can test with errors.Is.
//
// # Thread Safety
//
// The package holds no global mutable state. Independent pipeline runs may
// execute concurrently. Convolution optionally fans rows out across
// goroutines; the result does not depend on the partitioning.
package canny
