package canny

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a square, odd-sided matrix of convolution weights in row-major
// order.
type Kernel struct {
	Side    int
	Weights []float64
}

// NewKernel validates weights and wraps a copy of them as a Kernel.
//
// The weight count must be a perfect square with an odd root (1, 9, 25, ...).
// Anything else returns ErrInvalidKernel.
func NewKernel(weights []float64) (Kernel, error) {
	side, err := kernelSide(len(weights))
	if err != nil {
		return Kernel{}, err
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{Side: side, Weights: w}, nil
}

func kernelSide(n int) (int, error) {
	root := math.Sqrt(float64(n))
	side := int(math.Round(root))
	if n == 0 || side*side != n {
		return 0, fmt.Errorf("%w: %d weights is not a square", ErrInvalidKernel, n)
	}
	if side%2 == 0 {
		return 0, fmt.Errorf("%w: side %d is even", ErrInvalidKernel, side)
	}
	return side, nil
}

// Validate re-checks the kernel invariants. Kernels built with a struct
// literal bypass NewKernel, so Convolve calls this before doing any work.
func (k Kernel) Validate() error {
	side, err := kernelSide(len(k.Weights))
	if err != nil {
		return err
	}
	if side != k.Side {
		return fmt.Errorf("%w: side %d does not match %d weights", ErrInvalidKernel, k.Side, len(k.Weights))
	}
	return nil
}

// Radius is the number of neighbors on each side of the center (1 for 3x3).
func (k Kernel) Radius() int {
	return (k.Side - 1) / 2
}

// Sum returns the sum of all weights.
func (k Kernel) Sum() float64 {
	return floats.Sum(k.Weights)
}

// Divisor returns the default normalize value: the weight sum, or 1 when the
// weights cancel out (Sobel kernels).
func (k Kernel) Divisor() float64 {
	sum := k.Sum()
	if sum == 0 {
		return 1
	}
	return sum
}

// Identity returns a side x side kernel with a single 1 at the center.
func Identity(side int) (Kernel, error) {
	if side <= 0 {
		return Kernel{}, fmt.Errorf("%w: side %d", ErrInvalidKernel, side)
	}
	w := make([]float64, side*side)
	w[len(w)/2] = 1
	return NewKernel(w)
}

// KernelName selects one of the built-in kernels.
type KernelName string

const (
	KernelGaussian      KernelName = "gaussian"
	KernelSobelX        KernelName = "sobel_x"
	KernelSobelY        KernelName = "sobel_y"
	KernelSobelXReverse KernelName = "sobel_x_reverse"
	KernelSobelYReverse KernelName = "sobel_y_reverse"
	KernelBox           KernelName = "box"
)

var kernelTable = map[KernelName][]float64{
	// sigma ~1.4, sum 159
	KernelGaussian: {
		2, 4, 5, 4, 2,
		4, 9, 12, 9, 4,
		5, 12, 15, 12, 5,
		4, 9, 12, 9, 4,
		2, 4, 5, 4, 2,
	},
	KernelSobelX: {
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	},
	KernelSobelY: {
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	},
	KernelSobelXReverse: {
		1, 0, -1,
		2, 0, -2,
		1, 0, -1,
	},
	KernelSobelYReverse: {
		1, 2, 1,
		0, 0, 0,
		-1, -2, -1,
	},
	KernelBox: {
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	},
}

// KernelNames lists the built-in kernel names in a stable order.
func KernelNames() []KernelName {
	return []KernelName{
		KernelGaussian,
		KernelSobelX,
		KernelSobelY,
		KernelSobelXReverse,
		KernelSobelYReverse,
		KernelBox,
	}
}

// LookupKernel returns a fresh copy of the named built-in kernel.
func LookupKernel(name KernelName) (Kernel, error) {
	w, ok := kernelTable[name]
	if !ok {
		return Kernel{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return NewKernel(w)
}

func mustKernel(name KernelName) Kernel {
	k, err := LookupKernel(name)
	if err != nil {
		panic(err)
	}
	return k
}
