package canny

import "errors"

var (
	// ErrShapeMismatch is returned when two Grids that must align index-for-index
	// have different dimensions.
	ErrShapeMismatch = errors.New("grid shapes do not match")

	// ErrInvalidKernel is returned for kernels that are not square with an odd
	// side, or for a zero normalize divisor.
	ErrInvalidKernel = errors.New("kernel must be square with odd-length sides")

	// ErrInvalidThresholds is returned when the weak threshold is not strictly
	// below the strong threshold.
	ErrInvalidThresholds = errors.New("weak threshold must be below strong threshold")

	// ErrInvalidDimensions is returned for non-positive widths or heights, or
	// sample buffers whose length does not equal width*height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrUnknownKernel is returned when a kernel name is not in the kernel table.
	ErrUnknownKernel = errors.New("unknown kernel")

	// ErrStageOrder is returned when a pipeline stage runs before the stage
	// that produces its input.
	ErrStageOrder = errors.New("stage input not computed")
)
