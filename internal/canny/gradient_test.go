package canny

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verticalStep returns a width x height Grid that is 0 left of column split
// and hi from split onward.
func verticalStep(t *testing.T, width, height, split int, hi float64) *Grid {
	t.Helper()
	g, err := NewGrid(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := split; x < width; x++ {
			g.Set(x, y, hi)
		}
	}
	return g
}

func TestGradients_FlatGridIsZero(t *testing.T) {
	img := filledGrid(t, 5, 5, 128)
	gx, gy, err := Gradients(img, 1)
	require.NoError(t, err)
	for i := range gx.Pix {
		assert.Equal(t, 0.0, gx.Pix[i], "gx[%d]", i)
		assert.Equal(t, 0.0, gy.Pix[i], "gy[%d]", i)
	}
}

func TestGradients_VerticalStep(t *testing.T) {
	img := verticalStep(t, 10, 10, 5, 255)
	gx, gy, err := Gradients(img, 2)
	require.NoError(t, err)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			switch x {
			case 4, 5:
				// full response inside, top and bottom rows lose one neighbor row
				assert.GreaterOrEqual(t, gx.At(x, y), 765.0, "gx(%d,%d)", x, y)
				assert.LessOrEqual(t, gx.At(x, y), 1020.0, "gx(%d,%d)", x, y)
			default:
				assert.Equal(t, 0.0, gx.At(x, y), "gx(%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, 1020.0, gx.At(4, 5))
	assert.Equal(t, 1020.0, gx.At(5, 5))

	// the step is constant down every column, so rows with both vertical
	// neighbors in range see no y gradient
	for y := 1; y < 9; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, 0.0, gy.At(x, y), "gy(%d,%d)", x, y)
		}
	}
	_, maxY := gy.MinMax()
	_, maxX := gx.MinMax()
	assert.Less(t, maxY, maxX/2)
}

func TestMagnitude(t *testing.T) {
	gx := gridOf(t, []float64{3, 0, -5})
	gy := gridOf(t, []float64{4, 0, 12})
	mag, err := Magnitude(gx, gy)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 0, 13}, mag.Pix)
}

func TestMagnitudeAndAngle_ShapeMismatch(t *testing.T) {
	a := filledGrid(t, 3, 2, 1)
	b := filledGrid(t, 2, 3, 1)

	_, err := Magnitude(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Angle(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Magnitude(a, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAngle_ZeroGradientIs180(t *testing.T) {
	zero := filledGrid(t, 2, 2, 0)
	angle, err := Angle(zero, zero)
	require.NoError(t, err)
	for _, v := range angle.Pix {
		assert.InDelta(t, 180.0, v, 1e-9)
	}
}

func TestAngle_Range(t *testing.T) {
	var xs, ys []float64
	for _, gx := range []float64{-3, -1, 0, 1, 2} {
		for _, gy := range []float64{-2, -1, 0, 1, 4} {
			xs = append(xs, gx)
			ys = append(ys, gy)
		}
	}
	gx, err := GridFromValues(len(xs), 1, xs)
	require.NoError(t, err)
	gy, err := GridFromValues(len(ys), 1, ys)
	require.NoError(t, err)

	angle, err := Angle(gx, gy)
	require.NoError(t, err)
	for i, v := range angle.Pix {
		assert.GreaterOrEqual(t, v, 0.0, "angle[%d]", i)
		assert.Less(t, v, 360.0, "angle[%d]", i)
	}
}

func TestAngle_NegativeXFoldsToZero(t *testing.T) {
	gx := gridOf(t, []float64{-1})
	gy := gridOf(t, []float64{0})
	angle, err := Angle(gx, gy)
	require.NoError(t, err)
	assert.Equal(t, 0.0, angle.Pix[0])
	assert.Equal(t, WE, ClassifyAngle(angle.Pix[0]))
}

func TestAngle_Quadrants(t *testing.T) {
	gx := gridOf(t, []float64{1, 0, 0})
	gy := gridOf(t, []float64{0, 1, -1})
	angle, err := Angle(gx, gy)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, angle.Pix[0], 1e-9)
	assert.InDelta(t, 270.0, angle.Pix[1], 1e-9)
	assert.InDelta(t, 90.0, angle.Pix[2], 1e-9)
	assert.False(t, math.IsNaN(angle.Pix[0]))
}
