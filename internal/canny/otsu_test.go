package canny

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtsuLevel_Bimodal(t *testing.T) {
	values := make([]float64, 0, 200)
	for i := 0; i < 100; i++ {
		values = append(values, 10, 200)
	}
	level, ok := OtsuLevel(values)
	require.True(t, ok)
	// 10 lands in level 12 of 0..255 scaled to the maximum 200
	assert.Equal(t, 12, level)
}

func TestOtsuLevel_NoSplit(t *testing.T) {
	for _, values := range [][]float64{nil, {0, 0, 0}, {7, 7, 7}} {
		_, ok := OtsuLevel(values)
		assert.False(t, ok, "%v", values)
	}
}

func TestAutoThresholds(t *testing.T) {
	g, err := NewGrid(20, 20)
	require.NoError(t, err)
	for i := range g.Pix {
		switch i % 4 {
		case 0:
			g.Pix[i] = 10
		case 1:
			g.Pix[i] = 200
		}
	}

	th := AutoThresholds(g)
	require.NoError(t, th.Validate())
	assert.Greater(t, th.Strong, 10.0)
	assert.LessOrEqual(t, th.Strong, 200.0)
	assert.Greater(t, th.Weak, 0.0)
}

func TestAutoThresholds_FallsBackToDefaults(t *testing.T) {
	assert.Equal(t, DefaultThresholds(), AutoThresholds(filledGrid(t, 4, 4, 0)))
	assert.Equal(t, DefaultThresholds(), AutoThresholds(filledGrid(t, 4, 4, 90)))
}
