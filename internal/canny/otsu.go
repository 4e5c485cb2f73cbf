package canny

import "gonum.org/v1/gonum/floats"

const histogramLevels = 256

// OtsuLevel returns the histogram level (0-255) that maximizes the
// between-class variance of values binned over [0, max(values)].
//
// Pixels in levels <= the returned level form the background class. ok is
// false when values is empty, has no positive maximum, or every value falls
// into one level.
func OtsuLevel(values []float64) (level int, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	max := floats.Max(values)
	if max <= 0 {
		return 0, false
	}

	var hist [histogramLevels]float64
	for _, v := range values {
		hist[binOf(v, max)]++
	}

	n := float64(len(values))
	var totalMean float64
	for i, c := range hist {
		totalMean += float64(i) * c / n
	}

	var omega, mu, best float64
	found := false
	for k := 0; k < histogramLevels-1; k++ {
		p := hist[k] / n
		omega += p
		mu += float64(k) * p
		if omega <= 0 || omega >= 1 {
			continue
		}
		num := totalMean*omega - mu
		sigma := num * num / (omega * (1 - omega))
		if !found || sigma > best {
			best = sigma
			level = k
			found = true
		}
	}
	return level, found
}

func binOf(v, max float64) int {
	if v <= 0 {
		return 0
	}
	b := int(v / max * (histogramLevels - 1))
	if b >= histogramLevels {
		b = histogramLevels - 1
	}
	return b
}

// AutoThresholds picks a threshold pair from the non-zero samples of a
// thinned magnitude Grid using Otsu's method.
//
// Strong is the lower edge of Otsu's foreground class. Weak sits
// DefaultThresholdGap below it, or at Strong/2 when that would not be
// positive. Grids without enough structure to split fall back to
// DefaultThresholds.
func AutoThresholds(thinned *Grid) Thresholds {
	nonZero := make([]float64, 0, len(thinned.Pix)/4)
	for _, v := range thinned.Pix {
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	level, ok := OtsuLevel(nonZero)
	if !ok {
		return DefaultThresholds()
	}

	max := floats.Max(nonZero)
	strong := float64(level+1) * max / (histogramLevels - 1)
	if strong <= 0 {
		return DefaultThresholds()
	}
	weak := strong - DefaultThresholdGap
	if weak <= 0 {
		weak = strong / 2
	}
	return Thresholds{Strong: strong, Weak: weak}
}
