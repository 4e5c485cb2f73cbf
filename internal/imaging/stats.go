package imaging

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

// MagnitudeSummary describes the distribution of gradient magnitude.
type MagnitudeSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// EdgeStats counts pixels at each stage of a completed run.
type EdgeStats struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Thresholds canny.Thresholds `json:"thresholds"`

	// Bins is the number of pixels per orientation bin, keyed by bin name.
	Bins map[string]int `json:"bins"`

	// ThinnedPixels survived non-maximum suppression.
	ThinnedPixels int `json:"thinned_pixels"`

	// StrongPixels and WeakPixels are the double-threshold mask counts
	// before hysteresis; WeakPixels includes the strong ones.
	StrongPixels int `json:"strong_pixels"`
	WeakPixels   int `json:"weak_pixels"`

	// EdgePixels is the final edge count; PromotedPixels of them were weak
	// and reached through hysteresis.
	EdgePixels     int     `json:"edge_pixels"`
	PromotedPixels int     `json:"promoted_pixels"`
	EdgeFraction   float64 `json:"edge_fraction"`

	Magnitude        MagnitudeSummary `json:"magnitude"`
	ThinnedMagnitude MagnitudeSummary `json:"thinned_magnitude"`
}

// ComputeStats summarises a completed run.
func ComputeStats(s canny.State) (*EdgeStats, error) {
	if s.Edges == nil || s.Bins == nil || s.StrongMask == nil {
		return nil, fmt.Errorf("failed to compute stats: %w", canny.ErrStageOrder)
	}

	st := &EdgeStats{
		Width:      s.Width,
		Height:     s.Height,
		Thresholds: s.Thresholds,
		Bins:       make(map[string]int, canny.NumOrientations),
		Magnitude:  summarize(s.Magnitude.Pix),
	}
	for o, n := range s.Bins.Counts() {
		st.Bins[canny.Orientation(o).String()] = n
	}

	thinned := make([]float64, 0, len(s.Thinned.Pix)/8)
	for i, v := range s.Thinned.Pix {
		if v > 0 {
			st.ThinnedPixels++
			thinned = append(thinned, v)
		}
		if s.StrongMask.Pix[i] == 1 {
			st.StrongPixels++
		}
		if s.WeakMask.Pix[i] == 1 {
			st.WeakPixels++
		}
		if s.Edges.Pix[i] == canny.EdgeValue {
			st.EdgePixels++
		}
	}
	st.PromotedPixels = st.EdgePixels - st.StrongPixels
	st.EdgeFraction = float64(st.EdgePixels) / float64(s.Edges.Len())
	st.ThinnedMagnitude = summarize(thinned)
	return st, nil
}

func summarize(values []float64) MagnitudeSummary {
	if len(values) == 0 {
		return MagnitudeSummary{}
	}
	min, max := floats.Min(values), floats.Max(values)
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return MagnitudeSummary{Min: min, Max: max, Mean: mean, StdDev: std}
}
