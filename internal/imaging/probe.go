package imaging

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

// LabeledPoint is a pixel to probe, with an optional caller label.
type LabeledPoint struct {
	X     int
	Y     int
	Label string
}

// PixelTrace is the value of every pipeline stage at one pixel.
type PixelTrace struct {
	Label string `json:"label,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`

	// SourceHex is the source colour "#rrggbb" after preprocessing.
	SourceHex string `json:"source_hex"`

	Grey        float64 `json:"grey"`
	Blurred     float64 `json:"blurred"`
	GradientX   float64 `json:"gradient_x"`
	GradientY   float64 `json:"gradient_y"`
	Magnitude   float64 `json:"magnitude"`
	Angle       float64 `json:"angle"`
	Orientation string  `json:"orientation"`
	Thinned     float64 `json:"thinned"`

	// State is the hysteresis outcome: "strong" (an edge) or "suppressed".
	State string `json:"state"`

	// Threshold is the pre-hysteresis class: "strong", "weak", or
	// "suppressed".
	Threshold string `json:"threshold"`
}

// ProbeResult holds one trace per requested point, in request order.
type ProbeResult struct {
	Thresholds canny.Thresholds `json:"thresholds"`
	Traces     []PixelTrace     `json:"traces"`
}

// Probe reports every stage of a completed run s at each point.
//
// This is the tool for answering "why is (or isn't) this pixel an edge?":
// each trace walks from the source colour through blur, gradients,
// orientation bin, and thinning to the threshold class and final state.
//
// Parameters:
//   - img: The image the run started from (after preprocessing). It supplies
//     SourceHex and must have the same size as s.
//   - s: A State that has been through every stage.
//   - points: Pixels to report, in img coordinates relative to its bounds.
//
// Returns:
//   - *ProbeResult: The thresholds of the run and one trace per point, in
//     request order.
//   - error: ErrStageOrder if s is incomplete, ErrShapeMismatch if img and s
//     differ in size, or an error naming the first point outside the image.
func Probe(img image.Image, s canny.State, points []LabeledPoint) (*ProbeResult, error) {
	if s.Edges == nil || s.Bins == nil {
		return nil, fmt.Errorf("failed to probe: %w", canny.ErrStageOrder)
	}
	bounds := img.Bounds()
	if bounds.Dx() != s.Width || bounds.Dy() != s.Height {
		return nil, fmt.Errorf("failed to probe: %w: image is %dx%d, run is %dx%d",
			canny.ErrShapeMismatch, bounds.Dx(), bounds.Dy(), s.Width, s.Height)
	}

	traces := make([]PixelTrace, 0, len(points))
	for _, p := range points {
		if !s.Grey.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("failed to probe point (%d,%d): coordinates outside image bounds", p.X, p.Y)
		}
		i := s.Grey.Index(p.X, p.Y)

		traces = append(traces, PixelTrace{
			Label:       p.Label,
			X:           p.X,
			Y:           p.Y,
			SourceHex:   hexAt(img, bounds.Min.X+p.X, bounds.Min.Y+p.Y),
			Grey:        s.Grey.Pix[i],
			Blurred:     s.Blurred.Pix[i],
			GradientX:   s.GradX.Pix[i],
			GradientY:   s.GradY.Pix[i],
			Magnitude:   s.Magnitude.Pix[i],
			Angle:       s.Angle.Pix[i],
			Orientation: s.Bins.Of[i].String(),
			Thinned:     s.Thinned.Pix[i],
			State:       s.States[i].String(),
			Threshold:   thresholdClass(s.Thinned.Pix[i], s.Thresholds).String(),
		})
	}
	return &ProbeResult{Thresholds: s.Thresholds, Traces: traces}, nil
}

func thresholdClass(v float64, th canny.Thresholds) canny.EdgeState {
	switch {
	case v >= th.Strong:
		return canny.Strong
	case v >= th.Weak:
		return canny.Weak
	}
	return canny.Suppressed
}

// hexAt ignores alpha; transparent pixels report their stored colour.
func hexAt(img image.Image, x, y int) string {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
