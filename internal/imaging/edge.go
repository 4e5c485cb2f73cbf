package imaging

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

// ErrUnknownStage is returned when a stage name is not one StageNames lists.
var ErrUnknownStage = errors.New("unknown stage")

// EdgeDetectResult is the tracked edge map of one pipeline run.
//
// The image is the Grid that hysteresis produced: white (255) on edge
// pixels, black elsewhere.
type EdgeDetectResult struct {
	EncodedImage

	// Thresholds is the pair actually applied, which differs from the
	// requested one when automatic thresholding is on.
	Thresholds canny.Thresholds `json:"thresholds"`

	EdgePixels   int     `json:"edge_pixels"`
	EdgeFraction float64 `json:"edge_fraction"`
}

// EdgeDetect runs the full Canny pipeline on img and encodes the edge map.
//
// The output is a binary greyscale image: white (255) on edge pixels and
// black elsewhere, the same size as img.
//
// Parameters:
//   - img: Source image, already cropped, resized, and denoised as needed.
//     Colour images are collapsed with opts.Grey.
//   - opts: Pipeline options. Zero values select the defaults: luma
//     greyscale, the 5x5 Gaussian, thresholds 63/33, one worker per CPU.
//
// Returns:
//   - *EdgeDetectResult: Edge image as base64 PNG, the thresholds actually
//     applied, and the edge pixel count and fraction.
//   - error: Non-nil if the options are invalid (unknown kernel, zero
//     normalize, weak >= strong) or PNG encoding fails.
//
// # Algorithm
//
//  1. Greyscale: BT.601 luma (0.299*R + 0.587*G + 0.114*B) or CIE L*
//
//  2. Blur: the blur kernel (default 5x5 Gaussian, weights summing to 159)
//
//  3. Gradients: Sobel X and Y with divisor 1
//     magnitude = hypot(Gx, Gy)
//     angle = (atan2(Gy, Gx) + pi) in degrees, in [0, 360)
//
//  4. Orientation bins: the angle modulo 180 is assigned to one of four
//     directions (n_s, w_e, ne_sw, nw_se), 45 degrees apart
//
//  5. Non-maximum suppression: within each bin a pixel survives only if it
//     beats its neighbour on one side and ties or beats the other
//
//  6. Double threshold and hysteresis:
//     - Thinned magnitude >= strong: edge
//     - Between weak and strong: edge only if 8-connected to an edge
//     - Below weak: discarded
//
// # Threshold Selection
//
// Thresholds compare against raw gradient magnitude, which for a full
// black-to-white step reaches roughly 550 after the Gaussian. With
// opts.AutoThreshold the pair is chosen by Otsu's method over the thinned
// magnitudes and reported in the result.
func EdgeDetect(img image.Image, opts canny.Options) (*EdgeDetectResult, error) {
	s, err := canny.Run(img, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect edges: %w", err)
	}
	return EdgeResult(s)
}

// EdgeResult encodes the edge map of a completed run.
func EdgeResult(s canny.State) (*EdgeDetectResult, error) {
	if s.Edges == nil {
		return nil, fmt.Errorf("failed to encode edges: %w: edges", canny.ErrStageOrder)
	}
	enc, err := EncodeGrid(s.Edges, false)
	if err != nil {
		return nil, err
	}

	edges := 0
	for _, v := range s.Edges.Pix {
		if v == canny.EdgeValue {
			edges++
		}
	}
	return &EdgeDetectResult{
		EncodedImage: *enc,
		Thresholds:   s.Thresholds,
		EdgePixels:   edges,
		EdgeFraction: float64(edges) / float64(s.Edges.Len()),
	}, nil
}

// stageView says where a named stage lives in a State and whether it needs
// stretching to 0..255 before encoding.
type stageView struct {
	grid  func(canny.State) *canny.Grid
	scale bool
}

var stageViews = map[string]stageView{
	"grey":       {func(s canny.State) *canny.Grid { return s.Grey }, false},
	"blurred":    {func(s canny.State) *canny.Grid { return s.Blurred }, false},
	"gradient_x": {func(s canny.State) *canny.Grid { return s.GradX }, true},
	"gradient_y": {func(s canny.State) *canny.Grid { return s.GradY }, true},
	"magnitude":  {func(s canny.State) *canny.Grid { return s.Magnitude }, true},
	"angle":      {func(s canny.State) *canny.Grid { return s.Angle }, true},
	"thinned":    {func(s canny.State) *canny.Grid { return s.Thinned }, true},
	"strong":     {func(s canny.State) *canny.Grid { return s.StrongMask }, true},
	"weak":       {func(s canny.State) *canny.Grid { return s.WeakMask }, true},
	"edges":      {func(s canny.State) *canny.Grid { return s.Edges }, false},
}

func init() {
	for _, o := range canny.Orientations() {
		o := o
		stageViews["magnitude_"+o.String()] = stageView{
			func(s canny.State) *canny.Grid { return s.MagnitudeByBin[o] }, true,
		}
		stageViews["thinned_"+o.String()] = stageView{
			func(s canny.State) *canny.Grid { return s.ThinnedByBin[o] }, true,
		}
	}
}

// StageNames lists every stage RenderStage accepts, sorted.
func StageNames() []string {
	names := make([]string, 0, len(stageViews))
	for name := range stageViews {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StageGrid returns the Grid a stage name refers to in s.
func StageGrid(s canny.State, name string) (*canny.Grid, error) {
	view, ok := stageViews[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownStage, name, strings.Join(StageNames(), ", "))
	}
	g := view.grid(s)
	if g == nil {
		return nil, fmt.Errorf("stage %s: %w", name, canny.ErrStageOrder)
	}
	return g, nil
}

// StageResult is one intermediate Grid rendered as a PNG, plus the range of
// its raw samples before any scaling.
type StageResult struct {
	EncodedImage

	Stage  string  `json:"stage"`
	Scaled bool    `json:"scaled"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RenderStage encodes the named stage of s. Signed and unbounded stages
// (gradients, magnitude, angle, masks) are stretched to 0..255; greyscale,
// blurred, and edge Grids are already in that range and are written as is.
func RenderStage(s canny.State, name string) (*StageResult, error) {
	g, err := StageGrid(s, name)
	if err != nil {
		return nil, err
	}
	scale := stageViews[name].scale
	enc, err := EncodeGrid(g, scale)
	if err != nil {
		return nil, err
	}
	min, max := g.MinMax()
	return &StageResult{
		EncodedImage: *enc,
		Stage:        name,
		Scaled:       scale,
		Min:          min,
		Max:          max,
	}, nil
}

// ConvolveResult is a greyscale image convolved with one kernel.
type ConvolveResult struct {
	EncodedImage

	Kernel    canny.KernelName `json:"kernel"`
	Normalize float64          `json:"normalize"`
	Min       float64          `json:"min"`
	Max       float64          `json:"max"`
}

// ConvolveImage converts img to greyscale and convolves it with the named
// kernel. normalize, if non-nil, replaces the kernel's divisor. The output
// is stretched to 0..255 for encoding; Min and Max report the raw range.
func ConvolveImage(img image.Image, mode canny.GreyMode, name canny.KernelName, normalize *float64, workers int) (*ConvolveResult, error) {
	k, err := canny.LookupKernel(name)
	if err != nil {
		return nil, err
	}
	grey, err := canny.Greyscale(img, mode)
	if err != nil {
		return nil, err
	}

	opts := []canny.ConvolveOption{canny.WithWorkers(workers)}
	divisor := k.Divisor()
	if normalize != nil {
		opts = append(opts, canny.WithNormalize(*normalize))
		divisor = *normalize
	}
	out, err := canny.Convolve(grey, k, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to convolve with %s: %w", name, err)
	}

	enc, err := EncodeGrid(out, true)
	if err != nil {
		return nil, err
	}
	min, max := out.MinMax()
	return &ConvolveResult{
		EncodedImage: *enc,
		Kernel:       name,
		Normalize:    divisor,
		Min:          min,
		Max:          max,
	}, nil
}
