package canny

import (
	"fmt"
	"image"
	"runtime"
)

// Options configures a pipeline run. The zero value is usable: BT.601 luma,
// the 5x5 Gaussian with its own divisor, default thresholds, and one worker
// per CPU.
type Options struct {
	// Grey selects the greyscale conversion.
	Grey GreyMode

	// BlurKernel names the smoothing kernel. Empty means KernelGaussian.
	BlurKernel KernelName

	// BlurNormalize, if non-nil, replaces the blur kernel's divisor.
	BlurNormalize *float64

	// Thresholds is the strong/weak pair. The zero value means
	// DefaultThresholds unless AutoThreshold is set.
	Thresholds Thresholds

	// AutoThreshold picks the pair from the thinned magnitude with Otsu's
	// method and ignores Thresholds.
	AutoThreshold bool

	// Workers bounds the goroutines used by convolution. 0 means
	// runtime.NumCPU(); 1 forces sequential execution.
	Workers int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o Options) blurKernel() KernelName {
	if o.BlurKernel == "" {
		return KernelGaussian
	}
	return o.BlurKernel
}

func (o Options) thresholds() Thresholds {
	if o.Thresholds == (Thresholds{}) {
		return DefaultThresholds()
	}
	return o.Thresholds
}

// State is the immutable record of a pipeline run. Every stage function takes
// a State and returns a new one with its own outputs filled in; Grids already
// present are shared, never modified.
type State struct {
	Width  int
	Height int

	Grey    *Grid
	Blurred *Grid

	GradX     *Grid
	GradY     *Grid
	Magnitude *Grid
	Angle     *Grid

	Bins           *Bins
	MagnitudeByBin BinGrids
	ThinnedByBin   BinGrids
	Thinned        *Grid

	Thresholds Thresholds
	StrongMask *Grid
	WeakMask   *Grid
	States     []EdgeState
	Edges      *Grid
}

// Stage is one step of the pipeline.
type Stage func(State, Options) (State, error)

// Stages returns the full pipeline after greyscale conversion, in order.
func Stages() []Stage {
	return []Stage{BlurStage, GradientStage, BucketStage, ThinStage, ThresholdStage, TrackStage}
}

// Start begins a run from a decoded image.
func Start(img image.Image, opts Options) (State, error) {
	grey, err := Greyscale(img, opts.Grey)
	if err != nil {
		return State{}, err
	}
	return StartFromGrid(grey), nil
}

// StartFromGrid begins a run from an intensity Grid that is already
// greyscale.
func StartFromGrid(grey *Grid) State {
	return State{Width: grey.Width, Height: grey.Height, Grey: grey}
}

// Run executes every stage on img and returns the final State.
func Run(img image.Image, opts Options) (State, error) {
	s, err := Start(img, opts)
	if err != nil {
		return State{}, err
	}
	return RunFrom(s, opts, Stages()...)
}

// RunFrom applies stages in order to s.
func RunFrom(s State, opts Options, stages ...Stage) (State, error) {
	var err error
	for _, stage := range stages {
		s, err = stage(s, opts)
		if err != nil {
			return State{}, err
		}
	}
	return s, nil
}

// BlurStage smooths Grey with the configured kernel.
func BlurStage(s State, opts Options) (State, error) {
	if s.Grey == nil {
		return State{}, missingInput("blur", "greyscale")
	}
	k, err := LookupKernel(opts.blurKernel())
	if err != nil {
		return State{}, fmt.Errorf("failed to blur: %w", err)
	}
	convOpts := []ConvolveOption{WithWorkers(opts.workers())}
	if opts.BlurNormalize != nil {
		convOpts = append(convOpts, WithNormalize(*opts.BlurNormalize))
	}
	blurred, err := Convolve(s.Grey, k, convOpts...)
	if err != nil {
		return State{}, fmt.Errorf("failed to blur: %w", err)
	}
	s.Blurred = blurred
	return s, nil
}

// GradientStage computes Sobel gradients, magnitude, and angle from Blurred.
func GradientStage(s State, opts Options) (State, error) {
	if s.Blurred == nil {
		return State{}, missingInput("gradient", "blurred")
	}
	gx, gy, err := Gradients(s.Blurred, opts.workers())
	if err != nil {
		return State{}, err
	}
	mag, err := Magnitude(gx, gy)
	if err != nil {
		return State{}, fmt.Errorf("failed to compute magnitude: %w", err)
	}
	angle, err := Angle(gx, gy)
	if err != nil {
		return State{}, fmt.Errorf("failed to compute angle: %w", err)
	}
	s.GradX, s.GradY, s.Magnitude, s.Angle = gx, gy, mag, angle
	return s, nil
}

// BucketStage classifies Angle into orientation bins and splits Magnitude by
// bin.
func BucketStage(s State, _ Options) (State, error) {
	if s.Angle == nil || s.Magnitude == nil {
		return State{}, missingInput("bucket", "gradient")
	}
	bins := Bucketize(s.Angle)
	byBin, err := SplitByBins(s.Magnitude, bins)
	if err != nil {
		return State{}, fmt.Errorf("failed to bucket magnitude: %w", err)
	}
	s.Bins, s.MagnitudeByBin = bins, byBin
	return s, nil
}

// ThinStage applies non-maximum suppression per bin and recombines.
func ThinStage(s State, _ Options) (State, error) {
	if s.Bins == nil {
		return State{}, missingInput("thin", "bucketed")
	}
	thinned, err := Thin(s.MagnitudeByBin)
	if err != nil {
		return State{}, err
	}
	combined, err := Combine(thinned)
	if err != nil {
		return State{}, err
	}
	s.ThinnedByBin, s.Thinned = thinned, combined
	return s, nil
}

// ThresholdStage selects the threshold pair and builds the strong and weak
// masks.
func ThresholdStage(s State, opts Options) (State, error) {
	if s.Thinned == nil {
		return State{}, missingInput("threshold", "thinned")
	}
	th := opts.thresholds()
	if opts.AutoThreshold {
		th = AutoThresholds(s.Thinned)
	}
	strong, weak, err := Masks(s.Thinned, th)
	if err != nil {
		return State{}, err
	}
	s.Thresholds, s.StrongMask, s.WeakMask = th, strong, weak
	return s, nil
}

// TrackStage runs hysteresis with the thresholds chosen by ThresholdStage.
func TrackStage(s State, _ Options) (State, error) {
	if s.Thinned == nil || s.StrongMask == nil {
		return State{}, missingInput("track", "thresholded")
	}
	states, err := Classify(s.Thinned, s.Thresholds)
	if err != nil {
		return State{}, err
	}
	states, err = Propagate(states, s.Width, s.Height)
	if err != nil {
		return State{}, err
	}
	edges, err := StatesToGrid(states, s.Width, s.Height)
	if err != nil {
		return State{}, err
	}
	s.States, s.Edges = states, edges
	return s, nil
}

func missingInput(stage, input string) error {
	return fmt.Errorf("%s stage: %w: %s", stage, ErrStageOrder, input)
}
