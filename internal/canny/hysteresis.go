package canny

import "fmt"

// Default threshold values applied when the caller supplies none.
const (
	DefaultStrongThreshold = 63
	DefaultThresholdGap    = 30
)

// EdgeValue is the sample written for edge pixels in the tracked output.
const EdgeValue = 255

// Thresholds is the (strong, weak) cutoff pair for double thresholding.
// Strong must be greater than Weak.
type Thresholds struct {
	Strong float64 `json:"strong"`
	Weak   float64 `json:"weak"`
}

// DefaultThresholds returns strong = 63, weak = 33.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Strong: DefaultStrongThreshold,
		Weak:   DefaultStrongThreshold - DefaultThresholdGap,
	}
}

// Validate returns ErrInvalidThresholds unless Weak < Strong.
func (t Thresholds) Validate() error {
	if !(t.Weak < t.Strong) {
		return fmt.Errorf("%w: strong=%g weak=%g", ErrInvalidThresholds, t.Strong, t.Weak)
	}
	return nil
}

// Clamped returns a pair that satisfies Validate by pulling Weak down to
// Strong-1 when needed, or to Strong/2 when Strong-1 would be negative. It
// is meant for caller-facing boundaries such as tool arguments; the tracking
// stage itself never corrects its input.
func (t Thresholds) Clamped() Thresholds {
	if t.Weak >= t.Strong {
		t.Weak = t.Strong - 1
		if t.Weak < 0 {
			t.Weak = t.Strong / 2
		}
	}
	return t
}

// EdgeState is the per-pixel classification used during tracking.
type EdgeState uint8

const (
	Suppressed EdgeState = iota
	Weak
	Strong
)

func (s EdgeState) String() string {
	switch s {
	case Suppressed:
		return "suppressed"
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	}
	return fmt.Sprintf("EdgeState(%d)", uint8(s))
}

// Masks returns the double-threshold masks of thinned: strong holds 1 where
// thinned >= th.Strong, weak holds 1 where thinned >= th.Weak. Since
// Weak < Strong, weak is a superset of strong.
func Masks(thinned *Grid, th Thresholds) (strong, weak *Grid, err error) {
	if err := th.Validate(); err != nil {
		return nil, nil, err
	}
	strong = newGridLike(thinned)
	weak = newGridLike(thinned)
	for i, v := range thinned.Pix {
		if v >= th.Strong {
			strong.Pix[i] = 1
		}
		if v >= th.Weak {
			weak.Pix[i] = 1
		}
	}
	return strong, weak, nil
}

// Classify assigns every thinned sample its initial state.
func Classify(thinned *Grid, th Thresholds) ([]EdgeState, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	states := make([]EdgeState, len(thinned.Pix))
	for i, v := range thinned.Pix {
		switch {
		case v >= th.Strong:
			states[i] = Strong
		case v >= th.Weak:
			states[i] = Weak
		}
	}
	return states, nil
}

// Propagate runs hysteresis over a width x height state map and returns a
// new slice. Weak pixels 8-connected to a Strong pixel, directly or through
// other Weak pixels, become Strong; Weak pixels never reached become
// Suppressed.
//
// The walk is a worklist flood fill seeded with every Strong pixel, so it
// reaches the fixpoint in one pass. Running it on its own output changes
// nothing, and no Strong pixel is ever demoted.
func Propagate(states []EdgeState, width, height int) ([]EdgeState, error) {
	if width <= 0 || height <= 0 || len(states) != width*height {
		return nil, fmt.Errorf("%w: %d states for %dx%d", ErrInvalidDimensions, len(states), width, height)
	}
	out := make([]EdgeState, len(states))
	copy(out, states)

	queue := make([]int, 0, len(out)/8+1)
	for i, s := range out {
		if s == Strong {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%width, i/width
		for ny := y - 1; ny <= y+1; ny++ {
			if ny < 0 || ny >= height {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= width {
					continue
				}
				j := nx + ny*width
				if out[j] == Weak {
					out[j] = Strong
					queue = append(queue, j)
				}
			}
		}
	}

	for i, s := range out {
		if s == Weak {
			out[i] = Suppressed
		}
	}
	return out, nil
}

// StatesToGrid renders a state map as an edge Grid: EdgeValue where Strong,
// 0 elsewhere.
func StatesToGrid(states []EdgeState, width, height int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if len(states) != len(g.Pix) {
		return nil, fmt.Errorf("%w: %d states for %dx%d", ErrInvalidDimensions, len(states), width, height)
	}
	for i, s := range states {
		if s == Strong {
			g.Pix[i] = EdgeValue
		}
	}
	return g, nil
}

// Track runs double thresholding and hysteresis on a thinned magnitude Grid
// and returns the final edge Grid.
//
// Parameters:
//   - thinned: Magnitude after non-maximum suppression; zero off the ridges.
//   - th: Threshold pair with Weak < Strong. It is never corrected here;
//     callers that accept user input should apply Clamped first.
//
// Returns:
//   - *Grid: EdgeValue (255) on edge pixels, 0 elsewhere.
//   - error: ErrInvalidThresholds if th.Weak >= th.Strong.
//
// # Algorithm
//
//  1. Classify: >= Strong is Strong, >= Weak is Weak, the rest Suppressed
//
//  2. Propagate: a worklist seeded with every Strong pixel promotes Weak
//     pixels among its 8 neighbours, which join the worklist in turn
//
//  3. Weak pixels never reached are Suppressed
//
// The result does not depend on visiting order, and running it again on its
// own output changes nothing.
func Track(thinned *Grid, th Thresholds) (*Grid, error) {
	states, err := Classify(thinned, th)
	if err != nil {
		return nil, err
	}
	states, err = Propagate(states, thinned.Width, thinned.Height)
	if err != nil {
		return nil, err
	}
	return StatesToGrid(states, thinned.Width, thinned.Height)
}
