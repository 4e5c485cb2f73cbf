package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// AutoMedianRadius asks Preprocess to size the median filter from the image
// area.
const AutoMedianRadius = -1

// medianAreaDivisor sets the auto median window: side = sqrt(w*h/8000),
// rounded up to odd.
const medianAreaDivisor = 8000

// Region is a crop rectangle in source pixel coordinates. (X1, Y1) is
// inclusive and (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// NamedRegion resolves a quadrant or half name ("top-left", "right-half",
// "center", ...) against bounds.
func NamedRegion(bounds image.Rectangle, name string) (Region, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var r Region
	switch name {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		// middle 50% on each axis
		qW, qH := w/4, h/4
		r = Region{qW, qH, w - qW, h - qH}
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}

	r.X1 += bounds.Min.X
	r.X2 += bounds.Min.X
	r.Y1 += bounds.Min.Y
	r.Y2 += bounds.Min.Y
	return r, nil
}

// Preprocess describes the optional steps applied to a source image before
// greyscale conversion, in the order crop, downscale, denoise.
type Preprocess struct {
	// Region, if set, crops the source first.
	Region *Region

	// MaxDimension, if positive, shrinks the image so that neither side
	// exceeds it. Smaller images are left alone.
	MaxDimension int

	// MedianRadius, if positive, applies a median filter of that radius.
	// AutoMedianRadius derives the radius from the image area; 0 disables.
	MedianRadius int
}

// Apply runs the configured steps on img and returns the result.
//
// Parameters:
//   - img: Decoded source image. It is never modified, so cached images can
//     be passed directly.
//
// Returns:
//   - image.Image: The preprocessed image with bounds starting at (0, 0), or
//     img itself when nothing is configured.
//   - error: Non-nil if Region lies outside img or is empty, or MedianRadius
//     is below AutoMedianRadius.
//
// # Steps
//
//  1. Crop to Region (x1,y1 inclusive, x2,y2 exclusive)
//
//  2. Downscale with Lanczos so neither side exceeds MaxDimension, keeping
//     the aspect ratio; smaller images are left alone
//
//  3. Median filter of MedianRadius. AutoMedianRadius picks the radius from
//     the area left after steps 1 and 2 (see AutoRadius)
func (p Preprocess) Apply(img image.Image) (image.Image, error) {
	out := img

	if p.Region != nil {
		cropped, err := Crop(out, *p.Region)
		if err != nil {
			return nil, err
		}
		out = cropped
	}

	if p.MaxDimension > 0 {
		b := out.Bounds()
		if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
			out = imaging.Fit(out, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
		}
	}

	radius := p.MedianRadius
	if radius == AutoMedianRadius {
		radius = AutoRadius(out.Bounds())
	}
	if radius < AutoMedianRadius {
		return nil, fmt.Errorf("invalid median radius %d", p.MedianRadius)
	}
	if radius > 0 {
		out = effect.Median(clone.AsRGBA(out), float64(radius))
	}

	return out, nil
}

// AutoRadius returns the median radius used for AutoMedianRadius: the odd
// window side sqrt(w*h/8000), halved. Small images get 0 (no filtering).
func AutoRadius(bounds image.Rectangle) int {
	side := int(math.Sqrt(float64(bounds.Dx()*bounds.Dy()) / medianAreaDivisor))
	if side%2 == 0 {
		side++
	}
	return side / 2
}

// Crop returns the part of img inside r. The result's bounds start at
// (0, 0).
func Crop(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, r.Rect()), nil
}
