package canny

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GreyMode selects how colour pixels collapse to a single intensity.
type GreyMode string

const (
	// GreyLuma weights R, G, B with ITU-R BT.601 (0.299, 0.587, 0.114).
	GreyLuma GreyMode = "luma"

	// GreyLightness uses CIE L* (perceptual lightness) scaled to 0-255.
	GreyLightness GreyMode = "lightness"
)

// ParseGreyMode accepts "luma", "lightness", or "" (luma).
func ParseGreyMode(s string) (GreyMode, error) {
	switch GreyMode(s) {
	case "", GreyLuma:
		return GreyLuma, nil
	case GreyLightness:
		return GreyLightness, nil
	}
	return "", fmt.Errorf("unknown greyscale mode %q", s)
}

// Greyscale converts img to an intensity Grid with samples in [0, 255].
//
// The Grid origin is the image's Bounds().Min, so sub-images keep their own
// (0, 0). Alpha is ignored: samples come from the straight (unpremultiplied)
// colour, so a transparent pixel keeps the intensity of its stored colour.
func Greyscale(img image.Image, mode GreyMode) (*Grid, error) {
	bounds := img.Bounds()
	g, err := NewGrid(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("failed to convert to greyscale: %w", err)
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			r8, g8, b8 := float64(c.R), float64(c.G), float64(c.B)

			var v float64
			switch mode {
			case GreyLightness:
				l, _, _ := colorful.Color{R: r8 / 255, G: g8 / 255, B: b8 / 255}.Lab()
				v = clampFloat(l, 0, 1) * 255
			default:
				v = 0.299*r8 + 0.587*g8 + 0.114*b8
			}
			g.Pix[x+y*g.Width] = v
		}
	}
	return g, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
