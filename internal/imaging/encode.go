package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

// PNGMimeType is the MIME type of every encoded Grid.
const PNGMimeType = "image/png"

// EncodedImage is a greyscale PNG rendering of a Grid.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// GridToGray converts g to an 8-bit greyscale image.
//
// With scale set, g is first stretched to 0..255 with canny.ScaleTo255 (a
// constant Grid renders black). Without it, samples are rounded and clamped
// to 0..255 as they are.
func GridToGray(g *canny.Grid, scale bool) *image.Gray {
	src := g
	if scale {
		src = canny.ScaleTo255(g)
	}
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range src.Pix {
		img.Pix[i] = toByte(v)
	}
	return img
}

func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// EncodeGrid renders g as a base64 PNG. See GridToGray for scale.
func EncodeGrid(g *canny.Grid, scale bool) (*EncodedImage, error) {
	if g == nil {
		return nil, fmt.Errorf("failed to encode grid: %w", canny.ErrInvalidDimensions)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, GridToGray(g, scale), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode grid: %w", err)
	}

	return &EncodedImage{
		Width:       g.Width,
		Height:      g.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    PNGMimeType,
	}, nil
}
