package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createStepImage(100, 100, 50)

	cropped, err := Crop(img, Region{50, 10, 100, 60})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	b := cropped.Bounds()
	if b.Min != (image.Point{}) || b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", b)
	}

	// the right half of the step is white throughout
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := cropped.At(x, y).RGBA()
			if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
				t.Fatalf("pixel (%d,%d) not white", x, y)
			}
		}
	}
}

func TestCrop_InvalidRegions(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name string
		r    Region
	}{
		{"negative origin", Region{-1, 0, 50, 50}},
		{"past right edge", Region{0, 0, 101, 50}},
		{"past bottom edge", Region{0, 0, 50, 101}},
		{"empty width", Region{10, 10, 10, 20}},
		{"inverted", Region{50, 50, 10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r); err == nil {
				t.Errorf("Crop(%+v) should fail", tt.r)
			}
		})
	}
}

func TestNamedRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 50}},
		{"top-right", Region{50, 0, 100, 50}},
		{"bottom-left", Region{0, 50, 50, 100}},
		{"bottom-right", Region{50, 50, 100, 100}},
		{"top-half", Region{0, 0, 100, 50}},
		{"bottom-half", Region{0, 50, 100, 100}},
		{"left-half", Region{0, 0, 50, 100}},
		{"right-half", Region{50, 0, 100, 100}},
		{"center", Region{25, 25, 75, 75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(bounds, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := NamedRegion(bounds, "middle-ish"); err == nil {
		t.Error("NamedRegion should reject unknown names")
	}
}

func TestNamedRegion_OddDimensionsAndOffset(t *testing.T) {
	got, err := NamedRegion(image.Rect(0, 0, 101, 51), "right-half")
	if err != nil {
		t.Fatalf("NamedRegion failed: %v", err)
	}
	if want := (Region{50, 0, 101, 51}); got != want {
		t.Errorf("right-half: got %+v, want %+v", got, want)
	}

	got, err = NamedRegion(image.Rect(10, 20, 30, 40), "top-left")
	if err != nil {
		t.Fatalf("NamedRegion failed: %v", err)
	}
	if want := (Region{10, 20, 20, 30}); got != want {
		t.Errorf("offset top-left: got %+v, want %+v", got, want)
	}
}

func TestPreprocess_NothingConfigured(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	out, err := Preprocess{}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out != image.Image(img) {
		t.Error("empty Preprocess should return the source image")
	}
}

func TestPreprocess_MaxDimension(t *testing.T) {
	img := createInMemoryImage(200, 100, color.White)

	out, err := Preprocess{MaxDimension: 50}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Errorf("downscaled: got %dx%d, want 50x25", out.Bounds().Dx(), out.Bounds().Dy())
	}

	out, err = Preprocess{MaxDimension: 500}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Bounds().Dx() != 200 {
		t.Errorf("smaller image must not be upscaled: got width %d", out.Bounds().Dx())
	}
}

func TestPreprocess_CropThenScale(t *testing.T) {
	img := createInMemoryImage(200, 200, color.White)
	out, err := Preprocess{Region: &Region{0, 0, 100, 40}, MaxDimension: 50}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 20 {
		t.Errorf("got %dx%d, want 50x20", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestPreprocess_MedianRemovesSpeck(t *testing.T) {
	img := createInMemoryImage(9, 9, color.RGBA{0, 0, 0, 255})
	img.Set(4, 4, color.RGBA{255, 255, 255, 255})

	out, err := Preprocess{MedianRadius: 1}.Apply(img)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	r, _, _, _ := out.At(4, 4).RGBA()
	if r != 0 {
		t.Errorf("speck survived the median filter: r=%d", r>>8)
	}
}

func TestPreprocess_InvalidMedianRadius(t *testing.T) {
	img := createInMemoryImage(9, 9, color.White)
	if _, err := (Preprocess{MedianRadius: -3}).Apply(img); err == nil {
		t.Error("negative radius other than auto should fail")
	}
}

func TestAutoRadius(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{100, 100, 0},
		{400, 400, 2},
		{1000, 800, 5},
	}
	for _, tt := range tests {
		if got := AutoRadius(image.Rect(0, 0, tt.w, tt.h)); got != tt.want {
			t.Errorf("AutoRadius(%dx%d): got %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
