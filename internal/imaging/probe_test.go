package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/canny-mcp/internal/canny"
)

func TestProbe(t *testing.T) {
	img := createStepImage(20, 20, 10)
	s, err := canny.Run(img, canny.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	edgeX := -1
	for x := 0; x < 20; x++ {
		if s.Edges.At(x, 10) == canny.EdgeValue {
			edgeX = x
			break
		}
	}
	if edgeX < 0 {
		t.Fatal("no edge on row 10")
	}

	result, err := Probe(img, s, []LabeledPoint{
		{X: 0, Y: 0, Label: "corner"},
		{X: edgeX, Y: 10, Label: "edge"},
	})
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if len(result.Traces) != 2 {
		t.Fatalf("got %d traces, want 2", len(result.Traces))
	}

	corner := result.Traces[0]
	if corner.Label != "corner" || corner.SourceHex != "#000000" {
		t.Errorf("corner trace: %+v", corner)
	}
	if corner.Grey != 0 || corner.State != "suppressed" {
		t.Errorf("corner should be black and not an edge: %+v", corner)
	}

	edge := result.Traces[1]
	if edge.State != "strong" || edge.Threshold != "strong" {
		t.Errorf("edge trace states: %+v", edge)
	}
	if edge.Orientation != "w_e" {
		t.Errorf("vertical step gradient should bin as w_e, got %s", edge.Orientation)
	}
	if edge.Thinned != edge.Magnitude {
		t.Errorf("thinned %f should keep the magnitude %f", edge.Thinned, edge.Magnitude)
	}
	if result.Thresholds != canny.DefaultThresholds() {
		t.Errorf("Thresholds: got %+v", result.Thresholds)
	}
}

func TestProbe_Errors(t *testing.T) {
	img := createInMemoryImage(8, 8, color.White)
	s, err := canny.Run(img, canny.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := Probe(img, s, []LabeledPoint{{X: 8, Y: 0}}); err == nil {
		t.Error("Probe should reject out-of-bounds points")
	}

	other := createInMemoryImage(4, 8, color.White)
	if _, err := Probe(other, s, nil); !errors.Is(err, canny.ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}

	partial, err := canny.Start(img, canny.Options{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := Probe(img, partial, nil); !errors.Is(err, canny.ErrStageOrder) {
		t.Errorf("got %v, want ErrStageOrder", err)
	}
}

func TestProbe_TransparentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	img.SetNRGBA(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	s, err := canny.Run(img, canny.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	result, err := Probe(img, s, []LabeledPoint{
		{X: 1, Y: 1, Label: "transparent"},
		{X: 2, Y: 2, Label: "half"},
	})
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	for _, tr := range result.Traces {
		if tr.SourceHex != "#ffffff" {
			t.Errorf("%s: SourceHex got %s, want #ffffff", tr.Label, tr.SourceHex)
		}
		if tr.Grey != 255 {
			t.Errorf("%s: Grey got %v, want 255", tr.Label, tr.Grey)
		}
		if tr.State != "suppressed" {
			t.Errorf("%s: alpha alone should not make an edge, got %s", tr.Label, tr.State)
		}
	}
	for _, v := range s.Edges.Pix {
		if v != 0 {
			t.Fatal("uniform white image with transparency produced edges")
		}
	}
}
