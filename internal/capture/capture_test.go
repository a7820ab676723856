package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func grayImage(w, h int, fill func(x, y int) uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	return img
}

func TestMatrixFromImageUniform(t *testing.T) {
	// Pure gray has equal channels, so Rec. 601 luma reproduces the value
	// exactly and block averaging is a no-op.
	img := grayImage(8, 8, func(int, int) uint8 { return 100 })

	m, err := MatrixFromImage(img, 4, 4)
	if err != nil {
		t.Fatalf("MatrixFromImage failed: %v", err)
	}
	if m.Rows() != 4 || m.Cols() != 4 {
		t.Fatalf("dimensions = %dx%d, want 4x4", m.Rows(), m.Cols())
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if m.At(r, c) != 100 {
				t.Fatalf("cell (%d,%d) = %d, want 100", r, c, m.At(r, c))
			}
		}
	}
}

func TestMatrixFromImageBlockAverages(t *testing.T) {
	// Left half 40, right half 200. Sampling to a 2x1 grid keeps the halves
	// separate, so no averaging across the boundary occurs.
	img := grayImage(4, 2, func(x, _ int) uint8 {
		if x < 2 {
			return 40
		}
		return 200
	})

	m, err := MatrixFromImage(img, 2, 1)
	if err != nil {
		t.Fatalf("MatrixFromImage failed: %v", err)
	}
	if diff := cmp.Diff([][]int{{40, 200}}, m.Cells()); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
}

func TestMatrixFromImageAveragesWithinBlock(t *testing.T) {
	// A 2x1 image collapsed to a single cell averages both pixels.
	img := grayImage(2, 1, func(x, _ int) uint8 {
		if x == 0 {
			return 0
		}
		return 100
	})

	m, err := MatrixFromImage(img, 1, 1)
	if err != nil {
		t.Fatalf("MatrixFromImage failed: %v", err)
	}
	if m.At(0, 0) != 50 {
		t.Fatalf("cell = %d, want 50", m.At(0, 0))
	}
}

func TestMatrixFromImageRejectsTooSmallSource(t *testing.T) {
	img := grayImage(2, 2, func(int, int) uint8 { return 0 })
	if _, err := MatrixFromImage(img, 4, 4); err == nil {
		t.Fatalf("image smaller than sample grid accepted")
	}
}

func TestNewBrowserRejectsBadSampleDimensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleWidth = 0
	if _, err := NewBrowser(cfg); err == nil {
		t.Fatalf("zero sample width accepted")
	}
}
