package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/color-regions/internal/imaging"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillRect paints r onto img in color c
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func bandByName(t *testing.T, name string) Band {
	t.Helper()
	for _, b := range Bands() {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no band named %s", name)
	return Band{}
}

func countOn(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v == MaskOn {
			n++
		}
	}
	return n
}

func TestSegment(t *testing.T) {
	img := createTestImage(100, 100, color.Black)
	fillRect(img, image.Rect(10, 10, 30, 40), color.RGBA{255, 0, 0, 255})
	fillRect(img, image.Rect(60, 60, 90, 70), color.RGBA{0, 0, 255, 255})

	hsv := imaging.ToHSV(img)

	redMask := Segment(hsv, bandByName(t, "Red"))
	if redMask.Bounds() != img.Bounds() {
		t.Fatalf("mask bounds: got %v, want %v", redMask.Bounds(), img.Bounds())
	}
	if got := countOn(redMask); got != 20*30 {
		t.Errorf("red pixels: got %d, want %d", got, 20*30)
	}
	if redMask.GrayAt(15, 15).Y != MaskOn {
		t.Error("expected red pixel to be in the Red mask")
	}
	if redMask.GrayAt(70, 65).Y != MaskOff {
		t.Error("blue pixel should not be in the Red mask")
	}

	blueMask := Segment(hsv, bandByName(t, "Blue"))
	if got := countOn(blueMask); got != 30*10 {
		t.Errorf("blue pixels: got %d, want %d", got, 30*10)
	}
}

func TestSegment_NoMatches(t *testing.T) {
	img := createTestImage(50, 50, color.RGBA{128, 128, 128, 255})
	hsv := imaging.ToHSV(img)

	for _, band := range Bands() {
		if got := countOn(Segment(hsv, band)); got != 0 {
			t.Errorf("band %s: expected empty mask for gray image, got %d pixels", band.Name, got)
		}
	}
}

func TestSegment_ValuesAreBinary(t *testing.T) {
	hsv := imaging.ToHSV(createTestImage(20, 20, color.RGBA{0, 255, 0, 255}))
	mask := Segment(hsv, bandByName(t, "Green"))

	for i, v := range mask.Pix {
		if v != MaskOn && v != MaskOff {
			t.Fatalf("mask byte %d has non-binary value %d", i, v)
		}
	}
	if countOn(mask) != 400 {
		t.Errorf("expected every pixel in the Green mask, got %d", countOn(mask))
	}
}

func TestSegment_LeavesInputUnchanged(t *testing.T) {
	hsv := imaging.ToHSV(createTestImage(10, 10, color.RGBA{255, 0, 0, 255}))
	before := append([]uint8(nil), hsv.Pix...)

	Segment(hsv, bandByName(t, "Red"))

	for i := range before {
		if before[i] != hsv.Pix[i] {
			t.Fatalf("HSV byte %d changed from %d to %d", i, before[i], hsv.Pix[i])
		}
	}
}
