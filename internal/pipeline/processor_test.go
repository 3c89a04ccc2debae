package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/color-regions/internal/config"
	"github.com/ironsheep/color-regions/internal/imaging"
	"github.com/ironsheep/color-regions/internal/logger"
)

// createTestImage creates an opaque image filled with bg
func createTestImage(width, height int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
	gray = color.RGBA{128, 128, 128, 255}
)

// logEntry is one call recorded by recordingLogger.
type logEntry struct {
	level     string
	component string
	message   string
	err       error
	fields    logger.Fields
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(e logEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *recordingLogger) Info(component, message string, fields logger.Fields) {
	l.add(logEntry{level: "info", component: component, message: message, fields: fields})
}

func (l *recordingLogger) Error(component, message string, err error, fields logger.Fields) {
	l.add(logEntry{level: "error", component: component, message: message, err: err, fields: fields})
}

func (l *recordingLogger) Warning(component, message string, fields logger.Fields) {
	l.add(logEntry{level: "warn", component: component, message: message, fields: fields})
}

func (l *recordingLogger) Debug(component, message string, fields logger.Fields) {
	l.add(logEntry{level: "debug", component: component, message: message, fields: fields})
}

func (l *recordingLogger) byLevel(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func TestAnnotate_SingleRedRectangle(t *testing.T) {
	img := createTestImage(800, 800, color.Black)
	fillRect(img, image.Rect(300, 300, 400, 400), red)

	p := NewProcessor(config.Default())
	canvas, detections := p.Annotate(img)

	if canvas.Bounds() != image.Rect(0, 0, 800, 800) {
		t.Errorf("canvas bounds: got %v", canvas.Bounds())
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %+v", len(detections), detections)
	}

	d := detections[0]
	if d.Band != "Red" {
		t.Errorf("band: got %q, want Red", d.Band)
	}
	if d.Bounds != image.Rect(300, 300, 400, 400) {
		t.Errorf("bounds: got %v, want (300,300)-(400,400)", d.Bounds)
	}
	if d.Area != 99*99 {
		t.Errorf("area: got %v, want %d", d.Area, 99*99)
	}
	if d.Anchor != image.Pt(300, 290) {
		t.Errorf("anchor: got %v, want (300,290)", d.Anchor)
	}

	// The box outline is drawn in green over the region edge.
	if c := canvas.RGBAAt(300, 350); c.G < 215 || c.R > 40 {
		t.Errorf("box edge pixel: got %v, want green", c)
	}
	// The region interior keeps its color.
	if c := canvas.RGBAAt(350, 350); c != red {
		t.Errorf("interior pixel: got %v, want %v", c, red)
	}

	// The input is not modified.
	if c := img.RGBAAt(300, 350); c != red {
		t.Errorf("input pixel changed: got %v", c)
	}
}

func TestAnnotate_NoDetectionsLeavesCanvasUnchanged(t *testing.T) {
	// A red patch too small to pass the area threshold.
	small := createTestImage(800, 800, color.Black)
	fillRect(small, image.Rect(10, 10, 60, 60), red)

	tests := []struct {
		name string
		img  *image.RGBA
	}{
		{"black", createTestImage(800, 800, color.Black)},
		{"gray", createTestImage(800, 800, gray)},
		{"letterboxed gray", createTestImage(400, 200, gray)},
		{"white", createTestImage(300, 600, color.White)},
		{"below min area", small},
	}

	cfg := config.Default()
	p := NewProcessor(cfg)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas, detections := p.Annotate(tt.img)
			if len(detections) != 0 {
				t.Fatalf("expected no detections, got %+v", detections)
			}

			want := imaging.Normalize(tt.img, cfg.CanvasWidth, cfg.CanvasHeight)
			if !bytes.Equal(canvas.Pix, want.Pix) {
				t.Error("canvas differs from the normalized input")
			}
		})
	}
}

func TestAnnotate_BandOrder(t *testing.T) {
	img := createTestImage(800, 800, color.Black)
	fillRect(img, image.Rect(100, 500, 220, 620), blue)
	fillRect(img, image.Rect(300, 100, 400, 200), red)

	_, detections := NewProcessor(config.Default()).Annotate(img)
	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %+v", detections)
	}

	// Red comes before Blue in the band table even though Blue is larger.
	if detections[0].Band != "Red" || detections[1].Band != "Blue" {
		t.Errorf("bands: got %s, %s; want Red, Blue", detections[0].Band, detections[1].Band)
	}
	if detections[1].Bounds != image.Rect(100, 500, 220, 620) {
		t.Errorf("blue bounds: got %v", detections[1].Bounds)
	}
	if detections[1].Area != 119*119 {
		t.Errorf("blue area: got %v, want %d", detections[1].Area, 119*119)
	}
}

func TestAnnotate_LargestFirstWithinBand(t *testing.T) {
	img := createTestImage(800, 800, color.Black)
	fillRect(img, image.Rect(50, 400, 150, 500), red)  // 99*99
	fillRect(img, image.Rect(400, 400, 600, 600), red) // 199*199

	_, detections := NewProcessor(config.Default()).Annotate(img)
	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %+v", detections)
	}
	if detections[0].Area < detections[1].Area {
		t.Errorf("areas not descending: %v, %v", detections[0].Area, detections[1].Area)
	}
	if detections[0].Bounds != image.Rect(400, 400, 600, 600) {
		t.Errorf("first bounds: got %v", detections[0].Bounds)
	}
}

func TestAnnotate_DrawingDoesNotFeedLaterBands(t *testing.T) {
	// Green band comes after Red. The green boxes drawn around the red
	// region must not be detected as Green regions.
	img := createTestImage(800, 800, color.Black)
	fillRect(img, image.Rect(100, 100, 500, 500), red)

	_, detections := NewProcessor(config.Default()).Annotate(img)
	for _, d := range detections {
		if d.Band == "Green" {
			t.Errorf("unexpected Green detection %+v", d)
		}
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")

	img := createTestImage(800, 800, color.Black)
	fillRect(img, image.Rect(300, 300, 400, 400), red)
	writePNG(t, src, img)

	res, err := NewProcessor(config.Default()).ProcessFile(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if res.Source != src || res.Output != dst {
		t.Errorf("result paths: got %s -> %s", res.Source, res.Output)
	}
	if len(res.Detections) != 1 || res.Detections[0].Band != "Red" {
		t.Errorf("detections: got %+v", res.Detections)
	}

	out, err := imaging.Load(dst)
	if err != nil {
		t.Fatalf("failed to load output: %v", err)
	}
	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 800 {
		t.Errorf("output size: got %v", out.Bounds())
	}
}

func TestProcessFile_DecodeError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	dst := filepath.Join(dir, "out.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := NewProcessor(config.Default()).ProcessFile(context.Background(), src, dst)
	var decodeErr *imaging.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *imaging.DecodeError, got %v", err)
	}
	if decodeErr.Path != src {
		t.Errorf("error path: got %s, want %s", decodeErr.Path, src)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat err = %v", err)
	}
}

func TestProcessFile_WriteError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, createTestImage(50, 50, gray))

	dst := filepath.Join(dir, "missing", "out.png")
	_, err := NewProcessor(config.Default()).ProcessFile(context.Background(), src, dst)
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
	var decodeErr *imaging.DecodeError
	if errors.As(err, &decodeErr) {
		t.Errorf("write failure reported as decode error: %v", err)
	}
}

func TestProcessFile_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	writePNG(t, src, createTestImage(50, 50, gray))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProcessor(config.Default()).ProcessFile(ctx, src, dst); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat err = %v", err)
	}
}
