package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/color-regions/internal/annotate"
	"github.com/ironsheep/color-regions/internal/config"
	"github.com/ironsheep/color-regions/internal/detection"
	"github.com/ironsheep/color-regions/internal/imaging"
)

// Detection is one annotated region.
type Detection struct {
	// Band is the name of the color band the region belongs to.
	Band string `json:"band"`

	// Bounds is the region's bounding box on the canvas.
	Bounds image.Rectangle `json:"bounds"`

	// Area is the contour area used for the minimum-area check.
	Area float64 `json:"area"`

	// Anchor is the baseline-left point of the label text.
	Anchor image.Point `json:"anchor"`
}

// Result describes one processed file.
type Result struct {
	Source     string      `json:"source"`
	Output     string      `json:"output"`
	Detections []Detection `json:"detections"`
}

// Processor runs the per-image pipeline. It holds no per-image state and is
// safe for concurrent use.
type Processor struct {
	cfg   config.Config
	bands []detection.Band
}

// NewProcessor returns a Processor using cfg and the built-in band table.
func NewProcessor(cfg config.Config) *Processor {
	return &Processor{
		cfg:   cfg,
		bands: detection.Bands(),
	}
}

// Annotate normalizes img onto a new canvas and draws every detected region.
//
// Detections are returned in drawing order: bands in table order, and
// within a band regions from largest to smallest. img is not modified.
func (p *Processor) Annotate(img image.Image) (*image.RGBA, []Detection) {
	canvas := imaging.Normalize(img, p.cfg.CanvasWidth, p.cfg.CanvasHeight)
	hsv := imaging.ToHSV(canvas)

	placer := annotate.NewPlacer(p.cfg.Label)
	annotator := annotate.New(canvas, p.cfg)

	var detections []Detection
	for _, band := range p.bands {
		mask := detection.Segment(hsv, band)
		for _, region := range detection.ExtractRegions(mask, p.cfg.MinArea) {
			anchor := placer.Place(region.Bounds)
			annotator.Annotate(region.Bounds, band.Name, anchor)

			detections = append(detections, Detection{
				Band:   band.Name,
				Bounds: region.Bounds,
				Area:   region.Area,
				Anchor: anchor,
			})
		}
	}

	return canvas, detections
}

// ProcessFile decodes src, annotates it and writes the result to dst.
//
// # Errors
//
//   - Returns ctx.Err() if ctx is already done; nothing is read or written
//   - Returns *imaging.DecodeError if src cannot be opened or decoded
//   - Returns a wrapped error if dst cannot be written; dst is left untouched
func (p *Processor) ProcessFile(ctx context.Context, src, dst string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	img, err := imaging.Load(src)
	if err != nil {
		return Result{}, err
	}

	canvas, detections := p.Annotate(img)

	if err := imaging.Save(canvas, dst); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return Result{
		Source:     src,
		Output:     dst,
		Detections: detections,
	}, nil
}
