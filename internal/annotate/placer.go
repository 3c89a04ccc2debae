package annotate

import (
	"image"

	"github.com/ironsheep/color-regions/internal/config"
)

// Placer assigns label anchors for one image and remembers them so later
// labels can avoid earlier ones.
//
// The collision check is greedy: a new anchor is compared against previous
// anchors in the order they were placed, and only the first collision moves
// it. The moved anchor is not re-checked, so three or more labels can still
// overlap.
type Placer struct {
	cfg     config.Label
	anchors []image.Point
}

// NewPlacer returns a Placer with no anchors.
func NewPlacer(cfg config.Label) *Placer {
	return &Placer{cfg: cfg}
}

// Place computes the label anchor for box, records it and returns it.
//
// The default anchor is AboveOffset pixels above the box's top-left corner.
// If that would not leave the anchor below MinTop, the anchor goes
// BelowOffset pixels under the box's bottom edge instead. When the anchor is
// within OverlapX horizontally and OverlapY vertically of a previous anchor,
// its y becomes that anchor's y plus ShiftStep.
//
// Anchors may fall outside the canvas; no clamping is done.
func (p *Placer) Place(box image.Rectangle) image.Point {
	x, y := box.Min.X, box.Min.Y

	anchor := image.Point{X: x, Y: y + box.Dy() + p.cfg.BelowOffset}
	if y-p.cfg.AboveOffset > p.cfg.MinTop {
		anchor.Y = y - p.cfg.AboveOffset
	}

	for _, prev := range p.anchors {
		if abs(anchor.X-prev.X) < p.cfg.OverlapX && abs(anchor.Y-prev.Y) < p.cfg.OverlapY {
			anchor.Y = prev.Y + p.cfg.ShiftStep
			break
		}
	}

	p.anchors = append(p.anchors, anchor)
	return anchor
}

// Anchors returns a copy of the anchors placed so far, in placement order.
func (p *Placer) Anchors() []image.Point {
	out := make([]image.Point, len(p.anchors))
	copy(out, p.anchors)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
