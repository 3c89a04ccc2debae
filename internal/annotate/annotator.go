package annotate

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ironsheep/color-regions/internal/config"
)

// baseFontSize is the label font size in points at FontScale 1.0.
const baseFontSize = 22.0

var labelFont *truetype.Font

// init sets up the font used for labels.
func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Annotator draws boxes and labels directly onto a canvas.
type Annotator struct {
	dc  *gg.Context
	cfg config.Config
}

// New returns an Annotator that draws into canvas in place.
//
// The font face is created per Annotator because TrueType faces cache glyphs
// and are not safe for concurrent use.
func New(canvas *image.RGBA, cfg config.Config) *Annotator {
	dc := gg.NewContextForRGBA(canvas)
	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: cfg.FontScale * baseFontSize}))
	return &Annotator{dc: dc, cfg: cfg}
}

// TextSize returns the rendered width and height of label in pixels.
func (a *Annotator) TextSize(label string) (float64, float64) {
	return a.dc.MeasureString(label)
}

// Annotate draws one detection.
//
// The box outline goes from box.Min to box.Max in BoxColor with the
// configured thickness. The label background is a filled BoxColor rectangle
// from (anchor.X, anchor.Y-textHeight-margin) to
// (anchor.X+textWidth+margin, anchor.Y+margin), and the label text is drawn
// in TextColor with its baseline at the anchor.
func (a *Annotator) Annotate(box image.Rectangle, label string, anchor image.Point) {
	dc := a.dc

	dc.SetColor(a.cfg.BoxColor.RGBA)
	dc.SetLineWidth(a.cfg.Thickness)
	dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
	dc.Stroke()

	tw, th := a.TextSize(label)
	margin := float64(a.cfg.Label.Margin)
	ax, ay := float64(anchor.X), float64(anchor.Y)

	dc.DrawRectangle(ax, ay-th-margin, tw+margin, th+2*margin)
	dc.Fill()

	dc.SetColor(a.cfg.TextColor.RGBA)
	dc.DrawString(label, ax, ay)
}
