package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// Letterbox computes how a srcW x srcH image fits into a dstW x dstH canvas.
//
// A single scale factor min(dstW/srcW, dstH/srcH) is applied to both axes so
// the image is never distorted. Scaled dimensions are truncated toward zero
// (minimum 1 pixel) and the scaled image is centered with integer division:
//
//	offset.X = (dstW - scaled.X) / 2
//	offset.Y = (dstH - scaled.Y) / 2
//
// When the leftover space is odd the image sits one pixel closer to the
// top-left corner.
func Letterbox(srcW, srcH, dstW, dstH int) (scaled, offset image.Point) {
	scaleW := float64(dstW) / float64(srcW)
	scaleH := float64(dstH) / float64(srcH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	scaled.X = int(float64(srcW) * scale)
	scaled.Y = int(float64(srcH) * scale)
	if scaled.X < 1 {
		scaled.X = 1
	}
	if scaled.Y < 1 {
		scaled.Y = 1
	}

	offset.X = (dstW - scaled.X) / 2
	offset.Y = (dstH - scaled.Y) / 2
	return scaled, offset
}

// Normalize rescales src into a width x height canvas, preserving aspect ratio.
//
// The source is resized with a box (area-averaging) filter and pasted onto a
// black canvas at the offset computed by Letterbox. Any alpha channel in the
// source is dropped: the returned canvas is fully opaque and keeps the source's
// straight color values.
//
// The returned *image.RGBA has bounds (0,0)-(width,height) and is owned by
// the caller.
func Normalize(src image.Image, width, height int) *image.RGBA {
	bounds := src.Bounds()
	scaled, offset := Letterbox(bounds.Dx(), bounds.Dy(), width, height)

	resized := src
	if scaled.X != bounds.Dx() || scaled.Y != bounds.Dy() {
		resized = imaging.Resize(src, scaled.X, scaled.Y, imaging.Box)
	}

	padded := imaging.Paste(imaging.New(width, height, color.Black), resized, offset)

	// Opaque canvas: keep the straight color bytes, discard transparency.
	for i := 3; i < len(padded.Pix); i += 4 {
		padded.Pix[i] = 0xff
	}

	return clone.AsRGBA(padded)
}
