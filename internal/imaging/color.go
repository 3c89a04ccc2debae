package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"
)

// HSV represents a color in 8-bit HSV space.
//
// The channel ranges follow the usual computer vision convention:
//   - H: 0-179 (degrees divided by two)
//   - S: 0-255
//   - V: 0-255
type HSV struct {
	H uint8 `json:"h"` // Hue in half-degrees (0=red, 60=green, 120=blue)
	S uint8 `json:"s"` // Saturation (0=gray, 255=vivid)
	V uint8 `json:"v"` // Value (0=black, 255=full brightness)
}

// HSVImage is a three-channel HSV pixel buffer.
//
// Pixels are stored row-major as consecutive H, S, V bytes. The layout mirrors
// image.RGBA with three channels instead of four.
type HSVImage struct {
	// Pix holds the pixel data. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8

	// Stride is the byte distance between vertically adjacent pixels.
	Stride int

	// Rect is the image bounds, identical to the source canvas bounds.
	Rect image.Rectangle
}

// Bounds returns the image bounds.
func (p *HSVImage) Bounds() image.Rectangle {
	return p.Rect
}

// PixOffset returns the index of the first byte of pixel (x, y) in Pix.
func (p *HSVImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// HSVAt returns the HSV value at (x, y). Points outside the bounds return
// the zero HSV (black).
func (p *HSVImage) HSVAt(x, y int) HSV {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return HSV{}
	}
	i := p.PixOffset(x, y)
	return HSV{H: p.Pix[i], S: p.Pix[i+1], V: p.Pix[i+2]}
}

// ToHSV converts an opaque RGBA canvas to HSV.
//
// The conversion runs once per image and the result is shared by every color
// band. Rows are converted in parallel; the output does not depend on the
// number of workers.
//
// The canvas must be opaque (as returned by Normalize). Translucent pixels are
// read as their premultiplied bytes.
func ToHSV(img *image.RGBA) *HSVImage {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := &HSVImage{
		Pix:    make([]uint8, width*height*3),
		Stride: width * 3,
		Rect:   bounds,
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				i := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				hsv := rgbToHSV(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
				j := y*out.Stride + x*3
				out.Pix[j] = hsv.H
				out.Pix[j+1] = hsv.S
				out.Pix[j+2] = hsv.V
			}
		}
	})

	return out
}

// rgbToHSV converts 8-bit RGB values to 8-bit HSV.
//
// go-colorful yields hue in degrees (0-360) and saturation/value in 0-1.
// Those are rescaled and rounded:
//
//	H = round(h / 2), wrapped so 180 becomes 0
//	S = round(s * 255)
//	V = round(v * 255)
//
// Gray pixels (R == G == B) have hue 0 and saturation 0.
func rgbToHSV(r, g, b uint8) HSV {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()

	hue := int(math.Round(h / 2))
	if hue >= 180 {
		hue -= 180
	}

	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
//
// The leading '#' is optional. Six-digit values are fully opaque; eight-digit
// values carry alpha in the last byte.
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// HexString formats c as "#RRGGBB", dropping alpha.
func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
