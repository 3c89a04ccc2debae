package detection

import (
	"image"

	"github.com/ironsheep/color-regions/internal/imaging"
)

// Mask values written by Segment.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// Segment builds a binary mask of the pixels of hsv that fall inside band.
//
// The mask has the same bounds as hsv. In-band pixels are MaskOn (255), all
// others MaskOff (0). hsv is not modified.
func Segment(hsv *imaging.HSVImage, band Band) *image.Gray {
	bounds := hsv.Bounds()
	mask := image.NewGray(bounds)

	width := bounds.Dx()
	height := bounds.Dy()
	for y := 0; y < height; y++ {
		src := hsv.Pix[y*hsv.Stride : y*hsv.Stride+width*3]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x := 0; x < width; x++ {
			c := imaging.HSV{H: src[x*3], S: src[x*3+1], V: src[x*3+2]}
			if band.Contains(c) {
				dst[x] = MaskOn
			}
		}
	}

	return mask
}
