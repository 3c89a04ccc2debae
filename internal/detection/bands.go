package detection

import "github.com/ironsheep/color-regions/internal/imaging"

// Band is a named, inclusive HSV range.
//
// Ranges are not hue-circular: Lower.H must not exceed Upper.H. Neighboring
// bands may overlap, in which case a pixel belongs to both.
type Band struct {
	Name  string      `json:"name"`
	Lower imaging.HSV `json:"lower"`
	Upper imaging.HSV `json:"upper"`
}

// Contains reports whether every channel of c lies within the band's range.
func (b Band) Contains(c imaging.HSV) bool {
	return c.H >= b.Lower.H && c.H <= b.Upper.H &&
		c.S >= b.Lower.S && c.S <= b.Upper.S &&
		c.V >= b.Lower.V && c.V <= b.Upper.V
}

var bandTable = [...]Band{
	{Name: "Red", Lower: imaging.HSV{H: 0, S: 100, V: 100}, Upper: imaging.HSV{H: 10, S: 255, V: 255}},
	{Name: "Orange", Lower: imaging.HSV{H: 10, S: 150, V: 150}, Upper: imaging.HSV{H: 25, S: 255, V: 255}},
	{Name: "Yellow", Lower: imaging.HSV{H: 25, S: 150, V: 150}, Upper: imaging.HSV{H: 40, S: 255, V: 255}},
	{Name: "Green", Lower: imaging.HSV{H: 35, S: 100, V: 100}, Upper: imaging.HSV{H: 85, S: 255, V: 255}},
	{Name: "Cyan", Lower: imaging.HSV{H: 85, S: 100, V: 100}, Upper: imaging.HSV{H: 95, S: 255, V: 255}},
	{Name: "Blue", Lower: imaging.HSV{H: 90, S: 100, V: 100}, Upper: imaging.HSV{H: 140, S: 255, V: 255}},
	{Name: "Purple", Lower: imaging.HSV{H: 130, S: 100, V: 100}, Upper: imaging.HSV{H: 150, S: 255, V: 255}},
	{Name: "Pink", Lower: imaging.HSV{H: 145, S: 80, V: 180}, Upper: imaging.HSV{H: 170, S: 200, V: 255}},
}

// Bands returns the color band table in detection order.
//
// The returned slice is a fresh copy; modifying it does not affect later calls.
func Bands() []Band {
	out := make([]Band, len(bandTable))
	copy(out, bandTable[:])
	return out
}
